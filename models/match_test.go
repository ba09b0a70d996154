package models

import (
	"encoding/json"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestLineupEntryUnmarshal(t *testing.T) {
	convey.Convey("Given a lineup entry in the current format", t, func() {
		raw := `{"player_id": 5, "runs": 42, "balls_faced": 30, "fours": 4, "sixes": 1,
			"wickets": 2, "balls_bowled": 18, "runs_conceded": 25, "dismissed": true,
			"batting_order": 3, "is_captain": true}`

		var entry LineupEntry
		err := json.Unmarshal([]byte(raw), &entry)

		convey.So(err, convey.ShouldBeNil)
		convey.So(entry.PlayerID, convey.ShouldEqual, 5)
		convey.So(entry.Runs, convey.ShouldEqual, 42.0)
		convey.So(entry.BallsFaced, convey.ShouldEqual, 30.0)
		convey.So(entry.Wickets, convey.ShouldEqual, 2.0)
		convey.So(entry.Dismissed, convey.ShouldBeTrue)
		convey.So(entry.BattingOrder, convey.ShouldEqual, 3)
		convey.So(entry.IsCaptain, convey.ShouldBeTrue)
	})

	convey.Convey("Given a legacy document with aliased keys", t, func() {
		raw := `{"playerId": 9, "runs_scored": 17, "balls": 12, "4s": 2,
			"wickets_taken": 1, "deliveries": 6, "runs_given": 8, "is_out": true,
			"position": 7, "captain": true, "wicket_keeper": true}`

		var entry LineupEntry
		err := json.Unmarshal([]byte(raw), &entry)

		convey.So(err, convey.ShouldBeNil)
		convey.So(entry.PlayerID, convey.ShouldEqual, 9)
		convey.So(entry.Runs, convey.ShouldEqual, 17.0)
		convey.So(entry.BallsFaced, convey.ShouldEqual, 12.0)
		convey.So(entry.Fours, convey.ShouldEqual, 2.0)
		convey.So(entry.Wickets, convey.ShouldEqual, 1.0)
		convey.So(entry.BallsBowled, convey.ShouldEqual, 6.0)
		convey.So(entry.RunsConceded, convey.ShouldEqual, 8.0)
		convey.So(entry.Dismissed, convey.ShouldBeTrue)
		convey.So(entry.BattingOrder, convey.ShouldEqual, 7)
		convey.So(entry.IsCaptain, convey.ShouldBeTrue)
		convey.So(entry.IsKeeper, convey.ShouldBeTrue)
	})

	convey.Convey("Given both a canonical key and its alias", t, func() {
		raw := `{"player_id": 1, "runs": 50, "runs_scored": 10}`

		var entry LineupEntry
		err := json.Unmarshal([]byte(raw), &entry)

		convey.Convey("Then the canonical key wins", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(entry.Runs, convey.ShouldEqual, 50.0)
		})
	})

	convey.Convey("Given garbage values", t, func() {
		raw := `{"player_id": 2, "runs": "lots", "balls_faced": null, "dismissed": "yes"}`

		var entry LineupEntry
		err := json.Unmarshal([]byte(raw), &entry)

		convey.Convey("Then unreadable fields degrade to zero values", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(entry.PlayerID, convey.ShouldEqual, 2)
			convey.So(entry.Runs, convey.ShouldEqual, 0.0)
			convey.So(entry.BallsFaced, convey.ShouldEqual, 0.0)
			convey.So(entry.Dismissed, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given an empty object", t, func() {
		var entry LineupEntry
		err := json.Unmarshal([]byte(`{}`), &entry)

		convey.So(err, convey.ShouldBeNil)
		convey.So(entry, convey.ShouldResemble, LineupEntry{})
	})
}

func TestMatchStatusEligible(t *testing.T) {
	convey.Convey("Only completed and finished matches feed aggregation", t, func() {
		convey.So(MatchStatusCompleted.Eligible(), convey.ShouldBeTrue)
		convey.So(MatchStatusFinished.Eligible(), convey.ShouldBeTrue)
		convey.So(MatchStatusUpcoming.Eligible(), convey.ShouldBeFalse)
		convey.So(MatchStatusLive.Eligible(), convey.ShouldBeFalse)
	})
}

func TestMatchStageValid(t *testing.T) {
	convey.Convey("Known stages validate, arbitrary strings do not", t, func() {
		convey.So(StageGroup.Valid(), convey.ShouldBeTrue)
		convey.So(StageFinal.Valid(), convey.ShouldBeTrue)
		convey.So(MatchStage("quarterfinalish").Valid(), convey.ShouldBeFalse)
		convey.So(MatchStage("").Valid(), convey.ShouldBeFalse)
	})
}
