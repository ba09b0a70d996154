package brackets

import (
	"testing"

	"github.com/pitchside/crease/models"
	"github.com/smartystreets/goconvey/convey"
)

func qualifier(squadID, position int) models.Qualifier {
	return models.Qualifier{
		TeamStanding: models.TeamStanding{SquadID: squadID},
		Position:     position,
	}
}

func TestPairQualifiers(t *testing.T) {
	convey.Convey("Given four ranked qualifiers and a two-match stage", t, func() {
		qualifiers := []models.Qualifier{
			qualifier(10, 1), qualifier(20, 2), qualifier(30, 1), qualifier(40, 2),
		}
		stage := models.KnockoutStageDef{Key: "semi_final", Label: "Semi Final", RequiredMatches: 2, Enabled: true}

		pairings, err := PairQualifiers(qualifiers, stage)

		convey.Convey("Then consecutive qualifiers pair up in order", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(pairings), convey.ShouldEqual, 2)
			convey.So(pairings[0].Home.SquadID, convey.ShouldEqual, 10)
			convey.So(pairings[0].Away.SquadID, convey.ShouldEqual, 20)
			convey.So(pairings[1].Home.SquadID, convey.ShouldEqual, 30)
			convey.So(pairings[1].Away.SquadID, convey.ShouldEqual, 40)
			convey.So(pairings[0].Order, convey.ShouldEqual, 0)
			convey.So(pairings[1].Order, convey.ShouldEqual, 1)
		})

		convey.Convey("Then every pairing carries the stage identity and a bracket uid", func() {
			for _, p := range pairings {
				convey.So(p.StageKey, convey.ShouldEqual, "semi_final")
				convey.So(p.StageLabel, convey.ShouldEqual, "Semi Final")
				convey.So(p.IsFinal, convey.ShouldBeFalse)
				convey.So(p.BracketUID, convey.ShouldNotBeEmpty)
			}
			convey.So(pairings[0].BracketUID, convey.ShouldNotEqual, pairings[1].BracketUID)
		})
	})

	convey.Convey("Given a final stage", t, func() {
		stage := models.KnockoutStageDef{Key: "final", Label: "Final", RequiredMatches: 1, Enabled: true}
		pairings, err := PairQualifiers([]models.Qualifier{qualifier(10, 1), qualifier(20, 1)}, stage)

		convey.So(err, convey.ShouldBeNil)
		convey.So(pairings[0].IsFinal, convey.ShouldBeTrue)
	})

	convey.Convey("Given too few qualifiers for the stage", t, func() {
		stage := models.KnockoutStageDef{Key: "semi_final", RequiredMatches: 2, Enabled: true}
		pairings, err := PairQualifiers([]models.Qualifier{qualifier(10, 1), qualifier(20, 2), qualifier(30, 1)}, stage)

		convey.Convey("Then pairing fails closed rather than guessing", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(pairings, convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a stage with no matches configured", t, func() {
		stage := models.KnockoutStageDef{Key: "semi_final", RequiredMatches: 0}
		_, err := PairQualifiers(nil, stage)
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestFixtureFromPairing(t *testing.T) {
	convey.Convey("Given a pairing", t, func() {
		p := Pairing{
			Order:      1,
			Home:       qualifier(10, 1),
			Away:       qualifier(20, 2),
			StageKey:   "final",
			StageLabel: "Final",
			IsFinal:    true,
			BracketUID: "uid-123",
		}

		fixture := FixtureFromPairing(7, p)

		convey.Convey("Then the fixture starts clean and upcoming", func() {
			convey.So(fixture.TournamentID, convey.ShouldEqual, 7)
			convey.So(fixture.Status, convey.ShouldEqual, models.MatchStatusUpcoming)
			convey.So(fixture.SideA.SquadID, convey.ShouldEqual, 10)
			convey.So(fixture.SideB.SquadID, convey.ShouldEqual, 20)
			convey.So(fixture.SideA.Runs, convey.ShouldEqual, 0)
			convey.So(fixture.ChampionRecorded, convey.ShouldBeFalse)
			convey.So(fixture.IsFinal, convey.ShouldBeTrue)
		})

		convey.Convey("Then the bracket identity travels with it", func() {
			convey.So(*fixture.StageKey, convey.ShouldEqual, "final")
			convey.So(*fixture.StageLabel, convey.ShouldEqual, "Final")
			convey.So(*fixture.BracketOrder, convey.ShouldEqual, 1)
			convey.So(*fixture.BracketUID, convey.ShouldEqual, "uid-123")
		})
	})
}
