package stats

import (
	"testing"

	"github.com/pitchside/crease/models"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseOversBalls(t *testing.T) {
	convey.Convey("Given overs strings", t, func() {
		convey.Convey("Whole overs convert at six balls each", func() {
			convey.So(ParseOversBalls("14"), convey.ShouldEqual, 84)
			convey.So(ParseOversBalls("20"), convey.ShouldEqual, 120)
		})

		convey.Convey("The fractional part is a ball count, not a decimal", func() {
			convey.So(ParseOversBalls("14.3"), convey.ShouldEqual, 87)
			convey.So(ParseOversBalls("0.5"), convey.ShouldEqual, 5)
		})

		convey.Convey("Malformed input yields zero", func() {
			convey.So(ParseOversBalls(""), convey.ShouldEqual, 0)
			convey.So(ParseOversBalls("abc"), convey.ShouldEqual, 0)
			convey.So(ParseOversBalls("-2"), convey.ShouldEqual, 0)
			convey.So(ParseOversBalls("14.x"), convey.ShouldEqual, 0)
		})

		convey.Convey("Whitespace is tolerated", func() {
			convey.So(ParseOversBalls(" 14.3 "), convey.ShouldEqual, 87)
		})
	})
}

func groupFixture() ([]models.Group, map[int]*models.Squad) {
	groups := []models.Group{
		{Key: "a", Name: "Group A", SquadIDs: []int{1, 2, 3}, QualifierSlots: 2},
	}
	squads := map[int]*models.Squad{
		1: {ID: 1, Name: "Falcons"},
		2: {ID: 2, Name: "Tigers"},
		3: {ID: 3, Name: "Vikings"},
	}
	return groups, squads
}

func groupMatch(a, runsA, ballsA, b, runsB, ballsB int) *models.Match {
	return &models.Match{
		Status: models.MatchStatusCompleted,
		Stage:  models.StageGroup,
		SideA:  models.MatchSide{SquadID: a, Runs: runsA, Balls: ballsA},
		SideB:  models.MatchSide{SquadID: b, Runs: runsB, Balls: ballsB},
	}
}

func TestComputeGroupStandings(t *testing.T) {
	convey.Convey("Given one group and a set of finished matches", t, func() {
		groups, squads := groupFixture()

		convey.Convey("When a team scores 120 in 20 overs and concedes 110 in 20", func() {
			matches := []*models.Match{groupMatch(1, 120, 120, 2, 110, 120)}
			tables, _ := ComputeGroupStandings(groups, squads, matches)

			convey.Convey("Then its net run rate is exactly 0.5", func() {
				table := tables["a"]
				convey.So(table[0].SquadID, convey.ShouldEqual, 1)
				convey.So(table[0].NetRunRate, convey.ShouldEqual, 0.5)
				convey.So(table[1].NetRunRate, convey.ShouldEqual, -0.5)
			})

			convey.Convey("And the winner takes two points", func() {
				table := tables["a"]
				convey.So(table[0].Points, convey.ShouldEqual, 2)
				convey.So(table[1].Points, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When a match is tied", func() {
			matches := []*models.Match{groupMatch(1, 100, 120, 2, 100, 120)}
			tables, _ := ComputeGroupStandings(groups, squads, matches)

			convey.Convey("Then both sides take one point", func() {
				for _, row := range tables["a"] {
					if row.Matches > 0 {
						convey.So(row.Points, convey.ShouldEqual, 1)
						convey.So(row.Ties, convey.ShouldEqual, 1)
					}
				}
			})
		})

		convey.Convey("When matches are not yet finished or not group stage", func() {
			live := groupMatch(1, 50, 30, 2, 40, 30)
			live.Status = models.MatchStatusLive
			knockout := groupMatch(1, 150, 120, 2, 140, 120)
			knockout.Stage = models.StageSemiFinal
			tables, _ := ComputeGroupStandings(groups, squads, []*models.Match{live, knockout})

			convey.Convey("Then they do not count", func() {
				for _, row := range tables["a"] {
					convey.So(row.Matches, convey.ShouldEqual, 0)
				}
			})
		})

		convey.Convey("When a match predates stage tagging", func() {
			legacy := groupMatch(1, 90, 120, 2, 80, 120)
			legacy.Stage = ""
			tables, _ := ComputeGroupStandings(groups, squads, []*models.Match{legacy})

			convey.Convey("Then it counts as group play", func() {
				convey.So(tables["a"][0].Matches, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When balls are absent but overs are present", func() {
			m := &models.Match{
				Status: models.MatchStatusFinished,
				Stage:  models.StageGroup,
				SideA:  models.MatchSide{SquadID: 1, Runs: 120, Overs: "20"},
				SideB:  models.MatchSide{SquadID: 2, Runs: 110, Overs: "20"},
			}
			tables, _ := ComputeGroupStandings(groups, squads, []*models.Match{m})

			convey.Convey("Then the overs string feeds the run rate", func() {
				convey.So(tables["a"][0].NetRunRate, convey.ShouldEqual, 0.5)
			})
		})

		convey.Convey("When two teams are level on points", func() {
			matches := []*models.Match{
				// Falcons beat Vikings by a wide margin, Tigers narrowly.
				// Head-to-head results never enter the ranking.
				groupMatch(1, 150, 120, 3, 100, 120),
				groupMatch(2, 120, 120, 3, 115, 120),
			}
			tables, _ := ComputeGroupStandings(groups, squads, matches)

			convey.Convey("Then net run rate breaks the tie", func() {
				table := tables["a"]
				convey.So(table[0].SquadID, convey.ShouldEqual, 1)
				convey.So(table[1].SquadID, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When points and net run rate are both level", func() {
			tables, _ := ComputeGroupStandings(groups, squads, nil)

			convey.Convey("Then squad name decides, so ranking is deterministic", func() {
				table := tables["a"]
				convey.So(table[0].SquadName, convey.ShouldEqual, "Falcons")
				convey.So(table[1].SquadName, convey.ShouldEqual, "Tigers")
				convey.So(table[2].SquadName, convey.ShouldEqual, "Vikings")
			})
		})

		convey.Convey("When qualifiers are requested", func() {
			matches := []*models.Match{groupMatch(1, 120, 120, 2, 110, 120)}
			_, qualifiers := ComputeGroupStandings(groups, squads, matches)

			convey.Convey("Then the top of each group qualifies with its position", func() {
				convey.So(len(qualifiers), convey.ShouldEqual, 2)
				convey.So(qualifiers[0].SquadID, convey.ShouldEqual, 1)
				convey.So(qualifiers[0].Position, convey.ShouldEqual, 1)
				convey.So(qualifiers[1].Position, convey.ShouldEqual, 2)
			})
		})
	})

	convey.Convey("Given two groups", t, func() {
		groups := []models.Group{
			{Key: "a", Name: "Group A", SquadIDs: []int{1, 2}, QualifierSlots: 1},
			{Key: "b", Name: "Group B", SquadIDs: []int{3, 4}, QualifierSlots: 1},
		}
		squads := map[int]*models.Squad{
			1: {ID: 1, Name: "Falcons"}, 2: {ID: 2, Name: "Tigers"},
			3: {ID: 3, Name: "Vikings"}, 4: {ID: 4, Name: "Sharks"},
		}
		matches := []*models.Match{
			groupMatch(1, 120, 120, 2, 110, 120),
			groupMatch(4, 90, 120, 3, 80, 120),
		}

		tables, qualifiers := ComputeGroupStandings(groups, squads, matches)

		convey.Convey("Then each group keeps its own table", func() {
			convey.So(len(tables), convey.ShouldEqual, 2)
			convey.So(tables["a"][0].SquadID, convey.ShouldEqual, 1)
			convey.So(tables["b"][0].SquadID, convey.ShouldEqual, 4)
		})

		convey.Convey("Then qualifiers follow group declaration order", func() {
			convey.So(len(qualifiers), convey.ShouldEqual, 2)
			convey.So(qualifiers[0].SquadID, convey.ShouldEqual, 1)
			convey.So(qualifiers[1].SquadID, convey.ShouldEqual, 4)
		})
	})
}
