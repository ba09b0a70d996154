package stats

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pitchside/crease/models"
)

const (
	pointsPerWin = 2
	pointsPerTie = 1
)

// ParseOversBalls converts an overs string like "14.3" to a ball count
// (14*6+3). Malformed input yields 0.
func ParseOversBalls(overs string) int {
	overs = strings.TrimSpace(overs)
	if overs == "" {
		return 0
	}
	whole, frac, _ := strings.Cut(overs, ".")
	o, err := strconv.Atoi(whole)
	if err != nil || o < 0 {
		return 0
	}
	balls := 0
	if frac != "" {
		b, err := strconv.Atoi(frac)
		if err != nil || b < 0 {
			return 0
		}
		balls = b
	}
	return o*6 + balls
}

func sideBalls(side models.MatchSide) int {
	if side.Balls > 0 {
		return side.Balls
	}
	return ParseOversBalls(side.Overs)
}

// ComputeGroupStandings builds the ranked group tables for a tournament from
// its finished group-stage matches. It holds no state and writes nothing, so
// it is safe to call concurrently; the output is deterministic for a given
// input set.
func ComputeGroupStandings(groups []models.Group, squads map[int]*models.Squad, matches []*models.Match) (map[string][]models.TeamStanding, []models.Qualifier) {
	rows := make(map[int]*models.TeamStanding)
	for _, g := range groups {
		for _, squadID := range g.SquadIDs {
			row := &models.TeamStanding{
				SquadID:   squadID,
				GroupKey:  g.Key,
				GroupName: g.Name,
			}
			if sq, ok := squads[squadID]; ok {
				row.SquadName = sq.Name
			}
			rows[squadID] = row
		}
	}

	for _, m := range matches {
		if !m.Status.Eligible() {
			continue
		}
		// An unset stage predates stage tagging and is treated as group play.
		if m.Stage != "" && m.Stage != models.StageGroup {
			continue
		}
		a, okA := rows[m.SideA.SquadID]
		b, okB := rows[m.SideB.SquadID]
		if !okA || !okB {
			continue
		}
		applyMatch(a, m.SideA, m.SideB)
		applyMatch(b, m.SideB, m.SideA)
	}

	standingsByGroup := make(map[string][]models.TeamStanding, len(groups))
	var qualifiers []models.Qualifier
	for _, g := range groups {
		table := make([]models.TeamStanding, 0, len(g.SquadIDs))
		for _, squadID := range g.SquadIDs {
			row := rows[squadID]
			row.NetRunRate = netRunRate(row)
			table = append(table, *row)
		}
		rankTable(table)
		standingsByGroup[g.Key] = table

		slots := g.QualifierSlots
		if slots < 1 {
			slots = 1
		}
		if slots > len(table) {
			slots = len(table)
		}
		for i := 0; i < slots; i++ {
			qualifiers = append(qualifiers, models.Qualifier{TeamStanding: table[i], Position: i + 1})
		}
	}
	return standingsByGroup, qualifiers
}

func applyMatch(row *models.TeamStanding, own, other models.MatchSide) {
	row.Matches++
	row.RunsFor += own.Runs
	row.RunsAgainst += other.Runs
	row.BallsFaced += sideBalls(own)
	row.BallsBowled += sideBalls(other)

	switch {
	case own.Runs > other.Runs:
		row.Wins++
		row.Points += pointsPerWin
	case own.Runs < other.Runs:
		row.Losses++
	default:
		row.Ties++
		row.Points += pointsPerTie
	}
}

func netRunRate(row *models.TeamStanding) float64 {
	scored := 0.0
	if row.BallsFaced > 0 {
		scored = float64(row.RunsFor) / (float64(row.BallsFaced) / 6)
	}
	conceded := 0.0
	if row.BallsBowled > 0 {
		conceded = float64(row.RunsAgainst) / (float64(row.BallsBowled) / 6)
	}
	return round3(scored - conceded)
}

// rankTable orders a group: points, then net run rate, then squad name.
// Head-to-head results are intentionally not consulted, matching the scoring
// system this engine replaces.
func rankTable(table []models.TeamStanding) {
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].NetRunRate != table[j].NetRunRate {
			return table[i].NetRunRate > table[j].NetRunRate
		}
		return table[i].SquadName < table[j].SquadName
	})
}
