package stats

import (
	"math"
	"sort"

	"github.com/pitchside/crease/models"
)

// AggregateCareer folds a player's match summaries into career totals in a
// single linear pass, then derives the rate statistics from the accumulated
// counters. Rates are never carried over incrementally between calls; drift is
// impossible because every sync recomputes from the full list.
func AggregateCareer(summaries []models.PlayerMatchSummary) models.CareerTotals {
	var t models.CareerTotals

	for _, s := range summaries {
		t.Matches++
		t.Runs += s.Runs
		t.Balls += s.Balls
		t.Fours += s.Fours
		t.Sixes += s.Sixes
		t.Wickets += s.Wickets
		t.BallsBowled += s.BallsBowled
		t.RunsConceded += s.RunsConceded

		if s.Batted {
			t.BattingInnings++
			if s.NotOut {
				t.NotOuts++
			} else {
				t.Dismissals++
			}
		}
		if s.Bowled {
			t.BowlingInnings++
		}

		switch s.Result {
		case models.ResultWon:
			t.Wins++
		case models.ResultLost:
			t.Losses++
		default:
			t.Ties++
		}

		if s.Runs >= 100 {
			t.Hundreds++
		} else if s.Runs >= 50 {
			t.Fifties++
		}
		if s.Runs > t.HighestScore {
			t.HighestScore = s.Runs
		}
	}

	if t.Balls > 0 {
		t.StrikeRate = round2(float64(t.Runs) / float64(t.Balls) * 100)
	}

	// Not-out convention: a batter never dismissed averages their full run
	// tally rather than dividing by zero.
	switch {
	case t.Dismissals > 0:
		t.BattingAverage = round2(float64(t.Runs) / float64(t.Dismissals))
	case t.BattingInnings > 0 && t.Runs > 0:
		t.BattingAverage = float64(t.Runs)
	}

	if t.BallsBowled > 0 {
		t.Economy = round2(float64(t.RunsConceded) / (float64(t.BallsBowled) / 6))
	}

	// Runs conceded without a wicket leave the average undefined. Callers
	// must special-case the +Inf sentinel.
	switch {
	case t.Wickets > 0:
		t.BowlingAverage = models.Rate(round2(float64(t.RunsConceded) / float64(t.Wickets)))
	case t.RunsConceded > 0:
		t.BowlingAverage = models.Rate(math.Inf(1))
	}

	if t.Wickets > 0 {
		t.BowlingStrikeRate = round2(float64(t.BallsBowled) / float64(t.Wickets))
	}

	return t
}

// ReplaceSummary upserts a summary into a past-matches list keyed by match id,
// replacing in place so a re-sync never duplicates an entry.
func ReplaceSummary(past []models.PlayerMatchSummary, summary models.PlayerMatchSummary) []models.PlayerMatchSummary {
	for i := range past {
		if past[i].MatchID == summary.MatchID {
			past[i] = summary
			return past
		}
	}
	return append(past, summary)
}

// RemoveSummary drops the entry for a match id, if present.
func RemoveSummary(past []models.PlayerMatchSummary, matchID int) []models.PlayerMatchSummary {
	out := past[:0]
	for _, s := range past {
		if s.MatchID != matchID {
			out = append(out, s)
		}
	}
	return out
}

// RankKeyPlayers orders a squad's lineup by the weighted contribution score
// runs + wickets*10, drops players with no contribution and returns at most
// limit entries.
func RankKeyPlayers(entries []models.LineupEntry, byID map[int]*models.Player, limit int) []models.KeyPlayer {
	ranked := make([]models.KeyPlayer, 0, len(entries))
	for _, e := range entries {
		runs := int(sanitize(e.Runs))
		wickets := int(sanitize(e.Wickets))
		if runs+wickets*10 <= 0 {
			continue
		}
		kp := models.KeyPlayer{PlayerID: e.PlayerID, Runs: runs, Wickets: wickets}
		if p, ok := byID[e.PlayerID]; ok {
			kp.Name = p.Name
			kp.Role = p.Role
		}
		ranked = append(ranked, kp)
	}

	score := func(p models.KeyPlayer) int { return p.Runs + p.Wickets*10 }
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
