// Package stats holds the pure statistics derivations of the engine: per-match
// player summaries, career aggregation and group-standings computation. Nothing
// in this package touches storage; every function is deterministic for a given
// input.
package stats

import (
	"math"

	"github.com/pitchside/crease/models"
)

// sanitize coerces non-finite input to 0 so malformed documents degrade to
// zero values instead of poisoning the arithmetic.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// SummaryContext carries the identifying fields a summary needs beyond the
// lineup entry itself.
type SummaryContext struct {
	SquadID      int
	OpponentID   int
	OpponentName string
}

// BuildPlayerMatchSummary derives one player's line for one match. It never
// fails: malformed numbers coerce to zero and an unmatched squad falls back
// to a tied result.
func BuildPlayerMatchSummary(entry models.LineupEntry, match *models.Match, ctx SummaryContext) models.PlayerMatchSummary {
	runs := sanitize(entry.Runs)
	balls := sanitize(entry.BallsFaced)
	wickets := sanitize(entry.Wickets)
	ballsBowled := sanitize(entry.BallsBowled)
	runsConceded := sanitize(entry.RunsConceded)

	strikeRate := 0.0
	if balls > 0 {
		strikeRate = round2(runs / balls * 100)
	}
	economy := 0.0
	if ballsBowled > 0 {
		economy = round2(runsConceded / (ballsBowled / 6))
	}

	// A run-out on zero balls still counts as a batting innings.
	batted := balls > 0 || entry.Dismissed
	bowled := ballsBowled > 0

	venue := ""
	if match.Venue != nil {
		venue = *match.Venue
	}

	return models.PlayerMatchSummary{
		MatchID:      match.ID,
		TournamentID: match.TournamentID,
		OpponentID:   ctx.OpponentID,
		Opponent:     ctx.OpponentName,
		Venue:        venue,
		MatchTime:    match.MatchTime,
		Result:       ResultForSquad(match, ctx.SquadID),

		Runs:       int(runs),
		Balls:      int(balls),
		Fours:      int(sanitize(entry.Fours)),
		Sixes:      int(sanitize(entry.Sixes)),
		StrikeRate: strikeRate,

		Wickets:      int(wickets),
		BallsBowled:  int(ballsBowled),
		RunsConceded: int(runsConceded),
		Economy:      economy,

		Batted:       batted,
		Bowled:       bowled,
		NotOut:       batted && !entry.Dismissed,
		BattingOrder: entry.BattingOrder,
		Captain:      entry.IsCaptain,
		Keeper:       entry.IsKeeper,
	}
}

// ResultForSquad maps a match outcome to one squad's perspective. Explicit
// winner/loser identifiers take precedence; otherwise the side totals are
// compared, and anything unresolvable counts as tied.
func ResultForSquad(match *models.Match, squadID int) models.MatchResult {
	if match.WinnerSquadID != nil {
		if *match.WinnerSquadID == squadID {
			return models.ResultWon
		}
		if match.LoserSquadID != nil && *match.LoserSquadID == squadID {
			return models.ResultLost
		}
		if match.SideA.SquadID == squadID || match.SideB.SquadID == squadID {
			return models.ResultLost
		}
		return models.ResultTied
	}

	var own, other *models.MatchSide
	switch squadID {
	case match.SideA.SquadID:
		own, other = &match.SideA, &match.SideB
	case match.SideB.SquadID:
		own, other = &match.SideB, &match.SideA
	default:
		return models.ResultTied
	}

	switch {
	case own.Runs > other.Runs:
		return models.ResultWon
	case own.Runs < other.Runs:
		return models.ResultLost
	default:
		return models.ResultTied
	}
}
