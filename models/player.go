package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

type MatchResult string

const (
	ResultWon  MatchResult = "won"
	ResultLost MatchResult = "lost"
	ResultTied MatchResult = "tied"
)

// PlayerMatchSummary is one player's line for one match. Immutable once
// computed unless the match is re-synced, in which case it is replaced
// in place by match id.
type PlayerMatchSummary struct {
	MatchID      int         `json:"match_id"`
	TournamentID int         `json:"tournament_id"`
	OpponentID   int         `json:"opponent_id"`
	Opponent     string      `json:"opponent,omitempty"`
	Venue        string      `json:"venue,omitempty"`
	MatchTime    time.Time   `json:"match_time"`
	Result       MatchResult `json:"result"`

	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`

	Wickets      int     `json:"wickets"`
	BallsBowled  int     `json:"balls_bowled"`
	RunsConceded int     `json:"runs_conceded"`
	Economy      float64 `json:"economy"`

	Batted       bool `json:"batted"`
	Bowled       bool `json:"bowled"`
	NotOut       bool `json:"not_out"`
	BattingOrder int  `json:"batting_order,omitempty"`
	Captain      bool `json:"captain,omitempty"`
	Keeper       bool `json:"keeper,omitempty"`
}

// Rate is a derived statistic that may carry the +Inf sentinel (a bowling
// average with conceded runs and no wicket). Infinity is not representable in
// JSON, so it round-trips as the string "Infinity". Callers sorting or
// displaying rates must special-case the sentinel.
type Rate float64

func (r Rate) IsInfinite() bool { return math.IsInf(float64(r), 1) }

func (r Rate) MarshalJSON() ([]byte, error) {
	if r.IsInfinite() {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(float64(r))
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "Infinity" {
			*r = Rate(math.Inf(1))
			return nil
		}
		return fmt.Errorf("invalid rate value %q", s)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Rate(v)
	return nil
}

// CareerTotals is the rolled-up aggregate over a player's past matches.
// Derived rates are always recomputed from the counters, never incrementally.
type CareerTotals struct {
	Matches        int `json:"matches"`
	Runs           int `json:"runs"`
	Balls          int `json:"balls"`
	Fours          int `json:"fours"`
	Sixes          int `json:"sixes"`
	BattingInnings int `json:"batting_innings"`
	NotOuts        int `json:"not_outs"`
	Dismissals     int `json:"dismissals"`
	Fifties        int `json:"fifties"`
	Hundreds       int `json:"hundreds"`
	HighestScore   int `json:"highest_score"`

	Wickets        int `json:"wickets"`
	BallsBowled    int `json:"balls_bowled"`
	RunsConceded   int `json:"runs_conceded"`
	BowlingInnings int `json:"bowling_innings"`

	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`

	StrikeRate        float64 `json:"strike_rate"`
	BattingAverage    float64 `json:"batting_average"`
	Economy           float64 `json:"economy"`
	BowlingAverage    Rate    `json:"bowling_average"`
	BowlingStrikeRate float64 `json:"bowling_strike_rate"`
}

// Player is the durable career record. PastMatches holds at most one entry
// per match id and is mutated only through the stats service's scoped
// per-player transaction.
type Player struct {
	ID          int                  `json:"id" db:"id"`
	SquadID     int                  `json:"squad_id" db:"squad_id"`
	Name        string               `json:"name" db:"name"`
	Role        string               `json:"role" db:"role"`
	PastMatches []PlayerMatchSummary `json:"past_matches"`
	Totals      CareerTotals         `json:"totals"`
	LastMatch   *PlayerMatchSummary  `json:"last_match,omitempty"`
	CreatedAt   time.Time            `json:"created_at" db:"created_at"`
}
