package models

import (
	"encoding/json"
	"math"
	"time"
)

type MatchStatus string

const (
	MatchStatusUpcoming  MatchStatus = "upcoming"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusFinished  MatchStatus = "finished"
)

// Eligible reports whether a match in this status may feed stats aggregation.
func (s MatchStatus) Eligible() bool {
	return s == MatchStatusCompleted || s == MatchStatusFinished
}

type MatchStage string

const (
	StageGroup      MatchStage = "group"
	StageQualifier  MatchStage = "qualifier"
	StageEliminator MatchStage = "eliminator"
	StageSemiFinal  MatchStage = "semi_final"
	StageFinal      MatchStage = "final"
	StageThirdPlace MatchStage = "third_place"
)

func (s MatchStage) Valid() bool {
	switch s {
	case StageGroup, StageQualifier, StageEliminator, StageSemiFinal, StageFinal, StageThirdPlace:
		return true
	}
	return false
}

// MatchSide holds one squad's innings totals. Balls may be absent in legacy
// documents, in which case Overs ("14.3") is the source of truth.
type MatchSide struct {
	SquadID int    `json:"squad_id" db:"squad_id"`
	Runs    int    `json:"runs" db:"runs"`
	Wickets int    `json:"wickets" db:"wickets"`
	Balls   int    `json:"balls" db:"balls"`
	Overs   string `json:"overs,omitempty" db:"overs"`
}

// Match is the finished-match document this engine consumes. The live scoring
// state machine that fills it in is an external collaborator.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Stage        MatchStage  `json:"stage" db:"stage"`
	Status       MatchStatus `json:"status" db:"status"`
	Venue        *string     `json:"venue,omitempty" db:"venue"`
	MatchTime    time.Time   `json:"match_time" db:"match_time"`

	SideA   MatchSide     `json:"side_a"`
	SideB   MatchSide     `json:"side_b"`
	LineupA []LineupEntry `json:"lineup_a,omitempty"`
	LineupB []LineupEntry `json:"lineup_b,omitempty"`

	WinnerSquadID *int `json:"winner_squad_id,omitempty" db:"winner_squad_id"`
	LoserSquadID  *int `json:"loser_squad_id,omitempty" db:"loser_squad_id"`

	// Knockout bracket fields, set by the seeder.
	StageKey         *string `json:"stage_key,omitempty" db:"stage_key"`
	StageLabel       *string `json:"stage_label,omitempty" db:"stage_label"`
	BracketOrder     *int    `json:"bracket_order,omitempty" db:"bracket_order"`
	BracketUID       *string `json:"bracket_uid,omitempty" db:"bracket_uid"`
	IsFinal          bool    `json:"is_final" db:"is_final"`
	ChampionRecorded bool    `json:"champion_recorded" db:"champion_recorded"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LineupEntry is one player's raw ball-by-ball totals for a match. Raw values
// are float64 because legacy scorers have produced fractional and non-finite
// garbage; the stats package coerces before arithmetic.
type LineupEntry struct {
	PlayerID     int     `json:"player_id"`
	Runs         float64 `json:"runs"`
	BallsFaced   float64 `json:"balls_faced"`
	Fours        float64 `json:"fours"`
	Sixes        float64 `json:"sixes"`
	Wickets      float64 `json:"wickets"`
	BallsBowled  float64 `json:"balls_bowled"`
	RunsConceded float64 `json:"runs_conceded"`
	Dismissed    bool    `json:"dismissed"`
	BattingOrder int     `json:"batting_order,omitempty"`
	IsCaptain    bool    `json:"is_captain,omitempty"`
	IsKeeper     bool    `json:"is_keeper,omitempty"`
}

// Legacy lineup documents spell the same fields under several names.
// Resolution order is fixed here and nowhere else: the first key present wins.
var lineupAliases = map[string][]string{
	"player_id":     {"player_id", "playerId", "pid"},
	"runs":          {"runs", "runs_scored", "r"},
	"balls_faced":   {"balls_faced", "balls", "b"},
	"fours":         {"fours", "4s"},
	"sixes":         {"sixes", "6s"},
	"wickets":       {"wickets", "wickets_taken", "w"},
	"balls_bowled":  {"balls_bowled", "deliveries"},
	"runs_conceded": {"runs_conceded", "runs_given"},
	"dismissed":     {"dismissed", "is_out", "out"},
	"batting_order": {"batting_order", "position"},
	"is_captain":    {"is_captain", "captain"},
	"is_keeper":     {"is_keeper", "keeper", "wicket_keeper"},
}

func (e *LineupEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	num := func(field string) float64 {
		for _, alias := range lineupAliases[field] {
			msg, ok := raw[alias]
			if !ok {
				continue
			}
			var v float64
			if err := json.Unmarshal(msg, &v); err != nil {
				continue
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0
			}
			return v
		}
		return 0
	}
	boolean := func(field string) bool {
		for _, alias := range lineupAliases[field] {
			msg, ok := raw[alias]
			if !ok {
				continue
			}
			var v bool
			if err := json.Unmarshal(msg, &v); err != nil {
				continue
			}
			return v
		}
		return false
	}

	e.PlayerID = int(num("player_id"))
	e.Runs = num("runs")
	e.BallsFaced = num("balls_faced")
	e.Fours = num("fours")
	e.Sixes = num("sixes")
	e.Wickets = num("wickets")
	e.BallsBowled = num("balls_bowled")
	e.RunsConceded = num("runs_conceded")
	e.Dismissed = boolean("dismissed")
	e.BattingOrder = int(num("batting_order"))
	e.IsCaptain = boolean("is_captain")
	e.IsKeeper = boolean("is_keeper")
	return nil
}
