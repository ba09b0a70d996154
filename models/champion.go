package models

import "time"

// KeyPlayer is one of the winning squad's top contributors, ranked by the
// weighted score runs + wickets*10.
type KeyPlayer struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Runs     int    `json:"runs"`
	Wickets  int    `json:"wickets"`
}

// ChampionRecord is the one-per-tournament summary of the final outcome.
type ChampionRecord struct {
	ID                int         `json:"id" db:"id"`
	TournamentID      int         `json:"tournament_id" db:"tournament_id"`
	WinnerSquadID     int         `json:"winner_squad_id" db:"winner_squad_id"`
	WinnerName        string      `json:"winner_name" db:"winner_name"`
	RunnerUpSquadID   int         `json:"runner_up_squad_id" db:"runner_up_squad_id"`
	RunnerUpName      string      `json:"runner_up_name" db:"runner_up_name"`
	Result            string      `json:"result" db:"result"`
	FinalMatchSummary string      `json:"final_match_summary" db:"final_match_summary"`
	KeyPlayers        []KeyPlayer `json:"key_players"`
	RecordedAt        time.Time   `json:"recorded_at" db:"recorded_at"`
}
