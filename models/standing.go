package models

// TeamStanding is one squad's group-table row. It is recomputed from scratch
// on every standings call and never persisted.
type TeamStanding struct {
	SquadID   int    `json:"squad_id"`
	SquadName string `json:"squad_name"`
	GroupKey  string `json:"group_key"`
	GroupName string `json:"group_name"`

	Matches int `json:"matches"`
	Wins    int `json:"wins"`
	Losses  int `json:"losses"`
	Ties    int `json:"ties"`
	Points  int `json:"points"`

	RunsFor     int `json:"runs_for"`
	RunsAgainst int `json:"runs_against"`
	BallsFaced  int `json:"balls_faced"`
	BallsBowled int `json:"balls_bowled"`

	NetRunRate float64 `json:"net_run_rate"`
}

// Qualifier is a standing tagged with its rank within its group, produced by
// the standings calculation and consumed directly by the knockout seeder.
type Qualifier struct {
	TeamStanding
	Position int `json:"position"`
}
