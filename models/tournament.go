package models

import "time"

// TournamentStatus mirrors the ENUM in the database.
type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "upcoming"
	TournamentOngoing   TournamentStatus = "ongoing"
	TournamentCompleted TournamentStatus = "completed"
)

// Group is one group-stage pool definition.
type Group struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	SquadIDs       []int  `json:"squad_ids"`
	QualifierSlots int    `json:"qualifier_slots"`
}

// KnockoutStageDef describes one knockout stage the seeder can fill.
type KnockoutStageDef struct {
	Key             string `json:"key"`
	Label           string `json:"label"`
	RequiredMatches int    `json:"required_matches"`
	Enabled         bool   `json:"enabled"`
}

type KnockoutConfig struct {
	AutoSeed bool               `json:"auto_seed"`
	Stages   []KnockoutStageDef `json:"stages,omitempty"`
}

// FirstEnabledStage returns the first knockout stage the seeder should fill,
// or nil if none is enabled.
func (k KnockoutConfig) FirstEnabledStage() *KnockoutStageDef {
	for i := range k.Stages {
		if k.Stages[i].Enabled {
			return &k.Stages[i]
		}
	}
	return nil
}

type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Season    string           `json:"season" db:"season"`
	Status    TournamentStatus `json:"status" db:"status"`
	Groups    []Group          `json:"groups"`
	Knockout  KnockoutConfig   `json:"knockout"`
	LogoKey   *string          `json:"-" db:"logo_key"`
	LogoURL   *string          `json:"logo_url,omitempty" db:"-"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
