// Package brackets turns ranked qualifiers into knockout fixture blueprints.
// It only plans; persistence belongs to the knockout service.
package brackets

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pitchside/crease/models"
)

// Pairing is one planned knockout fixture: two qualifiers and their slot in
// the bracket.
type Pairing struct {
	Order      int              `json:"order"`
	Home       models.Qualifier `json:"home"`
	Away       models.Qualifier `json:"away"`
	StageKey   string           `json:"stage_key"`
	StageLabel string           `json:"stage_label"`
	IsFinal    bool             `json:"is_final"`
	BracketUID string           `json:"bracket_uid"`
}

// PairQualifiers takes qualifiers ordered most-important-first and pairs them
// consecutively across groups: rank 1 vs rank 2, rank 3 vs rank 4, and so on.
// It fails closed when the qualifier list cannot fill the stage.
func PairQualifiers(qualifiers []models.Qualifier, stage models.KnockoutStageDef) ([]Pairing, error) {
	if stage.RequiredMatches < 1 {
		return nil, fmt.Errorf("knockout stage %q requires at least one match", stage.Key)
	}
	need := stage.RequiredMatches * 2
	if len(qualifiers) < need {
		return nil, fmt.Errorf("knockout stage %q needs %d qualifiers, got %d", stage.Key, need, len(qualifiers))
	}

	pairings := make([]Pairing, 0, stage.RequiredMatches)
	for i := 0; i < stage.RequiredMatches; i++ {
		pairings = append(pairings, Pairing{
			Order:      i,
			Home:       qualifiers[2*i],
			Away:       qualifiers[2*i+1],
			StageKey:   stage.Key,
			StageLabel: stage.Label,
			IsFinal:    stage.Key == string(models.StageFinal),
			BracketUID: uuid.NewString(),
		})
	}
	return pairings, nil
}

// FixtureFromPairing projects a pairing onto a match record. When reconciling
// onto an existing fixture, the caller keeps the record's id, creation time
// and bracket UID and overwrites the rest.
func FixtureFromPairing(tournamentID int, p Pairing) models.Match {
	stageKey := p.StageKey
	stageLabel := p.StageLabel
	order := p.Order
	uid := p.BracketUID
	return models.Match{
		TournamentID:     tournamentID,
		Stage:            models.MatchStage(p.StageKey),
		Status:           models.MatchStatusUpcoming,
		SideA:            models.MatchSide{SquadID: p.Home.SquadID},
		SideB:            models.MatchSide{SquadID: p.Away.SquadID},
		StageKey:         &stageKey,
		StageLabel:       &stageLabel,
		BracketOrder:     &order,
		BracketUID:       &uid,
		IsFinal:          p.IsFinal,
		ChampionRecorded: false,
	}
}
