package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pitchside/crease/brackets"
	"github.com/pitchside/crease/live"
	"github.com/pitchside/crease/metrics"
	"github.com/pitchside/crease/models"
	"github.com/pitchside/crease/repositories"
)

// KnockoutService seeds a tournament's first enabled knockout stage from the
// current group standings, reconciling against whatever fixture records
// already exist.
type KnockoutService interface {
	// SeedKnockoutStage recomputes standings, pairs the qualifiers and applies
	// the fixture reconciliation as one atomic batch. It fails closed: any
	// configuration problem or qualifier shortfall mutates nothing.
	SeedKnockoutStage(ctx context.Context, tournamentID int) ([]brackets.Pairing, error)
}

type knockoutService struct {
	tournamentRepo   repositories.TournamentRepository
	matchRepo        repositories.MatchRepository
	standingsService StandingsService
	hub              *live.Hub
	logger           *slog.Logger
}

func NewKnockoutService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	standingsService StandingsService,
	hub *live.Hub,
	logger *slog.Logger,
) KnockoutService {
	return &knockoutService{
		tournamentRepo:   tournamentRepo,
		matchRepo:        matchRepo,
		standingsService: standingsService,
		hub:              hub,
		logger:           logger,
	}
}

func (s *knockoutService) SeedKnockoutStage(ctx context.Context, tournamentID int) ([]brackets.Pairing, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}
	if !tournament.Knockout.AutoSeed {
		return nil, ErrKnockoutAutoSeedDisabled
	}
	stage := tournament.Knockout.FirstEnabledStage()
	if stage == nil {
		return nil, ErrKnockoutNotConfigured
	}

	standings, err := s.standingsService.ComputeGroupStandings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	pairings, err := brackets.PairQualifiers(standings.Qualifiers, *stage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficientQualifiers, err)
	}

	existing, err := s.matchRepo.ListKnockoutByStage(ctx, tournamentID, stage.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing %s fixtures for tournament %d: %w", stage.Key, tournamentID, err)
	}

	batch := buildFixtureBatch(tournamentID, pairings, existing)
	if err := s.matchRepo.ApplyFixtureBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to apply %s fixtures for tournament %d: %w", stage.Key, tournamentID, err)
	}

	metrics.KnockoutsSeeded.Inc()
	s.hub.BroadcastToRoom(roomForTournament(tournamentID), live.EventBracketSeeded, pairings)
	s.logger.Info("knockout stage seeded",
		slog.Int("tournament_id", tournamentID),
		slog.String("stage", stage.Key),
		slog.Int("pairings", len(pairings)),
		slog.Int("updated", len(batch.Updates)),
		slog.Int("created", len(batch.Creates)),
		slog.Int("deleted", len(batch.DeleteIDs)))
	return pairings, nil
}

// buildFixtureBatch reconciles new pairings against existing fixture records
// in creation order: slot i updates in place, missing slots become creates,
// surplus records are deleted. The resulting fixture set always has exactly
// one record per pairing.
func buildFixtureBatch(tournamentID int, pairings []brackets.Pairing, existing []*models.Match) repositories.FixtureBatch {
	var batch repositories.FixtureBatch
	for i, p := range pairings {
		fixture := brackets.FixtureFromPairing(tournamentID, p)
		if i < len(existing) {
			batch.Updates = append(batch.Updates, repositories.FixtureUpdate{
				MatchID: existing[i].ID,
				Fixture: fixture,
			})
		} else {
			batch.Creates = append(batch.Creates, fixture)
		}
	}
	for _, surplus := range existing[min(len(pairings), len(existing)):] {
		batch.DeleteIDs = append(batch.DeleteIDs, surplus.ID)
	}
	return batch
}
