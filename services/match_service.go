package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pitchside/crease/models"
	"github.com/pitchside/crease/repositories"
)

// MatchService manages finished-match documents and drives Pipeline A off
// their status transitions. How a match gets its numbers (the live scoring
// machine) is outside this service; documents arrive complete.
type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetMatchByID(ctx context.Context, id int) (*models.Match, error)
	ListMatchesByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)

	// UpdateStatus patches the match status. A transition into Completed or
	// Finished triggers the stats sync and the champion check.
	UpdateStatus(ctx context.Context, id int, status models.MatchStatus) (*models.Match, error)

	// DeleteMatch removes the match and strips it from player histories.
	DeleteMatch(ctx context.Context, id int) error
}

type CreateMatchInput struct {
	Match models.Match `json:"match"`
}

type matchService struct {
	matchRepo       repositories.MatchRepository
	statsService    StatsService
	championService ChampionService
	logger          *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	statsService StatsService,
	championService ChampionService,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:       matchRepo,
		statsService:    statsService,
		championService: championService,
		logger:          logger,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	match := input.Match
	if match.Stage == "" {
		match.Stage = models.StageGroup
	}
	if !match.Stage.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMatchStage, match.Stage)
	}
	if match.Status == "" {
		match.Status = models.MatchStatusUpcoming
	}

	if err := s.matchRepo.Create(ctx, &match); err != nil {
		if errors.Is(err, repositories.ErrMatchTournamentInvalid) || errors.Is(err, repositories.ErrMatchSquadInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return &match, nil
}

func (s *matchService) GetMatchByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", id, err)
	}
	return match, nil
}

func (s *matchService) ListMatchesByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func (s *matchService) UpdateStatus(ctx context.Context, id int, status models.MatchStatus) (*models.Match, error) {
	switch status {
	case models.MatchStatusUpcoming, models.MatchStatusLive, models.MatchStatusCompleted, models.MatchStatusFinished:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMatchStatus, status)
	}

	if err := s.matchRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update status for match %d: %w", id, err)
	}

	if status.Eligible() {
		if err := s.statsService.SyncPlayerStatsForMatch(ctx, id); err != nil {
			return nil, err
		}
		if _, err := s.championService.RecordChampionIfNeeded(ctx, id); err != nil {
			// Champion recording is retried on the next status change; stats
			// are already durable, so surface the failure without undoing.
			return nil, err
		}
	}

	return s.GetMatchByID(ctx, id)
}

func (s *matchService) DeleteMatch(ctx context.Context, id int) error {
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	if err := s.statsService.RemoveMatchStatsFromPlayers(ctx, id); err != nil {
		return err
	}
	s.logger.Info("match deleted", slog.Int("match_id", id))
	return nil
}
