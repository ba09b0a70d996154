package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pitchside/crease/live"
	"github.com/pitchside/crease/metrics"
	"github.com/pitchside/crease/models"
	"github.com/pitchside/crease/repositories"
	"github.com/pitchside/crease/stats"
)

// StatsService is Pipeline A's entry point: it folds finished-match lineups
// into durable per-player career records, and reverses them on match deletion.
type StatsService interface {
	// SyncPlayerStatsForMatch upserts one PlayerMatchSummary per lineup player
	// of a completed/finished match. Idempotent: re-running replaces entries
	// by match id instead of appending.
	SyncPlayerStatsForMatch(ctx context.Context, matchID int) error

	// RemoveMatchStatsFromPlayers strips the match from every player history
	// that contains it and recomputes their totals.
	RemoveMatchStatsFromPlayers(ctx context.Context, matchID int) error
}

type statsService struct {
	matchRepo  repositories.MatchRepository
	squadRepo  repositories.SquadRepository
	playerRepo repositories.PlayerRepository
	hub        *live.Hub
	logger     *slog.Logger
}

func NewStatsService(
	matchRepo repositories.MatchRepository,
	squadRepo repositories.SquadRepository,
	playerRepo repositories.PlayerRepository,
	hub *live.Hub,
	logger *slog.Logger,
) StatsService {
	return &statsService{
		matchRepo:  matchRepo,
		squadRepo:  squadRepo,
		playerRepo: playerRepo,
		hub:        hub,
		logger:     logger,
	}
}

func (s *statsService) SyncPlayerStatsForMatch(ctx context.Context, matchID int) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to load match %d for stats sync: %w", matchID, err)
	}
	if !match.Status.Eligible() {
		return fmt.Errorf("%w: match %d has status %q", ErrMatchNotEligible, matchID, match.Status)
	}

	sides := []struct {
		side     models.MatchSide
		opponent models.MatchSide
		lineup   []models.LineupEntry
	}{
		{match.SideA, match.SideB, match.LineupA},
		{match.SideB, match.SideA, match.LineupB},
	}

	for _, side := range sides {
		sctx := stats.SummaryContext{
			SquadID:      side.side.SquadID,
			OpponentID:   side.opponent.SquadID,
			OpponentName: s.squadName(ctx, side.opponent.SquadID),
		}
		for _, entry := range side.lineup {
			if entry.PlayerID == 0 {
				continue
			}
			summary := stats.BuildPlayerMatchSummary(entry, match, sctx)
			if err := s.upsertSummary(ctx, entry.PlayerID, summary); err != nil {
				return err
			}
		}
	}

	metrics.MatchesSynced.Inc()
	s.hub.BroadcastToRoom(roomForTournament(match.TournamentID), live.EventStatsSynced, map[string]int{"match_id": matchID})
	s.logger.Info("player stats synced", slog.Int("match_id", matchID), slog.Int("tournament_id", match.TournamentID))
	return nil
}

// upsertSummary is one scoped transactional read-modify-write against a single
// player record. A player deleted between lineup capture and sync is skipped,
// never fatal for the rest of the batch.
func (s *statsService) upsertSummary(ctx context.Context, playerID int, summary models.PlayerMatchSummary) error {
	err := s.playerRepo.MutateStats(ctx, playerID, func(doc *repositories.PlayerStatsDoc) error {
		doc.PastMatches = stats.ReplaceSummary(doc.PastMatches, summary)
		doc.Totals = stats.AggregateCareer(doc.PastMatches)
		last := summary
		doc.LastMatch = &last
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			metrics.PlayersSkipped.Inc()
			s.logger.Warn("skipping stats for missing player",
				slog.Int("player_id", playerID), slog.Int("match_id", summary.MatchID))
			return nil
		}
		return fmt.Errorf("failed to update stats for player %d: %w", playerID, err)
	}
	metrics.PlayersUpdated.Inc()
	return nil
}

func (s *statsService) RemoveMatchStatsFromPlayers(ctx context.Context, matchID int) error {
	playerIDs, err := s.playerRepo.ListIDsByPastMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to find players with match %d in history: %w", matchID, err)
	}

	// Independent per-player transactions: a crash mid-sweep leaves the
	// already-processed players correctly updated and the rest untouched.
	for _, playerID := range playerIDs {
		err := s.playerRepo.MutateStats(ctx, playerID, func(doc *repositories.PlayerStatsDoc) error {
			doc.PastMatches = stats.RemoveSummary(doc.PastMatches, matchID)
			doc.Totals = stats.AggregateCareer(doc.PastMatches)
			if doc.LastMatch != nil && doc.LastMatch.MatchID == matchID {
				doc.LastMatch = latestSummary(doc.PastMatches)
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				s.logger.Warn("player vanished during stats removal", slog.Int("player_id", playerID))
				continue
			}
			return fmt.Errorf("failed to remove match %d stats from player %d: %w", matchID, playerID, err)
		}
	}

	s.logger.Info("match stats removed from players",
		slog.Int("match_id", matchID), slog.Int("players", len(playerIDs)))
	return nil
}

func latestSummary(past []models.PlayerMatchSummary) *models.PlayerMatchSummary {
	if len(past) == 0 {
		return nil
	}
	latest := past[0]
	for _, s := range past[1:] {
		if s.MatchTime.After(latest.MatchTime) {
			latest = s
		}
	}
	return &latest
}

func (s *statsService) squadName(ctx context.Context, squadID int) string {
	squad, err := s.squadRepo.GetByID(ctx, squadID)
	if err != nil {
		// Opponent display name is cosmetic; a missing squad must not block
		// the sync.
		return ""
	}
	return squad.Name
}

func roomForTournament(tournamentID int) string {
	return live.RoomForTournament(tournamentID)
}
