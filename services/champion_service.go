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

// ChampionService closes out a tournament once its final has been played.
type ChampionService interface {
	// RecordChampionIfNeeded writes the tournament's champion record when the
	// given match is a finished final not yet recorded. It returns nil (no
	// error) outside those conditions, and nil on a tied final, which is left
	// for manual resolution.
	RecordChampionIfNeeded(ctx context.Context, matchID int) (*models.ChampionRecord, error)

	// GetChampionByTournament returns the recorded champion, or ErrNotFound
	// when the tournament has not produced one yet.
	GetChampionByTournament(ctx context.Context, tournamentID int) (*models.ChampionRecord, error)
}

type championService struct {
	matchRepo      repositories.MatchRepository
	squadRepo      repositories.SquadRepository
	playerRepo     repositories.PlayerRepository
	tournamentRepo repositories.TournamentRepository
	championRepo   repositories.ChampionRepository
	hub            *live.Hub
	logger         *slog.Logger
}

func NewChampionService(
	matchRepo repositories.MatchRepository,
	squadRepo repositories.SquadRepository,
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
	championRepo repositories.ChampionRepository,
	hub *live.Hub,
	logger *slog.Logger,
) ChampionService {
	return &championService{
		matchRepo:      matchRepo,
		squadRepo:      squadRepo,
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
		championRepo:   championRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *championService) RecordChampionIfNeeded(ctx context.Context, matchID int) (*models.ChampionRecord, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	if !s.isRecordableFinal(match) {
		return nil, nil
	}
	if match.SideA.Runs == match.SideB.Runs {
		s.logger.Warn("final ended in a tie, champion left for manual resolution",
			slog.Int("match_id", matchID))
		return nil, nil
	}

	winnerSide, loserSide := match.SideA, match.SideB
	winnerLineup := match.LineupA
	if match.SideB.Runs > match.SideA.Runs {
		winnerSide, loserSide = match.SideB, match.SideA
		winnerLineup = match.LineupB
	}

	winner, err := s.squadRepo.GetByID(ctx, winnerSide.SquadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load winning squad %d: %w", winnerSide.SquadID, err)
	}
	runnerUp, err := s.squadRepo.GetByID(ctx, loserSide.SquadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load runner-up squad %d: %w", loserSide.SquadID, err)
	}

	record := &models.ChampionRecord{
		TournamentID:    match.TournamentID,
		WinnerSquadID:   winner.ID,
		WinnerName:      winner.Name,
		RunnerUpSquadID: runnerUp.ID,
		RunnerUpName:    runnerUp.Name,
		Result:          resultLine(winner.Name, winnerSide.Runs-loserSide.Runs),
		FinalMatchSummary: fmt.Sprintf("%s %d/%d beat %s %d/%d in the final",
			winner.Name, winnerSide.Runs, winnerSide.Wickets,
			runnerUp.Name, loserSide.Runs, loserSide.Wickets),
		KeyPlayers: s.keyPlayers(ctx, winner.ID, winnerLineup),
	}

	// Three independent writes, no cross-record transaction. A crash between
	// them leaves the match flag unset; the next status change recomputes the
	// same record and the upsert converges.
	if err := s.championRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to write champion record for tournament %d: %w", match.TournamentID, err)
	}
	if err := s.matchRepo.MarkChampionRecorded(ctx, match.ID, winner.ID, runnerUp.ID); err != nil {
		return nil, fmt.Errorf("failed to flag final %d as recorded: %w", match.ID, err)
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, match.TournamentID, models.TournamentCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete tournament %d: %w", match.TournamentID, err)
	}

	metrics.ChampionsRecorded.Inc()
	s.hub.BroadcastToRoom(roomForTournament(match.TournamentID), live.EventChampionRecorded, record)
	s.logger.Info("champion recorded",
		slog.Int("tournament_id", match.TournamentID),
		slog.String("winner", winner.Name))
	return record, nil
}

func (s *championService) isRecordableFinal(match *models.Match) bool {
	if match.ChampionRecorded {
		return false
	}
	if !match.Status.Eligible() {
		return false
	}
	if match.Stage == models.StageFinal {
		return true
	}
	return match.StageKey != nil && *match.StageKey == string(models.StageFinal)
}

// keyPlayers ranks the winning lineup by weighted contribution. Player lookups
// are display enrichment, so a failed squad listing degrades to ids-only
// entries instead of failing the recording.
func (s *championService) keyPlayers(ctx context.Context, squadID int, lineup []models.LineupEntry) []models.KeyPlayer {
	byID := make(map[int]*models.Player)
	players, err := s.playerRepo.ListBySquad(ctx, squadID)
	if err != nil {
		s.logger.Warn("failed to load squad players for key-player ranking",
			slog.Int("squad_id", squadID), slog.Any("error", err))
	} else {
		for _, p := range players {
			byID[p.ID] = p
		}
	}
	return stats.RankKeyPlayers(lineup, byID, 5)
}

func resultLine(winnerName string, margin int) string {
	unit := "runs"
	if margin == 1 {
		unit = "run"
	}
	return fmt.Sprintf("%s won by %d %s", winnerName, margin, unit)
}

func (s *championService) GetChampionByTournament(ctx context.Context, tournamentID int) (*models.ChampionRecord, error) {
	record, err := s.championRepo.GetByTournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load champion for tournament %d: %w", tournamentID, err)
	}
	return record, nil
}
