package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pitchside/crease/metrics"
	"github.com/pitchside/crease/models"
	"github.com/pitchside/crease/repositories"
	"github.com/pitchside/crease/stats"
	"golang.org/x/sync/errgroup"
)

// GroupStandings is the result of one standings calculation: ranked tables
// keyed by group and the flattened qualifier list, most important first.
type GroupStandings struct {
	StandingsByGroup map[string][]models.TeamStanding `json:"standings_by_group"`
	Qualifiers       []models.Qualifier               `json:"qualifiers"`
}

// StandingsService computes ranked group tables on demand. It only reads, so
// concurrent invocations are safe and the result is deterministic for a given
// match/squad state.
type StandingsService interface {
	ComputeGroupStandings(ctx context.Context, tournamentID int) (*GroupStandings, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	squadRepo      repositories.SquadRepository
	matchRepo      repositories.MatchRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	squadRepo repositories.SquadRepository,
	matchRepo repositories.MatchRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		squadRepo:      squadRepo,
		matchRepo:      matchRepo,
	}
}

func (s *standingsService) ComputeGroupStandings(ctx context.Context, tournamentID int) (*GroupStandings, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}
	if len(tournament.Groups) == 0 {
		return nil, ErrGroupStageNotConfigured
	}

	var (
		squads  []*models.Squad
		matches []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		squads, err = s.squadRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list squads for tournament %d: %w", tournamentID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, tournamentID, nil)
		if err != nil {
			return fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	squadsByID := make(map[int]*models.Squad, len(squads))
	for _, sq := range squads {
		squadsByID[sq.ID] = sq
	}

	standingsByGroup, qualifiers := stats.ComputeGroupStandings(tournament.Groups, squadsByID, matches)
	metrics.StandingsComputed.Inc()
	return &GroupStandings{StandingsByGroup: standingsByGroup, Qualifiers: qualifiers}, nil
}
