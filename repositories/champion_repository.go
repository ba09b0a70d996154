package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pitchside/crease/models"
)

var ErrChampionNotFound = errors.New("champion record not found")

type ChampionRepository interface {
	// Upsert writes the one champion record per tournament. A second call for
	// the same tournament overwrites, which keeps the recorder idempotent.
	Upsert(ctx context.Context, record *models.ChampionRecord) error
	GetByTournament(ctx context.Context, tournamentID int) (*models.ChampionRecord, error)
}

type postgresChampionRepository struct {
	db *sql.DB
}

func NewPostgresChampionRepository(db *sql.DB) ChampionRepository {
	return &postgresChampionRepository{db: db}
}

func (r *postgresChampionRepository) Upsert(ctx context.Context, record *models.ChampionRecord) error {
	keyPlayers, err := json.Marshal(record.KeyPlayers)
	if err != nil {
		return fmt.Errorf("failed to marshal key players: %w", err)
	}

	query := `
		INSERT INTO champions
			(tournament_id, winner_squad_id, winner_name, runner_up_squad_id, runner_up_name,
			 result, final_match_summary, key_players, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (tournament_id) DO UPDATE SET
			winner_squad_id = EXCLUDED.winner_squad_id,
			winner_name = EXCLUDED.winner_name,
			runner_up_squad_id = EXCLUDED.runner_up_squad_id,
			runner_up_name = EXCLUDED.runner_up_name,
			result = EXCLUDED.result,
			final_match_summary = EXCLUDED.final_match_summary,
			key_players = EXCLUDED.key_players,
			recorded_at = EXCLUDED.recorded_at
		RETURNING id, recorded_at`

	return r.db.QueryRowContext(ctx, query,
		record.TournamentID, record.WinnerSquadID, record.WinnerName,
		record.RunnerUpSquadID, record.RunnerUpName,
		record.Result, record.FinalMatchSummary, keyPlayers,
	).Scan(&record.ID, &record.RecordedAt)
}

func (r *postgresChampionRepository) GetByTournament(ctx context.Context, tournamentID int) (*models.ChampionRecord, error) {
	query := `
		SELECT id, tournament_id, winner_squad_id, winner_name, runner_up_squad_id, runner_up_name,
		       result, final_match_summary, COALESCE(key_players, '[]'), recorded_at
		FROM champions
		WHERE tournament_id = $1`

	var c models.ChampionRecord
	var keyPlayers []byte
	err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(
		&c.ID, &c.TournamentID, &c.WinnerSquadID, &c.WinnerName,
		&c.RunnerUpSquadID, &c.RunnerUpName,
		&c.Result, &c.FinalMatchSummary, &keyPlayers, &c.RecordedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChampionNotFound
		}
		return nil, fmt.Errorf("failed to scan champion record: %w", err)
	}
	if err := json.Unmarshal(keyPlayers, &c.KeyPlayers); err != nil {
		return nil, fmt.Errorf("corrupt key_players for tournament %d: %w", tournamentID, err)
	}
	return &c, nil
}
