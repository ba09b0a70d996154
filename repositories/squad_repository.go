package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pitchside/crease/models"
)

var (
	ErrSquadNotFound          = errors.New("squad not found")
	ErrSquadNameConflict      = errors.New("squad name already exists in this tournament")
	ErrSquadTournamentInvalid = errors.New("squad tournament conflict or invalid")
)

type SquadRepository interface {
	Create(ctx context.Context, squad *models.Squad) error
	GetByID(ctx context.Context, id int) (*models.Squad, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Squad, error)
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
}

type postgresSquadRepository struct {
	db *sql.DB
}

func NewPostgresSquadRepository(db *sql.DB) SquadRepository {
	return &postgresSquadRepository{db: db}
}

func (r *postgresSquadRepository) Create(ctx context.Context, squad *models.Squad) error {
	query := `
		INSERT INTO squads (tournament_id, name, batch, logo_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		squad.TournamentID, squad.Name, squad.Batch, squad.LogoKey,
	).Scan(&squad.ID, &squad.CreatedAt)
	return r.handleSquadError(err)
}

func (r *postgresSquadRepository) GetByID(ctx context.Context, id int) (*models.Squad, error) {
	query := `
		SELECT id, tournament_id, name, batch, logo_key, created_at
		FROM squads
		WHERE id = $1`
	return r.scanSquad(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSquadRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Squad, error) {
	query := `
		SELECT id, tournament_id, name, batch, logo_key, created_at
		FROM squads
		WHERE tournament_id = $1
		ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query squads for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	squads := make([]*models.Squad, 0)
	for rows.Next() {
		s, scanErr := r.scanSquad(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		squads = append(squads, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during squad rows iteration: %w", err)
	}
	return squads, nil
}

func (r *postgresSquadRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE squads SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update logo for squad %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrSquadNotFound)
}

func (r *postgresSquadRepository) scanSquad(rowScanner interface{ Scan(...interface{}) error }) (*models.Squad, error) {
	var s models.Squad
	err := rowScanner.Scan(&s.ID, &s.TournamentID, &s.Name, &s.Batch, &s.LogoKey, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSquadNotFound
		}
		return nil, fmt.Errorf("failed to scan squad: %w", err)
	}
	return &s, nil
}

func (r *postgresSquadRepository) handleSquadError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "squads_tournament_id_fkey":
			return ErrSquadTournamentInvalid
		case "squads_tournament_id_name_key":
			return ErrSquadNameConflict
		}
	}
	return err
}
