package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pitchside/crease/db"
	"github.com/pitchside/crease/models"
)

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerSquadInvalid = errors.New("player squad conflict or invalid")
)

// PlayerStatsDoc is the mutable statistics portion of a player record, read
// and written as a unit inside MutateStats.
type PlayerStatsDoc struct {
	PastMatches []models.PlayerMatchSummary
	Totals      models.CareerTotals
	LastMatch   *models.PlayerMatchSummary
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListBySquad(ctx context.Context, squadID int) ([]*models.Player, error)

	// MutateStats runs a scoped transactional read-modify-write against one
	// player's statistics: the current document is read under a row lock,
	// passed to mutate, and written back in the same transaction. Write
	// conflicts with concurrent writers are retried transparently.
	MutateStats(ctx context.Context, playerID int, mutate func(doc *PlayerStatsDoc) error) error

	// ListIDsByPastMatch finds every player whose history contains the match,
	// via a JSONB containment query rather than a full scan.
	ListIDsByPastMatch(ctx context.Context, matchID int) ([]int, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (squad_id, name, role, past_matches, stats, last_match)
		VALUES ($1, $2, $3, '[]', $4, NULL)
		RETURNING id, created_at`

	totals, err := json.Marshal(player.Totals)
	if err != nil {
		return fmt.Errorf("failed to marshal player totals: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query,
		player.SquadID, player.Name, player.Role, totals,
	).Scan(&player.ID, &player.CreatedAt)
	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT id, squad_id, name, role,
		       COALESCE(past_matches, '[]'), COALESCE(stats, '{}'), last_match, created_at
		FROM players
		WHERE id = $1`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) ListBySquad(ctx context.Context, squadID int) ([]*models.Player, error) {
	query := `
		SELECT id, squad_id, name, role,
		       COALESCE(past_matches, '[]'), COALESCE(stats, '{}'), last_match, created_at
		FROM players
		WHERE squad_id = $1
		ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, squadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for squad %d: %w", squadID, err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p, scanErr := r.scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) MutateStats(ctx context.Context, playerID int, mutate func(doc *PlayerStatsDoc) error) error {
	return db.WithTxRetry(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			SELECT COALESCE(past_matches, '[]'), COALESCE(stats, '{}'), last_match
			FROM players
			WHERE id = $1
			FOR UPDATE`

		var pastRaw, totalsRaw, lastRaw []byte
		err := tx.QueryRowContext(ctx, query, playerID).Scan(&pastRaw, &totalsRaw, &lastRaw)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPlayerNotFound
			}
			return fmt.Errorf("failed to read stats for player %d: %w", playerID, err)
		}

		var doc PlayerStatsDoc
		if err := json.Unmarshal(pastRaw, &doc.PastMatches); err != nil {
			return fmt.Errorf("corrupt past_matches for player %d: %w", playerID, err)
		}
		if err := json.Unmarshal(totalsRaw, &doc.Totals); err != nil {
			return fmt.Errorf("corrupt stats for player %d: %w", playerID, err)
		}
		if len(lastRaw) > 0 {
			doc.LastMatch = &models.PlayerMatchSummary{}
			if err := json.Unmarshal(lastRaw, doc.LastMatch); err != nil {
				return fmt.Errorf("corrupt last_match for player %d: %w", playerID, err)
			}
		}

		if err := mutate(&doc); err != nil {
			return err
		}

		past, err := json.Marshal(doc.PastMatches)
		if err != nil {
			return fmt.Errorf("failed to marshal past_matches for player %d: %w", playerID, err)
		}
		totals, err := json.Marshal(doc.Totals)
		if err != nil {
			return fmt.Errorf("failed to marshal stats for player %d: %w", playerID, err)
		}
		var last interface{}
		if doc.LastMatch != nil {
			lastBytes, err := json.Marshal(doc.LastMatch)
			if err != nil {
				return fmt.Errorf("failed to marshal last_match for player %d: %w", playerID, err)
			}
			last = lastBytes
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE players SET past_matches = $1, stats = $2, last_match = $3 WHERE id = $4`,
			past, totals, last, playerID,
		)
		if err != nil {
			return fmt.Errorf("failed to write stats for player %d: %w", playerID, err)
		}
		return checkAffectedRows(result, ErrPlayerNotFound)
	})
}

func (r *postgresPlayerRepository) ListIDsByPastMatch(ctx context.Context, matchID int) ([]int, error) {
	// Served by the GIN index on past_matches.
	query := `SELECT id FROM players WHERE past_matches @> $1 ORDER BY id ASC`
	needle, err := json.Marshal([]map[string]int{{"match_id": matchID}})
	if err != nil {
		return nil, fmt.Errorf("failed to build containment query for match %d: %w", matchID, err)
	}

	rows, err := r.db.QueryContext(ctx, query, needle)
	if err != nil {
		return nil, fmt.Errorf("failed to query players by past match %d: %w", matchID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player id rows iteration: %w", err)
	}
	return ids, nil
}

func (r *postgresPlayerRepository) scanPlayer(rowScanner interface{ Scan(...interface{}) error }) (*models.Player, error) {
	var p models.Player
	var pastRaw, totalsRaw, lastRaw []byte
	err := rowScanner.Scan(&p.ID, &p.SquadID, &p.Name, &p.Role, &pastRaw, &totalsRaw, &lastRaw, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	if err := json.Unmarshal(pastRaw, &p.PastMatches); err != nil {
		return nil, fmt.Errorf("corrupt past_matches for player %d: %w", p.ID, err)
	}
	if err := json.Unmarshal(totalsRaw, &p.Totals); err != nil {
		return nil, fmt.Errorf("corrupt stats for player %d: %w", p.ID, err)
	}
	if len(lastRaw) > 0 {
		p.LastMatch = &models.PlayerMatchSummary{}
		if err := json.Unmarshal(lastRaw, p.LastMatch); err != nil {
			return nil, fmt.Errorf("corrupt last_match for player %d: %w", p.ID, err)
		}
	}
	return &p, nil
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "players_squad_id_fkey":
			return ErrPlayerSquadInvalid
		}
	}
	return err
}
