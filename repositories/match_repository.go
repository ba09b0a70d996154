package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/pitchside/crease/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchSquadInvalid      = errors.New("match squad conflict or invalid")
)

// FixtureUpdate overwrites the pairing fields of an existing fixture record
// while the record keeps its id, bracket UID and creation time.
type FixtureUpdate struct {
	MatchID int
	Fixture models.Match
}

// FixtureBatch is a set of create/update/delete operations the seeder applies
// as one unit.
type FixtureBatch struct {
	Creates   []models.Match
	Updates   []FixtureUpdate
	DeleteIDs []int
}

func (b FixtureBatch) Empty() bool {
	return len(b.Creates) == 0 && len(b.Updates) == 0 && len(b.DeleteIDs) == 0
}

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)

	// ListKnockoutByStage returns fixture records for (tournament, stage key)
	// in creation order, which is the slot order the seeder reconciles against.
	ListKnockoutByStage(ctx context.Context, tournamentID int, stageKey string) ([]*models.Match, error)

	// ApplyFixtureBatch commits the whole batch in one transaction so no
	// caller ever observes a half-updated bracket.
	ApplyFixtureBatch(ctx context.Context, batch FixtureBatch) error

	UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error
	MarkChampionRecorded(ctx context.Context, id int, winnerSquadID, loserSquadID int) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
	id, tournament_id, stage, status, venue, match_time,
	squad_a_id, runs_a, wickets_a, balls_a, overs_a,
	squad_b_id, runs_b, wickets_b, balls_b, overs_b,
	COALESCE(lineup_a, '[]'), COALESCE(lineup_b, '[]'),
	winner_squad_id, loser_squad_id,
	stage_key, stage_label, bracket_order, bracket_uid, is_final, champion_recorded,
	created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	return r.createWith(ctx, r.db, match)
}

func (r *postgresMatchRepository) createWith(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	lineupA, lineupB, err := marshalLineups(match)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO matches
			(tournament_id, stage, status, venue, match_time,
			 squad_a_id, runs_a, wickets_a, balls_a, overs_a,
			 squad_b_id, runs_b, wickets_b, balls_b, overs_b,
			 lineup_a, lineup_b, winner_squad_id, loser_squad_id,
			 stage_key, stage_label, bracket_order, bracket_uid, is_final, champion_recorded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING id, created_at`

	err = exec.QueryRowContext(ctx, query,
		match.TournamentID, match.Stage, match.Status, match.Venue, match.MatchTime,
		match.SideA.SquadID, match.SideA.Runs, match.SideA.Wickets, match.SideA.Balls, match.SideA.Overs,
		match.SideB.SquadID, match.SideB.Runs, match.SideB.Wickets, match.SideB.Balls, match.SideB.Overs,
		lineupA, lineupB, match.WinnerSquadID, match.LoserSquadID,
		match.StageKey, match.StageLabel, match.BracketOrder, match.BracketUID, match.IsFinal, match.ChampionRecorded,
	).Scan(&match.ID, &match.CreatedAt)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	if status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(len(args)+1))
		args = append(args, *status)
	}
	queryBuilder.WriteString(" ORDER BY match_time ASC, id ASC")

	return r.queryMatches(ctx, queryBuilder.String(), args...)
}

func (r *postgresMatchRepository) ListKnockoutByStage(ctx context.Context, tournamentID int, stageKey string) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1 AND stage_key = $2
		ORDER BY created_at ASC, id ASC`
	return r.queryMatches(ctx, query, tournamentID, stageKey)
}

func (r *postgresMatchRepository) ApplyFixtureBatch(ctx context.Context, batch FixtureBatch) error {
	if batch.Empty() {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin fixture batch transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if txErr != nil {
			_ = tx.Rollback()
		}
	}()

	for i := range batch.Updates {
		u := &batch.Updates[i]
		if txErr = r.updateFixture(ctx, tx, u.MatchID, &u.Fixture); txErr != nil {
			return txErr
		}
	}
	for i := range batch.Creates {
		if txErr = r.createWith(ctx, tx, &batch.Creates[i]); txErr != nil {
			return txErr
		}
	}
	for _, id := range batch.DeleteIDs {
		var result sql.Result
		result, txErr = tx.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
		if txErr != nil {
			return fmt.Errorf("failed to delete surplus fixture %d: %w", id, txErr)
		}
		if txErr = checkAffectedRows(result, ErrMatchNotFound); txErr != nil {
			return txErr
		}
	}

	if txErr = tx.Commit(); txErr != nil {
		return fmt.Errorf("failed to commit fixture batch: %w", txErr)
	}
	return nil
}

// updateFixture rewrites pairing fields only; created_at and bracket_uid stay.
func (r *postgresMatchRepository) updateFixture(ctx context.Context, exec SQLExecutor, matchID int, f *models.Match) error {
	query := `
		UPDATE matches SET
			squad_a_id = $1, squad_b_id = $2, venue = $3, status = $4,
			runs_a = 0, wickets_a = 0, balls_a = 0, overs_a = '',
			runs_b = 0, wickets_b = 0, balls_b = 0, overs_b = '',
			stage = $5, stage_key = $6, stage_label = $7, bracket_order = $8,
			is_final = $9, champion_recorded = FALSE,
			winner_squad_id = NULL, loser_squad_id = NULL
		WHERE id = $10`

	result, err := exec.ExecContext(ctx, query,
		f.SideA.SquadID, f.SideB.SquadID, f.Venue, f.Status,
		f.Stage, f.StageKey, f.StageLabel, f.BracketOrder, f.IsFinal,
		matchID,
	)
	if err != nil {
		return r.handleMatchError(fmt.Errorf("failed to update fixture %d: %w", matchID, err))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) MarkChampionRecorded(ctx context.Context, id int, winnerSquadID, loserSquadID int) error {
	query := `
		UPDATE matches
		SET champion_recorded = TRUE, winner_squad_id = $1, loser_squad_id = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, winnerSquadID, loserSquadID, id)
	if err != nil {
		return fmt.Errorf("failed to mark champion recorded for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	var lineupA, lineupB []byte
	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.Stage, &m.Status, &m.Venue, &m.MatchTime,
		&m.SideA.SquadID, &m.SideA.Runs, &m.SideA.Wickets, &m.SideA.Balls, &m.SideA.Overs,
		&m.SideB.SquadID, &m.SideB.Runs, &m.SideB.Wickets, &m.SideB.Balls, &m.SideB.Overs,
		&lineupA, &lineupB,
		&m.WinnerSquadID, &m.LoserSquadID,
		&m.StageKey, &m.StageLabel, &m.BracketOrder, &m.BracketUID, &m.IsFinal, &m.ChampionRecorded,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	if err := json.Unmarshal(lineupA, &m.LineupA); err != nil {
		return nil, fmt.Errorf("corrupt lineup_a for match %d: %w", m.ID, err)
	}
	if err := json.Unmarshal(lineupB, &m.LineupB); err != nil {
		return nil, fmt.Errorf("corrupt lineup_b for match %d: %w", m.ID, err)
	}
	return &m, nil
}

func marshalLineups(match *models.Match) ([]byte, []byte, error) {
	lineupA, err := json.Marshal(match.LineupA)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal lineup_a: %w", err)
	}
	lineupB, err := json.Marshal(match.LineupB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal lineup_b: %w", err)
	}
	return lineupA, lineupB, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_squad_a_id_fkey", "matches_squad_b_id_fkey":
			return ErrMatchSquadInvalid
		}
	}
	return err
}
