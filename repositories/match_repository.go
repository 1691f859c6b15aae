package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/rachao-basket/scoreboard/models"
)

var ErrMatchNotFound = errors.New("match not found")

// MatchUpdate carries the mutable columns of a match; nil fields are left
// untouched.
type MatchUpdate struct {
	Status      *models.MatchStatus
	MatchNumber *int
	TeamAName   *string
	TeamBName   *string
}

// RangeFilter narrows ListByRange. Mode empty means all modes; Team empty
// means all teams (otherwise a case-insensitive substring match on either
// team name).
type RangeFilter struct {
	DateFrom string
	DateTo   string
	Mode     models.MatchMode
	Team     string
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	Update(ctx context.Context, id int, upd MatchUpdate) error
	Delete(ctx context.Context, id int) error
	ListByDate(ctx context.Context, dateISO string) ([]*models.Match, error)
	ListByRange(ctx context.Context, filter RangeFilter) ([]*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	NextMatchNumber(ctx context.Context, dateISO string, mode models.MatchMode) (int, error)
	FindPendingQuick(ctx context.Context, dateISO string, number int) (*models.Match, error)
	FindLatestPendingQuick(ctx context.Context, dateISO string) (*models.Match, error)
	DeletePendingQuick(ctx context.Context, dateISO string, number int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, date_iso, mode, team_a_id, team_b_id, team_a_name, team_b_name,
	quarters, durations, status, match_no, tournament_id, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	match := &models.Match{}
	err := row.Scan(
		&match.ID,
		&match.DateISO,
		&match.Mode,
		&match.TeamAID,
		&match.TeamBID,
		&match.TeamAName,
		&match.TeamBName,
		&match.Quarters,
		pq.Array(&match.Durations),
		&match.Status,
		&match.MatchNumber,
		&match.TournamentID,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO matches
			(date_iso, mode, team_a_id, team_b_id, team_a_name, team_b_name,
			 quarters, durations, status, match_no, tournament_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.DateISO,
		match.Mode,
		match.TeamAID,
		match.TeamBID,
		match.TeamAName,
		match.TeamBName,
		match.Quarters,
		pq.Array(match.Durations),
		match.Status,
		match.MatchNumber,
		match.TournamentID,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, id int, upd MatchUpdate) error {
	var setClauses []string
	var args []interface{}
	idx := 1

	appendSet := func(col string, val interface{}) {
		setClauses = append(setClauses, col+" = $"+strconv.Itoa(idx))
		args = append(args, val)
		idx++
	}

	if upd.Status != nil {
		appendSet("status", *upd.Status)
	}
	if upd.MatchNumber != nil {
		appendSet("match_no", *upd.MatchNumber)
	}
	if upd.TeamAName != nil {
		appendSet("team_a_name", *upd.TeamAName)
	}
	if upd.TeamBName != nil {
		appendSet("team_b_name", *upd.TeamBName)
	}
	if len(setClauses) == 0 {
		return nil
	}

	query := "UPDATE matches SET " + strings.Join(setClauses, ", ") +
		" WHERE id = $" + strconv.Itoa(idx)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) ListByDate(ctx context.Context, dateISO string) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE date_iso = $1 ORDER BY created_at DESC`
	return r.queryMatches(ctx, query, dateISO)
}

func (r *postgresMatchRepository) ListByRange(ctx context.Context, filter RangeFilter) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE date_iso >= $1 AND date_iso <= $2`)

	args := []interface{}{filter.DateFrom, filter.DateTo}
	placeholderIndex := 3

	if filter.Mode != "" {
		queryBuilder.WriteString(" AND mode = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, filter.Mode)
		placeholderIndex++
	}
	if filter.Team != "" {
		pattern := "%" + filter.Team + "%"
		queryBuilder.WriteString(" AND (team_a_name ILIKE $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		queryBuilder.WriteString(" OR team_b_name ILIKE $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex + 1))
		queryBuilder.WriteString(")")
		args = append(args, pattern, pattern)
		placeholderIndex += 2
	}

	queryBuilder.WriteString(" ORDER BY date_iso DESC, created_at DESC")
	return r.queryMatches(ctx, queryBuilder.String(), args...)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY created_at DESC`
	return r.queryMatches(ctx, query, tournamentID)
}

// NextMatchNumber returns max(match_no)+1 for the given day and mode, starting
// at 1 on an empty day.
func (r *postgresMatchRepository) NextMatchNumber(ctx context.Context, dateISO string, mode models.MatchMode) (int, error) {
	query := `SELECT COALESCE(MAX(match_no), 0) + 1 FROM matches WHERE date_iso = $1 AND mode = $2`
	var next int
	if err := r.db.QueryRowContext(ctx, query, dateISO, mode).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute next match number for %s: %w", dateISO, err)
	}
	return next, nil
}

func (r *postgresMatchRepository) FindPendingQuick(ctx context.Context, dateISO string, number int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE date_iso = $1 AND mode = $2 AND status = $3 AND match_no = $4
		ORDER BY created_at DESC LIMIT 1`
	match, err := scanMatch(r.db.QueryRowContext(ctx, query, dateISO, models.ModeQuick, models.MatchStatusPending, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to find pending quick match %s #%d: %w", dateISO, number, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) FindLatestPendingQuick(ctx context.Context, dateISO string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE date_iso = $1 AND mode = $2 AND status = $3
		ORDER BY match_no DESC NULLS LAST, created_at DESC LIMIT 1`
	match, err := scanMatch(r.db.QueryRowContext(ctx, query, dateISO, models.ModeQuick, models.MatchStatusPending))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to find latest pending quick match for %s: %w", dateISO, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) DeletePendingQuick(ctx context.Context, dateISO string, number int) error {
	query := `DELETE FROM matches WHERE date_iso = $1 AND mode = $2 AND status = $3 AND match_no = $4`
	_, err := r.db.ExecContext(ctx, query, dateISO, models.ModeQuick, models.MatchStatusPending, number)
	if err != nil {
		return fmt.Errorf("failed to delete pending quick match %s #%d: %w", dateISO, number, err)
	}
	return nil
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}
	return matches, nil
}
