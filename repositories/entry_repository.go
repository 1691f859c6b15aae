package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rachao-basket/scoreboard/models"
)

var ErrEntryNotFound = errors.New("player entry not found")

type EntryRepository interface {
	// Upsert records a check-in; a second check-in for the same match moves
	// the player to the new side instead of duplicating the entry.
	Upsert(ctx context.Context, entry *models.PlayerEntry) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.PlayerEntry, error)
	ListByUserRange(ctx context.Context, userID int, dateFrom, dateTo string) ([]*models.PlayerEntry, error)
	Delete(ctx context.Context, matchID, userID int) error
}

type postgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) EntryRepository {
	return &postgresEntryRepository{db: db}
}

func (r *postgresEntryRepository) Upsert(ctx context.Context, entry *models.PlayerEntry) error {
	query := `
		INSERT INTO player_entries (match_id, user_id, team_side, date_iso)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id, user_id) DO UPDATE SET team_side = EXCLUDED.team_side
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.MatchID, entry.UserID, entry.TeamSide, entry.DateISO,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert player entry: %w", err)
	}
	return nil
}

func (r *postgresEntryRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.PlayerEntry, error) {
	query := `SELECT id, match_id, user_id, team_side, date_iso, created_at
		FROM player_entries WHERE match_id = $1 ORDER BY created_at ASC`
	return r.queryEntries(ctx, query, matchID)
}

func (r *postgresEntryRepository) ListByUserRange(ctx context.Context, userID int, dateFrom, dateTo string) ([]*models.PlayerEntry, error) {
	query := `SELECT id, match_id, user_id, team_side, date_iso, created_at
		FROM player_entries WHERE user_id = $1 AND date_iso >= $2 AND date_iso <= $3`
	return r.queryEntries(ctx, query, userID, dateFrom, dateTo)
}

func (r *postgresEntryRepository) Delete(ctx context.Context, matchID, userID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM player_entries WHERE match_id = $1 AND user_id = $2`, matchID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete player entry: %w", err)
	}
	return checkAffectedRows(result, ErrEntryNotFound)
}

func (r *postgresEntryRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]*models.PlayerEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query player entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.PlayerEntry
	for rows.Next() {
		entry := &models.PlayerEntry{}
		if err := rows.Scan(&entry.ID, &entry.MatchID, &entry.UserID, &entry.TeamSide, &entry.DateISO, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player entry rows: %w", err)
	}
	return entries, nil
}
