package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rachao-basket/scoreboard/models"
)

var ErrLiveGameNotFound = errors.New("live game not found")

// LiveGameRepository manages the singleton live_game row. Upsert always writes
// the fixed id and refreshes updated_at; readers order themselves by that
// timestamp, so the row needs no further concurrency control. Only MarkReset
// rewrites reset_at: the broadcast upsert leaves it alone, so a reset stamped
// between two broadcasts survives until every poller has consumed it.
type LiveGameRepository interface {
	Get(ctx context.Context) (*models.LiveGame, error)
	Upsert(ctx context.Context, live models.LiveGame) error
	MarkReset(ctx context.Context) error
}

type postgresLiveGameRepository struct {
	db *sql.DB
}

func NewPostgresLiveGameRepository(db *sql.DB) LiveGameRepository {
	return &postgresLiveGameRepository{db: db}
}

func (r *postgresLiveGameRepository) Get(ctx context.Context) (*models.LiveGame, error) {
	query := `SELECT id, status, mode, match_id, match_no, quarter, time_left,
		team_a, team_b, score_a, score_b, reset_at, updated_at
		FROM live_game WHERE id = $1`

	live := &models.LiveGame{}
	err := r.db.QueryRowContext(ctx, query, models.LiveGameID).Scan(
		&live.ID,
		&live.Status,
		&live.Mode,
		&live.MatchID,
		&live.MatchNumber,
		&live.Quarter,
		&live.TimeLeft,
		&live.TeamA,
		&live.TeamB,
		&live.ScoreA,
		&live.ScoreB,
		&live.ResetAt,
		&live.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLiveGameNotFound
		}
		return nil, fmt.Errorf("failed to scan live game: %w", err)
	}
	return live, nil
}

func (r *postgresLiveGameRepository) Upsert(ctx context.Context, live models.LiveGame) error {
	query := `
		INSERT INTO live_game (id, status, mode, match_id, match_no, quarter, time_left,
			team_a, team_b, score_a, score_b, reset_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			mode = EXCLUDED.mode,
			match_id = EXCLUDED.match_id,
			match_no = EXCLUDED.match_no,
			quarter = EXCLUDED.quarter,
			time_left = EXCLUDED.time_left,
			team_a = EXCLUDED.team_a,
			team_b = EXCLUDED.team_b,
			score_a = EXCLUDED.score_a,
			score_b = EXCLUDED.score_b,
			updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query,
		models.LiveGameID,
		live.Status,
		live.Mode,
		live.MatchID,
		live.MatchNumber,
		live.Quarter,
		live.TimeLeft,
		live.TeamA,
		live.TeamB,
		live.ScoreA,
		live.ScoreB,
		live.ResetAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert live game: %w", err)
	}
	return nil
}

// MarkReset stamps reset_at so every connected scoreboard falls back to the
// quick-match defaults on its next poll.
func (r *postgresLiveGameRepository) MarkReset(ctx context.Context) error {
	query := `UPDATE live_game SET reset_at = NOW(), updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, models.LiveGameID)
	if err != nil {
		return fmt.Errorf("failed to mark live game reset: %w", err)
	}
	return checkAffectedRows(result, ErrLiveGameNotFound)
}
