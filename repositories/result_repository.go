package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rachao-basket/scoreboard/models"
)

var ErrResultNotFound = errors.New("match result not found")

type ResultRepository interface {
	Upsert(ctx context.Context, result *models.MatchResult) error
	GetByMatchID(ctx context.Context, matchID int) (*models.MatchResult, error)
	ListByMatchIDs(ctx context.Context, matchIDs []int) ([]*models.MatchResult, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) Upsert(ctx context.Context, result *models.MatchResult) error {
	query := `
		INSERT INTO match_results (match_id, score_a, score_b, baskets1, baskets2, baskets3, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id) DO UPDATE SET
			score_a = EXCLUDED.score_a,
			score_b = EXCLUDED.score_b,
			baskets1 = EXCLUDED.baskets1,
			baskets2 = EXCLUDED.baskets2,
			baskets3 = EXCLUDED.baskets3,
			finished_at = EXCLUDED.finished_at`

	_, err := r.db.ExecContext(ctx, query,
		result.MatchID,
		result.ScoreA,
		result.ScoreB,
		result.Baskets1,
		result.Baskets2,
		result.Baskets3,
		result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert result for match %d: %w", result.MatchID, err)
	}
	return nil
}

func (r *postgresResultRepository) GetByMatchID(ctx context.Context, matchID int) (*models.MatchResult, error) {
	query := `SELECT match_id, score_a, score_b, baskets1, baskets2, baskets3, finished_at
		FROM match_results WHERE match_id = $1`

	result := &models.MatchResult{}
	err := r.db.QueryRowContext(ctx, query, matchID).Scan(
		&result.MatchID,
		&result.ScoreA,
		&result.ScoreB,
		&result.Baskets1,
		&result.Baskets2,
		&result.Baskets3,
		&result.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to scan result for match %d: %w", matchID, err)
	}
	return result, nil
}

func (r *postgresResultRepository) ListByMatchIDs(ctx context.Context, matchIDs []int) ([]*models.MatchResult, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	query := `SELECT match_id, score_a, score_b, baskets1, baskets2, baskets3, finished_at
		FROM match_results WHERE match_id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []*models.MatchResult
	for rows.Next() {
		result := &models.MatchResult{}
		if err := rows.Scan(
			&result.MatchID,
			&result.ScoreA,
			&result.ScoreB,
			&result.Baskets1,
			&result.Baskets2,
			&result.Baskets3,
			&result.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}
	return results, nil
}
