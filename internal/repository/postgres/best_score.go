package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/bananaquest-server/internal/model"
)

var _ model.BestScoreStore = (*BestScoreRepository)(nil)

type BestScoreRepository struct {
	db *Connection
}

func NewBestScoreRepository(db *Connection) *BestScoreRepository {
	return &BestScoreRepository{
		db: db,
	}
}

// SetIfGreater upserts the user's best score. The conflict branch only fires
// when the stored score is strictly lower, and Postgres re-checks that
// predicate against the latest committed row under the row lock, so
// concurrent submissions for one user always converge on the maximum.
func (r *BestScoreRepository) SetIfGreater(ctx context.Context, best model.BestScore) (bool, error) {
	const query = `
		INSERT INTO best_scores (id, user_id, name, score, updated_at)
		VALUES ($1, $2, $3, $4, clock_timestamp())
		ON CONFLICT (user_id) DO UPDATE
			SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
			WHERE best_scores.score < EXCLUDED.score
		RETURNING id`

	if best.ID == uuid.Nil {
		best.ID = uuid.New()
	}

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query, best.ID, best.UserID, best.Name, best.Score).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to set best score: %w", err)
	}

	return true, nil
}

func (r *BestScoreRepository) GetByUser(ctx context.Context, userID uuid.UUID) (model.BestScore, error) {
	const query = `SELECT id, user_id, name, score, updated_at FROM best_scores WHERE user_id = $1`

	var b model.BestScore
	err := r.db.QueryRow(ctx, query, userID).Scan(&b.ID, &b.UserID, &b.Name, &b.Score, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.BestScore{}, model.ErrNotFound
		}
		return model.BestScore{}, fmt.Errorf("failed to get best score: %w", err)
	}

	return b, nil
}

// Top returns the highest best scores. Ties go to whoever reached the score first.
func (r *BestScoreRepository) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	const query = `
		SELECT name, score
		FROM best_scores
		ORDER BY score DESC, updated_at ASC, id ASC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]model.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.Score); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}

	return entries, nil
}
