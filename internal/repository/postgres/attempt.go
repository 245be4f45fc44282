package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/bananaquest-server/internal/model"
)

var _ model.AttemptStore = (*AttemptRepository)(nil)

// AttemptRepository is the score ledger. Rows are only ever inserted.
type AttemptRepository struct {
	db *Connection
}

func NewAttemptRepository(db *Connection) *AttemptRepository {
	return &AttemptRepository{
		db: db,
	}
}

// Append inserts a ledger row. created_at is assigned by the database clock.
func (r *AttemptRepository) Append(ctx context.Context, attempt model.ScoreAttempt) (model.ScoreAttempt, error) {
	const query = `
		INSERT INTO score_attempts (id, user_id, name, score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, score, created_at`

	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}

	var saved model.ScoreAttempt
	err := r.db.QueryRow(ctx, query, attempt.ID, attempt.UserID, attempt.Name, attempt.Score).Scan(
		&saved.ID, &saved.UserID, &saved.Name, &saved.Score, &saved.CreatedAt,
	)
	if err != nil {
		return model.ScoreAttempt{}, fmt.Errorf("failed to append score attempt: %w", err)
	}

	return saved, nil
}

// ListByUser returns the user's attempts, newest first.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.ScoreAttempt, error) {
	const query = `
		SELECT id, user_id, name, score, created_at
		FROM score_attempts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list score attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]model.ScoreAttempt, 0, limit)
	for rows.Next() {
		var a model.ScoreAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Score, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate score attempts: %w", err)
	}

	return attempts, nil
}
