package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/bananaquest-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session model.Session) error {
	const query = `
        INSERT INTO sessions (id, jti, user_id, token_hash, issued_at, expires_at, revoked_at, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
    `

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		session.ID, session.JTI, session.UserID, session.TokenHash, session.IssuedAt, session.ExpiresAt,
		session.RevokedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByJTI(ctx context.Context, jti string) (model.Session, error) {
	const query = `
        SELECT id, jti, user_id, token_hash, issued_at, expires_at, revoked_at, created_at
        FROM sessions WHERE jti = $1
    `
	var s model.Session
	err := r.db.QueryRow(ctx, query, jti).Scan(
		&s.ID, &s.JTI, &s.UserID, &s.TokenHash, &s.IssuedAt, &s.ExpiresAt, &s.RevokedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session by jti: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) RevokeByJTI(ctx context.Context, jti string) error {
	const query = `UPDATE sessions SET revoked_at = NOW() WHERE jti = $1 AND revoked_at IS NULL`
	if _, err := r.db.Exec(ctx, query, jti); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (r *SessionRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	const query = `UPDATE sessions SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions by user: %w", err)
	}
	return nil
}
