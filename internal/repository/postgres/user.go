package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/bananaquest-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, name, email, password_hash, google_id, avatar, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, name, email, password_hash, google_id, avatar, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.GoogleID, user.Avatar,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

// LinkGoogleID attaches a Google account to an existing user that has none yet.
func (r *UserRepository) LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error {
	const query = `UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1 AND google_id IS NULL`

	cmd, err := r.db.Exec(ctx, query, id, googleID)
	if err != nil {
		return fmt.Errorf("failed to link google id: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetAvatar(ctx context.Context, id uuid.UUID, avatar string) error {
	const query = `UPDATE users SET avatar = $2, updated_at = NOW() WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id, avatar)
	if err != nil {
		return fmt.Errorf("failed to set avatar: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.GoogleID, &user.Avatar,
		&user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}
