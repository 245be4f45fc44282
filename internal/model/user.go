package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error
	SetAvatar(ctx context.Context, id uuid.UUID, avatar string) error
}

// User represents a stored player account.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash *string
	GoogleID     *string
	Avatar       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the user can sign in with local credentials.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Identity is the authenticated caller resolved once at the transport boundary
// and passed explicitly into service calls.
type Identity struct {
	UserID uuid.UUID
	Name   string
	Email  string
}

// ContextManager stores and retrieves the caller identity on a request context.
type ContextManager interface {
	SetIdentityToContext(ctx context.Context, identity Identity) context.Context
	GetIdentityFromContext(ctx context.Context) (Identity, bool)
}
