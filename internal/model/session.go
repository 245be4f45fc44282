package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists server-side session state for issued session tokens.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	GetByJTI(ctx context.Context, jti string) (Session, error)
	RevokeByJTI(ctx context.Context, jti string) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
}

// Session is the persisted half of a login session. The token itself lives in
// the client cookie; only its hash is stored.
type Session struct {
	ID        uuid.UUID
	JTI       string
	UserID    uuid.UUID
	TokenHash []byte
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IssuedSession is a freshly signed session token.
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
}

// AuthSession is the outcome of a successful sign-in.
type AuthSession struct {
	User    User
	Session IssuedSession
}

// Status describes the caller for the user-status endpoint.
type Status struct {
	LoggedIn bool       `json:"loggedIn"`
	Name     string     `json:"name,omitempty"`
	ID       *uuid.UUID `json:"id,omitempty"`
}

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "bq_session"
