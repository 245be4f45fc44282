package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/model"
)

// SessionService issues, validates and revokes login sessions. It composes
// the TokenManager and SessionStore.
type SessionService struct {
	manager model.TokenManager
	store   model.SessionStore
	logger  *logger.Logger
	now     func() time.Time
}

func NewSessionService(manager model.TokenManager, store model.SessionStore, logger *logger.Logger) *SessionService {
	return &SessionService{
		manager: manager,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *SessionService) Issue(ctx context.Context, userID uuid.UUID) (model.IssuedSession, error) {
	token, jti, expiresAt, err := s.manager.GenerateSessionToken(userID)
	if err != nil {
		return model.IssuedSession{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	now := s.now()
	session := model.Session{
		ID:        uuid.New(),
		JTI:       jti,
		UserID:    userID,
		TokenHash: hashToken(token),
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}
	if err := s.store.Create(ctx, session); err != nil {
		return model.IssuedSession{}, fmt.Errorf("failed to persist session: %w", err)
	}

	return model.IssuedSession{
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate returns the session owner. Any rejection wraps model.ErrUnauthenticated.
func (s *SessionService) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	userID, jti, err := s.manager.ParseSessionToken(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", model.ErrUnauthenticated, err)
	}

	session, err := s.store.GetByJTI(ctx, jti)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return uuid.Nil, fmt.Errorf("%w: unknown session", model.ErrUnauthenticated)
		}
		return uuid.Nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := validateSession(session, userID, hashToken(token), s.now()); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", model.ErrUnauthenticated, err)
	}

	return userID, nil
}

func (s *SessionService) Revoke(ctx context.Context, token string) error {
	_, jti, err := s.manager.ParseSessionToken(token)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrUnauthenticated, err)
	}
	if err := s.store.RevokeByJTI(ctx, jti); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *SessionService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.RevokeAllByUser(ctx, userID)
}

func hashToken(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateSession(session model.Session, userID uuid.UUID, presentedHash []byte, now time.Time) error {
	if session.RevokedAt != nil {
		return model.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return model.ErrSessionExpired
	}
	if session.UserID != userID || subtle.ConstantTimeCompare(session.TokenHash, presentedHash) != 1 {
		return model.ErrSessionMismatch
	}
	return nil
}
