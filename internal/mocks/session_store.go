package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bananaquest-server/internal/model"
)

type SessionStore struct {
	mock.Mock
}

func NewSessionStore(t testingT) *SessionStore {
	m := &SessionStore{}
	register(&m.Mock, t)
	return m
}

func (m *SessionStore) Create(ctx context.Context, session model.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *SessionStore) GetByJTI(ctx context.Context, jti string) (model.Session, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) RevokeByJTI(ctx context.Context, jti string) error {
	return m.Called(ctx, jti).Error(0)
}

func (m *SessionStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}
