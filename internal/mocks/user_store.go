package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bananaquest-server/internal/model"
)

type UserStore struct {
	mock.Mock
}

func NewUserStore(t testingT) *UserStore {
	m := &UserStore{}
	register(&m.Mock, t)
	return m
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error {
	return m.Called(ctx, id, googleID).Error(0)
}

func (m *UserStore) SetAvatar(ctx context.Context, id uuid.UUID, avatar string) error {
	return m.Called(ctx, id, avatar).Error(0)
}
