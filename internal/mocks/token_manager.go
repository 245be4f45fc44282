package mocks

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type TokenManager struct {
	mock.Mock
}

func NewTokenManager(t testingT) *TokenManager {
	m := &TokenManager{}
	register(&m.Mock, t)
	return m
}

func (m *TokenManager) GenerateSessionToken(userID uuid.UUID) (string, string, time.Time, error) {
	args := m.Called(userID)
	return args.String(0), args.String(1), args.Get(2).(time.Time), args.Error(3)
}

func (m *TokenManager) ParseSessionToken(token string) (uuid.UUID, string, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}
