package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bananaquest-server/internal/model"
)

type AttemptStore struct {
	mock.Mock
}

func NewAttemptStore(t testingT) *AttemptStore {
	m := &AttemptStore{}
	register(&m.Mock, t)
	return m
}

func (m *AttemptStore) Append(ctx context.Context, attempt model.ScoreAttempt) (model.ScoreAttempt, error) {
	args := m.Called(ctx, attempt)
	return args.Get(0).(model.ScoreAttempt), args.Error(1)
}

func (m *AttemptStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.ScoreAttempt, error) {
	args := m.Called(ctx, userID, limit)
	attempts, _ := args.Get(0).([]model.ScoreAttempt)
	return attempts, args.Error(1)
}

type BestScoreStore struct {
	mock.Mock
}

func NewBestScoreStore(t testingT) *BestScoreStore {
	m := &BestScoreStore{}
	register(&m.Mock, t)
	return m
}

func (m *BestScoreStore) SetIfGreater(ctx context.Context, best model.BestScore) (bool, error) {
	args := m.Called(ctx, best)
	return args.Bool(0), args.Error(1)
}

func (m *BestScoreStore) GetByUser(ctx context.Context, userID uuid.UUID) (model.BestScore, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.BestScore), args.Error(1)
}

func (m *BestScoreStore) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]model.LeaderboardEntry)
	return entries, args.Error(1)
}
