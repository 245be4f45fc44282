package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bananaquest-server/internal/model"
)

type IdentityProvider struct {
	mock.Mock
}

func NewIdentityProvider(t testingT) *IdentityProvider {
	m := &IdentityProvider{}
	register(&m.Mock, t)
	return m
}

func (m *IdentityProvider) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *IdentityProvider) Exchange(ctx context.Context, code string) (model.ExternalProfile, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.ExternalProfile), args.Error(1)
}

type PuzzleSource struct {
	mock.Mock
}

func NewPuzzleSource(t testingT) *PuzzleSource {
	m := &PuzzleSource{}
	register(&m.Mock, t)
	return m
}

func (m *PuzzleSource) Fetch(ctx context.Context) (model.Puzzle, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Puzzle), args.Error(1)
}
