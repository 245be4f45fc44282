package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bananaquest-server/internal/model"
)

type ScoreService struct {
	mock.Mock
}

func NewScoreService(t testingT) *ScoreService {
	m := &ScoreService{}
	register(&m.Mock, t)
	return m
}

func (m *ScoreService) Submit(ctx context.Context, caller *model.Identity, rawScore string) (model.SubmitResult, error) {
	args := m.Called(ctx, caller, rawScore)
	return args.Get(0).(model.SubmitResult), args.Error(1)
}

func (m *ScoreService) TopScores(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]model.LeaderboardEntry)
	return entries, args.Error(1)
}

func (m *ScoreService) History(ctx context.Context, caller *model.Identity, ownerID uuid.UUID, limit int) ([]model.ScoreAttempt, error) {
	args := m.Called(ctx, caller, ownerID, limit)
	attempts, _ := args.Get(0).([]model.ScoreAttempt)
	return attempts, args.Error(1)
}

type AuthService struct {
	mock.Mock
}

func NewAuthService(t testingT) *AuthService {
	m := &AuthService{}
	register(&m.Mock, t)
	return m
}

func (m *AuthService) Signup(ctx context.Context, name, email, password string) (model.AuthSession, error) {
	args := m.Called(ctx, name, email, password)
	return args.Get(0).(model.AuthSession), args.Error(1)
}

func (m *AuthService) Login(ctx context.Context, email, password string) (model.AuthSession, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.AuthSession), args.Error(1)
}

func (m *AuthService) GoogleAuthURL(state string) (string, error) {
	args := m.Called(state)
	return args.String(0), args.Error(1)
}

func (m *AuthService) GoogleCallback(ctx context.Context, code string) (model.AuthSession, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.AuthSession), args.Error(1)
}

func (m *AuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *AuthService) Resolve(ctx context.Context, token string) (model.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Identity), args.Error(1)
}

func (m *AuthService) Status(caller *model.Identity) model.Status {
	return m.Called(caller).Get(0).(model.Status)
}

type AvatarService struct {
	mock.Mock
}

func NewAvatarService(t testingT) *AvatarService {
	m := &AvatarService{}
	register(&m.Mock, t)
	return m
}

func (m *AvatarService) Upload(ctx context.Context, caller *model.Identity, contentType string, size int64, body io.Reader) (string, error) {
	args := m.Called(ctx, caller, contentType, size, body)
	return args.String(0), args.Error(1)
}

func (m *AvatarService) Open(ctx context.Context, userID uuid.UUID) (io.ReadCloser, model.ObjectInfo, error) {
	args := m.Called(ctx, userID)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(model.ObjectInfo), args.Error(2)
}
