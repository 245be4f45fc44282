package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/bananaquest-server/internal/api/http/context"
	"github.com/dtroode/bananaquest-server/internal/api/http/handler"
	"github.com/dtroode/bananaquest-server/internal/metrics"
	"github.com/dtroode/bananaquest-server/internal/mocks"
	"github.com/dtroode/bananaquest-server/internal/model"
	"github.com/dtroode/bananaquest-server/internal/testutil"
)

type staticChecker int64

func (c staticChecker) Check(context.Context) (int64, error) { return int64(c), nil }

type routerDeps struct {
	auth   *mocks.AuthService
	score  *mocks.ScoreService
	avatar *mocks.AvatarService
	puzzle *mocks.PuzzleSource
}

func newTestRouter(t *testing.T, withAvatars bool, staticDir string) (http.Handler, routerDeps) {
	t.Helper()

	deps := routerDeps{
		auth:   mocks.NewAuthService(t),
		score:  mocks.NewScoreService(t),
		avatar: mocks.NewAvatarService(t),
		puzzle: mocks.NewPuzzleSource(t),
	}

	var avatars handler.AvatarService
	if withAvatars {
		avatars = deps.avatar
	}

	r := New(deps.auth, deps.score, avatars, deps.puzzle, staticChecker(4), metrics.New(),
		httpctx.NewManager(), staticDir, false, testutil.MakeNoopLogger())
	return r.Register(), deps
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	h, deps := newTestRouter(t, false, "")

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","schemaVersion":4}`, rec.Body.String())

	deps.score.On("TopScores", mock.Anything, 3).Return([]model.LeaderboardEntry{{Name: "a", Score: 1}}, nil).Once()
	rec = serve(h, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	deps.puzzle.On("Fetch", mock.Anything).Return(model.Puzzle{ImageRef: "img", Solution: 2}, nil).Once()
	rec = serve(h, httptest.NewRequest(http.MethodGet, "/puzzle", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	deps.auth.On("Status", (*model.Identity)(nil)).Return(model.Status{}).Once()
	rec = serve(h, httptest.NewRequest(http.MethodGet, "/user-status", nil))
	assert.JSONEq(t, `{"loggedIn":false}`, rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `bananaquest_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRouter_RequireLogin(t *testing.T) {
	h, deps := newTestRouter(t, false, "")

	t.Run("anonymous", func(t *testing.T) {
		rec := serve(h, httptest.NewRequest(http.MethodPost, "/scores", strings.NewReader(`{"score":1}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"login required"}`, rec.Body.String())
	})

	t.Run("rejected session", func(t *testing.T) {
		deps.auth.On("Resolve", mock.Anything, "stale").Return(model.Identity{}, model.ErrUnauthenticated).Once()

		req := httptest.NewRequest(http.MethodGet, "/my-scores", nil)
		req.AddCookie(&http.Cookie{Name: model.SessionCookie, Value: "stale"})
		rec := serve(h, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid session", func(t *testing.T) {
		identity := model.Identity{UserID: uuid.New(), Name: "ann"}
		deps.auth.On("Resolve", mock.Anything, "good").Return(identity, nil).Once()
		deps.score.On("Submit", mock.Anything, &identity, "5").Return(model.SubmitResult{}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/scores", strings.NewReader(`{"score":5}`))
		req.Header.Set("Authorization", "Bearer good")
		rec := serve(h, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_Avatars(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		h, _ := newTestRouter(t, false, "")
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/avatars/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		h, deps := newTestRouter(t, true, "")
		id := uuid.New()
		deps.avatar.On("Open", mock.Anything, id).Return(nil, model.ObjectInfo{}, model.ErrNotFound).Once()

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/avatars/"+id.String(), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"not found"}`, rec.Body.String())

		rec = serve(h, httptest.NewRequest(http.MethodPut, "/me/avatar", strings.NewReader("x")))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRouter_Static(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "login.html"), []byte("<h1>login</h1>"), 0o600))

	h, _ := newTestRouter(t, false, dir)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/login.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>login</h1>", rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/missing.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
