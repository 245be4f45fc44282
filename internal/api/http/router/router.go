package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/bananaquest-server/internal/api/http/handler"
	"github.com/dtroode/bananaquest-server/internal/api/http/middleware"
	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/metrics"
	"github.com/dtroode/bananaquest-server/internal/model"
)

// AuthService covers sign-in endpoints and session resolution for every request.
type AuthService interface {
	handler.AuthService
	middleware.IdentityResolver
}

// Router wires handlers and middleware into a chi mux.
type Router struct {
	authService    AuthService
	scoreService   handler.ScoreService
	avatarService  handler.AvatarService
	puzzleSource   model.PuzzleSource
	healthChecker  handler.HealthChecker
	metrics        *metrics.Metrics
	contextManager model.ContextManager
	staticDir      string
	secureCookies  bool
	logger         *logger.Logger
}

// New creates a Router. avatarService may be nil, in which case avatar
// routes are not registered. An empty staticDir disables the file server.
func New(
	authService AuthService,
	scoreService handler.ScoreService,
	avatarService handler.AvatarService,
	puzzleSource model.PuzzleSource,
	healthChecker handler.HealthChecker,
	metrics *metrics.Metrics,
	contextManager model.ContextManager,
	staticDir string,
	secureCookies bool,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		scoreService:   scoreService,
		avatarService:  avatarService,
		puzzleSource:   puzzleSource,
		healthChecker:  healthChecker,
		metrics:        metrics,
		contextManager: contextManager,
		staticDir:      staticDir,
		secureCookies:  secureCookies,
		logger:         logger,
	}
}

// Register builds the HTTP handler tree.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger, r.metrics)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(logging.Handle)
	mux.Use(authenticate.Identify)

	mux.Get("/health", handler.NewHealth(r.healthChecker, r.logger).Health)
	mux.Method(http.MethodGet, "/metrics", r.metrics.Handler())

	r.registerPuzzleRoutes(mux)
	r.registerAuthRoutes(mux)
	r.registerScoreRoutes(mux, authenticate)
	if r.avatarService != nil {
		r.registerAvatarRoutes(mux, authenticate)
	}

	if r.staticDir != "" {
		mux.Handle("/*", http.FileServer(http.Dir(r.staticDir)))
	}

	return mux
}

func (r *Router) registerPuzzleRoutes(mux chi.Router) {
	puzzleHandler := handler.NewPuzzle(r.puzzleSource, r.logger)
	mux.Get("/puzzle", puzzleHandler.GetPuzzle)
	mux.Get("/banana-json", puzzleHandler.BananaJSON)
}

func (r *Router) registerAuthRoutes(mux chi.Router) {
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.secureCookies, r.logger)
	mux.Post("/signup", authHandler.Signup)
	mux.Post("/login", authHandler.Login)
	mux.Post("/logout", authHandler.Logout)
	mux.Get("/logout", authHandler.Logout)
	mux.Get("/auth/google", authHandler.GoogleStart)
	mux.Get("/auth/google/callback", authHandler.GoogleCallback)
	mux.Get("/user-status", authHandler.UserStatus)
}

func (r *Router) registerScoreRoutes(mux chi.Router, authenticate *middleware.Authenticate) {
	scoreHandler := handler.NewScore(r.scoreService, r.contextManager, r.logger)
	mux.Get("/leaderboard", scoreHandler.Leaderboard)
	mux.Get("/users/{userID}/scores", scoreHandler.UserScores)

	mux.Group(func(g chi.Router) {
		g.Use(authenticate.RequireLogin)
		g.Post("/scores", scoreHandler.SubmitScore)
		g.Get("/my-scores", scoreHandler.MyScores)
	})
}

func (r *Router) registerAvatarRoutes(mux chi.Router, authenticate *middleware.Authenticate) {
	avatarHandler := handler.NewAvatar(r.avatarService, r.contextManager, r.logger)
	mux.Get("/avatars/{userID}", avatarHandler.GetAvatar)

	mux.Group(func(g chi.Router) {
		g.Use(authenticate.RequireLogin)
		g.Put("/me/avatar", avatarHandler.UploadAvatar)
	})
}
