package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/dtroode/bananaquest-server/database"
	httpctx "github.com/dtroode/bananaquest-server/internal/api/http/context"
	"github.com/dtroode/bananaquest-server/internal/api/http/handler"
	"github.com/dtroode/bananaquest-server/internal/api/http/router"
	httpServer "github.com/dtroode/bananaquest-server/internal/api/http/server"
	"github.com/dtroode/bananaquest-server/internal/config"
	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/metrics"
	"github.com/dtroode/bananaquest-server/internal/model"
	"github.com/dtroode/bananaquest-server/internal/oauth"
	"github.com/dtroode/bananaquest-server/internal/puzzle"
	"github.com/dtroode/bananaquest-server/internal/repository/postgres"
	"github.com/dtroode/bananaquest-server/internal/server"
	"github.com/dtroode/bananaquest-server/internal/service"
	storage "github.com/dtroode/bananaquest-server/internal/storage/minio"
	"github.com/dtroode/bananaquest-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	sqlDB, err := database.Open(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to open health probe connection", "error", err)
	}
	defer sqlDB.Close()

	m := metrics.New()
	tracer := otel.Tracer("bananaquest")

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	attemptRepo := postgres.NewAttemptRepository(db)
	bestScoreRepo := postgres.NewBestScoreRepository(db)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.Session.TTL)
	sessionService := service.NewSessionService(tokenManager, sessionRepo, logger)

	var provider model.IdentityProvider
	if cfg.Google.ClientID != "" {
		provider = oauth.NewGoogle(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.CallbackURL)
	} else {
		logger.Info("google sign-in disabled, GOOGLE_CLIENT_ID is not set")
	}

	authService := service.NewAuth(userRepo, sessionService, provider, cfg.Bcrypt.Cost, tracer, logger)
	scoreService := service.NewScore(attemptRepo, bestScoreRepo, m, tracer, logger)
	puzzleClient := puzzle.NewClient(cfg.Puzzle.URL, cfg.Puzzle.Timeout, m, logger)

	var avatarService handler.AvatarService
	if cfg.Storage.Endpoint != "" {
		storageClient, err := storage.Dial(ctx, cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.UseSSL, cfg.Storage.Bucket)
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
		avatarService = service.NewAvatar(userRepo, storageClient, logger)
	} else {
		logger.Info("avatars disabled, MINIO_ENDPOINT is not set")
	}

	r := router.New(
		authService,
		scoreService,
		avatarService,
		puzzleClient,
		database.NewProbe(sqlDB),
		m,
		httpctx.NewManager(),
		cfg.HTTP.StaticDir,
		cfg.HTTP.SecureCookies,
		logger,
	)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
