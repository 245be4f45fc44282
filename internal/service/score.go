package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/metrics"
	"github.com/dtroode/bananaquest-server/internal/model"
)

// SubmissionRecorder receives one observation per score submission.
type SubmissionRecorder interface {
	ScoreSubmitted(result string, bestScoreUpdated bool)
}

// Score owns the ledger and best-score index.
type Score struct {
	attempts model.AttemptStore
	best     model.BestScoreStore
	recorder SubmissionRecorder
	tracer   trace.Tracer
	logger   *logger.Logger
}

func NewScore(
	attempts model.AttemptStore,
	best model.BestScoreStore,
	recorder SubmissionRecorder,
	tracer trace.Tracer,
	logger *logger.Logger,
) *Score {
	return &Score{
		attempts: attempts,
		best:     best,
		recorder: recorder,
		tracer:   tracer,
		logger:   logger,
	}
}

// Submit appends the attempt to the ledger, then raises the caller's best
// score if the new one is strictly greater. The ledger row stays committed
// even when the index update fails.
func (s *Score) Submit(ctx context.Context, caller *model.Identity, rawScore string) (model.SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "ScoreService.Submit")
	defer span.End()

	if caller == nil {
		s.recorder.ScoreSubmitted(metrics.ResultRejected, false)
		return model.SubmitResult{}, model.ErrUnauthenticated
	}
	span.SetAttributes(attribute.String("user_id", caller.UserID.String()))

	score, err := model.ParseScore(rawScore)
	if err != nil {
		s.logger.Debug("Score service: rejected score",
			"user_id", caller.UserID,
			"raw", rawScore)
		s.recorder.ScoreSubmitted(metrics.ResultRejected, false)
		return model.SubmitResult{}, err
	}
	span.SetAttributes(attribute.Float64("score", score))

	attempt, err := s.attempts.Append(ctx, model.ScoreAttempt{
		ID:     uuid.New(),
		UserID: caller.UserID,
		Name:   caller.Name,
		Score:  score,
	})
	if err != nil {
		s.logger.Error("Score service: failed to append attempt",
			"user_id", caller.UserID,
			"error", err.Error())
		span.SetStatus(codes.Error, err.Error())
		s.recorder.ScoreSubmitted(metrics.ResultError, false)
		return model.SubmitResult{}, fmt.Errorf("failed to append score attempt: %w", err)
	}

	updated, err := s.best.SetIfGreater(ctx, model.BestScore{
		ID:     uuid.New(),
		UserID: caller.UserID,
		Name:   caller.Name,
		Score:  score,
	})
	if err != nil {
		s.logger.Error("Score service: failed to update best score",
			"user_id", caller.UserID,
			"attempt_id", attempt.ID,
			"error", err.Error())
		span.SetStatus(codes.Error, err.Error())
		s.recorder.ScoreSubmitted(metrics.ResultError, false)
		return model.SubmitResult{}, fmt.Errorf("failed to update best score: %w", err)
	}

	s.logger.Info("Score service: score submitted",
		"user_id", caller.UserID,
		"score", score,
		"best_score_updated", updated)
	s.recorder.ScoreSubmitted(metrics.ResultOK, updated)

	return model.SubmitResult{
		Attempt:          attempt,
		BestScoreUpdated: updated,
	}, nil
}

// TopScores returns up to limit leaderboard rows. Zero selects the default.
func (s *Score) TopScores(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	ctx, span := s.tracer.Start(ctx, "ScoreService.TopScores")
	defer span.End()

	limit, err := model.NormalizeLimit(limit, model.DefaultLeaderboardLimit)
	if err != nil {
		return nil, err
	}

	entries, err := s.best.Top(ctx, limit)
	if err != nil {
		s.logger.Error("Score service: failed to load leaderboard",
			"limit", limit,
			"error", err.Error())
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}

	return entries, nil
}

// History returns the owner's attempts, newest first. Only the owner may read them.
func (s *Score) History(ctx context.Context, caller *model.Identity, ownerID uuid.UUID, limit int) ([]model.ScoreAttempt, error) {
	ctx, span := s.tracer.Start(ctx, "ScoreService.History")
	defer span.End()

	if caller == nil {
		return nil, model.ErrUnauthenticated
	}
	if caller.UserID != ownerID {
		s.logger.Warn("Score service: history access denied",
			"user_id", caller.UserID,
			"owner_id", ownerID)
		return nil, model.ErrForbidden
	}

	limit, err := model.NormalizeLimit(limit, model.DefaultHistoryLimit)
	if err != nil {
		return nil, err
	}

	attempts, err := s.attempts.ListByUser(ctx, ownerID, limit)
	if err != nil {
		s.logger.Error("Score service: failed to load history",
			"user_id", ownerID,
			"error", err.Error())
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to load score history: %w", err)
	}
	if attempts == nil {
		attempts = []model.ScoreAttempt{}
	}

	return attempts, nil
}
