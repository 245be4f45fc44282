package model

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLeaderboardLimit is the number of leaderboard rows returned when no limit is given.
	DefaultLeaderboardLimit = 10
	// DefaultHistoryLimit is the number of history rows returned when no limit is given.
	DefaultHistoryLimit = 50
	// MaxQueryLimit caps both leaderboard and history reads.
	MaxQueryLimit = 100
)

// AttemptStore is the append-only score ledger.
type AttemptStore interface {
	Append(ctx context.Context, attempt ScoreAttempt) (ScoreAttempt, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]ScoreAttempt, error)
}

// BestScoreStore is the per-user running maximum used for ranking.
type BestScoreStore interface {
	// SetIfGreater creates the user's best score or raises it when score is
	// strictly greater than the stored value, as a single atomic statement.
	// It reports whether a row was inserted or updated.
	SetIfGreater(ctx context.Context, best BestScore) (bool, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (BestScore, error)
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// ScoreAttempt is one ledger row.
type ScoreAttempt struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// BestScore is one index row.
type BestScore struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Score     float64
	UpdatedAt time.Time
}

// LeaderboardEntry is the public projection of a BestScore.
type LeaderboardEntry struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SubmitResult is returned by a successful score submission.
type SubmitResult struct {
	Attempt          ScoreAttempt `json:"attempt"`
	BestScoreUpdated bool         `json:"bestScoreUpdated"`
}

// ParseScore converts a raw client value into a score. The value must be a
// finite number greater than or equal to zero.
func ParseScore(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidScore
	}

	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrInvalidScore
	}
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		return 0, ErrInvalidScore
	}

	return score, nil
}

// NormalizeLimit applies the default when limit is zero and rejects values
// outside 1..MaxQueryLimit.
func NormalizeLimit(limit, def int) (int, error) {
	if limit == 0 {
		return def, nil
	}
	if limit < 0 || limit > MaxQueryLimit {
		return 0, ErrInvalidLimit
	}
	return limit, nil
}
