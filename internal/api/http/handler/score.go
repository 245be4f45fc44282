package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/model"
)

// ScoreService defines the score operations exposed over HTTP.
type ScoreService interface {
	Submit(ctx context.Context, caller *model.Identity, rawScore string) (model.SubmitResult, error)
	TopScores(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	History(ctx context.Context, caller *model.Identity, ownerID uuid.UUID, limit int) ([]model.ScoreAttempt, error)
}

type Score struct {
	scoreService   ScoreService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewScore(scoreService ScoreService, contextManager model.ContextManager, logger *logger.Logger) *Score {
	return &Score{
		scoreService:   scoreService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type submitScoreRequest struct {
	Score json.RawMessage `json:"score"`
}

// rawScore accepts a JSON number or a JSON string holding a number.
// Anything else yields an empty string, which fails score parsing.
func (req submitScoreRequest) rawScore() string {
	raw := bytes.TrimSpace(req.Score)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	default:
		return ""
	}
}

// SubmitScore records a score for the caller.
func (h *Score) SubmitScore(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context(), h.contextManager)

	var req submitScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	result, err := h.scoreService.Submit(r.Context(), caller, req.rawScore())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Score) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	entries, err := h.scoreService.TopScores(r.Context(), limit)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// MyScores returns the caller's own history.
func (h *Score) MyScores(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context(), h.contextManager)
	if caller == nil {
		handleError(w, model.ErrUnauthenticated, h.logger)
		return
	}
	h.history(w, r, caller, caller.UserID)
}

// UserScores returns the history of the user in the path. Only the owner may read it.
func (h *Score) UserScores(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, model.ErrInvalidUserID, h.logger)
		return
	}
	h.history(w, r, callerFromContext(r.Context(), h.contextManager), ownerID)
}

func (h *Score) history(w http.ResponseWriter, r *http.Request, caller *model.Identity, ownerID uuid.UUID) {
	limit, err := queryLimit(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	attempts, err := h.scoreService.History(r.Context(), caller, ownerID, limit)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, attempts)
}

func callerFromContext(ctx context.Context, cm model.ContextManager) *model.Identity {
	identity, ok := cm.GetIdentityFromContext(ctx)
	if !ok {
		return nil
	}
	return &identity
}
