package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/bananaquest-server/internal/logger"
)

// HealthChecker reports database reachability and the applied schema version.
type HealthChecker interface {
	Check(ctx context.Context) (int64, error)
}

type Health struct {
	checker HealthChecker
	logger  *logger.Logger
}

func NewHealth(checker HealthChecker, logger *logger.Logger) *Health {
	return &Health{
		checker: checker,
		logger:  logger,
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	SchemaVersion int64  `json:"schemaVersion"`
}

func (h *Health) Health(w http.ResponseWriter, r *http.Request) {
	version, err := h.checker.Check(r.Context())
	if err != nil {
		h.logger.Warn("Health handler: database check failed", "error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", SchemaVersion: version})
}
