package handler

import (
	"net/http"

	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/model"
)

type Puzzle struct {
	source model.PuzzleSource
	logger *logger.Logger
}

func NewPuzzle(source model.PuzzleSource, logger *logger.Logger) *Puzzle {
	return &Puzzle{
		source: source,
		logger: logger,
	}
}

func (h *Puzzle) GetPuzzle(w http.ResponseWriter, r *http.Request) {
	p, err := h.source.Fetch(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

type legacyPuzzleResponse struct {
	Question string `json:"question"`
	Solution int    `json:"solution"`
}

// BananaJSON serves the puzzle in the upstream field naming used by older clients.
func (h *Puzzle) BananaJSON(w http.ResponseWriter, r *http.Request) {
	p, err := h.source.Fetch(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, legacyPuzzleResponse{
		Question: p.ImageRef,
		Solution: p.Solution,
	})
}
