package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bananaquest-server/internal/mocks"
	"github.com/dtroode/bananaquest-server/internal/model"
	"github.com/dtroode/bananaquest-server/internal/testutil"
)

func TestPuzzle(t *testing.T) {
	puzzle := model.Puzzle{ImageRef: "https://example.com/banana.png", Solution: 7}
	upstreamErr := fmt.Errorf("%w: status 500", model.ErrPuzzleUnavailable)

	tests := []struct {
		name       string
		serve      func(*Puzzle) http.HandlerFunc
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "puzzle",
			serve:      func(h *Puzzle) http.HandlerFunc { return h.GetPuzzle },
			wantStatus: http.StatusOK,
			wantBody:   `{"imageRef":"https://example.com/banana.png","solution":7}`,
		},
		{
			name:       "legacy shape",
			serve:      func(h *Puzzle) http.HandlerFunc { return h.BananaJSON },
			wantStatus: http.StatusOK,
			wantBody:   `{"question":"https://example.com/banana.png","solution":7}`,
		},
		{
			name:       "upstream down",
			serve:      func(h *Puzzle) http.HandlerFunc { return h.GetPuzzle },
			err:        upstreamErr,
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"message":"puzzle service unavailable"}`,
		},
		{
			name:       "legacy upstream down",
			serve:      func(h *Puzzle) http.HandlerFunc { return h.BananaJSON },
			err:        upstreamErr,
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"message":"puzzle service unavailable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := mocks.NewPuzzleSource(t)
			if tt.err != nil {
				source.On("Fetch", mock.Anything).Return(model.Puzzle{}, tt.err).Once()
			} else {
				source.On("Fetch", mock.Anything).Return(puzzle, nil).Once()
			}
			h := NewPuzzle(source, testutil.MakeNoopLogger())

			rec := httptest.NewRecorder()
			tt.serve(h)(rec, httptest.NewRequest(http.MethodGet, "/puzzle", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
