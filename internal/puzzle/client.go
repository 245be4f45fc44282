// Package puzzle proxies the external banana puzzle API.
package puzzle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/metrics"
	"github.com/dtroode/bananaquest-server/internal/model"
)

// maxBodySize bounds how much of the upstream response is read.
const maxBodySize = 1 << 20

// Recorder receives one observation per upstream fetch.
type Recorder interface {
	PuzzleFetched(result string, took time.Duration)
}

type upstreamPuzzle struct {
	Question string      `json:"question"`
	Solution json.Number `json:"solution"`
}

var _ model.PuzzleSource = (*Client)(nil)

// Client fetches puzzles with a fixed timeout and no retry.
type Client struct {
	url      string
	http     *http.Client
	recorder Recorder
	logger   *logger.Logger
}

func NewClient(url string, timeout time.Duration, recorder Recorder, logger *logger.Logger) *Client {
	return &Client{
		url:      url,
		http:     &http.Client{Timeout: timeout},
		recorder: recorder,
		logger:   logger,
	}
}

// Fetch returns a fresh puzzle. Every failure is reported as model.ErrPuzzleUnavailable.
func (c *Client) Fetch(ctx context.Context) (model.Puzzle, error) {
	start := time.Now()

	p, err := c.fetch(ctx)
	if err != nil {
		c.recorder.PuzzleFetched(metrics.ResultError, time.Since(start))
		c.logger.Warn("Puzzle client: upstream fetch failed",
			"url", c.url,
			"error", err.Error())
		return model.Puzzle{}, fmt.Errorf("%w: %v", model.ErrPuzzleUnavailable, err)
	}

	c.recorder.PuzzleFetched(metrics.ResultOK, time.Since(start))
	return p, nil
}

func (c *Client) fetch(ctx context.Context) (model.Puzzle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return model.Puzzle{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Puzzle{}, fmt.Errorf("failed to call upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Puzzle{}, fmt.Errorf("unexpected upstream status %d", resp.StatusCode)
	}

	var up upstreamPuzzle
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&up); err != nil {
		return model.Puzzle{}, fmt.Errorf("failed to decode upstream body: %w", err)
	}
	if up.Question == "" {
		return model.Puzzle{}, fmt.Errorf("upstream body has no question")
	}

	solution, err := up.Solution.Int64()
	if err != nil {
		return model.Puzzle{}, fmt.Errorf("invalid upstream solution %q: %w", up.Solution, err)
	}

	return model.Puzzle{
		ImageRef: up.Question,
		Solution: int(solution),
	}, nil
}
