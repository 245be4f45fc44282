package model

import "context"

// Puzzle is a single banana challenge. Solution is handed to the client,
// which checks answers locally.
type Puzzle struct {
	ImageRef string `json:"imageRef"`
	Solution int    `json:"solution"`
}

// PuzzleSource fetches a fresh puzzle from the upstream API.
type PuzzleSource interface {
	Fetch(ctx context.Context) (Puzzle, error)
}
