// Package repository defines the prospect board store interface and errors.
package repository

import "context"

// Entry represents a prospect board row.
type Entry struct {
	Rank            int
	PlayerID        string
	PlayerName      string
	InsightScore    float64
	AssignmentID    string
	FixtureID       string
	Week            int
	HypothesisCount int
	GutReliability  float64
}

// Meta carries the provenance stored alongside a player's best score.
type Meta struct {
	PlayerName      string
	AssignmentID    string
	FixtureID       string
	Week            int
	HypothesisCount int
	GutReliability  float64
}

// Store provides read/write access to the prospect board state.
type Store interface {
	// UpdateBest sets a new best insight score for a player if higher than
	// the existing one. Returns true if the store updated the score.
	UpdateBest(ctx context.Context, playerID string, score float64) (bool, error)
	// UpdateBestWithMeta sets a new best score and stores the producing
	// assignment's provenance when improved.
	UpdateBestWithMeta(ctx context.Context, playerID string, score float64, meta Meta) (bool, error)

	// Rank returns the current rank and score for a player.
	// Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, playerID string) (Entry, error)

	// TopN returns the top-N entries ordered by insight score desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of players tracked on the board.
	Count(ctx context.Context) int
}
