package sim

import "errors"

// Sentinel kinds for simulation errors.
var (
	// ErrEmptyFixture reports an assignment whose fixture has no players
	// on either side.
	ErrEmptyFixture = errors.New("fixture has no players")
)
