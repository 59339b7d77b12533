// Package model contains domain models passed between layers.
package model

// Assignment describes one scouting job submitted to the service: which
// fixture to attend, how to watch it, and who does the watching. Mode and
// lens names arrive as plain strings; the worker converts them into the
// attention package's typed values at simulation time.
type Assignment struct {
	AssignmentID string // unique id for idempotency
	Fixture      Fixture
	Mode         string // observation mode, e.g. "fullObservation"
	Scout        Scout
	Seed         int64 // seed for the assignment's random stream
}

// Scout carries the observing scout's traits, capabilities, and brief.
type Scout struct {
	Name              string
	Intuition         int     // [0,100]
	SpecLevel         int     // [0,100]
	EstimatePotential bool    // may attach PA estimates to gut feelings
	PAAccuracyBonus   float64 // [0,1], tightens the PA estimate window
	Watchlist         []string
	LensOverrides     map[string]string // player ID -> lens name
}

// ProspectInsight captures one player's insight yield from a single
// session, used to rank prospects on the board.
type ProspectInsight struct {
	PlayerID     string
	PlayerName   string
	InsightScore float64
}
