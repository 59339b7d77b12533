// Package types contains common types used across the application
package types

// Entry represents a prospect board entry
type Entry struct {
	Rank         int         `json:"rank"`
	PlayerID     string      `json:"player_id"`
	PlayerName   string      `json:"player_name,omitempty"`
	InsightScore float64     `json:"insight_score"`
	Provenance   *Provenance `json:"provenance,omitempty"`
}

// Provenance records which assignment produced the entry's best score.
type Provenance struct {
	AssignmentID    string  `json:"assignment_id"`
	FixtureID       string  `json:"fixture_id"`
	Week            int     `json:"week"`
	HypothesisCount int     `json:"hypothesis_count"`
	GutReliability  float64 `json:"gut_reliability,omitempty"`
}
