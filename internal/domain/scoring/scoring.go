// Package scoring turns a finished session's reflection output into
// per-player insight scores for the prospect board.
package scoring

import (
	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/domain/reflection"
	"github.com/touchline/scoutsim/internal/domain/session"
)

// Default insight weighting constants.
const (
	defaultWeakWeight     = 1.0
	defaultModerateWeight = 2.0
	defaultStrongWeight   = 3.0
	defaultForMultiplier  = 2.0
	defaultGutWeight      = 4.0
	defaultFocusWeight    = 0.5
)

// Option applies a configuration option to the InsightScorer.
type Option func(*InsightScorer)

// WithStrengthWeights sets the per-strength evidence weights.
func WithStrengthWeights(weak, moderate, strong float64) Option {
	return func(s *InsightScorer) {
		if weak > 0 && moderate > 0 && strong > 0 {
			s.strengthWeights[model.EvidenceWeak] = weak
			s.strengthWeights[model.EvidenceModerate] = moderate
			s.strengthWeights[model.EvidenceStrong] = strong
		}
	}
}

// WithGutWeight sets the multiplier applied to gut feeling reliability.
func WithGutWeight(weight float64) Option {
	return func(s *InsightScorer) {
		if weight > 0 {
			s.gutWeight = weight
		}
	}
}

// WithFocusWeight sets the per-focused-phase credit.
func WithFocusWeight(weight float64) Option {
	return func(s *InsightScorer) {
		if weight > 0 {
			s.focusWeight = weight
		}
	}
}

// Scorer computes board-ready insight scores from a finished session and
// the reflection generated after it.
type Scorer interface {
	Score(sess *session.Session, refl reflection.Result) []model.ProspectInsight
}

// InsightScorer implements Scorer with the standard weighting: supporting
// hypotheses count double their evidence weight, undermining ones subtract
// it, the gut feeling subject earns its reliability times a fixed
// multiplier, and every focused phase adds a small watch-time credit.
type InsightScorer struct {
	strengthWeights map[model.EvidenceStrength]float64
	forMultiplier   float64
	gutWeight       float64
	focusWeight     float64
}

// NewInsightScorer creates an insight scorer with configuration options.
func NewInsightScorer(opts ...Option) *InsightScorer {
	s := &InsightScorer{
		strengthWeights: map[model.EvidenceStrength]float64{
			model.EvidenceWeak:     defaultWeakWeight,
			model.EvidenceModerate: defaultModerateWeight,
			model.EvidenceStrong:   defaultStrongWeight,
		},
		forMultiplier: defaultForMultiplier,
		gutWeight:     defaultGutWeight,
		focusWeight:   defaultFocusWeight,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score computes one insight entry per player the session yielded anything
// about, in first-contribution order. Only the session's fresh hypotheses
// count; beliefs already on file were scored when first formed. A
// hypothesis without evidence contributes nothing.
func (s *InsightScorer) Score(sess *session.Session, refl reflection.Result) []model.ProspectInsight {
	totals := make(map[string]float64)
	names := make(map[string]string)
	var order []string

	add := func(playerID, name string, delta float64) {
		if playerID == "" {
			return
		}
		if _, seen := totals[playerID]; !seen {
			order = append(order, playerID)
		}
		totals[playerID] += delta
		if names[playerID] == "" {
			names[playerID] = name
		}
	}

	for _, h := range refl.SuggestedHypotheses {
		if len(h.Evidence) == 0 {
			continue
		}
		ev := h.Evidence[0]
		weight := s.strengthWeights[ev.Strength]
		if ev.Direction == model.EvidenceAgainst {
			weight = -weight
		} else {
			weight *= s.forMultiplier
		}
		add(h.PlayerID, s.playerName(sess, h.PlayerID), weight)
	}

	if gut := refl.GutFeeling; gut != nil {
		add(gut.PlayerID, gut.PlayerName, s.gutWeight*gut.Reliability)
	}

	for _, p := range sess.Players {
		if len(p.FocusedPhases) == 0 {
			continue
		}
		add(p.PlayerID, p.Name, s.focusWeight*float64(len(p.FocusedPhases)))
	}

	out := make([]model.ProspectInsight, 0, len(order))
	for _, playerID := range order {
		out = append(out, model.ProspectInsight{
			PlayerID:     playerID,
			PlayerName:   names[playerID],
			InsightScore: totals[playerID],
		})
	}
	return out
}

func (s *InsightScorer) playerName(sess *session.Session, playerID string) string {
	if p := sess.PlayerByID(playerID); p != nil {
		return p.Name
	}
	return ""
}
