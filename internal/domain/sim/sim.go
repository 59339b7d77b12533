// Package sim plays scouting assignments end to end: it generates the
// fixture's match timeline, spends the scout's attention over it, and
// distils the finished session into reflection output and per-player
// insight scores.
package sim

import (
	"context"
	"fmt"

	"github.com/touchline/scoutsim/internal/domain/attention"
	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/domain/reflection"
	"github.com/touchline/scoutsim/internal/domain/scoring"
	"github.com/touchline/scoutsim/internal/domain/session"
	"github.com/touchline/scoutsim/internal/random"
)

// Report is everything one simulated assignment produced.
type Report struct {
	AssignmentID string
	FixtureID    string
	Week         int
	Mode         attention.Mode
	Session      *session.Session
	Tokens       attention.FocusTokenState
	Reflection   reflection.Result
	Insights     []model.ProspectInsight
}

// Option applies a configuration option to the MatchdaySimulator.
type Option func(*MatchdaySimulator)

// WithRunner sets the session runner driving each assignment.
func WithRunner(runner *session.Runner) Option {
	return func(s *MatchdaySimulator) {
		if runner != nil {
			s.runner = runner
		}
	}
}

// WithScorer sets the insight scorer applied to finished sessions.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *MatchdaySimulator) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// MatchdaySimulator runs assignments with a session runner and an
// insight scorer. It is stateless across assignments and safe for
// concurrent use.
type MatchdaySimulator struct {
	runner *session.Runner
	scorer scoring.Scorer
}

// NewMatchdaySimulator creates a simulator with default pipeline stages.
func NewMatchdaySimulator(opts ...Option) *MatchdaySimulator {
	s := &MatchdaySimulator{
		runner: session.NewRunner(),
		scorer: scoring.NewInsightScorer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate plays the assignment from kickoff to the written-up report.
// The run is deterministic: the same assignment seed always yields the
// same report.
func (s *MatchdaySimulator) Simulate(ctx context.Context, a model.Assignment) (Report, error) { //nolint:gocritic // hugeParam: assignments are passed by value off the queue channel
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("simulate assignment %s: %w", a.AssignmentID, err)
	}
	if len(a.Fixture.HomePlayers) == 0 && len(a.Fixture.AwayPlayers) == 0 {
		return Report{}, fmt.Errorf("simulate assignment %s: %w", a.AssignmentID, ErrEmptyFixture)
	}

	rng := random.New(a.Seed)
	plan := session.Plan{
		Mode:          observationMode(a.Mode),
		Watchlist:     a.Scout.Watchlist,
		LensOverrides: lensOverrides(a.Scout.LensOverrides),
		Week:          a.Fixture.Week,
	}

	sess, tokens := s.runner.Run(rng, a.Fixture, plan)
	refl := reflection.Generate(sess, rng, scoutTraits(a.Scout), capabilities(a))
	insights := s.scorer.Score(sess, refl)

	return Report{
		AssignmentID: a.AssignmentID,
		FixtureID:    a.Fixture.FixtureID,
		Week:         a.Fixture.Week,
		Mode:         plan.Mode,
		Session:      sess,
		Tokens:       tokens,
		Reflection:   refl,
		Insights:     insights,
	}, nil
}

// observationMode maps the assignment's mode string onto the attention
// budget. An empty mode means a routine full-observation visit; any
// other unrecognised mode passes through and earns no tokens.
func observationMode(mode string) attention.Mode {
	if mode == "" {
		return attention.ModeFullObservation
	}
	return attention.Mode(mode)
}

func scoutTraits(s model.Scout) reflection.ScoutTraits {
	return reflection.ScoutTraits{Intuition: s.Intuition, SpecLevel: s.SpecLevel}
}

// capabilities builds the reflection perk surface for the assignment,
// answering potential lookups from the fixture's own rosters.
func capabilities(a model.Assignment) *reflection.Capabilities {
	profiles := make(map[string]reflection.PlayerProfile, len(a.Fixture.HomePlayers)+len(a.Fixture.AwayPlayers))
	for _, side := range [][]model.Player{a.Fixture.HomePlayers, a.Fixture.AwayPlayers} {
		for _, p := range side {
			profiles[p.PlayerID] = reflection.PlayerProfile{Name: p.Name, PotentialAbility: p.PotentialAbility}
		}
	}

	return &reflection.Capabilities{
		EstimatePotential: a.Scout.EstimatePotential,
		PAAccuracyBonus:   a.Scout.PAAccuracyBonus,
		PlayerLookup: func(playerID string) (reflection.PlayerProfile, bool) {
			profile, ok := profiles[playerID]
			return profile, ok
		},
	}
}

func lensOverrides(raw map[string]string) map[string]attention.Lens {
	if len(raw) == 0 {
		return nil
	}
	overrides := make(map[string]attention.Lens, len(raw))
	for playerID, lens := range raw {
		overrides[playerID] = attention.Lens(lens)
	}
	return overrides
}
