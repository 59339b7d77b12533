package session

import (
	"math/rand"

	"github.com/touchline/scoutsim/internal/domain/attention"
	"github.com/touchline/scoutsim/internal/domain/match"
	"github.com/touchline/scoutsim/internal/domain/model"
)

// Plan describes the scout's intent for one session: how they attend,
// who they came to watch, and any lens preference per player.
type Plan struct {
	Mode          attention.Mode
	Watchlist     []string // player IDs in priority order
	LensOverrides map[string]attention.Lens
	Week          int
}

const (
	defaultPromisingMin  = 8
	defaultConcerningMax = 3
	defaultHoldPhases    = 4

	standoutHighQuality = 10
	standoutLowQuality  = 1

	pitchSideCount = 11
)

// Option configures a Runner.
type Option func(*Runner)

// WithPromisingThreshold sets the quality at or above which a visible
// moment is flagged promising.
func WithPromisingThreshold(quality int) Option {
	return func(r *Runner) { r.promisingMin = quality }
}

// WithConcerningThreshold sets the quality at or below which a visible
// moment is flagged concerning.
func WithConcerningThreshold(quality int) Option {
	return func(r *Runner) { r.concerningMax = quality }
}

// WithHoldPhases sets how many phases a focus window is held before the
// runner moves a token to the next watchlist target.
func WithHoldPhases(phases int) Option {
	return func(r *Runner) { r.holdPhases = phases }
}

// Runner plays a session from kickoff to the final whistle without a
// human at the controls. It spends focus greedily down the watchlist,
// refreshes tokens at halftime, and flags whatever the granted
// visibility supports.
type Runner struct {
	promisingMin  int
	concerningMax int
	holdPhases    int
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		promisingMin:  defaultPromisingMin,
		concerningMax: defaultConcerningMax,
		holdPhases:    defaultHoldPhases,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run generates the match timeline for the fixture and observes it end
// to end. The returned token state carries the full focus history so
// reflection can weigh what was actually watched.
func (r *Runner) Run(rng *rand.Rand, fixture model.Fixture, plan Plan) (*Session, attention.FocusTokenState) {
	phases := match.GeneratePhases(rng, match.PhaseContext{
		FixtureID:   fixture.FixtureID,
		HomePlayers: fixture.HomePlayers,
		AwayPlayers: fixture.AwayPlayers,
		Weather:     fixture.Weather,
	})

	atmosphere := rollAtmosphere(rng, fixture.Venue)
	sess := &Session{
		Phases:          phases,
		Players:         sessionRoster(fixture),
		VenueAtmosphere: &atmosphere,
		StartedAtWeek:   plan.Week,
	}

	state := attention.NewTokenState(plan.Mode)
	targets := resolveTargets(plan, fixture, sess)
	nextTarget := 0
	lastSpendPhase := 0
	halftime := len(phases) / 2
	refreshed := false

	for i := range phases {
		phaseNum := i + 1

		if !refreshed && i >= halftime && i > 0 {
			state = attention.RefreshTokens(state, plan.Mode)
			refreshed = true
			lastSpendPhase = 0
		}

		spent := false
		if state.Available > 0 && nextTarget < len(targets) &&
			(lastSpendPhase == 0 || phaseNum-lastSpendPhase >= r.holdPhases) {
			target := targets[nextTarget]
			if next := attention.SpendToken(state, target.playerID, target.lens, phaseNum); next != nil {
				state = *next
				lastSpendPhase = phaseNum
				nextTarget++
				spent = true
				if p := sess.PlayerByID(target.playerID); p != nil {
					lens := target.lens
					p.CurrentLens = &lens
				}
			}
		}
		if !spent {
			state = attention.AdvanceFocus(state)
		}

		for idx := range sess.Players {
			p := &sess.Players[idx]
			if attention.ObservationQuality(state, p.PlayerID, phaseNum) == attention.ObservationFocused {
				p.FocusedPhases = append(p.FocusedPhases, phaseNum)
			}
		}

		for _, ev := range phases[i].Events {
			if ev.PlayerID == "" {
				continue
			}
			level := attention.ObservationQuality(state, ev.PlayerID, phaseNum)
			r.flagEvent(sess, ev, level, i, plan.Week)
		}

		sess.CurrentPhaseIndex = phaseNum
	}

	return sess, state
}

// flagEvent records the moment when its quality clears a threshold and
// the scout's visibility permits noticing it. Peripheral vision only
// registers standout-grade moments; unfocused play passes unrecorded.
func (r *Runner) flagEvent(sess *Session, ev match.MatchEvent, level attention.ObservationLevel, phaseIndex, week int) {
	standout := ev.Quality >= standoutHighQuality || ev.Quality <= standoutLowQuality
	switch level {
	case attention.ObservationFocused:
	case attention.ObservationPeripheral:
		if !standout {
			return
		}
	default:
		return
	}

	var reaction Reaction
	switch {
	case ev.Quality >= r.promisingMin:
		reaction = ReactionPromising
	case ev.Quality <= r.concerningMax:
		reaction = ReactionConcerning
	default:
		return
	}

	sess.FlaggedMoments = append(sess.FlaggedMoments, FlaggedMoment{
		PlayerID:    ev.PlayerID,
		Type:        momentFor(ev.Type),
		Reaction:    reaction,
		Standout:    standout,
		Description: ev.Description,
		PhaseIndex:  phaseIndex,
		Week:        week,
	})
}

// eventMomentTypes maps what happened on the pitch to the domain the
// scout files the moment under.
var eventMomentTypes = map[match.EventType]MomentType{
	match.EventGoal:        MomentTechnicalAction,
	match.EventShot:        MomentTechnicalAction,
	match.EventPass:        MomentTechnicalAction,
	match.EventDribble:     MomentTechnicalAction,
	match.EventCross:       MomentTechnicalAction,
	match.EventSave:        MomentTechnicalAction,
	match.EventTackle:      MomentPhysicalTest,
	match.EventHeader:      MomentPhysicalTest,
	match.EventSprint:      MomentPhysicalTest,
	match.EventFoul:        MomentMentalResponse,
	match.EventError:       MomentMentalResponse,
	match.EventAssist:      MomentTacticalDecision,
	match.EventPositioning: MomentTacticalDecision,
	match.EventLeadership:  MomentCharacterReveal,
}

func momentFor(eventType match.EventType) MomentType {
	if m, ok := eventMomentTypes[eventType]; ok {
		return m
	}
	return MomentTechnicalAction
}

type focusTarget struct {
	playerID string
	lens     attention.Lens
}

// resolveTargets keeps the watchlist's priority order, dropping unknown
// and duplicate entries and settling each target's lens up front.
func resolveTargets(plan Plan, fixture model.Fixture, sess *Session) []focusTarget {
	targets := make([]focusTarget, 0, len(plan.Watchlist))
	seen := make(map[string]bool, len(plan.Watchlist))
	for _, id := range plan.Watchlist {
		if seen[id] || sess.PlayerByID(id) == nil {
			continue
		}
		seen[id] = true
		targets = append(targets, focusTarget{playerID: id, lens: lensFor(plan, fixture, id)})
	}
	return targets
}

func lensFor(plan Plan, fixture model.Fixture, playerID string) attention.Lens {
	if lens, ok := plan.LensOverrides[playerID]; ok {
		return lens
	}
	for _, p := range matchdaySquad(fixture) {
		if p.PlayerID == playerID {
			return defaultLensFor(p.Position)
		}
	}
	return attention.LensGeneral
}

// defaultLensFor picks the lens a scout reaches for by position when the
// plan does not say otherwise.
func defaultLensFor(position model.Position) attention.Lens {
	switch position {
	case model.PositionDF, model.PositionMF:
		return attention.LensTactical
	default:
		return attention.LensTechnical
	}
}

// sessionRoster lists the on-pitch players the scout can attend to.
func sessionRoster(fixture model.Fixture) []SessionPlayer {
	squad := matchdaySquad(fixture)
	roster := make([]SessionPlayer, 0, len(squad))
	for _, p := range squad {
		roster = append(roster, SessionPlayer{PlayerID: p.PlayerID, Name: p.Name})
	}
	return roster
}

// matchdaySquad takes the first eleven of each side; shorter rosters
// field what they have.
func matchdaySquad(fixture model.Fixture) []model.Player {
	squad := make([]model.Player, 0, 2*pitchSideCount)
	for _, side := range [][]model.Player{fixture.HomePlayers, fixture.AwayPlayers} {
		n := len(side)
		if n > pitchSideCount {
			n = pitchSideCount
		}
		squad = append(squad, side[:n]...)
	}
	return squad
}
