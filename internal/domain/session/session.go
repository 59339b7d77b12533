// Package session assembles everything a scout accumulates over one
// watched fixture: the generated phase timeline, per-player focus history,
// flagged moments, and the venue atmosphere the match was read through.
//
// The Runner in this package stands in for the live match screen: it plans
// token spending over the timeline, reads events at the visibility the
// attention state grants, and flags the moments a scout would note down.
// Reflection consumes the assembled Session afterwards.
package session

import (
	"github.com/touchline/scoutsim/internal/domain/attention"
	"github.com/touchline/scoutsim/internal/domain/match"
	"github.com/touchline/scoutsim/internal/domain/model"
)

// MomentType classifies what kind of read a flagged moment was.
type MomentType string

// Moment types.
const (
	MomentTechnicalAction  MomentType = "technicalAction"
	MomentPhysicalTest     MomentType = "physicalTest"
	MomentMentalResponse   MomentType = "mentalResponse"
	MomentTacticalDecision MomentType = "tacticalDecision"
	MomentCharacterReveal  MomentType = "characterReveal"
)

// Domain maps a moment type onto the hypothesis domain it speaks about.
func (m MomentType) Domain() model.HypothesisDomain {
	switch m {
	case MomentTechnicalAction:
		return model.DomainTechnical
	case MomentPhysicalTest:
		return model.DomainPhysical
	case MomentMentalResponse:
		return model.DomainMental
	case MomentTacticalDecision:
		return model.DomainTactical
	case MomentCharacterReveal:
		return model.DomainHidden
	default:
		return model.DomainTechnical
	}
}

// Reaction is the scout's verdict on a flagged moment.
type Reaction string

// Reactions.
const (
	ReactionPromising  Reaction = "promising"
	ReactionConcerning Reaction = "concerning"
)

// FlaggedMoment is one noted observation: a player doing something worth
// remembering, for better or worse.
type FlaggedMoment struct {
	PlayerID    string
	Type        MomentType
	Reaction    Reaction
	Standout    bool
	Description string
	PhaseIndex  int
	Week        int
}

// SessionPlayer tracks one on-pitch player through the session.
type SessionPlayer struct {
	PlayerID      string
	Name          string
	FocusedPhases []int
	CurrentLens   *attention.Lens // last lens spent on the player, if any
}

// VenueAtmosphere describes the ground conditions the session was read
// through. ChaosLevel in [0,1] grades how hostile the environment is to a
// clean read.
type VenueAtmosphere struct {
	VenueType   model.VenueType
	ChaosLevel  float64
	Description string
}

// Session is the aggregate handed to reflection once the final whistle
// goes. Hypotheses holds beliefs already on file before reflection runs;
// reflection's suggestions are appended by the caller if accepted.
type Session struct {
	Phases            []match.MatchPhase
	Players           []SessionPlayer
	FlaggedMoments    []FlaggedMoment
	Hypotheses        []model.Hypothesis
	VenueAtmosphere   *VenueAtmosphere
	StartedAtWeek     int
	CurrentPhaseIndex int // next phase to observe; len(Phases) once complete
}

// MostFocusedPlayer returns the player with the most focused phases, ties
// resolved by roster order. Nil when nobody was focused at all.
func (s *Session) MostFocusedPlayer() *SessionPlayer {
	var best *SessionPlayer
	for i := range s.Players {
		p := &s.Players[i]
		if len(p.FocusedPhases) == 0 {
			continue
		}
		if best == nil || len(p.FocusedPhases) > len(best.FocusedPhases) {
			best = p
		}
	}
	return best
}

// PlayerByID finds a session player, or nil.
func (s *Session) PlayerByID(playerID string) *SessionPlayer {
	for i := range s.Players {
		if s.Players[i].PlayerID == playerID {
			return &s.Players[i]
		}
	}
	return nil
}

// HasHypothesis reports whether a hypothesis for the exact (player,
// domain) pair is already on file.
func (s *Session) HasHypothesis(playerID string, domain model.HypothesisDomain) bool {
	for _, h := range s.Hypotheses {
		if h.PlayerID == playerID && h.Domain == domain {
			return true
		}
	}
	return false
}

// FocusedPlayers lists the players with at least one focused phase, in
// roster order.
func (s *Session) FocusedPlayers() []SessionPlayer {
	out := make([]SessionPlayer, 0, len(s.Players))
	for _, p := range s.Players {
		if len(p.FocusedPhases) > 0 {
			out = append(out, p)
		}
	}
	return out
}
