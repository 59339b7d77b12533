// Package attention models the scarce focus economy a scout spends during
// a live match: a per-half token budget, lens assignments on individual
// players, and the warmup-then-fatigue curve that grades how well a
// sustained watch actually reads.
//
// Every operation is a pure transition: it returns a new state and never
// mutates its input, so callers can safely retain historical snapshots for
// replay. SpendToken signals an exhausted budget with a nil result rather
// than an error; callers must check before acting.
package attention

import (
	"github.com/touchline/scoutsim/internal/domain/model"
)

// Mode is how the scout attends the fixture. It fixes the per-half token
// budget.
type Mode string

// Observation modes.
const (
	ModeFullObservation  Mode = "fullObservation"
	ModeInvestigation    Mode = "investigation"
	ModeAnalysis         Mode = "analysis"
	ModeQuickInteraction Mode = "quickInteraction"
)

// tokensPerHalf is the per-half budget by mode. Unknown modes read as no
// budget.
var tokensPerHalf = map[Mode]int{
	ModeFullObservation:  3,
	ModeInvestigation:    2,
	ModeAnalysis:         1,
	ModeQuickInteraction: 0,
}

// TokensPerHalf returns the per-half token budget for a mode.
func TokensPerHalf(mode Mode) int {
	return tokensPerHalf[mode]
}

// Lens is the attention filter active while watching a player closely.
type Lens string

// Lenses.
const (
	LensTechnical Lens = "technical"
	LensPhysical  Lens = "physical"
	LensMental    Lens = "mental"
	LensTactical  Lens = "tactical"
	LensGeneral   Lens = "general"
)

// Domain returns the attribute domain a lens concentrates on. The general
// lens names none.
func (l Lens) Domain() (model.Attribute, bool) {
	switch l {
	case LensTechnical:
		return model.AttributeTechnical, true
	case LensPhysical:
		return model.AttributePhysical, true
	case LensMental:
		return model.AttributeMental, true
	case LensTactical:
		return model.AttributeTactical, true
	default:
		return "", false
	}
}

// FocusKey is the composite warmup key: one counter per (player, lens)
// pair.
type FocusKey struct {
	PlayerID string
	Lens     Lens
}

// FocusAllocation records one spent token: which player, through which
// lens, from which phase, and for how many phases it stayed active.
type FocusAllocation struct {
	PlayerID     string
	Lens         Lens
	StartPhase   int
	PhasesActive int // always >= 1
}

// Covers reports whether the allocation's window includes the phase:
// StartPhase <= phase < StartPhase+PhasesActive.
func (a FocusAllocation) Covers(phase int) bool {
	return phase >= a.StartPhase && phase < a.StartPhase+a.PhasesActive
}

// lastCovered is the final phase inside the allocation's window.
func (a FocusAllocation) lastCovered() int {
	return a.StartPhase + a.PhasesActive - 1
}

// FocusTokenState is the complete attention state for one session. Treat
// as immutable; operations return fresh values.
type FocusTokenState struct {
	Available    int
	Total        int
	Allocations  []FocusAllocation
	WarmupPhases map[FocusKey]int
}

// ObservationLevel grades how well a player can be read in a given phase.
type ObservationLevel string

// Observation levels.
const (
	ObservationFocused    ObservationLevel = "focused"
	ObservationPeripheral ObservationLevel = "peripheral"
	ObservationUnfocused  ObservationLevel = "unfocused"
)

// Effectiveness curve constants.
const (
	warmupEffectiveness  = 0.5
	settledPhasesMax     = 4
	fatigueDecayPerPhase = 0.1
	fatigueFloor         = 0.7
	peripheralWindow     = 2
)

// NewTokenState creates the session-start state for a mode: a full budget,
// no allocations, no warmup history.
func NewTokenState(mode Mode) FocusTokenState {
	budget := TokensPerHalf(mode)
	return FocusTokenState{
		Available:    budget,
		Total:        budget,
		Allocations:  []FocusAllocation{},
		WarmupPhases: map[FocusKey]int{},
	}
}

// clone copies the state deeply so transitions never alias the input's
// slices or maps.
func (s FocusTokenState) clone() FocusTokenState {
	allocations := make([]FocusAllocation, len(s.Allocations))
	copy(allocations, s.Allocations)

	warmup := make(map[FocusKey]int, len(s.WarmupPhases))
	for k, v := range s.WarmupPhases {
		warmup[k] = v
	}

	return FocusTokenState{
		Available:    s.Available,
		Total:        s.Total,
		Allocations:  allocations,
		WarmupPhases: warmup,
	}
}

// RefreshTokens resets the budget at halftime. Allocation history and
// warmup counters are preserved: fatigue and warmup progress carry across
// halves.
func RefreshTokens(state FocusTokenState, mode Mode) FocusTokenState {
	next := state.clone()
	budget := TokensPerHalf(mode)
	next.Available = budget
	next.Total = budget
	return next
}

// SpendToken activates a lens on a player from the current phase. Returns
// nil when no token is available. Otherwise the new state has one fewer
// token, one more allocation, and the (player, lens) warmup counter reset
// to zero.
func SpendToken(state FocusTokenState, playerID string, lens Lens, currentPhase int) *FocusTokenState {
	if state.Available <= 0 {
		return nil
	}

	next := state.clone()
	next.Available--
	next.Allocations = append(next.Allocations, FocusAllocation{
		PlayerID:     playerID,
		Lens:         lens,
		StartPhase:   currentPhase,
		PhasesActive: 1,
	})
	next.WarmupPhases[FocusKey{PlayerID: playerID, Lens: lens}] = 0

	return &next
}

// AdvanceFocus extends the scout's active watch by one phase: the most
// recently appended allocation grows its window and its pair's warmup
// counter ticks. Earlier allocations stay frozen. A state with no
// allocations passes through unchanged.
func AdvanceFocus(state FocusTokenState) FocusTokenState {
	next := state.clone()
	if len(next.Allocations) == 0 {
		return next
	}

	active := &next.Allocations[len(next.Allocations)-1]
	active.PhasesActive++
	next.WarmupPhases[FocusKey{PlayerID: active.PlayerID, Lens: active.Lens}]++

	return next
}

// LensEffectiveness grades how well the given lens reads the given player
// in the current phase: 0 without a covering allocation, 0.5 during
// warmup, 1.0 once settled (phases 2-4), then decaying by 0.1 per phase to
// a floor of 0.7. Overlapping allocations resolve to the one with the
// greatest StartPhase.
func LensEffectiveness(state FocusTokenState, playerID string, lens Lens, currentPhase int) float64 {
	var covering *FocusAllocation
	for i := range state.Allocations {
		a := state.Allocations[i]
		if a.PlayerID != playerID || a.Lens != lens || !a.Covers(currentPhase) {
			continue
		}
		if covering == nil || a.StartPhase >= covering.StartPhase {
			covering = &state.Allocations[i]
		}
	}
	if covering == nil {
		return 0.0
	}

	switch {
	case covering.PhasesActive <= 1:
		return warmupEffectiveness
	case covering.PhasesActive <= settledPhasesMax:
		return 1.0
	default:
		eff := 1.0 - fatigueDecayPerPhase*float64(covering.PhasesActive-settledPhasesMax)
		if eff < fatigueFloor {
			eff = fatigueFloor
		}
		if eff > 1.0 {
			eff = 1.0
		}
		return eff
	}
}

// ObservationQuality grades visibility of a player in a phase: focused
// while any allocation covers it, peripheral for up to two phases after
// the most recent allocation ended, unfocused otherwise.
func ObservationQuality(state FocusTokenState, playerID string, currentPhase int) ObservationLevel {
	latestEnd := -1
	for _, a := range state.Allocations {
		if a.PlayerID != playerID {
			continue
		}
		if a.Covers(currentPhase) {
			return ObservationFocused
		}
		if end := a.lastCovered(); end < currentPhase && end > latestEnd {
			latestEnd = end
		}
	}

	if latestEnd >= 0 && currentPhase-latestEnd <= peripheralWindow {
		return ObservationPeripheral
	}
	return ObservationUnfocused
}

// lensBonuses fixes the accuracy bonus each lens grants per attribute
// domain. The tactical lens bleeds a little into mental reads; the general
// lens trades depth for uniform coverage.
var lensBonuses = map[Lens]map[model.Attribute]int{
	LensTechnical: {model.AttributeTechnical: 3},
	LensPhysical:  {model.AttributePhysical: 3},
	LensMental:    {model.AttributeMental: 3},
	LensTactical:  {model.AttributeTactical: 3, model.AttributeMental: 1},
	LensGeneral:   {},
}

// LensAccuracyBonus returns the per-domain accuracy bonus for a lens.
// Unknown lenses and unlisted domains read as zero. The returned map is a
// copy; callers may keep or modify it.
func LensAccuracyBonus(lens Lens) map[model.Attribute]int {
	bonus := make(map[model.Attribute]int, len(lensBonuses[lens]))
	for domain, v := range lensBonuses[lens] {
		bonus[domain] = v
	}
	return bonus
}
