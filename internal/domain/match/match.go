// Package match turns a fixture into the raw material a scout works with:
// an ordered list of observable phases, each carrying a handful of
// attribute-revealing events, plus a standalone final-score simulator.
//
// Generation is pure and deterministic for a given stream: the caller owns
// the *rand.Rand and must not share it across concurrent generations.
// Phases are immutable once returned.
package match

import (
	"math"
	"math/rand"
	"sort"

	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/random"
)

// PhaseType classifies a multi-minute segment of play.
type PhaseType string

// Phase types.
const (
	PhaseBuildUp          PhaseType = "buildUp"
	PhaseTransition       PhaseType = "transition"
	PhaseSetpiece         PhaseType = "setpiece"
	PhasePressingSequence PhaseType = "pressingSequence"
	PhaseCounterAttack    PhaseType = "counterAttack"
	PhasePossession       PhaseType = "possession"
)

// EventType classifies an atomic in-phase occurrence.
type EventType string

// Event types.
const (
	EventGoal        EventType = "goal"
	EventAssist      EventType = "assist"
	EventShot        EventType = "shot"
	EventPass        EventType = "pass"
	EventDribble     EventType = "dribble"
	EventTackle      EventType = "tackle"
	EventHeader      EventType = "header"
	EventSave        EventType = "save"
	EventFoul        EventType = "foul"
	EventCross       EventType = "cross"
	EventSprint      EventType = "sprint"
	EventPositioning EventType = "positioning"
	EventError       EventType = "error"
	EventLeadership  EventType = "leadership"
)

// MatchEvent is an atomic occurrence inside a phase. Quality grades how
// well the actor executed, already noised by the weather.
type MatchEvent struct {
	Type               EventType
	PlayerID           string
	AttributesRevealed [2]model.Attribute // fixed pair for the event type
	Quality            int                // always in [1,10]
	Description        string
	Minute             int
}

// MatchPhase is a segment of simulated play. Minute and EndMinute are both
// inclusive; consecutive phases tile the match with no gaps or overlaps.
type MatchPhase struct {
	Minute               int
	EndMinute            int
	Type                 PhaseType
	Description          string
	InvolvedPlayerIDs    []string
	Events               []MatchEvent
	ObservableAttributes []model.Attribute
}

// PhaseContext carries the fixture inputs phase generation needs.
type PhaseContext struct {
	FixtureID   string
	HomePlayers []model.Player
	AwayPlayers []model.Player
	Weather     model.Weather
}

// Generation bounds.
const (
	matchMinutes      = 90
	minPhaseCount     = 12
	maxPhaseCount     = 18
	minInvolved       = 3
	maxInvolved       = 6
	minEventsPerPhase = 2
	maxEventsPerPhase = 4
	startingEleven    = 11
	lastKickoffMinute = 89
)

// Involvement weights. Keepers rarely feature in open-play phases.
const (
	outfieldWeight = 10.0
	keeperWeight   = 1.0
)

// Quality computation.
const (
	baseQualityNoise = 0.8
	qualityMin       = 1
	qualityMax       = 10
)

// GeneratePhases produces the full observable timeline for a fixture:
// between 12 and 18 phases partitioning minutes [1,90], each typed, peopled
// and filled with 2-4 events. The result is safe to retain and share; it is
// never mutated afterwards.
func GeneratePhases(rng *rand.Rand, pctx PhaseContext) []MatchPhase {
	onPitch := onPitchPlayers(pctx.HomePlayers, pctx.AwayPlayers)

	phaseCount := random.IntBetween(rng, minPhaseCount, maxPhaseCount)
	starts := phaseStarts(rng, phaseCount)
	noiseSD := baseQualityNoise * weatherNoiseMultiplier(pctx.Weather)

	phases := make([]MatchPhase, 0, len(starts))
	for i, start := range starts {
		end := matchMinutes
		if i < len(starts)-1 {
			end = starts[i+1] - 1
		}

		phaseType := randomPhaseType(rng)
		involved := involvedPlayers(rng, onPitch)
		events := generateEvents(rng, phaseType, start, end, involved, onPitch, noiseSD)

		phases = append(phases, MatchPhase{
			Minute:               start,
			EndMinute:            end,
			Type:                 phaseType,
			Description:          phaseDescription(rng, phaseType),
			InvolvedPlayerIDs:    playerIDs(involved),
			Events:               events,
			ObservableAttributes: observableUnion(events),
		})
	}

	return phases
}

// onPitchPlayers collects the starting eleven from each side. Short rosters
// contribute whatever they have.
func onPitchPlayers(home, away []model.Player) []model.Player {
	pitch := make([]model.Player, 0, 2*startingEleven)
	for _, side := range [][]model.Player{home, away} {
		n := len(side)
		if n > startingEleven {
			n = startingEleven
		}
		pitch = append(pitch, side[:n]...)
	}
	return pitch
}

// phaseStarts partitions the match into phaseCount jittered segments. The
// first start is anchored to minute 1 so the phases cover the whole match.
func phaseStarts(rng *rand.Rand, phaseCount int) []int {
	step := matchMinutes / phaseCount
	jitterMax := step - 2
	if jitterMax < 1 {
		jitterMax = 1
	}

	starts := make([]int, phaseCount)
	for i := range starts {
		s := i*step + 1 + rng.Intn(jitterMax+1)
		if s > lastKickoffMinute {
			s = lastKickoffMinute
		}
		starts[i] = s
	}
	sort.Ints(starts)
	starts[0] = 1

	return starts
}

// randomPhaseType draws from the fixed categorical pool: buildUp and
// possession three entries each, transition/setpiece/pressing/counter two.
func randomPhaseType(rng *rand.Rand) PhaseType {
	return phaseTypePool[rng.Intn(len(phaseTypePool))]
}

// involvedPlayers samples 3-6 players without replacement, outfielders
// weighted ten to one over keepers.
func involvedPlayers(rng *rand.Rand, onPitch []model.Player) []model.Player {
	if len(onPitch) == 0 {
		return nil
	}

	count := random.IntBetween(rng, minInvolved, maxInvolved)
	weights := make([]float64, len(onPitch))
	for i, p := range onPitch {
		if p.Position == model.PositionGK {
			weights[i] = keeperWeight
		} else {
			weights[i] = outfieldWeight
		}
	}

	picked := random.WeightedSampleWithoutReplacement(rng, count, weights)
	involved := make([]model.Player, 0, len(picked))
	for _, idx := range picked {
		involved = append(involved, onPitch[idx])
	}
	return involved
}

// generateEvents fills a phase with 2-4 typed events, spacing their minutes
// evenly through the phase.
func generateEvents(rng *rand.Rand, phaseType PhaseType, start, end int, involved, onPitch []model.Player, noiseSD float64) []MatchEvent {
	count := random.IntBetween(rng, minEventsPerPhase, maxEventsPerPhase)
	width := end - start + 1

	events := make([]MatchEvent, 0, count)
	for i := 0; i < count; i++ {
		eventType := randomEventType(rng, phaseType)
		actor, ok := chooseActor(rng, eventType, involved, onPitch)
		if !ok {
			continue
		}

		pair := revealPair(eventType)
		minute := start + width*i/count

		events = append(events, MatchEvent{
			Type:               eventType,
			PlayerID:           actor.PlayerID,
			AttributesRevealed: pair,
			Quality:            eventQuality(rng, actor, pair, noiseSD),
			Description:        eventCommentary(rng, eventType, actor, secondaryActor(rng, involved, actor), minute),
			Minute:             minute,
		})
	}

	return events
}

// randomEventType draws an event type from the phase-specific weighted
// table.
func randomEventType(rng *rand.Rand, phaseType PhaseType) EventType {
	table, ok := phaseEventTables[phaseType]
	if !ok {
		table = phaseEventTables[PhasePossession]
	}

	weights := make([]float64, len(table))
	for i, entry := range table {
		weights[i] = entry.weight
	}
	return table[random.WeightedIndex(rng, weights)].event
}

// chooseActor picks the event's subject: an involved player in an eligible
// position first, then any eligible player on the pitch, then any involved
// player at all.
func chooseActor(rng *rand.Rand, eventType EventType, involved, onPitch []model.Player) (model.Player, bool) {
	if c := filterEligible(involved, eventType); len(c) > 0 {
		return c[rng.Intn(len(c))], true
	}
	if c := filterEligible(onPitch, eventType); len(c) > 0 {
		return c[rng.Intn(len(c))], true
	}
	if len(involved) > 0 {
		return involved[rng.Intn(len(involved))], true
	}
	return model.Player{}, false
}

// filterEligible keeps the players whose position may produce the event.
func filterEligible(players []model.Player, eventType EventType) []model.Player {
	eligible := eligiblePositions[eventType]
	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if eligible[p.Position] {
			out = append(out, p)
		}
	}
	return out
}

// secondaryActor optionally names another involved player for two-man
// commentary lines.
func secondaryActor(rng *rand.Rand, involved []model.Player, actor model.Player) string {
	others := make([]model.Player, 0, len(involved))
	for _, p := range involved {
		if p.PlayerID != actor.PlayerID {
			others = append(others, p)
		}
	}
	if len(others) == 0 {
		return ""
	}
	return others[rng.Intn(len(others))].Name
}

// eventQuality averages the actor's two revealed attributes, rescales the
// 1-20 average onto a 0-10 baseline, then noises it by the weather before
// clamping to [1,10].
func eventQuality(rng *rand.Rand, actor model.Player, pair [2]model.Attribute, noiseSD float64) int {
	avg := float64(actor.AttributeValue(pair[0])+actor.AttributeValue(pair[1])) / 2
	baseline := avg / 2

	q := int(math.Round(random.Gaussian(rng, baseline, noiseSD)))
	if q < qualityMin {
		return qualityMin
	}
	if q > qualityMax {
		return qualityMax
	}
	return q
}

// playerIDs projects players to their ids.
func playerIDs(players []model.Player) []string {
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.PlayerID)
	}
	return ids
}

// observableUnion deduplicates the events' revealed pairs in first
// appearance order.
func observableUnion(events []MatchEvent) []model.Attribute {
	seen := make(map[model.Attribute]bool, 4)
	union := make([]model.Attribute, 0, 4)
	for _, ev := range events {
		for _, attr := range ev.AttributesRevealed {
			if !seen[attr] {
				seen[attr] = true
				union = append(union, attr)
			}
		}
	}
	return union
}
