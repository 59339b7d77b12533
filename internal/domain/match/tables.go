package match

import "github.com/touchline/scoutsim/internal/domain/model"

// phaseTypePool is the repeated-entry categorical pool phase types are
// drawn from: buildUp and possession 3x, transition 2x, the rest 2x.
var phaseTypePool = [...]PhaseType{
	PhaseBuildUp, PhaseBuildUp, PhaseBuildUp,
	PhaseTransition, PhaseTransition,
	PhaseSetpiece, PhaseSetpiece,
	PhasePressingSequence, PhasePressingSequence,
	PhaseCounterAttack, PhaseCounterAttack,
	PhasePossession, PhasePossession, PhasePossession,
}

// weightedEvent is one row of a phase's event table.
type weightedEvent struct {
	event  EventType
	weight float64
}

// phaseEventTables maps each phase type to its weighted event distribution.
// Pressing sequences favor tackles and sprints, set pieces favor headers
// and shots; the rest shade toward their natural patterns of play.
var phaseEventTables = map[PhaseType][]weightedEvent{
	PhaseBuildUp: {
		{EventPass, 5},
		{EventPositioning, 2},
		{EventDribble, 2},
		{EventCross, 2},
		{EventSprint, 1},
		{EventError, 1},
		{EventLeadership, 1},
	},
	PhaseTransition: {
		{EventSprint, 4},
		{EventPass, 3},
		{EventDribble, 2},
		{EventTackle, 2},
		{EventPositioning, 1},
		{EventError, 1},
	},
	PhaseSetpiece: {
		{EventHeader, 5},
		{EventShot, 4},
		{EventSave, 3},
		{EventPositioning, 2},
		{EventFoul, 1},
		{EventGoal, 1},
		{EventLeadership, 1},
	},
	PhasePressingSequence: {
		{EventTackle, 5},
		{EventSprint, 4},
		{EventFoul, 2},
		{EventError, 2},
		{EventPositioning, 2},
		{EventPass, 1},
	},
	PhaseCounterAttack: {
		{EventSprint, 4},
		{EventDribble, 3},
		{EventShot, 3},
		{EventPass, 2},
		{EventCross, 2},
		{EventSave, 2},
		{EventGoal, 1},
		{EventAssist, 1},
	},
	PhasePossession: {
		{EventPass, 6},
		{EventPositioning, 3},
		{EventDribble, 2},
		{EventCross, 1},
		{EventLeadership, 1},
		{EventError, 1},
	},
}

// revealPairs fixes which two attribute domains each event type exposes.
var revealPairs = map[EventType][2]model.Attribute{
	EventGoal:        {model.AttributeTechnical, model.AttributeMental},
	EventAssist:      {model.AttributeTechnical, model.AttributeTactical},
	EventShot:        {model.AttributeTechnical, model.AttributeMental},
	EventPass:        {model.AttributeTechnical, model.AttributeTactical},
	EventDribble:     {model.AttributeTechnical, model.AttributePhysical},
	EventTackle:      {model.AttributePhysical, model.AttributeTactical},
	EventHeader:      {model.AttributePhysical, model.AttributeTechnical},
	EventSave:        {model.AttributeTechnical, model.AttributeMental},
	EventFoul:        {model.AttributePhysical, model.AttributeMental},
	EventCross:       {model.AttributeTechnical, model.AttributeTactical},
	EventSprint:      {model.AttributePhysical, model.AttributeMental},
	EventPositioning: {model.AttributeTactical, model.AttributeMental},
	EventError:       {model.AttributeMental, model.AttributeTechnical},
	EventLeadership:  {model.AttributeMental, model.AttributeTactical},
}

// RevealPair returns the fixed attribute pair an event type exposes.
// Unknown types read as a technical/mental pair.
func RevealPair(eventType EventType) [2]model.Attribute {
	return revealPair(eventType)
}

func revealPair(eventType EventType) [2]model.Attribute {
	if pair, ok := revealPairs[eventType]; ok {
		return pair
	}
	return [2]model.Attribute{model.AttributeTechnical, model.AttributeMental}
}

// eligiblePositions fixes which positions may act each event type. Only
// keepers make saves; keepers join open play only for passes, positioning,
// errors and leadership moments.
var eligiblePositions = map[EventType]map[model.Position]bool{
	EventGoal:        outfieldOnly(),
	EventAssist:      outfieldOnly(),
	EventShot:        {model.PositionMF: true, model.PositionFW: true},
	EventPass:        allPositions(),
	EventDribble:     outfieldOnly(),
	EventTackle:      {model.PositionDF: true, model.PositionMF: true},
	EventHeader:      outfieldOnly(),
	EventSave:        {model.PositionGK: true},
	EventFoul:        outfieldOnly(),
	EventCross:       outfieldOnly(),
	EventSprint:      outfieldOnly(),
	EventPositioning: allPositions(),
	EventError:       allPositions(),
	EventLeadership:  allPositions(),
}

func outfieldOnly() map[model.Position]bool {
	return map[model.Position]bool{
		model.PositionDF: true,
		model.PositionMF: true,
		model.PositionFW: true,
	}
}

func allPositions() map[model.Position]bool {
	return map[model.Position]bool{
		model.PositionGK: true,
		model.PositionDF: true,
		model.PositionMF: true,
		model.PositionFW: true,
	}
}

// EligiblePositions reports whether a position may produce the event type.
func EligiblePositions(eventType EventType, pos model.Position) bool {
	return eligiblePositions[eventType][pos]
}

// weatherNoise scales the quality noise by conditions; reading a player
// through snow is far harder than on a clear day. Unknown conditions read
// as neutral.
var weatherNoise = map[model.Weather]float64{
	model.WeatherClear:     0.8,
	model.WeatherCloudy:    1.0,
	model.WeatherRain:      1.2,
	model.WeatherWindy:     1.3,
	model.WeatherHeavyRain: 1.5,
	model.WeatherSnow:      1.8,
}

func weatherNoiseMultiplier(w model.Weather) float64 {
	if m, ok := weatherNoise[w]; ok {
		return m
	}
	return 1.0
}
