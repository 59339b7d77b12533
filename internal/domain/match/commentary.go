package match

import (
	"fmt"
	"math/rand"

	"github.com/touchline/scoutsim/internal/domain/model"
)

// phaseDescriptions is the narrative bank for phase headers, keyed by type.
var phaseDescriptions = map[PhaseType][]string{
	PhaseBuildUp: {
		"Patient approach play through the thirds",
		"The back line circulates and probes for an opening",
		"Measured buildup from deep",
	},
	PhaseTransition: {
		"The ball turns over in midfield",
		"Broken play swings from end to end",
		"A scramble for second balls in the middle third",
	},
	PhaseSetpiece: {
		"A dead-ball chance swung into the area",
		"Bodies crowd the box for the set piece",
		"A rehearsed routine from the training ground",
	},
	PhasePressingSequence: {
		"The press tightens high up the pitch",
		"A suffocating spell without the ball",
		"Hunting in packs to win it back",
	},
	PhaseCounterAttack: {
		"A rapid break upfield",
		"Space opens up behind the defence",
		"Numbers committed forward on the counter",
	},
	PhasePossession: {
		"Long spells of keep-ball",
		"The tempo drops as passes are strung together",
		"Territory slowly won through possession",
	},
}

// phaseDescription samples one narrative line for the phase type.
func phaseDescription(rng *rand.Rand, phaseType PhaseType) string {
	bank, ok := phaseDescriptions[phaseType]
	if !ok || len(bank) == 0 {
		return "A passage of play develops"
	}
	return bank[rng.Intn(len(bank))]
}

// commentaryTemplate is one line of the event commentary bank. Templates
// with withOther interpolate a second involved player after the actor.
type commentaryTemplate struct {
	text      string
	withOther bool
}

// commentaryBank holds the per-event-type templates. Each type keeps at
// least one single-actor line so commentary never depends on a second
// player being available.
var commentaryBank = map[EventType][]commentaryTemplate{
	EventGoal: {
		{"%s finishes emphatically past the keeper", false},
		{"%s finds the bottom corner", false},
		{"%s turns home the cross from %s", true},
	},
	EventAssist: {
		{"%s stands one up to the far post", false},
		{"%s threads the killer ball for %s", true},
	},
	EventShot: {
		{"%s lets fly from distance", false},
		{"%s works a yard of space and tests the keeper", false},
		{"%s shoots first time off the lay-off from %s", true},
	},
	EventPass: {
		{"%s switches play with a raking ball", false},
		{"%s recycles possession under pressure", false},
		{"%s slips a clever pass into %s", true},
	},
	EventDribble: {
		{"%s glides past the marker", false},
		{"%s carries it half the length of the pitch", false},
		{"%s twists away from %s in a tight pocket", true},
	},
	EventTackle: {
		{"%s times the challenge perfectly", false},
		{"%s crunches into the duel and comes away with the ball", false},
	},
	EventHeader: {
		{"%s climbs highest and wins it", false},
		{"%s flicks it on at the near post", false},
	},
	EventSave: {
		{"%s gets down sharply to push it away", false},
		{"%s claims the cross under pressure", false},
		{"%s stands tall to deny %s", true},
	},
	EventFoul: {
		{"%s arrives late into the challenge", false},
		{"%s hauls down %s and concedes the free kick", true},
	},
	EventCross: {
		{"%s whips a dangerous ball across the face of goal", false},
		{"%s picks out %s at the back post", true},
	},
	EventSprint: {
		{"%s burns past the full-back on the outside", false},
		{"%s tracks the runner the full length of the pitch", false},
	},
	EventPositioning: {
		{"%s reads the danger and covers the channel", false},
		{"%s takes up a clever pocket between the lines", false},
	},
	EventError: {
		{"%s dwells on the ball and is robbed", false},
		{"%s misjudges the bounce badly", false},
		{"%s plays a loose pass straight to %s", true},
	},
	EventLeadership: {
		{"%s barks the back line into shape", false},
		{"%s lifts the players nearby after a poor spell", false},
	},
}

// eventCommentary samples a template for the event type and interpolates
// the actor, an optional secondary player and the in-phase minute.
func eventCommentary(rng *rand.Rand, eventType EventType, actor model.Player, other string, minute int) string {
	bank := commentaryBank[eventType]

	candidates := make([]commentaryTemplate, 0, len(bank))
	for _, tpl := range bank {
		if tpl.withOther && other == "" {
			continue
		}
		candidates = append(candidates, tpl)
	}
	if len(candidates) == 0 {
		return fmt.Sprintf("%d': %s is in the thick of it", minute, actor.Name)
	}

	tpl := candidates[rng.Intn(len(candidates))]
	var body string
	if tpl.withOther {
		body = fmt.Sprintf(tpl.text, actor.Name, other)
	} else {
		body = fmt.Sprintf(tpl.text, actor.Name)
	}

	return fmt.Sprintf("%d': %s", minute, body)
}
