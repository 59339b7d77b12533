package reflection

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/touchline/scoutsim/internal/domain/attention"
	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/domain/session"
)

// hypothesisTemplates is keyed by domain then direction; every template
// takes the player's name once.
var hypothesisTemplates = map[model.HypothesisDomain]map[model.EvidenceDirection][]string{
	model.DomainTechnical: {
		model.EvidenceFor: {
			"%s's touch looks a class above this level",
			"%s finds technical solutions under pressure that teammates don't see",
			"%s strikes the ball cleanly off either side without adjusting stride",
		},
		model.EvidenceAgainst: {
			"%s's first touch breaks down as soon as the press arrives",
			"%s hides a weak side that narrows the passing range",
			"%s needs two touches where one would do",
		},
	},
	model.DomainPhysical: {
		model.EvidenceFor: {
			"%s covers ground effortlessly for the full ninety",
			"%s wins the physical duels that actually matter",
			"%s has recovery pace that buys back every positional mistake",
		},
		model.EvidenceAgainst: {
			"%s fades badly once the hour mark passes",
			"%s gets moved off the ball too easily in contact",
			"%s's stride shortens noticeably after repeated sprints",
		},
	},
	model.DomainMental: {
		model.EvidenceFor: {
			"%s stays composed in moments that rattle everyone else",
			"%s answers a mistake with the next action, not the last one",
			"%s keeps demanding the ball when the match turns hostile",
		},
		model.EvidenceAgainst: {
			"%s's head drops the moment the crowd turns",
			"%s forces the spectacular when the simple option is on",
			"%s stops talking to teammates once things go wrong",
		},
	},
	model.DomainTactical: {
		model.EvidenceFor: {
			"%s reads the game half a beat before everyone else",
			"%s's positioning quietly fixes problems before they start",
			"%s always knows where the spare man is without looking",
		},
		model.EvidenceAgainst: {
			"%s ball-watches whenever the shape shifts",
			"%s takes up positions that leave the team exposed in transition",
			"%s follows the ball instead of the space",
		},
	},
	model.DomainHidden: {
		model.EvidenceFor: {
			"%s carries the dressing room in ways the numbers miss",
			"%s has the temperament of a leader playing below their level",
			"%s does the unseen work long after the ball has gone",
		},
		model.EvidenceAgainst: {
			"%s's body language hints at deeper motivation issues",
			"%s disappears when nobody is watching the off-ball work",
			"%s plays for the highlight, not the team",
		},
	},
}

// gutNarratives is keyed by domain; one name placeholder each.
var gutNarratives = map[model.HypothesisDomain][]string{
	model.DomainTechnical: {
		"Something about %s's striking technique says there is more ceiling here",
		"The way %s manipulates the ball in traffic is not teachable",
	},
	model.DomainPhysical: {
		"%s moves like an athlete who has not filled out yet",
		"There is a spring in %s's stride the raw numbers won't capture",
	},
	model.DomainMental: {
		"%s has a stillness under pressure you cannot coach",
		"Watch %s between the whistles; the focus never wavers",
	},
	model.DomainTactical: {
		"%s sees pictures the rest of the pitch has not noticed yet",
		"Something in %s's scanning rhythm suggests a serious football brain",
	},
	model.DomainHidden: {
		"There is more to %s than a single afternoon can show",
		"A quiet instinct says %s is hiding qualities this match never tested",
	},
}

var playerPrompts = []string{
	"What did you make of %s's overall influence on the match?",
	"Would %s's game translate a level or two up?",
	"Did %s's best moments come with or against the run of play?",
}

var atmospherePrompts = []string{
	"How much did the occasion color your reads? %s",
	"Did the noise distort what you think you saw? %s",
}

var fillerPrompts = []string{
	"This session produced %d new hypotheses; where should the next viewing dig?",
	"With %d fresh ideas on file, what would a second look need to settle?",
}

func pickTemplate(rng *rand.Rand, bank []string) string {
	if len(bank) == 0 {
		return ""
	}
	return bank[rng.Intn(len(bank))]
}

func hypothesisText(rng *rand.Rand, domain model.HypothesisDomain, direction model.EvidenceDirection, name string) string {
	bank := hypothesisTemplates[domain][direction]
	if len(bank) == 0 {
		bank = hypothesisTemplates[model.DomainTechnical][model.EvidenceFor]
	}
	return fmt.Sprintf(pickTemplate(rng, bank), name)
}

func gutNarrative(rng *rand.Rand, domain model.HypothesisDomain, name string) string {
	bank := gutNarratives[domain]
	if len(bank) == 0 {
		bank = gutNarratives[model.DomainTechnical]
	}
	return fmt.Sprintf(pickTemplate(rng, bank), name)
}

func playerPrompt(rng *rand.Rand, name string) string {
	return fmt.Sprintf(pickTemplate(rng, playerPrompts), name)
}

func atmospherePrompt(rng *rand.Rand, venueDescription string) string {
	return fmt.Sprintf(pickTemplate(rng, atmospherePrompts), venueDescription)
}

func focusDistributionPrompt(sess *session.Session) string {
	focused := sess.FocusedPlayers()
	switch len(focused) {
	case 0:
		return "You watched without committing focus to anyone; what stood out from the wide view?"
	case 1:
		return fmt.Sprintf("Your focus stayed on %s all session; did the rest of the pitch pass you by?", focused[0].Name)
	default:
		return fmt.Sprintf("You split your attention across %d players; was that the right spread?", len(focused))
	}
}

func fillerPrompt(rng *rand.Rand, hypothesisCount int) string {
	return fmt.Sprintf(pickTemplate(rng, fillerPrompts), hypothesisCount)
}

// buildSummary writes the session recap paragraph.
func buildSummary(sess *session.Session, hypothesisCount int) string {
	var b strings.Builder

	completed := sess.CurrentPhaseIndex
	if completed > len(sess.Phases) {
		completed = len(sess.Phases)
	}
	fmt.Fprintf(&b, "Watched %d of %d phases", completed, len(sess.Phases))
	if sess.VenueAtmosphere != nil {
		fmt.Fprintf(&b, " at a %s ground. %s", sess.VenueAtmosphere.VenueType, sess.VenueAtmosphere.Description)
	} else {
		b.WriteString(".")
	}

	focused := sess.FocusedPlayers()
	if len(focused) == 0 {
		b.WriteString(" No single player held your focus.")
	} else {
		names := make([]string, 0, len(focused))
		for _, p := range focused {
			names = append(names, fmt.Sprintf("%s (%s)", p.Name, lensLabel(p.CurrentLens)))
		}
		fmt.Fprintf(&b, " Focus went to %s.", strings.Join(names, ", "))
	}

	fmt.Fprintf(&b, " You flagged %d moments and came away with %d fresh hypotheses.",
		len(sess.FlaggedMoments), hypothesisCount)

	if sess.VenueAtmosphere != nil {
		switch {
		case sess.VenueAtmosphere.ChaosLevel > highChaosRemark:
			b.WriteString(" The crowd made clean reads difficult all afternoon.")
		case sess.VenueAtmosphere.ChaosLevel < lowChaosRemark:
			b.WriteString(" Quiet conditions made for clear reading.")
		}
	}

	return b.String()
}

func lensLabel(lens *attention.Lens) string {
	if lens == nil {
		return "no lens"
	}
	return fmt.Sprintf("%s lens", *lens)
}
