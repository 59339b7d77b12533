// Package reflection turns a completed observation session into structured
// output: evidence-backed hypotheses, an optional gut feeling, prompts for
// the scout's written report, a summary paragraph, and insight points.
//
// Generation is pure over the session and the provided stream; nothing is
// persisted and the session itself is never modified.
package reflection

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/domain/session"
)

// ScoutTraits carries the scout's relevant progression stats.
type ScoutTraits struct {
	Intuition int // 0-100
	SpecLevel int // 0-100, specialization may push past 100
}

// PlayerProfile is the minimal lookup view reflection needs for potential
// estimates.
type PlayerProfile struct {
	Name             string
	PotentialAbility int
}

// Capabilities consolidates the optional perk surface into one record. A
// nil Capabilities means no perks are active.
type Capabilities struct {
	EstimatePotential bool
	PAAccuracyBonus   float64 // 0-1; higher narrows the estimate window
	PlayerLookup      func(playerID string) (PlayerProfile, bool)
}

// PAEstimate is a potential-ability window, clamped to the ability range.
type PAEstimate struct {
	Low  int
	High int
}

// GutFeelingCandidate is an ephemeral hunch; it is not persisted unless
// the caller confirms it.
type GutFeelingCandidate struct {
	PlayerID      string
	PlayerName    string
	Domain        model.HypothesisDomain
	Narrative     string
	Reliability   float64 // 0-0.95
	TriggerReason string
	PAEstimate    *PAEstimate
}

// Result is everything reflection produces for one session.
type Result struct {
	SuggestedHypotheses []model.Hypothesis
	GutFeeling          *GutFeelingCandidate
	Prompts             []string
	Summary             string
	InsightPoints       int
}

// Hypothesis generation thresholds.
const (
	strongMomentCount   = 3
	moderateMomentCount = 2
)

// Gut feeling tuning.
const (
	gutBaseProbability   = 0.10
	gutIntuitionDivisor  = 200.0
	gutSpecDivisor       = 100.0
	gutPerFlagBoost      = 0.05
	gutProbabilityCap    = 0.95
	reliabilityBase      = 0.30
	reliabilityDivisor   = 30.0
	reliabilityCap       = 0.85
	reliabilityClampMax  = 0.95
	potentialMarginScale = 5.0
)

// Prompt and summary tuning.
const (
	maxPrompts            = 4
	minPromptsBeforeFill  = 3
	atmospherePromptChaos = 0.5
	highChaosRemark       = 0.6
	lowChaosRemark        = 0.3
)

// Insight points.
const (
	insightBase          = 5
	insightPerHypothesis = 2
	insightGutBonus      = 3
)

// Generate runs the full reflection over a completed session.
func Generate(sess *session.Session, rng *rand.Rand, scout ScoutTraits, caps *Capabilities) Result {
	hypotheses := suggestHypotheses(rng, sess)
	gut := gutFeeling(rng, sess, scout, caps)
	prompts := buildPrompts(rng, sess, len(hypotheses))
	summary := buildSummary(sess, len(hypotheses))

	insight := insightBase + insightPerHypothesis*len(hypotheses)
	if gut != nil {
		insight += insightGutBonus
	}

	return Result{
		SuggestedHypotheses: hypotheses,
		GutFeeling:          gut,
		Prompts:             prompts,
		Summary:             summary,
		InsightPoints:       insight,
	}
}

// groupKey identifies one (player, domain) evidence group.
type groupKey struct {
	playerID string
	domain   model.HypothesisDomain
}

// suggestHypotheses groups flagged moments by player and domain and turns
// each qualifying group into an open hypothesis. A group qualifies with
// two or more moments, or a single standout, provided no hypothesis for
// the pair is already on file.
func suggestHypotheses(rng *rand.Rand, sess *session.Session) []model.Hypothesis {
	order := make([]groupKey, 0, len(sess.FlaggedMoments))
	groups := make(map[groupKey][]session.FlaggedMoment, len(sess.FlaggedMoments))
	for _, m := range sess.FlaggedMoments {
		k := groupKey{playerID: m.PlayerID, domain: m.Type.Domain()}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], m)
	}

	hypotheses := make([]model.Hypothesis, 0, len(order))
	for _, k := range order {
		moments := groups[k]
		if len(moments) < moderateMomentCount && !anyStandout(moments) {
			continue
		}
		if sess.HasHypothesis(k.playerID, k.domain) {
			continue
		}

		direction := majorityDirection(moments)
		hypotheses = append(hypotheses, model.Hypothesis{
			ID:            uuid.NewString(),
			PlayerID:      k.playerID,
			Text:          hypothesisText(rng, k.domain, direction, playerName(sess, k.playerID)),
			Domain:        k.domain,
			State:         model.HypothesisOpen,
			CreatedAtWeek: sess.StartedAtWeek,
			Evidence: []model.Evidence{{
				Week:        sess.StartedAtWeek,
				Direction:   direction,
				Description: evidenceDescription(moments),
				Strength:    evidenceStrength(len(moments)),
			}},
		})
	}

	return hypotheses
}

func anyStandout(moments []session.FlaggedMoment) bool {
	for _, m := range moments {
		if m.Standout {
			return true
		}
	}
	return false
}

// majorityDirection weighs promising against concerning reactions; ties
// resolve in the player's favor.
func majorityDirection(moments []session.FlaggedMoment) model.EvidenceDirection {
	promising, concerning := 0, 0
	for _, m := range moments {
		if m.Reaction == session.ReactionConcerning {
			concerning++
		} else {
			promising++
		}
	}
	if concerning > promising {
		return model.EvidenceAgainst
	}
	return model.EvidenceFor
}

func evidenceStrength(momentCount int) model.EvidenceStrength {
	switch {
	case momentCount >= strongMomentCount:
		return model.EvidenceStrong
	case momentCount == moderateMomentCount:
		return model.EvidenceModerate
	default:
		return model.EvidenceWeak
	}
}

func evidenceDescription(moments []session.FlaggedMoment) string {
	if len(moments) == 1 {
		return moments[0].Description
	}
	return fmt.Sprintf("%d separate moments flagged across the session", len(moments))
}

// playerName resolves a player's display name from the session roster.
func playerName(sess *session.Session, playerID string) string {
	if p := sess.PlayerByID(playerID); p != nil && p.Name != "" {
		return p.Name
	}
	return "the player"
}

// gutFeeling rolls for a hunch and, when it lands, picks its subject and
// domain from what the scout actually watched.
func gutFeeling(rng *rand.Rand, sess *session.Session, scout ScoutTraits, caps *Capabilities) *GutFeelingCandidate {
	probability := gutBaseProbability +
		float64(scout.Intuition)/gutIntuitionDivisor +
		float64(scout.SpecLevel)/gutSpecDivisor +
		float64(len(sess.FlaggedMoments))*gutPerFlagBoost
	if probability > gutProbabilityCap {
		probability = gutProbabilityCap
	}
	if rng.Float64() >= probability {
		return nil
	}

	subject, reason := gutSubject(sess)
	if subject == nil {
		return nil
	}

	domain := gutDomain(sess, subject)

	reliability := reliabilityBase + float64(scout.Intuition)/reliabilityDivisor
	if reliability > reliabilityCap {
		reliability = reliabilityCap
	}
	if reliability < 0 {
		reliability = 0
	}
	if reliability > reliabilityClampMax {
		reliability = reliabilityClampMax
	}

	candidate := &GutFeelingCandidate{
		PlayerID:      subject.PlayerID,
		PlayerName:    subject.Name,
		Domain:        domain,
		Narrative:     gutNarrative(rng, domain, subject.Name),
		Reliability:   reliability,
		TriggerReason: reason,
	}

	if caps != nil && caps.EstimatePotential && caps.PlayerLookup != nil {
		if profile, ok := caps.PlayerLookup(subject.PlayerID); ok {
			margin := int(potentialMarginScale * (1 - caps.PAAccuracyBonus))
			if margin < 1 {
				margin = 1
			}
			candidate.PAEstimate = &PAEstimate{
				Low:  model.ClampAbility(profile.PotentialAbility - margin),
				High: model.ClampAbility(profile.PotentialAbility + margin),
			}
		}
	}

	return candidate
}

// gutSubject picks the hunch's subject: the most flagged player first,
// ties broken by which player was flagged earlier; then the most focused
// player; then nobody.
func gutSubject(sess *session.Session) (*session.SessionPlayer, string) {
	counts := make(map[string]int)
	firstSeen := make([]string, 0)
	for _, m := range sess.FlaggedMoments {
		if counts[m.PlayerID] == 0 {
			firstSeen = append(firstSeen, m.PlayerID)
		}
		counts[m.PlayerID]++
	}

	bestID, bestCount := "", 0
	for _, id := range firstSeen {
		if counts[id] > bestCount {
			bestID, bestCount = id, counts[id]
		}
	}
	if bestID != "" {
		if p := sess.PlayerByID(bestID); p != nil {
			return p, fmt.Sprintf("%d flagged moments kept pulling the eye back", bestCount)
		}
	}

	if p := sess.MostFocusedPlayer(); p != nil {
		return p, "the player held the most sustained focus of the session"
	}

	return nil, ""
}

// gutDomain resolves the hunch's domain: majority among the subject's
// flagged moments, then the subject's active lens, then technical.
func gutDomain(sess *session.Session, subject *session.SessionPlayer) model.HypothesisDomain {
	counts := make(map[model.HypothesisDomain]int)
	order := make([]model.HypothesisDomain, 0)
	for _, m := range sess.FlaggedMoments {
		if m.PlayerID != subject.PlayerID {
			continue
		}
		d := m.Type.Domain()
		if counts[d] == 0 {
			order = append(order, d)
		}
		counts[d]++
	}

	best, bestCount := model.HypothesisDomain(""), 0
	for _, d := range order {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	if best != "" {
		return best
	}

	if subject.CurrentLens != nil {
		if attr, ok := subject.CurrentLens.Domain(); ok {
			return model.HypothesisDomain(attr)
		}
	}

	return model.DomainTechnical
}

// buildPrompts assembles 2-4 report prompts, shuffled and capped.
func buildPrompts(rng *rand.Rand, sess *session.Session, hypothesisCount int) []string {
	prompts := make([]string, 0, maxPrompts)

	if focused := sess.MostFocusedPlayer(); focused != nil {
		prompts = append(prompts, playerPrompt(rng, focused.Name))
	}
	if sess.VenueAtmosphere != nil && sess.VenueAtmosphere.ChaosLevel > atmospherePromptChaos {
		prompts = append(prompts, atmospherePrompt(rng, sess.VenueAtmosphere.Description))
	}
	prompts = append(prompts, focusDistributionPrompt(sess))
	if len(prompts) < minPromptsBeforeFill {
		prompts = append(prompts, fillerPrompt(rng, hypothesisCount))
	}

	rng.Shuffle(len(prompts), func(i, j int) { prompts[i], prompts[j] = prompts[j], prompts[i] })
	if len(prompts) > maxPrompts {
		prompts = prompts[:maxPrompts]
	}
	return prompts
}
