package model

// HypothesisDomain is the attribute territory a hypothesis speaks about.
// Hidden covers character traits no single match statistic exposes.
type HypothesisDomain string

// Hypothesis domains.
const (
	DomainTechnical HypothesisDomain = "technical"
	DomainPhysical  HypothesisDomain = "physical"
	DomainMental    HypothesisDomain = "mental"
	DomainTactical  HypothesisDomain = "tactical"
	DomainHidden    HypothesisDomain = "hidden"
)

// HypothesisState tracks a hypothesis through its lifecycle. New hypotheses
// open; the downstream report writer confirms or rejects them later.
type HypothesisState string

// Hypothesis states.
const (
	HypothesisOpen      HypothesisState = "open"
	HypothesisConfirmed HypothesisState = "confirmed"
	HypothesisRejected  HypothesisState = "rejected"
)

// EvidenceDirection says whether a piece of evidence supports or
// undermines the hypothesis.
type EvidenceDirection string

// Evidence directions.
const (
	EvidenceFor     EvidenceDirection = "for"
	EvidenceAgainst EvidenceDirection = "against"
)

// EvidenceStrength grades how much weight a piece of evidence carries.
type EvidenceStrength string

// Evidence strengths.
const (
	EvidenceWeak     EvidenceStrength = "weak"
	EvidenceModerate EvidenceStrength = "moderate"
	EvidenceStrong   EvidenceStrength = "strong"
)

// Evidence is one observed datum attached to a hypothesis.
type Evidence struct {
	Week        int
	Direction   EvidenceDirection
	Description string
	Strength    EvidenceStrength
}

// Hypothesis is a structured, evidence-backed belief about one domain of
// one player's game.
type Hypothesis struct {
	ID            string
	PlayerID      string
	Text          string
	Domain        HypothesisDomain
	State         HypothesisState
	CreatedAtWeek int
	Evidence      []Evidence
}
