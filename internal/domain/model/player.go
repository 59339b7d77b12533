// Package model contains domain models passed between layers.
package model

// Attribute is one of the four observable attribute domains every player
// exposes on a 1-20 scale.
type Attribute string

// Attribute domains.
const (
	AttributeTechnical Attribute = "technical"
	AttributePhysical  Attribute = "physical"
	AttributeMental    Attribute = "mental"
	AttributeTactical  Attribute = "tactical"
)

// AllAttributes lists the attribute domains in canonical order.
var AllAttributes = []Attribute{
	AttributeTechnical,
	AttributePhysical,
	AttributeMental,
	AttributeTactical,
}

// Attribute scale bounds and the neutral baseline used when a player's
// vector is missing an entry.
const (
	AttributeMin      = 1
	AttributeMax      = 20
	AttributeBaseline = 10
)

// Ability bounds shared by current and potential ability.
const (
	AbilityMin = 1
	AbilityMax = 200
)

// Position is a player's on-pitch role.
type Position string

// Positions.
const (
	PositionGK Position = "GK"
	PositionDF Position = "DF"
	PositionMF Position = "MF"
	PositionFW Position = "FW"
)

// IsOutfield reports whether the position is any non-goalkeeper role.
func (p Position) IsOutfield() bool {
	return p != PositionGK
}

// Player is a roster member as seen by the observation pipeline.
type Player struct {
	PlayerID         string            // unique id
	Name             string            // display name used in commentary
	Position         Position          // on-pitch role
	Attributes       map[Attribute]int // 4-domain vector, 1-20 scale
	CurrentAbility   int               // overall ability, 1-200
	PotentialAbility int               // ceiling ability, 1-200
}

// AttributeValue returns the player's value for the given domain, or the
// neutral baseline when the vector has no entry for it.
func (p Player) AttributeValue(attr Attribute) int {
	if v, ok := p.Attributes[attr]; ok {
		return v
	}
	return AttributeBaseline
}

// ClampAbility clamps an ability-like estimate to the valid range.
func ClampAbility(v int) int {
	if v < AbilityMin {
		return AbilityMin
	}
	if v > AbilityMax {
		return AbilityMax
	}
	return v
}

// AverageCurrentAbility returns the mean current ability of a roster, or 0
// for an empty roster.
func AverageCurrentAbility(players []Player) float64 {
	if len(players) == 0 {
		return 0
	}
	sum := 0
	for _, p := range players {
		sum += p.CurrentAbility
	}
	return float64(sum) / float64(len(players))
}
