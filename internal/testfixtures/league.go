package testfixtures

import (
	"fmt"
	"log"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/random"
)

// League is a fabricated competition: clubs with matchday squads and a
// round-robin fixture schedule to scout.
type League struct {
	Clubs    []LeagueClub
	Fixtures []model.Fixture
}

// LeagueClub pairs a club with its home venue and 23-player squad.
type LeagueClub struct {
	Club  model.Club
	Venue model.VenueType
	Squad []model.Player
}

var surnameBank = []string{
	"Ferreira", "Okafor", "Reyes", "Brandt", "Silva", "Moreau", "Takeda",
	"Jansen", "Costa", "Nwosu", "Larsen", "Petrov", "Alvarez", "Kimura",
	"Diallo", "Novak", "Santos", "Weber", "Eriksen", "Marino", "Duarte",
	"Kovac", "Lindqvist", "Mensah", "Oliveira", "Sato", "Vidal", "Wolf",
	"Baptiste", "Crespo", "Haddad", "Iversen",
}

var givenInitials = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J",
	"K", "L", "M", "N", "O", "P", "R", "S", "T", "V",
}

var clubPrefixBank = []string{
	"Harland", "Westvale", "Eastbrook", "Northgate", "Redmoor", "Silverton",
	"Ashford", "Crestwood", "Ferndale", "Oakhurst", "Millbrae", "Stonebridge",
	"Kingsmere", "Duncliffe", "Grayford", "Winterton",
}

var clubSuffixBank = []string{
	"Town", "United", "City", "Rovers", "Athletic", "Wanderers", "County", "Albion",
}

// clubTier maps a reputation band to a home venue and an ability shift
// applied to every squad member. Clubs cycle tiers so a small league
// still spans the venue spectrum.
type clubTier struct {
	reputationMin int
	reputationMax int
	venue         model.VenueType
	abilityShift  int
}

var clubTiers = []clubTier{
	{reputationMin: 8, reputationMax: 10, venue: model.VenueCauldron, abilityShift: 12},
	{reputationMin: 6, reputationMax: 7, venue: model.VenueMidTier, abilityShift: 6},
	{reputationMin: 4, reputationMax: 5, venue: model.VenueSuburban, abilityShift: 0},
	{reputationMin: 2, reputationMax: 3, venue: model.VenueLowerLeague, abilityShift: -8},
}

// archetype shapes a fabricated player's ability bands. Weights skew
// squads toward squad players and regulars, with the occasional
// wonderkid worth flagging.
type archetype struct {
	name   string
	caMin  int
	caMax  int
	paMin  int
	paMax  int
	weight float64
}

var archetypes = []archetype{
	{name: "wonderkid", caMin: 95, caMax: 125, paMin: 160, paMax: 195, weight: 0.7},
	{name: "firstTeamRegular", caMin: 125, caMax: 150, paMin: 130, paMax: 160, weight: 3.0},
	{name: "squadPlayer", caMin: 100, caMax: 125, paMin: 110, paMax: 135, weight: 3.5},
	{name: "veteran", caMin: 125, caMax: 150, paMin: 125, paMax: 150, weight: 1.8},
	{name: "rawYouth", caMin: 70, caMax: 95, paMin: 110, paMax: 175, weight: 1.0},
}

func archetypeWeights() []float64 {
	weights := make([]float64, len(archetypes))
	for i, a := range archetypes {
		weights[i] = a.weight
	}
	return weights
}

// squadPositions lays out a 23-player matchday squad. The first eleven
// are the on-pitch side: a goalkeeper, four defenders, four midfielders
// and two forwards; the bench fills out the remaining slots per line.
var squadPositions = []model.Position{
	model.PositionGK,
	model.PositionDF, model.PositionDF, model.PositionDF, model.PositionDF,
	model.PositionMF, model.PositionMF, model.PositionMF, model.PositionMF,
	model.PositionFW, model.PositionFW,
	model.PositionGK, model.PositionGK,
	model.PositionDF, model.PositionDF, model.PositionDF, model.PositionDF,
	model.PositionMF, model.PositionMF, model.PositionMF,
	model.PositionFW, model.PositionFW, model.PositionFW,
}

// positionBias nudges attribute domains per line so defenders read
// physical and forwards read technical.
var positionBias = map[model.Position]map[model.Attribute]int{
	model.PositionGK: {model.AttributeMental: 2, model.AttributePhysical: 1, model.AttributeTechnical: -1},
	model.PositionDF: {model.AttributePhysical: 2, model.AttributeTactical: 1, model.AttributeTechnical: -1},
	model.PositionMF: {model.AttributeTechnical: 1, model.AttributeMental: 1, model.AttributeTactical: 1},
	model.PositionFW: {model.AttributeTechnical: 2, model.AttributePhysical: 1, model.AttributeTactical: -1},
}

// weatherWeights skews fixture weather toward playable conditions.
var weatherWeights = map[model.Weather]float64{
	model.WeatherClear:     4.0,
	model.WeatherCloudy:    3.0,
	model.WeatherRain:      2.0,
	model.WeatherWindy:     1.5,
	model.WeatherHeavyRain: 1.0,
	model.WeatherSnow:      0.5,
}

// FabricateLeague builds clubCount clubs with full squads and schedules
// fixtureCount fixtures across repeated round-robin weeks. All rolls
// come from rng, so a master seed reproduces the same league shape.
func FabricateLeague(rng *rand.Rand, clubCount, fixtureCount int, forcedWeather model.Weather) League {
	if clubCount < 4 {
		clubCount = 4
	}
	if clubCount%2 != 0 {
		clubCount++
	}

	log.Printf("📋 Fabricating league: %d clubs, %d fixtures...", clubCount, fixtureCount)

	clubs := fabricateClubs(rng, clubCount)
	fixtures := scheduleFixtures(rng, clubs, fixtureCount, forcedWeather)

	log.Printf("✅ League ready: %d squads of %d, %d fixtures scheduled",
		len(clubs), len(squadPositions), len(fixtures))

	return League{Clubs: clubs, Fixtures: fixtures}
}

func fabricateClubs(rng *rand.Rand, clubCount int) []LeagueClub {
	prefixOrder := rng.Perm(len(clubPrefixBank))

	clubs := make([]LeagueClub, 0, clubCount)
	for i := 0; i < clubCount; i++ {
		tier := clubTiers[i%len(clubTiers)]
		prefix := clubPrefixBank[prefixOrder[i%len(prefixOrder)]]
		suffix := clubSuffixBank[rng.Intn(len(clubSuffixBank))]

		club := model.Club{
			ClubID:     uuid.New().String(),
			Name:       prefix + " " + suffix,
			Reputation: random.IntBetween(rng, tier.reputationMin, tier.reputationMax),
		}

		clubs = append(clubs, LeagueClub{
			Club:  club,
			Venue: tier.venue,
			Squad: fabricateSquad(rng, tier.abilityShift),
		})
	}
	return clubs
}

func fabricateSquad(rng *rand.Rand, abilityShift int) []model.Player {
	weights := archetypeWeights()

	squad := make([]model.Player, 0, len(squadPositions))
	for _, position := range squadPositions {
		kind := archetypes[random.WeightedIndex(rng, weights)]

		ca := model.ClampAbility(random.IntBetween(rng, kind.caMin, kind.caMax) + abilityShift)
		pa := model.ClampAbility(random.IntBetween(rng, kind.paMin, kind.paMax) + abilityShift/2)
		if pa < ca {
			pa = ca
		}

		squad = append(squad, model.Player{
			PlayerID:         uuid.New().String(),
			Name:             fabricateName(rng),
			Position:         position,
			Attributes:       fabricateAttributes(rng, position, ca),
			CurrentAbility:   ca,
			PotentialAbility: pa,
		})
	}
	return squad
}

func fabricateName(rng *rand.Rand) string {
	initial := givenInitials[rng.Intn(len(givenInitials))]
	surname := surnameBank[rng.Intn(len(surnameBank))]
	return fmt.Sprintf("%s. %s", initial, surname)
}

func fabricateAttributes(rng *rand.Rand, position model.Position, ca int) map[model.Attribute]int {
	base := ca / 10
	attrs := make(map[model.Attribute]int, len(model.AllAttributes))
	for _, attr := range model.AllAttributes {
		value := base + random.IntBetween(rng, -2, 2) + positionBias[position][attr]
		if value < model.AttributeMin {
			value = model.AttributeMin
		}
		if value > model.AttributeMax {
			value = model.AttributeMax
		}
		attrs[attr] = value
	}
	return attrs
}

// roundRobinWeeks pairs club indices with the circle method: index 0
// stays fixed while the rest rotate, one week per rotation. Home
// advantage alternates by week parity.
func roundRobinWeeks(clubCount int) [][][2]int {
	rotation := make([]int, clubCount)
	for i := range rotation {
		rotation[i] = i
	}

	weeks := make([][][2]int, 0, clubCount-1)
	for week := 0; week < clubCount-1; week++ {
		pairs := make([][2]int, 0, clubCount/2)
		for i := 0; i < clubCount/2; i++ {
			home, away := rotation[i], rotation[clubCount-1-i]
			if week%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, [2]int{home, away})
		}
		weeks = append(weeks, pairs)

		last := rotation[clubCount-1]
		copy(rotation[2:], rotation[1:clubCount-1])
		rotation[1] = last
	}
	return weeks
}

func scheduleFixtures(rng *rand.Rand, clubs []LeagueClub, fixtureCount int, forcedWeather model.Weather) []model.Fixture {
	weeks := roundRobinWeeks(len(clubs))

	fixtures := make([]model.Fixture, 0, fixtureCount)
	for cycle := 0; len(fixtures) < fixtureCount; cycle++ {
		for w, pairs := range weeks {
			for _, pair := range pairs {
				if len(fixtures) >= fixtureCount {
					return fixtures
				}
				home, away := clubs[pair[0]], clubs[pair[1]]
				fixtures = append(fixtures, model.Fixture{
					FixtureID:   uuid.New().String(),
					Week:        cycle*len(weeks) + w + 1,
					HomeClub:    home.Club,
					AwayClub:    away.Club,
					HomePlayers: home.Squad,
					AwayPlayers: away.Squad,
					Venue:       home.Venue,
					Weather:     rollWeather(rng, forcedWeather),
				})
			}
		}
	}
	return fixtures
}

func rollWeather(rng *rand.Rand, forced model.Weather) model.Weather {
	if forced != "" {
		return forced
	}
	weights := make([]float64, len(model.AllWeather))
	for i, w := range model.AllWeather {
		weights[i] = weatherWeights[w]
	}
	return model.AllWeather[random.WeightedIndex(rng, weights)]
}

// scoutProfile seeds the small pool of scouts assignments rotate through.
type scoutProfile struct {
	name              string
	intuition         int
	specLevel         int
	estimatePotential bool
	paAccuracyBonus   float64
}

var scoutBank = []scoutProfile{
	{name: "D. Ferreira", intuition: 72, specLevel: 55, estimatePotential: true, paAccuracyBonus: 0.3},
	{name: "M. Okafor", intuition: 64, specLevel: 70, estimatePotential: false},
	{name: "S. Lindqvist", intuition: 81, specLevel: 40, estimatePotential: true, paAccuracyBonus: 0.15},
	{name: "A. Duarte", intuition: 55, specLevel: 62, estimatePotential: false},
	{name: "K. Mensah", intuition: 68, specLevel: 48, estimatePotential: true, paAccuracyBonus: 0.4},
	{name: "R. Vidal", intuition: 47, specLevel: 75, estimatePotential: false},
}

// BuildAssignments turns every scheduled fixture into one scouting
// assignment: a scout from the bank, a watchlist of the fixture's most
// promising youngsters, and a seed derived from the master seed by
// fixture index.
func BuildAssignments(rng *rand.Rand, league League, masterSeed int64, mode string) []model.Assignment {
	assignments := make([]model.Assignment, 0, len(league.Fixtures))
	for i, fixture := range league.Fixtures {
		profile := scoutBank[i%len(scoutBank)]
		watchlist := pickWatchlist(fixture)

		scout := model.Scout{
			Name:              profile.name,
			Intuition:         profile.intuition,
			SpecLevel:         profile.specLevel,
			EstimatePotential: profile.estimatePotential,
			PAAccuracyBonus:   profile.paAccuracyBonus,
			Watchlist:         watchlist,
			LensOverrides:     rollLensOverrides(rng, fixture, watchlist),
		}

		assignments = append(assignments, model.Assignment{
			AssignmentID: uuid.New().String(),
			Fixture:      fixture,
			Mode:         mode,
			Scout:        scout,
			Seed:         random.DeriveSeed(masterSeed, i),
		})
	}
	return assignments
}

const (
	watchlistSize      = 3
	promisingPAFloor   = 140
	promisingHeadroom  = 35
	lensOverrideChance = 0.3
)

// pickWatchlist selects the fixture's most promising youngsters: high
// ceilings first, then the biggest gaps still to grow into.
func pickWatchlist(fixture model.Fixture) []string {
	squad := make([]model.Player, 0, len(fixture.HomePlayers)+len(fixture.AwayPlayers))
	squad = append(squad, fixture.HomePlayers...)
	squad = append(squad, fixture.AwayPlayers...)

	promising := make([]model.Player, 0, len(squad))
	for _, p := range squad {
		if p.PotentialAbility >= promisingPAFloor || p.PotentialAbility-p.CurrentAbility >= promisingHeadroom {
			promising = append(promising, p)
		}
	}
	if len(promising) == 0 {
		promising = squad
	}

	sort.SliceStable(promising, func(i, j int) bool {
		return promising[i].PotentialAbility > promising[j].PotentialAbility
	})

	size := watchlistSize
	if size > len(promising) {
		size = len(promising)
	}
	watchlist := make([]string, 0, size)
	for _, p := range promising[:size] {
		watchlist = append(watchlist, p.PlayerID)
	}
	return watchlist
}

// rollLensOverrides occasionally pins the first target to the lens
// their position usually rewards.
func rollLensOverrides(rng *rand.Rand, fixture model.Fixture, watchlist []string) map[string]string {
	if len(watchlist) == 0 || rng.Float64() >= lensOverrideChance {
		return nil
	}

	lensByPosition := map[model.Position]string{
		model.PositionGK: "mental",
		model.PositionDF: "physical",
		model.PositionMF: "tactical",
		model.PositionFW: "technical",
	}

	target := watchlist[0]
	for _, p := range append(fixture.HomePlayers, fixture.AwayPlayers...) {
		if p.PlayerID == target {
			return map[string]string{target: lensByPosition[p.Position]}
		}
	}
	return nil
}
