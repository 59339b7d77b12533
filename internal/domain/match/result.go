package match

import (
	"math"
	"math/rand"
	"sort"

	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/random"
)

// ClubSide bundles a club with its matchday roster for result simulation.
type ClubSide struct {
	Club    model.Club
	Players []model.Player
}

// Scorer records one goal in the simulated result.
type Scorer struct {
	PlayerID string
	Name     string
	Minute   int
	Home     bool
}

// MatchResult is the simulated final score with its goalscorers ordered by
// minute.
type MatchResult struct {
	HomeGoals int
	AwayGoals int
	Scorers   []Scorer
}

// Result simulation constants.
const (
	homeAdvantage     = 1.08
	expectedGoalsMean = 2.7
	expectedGoalsSD   = 1.1
	maxGoalsPerSide   = 6
	attackingBonus    = 3.0
)

// SimulateResult produces a final score independent of the phase timeline.
// The home side's average ability is inflated by the home advantage before
// the expected goals are shared out; each side's count approximates a
// Poisson draw and is clamped to [0,6].
func SimulateResult(rng *rand.Rand, home, away ClubSide) MatchResult {
	homeStrength := model.AverageCurrentAbility(home.Players) * homeAdvantage
	awayStrength := model.AverageCurrentAbility(away.Players)

	totalGoals := random.Gaussian(rng, expectedGoalsMean, expectedGoalsSD)
	if totalGoals < 0 {
		totalGoals = 0
	}

	homeShare := 0.5
	if homeStrength+awayStrength > 0 {
		homeShare = homeStrength / (homeStrength + awayStrength)
	}

	homeGoals := sampleGoals(rng, totalGoals*homeShare)
	awayGoals := sampleGoals(rng, totalGoals*(1-homeShare))

	minutes := random.DistinctInts(rng, homeGoals+awayGoals, 1, matchMinutes)

	scorers := make([]Scorer, 0, homeGoals+awayGoals)
	for i := 0; i < homeGoals && i < len(minutes); i++ {
		p, ok := pickScorer(rng, home.Players)
		if !ok {
			break
		}
		scorers = append(scorers, Scorer{PlayerID: p.PlayerID, Name: p.Name, Minute: minutes[i], Home: true})
	}
	for i := 0; i < awayGoals && homeGoals+i < len(minutes); i++ {
		p, ok := pickScorer(rng, away.Players)
		if !ok {
			break
		}
		scorers = append(scorers, Scorer{PlayerID: p.PlayerID, Name: p.Name, Minute: minutes[homeGoals+i], Home: false})
	}

	sort.Slice(scorers, func(i, j int) bool { return scorers[i].Minute < scorers[j].Minute })

	return MatchResult{
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
		Scorers:   scorers,
	}
}

// sampleGoals approximates a Poisson draw with a Gaussian of matching mean
// and inflated variance, then clamps to the plausible range.
func sampleGoals(rng *rand.Rand, lambda float64) int {
	g := math.Round(random.Gaussian(rng, lambda, math.Sqrt(lambda+0.5)))
	if g < 0 {
		return 0
	}
	if g > maxGoalsPerSide {
		return maxGoalsPerSide
	}
	return int(g)
}

// pickScorer draws one scorer weighted by finishing quality: the technical
// attribute, with a bonus for forwards.
func pickScorer(rng *rand.Rand, players []model.Player) (model.Player, bool) {
	if len(players) == 0 {
		return model.Player{}, false
	}

	weights := make([]float64, len(players))
	for i, p := range players {
		w := float64(p.AttributeValue(model.AttributeTechnical))
		if p.Position == model.PositionFW {
			w += attackingBonus
		}
		weights[i] = w
	}

	return players[random.WeightedIndex(rng, weights)], true
}
