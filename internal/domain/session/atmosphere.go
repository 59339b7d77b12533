package session

import (
	"math/rand"

	"github.com/touchline/scoutsim/internal/domain/model"
)

type atmosphereProfile struct {
	chaosMin     float64
	chaosMax     float64
	descriptions []string
}

var venueAtmospheres = map[model.VenueType]atmosphereProfile{
	model.VenueTrainingGround: {
		chaosMin: 0.0, chaosMax: 0.25,
		descriptions: []string{
			"A handful of coaches and parents line the single rail.",
			"Cones are still out from the morning session; every instruction carries.",
		},
	},
	model.VenueLowerLeague: {
		chaosMin: 0.2, chaosMax: 0.5,
		descriptions: []string{
			"A few hundred regulars hunch under the tin roof of the shed end.",
			"The tannoy crackles through a raffle announcement mid-attack.",
		},
	},
	model.VenueSuburban: {
		chaosMin: 0.3, chaosMax: 0.6,
		descriptions: []string{
			"A tidy community ground with one proper stand and a burger van.",
			"Season-ticket chatter hums along without ever becoming noise.",
		},
	},
	model.VenueMidTier: {
		chaosMin: 0.45, chaosMax: 0.75,
		descriptions: []string{
			"Ten thousand in, and the away end is in good voice early.",
			"Floodlights on, drummers behind the goal, stewards eyeing the segregation line.",
		},
	},
	model.VenueCauldron: {
		chaosMin: 0.7, chaosMax: 1.0,
		descriptions: []string{
			"A full house that boos every backward pass; the noise never drops.",
			"Flares in the home end before kickoff and a wall of sound after it.",
		},
	},
}

// rollAtmosphere draws the venue's chaos level and a line of scene
// setting from the venue bank. Unknown venues read as suburban.
func rollAtmosphere(rng *rand.Rand, venue model.VenueType) VenueAtmosphere {
	profile, ok := venueAtmospheres[venue]
	if !ok {
		profile = venueAtmospheres[model.VenueSuburban]
	}
	chaos := profile.chaosMin + rng.Float64()*(profile.chaosMax-profile.chaosMin)
	return VenueAtmosphere{
		VenueType:   venue,
		ChaosLevel:  chaos,
		Description: profile.descriptions[rng.Intn(len(profile.descriptions))],
	}
}
