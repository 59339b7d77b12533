package model

// Weather conditions a fixture can be played under. Conditions degrade how
// cleanly event quality can be read.
type Weather string

// Weather values.
const (
	WeatherClear     Weather = "clear"
	WeatherCloudy    Weather = "cloudy"
	WeatherRain      Weather = "rain"
	WeatherHeavyRain Weather = "heavyRain"
	WeatherSnow      Weather = "snow"
	WeatherWindy     Weather = "windy"
)

// AllWeather lists the weather conditions in canonical order.
var AllWeather = []Weather{
	WeatherClear,
	WeatherCloudy,
	WeatherRain,
	WeatherHeavyRain,
	WeatherSnow,
	WeatherWindy,
}

// VenueType categorizes the ground a fixture is played at. It drives the
// atmosphere chaos range during a scouted session.
type VenueType string

// Venue types.
const (
	VenueTrainingGround VenueType = "trainingGround"
	VenueLowerLeague    VenueType = "lowerLeague"
	VenueSuburban       VenueType = "suburban"
	VenueMidTier        VenueType = "midTier"
	VenueCauldron       VenueType = "cauldron"
)

// Club identifies one side of a fixture.
type Club struct {
	ClubID     string
	Name       string
	Reputation int // loose 1-10 tier used by roster fabrication
}

// Fixture is a single scheduled match between two clubs, with full rosters
// attached. Rosters list the matchday squad; the first eleven of each are
// the on-pitch players.
type Fixture struct {
	FixtureID   string
	Week        int
	HomeClub    Club
	AwayClub    Club
	HomePlayers []Player
	AwayPlayers []Player
	Venue       VenueType
	Weather     Weather
}
