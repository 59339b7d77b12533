package reflection_test

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/touchline/scoutsim/internal/domain/attention"
	"github.com/touchline/scoutsim/internal/domain/match"
	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/domain/reflection"
	"github.com/touchline/scoutsim/internal/domain/session"
)

func moment(playerID string, mtype session.MomentType, reaction session.Reaction, standout bool) session.FlaggedMoment {
	return session.FlaggedMoment{
		PlayerID:    playerID,
		Type:        mtype,
		Reaction:    reaction,
		Standout:    standout,
		Description: "42': a moment worth the notebook",
		PhaseIndex:  3,
		Week:        14,
	}
}

func watchedSession() *session.Session {
	tactical := attention.LensTactical
	return &session.Session{
		Phases: make([]match.MatchPhase, 14),
		Players: []session.SessionPlayer{
			{PlayerID: "p1", Name: "Reyes", FocusedPhases: []int{1, 2, 3, 4}, CurrentLens: &tactical},
			{PlayerID: "p2", Name: "Okafor", FocusedPhases: []int{5, 6}},
			{PlayerID: "p3", Name: "Lindqvist"},
			{PlayerID: "p4", Name: "Moreau"},
		},
		VenueAtmosphere: &session.VenueAtmosphere{
			VenueType:   model.VenueMidTier,
			ChaosLevel:  0.55,
			Description: "Ten thousand in, and the away end is in good voice early.",
		},
		StartedAtWeek:     14,
		CurrentPhaseIndex: 14,
	}
}

func TestHypothesisSuggestions(t *testing.T) {
	Convey("Given a session with qualifying and non-qualifying evidence groups", t, func() {
		sess := watchedSession()
		sess.FlaggedMoments = []session.FlaggedMoment{
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, false),
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, false),
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, true),
			moment("p2", session.MomentPhysicalTest, session.ReactionConcerning, true),
			moment("p3", session.MomentMentalResponse, session.ReactionPromising, false),
			moment("p4", session.MomentTacticalDecision, session.ReactionPromising, false),
			moment("p4", session.MomentTacticalDecision, session.ReactionConcerning, false),
		}

		Convey("When reflection runs", func() {
			result := reflection.Generate(sess, rand.New(rand.NewSource(3)), reflection.ScoutTraits{}, nil)

			Convey("Then only groups with two moments or a standout become hypotheses", func() {
				So(result.SuggestedHypotheses, ShouldHaveLength, 3)

				byPlayer := map[string]model.Hypothesis{}
				for _, h := range result.SuggestedHypotheses {
					byPlayer[h.PlayerID] = h
				}
				So(byPlayer, ShouldContainKey, "p1")
				So(byPlayer, ShouldContainKey, "p2")
				So(byPlayer, ShouldContainKey, "p4")
				So(byPlayer, ShouldNotContainKey, "p3")
			})

			Convey("Then each hypothesis carries one opening piece of evidence", func() {
				for _, h := range result.SuggestedHypotheses {
					So(h.ID, ShouldNotBeEmpty)
					So(h.State, ShouldEqual, model.HypothesisOpen)
					So(h.CreatedAtWeek, ShouldEqual, 14)
					So(h.Evidence, ShouldHaveLength, 1)
					So(h.Evidence[0].Week, ShouldEqual, 14)
					So(h.Evidence[0].Description, ShouldNotBeEmpty)
				}
			})

			Convey("Then direction and strength follow the evidence group", func() {
				for _, h := range result.SuggestedHypotheses {
					switch h.PlayerID {
					case "p1":
						So(h.Domain, ShouldEqual, model.DomainTechnical)
						So(h.Evidence[0].Direction, ShouldEqual, model.EvidenceFor)
						So(h.Evidence[0].Strength, ShouldEqual, model.EvidenceStrong)
						So(h.Text, ShouldContainSubstring, "Reyes")
					case "p2":
						So(h.Domain, ShouldEqual, model.DomainPhysical)
						So(h.Evidence[0].Direction, ShouldEqual, model.EvidenceAgainst)
						So(h.Evidence[0].Strength, ShouldEqual, model.EvidenceWeak)
					case "p4":
						So(h.Evidence[0].Direction, ShouldEqual, model.EvidenceFor)
						So(h.Evidence[0].Strength, ShouldEqual, model.EvidenceModerate)
					}
				}
			})
		})

		Convey("When a hypothesis for the pair is already on file", func() {
			sess.Hypotheses = []model.Hypothesis{{PlayerID: "p1", Domain: model.DomainTechnical}}
			result := reflection.Generate(sess, rand.New(rand.NewSource(3)), reflection.ScoutTraits{}, nil)

			Convey("Then the duplicate pair is skipped but fresh domains still land", func() {
				for _, h := range result.SuggestedHypotheses {
					So(h.PlayerID == "p1" && h.Domain == model.DomainTechnical, ShouldBeFalse)
				}
				So(result.SuggestedHypotheses, ShouldHaveLength, 2)
			})
		})
	})

	Convey("Given a session where nothing was flagged", t, func() {
		sess := watchedSession()

		Convey("When reflection runs", func() {
			result := reflection.Generate(sess, rand.New(rand.NewSource(3)), reflection.ScoutTraits{}, nil)

			Convey("Then no hypotheses are suggested", func() {
				So(result.SuggestedHypotheses, ShouldBeEmpty)
			})
		})
	})
}

func TestGutFeeling(t *testing.T) {
	Convey("Given a perceptive scout and a session full of flags", t, func() {
		sess := watchedSession()
		sess.FlaggedMoments = []session.FlaggedMoment{
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, false),
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, false),
			moment("p1", session.MomentPhysicalTest, session.ReactionPromising, false),
			moment("p2", session.MomentPhysicalTest, session.ReactionConcerning, true),
		}
		scout := reflection.ScoutTraits{Intuition: 100, SpecLevel: 100}

		Convey("When reflection runs across many seeds", func() {
			fired := 0
			for seed := int64(0); seed < 40; seed++ {
				result := reflection.Generate(sess, rand.New(rand.NewSource(seed)), scout, nil)
				if result.GutFeeling == nil {
					continue
				}
				fired++
				gut := result.GutFeeling

				So(gut.PlayerID, ShouldEqual, "p1")
				So(gut.PlayerName, ShouldEqual, "Reyes")
				So(gut.Domain, ShouldEqual, model.DomainTechnical)
				So(gut.Reliability, ShouldEqual, 0.85)
				So(gut.Narrative, ShouldContainSubstring, "Reyes")
				So(gut.TriggerReason, ShouldNotBeEmpty)
				So(gut.PAEstimate, ShouldBeNil)
			}

			Convey("Then the hunch fires on most seeds and always names the most flagged player", func() {
				So(fired, ShouldBeGreaterThan, 30)
			})
		})
	})

	Convey("Given a session with focus but no flags", t, func() {
		sess := watchedSession()
		scout := reflection.ScoutTraits{Intuition: 100, SpecLevel: 100}

		Convey("When a hunch fires", func() {
			var gut *reflection.GutFeelingCandidate
			for seed := int64(0); seed < 40 && gut == nil; seed++ {
				gut = reflection.Generate(sess, rand.New(rand.NewSource(seed)), scout, nil).GutFeeling
			}

			Convey("Then it falls back to the most focused player and their lens domain", func() {
				So(gut, ShouldNotBeNil)
				So(gut.PlayerID, ShouldEqual, "p1")
				So(gut.Domain, ShouldEqual, model.DomainTactical)
			})
		})
	})

	Convey("Given a session where nothing was watched or flagged", t, func() {
		sess := watchedSession()
		for i := range sess.Players {
			sess.Players[i].FocusedPhases = nil
			sess.Players[i].CurrentLens = nil
		}

		Convey("When reflection runs", func() {
			result := reflection.Generate(sess, rand.New(rand.NewSource(1)),
				reflection.ScoutTraits{Intuition: 100, SpecLevel: 100}, nil)

			Convey("Then no hunch can form without a subject", func() {
				So(result.GutFeeling, ShouldBeNil)
			})
		})
	})

	Convey("Given a weak intuition scout", t, func() {
		sess := watchedSession()
		sess.FlaggedMoments = []session.FlaggedMoment{
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, true),
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, true),
		}

		Convey("When a hunch fires", func() {
			var gut *reflection.GutFeelingCandidate
			for seed := int64(0); seed < 200 && gut == nil; seed++ {
				gut = reflection.Generate(sess, rand.New(rand.NewSource(seed)),
					reflection.ScoutTraits{Intuition: 15}, nil).GutFeeling
			}

			Convey("Then reliability stays near the floor", func() {
				So(gut, ShouldNotBeNil)
				So(gut.Reliability, ShouldAlmostEqual, 0.80, 0.0001)
			})
		})
	})
}

func TestPotentialEstimates(t *testing.T) {
	Convey("Given a scout whose club allows potential estimates", t, func() {
		sess := watchedSession()
		sess.FlaggedMoments = []session.FlaggedMoment{
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, true),
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, true),
		}
		scout := reflection.ScoutTraits{Intuition: 100, SpecLevel: 100}
		lookup := func(playerID string) (reflection.PlayerProfile, bool) {
			if playerID == "p1" {
				return reflection.PlayerProfile{Name: "Reyes", PotentialAbility: 150}, true
			}
			return reflection.PlayerProfile{}, false
		}

		firstGut := func(caps *reflection.Capabilities) *reflection.GutFeelingCandidate {
			for seed := int64(0); seed < 40; seed++ {
				if gut := reflection.Generate(sess, rand.New(rand.NewSource(seed)), scout, caps).GutFeeling; gut != nil {
					return gut
				}
			}
			return nil
		}

		Convey("When the accuracy perk is partial", func() {
			gut := firstGut(&reflection.Capabilities{
				EstimatePotential: true,
				PAAccuracyBonus:   0.4,
				PlayerLookup:      lookup,
			})

			Convey("Then the window spans the margin both ways", func() {
				So(gut, ShouldNotBeNil)
				So(gut.PAEstimate, ShouldNotBeNil)
				So(gut.PAEstimate.Low, ShouldEqual, 147)
				So(gut.PAEstimate.High, ShouldEqual, 153)
			})
		})

		Convey("When the accuracy perk is maxed", func() {
			gut := firstGut(&reflection.Capabilities{
				EstimatePotential: true,
				PAAccuracyBonus:   1.0,
				PlayerLookup:      lookup,
			})

			Convey("Then the margin never narrows past one point", func() {
				So(gut, ShouldNotBeNil)
				So(gut.PAEstimate.Low, ShouldEqual, 149)
				So(gut.PAEstimate.High, ShouldEqual, 151)
			})
		})

		Convey("When the perk is disabled", func() {
			gut := firstGut(&reflection.Capabilities{PlayerLookup: lookup})

			Convey("Then no estimate is attached", func() {
				So(gut, ShouldNotBeNil)
				So(gut.PAEstimate, ShouldBeNil)
			})
		})

		Convey("When the subject is near the ability ceiling", func() {
			ceiling := func(playerID string) (reflection.PlayerProfile, bool) {
				return reflection.PlayerProfile{Name: "Reyes", PotentialAbility: 199}, true
			}
			gut := firstGut(&reflection.Capabilities{
				EstimatePotential: true,
				PlayerLookup:      ceiling,
			})

			Convey("Then the window clamps to the ability range", func() {
				So(gut, ShouldNotBeNil)
				So(gut.PAEstimate.Low, ShouldEqual, 194)
				So(gut.PAEstimate.High, ShouldEqual, 200)
			})
		})
	})
}

func TestPromptsAndSummary(t *testing.T) {
	Convey("Given a busy session at a loud ground", t, func() {
		sess := watchedSession()
		sess.VenueAtmosphere.ChaosLevel = 0.8
		sess.FlaggedMoments = []session.FlaggedMoment{
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, false),
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, false),
		}

		Convey("When reflection runs", func() {
			result := reflection.Generate(sess, rand.New(rand.NewSource(11)), reflection.ScoutTraits{}, nil)

			Convey("Then prompts stay within the report's range", func() {
				So(len(result.Prompts), ShouldBeBetweenOrEqual, 2, 4)
				for _, p := range result.Prompts {
					So(p, ShouldNotBeEmpty)
				}
			})

			Convey("Then the summary recounts the session", func() {
				So(result.Summary, ShouldContainSubstring, "14 of 14 phases")
				So(result.Summary, ShouldContainSubstring, "Reyes")
				So(result.Summary, ShouldContainSubstring, "tactical lens")
				So(result.Summary, ShouldContainSubstring, "flagged 2 moments")
				So(result.Summary, ShouldContainSubstring, "clean reads difficult")
			})
		})
	})

	Convey("Given a quiet session where nothing was focused", t, func() {
		sess := watchedSession()
		for i := range sess.Players {
			sess.Players[i].FocusedPhases = nil
			sess.Players[i].CurrentLens = nil
		}
		sess.VenueAtmosphere.ChaosLevel = 0.1

		Convey("When reflection runs", func() {
			result := reflection.Generate(sess, rand.New(rand.NewSource(11)), reflection.ScoutTraits{}, nil)

			Convey("Then the summary admits the lack of focus", func() {
				So(result.Summary, ShouldContainSubstring, "No single player held your focus")
				So(result.Summary, ShouldContainSubstring, "clear reading")
			})

			Convey("Then prompts still reach the minimum", func() {
				So(len(result.Prompts), ShouldBeBetweenOrEqual, 2, 4)
			})

			Convey("Then insight settles at the base with nothing earned", func() {
				So(result.InsightPoints, ShouldEqual, 5)
				So(result.GutFeeling, ShouldBeNil)
			})
		})
	})
}

func TestInsightPoints(t *testing.T) {
	Convey("Given sessions of increasing yield", t, func() {
		sess := watchedSession()
		sess.FlaggedMoments = []session.FlaggedMoment{
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, false),
			moment("p1", session.MomentTechnicalAction, session.ReactionPromising, false),
			moment("p2", session.MomentPhysicalTest, session.ReactionConcerning, true),
		}

		Convey("When reflection runs across seeds", func() {
			Convey("Then insight always matches the session's yield", func() {
				for seed := int64(0); seed < 20; seed++ {
					result := reflection.Generate(sess, rand.New(rand.NewSource(seed)), reflection.ScoutTraits{Intuition: 50}, nil)

					want := 5 + 2*len(result.SuggestedHypotheses)
					if result.GutFeeling != nil {
						want += 3
					}
					So(result.InsightPoints, ShouldEqual, want)
					So(result.SuggestedHypotheses, ShouldHaveLength, 2)
				}
			})
		})
	})
}
