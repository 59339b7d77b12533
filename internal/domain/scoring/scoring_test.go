package scoring_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/domain/reflection"
	"github.com/touchline/scoutsim/internal/domain/scoring"
	"github.com/touchline/scoutsim/internal/domain/session"
)

func watchedSession() *session.Session {
	return &session.Session{
		Players: []session.SessionPlayer{
			{PlayerID: "p1", Name: "J. Reyes", FocusedPhases: []int{1, 2, 3, 4}},
			{PlayerID: "p2", Name: "T. Okafor", FocusedPhases: []int{5, 6}},
			{PlayerID: "p3", Name: "L. Moreau"},
		},
		StartedAtWeek: 14,
	}
}

func hypothesis(playerID string, dir model.EvidenceDirection, strength model.EvidenceStrength) model.Hypothesis {
	return model.Hypothesis{
		ID:       "hyp-" + playerID + string(dir) + string(strength),
		PlayerID: playerID,
		Domain:   model.DomainTechnical,
		State:    model.HypothesisOpen,
		Evidence: []model.Evidence{{
			Week:      14,
			Direction: dir,
			Strength:  strength,
		}},
	}
}

func TestInsightScorer_Score(t *testing.T) {
	Convey("Given a default insight scorer", t, func() {
		scorer := scoring.NewInsightScorer()

		Convey("When a session yields hypotheses, a gut feeling, and focus time", func() {
			sess := watchedSession()
			refl := reflection.Result{
				SuggestedHypotheses: []model.Hypothesis{
					hypothesis("p1", model.EvidenceFor, model.EvidenceStrong),
					hypothesis("p1", model.EvidenceFor, model.EvidenceModerate),
					hypothesis("p2", model.EvidenceAgainst, model.EvidenceWeak),
				},
				GutFeeling: &reflection.GutFeelingCandidate{
					PlayerID:    "p1",
					PlayerName:  "J. Reyes",
					Domain:      model.DomainTechnical,
					Reliability: 0.85,
				},
			}

			insights := scorer.Score(sess, refl)

			Convey("Then each contributing player gets one entry", func() {
				So(insights, ShouldHaveLength, 2)
				So(insights[0].PlayerID, ShouldEqual, "p1")
				So(insights[1].PlayerID, ShouldEqual, "p2")
			})

			Convey("And the supporting evidence counts double", func() {
				// p1: 2x3 + 2x2 hypotheses + 4x0.85 gut + 0.5x4 focus
				So(insights[0].InsightScore, ShouldAlmostEqual, 15.4, 1e-9)
			})

			Convey("And undermining evidence subtracts its weight", func() {
				// p2: -1 hypothesis + 0.5x2 focus
				So(insights[1].InsightScore, ShouldAlmostEqual, 0.0, 1e-9)
			})

			Convey("And names resolve from the session roster", func() {
				So(insights[0].PlayerName, ShouldEqual, "J. Reyes")
				So(insights[1].PlayerName, ShouldEqual, "T. Okafor")
			})
		})

		Convey("When only focus time accrued", func() {
			sess := watchedSession()
			insights := scorer.Score(sess, reflection.Result{})

			Convey("Then watch-time credit alone produces entries", func() {
				So(insights, ShouldHaveLength, 2)
				So(insights[0].PlayerID, ShouldEqual, "p1")
				So(insights[0].InsightScore, ShouldAlmostEqual, 2.0, 1e-9)
				So(insights[1].PlayerID, ShouldEqual, "p2")
				So(insights[1].InsightScore, ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When the gut subject never appears in the session", func() {
			sess := &session.Session{StartedAtWeek: 14}
			refl := reflection.Result{
				GutFeeling: &reflection.GutFeelingCandidate{
					PlayerID:    "p9",
					PlayerName:  "A. Costa",
					Reliability: 0.5,
				},
			}

			insights := scorer.Score(sess, refl)

			Convey("Then the gut candidate's own name is used", func() {
				So(insights, ShouldHaveLength, 1)
				So(insights[0].PlayerID, ShouldEqual, "p9")
				So(insights[0].PlayerName, ShouldEqual, "A. Costa")
				So(insights[0].InsightScore, ShouldAlmostEqual, 2.0, 1e-9)
			})
		})

		Convey("When a hypothesis carries no evidence", func() {
			sess := &session.Session{
				Players: []session.SessionPlayer{
					{PlayerID: "p1", Name: "J. Reyes"},
				},
			}
			refl := reflection.Result{
				SuggestedHypotheses: []model.Hypothesis{
					{ID: "hyp-bare", PlayerID: "p1", Domain: model.DomainMental},
				},
			}

			insights := scorer.Score(sess, refl)

			Convey("Then it contributes nothing", func() {
				So(insights, ShouldBeEmpty)
			})
		})

		Convey("When a player reads badly across the board", func() {
			sess := &session.Session{
				Players: []session.SessionPlayer{
					{PlayerID: "p4", Name: "M. Novak", FocusedPhases: []int{2}},
				},
			}
			refl := reflection.Result{
				SuggestedHypotheses: []model.Hypothesis{
					hypothesis("p4", model.EvidenceAgainst, model.EvidenceStrong),
				},
			}

			insights := scorer.Score(sess, refl)

			Convey("Then the insight score can go negative", func() {
				So(insights, ShouldHaveLength, 1)
				So(insights[0].InsightScore, ShouldAlmostEqual, -2.5, 1e-9)
			})
		})

		Convey("When the session yielded nothing at all", func() {
			insights := scorer.Score(&session.Session{}, reflection.Result{})

			Convey("Then the result is empty", func() {
				So(insights, ShouldBeEmpty)
			})
		})
	})
}

func TestInsightScorer_Options(t *testing.T) {
	Convey("Given an insight scorer with custom weights", t, func() {
		scorer := scoring.NewInsightScorer(
			scoring.WithStrengthWeights(2, 4, 6),
			scoring.WithGutWeight(10),
			scoring.WithFocusWeight(1),
		)

		sess := &session.Session{
			Players: []session.SessionPlayer{
				{PlayerID: "p1", Name: "J. Reyes", FocusedPhases: []int{1, 2, 3}},
			},
		}
		refl := reflection.Result{
			SuggestedHypotheses: []model.Hypothesis{
				hypothesis("p1", model.EvidenceFor, model.EvidenceStrong),
			},
			GutFeeling: &reflection.GutFeelingCandidate{
				PlayerID:    "p1",
				PlayerName:  "J. Reyes",
				Reliability: 0.5,
			},
		}

		Convey("When scoring with the custom weighting", func() {
			insights := scorer.Score(sess, refl)

			Convey("Then the configured weights apply", func() {
				// 2x6 hypothesis + 10x0.5 gut + 1x3 focus
				So(insights, ShouldHaveLength, 1)
				So(insights[0].InsightScore, ShouldAlmostEqual, 20.0, 1e-9)
			})
		})
	})

	Convey("Given invalid option values", t, func() {
		scorer := scoring.NewInsightScorer(
			scoring.WithStrengthWeights(0, -1, 3),
			scoring.WithGutWeight(-2),
			scoring.WithFocusWeight(0),
		)

		sess := &session.Session{
			Players: []session.SessionPlayer{
				{PlayerID: "p1", Name: "J. Reyes", FocusedPhases: []int{1, 2}},
			},
		}
		refl := reflection.Result{
			SuggestedHypotheses: []model.Hypothesis{
				hypothesis("p1", model.EvidenceFor, model.EvidenceStrong),
			},
		}

		Convey("When scoring", func() {
			insights := scorer.Score(sess, refl)

			Convey("Then the defaults stay in effect", func() {
				// 2x3 hypothesis + 0.5x2 focus
				So(insights, ShouldHaveLength, 1)
				So(insights[0].InsightScore, ShouldAlmostEqual, 7.0, 1e-9)
			})
		})
	})
}
