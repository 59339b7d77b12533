package types_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	types "github.com/touchline/scoutsim/internal/domain/types"
)

func TestEntry(t *testing.T) {
	Convey("Given an Entry struct", t, func() {
		Convey("When creating a new entry", func() {
			entry := types.Entry{
				Rank:         1,
				PlayerID:     "player-123",
				PlayerName:   "J. Reyes",
				InsightScore: 14.5,
			}

			Convey("Then it should have the correct values", func() {
				So(entry.Rank, ShouldEqual, 1)
				So(entry.PlayerID, ShouldEqual, "player-123")
				So(entry.PlayerName, ShouldEqual, "J. Reyes")
				So(entry.InsightScore, ShouldEqual, 14.5)
				So(entry.Provenance, ShouldBeNil)
			})
		})

		Convey("When creating an entry with zero values", func() {
			entry := types.Entry{}

			Convey("Then it should have default values", func() {
				So(entry.Rank, ShouldEqual, 0)
				So(entry.PlayerID, ShouldEqual, "")
				So(entry.InsightScore, ShouldEqual, 0.0)
			})
		})

		Convey("When attaching provenance", func() {
			entry := types.Entry{
				Rank:         2,
				PlayerID:     "player-9",
				InsightScore: 11.0,
				Provenance: &types.Provenance{
					AssignmentID:    "asg-77",
					FixtureID:       "fx-12",
					Week:            9,
					HypothesisCount: 3,
					GutReliability:  0.85,
				},
			}

			Convey("Then the provenance should travel with the entry", func() {
				So(entry.Provenance, ShouldNotBeNil)
				So(entry.Provenance.AssignmentID, ShouldEqual, "asg-77")
				So(entry.Provenance.FixtureID, ShouldEqual, "fx-12")
				So(entry.Provenance.Week, ShouldEqual, 9)
				So(entry.Provenance.HypothesisCount, ShouldEqual, 3)
				So(entry.Provenance.GutReliability, ShouldEqual, 0.85)
			})
		})
	})
}

func TestEntryOrdering(t *testing.T) {
	Convey("Given a ranked slice of entries", t, func() {
		entries := []types.Entry{
			{Rank: 1, PlayerID: "player-1", InsightScore: 18.0},
			{Rank: 2, PlayerID: "player-2", InsightScore: 15.5},
			{Rank: 3, PlayerID: "player-3", InsightScore: 15.5},
			{Rank: 4, PlayerID: "player-4", InsightScore: 9.0},
		}

		Convey("Then ranks should ascend while scores never rise", func() {
			for i := 0; i < len(entries)-1; i++ {
				So(entries[i].Rank, ShouldBeLessThan, entries[i+1].Rank)
				So(entries[i].InsightScore, ShouldBeGreaterThanOrEqualTo, entries[i+1].InsightScore)
			}
		})

		Convey("And equal scores should still hold distinct ranks", func() {
			So(entries[1].InsightScore, ShouldEqual, entries[2].InsightScore)
			So(entries[1].Rank, ShouldNotEqual, entries[2].Rank)
		})
	})
}
