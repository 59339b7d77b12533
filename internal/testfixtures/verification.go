package testfixtures

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/domain/sim"
	"github.com/touchline/scoutsim/internal/domain/types"
)

const scoreTolerance = 1e-9

// verifyResults cross-checks the board against the retrieved ranks and
// replays one assignment to prove the pipeline is deterministic.
func verifyResults(ctx context.Context, config *Config, assignments []model.Assignment, rankings, board []types.Entry) error {
	log.Println("🔍 Verifying results...")

	if len(rankings) == 0 {
		return fmt.Errorf("no rankings to verify")
	}

	sorted := make([]types.Entry, len(rankings))
	copy(sorted, rankings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].InsightScore > sorted[j].InsightScore
	})

	if err := verifyBoardConsistency(sorted, board); err != nil {
		return fmt.Errorf("board consistency: %w", err)
	}
	log.Println("✅ Board consistency verified")

	if len(assignments) > 0 {
		if err := verifyReplayDeterminism(ctx, assignments[0]); err != nil {
			return fmt.Errorf("replay determinism: %w", err)
		}
		log.Println("✅ Replay determinism verified")
	}

	displayTopProspects(sorted, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyBoardConsistency checks the board is in descending score order
// with dense ranks (tied scores share a rank, each distinct score steps
// the rank by one), and that no watched player outscores its leader.
// The board covers every scouted player, so a watchlist entry above the
// board top means the two reads disagree.
func verifyBoardConsistency(sortedRankings, board []types.Entry) error {
	if len(board) == 0 {
		return fmt.Errorf("empty board")
	}
	if board[0].Rank != 1 {
		return fmt.Errorf("board leader reports rank %d", board[0].Rank)
	}

	for i := 1; i < len(board); i++ {
		prev, entry := board[i-1], board[i]
		if entry.InsightScore > prev.InsightScore+scoreTolerance {
			return fmt.Errorf("entry %d (%.3f) outscores entry %d (%.3f)",
				i+1, entry.InsightScore, i, prev.InsightScore)
		}

		want := prev.Rank
		if entry.InsightScore != prev.InsightScore {
			want++
		}
		if entry.Rank != want {
			return fmt.Errorf("entry %d reports rank %d, want %d", i+1, entry.Rank, want)
		}
	}

	if top := sortedRankings[0]; top.InsightScore > board[0].InsightScore+scoreTolerance {
		return fmt.Errorf("watched player %s (%.3f) outscores the board leader (%.3f)",
			top.PlayerID, top.InsightScore, board[0].InsightScore)
	}
	return nil
}

// verifyReplayDeterminism simulates the same assignment twice and
// requires identical insights, then checks the replayed session's
// phases tile the match clock.
func verifyReplayDeterminism(ctx context.Context, a model.Assignment) error {
	simulator := sim.NewMatchdaySimulator()

	first, err := simulator.Simulate(ctx, a)
	if err != nil {
		return fmt.Errorf("first replay: %w", err)
	}
	second, err := simulator.Simulate(ctx, a)
	if err != nil {
		return fmt.Errorf("second replay: %w", err)
	}

	if len(first.Insights) != len(second.Insights) {
		return fmt.Errorf("replays yielded %d and %d insights", len(first.Insights), len(second.Insights))
	}
	for i := range first.Insights {
		if first.Insights[i].PlayerID != second.Insights[i].PlayerID ||
			math.Abs(first.Insights[i].InsightScore-second.Insights[i].InsightScore) > scoreTolerance {
			return fmt.Errorf("replays diverged at insight %d (%s)", i, first.Insights[i].PlayerID)
		}
	}

	return verifyPhaseClock(first)
}

// verifyPhaseClock checks the session's phases cover minutes 1 through
// 90 with no gaps or overlaps.
func verifyPhaseClock(report sim.Report) error {
	phases := report.Session.Phases
	if len(phases) == 0 {
		return fmt.Errorf("replay produced no phases")
	}
	if phases[0].Minute != matchStartMinute {
		return fmt.Errorf("first phase starts at minute %d", phases[0].Minute)
	}
	for i := 1; i < len(phases); i++ {
		if phases[i].Minute != phases[i-1].EndMinute+1 {
			return fmt.Errorf("phase %d starts at minute %d after an end at %d",
				i, phases[i].Minute, phases[i-1].EndMinute)
		}
	}
	if last := phases[len(phases)-1].EndMinute; last != matchEndMinute {
		return fmt.Errorf("last phase ends at minute %d", last)
	}
	return nil
}

const topProspectsToShow = 10

// displayTopProspects prints the highest-scoring watched players.
func displayTopProspects(sortedRankings []types.Entry, verbose bool) {
	count := topProspectsToShow
	if count > len(sortedRankings) {
		count = len(sortedRankings)
	}

	log.Printf("🏆 Top %d watched prospects:", count)
	for i, entry := range sortedRankings[:count] {
		line := fmt.Sprintf("   %2d. %s (%s) score %.3f board rank %d",
			i+1, entry.PlayerName, entry.PlayerID, entry.InsightScore, entry.Rank)
		if verbose && entry.Provenance != nil {
			line += fmt.Sprintf(" [week %d, %d hypotheses]",
				entry.Provenance.Week, entry.Provenance.HypothesisCount)
		}
		log.Println(line)
	}

	if len(sortedRankings) > 0 {
		log.Printf("📊 Average watched score: %.3f", calculateAverageScore(sortedRankings))
	}
}

func calculateAverageScore(rankings []types.Entry) float64 {
	var total float64
	for _, entry := range rankings {
		total += entry.InsightScore
	}
	return total / float64(len(rankings))
}
