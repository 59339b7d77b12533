// Package testfixtures drives an end-to-end check of the scouting
// pipeline: it fabricates a league, submits one assignment per fixture
// through the in-process service, and verifies the prospect board that
// comes out the other side.
package testfixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/domain/types"
	"github.com/touchline/scoutsim/internal/random"
	"github.com/touchline/scoutsim/pkg/logger"
)

// Service is the in-process surface the run drives.
type Service interface {
	SubmitAssignment(ctx context.Context, a model.Assignment) error //nolint:gocritic // hugeParam: assignments cross the boundary by value
	TopProspects(ctx context.Context, n int) ([]types.Entry, error)
	ProspectRank(ctx context.Context, playerID string) (types.Entry, error)
	GetStats() map[string]interface{}
}

// Run executes the complete verification pass against svc.
func Run(ctx context.Context, svc Service, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	masterSeed := config.MasterSeed
	if masterSeed == 0 {
		seed, err := random.NewSeed()
		if err != nil {
			return fmt.Errorf("failed to draw master seed: %w", err)
		}
		masterSeed = seed
	}

	logger.Get().Info(ctx, "starting scouting verification run",
		logger.Int("fixtures", config.NumFixtures),
		logger.Int("clubs", config.ClubCount),
		logger.Int("workers", config.Workers),
		logger.Int("topN", config.TopN),
		logger.String("mode", config.Mode),
		logger.Int64("masterSeed", masterSeed),
		logger.String("logFile", config.LogFile),
		logger.Bool("verbose", config.Verbose))
	// The seed in plain text too, for replaying a failed run by hand.
	log.Printf("🎲 Master seed: %d", masterSeed)

	// Step 1: Check the service is up
	if err := checkServiceReady(svc); err != nil {
		return fmt.Errorf("service not ready: %w", err)
	}

	// Step 2: Fabricate the league and its assignments
	rng := random.New(masterSeed)
	league := FabricateLeague(rng, config.ClubCount, config.NumFixtures, weatherOverride(ctx, config.Weather))
	assignments := BuildAssignments(rng, league, masterSeed, config.Mode)
	stats.FixturesGenerated = len(league.Fixtures)

	// Step 3: Submit assignments concurrently
	submitAssignments(ctx, svc, config, assignments, stats)

	// Step 4: Wait for the queue to drain
	if err := waitForDrain(ctx, svc, config); err != nil {
		return err
	}

	// Step 5: Read back ranks for every watched player
	watched := collectWatchedPlayers(assignments)
	rankings := retrieveRanks(ctx, svc, config, watched, stats)

	// Step 6: Fetch the board
	board, err := getBoard(ctx, svc, config, stats)
	if err != nil {
		return err
	}

	// Step 7: Verify
	if err := verifyResults(ctx, config, assignments, rankings, board); err != nil {
		return err
	}

	// Step 8: Persist the generated assignments for replay
	if config.OutputFile != "" {
		if err := saveAssignmentsToFile(assignments, config.OutputFile); err != nil {
			logger.Get().Warn(ctx, "failed to save assignments",
				logger.String("file", config.OutputFile),
				logger.String("error", err.Error()))
		} else {
			log.Printf("💾 Assignments saved to %s", config.OutputFile)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	return nil
}

func checkServiceReady(svc Service) error {
	started, ok := svc.GetStats()["started"].(bool)
	if !ok || !started {
		return fmt.Errorf("service has not been started")
	}
	return nil
}

// waitForDrain polls the service until the assignment queue is empty,
// then leaves a settle delay for in-flight sessions to land on the
// board.
func waitForDrain(ctx context.Context, svc Service, config *Config) error {
	drainWait := config.DrainWait
	if drainWait <= 0 {
		drainWait = DefaultDrainWait
	}

	log.Printf("⏳ Waiting up to %s for the queue to drain...", drainWait)

	deadline := time.Now().Add(drainWait)
	for {
		if length, ok := svc.GetStats()["queueLength"].(int); ok && length == 0 {
			time.Sleep(DrainSettleDelay)
			log.Println("✅ Queue drained")
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("queue did not drain within %s", drainWait)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for drain: %w", ctx.Err())
		case <-time.After(DrainPollInterval):
		}
	}
}

// assignmentRecord is the trimmed JSON shape written to the output
// file: enough to replay a run without dumping full squads.
type assignmentRecord struct {
	AssignmentID string   `json:"assignment_id"`
	FixtureID    string   `json:"fixture_id"`
	Week         int      `json:"week"`
	Scout        string   `json:"scout"`
	Mode         string   `json:"mode"`
	Seed         int64    `json:"seed"`
	Watchlist    []string `json:"watchlist"`
}

func saveAssignmentsToFile(assignments []model.Assignment, filename string) error {
	records := make([]assignmentRecord, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		records = append(records, assignmentRecord{
			AssignmentID: a.AssignmentID,
			FixtureID:    a.Fixture.FixtureID,
			Week:         a.Fixture.Week,
			Scout:        a.Scout.Name,
			Mode:         a.Mode,
			Seed:         a.Seed,
			Watchlist:    a.Scout.Watchlist,
		})
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode assignments: %w", err)
	}
	return nil
}

func weatherOverride(ctx context.Context, name string) model.Weather {
	if name == "" {
		return ""
	}
	for _, w := range model.AllWeather {
		if string(w) == name {
			return w
		}
	}
	logger.Get().Warn(ctx, "unknown weather override, using per-fixture rolls",
		logger.String("weather", name))
	return ""
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, assignmentsPerSecond float64
	if stats.AssignmentsSubmitted > 0 {
		successRate = float64(stats.AssignmentsAccepted) / float64(stats.AssignmentsSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		assignmentsPerSecond = float64(stats.AssignmentsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "verification run completed",
		logger.Int("fixturesGenerated", stats.FixturesGenerated),
		logger.Int("assignmentsSubmitted", stats.AssignmentsSubmitted),
		logger.Int("assignmentsAccepted", stats.AssignmentsAccepted),
		logger.Int("assignmentsDuplicate", stats.AssignmentsDuplicate),
		logger.Int("assignmentsRejected", stats.AssignmentsRejected),
		logger.Int("ranksRetrieved", stats.RanksRetrieved),
		logger.Int("boardEntries", stats.BoardEntries),
		logger.Float64("successRate", successRate),
		logger.Float64("assignmentsPerSecond", assignmentsPerSecond),
		logger.Duration("duration", stats.Duration))
}
