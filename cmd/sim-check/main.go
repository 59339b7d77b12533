package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	app "github.com/touchline/scoutsim/internal/app"
	"github.com/touchline/scoutsim/internal/config"
	"github.com/touchline/scoutsim/internal/testfixtures"
)

// Default configuration constants.
const (
	defaultClubCount        = 8
	defaultTopN             = 50
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	defaultRunTimeout       = 10 * time.Minute
	timestampLayout         = "20060102_150405"
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Daemon config supplies the run defaults; flags override per run.
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var (
		numFixtures = flag.Int("fixtures", cfg.FixtureCount, "Number of fixtures to fabricate and scout")
		clubCount   = flag.Int("clubs", defaultClubCount, "Number of clubs in the fabricated league")
		topN        = flag.Int("top", defaultTopN, "Number of top board entries to fetch")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkerMultiplier, "Number of concurrent submitters")
		masterSeed  = flag.Int64("seed", cfg.MasterSeed, "Master seed for per-assignment streams (0 draws one)")
		mode        = flag.String("mode", cfg.Mode, "Observation mode for generated assignments")
		weather     = flag.String("weather", cfg.Weather, "Force every fixture's weather, e.g. rain")
		drainWait   = flag.Duration("drain", testfixtures.DefaultDrainWait, "Maximum time to wait for the queue to drain")
		outputFile  = flag.String("output", "", "Output file for generated assignments (default: assignments_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for run output (default: scout_check_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testfixtures.ShowHelp()
		return nil
	}

	timestamp := time.Now().Format(timestampLayout)
	if *outputFile == "" {
		*outputFile = fmt.Sprintf("assignments_%s.json", timestamp)
	}
	if *logFile == "" {
		*logFile = fmt.Sprintf("scout_check_%s.log", timestamp)
	}

	runConfig := &testfixtures.Config{
		NumFixtures: *numFixtures,
		ClubCount:   *clubCount,
		TopN:        *topN,
		Workers:     *workers,
		MasterSeed:  *masterSeed,
		Mode:        *mode,
		Weather:     *weather,
		DrainWait:   *drainWait,
		OutputFile:  *outputFile,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	logHandle, err := testfixtures.SetupLogging(runConfig)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	if logHandle != nil {
		defer logHandle.Close()
	}

	// The run drives a service in this process, not over the wire.
	svc := app.New(
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithSnapshotInterval(time.Duration(cfg.SnapshotIntervalMS)*time.Millisecond),
		app.WithTopCacheSize(cfg.TopCacheSize),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	return testfixtures.Run(ctx, svc, runConfig)
}
