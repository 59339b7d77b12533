package testfixtures

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/touchline/scoutsim/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging routes run output to stdout and, when configured, a log file.
func SetupLogging(config *Config) (*os.File, error) {
	if config.LogFile == "" {
		if err := logger.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil, nil
	}

	file, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", config.LogFile, err)
	}

	// Structured and plain progress lines share the same tee.
	sink := io.MultiWriter(os.Stdout, file)
	if err := logger.Init(logger.WithWriter(sink)); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.SetOutput(sink)
	return file, nil
}

// ShowHelp displays usage information for the batch check tool.
func ShowHelp() {
	fmt.Println(`Scoutsim Batch Check Tool
=========================

Fabricates a league, submits scouting assignments in-process, and
verifies the prospect board against replayed sessions.

Usage:
  go run cmd/sim-check/main.go [options]

Options:
  -fixtures int
        Number of fixtures to fabricate and scout (default 64)
  -clubs int
        Number of clubs in the fabricated league (default 8)
  -top int
        Number of top board entries to fetch (default 50)
  -workers int
        Number of concurrent submitters (default: CPU cores * 2)
  -seed int
        Master seed for per-assignment streams (default: random)
  -mode string
        Observation mode for generated assignments (default "fullObservation")
  -weather string
        Force every fixture's weather, e.g. "rain" (default: per-fixture rolls)
  -drain duration
        Maximum time to wait for the queue to drain (default 2m)
  -output string
        Output file for generated assignments (default: assignments_TIMESTAMP.json)
  -log string
        Log file for run output (default: scout_check_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Check with default settings
  go run cmd/sim-check/main.go

  # Re-run a reported seed with forced rain
  go run cmd/sim-check/main.go -seed 8674665223082153551 -weather rain

  # Larger league with more submitters
  go run cmd/sim-check/main.go -fixtures 512 -clubs 12 -workers 16`)
}
