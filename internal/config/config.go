// Package config defines the batch daemon's configuration and loading.
//
// Defaults live in New; Load layers an optional YAML file and SCOUTSIM_
// environment overrides on top and validates the result. External errors
// are wrapped with this package's sentinels.
package config

import (
	"runtime"
)

// Config contains process configuration for the scouting batch daemon.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the ops HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory assignment queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scouting workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the assignment deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// SnapshotIntervalMS sets how often the prospect board rebuilds its
	// read snapshot.
	SnapshotIntervalMS int `koanf:"snapshot_interval_ms"`

	// TopCacheSize sets how many leading prospects the board snapshot
	// keeps pre-sorted.
	TopCacheSize int `koanf:"top_cache_size"`

	// MaxBoardLimit caps GET /board?limit.
	MaxBoardLimit int `koanf:"max_board_limit"`

	// Mode is the observation mode given to generated assignments.
	Mode string `koanf:"mode"`

	// FixtureCount sets how many fixtures the harness fabricates per run.
	FixtureCount int `koanf:"fixture_count"`

	// MasterSeed seeds per-assignment stream derivation. Zero means draw
	// a fresh seed at startup.
	MasterSeed int64 `koanf:"master_seed"`

	// Weather forces every fixture's weather when non-empty, e.g. "rain".
	Weather string `koanf:"weather"`
}

// New returns a Config populated with defaults. Load layers file and
// environment overrides on top of these.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		QueueSize:          10_000,
		WorkerCount:        runtime.NumCPU(),
		DedupeSize:         50_000,
		SnapshotIntervalMS: 1000,
		TopCacheSize:       500,
		MaxBoardLimit:      100,
		Mode:               "fullObservation",
		FixtureCount:       64,
	}
}
