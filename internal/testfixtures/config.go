package testfixtures

import "time"

// Config holds configuration for a verification run.
type Config struct {
	NumFixtures int           // Number of fixtures to fabricate and scout
	ClubCount   int           // Number of clubs in the fabricated league
	TopN        int           // Number of board entries to fetch
	Workers     int           // Number of concurrent submitters
	MasterSeed  int64         // Master seed for per-assignment streams; 0 draws one
	Mode        string        // Observation mode for generated assignments
	Weather     string        // Forced fixture weather, empty for per-fixture rolls
	DrainWait   time.Duration // Maximum time to wait for the queue to drain
	OutputFile  string        // Output file for generated assignments
	LogFile     string        // Log file for run output
	Verbose     bool          // Enable verbose logging
}

// Stats holds verification run statistics.
type Stats struct {
	FixturesGenerated    int
	AssignmentsSubmitted int
	AssignmentsAccepted  int
	AssignmentsDuplicate int
	AssignmentsRejected  int
	RanksRetrieved       int
	BoardEntries         int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
