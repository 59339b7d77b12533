package testfixtures

import "time"

// Worker pool constants.
const (
	WorkerChannelMultiplier = 2
)

// Queue drain pacing.
const (
	DrainPollInterval = 200 * time.Millisecond
	DrainSettleDelay  = 1 * time.Second
	DefaultDrainWait  = 2 * time.Minute
)

// Match clock bounds a replayed session must tile.
const (
	matchStartMinute = 1
	matchEndMinute   = 90
)

// Statistics constants.
const (
	PercentageMultiplier = 100
)
