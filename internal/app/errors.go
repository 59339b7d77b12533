package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrAlreadyStarted reports a second Start on a running service.
	ErrAlreadyStarted = errors.New("service already started")

	// ErrNotStarted reports an operation that needs a running service.
	ErrNotStarted = errors.New("service not started")

	// ErrDuplicateAssignment reports an assignment ID submitted before.
	ErrDuplicateAssignment = errors.New("assignment already submitted")

	// ErrQueueFull reports backpressure: the assignment queue rejected the
	// submission and the ID was released for retry.
	ErrQueueFull = errors.New("assignment queue full")
)
