// Package queue defines the contract for enqueuing and consuming scouting
// assignments.
//
// Implementations may use channels or more advanced structures. The
// in-memory bounded queue is the only one the batch service needs.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 10000
	defaultBufferSize    = 10000
)

// Assignment is the payload type flowing through the queue.
// Using the model.Assignment type for type safety.
type Assignment = model.Assignment

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an assignment to the queue.
	// Returns false if the queue is full and the assignment was not enqueued.
	Enqueue(ctx context.Context, a Assignment) bool

	// Dequeue returns a channel that will receive assignments as they become available.
	// The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Assignment

	// Len returns the current number of queued assignments.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new assignments can be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	assignments chan Assignment
	capacity    int
	bufferSize  int
	mu          sync.RWMutex
	closed      bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(q)
	}

	// Initialize the assignments channel with the configured buffer size
	q.assignments = make(chan Assignment, q.bufferSize)

	// Initialize metrics
	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds an assignment to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, a Assignment) bool { //nolint:gocritic // hugeParam: Assignment must be passed by value for channel semantics
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordQueueProcessingLatency(float64(latency))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	// Check if we're at capacity
	if len(q.assignments) >= q.capacity {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	select {
	case q.assignments <- a:
		metrics.RecordQueueEnqueue()
		// Update queue size and utilization
		currentSize := len(q.assignments)
		metrics.UpdateQueueSize(currentSize)
		utilization := float64(currentSize) / float64(q.capacity)
		metrics.UpdateQueueUtilization(utilization)
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false // context cancelled
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false // queue is full
	}
}

// Dequeue returns a channel that will receive assignments as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Assignment {
	// Wrap the channel to track dequeue metrics
	dequeueChan := make(chan Assignment)
	go func() {
		defer close(dequeueChan)
		for assignment := range q.assignments {
			select {
			case dequeueChan <- assignment:
				metrics.RecordQueueDequeue()
				// Update queue size and utilization after dequeue
				currentSize := len(q.assignments)
				metrics.UpdateQueueSize(currentSize)
				utilization := float64(currentSize) / float64(q.capacity)
				metrics.UpdateQueueUtilization(utilization)
			case <-ctx.Done():
				return
			}
		}
	}()
	return dequeueChan
}

// Len returns the current number of queued assignments.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.assignments)
	metrics.UpdateQueueSize(size)
	utilization := float64(size) / float64(q.capacity)
	metrics.UpdateQueueUtilization(utilization)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	// Close the assignments channel to signal consumers to stop
	close(q.assignments)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
