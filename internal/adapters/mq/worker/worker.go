// Package worker drains the assignment queue: each worker simulates the
// scouting assignments it dequeues and reports improved insight scores
// to the prospect board.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/touchline/scoutsim/internal/adapters/repository"
	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/domain/sim"
	"github.com/touchline/scoutsim/pkg/logger"
	"github.com/touchline/scoutsim/pkg/metrics"
)

const (
	// metricsUpdateInterval is how often pool throughput gauges refresh.
	metricsUpdateInterval = 5 * time.Second
	// workerShutdownTimeout bounds the wait for a single worker to finish
	// its current assignment.
	workerShutdownTimeout = 5 * time.Second
	// poolShutdownTimeout bounds a full drain-and-stop of the pool.
	poolShutdownTimeout = 30 * time.Second
)

// Assignment is re-exported for interface brevity.
type Assignment = model.Assignment

// Simulator runs one assignment end to end and reports what the scout
// took away from it.
type Simulator interface {
	Simulate(ctx context.Context, a Assignment) (sim.Report, error)
}

// Updater records improved insight scores on the prospect board.
type Updater interface {
	UpdateBestWithMeta(ctx context.Context, playerID string, score float64, meta repository.Meta) (bool, error)
}

// Queue hands out assignments to drain.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Assignment
}

// Worker processes assignments from a queue.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker, letting the in-flight assignment finish.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker consumes assignments one at a time, simulating each and
// pushing the resulting insight scores onto the board.
type InMemoryWorker struct {
	queue     Queue
	simulator Simulator
	board     Updater
	name      string
	processed *atomic.Int64

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	logger   logger.Logger
}

// NewInMemoryWorker creates a worker with the given dependencies.
func NewInMemoryWorker(q Queue, simulator Simulator, board Updater, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		simulator: simulator,
		board:     board,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	// Re-derive the logger when an option renamed the worker.
	if w.name != "worker" {
		w.logger = logger.Get().Named(w.name)
	}

	return w
}

// Run processes assignments until the context is cancelled, a shutdown
// is requested, or the queue channel closes.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	w.logger.Debug(ctx, "worker started")
	assignments := w.queue.Dequeue(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug(ctx, "worker stopping: context cancelled")
			return
		case <-w.shutdown:
			w.logger.Debug(ctx, "worker stopping: shutdown requested")
			return
		case a, ok := <-assignments:
			if !ok {
				w.logger.Debug(ctx, "worker stopping: queue closed")
				return
			}
			if err := w.processAssignment(ctx, a); err != nil {
				w.logger.Error(ctx, "failed to process assignment",
					logger.String("assignment_id", a.AssignmentID),
					logger.Error(err))
			}
		}
	}
}

// requestStop signals the run loop. Safe to call more than once.
func (w *InMemoryWorker) requestStop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// Shutdown stops the worker and waits for the in-flight assignment to
// finish, up to the context deadline.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.requestStop()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker %s shutdown timed out: %w", w.name, ctx.Err())
	}
}

// processAssignment simulates one assignment and reports every insight
// score to the board, tagging the gut-feeling subject's entry with the
// hunch reliability.
func (w *InMemoryWorker) processAssignment(ctx context.Context, a Assignment) error { //nolint:gocritic // hugeParam: assignments are passed by value off the queue channel
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	simStart := time.Now()
	report, err := w.simulator.Simulate(ctx, a)
	simLatency := float64(time.Since(simStart).Milliseconds())
	metrics.RecordSimulationLatency(simLatency)

	if err != nil {
		metrics.RecordSimulationError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "simulation_error")
		metrics.RecordErrorByType("simulation_error", "high")
		metrics.RecordErrorLatency("worker", "simulation_error", simLatency)
		return fmt.Errorf("failed to simulate assignment %s: %w", a.AssignmentID, err)
	}

	hypothesisCounts := make(map[string]int, len(report.Reflection.SuggestedHypotheses))
	for _, h := range report.Reflection.SuggestedHypotheses {
		hypothesisCounts[h.PlayerID]++
	}

	var gutPlayerID string
	var gutReliability float64
	if gut := report.Reflection.GutFeeling; gut != nil {
		gutPlayerID = gut.PlayerID
		gutReliability = gut.Reliability
	}

	for _, insight := range report.Insights {
		meta := repository.Meta{
			PlayerName:      insight.PlayerName,
			AssignmentID:    a.AssignmentID,
			FixtureID:       a.Fixture.FixtureID,
			Week:            a.Fixture.Week,
			HypothesisCount: hypothesisCounts[insight.PlayerID],
		}
		if insight.PlayerID == gutPlayerID {
			meta.GutReliability = gutReliability
		}

		updated, err := w.board.UpdateBestWithMeta(ctx, insight.PlayerID, insight.InsightScore, meta)
		if err != nil {
			metrics.RecordBoardError()
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "board_error")
			metrics.RecordErrorByType("board_error", "high")
			return fmt.Errorf("board update failed for player %s: %w", insight.PlayerID, err)
		}
		if updated {
			metrics.RecordBoardUpdate()
		}
	}

	metrics.RecordAssignmentProcessed()
	if w.processed != nil {
		w.processed.Add(1)
	}

	return nil
}

// Pool manages a fleet of workers sharing one queue.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	simulator Simulator
	board     Updater

	processed atomic.Int64
	stop      chan struct{}
	stopOnce  sync.Once
	logger    logger.Logger
}

// NewPool creates workerCount workers over the shared queue. A count
// below one defaults to one worker per core, since simulation is CPU
// bound.
func NewPool(workerCount int, q Queue, simulator Simulator, board Updater) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		queue:     q,
		simulator: simulator,
		board:     board,
		stop:      make(chan struct{}),
		logger:    logger.Get().Named("worker-pool"),
	}

	p.workers = make([]*InMemoryWorker, 0, workerCount)
	for i := 0; i < workerCount; i++ {
		w := NewInMemoryWorker(q, simulator, board,
			WithName(fmt.Sprintf("worker-%d", i)),
			WithProcessedCounter(&p.processed),
		)
		p.workers = append(p.workers, w)
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerIdleCount(workerCount)
	metrics.UpdateWorkerAssignmentsPerSecond(0)

	return p
}

// Start launches every worker and the throughput reporter.
func (p *Pool) Start(ctx context.Context) {
	p.logger.Info(ctx, "starting worker pool", logger.Int("workers", len(p.workers)))

	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.runMetricsUpdater(ctx)

	metrics.UpdateWorkerActiveCount(len(p.workers))
	metrics.UpdateWorkerIdleCount(0)
}

// runMetricsUpdater publishes the pool's assignment throughput until the
// pool stops or the context ends.
func (p *Pool) runMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case now := <-ticker.C:
			drained := p.processed.Swap(0)
			if elapsed := now.Sub(last).Seconds(); elapsed > 0 {
				metrics.UpdateWorkerAssignmentsPerSecond(float64(drained) / elapsed)
			}
			last = now
		}
	}
}

// Stop halts every worker after its current assignment without draining
// the queue. Bounded by the per-worker shutdown timeout.
func (p *Pool) Stop() {
	ctx := context.Background()
	p.stopOnce.Do(func() { close(p.stop) })

	for _, w := range p.workers {
		w.requestStop()
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
			p.logger.Warn(ctx, "worker stop timed out", logger.String("name", w.name))
		}
	}

	p.recordStopped()
	p.logger.Info(ctx, "worker pool stopped")
}

// Shutdown closes the queue so workers drain the remaining assignments,
// then waits for every worker within the pool timeout. Workers that miss
// the deadline are stopped where they stand.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.logger.Info(ctx, "shutting down worker pool")

	drained := false
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Warn(ctx, "failed to close queue", logger.Error(err))
		} else {
			drained = true
		}
	}
	if !drained {
		// Nothing will close the dequeue channel; stop workers directly.
		for _, w := range p.workers {
			w.requestStop()
		}
	}

	p.stopOnce.Do(func() { close(p.stop) })

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var firstErr error
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			w.requestStop()
			p.logger.Warn(ctx, "worker shutdown timed out", logger.String("name", w.name))
			if firstErr == nil {
				firstErr = fmt.Errorf("worker %s shutdown timed out: %w", w.name, shutdownCtx.Err())
			}
		}
	}

	p.recordStopped()
	if firstErr != nil {
		return firstErr
	}

	p.logger.Info(ctx, "worker pool shut down")
	return nil
}

func (p *Pool) recordStopped() {
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerIdleCount(len(p.workers))
	metrics.UpdateWorkerAssignmentsPerSecond(0)
}
