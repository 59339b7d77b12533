// Package service wires the scouting pipeline together behind one
// facade: assignment intake with dedupe, the queue and worker pool, the
// prospect board, and the read surface the HTTP API serves.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	assignmentqueue "github.com/touchline/scoutsim/internal/adapters/mq/queue"
	"github.com/touchline/scoutsim/internal/adapters/mq/worker"
	repository "github.com/touchline/scoutsim/internal/adapters/repository"
	"github.com/touchline/scoutsim/internal/domain/dedupe"
	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/domain/sim"
	"github.com/touchline/scoutsim/internal/domain/types"
	"github.com/touchline/scoutsim/pkg/logger"
	"github.com/touchline/scoutsim/pkg/metrics"
)

// Service implements the API dependencies for the scouting system.
type Service struct {
	mu sync.RWMutex

	// Core components
	board     repository.Store
	deduper   dedupe.Deduper
	queue     assignmentqueue.Queue
	simulator worker.Simulator
	pool      *worker.Pool

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	snapshotInterval time.Duration
	topCacheSize     int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the assignment queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithSnapshotInterval sets how often the board rebuilds its read
// snapshot.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.snapshotInterval = interval
		}
	}
}

// WithTopCacheSize sets how many top entries the board snapshot caches.
func WithTopCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.topCacheSize = size
		}
	}
}

// WithSimulator replaces the default matchday simulator.
func WithSimulator(simulator worker.Simulator) Option {
	return func(s *Service) {
		if simulator != nil {
			s.simulator = simulator
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   10000,
		dedupeSize:  50000,
		logger:      nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scouting service...")

	boardOpts := make([]repository.Option, 0, 2)
	if s.snapshotInterval > 0 {
		boardOpts = append(boardOpts, repository.WithSnapshotInterval(s.snapshotInterval))
	}
	if s.topCacheSize > 0 {
		boardOpts = append(boardOpts, repository.WithTopCacheSize(s.topCacheSize))
	}
	s.board = repository.NewTreapStore(ctx, boardOpts...)
	s.logger.Info(ctx, "using treap prospect board")

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = assignmentqueue.NewInMemoryQueue(
		assignmentqueue.WithCapacity(s.queueSize),
		assignmentqueue.WithBufferSize(s.queueSize),
	)
	if s.simulator == nil {
		s.simulator = sim.NewMatchdaySimulator()
	}

	s.pool = worker.NewPool(s.workerCount, s.queue, s.simulator, s.board)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "scouting service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service, draining queued assignments
// within the pool's shutdown budget.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping scouting service...")

	// Pool shutdown closes the queue and drains the workers.
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
		}
	}

	if s.board != nil {
		if closer, ok := s.board.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	s.started = false
	s.logger.Info(ctx, "scouting service stopped")
}

// SubmitAssignment records the assignment ID and enqueues the assignment
// for asynchronous simulation. A rejected submission releases the ID so
// the caller can retry.
func (s *Service) SubmitAssignment(ctx context.Context, a model.Assignment) error { //nolint:gocritic // hugeParam: assignments flow by value into the queue
	s.mu.RLock()
	started := s.started
	deduper := s.deduper
	queue := s.queue
	s.mu.RUnlock()

	if !started {
		return fmt.Errorf("submit assignment: %w", ErrNotStarted)
	}

	// A missing ID still dedupes: derive one from the assignment content.
	if a.AssignmentID == "" {
		a.AssignmentID = fmt.Sprintf("%s_%s_%d", a.Fixture.FixtureID, a.Scout.Name, a.Seed)
	}

	if deduper.SeenAndRecord(ctx, a.AssignmentID) {
		metrics.RecordAssignmentDuplicate()
		s.logger.Debug(ctx, "duplicate assignment skipped",
			logger.String("assignment_id", a.AssignmentID),
		)
		return fmt.Errorf("assignment %s: %w", a.AssignmentID, ErrDuplicateAssignment)
	}

	if !queue.Enqueue(ctx, a) {
		deduper.Unrecord(ctx, a.AssignmentID)
		if queue.IsClosed() {
			return fmt.Errorf("assignment %s: %w", a.AssignmentID, assignmentqueue.ErrClosed)
		}
		return fmt.Errorf("assignment %s: %w", a.AssignmentID, ErrQueueFull)
	}

	metrics.UpdateQueueSize(queue.Len(ctx))
	return nil
}

// TopProspects returns the top N board entries. Reads keep working
// after Stop so a finished batch can still be inspected.
func (s *Service) TopProspects(ctx context.Context, n int) ([]types.Entry, error) {
	board := s.boardRef()
	if board == nil {
		return nil, fmt.Errorf("top prospects: %w", ErrNotStarted)
	}

	entries, err := board.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	apiEntries := make([]types.Entry, len(entries))
	for i := range entries {
		apiEntries[i] = apiEntry(entries[i])
	}

	return apiEntries, nil
}

// ProspectRank returns the rank and score for a given player id.
func (s *Service) ProspectRank(ctx context.Context, playerID string) (types.Entry, error) {
	board := s.boardRef()
	if board == nil {
		return types.Entry{}, fmt.Errorf("prospect rank: %w", ErrNotStarted)
	}

	entry, err := board.Rank(ctx, playerID)
	if err != nil {
		return types.Entry{}, err
	}

	return apiEntry(entry), nil
}

func (s *Service) boardRef() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		totalProspects := s.board.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalProspects"] = totalProspects
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalProspects(totalProspects)
	}

	return stats
}

// apiEntry converts a board entry into the API shape, folding the
// producing assignment's details into a provenance record.
func apiEntry(entry repository.Entry) types.Entry {
	e := types.Entry{
		Rank:         entry.Rank,
		PlayerID:     entry.PlayerID,
		PlayerName:   entry.PlayerName,
		InsightScore: entry.InsightScore,
	}
	if entry.AssignmentID != "" {
		e.Provenance = &types.Provenance{
			AssignmentID:    entry.AssignmentID,
			FixtureID:       entry.FixtureID,
			Week:            entry.Week,
			HypothesisCount: entry.HypothesisCount,
			GutReliability:  entry.GutReliability,
		}
	}
	return e
}
