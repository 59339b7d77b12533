// Package repository defines the prospect board store interface and errors.
package repository

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/touchline/scoutsim/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: insight score DESC, then playerID ASC (deterministic).
// We implement a BST comparator where "less" means ranks earlier
// (i.e., higher score ranks earlier). This makes in-order traversal
// produce the board from best to worst.

// scoreScale controls fixed-point scaling from float64.
const scoreScale = 1_000_000_000_000 // 12 decimal places for better precision

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	if math.IsInf(x, 1) {
		return scoreFP(math.MaxInt64)
	}
	if math.IsInf(x, -1) {
		return scoreFP(math.MinInt64)
	}

	// Insight scores stay small in practice, but the store shouldn't care:
	// very large magnitudes get a coarser scale to avoid overflow.
	if math.Abs(x) > 1e15 {
		scaled := x * (scoreScale / 1000000)
		if scaled > float64(math.MaxInt64) {
			return scoreFP(math.MaxInt64)
		}
		if scaled < float64(math.MinInt64) {
			return scoreFP(math.MinInt64)
		}
		return scoreFP(math.Round(scaled))
	}

	scaled := x * scoreScale
	if scaled > float64(math.MaxInt64) {
		return scoreFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return scoreFP(math.MinInt64)
	}
	return scoreFP(math.Round(scaled))
}

func toFloat(x scoreFP) float64 {
	if math.Abs(float64(x)) > 1e18 {
		return float64(x) / (scoreScale / 1000000)
	}
	return float64(x) / scoreScale
}

// record stores the fixed-point score plus provenance for a player's best.
type record struct {
	score scoreFP
	meta  Meta
}

// Snapshot represents an immutable snapshot of the board state.
type Snapshot struct {
	// Rank and score in O(1) for reads
	RankByPlayer  map[string]int
	ScoreByPlayer map[string]float64

	// Fast Top-K cache up to M items
	TopCache []Entry // sorted descending (M is much smaller than N_total)
}

// treap node
type node struct {
	id    string
	score scoreFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aID) should appear before (bScore, bID)
// on the board (higher ranks first).
func less(aScore scoreFP, aID string, bScore scoreFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore // higher score ranks earlier
	}
	return aID < bID // tie-breaker by id asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// scoreToPriority converts a score to a priority value.
// Higher scores get higher priorities to keep them higher in the treap.
func scoreToPriority(score scoreFP) uint64 {
	// Offset by 2^63 so negative scores still map to positive priorities.
	const offset = uint64(1) << 63
	return uint64(score) + offset
}

func insert(n *node, id string, score scoreFP) *node {
	if n == nil {
		return &node{id: id, score: score, prio: scoreToPriority(score), size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	if score == n.score && id == n.id {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	} else if less(score, id, n.score, n.id) {
		n.left = deleteNode(n.left, id, score)
	} else {
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order (highest scores
// first). In-order traversal follows the less() comparator, so ties keep
// their deterministic playerID ASC ordering.
func collectTopN(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	collectTopN(n.left, limit, records, out)

	if len(*out) < limit {
		if rec, exists := records[n.id]; exists {
			*out = append(*out, entryFromRecord(n.id, rec))
		}
	}

	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

func entryFromRecord(playerID string, rec record) Entry {
	return Entry{
		PlayerID:        playerID,
		PlayerName:      rec.meta.PlayerName,
		InsightScore:    toFloat(rec.score),
		AssignmentID:    rec.meta.AssignmentID,
		FixtureID:       rec.meta.FixtureID,
		Week:            rec.meta.Week,
		HypothesisCount: rec.meta.HypothesisCount,
		GutReliability:  rec.meta.GutReliability,
	}
}

type TreapStore struct {
	mu               sync.RWMutex
	root             *node
	byID             map[string]record
	snapshotInterval time.Duration // How often to publish periodic snapshots of the board
	topCacheSize     int           // Maximum number of top-scoring records to keep in cache

	// snapshot is atomic pointer to a Snapshot struct
	snapshot atomic.Pointer[Snapshot]

	// Periodic snapshot management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		snapshotInterval: 1 * time.Second, // default snapshot interval
		topCacheSize:     500,             // default top cache size
		byID:             make(map[string]record),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startPeriodicSnapshots(ctx)
	s.startMetricsUpdater(ctx)

	return s
}

// startPeriodicSnapshots starts a background goroutine that publishes snapshots at the configured interval
func (s *TreapStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

// publishSnapshot rebuilds and publishes a new snapshot
func (s *TreapStore) publishSnapshot() {
	start := time.Now()
	s.mu.RLock()
	s.publishSnapshotInternal()
	s.mu.RUnlock()

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordBoardSnapshotRebuildDuration(ms)
	metrics.UpdateBoardSnapshotLastDurationMs(ms)
	metrics.UpdateBoardSnapshotLastUnix(float64(time.Now().Unix()))
	metrics.IncrementBoardSnapshotCount()
}

// Snapshot returns the most recently published board snapshot, or nil if
// none has been published yet.
func (s *TreapStore) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Close gracefully shuts down the background goroutines.
func (s *TreapStore) Close() error {
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// UpdateBest implements Store.UpdateBest with O(log n) expected time.
func (s *TreapStore) UpdateBest(ctx context.Context, playerID string, score float64) (bool, error) {
	return s.UpdateBestWithMeta(ctx, playerID, score, Meta{})
}

// UpdateBestWithMeta implements Store.UpdateBestWithMeta with O(log n) expected time.
func (s *TreapStore) UpdateBestWithMeta(ctx context.Context, playerID string, score float64, meta Meta) (bool, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordBoardUpdateLatency(float64(latency))
	}()

	ns := toFixedPoint(score)

	// Track if this is a new player so we can update metrics after releasing locks
	isNewPlayer := false

	s.mu.Lock()
	if old, ok := s.byID[playerID]; ok {
		if ns <= old.score { // not an improvement
			s.mu.Unlock()
			return false, nil
		}
		s.root = deleteNode(s.root, playerID, old.score)
	} else {
		isNewPlayer = true
	}
	s.byID[playerID] = record{score: ns, meta: meta}
	s.root = insert(s.root, playerID, ns)
	s.mu.Unlock()

	// Update metrics outside lock
	if isNewPlayer {
		metrics.UpdateBoardProspectsTotal(s.Count(ctx))
	}

	// Snapshots are published periodically, not after every update.
	return true, nil
}

// Rank returns the current rank and score for a player in O(log n).
func (s *TreapStore) Rank(ctx context.Context, playerID string) (Entry, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordBoardQueryLatency(float64(latency))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byID[playerID]; !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}

	allEntries := make([]Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &allEntries)

	sortEntries(allEntries)
	assignRanksWithTies(allEntries)

	for _, entry := range allEntries {
		if entry.PlayerID == playerID {
			return entry, nil
		}
	}

	return Entry{}, ErrNotFound
}

// TopN returns the top N entries ordered by score desc.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordBoardQueryLatency(float64(latency))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(s.root, n, s.byID, &out)

	assignRanksWithTies(out)
	return out, nil
}

// Count returns the total number of players on the board.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// publishSnapshotInternal rebuilds and publishes a new snapshot (assumes lock is held)
func (s *TreapStore) publishSnapshotInternal() {
	// Build Top-M cache for fast board reads
	topCache := make([]Entry, 0, s.topCacheSize)
	collectTopN(s.root, s.topCacheSize, s.byID, &topCache)

	rankByPlayer := make(map[string]int, len(s.byID))
	scoreByPlayer := make(map[string]float64, len(s.byID))

	allEntries := make([]Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &allEntries)

	assignRanksWithTies(allEntries)

	for _, entry := range allEntries {
		rankByPlayer[entry.PlayerID] = entry.Rank
		scoreByPlayer[entry.PlayerID] = entry.InsightScore
	}

	// Update TopCache with correct ranks
	for i := range topCache {
		if rank, exists := rankByPlayer[topCache[i].PlayerID]; exists {
			topCache[i].Rank = rank
		}
	}

	snapshot := &Snapshot{
		RankByPlayer:  rankByPlayer,
		ScoreByPlayer: scoreByPlayer,
		TopCache:      topCache,
	}

	s.snapshot.Store(snapshot)
}

// startMetricsUpdater starts a background goroutine that refreshes board metrics
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

// updateMetrics refreshes the gauge metrics that describe the board.
func (s *TreapStore) updateMetrics() {
	s.mu.RLock()
	prospectCount := len(s.byID)
	s.mu.RUnlock()

	metrics.UpdateBoardProspectsTotal(prospectCount)
}

// collectAll appends all entries in rank order (highest scores first).
func collectAll(n *node, byID map[string]record, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, byID, out)
	if rec, ok := byID[n.id]; ok {
		*out = append(*out, entryFromRecord(n.id, rec))
	}
	collectAll(n.right, byID, out)
}

// sortEntries sorts entries by score (descending) and playerID (ascending) to match TopN logic
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].InsightScore != entries[j].InsightScore {
			return entries[i].InsightScore > entries[j].InsightScore
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
}

// assignRanksWithTies assigns ranks with proper tie handling.
// Players with the same score share a rank, and the next distinct score
// takes the next consecutive rank.
func assignRanksWithTies(entries []Entry) {
	if len(entries) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank

		sameScoreCount := 1
		for j := i + 1; j < len(entries) && entries[j].InsightScore == entries[i].InsightScore; j++ {
			entries[j].Rank = currentRank
			sameScoreCount++
		}

		currentRank++
		i += sameScoreCount - 1
	}
}
