// Package dedupe tracks assignment IDs for idempotent intake.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen assignment IDs to ensure at-most-once dispatch.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	// This is the ONLY method for deduplication - thread-safe and atomic.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set, allowing a retry. Use it
	// when intake recorded an ID but handing the assignment on failed
	// (e.g. queue backpressure).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// node is a single entry in the recency list.
type node struct {
	id   string
	next *node
}

// reset clears the node state for reuse
func (n *node) reset() {
	n.id = ""
	n.next = nil
}

// inMemoryDeduper implements Deduper with an in-memory recency list.
// Bounded mode (maxSize > 0) evicts the oldest recorded ID once full and
// recycles nodes through a sync.Pool. Unbounded mode (maxSize <= 0) is a
// plain map with no eviction.
type inMemoryDeduper struct {
	mu       sync.RWMutex
	seen     map[string]*node // id -> node for bounded mode, nil values when unbounded
	head     *node            // most recently recorded
	maxSize  int              // 0 or negative means unbounded
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 5000, // default max size
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]*node)

	if d.maxSize > 0 {
		d.nodePool = sync.Pool{
			New: func() interface{} {
				return &node{}
			},
		}
	}

	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
// Returns true if id was already seen, false if it was newly recorded.
func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		// Make room before recording so the map never exceeds maxSize.
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}

		n := d.nodePool.Get().(*node)
		n.id = id
		n.next = d.head

		d.head = n
		d.seen[id] = n
	} else {
		d.seen[id] = nil
	}
	d.size.Add(1)
	return false
}

// Unrecord removes an ID from the seen set, allowing it to be retried.
func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.maxSize > 0 {
		if node, exists := d.seen[id]; exists {
			delete(d.seen, id)

			if d.head == node {
				d.head = node.next
			} else {
				current := d.head
				for current != nil && current.next != node {
					current = current.next
				}
				if current != nil {
					current.next = node.next
				}
			}

			node.reset()
			d.nodePool.Put(node)

			d.size.Add(-1)
		}
	} else {
		if _, exists := d.seen[id]; exists {
			delete(d.seen, id)
			d.size.Add(-1)
		}
	}
}

// evictOldest removes the least recently recorded entry, the tail of the
// list. Must be called with d.mu.Lock() held.
func (d *inMemoryDeduper) evictOldest() {
	if len(d.seen) == 0 || d.head == nil {
		return
	}

	var prev *node
	current := d.head

	if current.next == nil {
		delete(d.seen, current.id)
		current.reset()
		d.nodePool.Put(current)
		d.head = nil
		d.size.Add(-1)
		return
	}

	for current.next != nil {
		prev = current
		current = current.next
	}

	if prev != nil {
		prev.next = nil
		delete(d.seen, current.id)
		current.reset()
		d.nodePool.Put(current)
		d.size.Add(-1)
	}
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
