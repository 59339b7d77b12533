// Package repository defines the prospect board store interface and errors.
package repository

import "time"

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithSnapshotInterval sets how often the store publishes board snapshots.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(s *TreapStore) {
		if interval > 0 {
			s.snapshotInterval = interval
		}
	}
}

// WithTopCacheSize sets how many leading entries each snapshot caches.
func WithTopCacheSize(size int) Option {
	return func(s *TreapStore) {
		if size > 0 {
			s.topCacheSize = size
		}
	}
}
