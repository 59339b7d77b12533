package repository

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
)

const benchPopulation = 100_000

// benchScore draws an insight score shaped like real board traffic:
// most prospects cluster low, a small tail reaches standout territory.
func benchScore(r *rand.Rand) float64 {
	base := r.Float64() * 25.0
	if r.Float64() < 0.05 {
		base += 20.0 + r.Float64()*15.0
	}
	return base
}

func benchPopulate(b *testing.B, ctx context.Context, store *TreapStore, count int) {
	b.Helper()
	r := rand.New(rand.NewSource(1))
	for i := 0; i < count; i++ {
		playerID := fmt.Sprintf("player_%d", i)
		if _, err := store.UpdateBest(ctx, playerID, benchScore(r)); err != nil {
			b.Fatalf("populate failed at %d: %v", i, err)
		}
	}
}

func BenchmarkTreapStore_UpdateBest(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() { _ = store.Close() }()

	benchPopulate(b, ctx, store, benchPopulation)

	var seq atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(seq.Add(1)))
		for pb.Next() {
			playerID := fmt.Sprintf("player_%d", r.Intn(benchPopulation))
			_, _ = store.UpdateBest(ctx, playerID, benchScore(r))
		}
	})
}

func BenchmarkTreapStore_Rank(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() { _ = store.Close() }()

	benchPopulate(b, ctx, store, benchPopulation)

	var seq atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(seq.Add(1)))
		for pb.Next() {
			playerID := fmt.Sprintf("player_%d", r.Intn(benchPopulation))
			_, _ = store.Rank(ctx, playerID)
		}
	})
}

func BenchmarkTreapStore_TopN(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() { _ = store.Close() }()

	benchPopulate(b, ctx, store, benchPopulation)

	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := store.TopN(ctx, n); err != nil {
					b.Fatalf("TopN(%d) failed: %v", n, err)
				}
			}
		})
	}
}

// BenchmarkTreapStore_MixedLoad approximates live traffic: mostly score
// updates from finished assignments, rank lookups, some board views.
func BenchmarkTreapStore_MixedLoad(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() { _ = store.Close() }()

	benchPopulate(b, ctx, store, benchPopulation)

	var seq atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(seq.Add(1)))
		for pb.Next() {
			playerID := fmt.Sprintf("player_%d", r.Intn(benchPopulation))
			switch roll := r.Float64(); {
			case roll < 0.40:
				_, _ = store.UpdateBest(ctx, playerID, benchScore(r))
			case roll < 0.75:
				_, _ = store.Rank(ctx, playerID)
			case roll < 0.95:
				_, _ = store.TopN(ctx, 50)
			default:
				_ = store.Count(ctx)
			}
		}
	})
}
