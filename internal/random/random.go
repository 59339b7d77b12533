// Package random provides seed generation and the sampling helpers the
// observation pipeline draws from.
//
// Every stochastic component in the pipeline consumes a *rand.Rand it does
// not own. A stream must never be shared across two concurrent session
// computations; batch workers derive one stream per assignment so replays
// are deterministic per seed.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a high-entropy seed using crypto/rand, suitable for
// initializing a master stream when no seed is configured.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// New returns a seeded pseudo-random stream.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic simulation stream, not crypto
}

// DeriveSeed maps a master seed and a stream index to a decorrelated
// per-stream seed. Consecutive indices must not produce correlated
// streams, so the composite is passed through a splitmix64-style finalizer.
func DeriveSeed(master int64, index int) int64 {
	x := uint64(master) + (uint64(index)+1)*0x9E3779B97F4A7C15
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31

	return int64(x)
}

// IntBetween returns a uniform integer in [minVal, maxVal] inclusive.
// Degenerate bounds collapse to minVal.
func IntBetween(rng *rand.Rand, minVal, maxVal int) int {
	if maxVal <= minVal {
		return minVal
	}
	return minVal + rng.Intn(maxVal-minVal+1)
}

// Gaussian samples a normal distribution with the given mean and standard
// deviation.
func Gaussian(rng *rand.Rand, mean, sd float64) float64 {
	return mean + rng.NormFloat64()*sd
}

// WeightedIndex returns one index drawn in proportion to weights.
// Non-positive weights are treated as zero; if no positive weight exists
// the draw degrades to uniform. Returns -1 only for an empty slice.
func WeightedIndex(rng *rand.Rand, weights []float64) int {
	if len(weights) == 0 {
		return -1
	}

	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}

	r := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if r < acc {
			return i
		}
	}

	// Floating point accumulation can leave r a hair past the last bucket.
	return len(weights) - 1
}

// WeightedSampleWithoutReplacement draws count distinct indices, each draw
// proportional to the remaining items' weights. Asking for more items than
// exist returns every index.
func WeightedSampleWithoutReplacement(rng *rand.Rand, count int, weights []float64) []int {
	n := len(weights)
	if n == 0 || count <= 0 {
		return nil
	}
	if count >= n {
		picked := make([]int, n)
		for i := range picked {
			picked[i] = i
		}
		return picked
	}

	remaining := make([]float64, n)
	copy(remaining, weights)

	picked := make([]int, 0, count)
	for len(picked) < count {
		idx := WeightedIndex(rng, remaining)
		if idx < 0 {
			break
		}
		picked = append(picked, idx)
		remaining[idx] = 0

		// When every remaining weight is gone, WeightedIndex degrades to a
		// uniform draw over all indices, so spent ones must be skipped.
		if exhausted(remaining) {
			picked = appendUniform(rng, picked, n, count)
			break
		}
	}

	return picked
}

// exhausted reports whether no positive weight remains.
func exhausted(weights []float64) bool {
	for _, w := range weights {
		if w > 0 {
			return false
		}
	}
	return true
}

// appendUniform tops up picked with uniform draws over the unpicked
// indices until it holds count entries.
func appendUniform(rng *rand.Rand, picked []int, n, count int) []int {
	taken := make(map[int]bool, len(picked))
	for _, i := range picked {
		taken[i] = true
	}

	free := make([]int, 0, n-len(picked))
	for i := 0; i < n; i++ {
		if !taken[i] {
			free = append(free, i)
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	need := count - len(picked)
	if need > len(free) {
		need = len(free)
	}
	return append(picked, free[:need]...)
}

// DistinctInts returns count distinct integers drawn uniformly from
// [minVal, maxVal] inclusive, in random order. A span smaller than count
// returns the whole span.
func DistinctInts(rng *rand.Rand, count, minVal, maxVal int) []int {
	if count <= 0 || maxVal < minVal {
		return nil
	}
	span := maxVal - minVal + 1
	if count > span {
		count = span
	}

	perm := rng.Perm(span)
	out := make([]int, count)
	for i := 0; i < count; i++ {
		out[i] = minVal + perm[i]
	}
	return out
}
