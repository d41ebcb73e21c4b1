package rdte

import "math/rand"

// weightedIndex draws an index from a non-negative weight vector using a
// single uniform draw against the cumulative distribution. Weights need not
// be normalized. A vector with zero total mass returns the last index so a
// degenerate configuration cannot stall the caller.
func weightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return len(weights) - 1
	}
	s := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if s < cum {
			return i
		}
	}
	return len(weights) - 1
}

// shiftWeight moves amount from weights[from] to weights[to], clamping the
// source at zero so a stack of shifts can never create negative mass. The
// amount actually moved is whatever the source can give up.
func shiftWeight(weights []float64, from, to int, amount float64) {
	if amount <= 0 {
		return
	}
	if amount > weights[from] {
		amount = weights[from]
	}
	weights[from] -= amount
	weights[to] += amount
}

// normalize scales a non-negative weight vector to unit mass in place.
// A zero vector is left untouched.
func normalize(weights []float64) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return
	}
	for i := range weights {
		weights[i] /= total
	}
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// randomPerm draws a fresh Fisher–Yates permutation of [0, n) from the run's
// RNG stream. The Scheduler uses it for per-tick activation order.
func randomPerm(rng *rand.Rand, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
