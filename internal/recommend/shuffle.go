// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"math"
	"math/rand"
)

// WeightedShuffle returns a new slice holding items in a random order where
// each position is drawn without replacement with probability proportional
// to the remaining items' weights. Heavier items tend to come first but the
// order is not fixed across calls.
//
// Non-positive, NaN or infinite weights are treated as a minimal weight so
// every item is eventually drawn. The input slice is not modified. The same
// rng state yields the same order.
func WeightedShuffle[T any](items []T, weight func(T) float64, rng *rand.Rand) []T {
	n := len(items)
	out := make([]T, 0, n)
	if n == 0 {
		return out
	}

	remaining := make([]T, n)
	copy(remaining, items)
	weights := make([]float64, n)
	var total float64
	for i, item := range remaining {
		weights[i] = sanitizeWeight(weight(item))
		total += weights[i]
	}

	for len(remaining) > 0 {
		pick := len(remaining) - 1
		target := rng.Float64() * total
		var acc float64
		for i, w := range weights {
			acc += w
			if target < acc {
				pick = i
				break
			}
		}

		out = append(out, remaining[pick])
		total -= weights[pick]
		remaining = append(remaining[:pick], remaining[pick+1:]...)
		weights = append(weights[:pick], weights[pick+1:]...)
	}

	return out
}

const minShuffleWeight = 1e-9

func sanitizeWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return minShuffleWeight
	}
	return w
}
