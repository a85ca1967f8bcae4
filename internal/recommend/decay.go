// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"math"
	"time"
)

// Decay attenuates an interest weight by factor per whole day elapsed
// between lastUpdated and now: weight * factor^days.
//
// A zero lastUpdated or a lastUpdated in the future applies no decay.
// The result depends only on its inputs, so recomputing it for a fixed
// lastUpdated yields the same value.
func Decay(weight float64, lastUpdated, now time.Time, factor float64) float64 {
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0
	}
	if lastUpdated.IsZero() {
		return weight
	}
	days := math.Floor(now.Sub(lastUpdated).Hours() / 24)
	if days <= 0 {
		return weight
	}
	return weight * math.Pow(factor, days)
}
