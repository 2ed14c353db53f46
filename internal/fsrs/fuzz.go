package fsrs

import (
	"math"
	"math/rand"
)

type fuzzRange struct {
	start, end float64
	factor     float64
}

var fuzzRanges = []fuzzRange{
	{2.5, 7.0, 0.15},
	{7.0, 20.0, 0.10},
	{20.0, math.Inf(1), 0.05},
}

// fuzzDelta is 1.0 + sum(factor * max(min(days, end) - start, 0)).
func fuzzDelta(days float64) float64 {
	delta := 1.0
	for _, r := range fuzzRanges {
		delta += r.factor * math.Max(math.Min(days, r.end)-r.start, 0)
	}
	return delta
}

// fuzzInterval spreads a multi-day interval over a small random window so
// cards reviewed together do not stay due together forever. Intervals under
// 2.5 days pass through unchanged.
func fuzzInterval(days, maxInterval int, rng *rand.Rand) int {
	if float64(days) < 2.5 {
		return days
	}

	delta := fuzzDelta(float64(days))
	minIvl := int(math.Round(float64(days) - delta))
	if minIvl < 2 {
		minIvl = 2
	}
	maxIvl := int(math.Round(float64(days) + delta))
	if maxIvl > maxInterval {
		maxIvl = maxInterval
	}
	if minIvl > maxIvl {
		minIvl = maxIvl
	}

	fuzzed := int(math.Round(rng.Float64()*float64(maxIvl-minIvl+1))) + minIvl
	if fuzzed > maxInterval {
		fuzzed = maxInterval
	}
	return fuzzed
}
