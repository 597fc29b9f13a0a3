// Package stats reduces latency sample sets to summary statistics.
package stats

import (
	"math"
	"sort"

	"github.com/authz-engine/engine-bench/pkg/types"
)

// Reduce converts an ordered latency sample set into summary statistics.
//
// The formulas are fixed for report compatibility with prior runs:
// the standard deviation is the population form (divide by N, not N-1) and
// the quartiles use the nearest-rank method on the ascending-sorted samples,
// values at zero-based indices floor(N*0.25) and floor(N*0.75), with no
// interpolation. All time fields are truncated to integer nanoseconds.
//
// An empty sample set reduces to all-zero statistics with Samples == 0;
// the zero mean is the documented empty-set value, not a measurement.
func Reduce(samples []int64) types.BenchmarkStats {
	n := len(samples)
	st := types.BenchmarkStats{Samples: int64(n)}
	if n == 0 {
		return st
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	mean := sum / float64(n)

	var sumSq float64
	for _, s := range samples {
		d := float64(s) - mean
		sumSq += d * d
	}
	stdDev := math.Sqrt(sumSq / float64(n))

	sorted := make([]int64, n)
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	st.MeanNS = int64(mean)
	st.StdDev = int64(stdDev)
	st.LowerQ = sorted[int(float64(n)*0.25)]
	st.UpperQ = sorted[int(float64(n)*0.75)]
	return st
}
