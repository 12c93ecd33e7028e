// Package perf analyzes benchmark latencies, checks performance targets and
// ranks CPU hotspots.
package perf

import (
	"math"
	"slices"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/nyg123/go_verify/def"
)

// AnalyzeLatency summarizes samples. Percentiles use nearest rank below:
// the sorted sample at index floor(n*q). Samples is left unmodified.
func AnalyzeLatency(samples []float64) (def.LatencyStats, error) {
	if len(samples) == 0 {
		return def.LatencyStats{}, errors.Wrap(def.ErrInvalidInput, "no latency samples")
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	stats := def.LatencyStats{
		Min:  sorted[0],
		P50:  rank(sorted, 0.50),
		P90:  rank(sorted, 0.90),
		P95:  rank(sorted, 0.95),
		P99:  rank(sorted, 0.99),
		P999: rank(sorted, 0.999),
		Max:  sorted[len(sorted)-1],
		Mean: stat.Mean(sorted, nil),
	}
	if len(sorted) > 1 {
		stats.StdDev = stat.StdDev(sorted, nil)
	}
	return stats, nil
}

func rank(sorted []float64, q float64) float64 {
	i := int(math.Floor(float64(len(sorted)) * q))
	return sorted[min(i, len(sorted)-1)]
}
