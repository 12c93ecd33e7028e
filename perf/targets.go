package perf

import "github.com/nyg123/go_verify/def"

const (
	ThroughputTarget  = 200000.0 // ops/sec, inclusive
	P99LatencyTarget  = 500.0    // microseconds, exclusive
	MemoryGrowthLimit = 10.0     // percent, exclusive
)

// CheckTargets evaluates each measured value against its target. Values that
// were not measured leave their target unmet.
func CheckTargets(stats def.PerfStats) def.PerformanceTargets {
	return def.PerformanceTargets{
		ThroughputTargetMet:    stats.OpsPerSec != nil && *stats.OpsPerSec >= ThroughputTarget,
		P99LatencyTargetMet:    stats.P99 != nil && *stats.P99 < P99LatencyTarget,
		MemoryGrowthAcceptable: stats.MemoryGrowthPercent != nil && *stats.MemoryGrowthPercent < MemoryGrowthLimit,
	}
}
