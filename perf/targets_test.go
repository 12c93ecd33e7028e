package perf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nyg123/go_verify/def"
)

func ptr(v float64) *float64 { return &v }

func TestCheckTargets(t *testing.T) {
	tests := []struct {
		name  string
		stats def.PerfStats
		want  def.PerformanceTargets
	}{
		{
			name:  "nothing measured",
			stats: def.PerfStats{},
			want:  def.PerformanceTargets{},
		},
		{
			name:  "all targets met",
			stats: def.PerfStats{OpsPerSec: ptr(250000), P99: ptr(480), MemoryGrowthPercent: ptr(8)},
			want:  def.PerformanceTargets{ThroughputTargetMet: true, P99LatencyTargetMet: true, MemoryGrowthAcceptable: true},
		},
		{
			name:  "boundaries",
			stats: def.PerfStats{OpsPerSec: ptr(200000), P99: ptr(500), MemoryGrowthPercent: ptr(10)},
			want:  def.PerformanceTargets{ThroughputTargetMet: true},
		},
		{
			name:  "measured as zero differs from not measured",
			stats: def.PerfStats{P99: ptr(0), MemoryGrowthPercent: ptr(0)},
			want:  def.PerformanceTargets{P99LatencyTargetMet: true, MemoryGrowthAcceptable: true},
		},
		{
			name:  "below throughput",
			stats: def.PerfStats{OpsPerSec: ptr(199999.9)},
			want:  def.PerformanceTargets{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckTargets(tt.stats))
		})
	}
}

func TestCheckTargetsFromMap(t *testing.T) {
	stats := def.PerfStatsFromMap(map[string]float64{"ops_per_sec": 250000, "memory_growth_percent": 8, "p50": 400})

	assert.Nil(t, stats.P99)
	assert.Equal(t, def.PerformanceTargets{ThroughputTargetMet: true, MemoryGrowthAcceptable: true}, CheckTargets(stats))
}
