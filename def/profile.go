package def

import "fmt"

// LatencyStats is the distribution summary of one latency sample set.
type LatencyStats struct {
	Min    float64 `json:"min"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
	P999   float64 `json:"p999"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// PerfStats carries the measured inputs of the target check. A nil field was
// not measured.
type PerfStats struct {
	OpsPerSec           *float64 `json:"ops_per_sec,omitempty"`
	P99                 *float64 `json:"p99,omitempty"`
	MemoryGrowthPercent *float64 `json:"memory_growth_percent,omitempty"`
}

// PerfStatsFromMap picks the known keys out of a loose stats mapping.
func PerfStatsFromMap(m map[string]float64) PerfStats {
	lookup := func(key string) *float64 {
		v, ok := m[key]
		if !ok {
			return nil
		}
		return &v
	}
	return PerfStats{
		OpsPerSec:           lookup("ops_per_sec"),
		P99:                 lookup("p99"),
		MemoryGrowthPercent: lookup("memory_growth_percent"),
	}
}

type PerformanceTargets struct {
	ThroughputTargetMet    bool `json:"throughput_target_met"`
	P99LatencyTargetMet    bool `json:"p99_latency_target_met"`
	MemoryGrowthAcceptable bool `json:"memory_growth_acceptable"`
}

type Hotspot struct {
	Function   string  `json:"function"`
	CPUPercent float64 `json:"cpu_percent"`
}

type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Advice is the action attached to each severity band.
func (s Severity) Advice() string {
	switch s {
	case SeverityHigh:
		return "consider optimization"
	case SeverityMedium:
		return "review for improvements"
	default:
		return "acceptable"
	}
}

type Recommendation struct {
	Severity   Severity `json:"severity"`
	Function   string   `json:"function"`
	CPUPercent float64  `json:"cpu_percent"`
}

func (r Recommendation) String() string {
	return fmt.Sprintf("%s: %s consuming %.1f%% CPU - %s", r.Severity, r.Function, r.CPUPercent, r.Severity.Advice())
}
