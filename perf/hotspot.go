package perf

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/nyg123/go_verify/def"
)

const (
	MaxRecommendations = 5

	highThreshold   = 10.0
	mediumThreshold = 5.0
)

// Hotspots orders the profile by CPU share, highest first. Equal shares are
// ordered by function name.
func Hotspots(cpu map[string]float64) []def.Hotspot {
	hotspots := lo.MapToSlice(cpu, func(fn string, pct float64) def.Hotspot {
		return def.Hotspot{Function: fn, CPUPercent: pct}
	})
	slices.SortFunc(hotspots, func(a, b def.Hotspot) int {
		if c := cmp.Compare(b.CPUPercent, a.CPUPercent); c != 0 {
			return c
		}
		return cmp.Compare(a.Function, b.Function)
	})
	return hotspots
}

// Classify maps a CPU share to its severity band.
func Classify(pct float64) def.Severity {
	switch {
	case pct > highThreshold:
		return def.SeverityHigh
	case pct > mediumThreshold:
		return def.SeverityMedium
	default:
		return def.SeverityLow
	}
}

// Recommend returns at most MaxRecommendations entries for the heaviest
// functions.
func Recommend(cpu map[string]float64) []def.Recommendation {
	top := Hotspots(cpu)
	if len(top) > MaxRecommendations {
		top = top[:MaxRecommendations]
	}
	return lo.Map(top, func(h def.Hotspot, _ int) def.Recommendation {
		return def.Recommendation{Severity: Classify(h.CPUPercent), Function: h.Function, CPUPercent: h.CPUPercent}
	})
}
