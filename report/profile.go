package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/google/renameio/v2"
	"github.com/samber/lo"

	"github.com/nyg123/go_verify/def"
)

// ProfileAnalysis is the JSON document written by the profile command.
type ProfileAnalysis struct {
	Statistics      def.LatencyStats       `json:"statistics"`
	Inputs          def.PerfStats          `json:"inputs"`
	Targets         def.PerformanceTargets `json:"targets"`
	Hotspots        []def.Hotspot          `json:"hotspots"`
	Recommendations []string               `json:"recommendations"`
}

func NewProfileAnalysis(stats def.LatencyStats, inputs def.PerfStats, targets def.PerformanceTargets,
	hotspots []def.Hotspot, recs []def.Recommendation,
) ProfileAnalysis {
	return ProfileAnalysis{
		Statistics:      stats,
		Inputs:          inputs,
		Targets:         targets,
		Hotspots:        lo.Ternary(hotspots == nil, []def.Hotspot{}, hotspots),
		Recommendations: lo.Map(recs, func(r def.Recommendation, _ int) string { return r.String() }),
	}
}

// WriteProfileAnalysis stores doc as indented JSON at path.
func WriteProfileAnalysis(path string, doc ProfileAnalysis) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode profile analysis")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, def.DefaultDirPerms); err != nil {
			return errors.Wrap(err, "create output directory")
		}
	}
	if err := renameio.WriteFile(path, append(data, '\n'), def.DefaultFilePerms); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// PrintProfile writes the terminal view of a profile analysis.
func PrintProfile(w io.Writer, doc ProfileAnalysis) {
	s := doc.Statistics
	fmt.Fprintln(w, headerStyle.Render("=== Performance Profile Analyzer ==="))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Latency Distribution (microseconds):")
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"min", s.Min}, {"p50", s.P50}, {"p90", s.P90}, {"p95", s.P95}, {"p99", s.P99},
		{"p999", s.P999}, {"max", s.Max}, {"mean", s.Mean}, {"stddev", s.StdDev},
	} {
		fmt.Fprintf(w, "  %s: %.2f\n", row.name, row.value)
	}

	fmt.Fprintln(w)
	if doc.Inputs.OpsPerSec != nil {
		fmt.Fprintf(w, "Throughput: %s ops/sec\n", humanize.Comma(int64(*doc.Inputs.OpsPerSec)))
	} else {
		fmt.Fprintln(w, "Throughput: not measured")
	}
	if doc.Inputs.MemoryGrowthPercent != nil {
		fmt.Fprintf(w, "Memory Growth: %.1f%%\n", *doc.Inputs.MemoryGrowthPercent)
	} else {
		fmt.Fprintln(w, "Memory Growth: not measured")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Target Validation:")
	for _, row := range []struct {
		name string
		met  bool
	}{
		{"throughput_target_met", doc.Targets.ThroughputTargetMet},
		{"p99_latency_target_met", doc.Targets.P99LatencyTargetMet},
		{"memory_growth_acceptable", doc.Targets.MemoryGrowthAcceptable},
	} {
		fmt.Fprintf(w, "  %s: %s\n", row.name, lo.Ternary(row.met, passStyle.Render("✓ PASS"), failStyle.Render("✗ FAIL")))
	}

	if len(doc.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Optimization Recommendations:")
		for _, rec := range doc.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
}
