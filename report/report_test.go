package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyg123/go_verify/def"
)

var generated = time.Date(2026, 10, 15, 9, 30, 5, 0, time.UTC)

func sampleCoverage() Coverage {
	m := def.NewCoverageMetrics()
	m.Files["src/ffi_bridge.c"] = def.FileCoverage{Path: "src/ffi_bridge.c", LinesFound: 10, LinesHit: 9}
	m.Files["src/grid.c"] = def.FileCoverage{Path: "src/grid.c", LinesFound: 10, LinesHit: 10}
	m.Files["src/empty.c"] = def.FileCoverage{Path: "src/empty.c"}
	m.LinesFound, m.LinesHit = 20, 19
	m.FunctionsFound, m.FunctionsHit = 4, 4
	m.BranchesFound, m.BranchesHit = 10, 5
	m.Finalize()

	return Coverage{
		Component: "INTG-001",
		Metrics:   m,
		Validation: def.ValidationResult{
			Passed:           false,
			LineCoverage:     def.Check{Value: 95, Target: 75, Passed: true},
			FunctionCoverage: def.Check{Value: 100, Target: 80, Passed: true},
			BranchCoverage:   def.Check{Value: 50, Target: 70, Passed: false},
			CriticalPaths:    []def.CriticalPath{{File: "ffi_bridge.c", Coverage: 90, Passed: false}},
		},
		Generated: generated,
	}
}

func TestTimestamp(t *testing.T) {
	assert.Equal(t, "20261015_093005", Timestamp(generated))
}

func TestRender(t *testing.T) {
	out := sampleCoverage().Render()

	assert.Contains(t, out, "COVERAGE VALIDATION REPORT")
	assert.Contains(t, out, "Component: INTG-001")
	assert.Contains(t, out, "Line Coverage:     95.00% (19/20)")
	assert.Contains(t, out, "Branch Coverage:   ⚠️  WARN")
	assert.Contains(t, out, "❌ ffi_bridge.c: 90.00%")
	assert.Contains(t, out, "No baseline available")
	assert.Contains(t, out, "❌ COVERAGE VALIDATION: FAILED")
	assert.NotContains(t, out, "empty.c", "files without lines are not listed")
	assert.Less(t, strings.Index(out, "ffi_bridge.c   "), strings.Index(out, "grid.c"))
}

func TestRenderWithBaseline(t *testing.T) {
	c := sampleCoverage()
	c.Validation.Passed = true
	c.Baseline = &def.BaselineComparison{LineCoverageDiff: 2.5, FunctionCoverageDiff: -1, BranchCoverageDiff: 0, Improved: true}

	out := c.Render()

	assert.Contains(t, out, "Line:     +2.50%")
	assert.Contains(t, out, "Function: -1.00%")
	assert.Contains(t, out, "Branch:   +0.00%")
	assert.Contains(t, out, "✅ COVERAGE VALIDATION: PASSED")
}

func TestWorstFiles(t *testing.T) {
	files := WorstFiles(sampleCoverage().Metrics, 2)

	require.Len(t, files, 2)
	assert.Equal(t, "src/empty.c", files[0].Path)
	assert.Equal(t, "src/ffi_bridge.c", files[1].Path)
	assert.Len(t, WorstFiles(sampleCoverage().Metrics, 10), 3)
}

func TestWriteCoverage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := WriteCoverage(dir, sampleCoverage())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "coverage_validation_20261015_093005.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCoverage().Render(), string(data))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	c := sampleCoverage()
	c.Baseline = &def.BaselineComparison{LineCoverageDiff: -3}

	PrintSummary(&buf, c, true)

	out := buf.String()
	assert.Contains(t, out, "VALIDATION SUMMARY")
	assert.Contains(t, out, "Line:     -3.00%")
	assert.Contains(t, out, "COVERAGE VALIDATION: FAILED")
	assert.Contains(t, out, "Critical file ffi_bridge.c below 100%")
	assert.Contains(t, out, "Lowest covered files")
	assert.NotContains(t, out, "Line coverage below")
}

func TestProfileAnalysis(t *testing.T) {
	ops, growth := 250000.0, 8.0
	doc := NewProfileAnalysis(
		def.LatencyStats{Min: 250, P50: 400, P99: 1200, Max: 1200, Mean: 455},
		def.PerfStats{OpsPerSec: &ops, MemoryGrowthPercent: &growth},
		def.PerformanceTargets{ThroughputTargetMet: true, MemoryGrowthAcceptable: true},
		nil,
		[]def.Recommendation{{Severity: def.SeverityHigh, Function: "event_loop_dispatch", CPUPercent: 15.2}},
	)

	var buf bytes.Buffer
	PrintProfile(&buf, doc)
	out := buf.String()
	assert.Contains(t, out, "p50: 400.00")
	assert.Contains(t, out, "Throughput: 250,000 ops/sec")
	assert.Contains(t, out, "Memory Growth: 8.0%")
	assert.Contains(t, out, "p99_latency_target_met")
	assert.Contains(t, out, "HIGH: event_loop_dispatch consuming 15.2% CPU - consider optimization")

	path := filepath.Join(t.TempDir(), "out", "profile_analysis.json")
	require.NoError(t, WriteProfileAnalysis(path, doc))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{}, decoded["hotspots"])
	assert.Equal(t, 400.0, decoded["statistics"].(map[string]any)["p50"])
	assert.NotContains(t, decoded["inputs"], "p99")
	assert.Equal(t, true, decoded["targets"].(map[string]any)["throughput_target_met"])
}

func TestPrintProfileNotMeasured(t *testing.T) {
	var buf bytes.Buffer
	PrintProfile(&buf, NewProfileAnalysis(def.LatencyStats{}, def.PerfStats{}, def.PerformanceTargets{}, nil, nil))

	assert.Contains(t, buf.String(), "Throughput: not measured")
	assert.NotContains(t, buf.String(), "Optimization Recommendations")
}
