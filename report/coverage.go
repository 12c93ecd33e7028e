// Package report renders coverage and profile results for files and terminals.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"
	"github.com/samber/lo"

	"github.com/nyg123/go_verify/def"
)

const (
	timestampLayout = "20060102_150405"
	worstFileCount  = 10
	wideRule        = 60
	narrowRule      = 40
)

// Timestamp formats t for report and capture file names.
func Timestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// Coverage is everything one coverage report shows. Baseline is nil when no
// comparison was available.
type Coverage struct {
	Component  string
	Metrics    def.CoverageMetrics
	Validation def.ValidationResult
	Baseline   *def.BaselineComparison
	Generated  time.Time
}

// Render returns the plain-text report.
func (c Coverage) Render() string {
	var b strings.Builder
	m, v := c.Metrics, c.Validation

	b.WriteString(strings.Repeat("=", wideRule) + "\n")
	b.WriteString("COVERAGE VALIDATION REPORT\n")
	if c.Component != "" {
		fmt.Fprintf(&b, "Component: %s\n", c.Component)
	}
	fmt.Fprintf(&b, "Generated: %s\n", c.Generated.Format(time.RFC3339))
	b.WriteString(strings.Repeat("=", wideRule) + "\n\n")

	section(&b, "OVERALL COVERAGE METRICS")
	fmt.Fprintf(&b, "Line Coverage:     %.2f%% (%d/%d)\n", m.LineCoverage, m.LinesHit, m.LinesFound)
	fmt.Fprintf(&b, "Function Coverage: %.2f%% (%d/%d)\n", m.FunctionCoverage, m.FunctionsHit, m.FunctionsFound)
	fmt.Fprintf(&b, "Branch Coverage:   %.2f%% (%d/%d)\n\n", m.BranchCoverage, m.BranchesHit, m.BranchesFound)

	section(&b, "VALIDATION RESULTS")
	writeCheck(&b, "Line Coverage:    ", v.LineCoverage, "❌ FAIL")
	writeCheck(&b, "Function Coverage:", v.FunctionCoverage, "❌ FAIL")
	// Branch coverage never blocks, so its failure is only a warning.
	writeCheck(&b, "Branch Coverage:  ", v.BranchCoverage, "⚠️  WARN")
	b.WriteString("\n")

	if len(v.CriticalPaths) > 0 {
		section(&b, "CRITICAL PATH COVERAGE (100% Required)")
		for _, cp := range v.CriticalPaths {
			fmt.Fprintf(&b, "%s %s: %.2f%%\n", lo.Ternary(cp.Passed, "✅", "❌"), cp.File, cp.Coverage)
		}
		b.WriteString("\n")
	}

	section(&b, "FILE-BY-FILE BREAKDOWN")
	for _, f := range WorstFiles(m, worstFileCount) {
		if f.LinesFound <= 0 {
			continue
		}
		fmt.Fprintf(&b, "  %-30s %6.2f%% (%d/%d)\n", filepath.Base(f.Path), f.LineCoverage(), f.LinesHit, f.LinesFound)
	}
	b.WriteString("\n")

	section(&b, "BASELINE COMPARISON")
	if c.Baseline == nil {
		b.WriteString("No baseline available\n\n")
	} else {
		fmt.Fprintf(&b, "Line:     %+.2f%%\n", c.Baseline.LineCoverageDiff)
		fmt.Fprintf(&b, "Function: %+.2f%%\n", c.Baseline.FunctionCoverageDiff)
		fmt.Fprintf(&b, "Branch:   %+.2f%%\n", c.Baseline.BranchCoverageDiff)
		fmt.Fprintf(&b, "Improved: %t\n\n", c.Baseline.Improved)
	}

	b.WriteString(strings.Repeat("=", wideRule) + "\n")
	if v.Passed {
		b.WriteString("✅ COVERAGE VALIDATION: PASSED\n")
		b.WriteString("All coverage targets have been met.\n")
	} else {
		b.WriteString("❌ COVERAGE VALIDATION: FAILED\n")
		b.WriteString("Coverage targets not met. DO NOT DEPLOY.\n")
	}
	b.WriteString(strings.Repeat("=", wideRule) + "\n")
	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", narrowRule) + "\n")
}

func writeCheck(b *strings.Builder, label string, c def.Check, failure string) {
	fmt.Fprintf(b, "%s %s\n", label, lo.Ternary(c.Passed, "✅ PASS", failure))
	fmt.Fprintf(b, "  Current: %.2f%%\n", c.Value)
	fmt.Fprintf(b, "  Target:  %.2f%%\n", c.Target)
}

// WorstFiles returns up to n files ordered by line coverage, lowest first.
// Files without executable lines sort as 0%.
func WorstFiles(m def.CoverageMetrics, n int) []def.FileCoverage {
	files := lo.Values(m.Files)
	slices.SortFunc(files, func(a, b def.FileCoverage) int {
		if ca, cb := a.LineCoverage(), b.LineCoverage(); ca != cb {
			return lo.Ternary(ca < cb, -1, 1)
		}
		return strings.Compare(a.Path, b.Path)
	})
	return files[:min(n, len(files))]
}

// WriteCoverage writes the rendered report to a timestamped file in dir and
// returns its path.
func WriteCoverage(dir string, c Coverage) (string, error) {
	if err := os.MkdirAll(dir, def.DefaultDirPerms); err != nil {
		return "", errors.Wrap(err, "create report directory")
	}
	path := filepath.Join(dir, "coverage_validation_"+Timestamp(c.Generated)+".txt")
	if err := renameio.WriteFile(path, []byte(c.Render()), def.DefaultFilePerms); err != nil {
		return "", errors.Wrapf(err, "write report %s", path)
	}
	return path, nil
}
