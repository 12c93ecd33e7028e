// Package gate applies the coverage quality gates and compares a run with its
// stored baseline.
package gate

import (
	"path/filepath"
	"slices"

	"github.com/samber/lo"

	"github.com/nyg123/go_verify/def"
)

const (
	DefaultLineTarget = 75.0
	FunctionTarget    = 80.0
	BranchTarget      = 70.0
)

// CriticalFiles are the basenames that must reach 100% line coverage.
var CriticalFiles = []string{
	"ffi_bridge.c",
	"callback_dispatcher.c",
	"memory_manager.c",
}

// Validate checks m against the targets. Only line coverage and the critical
// files decide Passed; function and branch results are advisory.
func Validate(m def.CoverageMetrics, lineTarget float64) def.ValidationResult {
	result := def.ValidationResult{
		LineCoverage:     check(m.LineCoverage, lineTarget),
		FunctionCoverage: check(m.FunctionCoverage, FunctionTarget),
		BranchCoverage:   check(m.BranchCoverage, BranchTarget),
		CriticalPaths:    []def.CriticalPath{},
	}

	paths := lo.Keys(m.Files)
	slices.Sort(paths)
	for _, path := range paths {
		file := m.Files[path]
		name := filepath.Base(path)
		// Critical files without executable lines are skipped, not failed.
		if !slices.Contains(CriticalFiles, name) || file.LinesFound <= 0 {
			continue
		}
		coverage := file.LineCoverage()
		result.CriticalPaths = append(result.CriticalPaths, def.CriticalPath{
			File:     name,
			Coverage: coverage,
			Passed:   coverage == 100.0,
		})
	}

	result.Passed = result.LineCoverage.Passed &&
		lo.EveryBy(result.CriticalPaths, func(c def.CriticalPath) bool { return c.Passed })
	return result
}

func check(value, target float64) def.Check {
	return def.Check{Value: value, Target: target, Passed: value >= target}
}
