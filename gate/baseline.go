package gate

import (
	"os"
	"path/filepath"

	log "github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"

	"github.com/nyg123/go_verify/coverage/lcov"
	"github.com/nyg123/go_verify/def"
)

// BaselinePath is where the accepted snapshot of component lives.
func BaselinePath(dir, component string) string {
	return filepath.Join(dir, "baseline_"+component+".info")
}

// CompareBaseline diffs current against the baseline at path. It reports
// false when there is nothing to compare: no baseline yet, or one that cannot
// be read. Neither case is an error for the caller.
func CompareBaseline(current def.CoverageMetrics, path string, logger *log.Logger) (def.BaselineComparison, bool) {
	baseline, err := lcov.Load(path)
	if err != nil {
		if errors.Is(err, def.ErrNotFound) {
			logger.Warn("No baseline file found", "file", path)
		} else {
			logger.Error("Error comparing with baseline", "file", path, "error", err)
		}
		return def.BaselineComparison{}, false
	}
	return Compare(current, baseline), true
}

// Compare returns current minus baseline for each aggregate percentage.
func Compare(current, baseline def.CoverageMetrics) def.BaselineComparison {
	return def.BaselineComparison{
		LineCoverageDiff:     current.LineCoverage - baseline.LineCoverage,
		FunctionCoverageDiff: current.FunctionCoverage - baseline.FunctionCoverage,
		BranchCoverageDiff:   current.BranchCoverage - baseline.BranchCoverage,
		Improved:             current.LineCoverage > baseline.LineCoverage,
	}
}

// SaveBaseline replaces the baseline at path with data. Readers never observe
// a partially written file.
func SaveBaseline(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), def.DefaultDirPerms); err != nil {
		return errors.Wrap(err, "create baseline directory")
	}
	if err := renameio.WriteFile(path, data, def.DefaultFilePerms); err != nil {
		return errors.Wrapf(err, "write baseline %s", path)
	}
	return nil
}
