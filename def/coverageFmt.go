package def

import (
	"regexp"

	"github.com/cockroachdb/errors"
)

// CoverageFmt maps a file name to its executable lines and whether each was hit.
type CoverageFmt map[string]map[int]bool

// Metrics folds line-level coverage into CoverageMetrics. Line-level profiles
// carry no function or branch data, so those counters stay zero.
func (c CoverageFmt) Metrics() CoverageMetrics {
	metrics := NewCoverageMetrics()
	for fileName, lines := range c {
		file := FileCoverage{Path: fileName, LinesFound: len(lines)}
		for _, hit := range lines {
			if hit {
				file.LinesHit++
			}
		}
		metrics.LinesFound += file.LinesFound
		metrics.LinesHit += file.LinesHit
		metrics.Files[fileName] = file
	}
	metrics.Finalize()
	return metrics
}

// CompileExcludes compiles the unit_exclude patterns.
func CompileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		reg, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "unit_exclude pattern %q", p)
		}
		excludes = append(excludes, reg)
	}
	return excludes, nil
}

func Excluded(fileName string, excludes []*regexp.Regexp) bool {
	for _, reg := range excludes {
		if reg.MatchString(fileName) {
			return true
		}
	}
	return false
}
