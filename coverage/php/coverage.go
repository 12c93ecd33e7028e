package php

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/nyg123/go_verify/def"
)

// GetCoverage parses a clover XML report into coverage metrics. Statement and
// condition lines count as lines, method lines as functions.
func GetCoverage(config def.Config) (def.CoverageMetrics, error) {
	data, err := os.ReadFile(filepath.Join(config.Path, config.CoveragePath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return def.CoverageMetrics{}, errors.Mark(err, def.ErrNotFound)
		}
		return def.CoverageMetrics{}, errors.Wrap(err, "read clover report")
	}
	excludes, err := def.CompileExcludes(config.UnitExclude)
	if err != nil {
		return def.CoverageMetrics{}, err
	}
	return parseClover(data, config.CoveragePrefix, excludes)
}

func parseClover(data []byte, prefix string, excludes []*regexp.Regexp) (def.CoverageMetrics, error) {
	coverage := def.Coverage{}
	if err := xml.Unmarshal(data, &coverage); err != nil {
		return def.CoverageMetrics{}, errors.Mark(errors.Wrap(err, "decode clover report"), def.ErrParse)
	}
	if len(coverage.Project) < 1 {
		return def.CoverageMetrics{}, errors.Wrap(def.ErrParse, "clover report has no project")
	}

	coverageFmt := make(def.CoverageFmt)
	functions := map[string][2]int{}
	for _, project := range coverage.Project {
		for _, file := range project.Files() {
			fileName := strings.Replace(file.Name, prefix, "", 1)
			if def.Excluded(fileName, excludes) {
				continue
			}
			lines := map[int]bool{}
			fn := [2]int{}
			for _, line := range file.Line {
				if line.Type == "method" {
					fn[0]++
					if line.Count > 0 {
						fn[1]++
					}
					continue
				}
				lines[int(line.Num)] = lines[int(line.Num)] || line.Count > 0
			}
			coverageFmt[fileName] = lines
			functions[fileName] = fn
		}
	}

	metrics := coverageFmt.Metrics()
	for fileName, fn := range functions {
		f := metrics.Files[fileName]
		f.FunctionsFound, f.FunctionsHit = fn[0], fn[1]
		metrics.Files[fileName] = f
		metrics.FunctionsFound += fn[0]
		metrics.FunctionsHit += fn[1]
	}
	metrics.Finalize()
	return metrics, nil
}
