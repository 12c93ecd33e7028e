package _go

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/nyg123/go_verify/def"
)

var (
	regName = regexp.MustCompile(`^(.*?):`)
	regLine = regexp.MustCompile(`:(\d+)\.\d+,(\d+)\.\d+\s+\d+\s+(\d+)$`)
)

// GetCoverage parses a Go cover profile into coverage metrics. A line is hit
// when any block covering it has a non-zero count.
func GetCoverage(config def.Config) (def.CoverageMetrics, error) {
	data, err := os.ReadFile(filepath.Join(config.Path, config.CoveragePath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return def.CoverageMetrics{}, errors.Mark(err, def.ErrNotFound)
		}
		return def.CoverageMetrics{}, errors.Wrap(err, "read cover profile")
	}
	excludes, err := def.CompileExcludes(config.UnitExclude)
	if err != nil {
		return def.CoverageMetrics{}, err
	}
	coverageFmt, err := parseProfile(string(data), config.CoveragePrefix, excludes)
	if err != nil {
		return def.CoverageMetrics{}, err
	}
	return coverageFmt.Metrics(), nil
}

func parseProfile(data, prefix string, excludes []*regexp.Regexp) (def.CoverageFmt, error) {
	coverageFmt := make(def.CoverageFmt)
	seen := map[string]bool{}
	for i, s := range strings.Split(data, "\n") {
		s = strings.TrimSpace(s)
		if s == "" || strings.HasPrefix(s, "mode:") || seen[s] {
			continue
		}
		seen[s] = true
		s = strings.Replace(s, prefix, "", 1)
		name := regName.FindStringSubmatch(s)
		if name == nil {
			continue
		}
		fileName := name[1]
		if def.Excluded(fileName, excludes) {
			continue
		}
		match := regLine.FindStringSubmatch(s)
		if match == nil {
			return nil, errors.Wrapf(def.ErrParse, "line %d: bad cover block %q", i+1, s)
		}
		start, _ := strconv.Atoi(match[1])
		end, _ := strconv.Atoi(match[2])
		hit := match[3] != "0"
		coverage, ok := coverageFmt[fileName]
		if !ok {
			coverage = make(map[int]bool)
			coverageFmt[fileName] = coverage
		}
		for ; start <= end; start++ {
			coverage[start] = coverage[start] || hit
		}
	}
	return coverageFmt, nil
}
