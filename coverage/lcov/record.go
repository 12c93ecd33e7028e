// Package lcov aggregates lcov coverage-info records into coverage metrics.
package lcov

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/nyg123/go_verify/def"
)

// Record is one recognized coverage-info directive. The set of implementations
// is closed; Step switches over all of them.
type Record interface {
	record()
}

type SourceFile struct{ Path string }

type LinesFound struct{ Count int }

type LinesHit struct{ Count int }

type FunctionsFound struct{ Count int }

type FunctionsHit struct{ Count int }

type BranchesFound struct{ Count int }

type BranchesHit struct{ Count int }

func (SourceFile) record()     {}
func (LinesFound) record()     {}
func (LinesHit) record()       {}
func (FunctionsFound) record() {}
func (FunctionsHit) record()   {}
func (BranchesFound) record()  {}
func (BranchesHit) record()    {}

const (
	prefixSourceFile     = "SF:"
	prefixLinesFound     = "LF:"
	prefixLinesHit       = "LH:"
	prefixFunctionsFound = "FNF:"
	prefixFunctionsHit   = "FNH:"
	prefixBranchesFound  = "BRF:"
	prefixBranchesHit    = "BRH:"
)

var countRecords = []struct {
	prefix string
	build  func(int) Record
}{
	{prefixLinesFound, func(n int) Record { return LinesFound{n} }},
	{prefixLinesHit, func(n int) Record { return LinesHit{n} }},
	{prefixFunctionsFound, func(n int) Record { return FunctionsFound{n} }},
	{prefixFunctionsHit, func(n int) Record { return FunctionsHit{n} }},
	{prefixBranchesFound, func(n int) Record { return BranchesFound{n} }},
	{prefixBranchesHit, func(n int) Record { return BranchesHit{n} }},
}

// ParseRecord parses a single line. Unrecognized lines yield a nil Record and
// no error.
func ParseRecord(line string) (Record, error) {
	line = strings.TrimSpace(line)
	if path, ok := strings.CutPrefix(line, prefixSourceFile); ok {
		return SourceFile{Path: path}, nil
	}
	for _, c := range countRecords {
		payload, ok := strings.CutPrefix(line, c.prefix)
		if !ok {
			continue
		}
		n, err := parseCount(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", strings.TrimSuffix(c.prefix, ":"))
		}
		return c.build(n), nil
	}
	return nil, nil
}

func parseCount(payload string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return 0, errors.Mark(errors.Wrapf(err, "invalid count %q", payload), def.ErrParse)
	}
	if n < 0 {
		return 0, errors.Wrapf(def.ErrParse, "negative count %d", n)
	}
	return n, nil
}
