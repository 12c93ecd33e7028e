package lcov

import (
	"bufio"
	"io"
	"maps"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/nyg123/go_verify/def"
)

// State is the fold accumulator: the metrics so far and the file whose
// section is open, if any.
type State struct {
	Metrics def.CoverageMetrics
	Current string
	HasFile bool
}

func NewState() State {
	return State{Metrics: def.NewCoverageMetrics()}
}

// Step applies one record and returns the next state. The input state is not
// modified. Counts add to the global totals and overwrite the open file's
// field; branch counts are global only.
func Step(s State, r Record) State {
	next := s
	next.Metrics.Files = maps.Clone(s.Metrics.Files)
	apply(&next, r)
	return next
}

// apply is Step on a state the caller owns.
func apply(s *State, r Record) {
	m := &s.Metrics
	if m.Files == nil {
		m.Files = map[string]def.FileCoverage{}
	}
	setFile := func(update func(*def.FileCoverage)) {
		if !s.HasFile {
			return
		}
		f := m.Files[s.Current]
		update(&f)
		m.Files[s.Current] = f
	}

	switch r := r.(type) {
	case SourceFile:
		s.Current = r.Path
		s.HasFile = true
		m.Files[r.Path] = def.FileCoverage{Path: r.Path}
	case LinesFound:
		m.LinesFound += r.Count
		setFile(func(f *def.FileCoverage) { f.LinesFound = r.Count })
	case LinesHit:
		m.LinesHit += r.Count
		setFile(func(f *def.FileCoverage) { f.LinesHit = r.Count })
	case FunctionsFound:
		m.FunctionsFound += r.Count
		setFile(func(f *def.FileCoverage) { f.FunctionsFound = r.Count })
	case FunctionsHit:
		m.FunctionsHit += r.Count
		setFile(func(f *def.FileCoverage) { f.FunctionsHit = r.Count })
	case BranchesFound:
		m.BranchesFound += r.Count
	case BranchesHit:
		m.BranchesHit += r.Count
	case nil:
	}
}

// Aggregate parses every line and returns the finalized metrics. The first
// malformed directive aborts the whole parse.
func Aggregate(lines []string) (def.CoverageMetrics, error) {
	s := NewState()
	for i, line := range lines {
		r, err := ParseRecord(line)
		if err != nil {
			return def.CoverageMetrics{}, errors.Wrapf(err, "line %d", i+1)
		}
		apply(&s, r)
	}
	s.Metrics.Finalize()
	return s.Metrics, nil
}

// Parse reads coverage-info records from r.
func Parse(r io.Reader) (def.CoverageMetrics, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return def.CoverageMetrics{}, errors.Wrap(err, "read coverage records")
	}
	return Aggregate(lines)
}

// Load parses the coverage-info file at path.
func Load(path string) (def.CoverageMetrics, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return def.CoverageMetrics{}, errors.Mark(err, def.ErrNotFound)
		}
		return def.CoverageMetrics{}, errors.Wrap(err, "open coverage file")
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)
	metrics, err := Parse(file)
	if err != nil {
		return def.CoverageMetrics{}, errors.Wrapf(err, "parse %s", path)
	}
	return metrics, nil
}
