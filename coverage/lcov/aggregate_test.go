package lcov

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyg123/go_verify/def"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
	}{
		{name: "source file", line: "SF:/src/ffi_bridge.c", want: SourceFile{Path: "/src/ffi_bridge.c"}},
		{name: "source file keeps inner spaces", line: "SF: dir/a b.c  ", want: SourceFile{Path: " dir/a b.c"}},
		{name: "lines found", line: "LF:10", want: LinesFound{Count: 10}},
		{name: "lines hit", line: "LH:7", want: LinesHit{Count: 7}},
		{name: "functions found", line: "FNF:4", want: FunctionsFound{Count: 4}},
		{name: "functions hit", line: "FNH:3", want: FunctionsHit{Count: 3}},
		{name: "branches found", line: "BRF:12", want: BranchesFound{Count: 12}},
		{name: "branches hit", line: "BRH:6", want: BranchesHit{Count: 6}},
		{name: "surrounding whitespace", line: "  LF: 42 \r", want: LinesFound{Count: 42}},
		{name: "test name ignored", line: "TN:unit", want: nil},
		{name: "line data ignored", line: "DA:3,1", want: nil},
		{name: "function name ignored", line: "FN:10,main", want: nil},
		{name: "end of record ignored", line: "end_of_record", want: nil},
		{name: "empty line ignored", line: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRecordMalformed(t *testing.T) {
	for _, line := range []string{"LF:ten", "LH:", "FNF:1.5", "BRH:-3", "FNH:0x10"} {
		t.Run(line, func(t *testing.T) {
			_, err := ParseRecord(line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, def.ErrParse))
		})
	}
}

func TestStepDoesNotModifyInput(t *testing.T) {
	s0 := NewState()
	s1 := Step(s0, SourceFile{Path: "a.c"})
	s2 := Step(s1, LinesFound{Count: 10})

	assert.Empty(t, s0.Metrics.Files)
	assert.False(t, s0.HasFile)
	assert.Equal(t, 0, s1.Metrics.Files["a.c"].LinesFound)
	assert.Equal(t, 0, s1.Metrics.LinesFound)
	assert.Equal(t, 10, s2.Metrics.Files["a.c"].LinesFound)
	assert.Equal(t, 10, s2.Metrics.LinesFound)
}

func TestStepWithoutOpenFile(t *testing.T) {
	s := NewState()
	for _, r := range []Record{LinesFound{Count: 5}, LinesHit{Count: 2}, FunctionsFound{Count: 1}, BranchesFound{Count: 4}} {
		s = Step(s, r)
	}

	assert.Empty(t, s.Metrics.Files)
	assert.Equal(t, 5, s.Metrics.LinesFound)
	assert.Equal(t, 2, s.Metrics.LinesHit)
	assert.Equal(t, 1, s.Metrics.FunctionsFound)
	assert.Equal(t, 4, s.Metrics.BranchesFound)
}

func TestAggregate(t *testing.T) {
	lines := []string{
		"TN:",
		"SF:a",
		"FNF:4",
		"FNH:2",
		"LF:10",
		"LH:5",
		"BRF:8",
		"BRH:2",
		"end_of_record",
		"SF:b",
		"FNF:1",
		"FNH:1",
		"LF:20",
		"LH:20",
		"end_of_record",
	}

	m, err := Aggregate(lines)
	require.NoError(t, err)

	require.Len(t, m.Files, 2)
	assert.InDelta(t, 50.0, m.Files["a"].LineCoverage(), 1e-9)
	assert.Equal(t, 100.0, m.Files["b"].LineCoverage())
	assert.Equal(t, 30, m.LinesFound)
	assert.Equal(t, 25, m.LinesHit)
	assert.InDelta(t, 83.33, m.LineCoverage, 0.01)
	assert.Equal(t, 5, m.FunctionsFound)
	assert.Equal(t, 3, m.FunctionsHit)
	assert.InDelta(t, 60.0, m.FunctionCoverage, 1e-9)
	assert.Equal(t, 8, m.BranchesFound)
	assert.Equal(t, 2, m.BranchesHit)
	assert.InDelta(t, 25.0, m.BranchCoverage, 1e-9)
	assert.Equal(t, "a", m.Files["a"].Path)
}

func TestAggregateWithoutSourceFiles(t *testing.T) {
	m, err := Aggregate([]string{"LF:4", "LH:1", "BRF:2", "BRH:2"})
	require.NoError(t, err)

	assert.NotNil(t, m.Files)
	assert.Empty(t, m.Files)
	assert.Equal(t, 25.0, m.LineCoverage)
	assert.Equal(t, 100.0, m.BranchCoverage)
	assert.Equal(t, 0.0, m.FunctionCoverage)
}

func TestAggregateEmpty(t *testing.T) {
	m, err := Aggregate(nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.LineCoverage)
	assert.Equal(t, 0.0, m.FunctionCoverage)
	assert.Equal(t, 0.0, m.BranchCoverage)
}

// A section that repeats a count directive keeps only the last value per file
// while every value still adds to the totals.
func TestAggregateRepeatedDirectiveDiverges(t *testing.T) {
	m, err := Aggregate([]string{"SF:a", "LF:10", "LH:4", "LF:6", "LH:6"})
	require.NoError(t, err)

	assert.Equal(t, 6, m.Files["a"].LinesFound)
	assert.Equal(t, 6, m.Files["a"].LinesHit)
	assert.Equal(t, 16, m.LinesFound)
	assert.Equal(t, 10, m.LinesHit)
}

func TestAggregateRepeatedSourceFileResets(t *testing.T) {
	m, err := Aggregate([]string{"SF:a", "LF:10", "LH:4", "SF:a", "FNF:2"})
	require.NoError(t, err)

	assert.Equal(t, def.FileCoverage{Path: "a", FunctionsFound: 2}, m.Files["a"])
	assert.Equal(t, 10, m.LinesFound)
}

func TestAggregateMalformedFailsWholeParse(t *testing.T) {
	_, err := Aggregate([]string{"SF:a", "LF:10", "LH:x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, def.ErrParse))
	assert.Contains(t, err.Error(), "line 3")
}

func TestAggregateIsIdempotent(t *testing.T) {
	lines := strings.Split("SF:x.c\nLF:7\nLH:3\nFNF:2\nFNH:1\nBRF:9\nBRH:4\nSF:y.c\nLF:1\nLH:1", "\n")

	first, err := Aggregate(lines)
	require.NoError(t, err)
	second, err := Aggregate(lines)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("metrics differ between runs (-first +second):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coverage.info")
	require.NoError(t, os.WriteFile(path, []byte("SF:a\nLF:4\nLH:4\nend_of_record\n"), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100.0, m.LineCoverage)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.info"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, def.ErrNotFound))
}

func TestEncodeRoundTrip(t *testing.T) {
	original, err := Aggregate([]string{
		"SF:src/b.c", "FNF:3", "FNH:1", "LF:9", "LH:3",
		"SF:src/a.c", "FNF:1", "FNH:1", "LF:4", "LH:4",
		"BRF:6", "BRH:5",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, original))
	assert.True(t, strings.HasPrefix(buf.String(), "SF:src/a.c\n"))

	decoded, err := Parse(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Errorf("round trip changed metrics (-want +got):\n%s", diff)
	}
}
