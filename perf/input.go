package perf

import (
	"bufio"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/nyg123/go_verify/def"
)

// ReadSamples reads whitespace separated latency samples. Lines starting with
// '#' are comments. Lines may be of any length. NaN and infinite values are
// rejected.
func ReadSamples(r io.Reader) ([]float64, error) {
	var samples []float64
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "read samples")
		}
		if trimmed := strings.TrimSpace(line); !strings.HasPrefix(trimmed, "#") {
			for _, field := range strings.Fields(trimmed) {
				v, perr := strconv.ParseFloat(field, 64)
				if perr != nil {
					return nil, errors.Mark(errors.Wrapf(perr, "line %d: bad sample %q", n, field), def.ErrParse)
				}
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, errors.Wrapf(def.ErrParse, "line %d: sample %q is not finite", n, field)
				}
				samples = append(samples, v)
			}
		}
		if err != nil {
			return samples, nil
		}
	}
}

// ParsePerfReport extracts per-symbol overhead from `perf report --stdio`
// output. Only rows whose first column is a percentage are used; the symbol
// is the last column. A symbol seen twice keeps its last value.
func ParsePerfReport(r io.Reader) (map[string]float64, error) {
	results := map[string]float64{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "%") || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 5 {
			continue
		}
		pct, ok := strings.CutSuffix(parts[0], "%")
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			continue
		}
		results[parts[len(parts)-1]] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read perf report")
	}
	return results, nil
}

// ReadStats decodes a JSON object of measured performance figures, such as
// {"ops_per_sec": 250000, "memory_growth_percent": 4.2}. Non-numeric members
// are ignored.
func ReadStats(r io.Reader) (def.PerfStats, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return def.PerfStats{}, errors.Mark(errors.Wrap(err, "decode stats"), def.ErrParse)
	}
	numbers := lo.MapValues(lo.PickBy(raw, func(_ string, v any) bool {
		_, ok := v.(float64)
		return ok
	}), func(v any, _ string) float64 { return v.(float64) })
	return def.PerfStatsFromMap(numbers), nil
}
