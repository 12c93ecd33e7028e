package perf

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/google/pprof/profile"

	"github.com/nyg123/go_verify/def"
)

// LoadPprof computes the flat CPU share of each leaf function in a pprof
// profile. The "cpu" sample type is used when present, else the last one.
func LoadPprof(r io.Reader) (map[string]float64, error) {
	p, err := profile.Parse(r)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parse pprof profile"), def.ErrParse)
	}
	if len(p.SampleType) == 0 {
		return nil, errors.Wrap(def.ErrInvalidInput, "pprof profile has no sample types")
	}
	idx := len(p.SampleType) - 1
	for i, st := range p.SampleType {
		if st.Type == "cpu" {
			idx = i
		}
	}

	flat := map[string]int64{}
	var total int64
	for _, s := range p.Sample {
		v := s.Value[idx]
		total += v
		if len(s.Location) == 0 || len(s.Location[0].Line) == 0 || s.Location[0].Line[0].Function == nil {
			continue
		}
		// Line[0] is the innermost frame when calls were inlined.
		flat[s.Location[0].Line[0].Function.Name] += v
	}

	cpu := make(map[string]float64, len(flat))
	if total == 0 {
		return cpu, nil
	}
	for fn, v := range flat {
		cpu[fn] = float64(v) * 100 / float64(total)
	}
	return cpu, nil
}
