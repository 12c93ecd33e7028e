package lcov

import (
	"bufio"
	"fmt"
	"io"
	"slices"

	"github.com/samber/lo"

	"github.com/nyg123/go_verify/def"
)

// Encode writes m as coverage-info records. Parsing the output gives back m
// as long as its global counters equal the sum of its files.
func Encode(w io.Writer, m def.CoverageMetrics) error {
	bw := bufio.NewWriter(w)
	paths := lo.Keys(m.Files)
	slices.Sort(paths)
	for _, path := range paths {
		f := m.Files[path]
		fmt.Fprintf(bw, "%s%s\n", prefixSourceFile, path)
		fmt.Fprintf(bw, "%s%d\n", prefixFunctionsFound, f.FunctionsFound)
		fmt.Fprintf(bw, "%s%d\n", prefixFunctionsHit, f.FunctionsHit)
		fmt.Fprintf(bw, "%s%d\n", prefixLinesFound, f.LinesFound)
		fmt.Fprintf(bw, "%s%d\n", prefixLinesHit, f.LinesHit)
		fmt.Fprintln(bw, "end_of_record")
	}
	if m.BranchesFound > 0 || m.BranchesHit > 0 {
		fmt.Fprintf(bw, "%s%d\n", prefixBranchesFound, m.BranchesFound)
		fmt.Fprintf(bw, "%s%d\n", prefixBranchesHit, m.BranchesHit)
	}
	return bw.Flush()
}
