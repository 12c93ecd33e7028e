package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// coverageColor picks a color for a coverage percentage.
func coverageColor(coverage float64) lipgloss.Color {
	switch {
	case coverage >= 80:
		return lipgloss.Color("10")
	case coverage >= 60:
		return lipgloss.Color("11")
	case coverage >= 40:
		return lipgloss.Color("208")
	case coverage > 0:
		return lipgloss.Color("9")
	}
	return lipgloss.Color("245")
}

func divider() string {
	return mutedStyle.Render(strings.Repeat("=", wideRule))
}

// PrintSummary writes the terminal view of a coverage run. With detail set,
// the worst files are listed too.
func PrintSummary(w io.Writer, c Coverage, detail bool) {
	m, v := c.Metrics, c.Validation

	fmt.Fprintln(w, divider())
	fmt.Fprintln(w, headerStyle.Render("VALIDATION SUMMARY"))
	fmt.Fprintln(w, divider())
	fmt.Fprintf(w, "Line Coverage:     %s %s\n", percent(m.LineCoverage), mutedStyle.Render(fmt.Sprintf("(Target: %.1f%%)", v.LineCoverage.Target)))
	fmt.Fprintf(w, "Function Coverage: %s %s\n", percent(m.FunctionCoverage), mutedStyle.Render(fmt.Sprintf("(Target: %.0f%%)", v.FunctionCoverage.Target)))
	fmt.Fprintf(w, "Branch Coverage:   %s %s\n", percent(m.BranchCoverage), mutedStyle.Render(fmt.Sprintf("(Target: %.0f%%)", v.BranchCoverage.Target)))

	if c.Baseline != nil {
		fmt.Fprintln(w, "\nCoverage Change from Baseline:")
		fmt.Fprintf(w, "  Line:     %+.2f%%\n", c.Baseline.LineCoverageDiff)
		fmt.Fprintf(w, "  Function: %+.2f%%\n", c.Baseline.FunctionCoverageDiff)
		fmt.Fprintf(w, "  Branch:   %+.2f%%\n", c.Baseline.BranchCoverageDiff)
	}

	if detail {
		fmt.Fprintln(w, "\n"+headerStyle.Render("Lowest covered files"))
		for _, f := range WorstFiles(m, worstFileCount) {
			fmt.Fprintf(w, "  %-30s %s\n", filepath.Base(f.Path), percent(f.LineCoverage()))
		}
	}

	fmt.Fprintln(w, "\n"+divider())
	if v.Passed {
		fmt.Fprintln(w, passStyle.Render("✅ COVERAGE VALIDATION: PASSED"))
		if c.Component != "" {
			fmt.Fprintf(w, "Component %s meets all coverage requirements.\n", c.Component)
		}
		return
	}
	fmt.Fprintln(w, failStyle.Render("❌ COVERAGE VALIDATION: FAILED"))
	if c.Component != "" {
		fmt.Fprintf(w, "Component %s does not meet coverage requirements.\n", c.Component)
	}
	if issues := v.Issues(); len(issues) > 0 {
		fmt.Fprintln(w, "Issues:")
		for _, issue := range issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
}

func percent(v float64) string {
	return lipgloss.NewStyle().Foreground(coverageColor(v)).Render(fmt.Sprintf("%.2f%%", v))
}
