package def

import (
	"encoding/xml"
	"fmt"
	"slices"
)

// Percentage returns 100*hit/found, or 0 when nothing was found.
func Percentage(hit, found int) float64 {
	if found <= 0 {
		return 0
	}
	return float64(hit) * 100 / float64(found)
}

type FileCoverage struct {
	Path           string
	LinesFound     int
	LinesHit       int
	FunctionsFound int
	FunctionsHit   int
}

func (f FileCoverage) LineCoverage() float64 {
	return Percentage(f.LinesHit, f.LinesFound)
}

// CoverageMetrics holds the aggregate counters of one coverage capture.
// Global counters are summed from every count directive, per-file counters are
// the last value reported inside that file's section, so the two can diverge
// when a section repeats a directive.
type CoverageMetrics struct {
	LinesFound     int
	LinesHit       int
	FunctionsFound int
	FunctionsHit   int
	BranchesFound  int
	BranchesHit    int
	Files          map[string]FileCoverage

	LineCoverage     float64
	FunctionCoverage float64
	BranchCoverage   float64
}

func NewCoverageMetrics() CoverageMetrics {
	return CoverageMetrics{Files: map[string]FileCoverage{}}
}

// Finalize derives the percentage fields from the counters.
func (m *CoverageMetrics) Finalize() {
	m.LineCoverage = Percentage(m.LinesHit, m.LinesFound)
	m.FunctionCoverage = Percentage(m.FunctionsHit, m.FunctionsFound)
	m.BranchCoverage = Percentage(m.BranchesHit, m.BranchesFound)
}

// Check is the outcome of comparing one metric against its target.
type Check struct {
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
	Passed bool    `json:"passed"`
}

type CriticalPath struct {
	File     string  `json:"file"`
	Coverage float64 `json:"coverage"`
	Passed   bool    `json:"passed"`
}

type ValidationResult struct {
	Passed           bool           `json:"passed"`
	LineCoverage     Check          `json:"line_coverage"`
	FunctionCoverage Check          `json:"function_coverage"`
	BranchCoverage   Check          `json:"branch_coverage"`
	CriticalPaths    []CriticalPath `json:"critical_paths"`
}

// Issues lists the findings worth printing after a failed validation.
// Branch coverage is advisory and never listed.
func (v ValidationResult) Issues() []string {
	var issues []string
	if !v.LineCoverage.Passed {
		issues = append(issues, "Line coverage below "+formatTarget(v.LineCoverage.Target))
	}
	if !v.FunctionCoverage.Passed {
		issues = append(issues, "Function coverage below "+formatTarget(v.FunctionCoverage.Target))
	}
	for _, c := range v.CriticalPaths {
		if !c.Passed {
			issues = append(issues, "Critical file "+c.File+" below 100%")
		}
	}
	return issues
}

func formatTarget(t float64) string {
	return fmt.Sprintf("%.1f%%", t)
}

type BaselineComparison struct {
	LineCoverageDiff     float64 `json:"line_coverage_diff"`
	FunctionCoverageDiff float64 `json:"function_coverage_diff"`
	BranchCoverageDiff   float64 `json:"branch_coverage_diff"`
	Improved             bool    `json:"improved"`
}

// Clover XML as written by PHPUnit --coverage-clover.
type Coverage struct {
	XMLName   xml.Name  `xml:"coverage"`
	Generated int64     `xml:"generated,attr"`
	Project   []Project `xml:"project"`
}

type Project struct {
	XMLName xml.Name  `xml:"project"`
	File    []File    `xml:"file"`
	Package []Package `xml:"package"`
}

// Files returns the files at project level followed by those nested in
// namespace packages.
func (p Project) Files() []File {
	files := slices.Clone(p.File)
	for _, pkg := range p.Package {
		files = append(files, pkg.File...)
	}
	return files
}

// Package groups the files of one namespace.
type Package struct {
	XMLName xml.Name `xml:"package"`
	Name    string   `xml:"name,attr"`
	File    []File   `xml:"file"`
}

type File struct {
	XMLName xml.Name `xml:"file"`
	Name    string   `xml:"name,attr"`
	Line    []Line   `xml:"line"`
}

type Line struct {
	XMLName xml.Name `xml:"line"`
	Num     int32    `xml:"num,attr"`
	Type    string   `xml:"type,attr"`
	Count   int      `xml:"count,attr"`
}
