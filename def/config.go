package def

import "time"

// Supported coverage input formats.
const (
	FormatLcov = "lcov"
	FormatGo   = "go"
	FormatPhp  = "php"
)

type Config struct {
	Path           string        `json:"path" yaml:"path"`                                             // source directory handed to the capture tool
	CoveragePath   string        `json:"coverage_path" yaml:"coverage_path"`                           // pre-captured coverage file, relative to Path; skips capture when set
	Format         string        `json:"format" yaml:"format" default:"lcov"`                          // lcov, go or php
	CoveragePrefix string        `json:"coverage_prefix" yaml:"coverage_prefix"`                       // prefix stripped from file names in go/php profiles
	UnitExclude    []string      `json:"unit_exclude" yaml:"unit_exclude"`                             // regexps of files left out of go/php coverage
	Component      string        `json:"component" yaml:"component" default:"INTG-001"`                // baseline key
	CoverageDir    string        `json:"coverage_dir" yaml:"coverage_dir" default:"coverage"`          // captured data and baselines
	ReportDir      string        `json:"report_dir" yaml:"report_dir" default:"reports"`               // timestamped reports
	LineTarget     float64       `json:"line_target" yaml:"line_target" default:"75"`                  // global line coverage gate
	ShowDetail     bool          `json:"show_detail" yaml:"show_detail"`                               // print the per-file breakdown on the terminal
	LogLevel       string        `json:"log_level" yaml:"log_level" default:"info"`                    // debug, info, warn, error
	Capture        CaptureConfig `json:"capture" yaml:"capture"`
}

type CaptureConfig struct {
	Command        string   `json:"command" yaml:"command" default:"lcov"`
	Args           []string `json:"args" yaml:"args"`                                    // appended after the standard capture flags
	TimeoutSeconds int      `json:"timeout_seconds" yaml:"timeout_seconds" default:"300"` // 300 when omitted; 0 or negative disables the limit
}

// Timeout returns the capture deadline, zero when disabled.
func (c CaptureConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
