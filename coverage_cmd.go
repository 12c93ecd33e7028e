package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/nyg123/go_verify/coverage/capture"
	_go "github.com/nyg123/go_verify/coverage/go"
	"github.com/nyg123/go_verify/coverage/lcov"
	"github.com/nyg123/go_verify/coverage/php"
	"github.com/nyg123/go_verify/def"
	"github.com/nyg123/go_verify/gate"
	"github.com/nyg123/go_verify/report"
)

func newCoverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage <source_directory> [target_coverage]",
		Short: "Capture, validate and report coverage for a component",
		Long: `Capture coverage for a source directory, validate it against the quality gates,
compare it with the stored baseline and write a timestamped report.

Line coverage must reach the target (default 75%) and every critical file must be
fully covered. Function and branch coverage are reported but do not fail the run.
The baseline is replaced only when validation passes.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			Config.Path = args[0]
			if len(args) > 1 {
				target, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return errors.Mark(errors.Wrapf(err, "target coverage %q", args[1]), def.ErrInvalidInput)
				}
				Config.LineTarget = target
			}
			return runCoverage(cmd, Config, time.Now(), globalLogger)
		},
	}
}

func runCoverage(cmd *cobra.Command, cfg def.Config, now time.Time, logger *log.Logger) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "COVERAGE VALIDATION FOR %s\n", cfg.Component)

	metrics, snapshot, err := getCoverage(cmd, cfg, now, logger)
	if err != nil {
		return err
	}

	logger.Info("Validating coverage targets", "line_target", cfg.LineTarget)
	validation := gate.Validate(metrics, cfg.LineTarget)

	baselinePath := gate.BaselinePath(cfg.CoverageDir, cfg.Component)
	result := report.Coverage{
		Component:  cfg.Component,
		Metrics:    metrics,
		Validation: validation,
		Generated:  now,
	}
	if cmp, ok := gate.CompareBaseline(metrics, baselinePath, logger); ok {
		result.Baseline = &cmp
	}

	// The report is advisory; failing to write it does not change the verdict.
	if path, err := report.WriteCoverage(cfg.ReportDir, result); err != nil {
		logger.Error("Failed to write report", "error", err)
	} else {
		logger.Info("Report saved", "file", path)
	}

	report.PrintSummary(out, result, cfg.ShowDetail)

	if !validation.Passed {
		return errors.Wrapf(def.ErrValidationFailed, "component %s", cfg.Component)
	}
	if err := gate.SaveBaseline(baselinePath, snapshot); err != nil {
		logger.Error("Failed to save baseline", "error", err)
		return nil
	}
	logger.Info("New baseline saved", "file", baselinePath)
	return nil
}

// getCoverage loads the metrics for the configured format and returns the
// record-format snapshot to keep as baseline.
func getCoverage(cmd *cobra.Command, cfg def.Config, now time.Time, logger *log.Logger) (def.CoverageMetrics, []byte, error) {
	var metrics def.CoverageMetrics
	var err error
	switch cfg.Format {
	case def.FormatLcov:
		return getLcovCoverage(cmd, cfg, now, logger)
	case def.FormatGo:
		metrics, err = _go.GetCoverage(cfg)
	case def.FormatPhp:
		metrics, err = php.GetCoverage(cfg)
	default:
		return def.CoverageMetrics{}, nil, errors.Wrapf(def.ErrUnsupportedFormat, "%q", cfg.Format)
	}
	if err != nil {
		return def.CoverageMetrics{}, nil, errors.Wrapf(err, "%s coverage", cfg.Format)
	}
	var snapshot bytes.Buffer
	if err := lcov.Encode(&snapshot, metrics); err != nil {
		return def.CoverageMetrics{}, nil, err
	}
	return metrics, snapshot.Bytes(), nil
}

func getLcovCoverage(cmd *cobra.Command, cfg def.Config, now time.Time, logger *log.Logger) (def.CoverageMetrics, []byte, error) {
	file := filepath.Join(cfg.Path, cfg.CoveragePath)
	if cfg.CoveragePath == "" {
		if err := os.MkdirAll(cfg.CoverageDir, def.DefaultDirPerms); err != nil {
			return def.CoverageMetrics{}, nil, errors.Wrap(err, "create coverage directory")
		}
		file = filepath.Join(cfg.CoverageDir, fmt.Sprintf("coverage_%s_%s.info", cfg.Component, report.Timestamp(now)))
		logger.Info("Generating coverage data", "source", cfg.Path, "output", file)
		if err := capture.Run(cmd.Context(), cfg.Capture, cfg.Path, file, logger); err != nil {
			return def.CoverageMetrics{}, nil, err
		}
	}

	logger.Info("Parsing coverage metrics", "file", file)
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = errors.Mark(err, def.ErrNotFound)
		}
		return def.CoverageMetrics{}, nil, errors.Wrap(err, "read coverage data")
	}
	metrics, err := lcov.Parse(bytes.NewReader(data))
	if err != nil {
		return def.CoverageMetrics{}, nil, errors.Wrapf(err, "parse %s", file)
	}
	return metrics, data, nil
}
