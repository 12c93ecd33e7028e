package main

import (
	"io"
	"os"

	log "github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/nyg123/go_verify/def"
	"github.com/nyg123/go_verify/perf"
	"github.com/nyg123/go_verify/report"
)

type profileOptions struct {
	latencies    string
	perfReport   string
	pprof        string
	stats        string
	opsPerSec    float64
	memoryGrowth float64
	output       string

	// set when the matching flag was given
	hasOpsPerSec    bool
	hasMemoryGrowth bool
}

func newProfileCmd() *cobra.Command {
	var opts profileOptions
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Analyze latency samples and CPU hotspots against performance targets",
		Long: `Summarize a latency sample file (one value in microseconds per line), check
throughput, p99 latency and memory growth against the targets, and rank CPU
hotspots from a perf report or a pprof CPU profile.

Throughput and memory growth come from --ops-per-sec and --memory-growth, or
from a --stats JSON file with ops_per_sec and memory_growth_percent members.
Flags take precedence over the file, and the p99 measured from the samples
takes precedence over a p99 member. Unmeasured inputs fail their target.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.hasOpsPerSec = cmd.Flags().Changed("ops-per-sec")
			opts.hasMemoryGrowth = cmd.Flags().Changed("memory-growth")
			return runProfile(cmd.OutOrStdout(), opts, globalLogger)
		},
	}
	cmd.Flags().StringVar(&opts.latencies, "latencies", "", "file of latency samples in microseconds")
	cmd.Flags().StringVar(&opts.perfReport, "perf-report", "", "text output of perf report")
	cmd.Flags().StringVar(&opts.pprof, "pprof", "", "pprof CPU profile")
	cmd.Flags().StringVar(&opts.stats, "stats", "", "JSON file of measured performance figures")
	cmd.Flags().Float64Var(&opts.opsPerSec, "ops-per-sec", 0, "measured throughput")
	cmd.Flags().Float64Var(&opts.memoryGrowth, "memory-growth", 0, "measured memory growth in percent")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "profile_analysis.json", "analysis output file")
	_ = cmd.MarkFlagRequired("latencies")
	cmd.MarkFlagsMutuallyExclusive("perf-report", "pprof")
	return cmd
}

func runProfile(w io.Writer, opts profileOptions, logger *log.Logger) error {
	samples, err := readFile(opts.latencies, perf.ReadSamples)
	if err != nil {
		return err
	}
	stats, err := perf.AnalyzeLatency(samples)
	if err != nil {
		return errors.Wrapf(err, "analyze %s", opts.latencies)
	}
	logger.Debug("Latency samples analyzed", "count", len(samples), "p99", stats.P99)

	var inputs def.PerfStats
	if opts.stats != "" {
		if inputs, err = readFile(opts.stats, perf.ReadStats); err != nil {
			return err
		}
	}
	inputs.P99 = &stats.P99
	if opts.hasOpsPerSec {
		inputs.OpsPerSec = &opts.opsPerSec
	}
	if opts.hasMemoryGrowth {
		inputs.MemoryGrowthPercent = &opts.memoryGrowth
	}
	if inputs.OpsPerSec == nil {
		logger.Info("Throughput not measured")
	}
	if inputs.MemoryGrowthPercent == nil {
		logger.Info("Memory growth not measured")
	}
	targets := perf.CheckTargets(inputs)

	var cpu map[string]float64
	switch {
	case opts.perfReport != "":
		cpu, err = readFile(opts.perfReport, perf.ParsePerfReport)
	case opts.pprof != "":
		cpu, err = readFile(opts.pprof, perf.LoadPprof)
	}
	if err != nil {
		return err
	}

	doc := report.NewProfileAnalysis(stats, inputs, targets, perf.Hotspots(cpu), perf.Recommend(cpu))
	report.PrintProfile(w, doc)
	if err := report.WriteProfileAnalysis(opts.output, doc); err != nil {
		return err
	}
	logger.Info("Analysis saved", "file", opts.output)
	return nil
}

// readFile opens path and hands it to parse.
func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = errors.Mark(err, def.ErrNotFound)
		}
		return zero, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	v, err := parse(f)
	if err != nil {
		return zero, errors.Wrapf(err, "parse %s", path)
	}
	return v, nil
}
