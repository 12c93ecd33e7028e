// Package capture runs the external coverage-capture tool.
package capture

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/nyg123/go_verify/def"
)

// waitDelay bounds how long Run waits for pipes held open by children of a
// killed capture process.
const waitDelay = 5 * time.Second

// Args builds the capture command line for sourceDir and outputFile.
func Args(cfg def.CaptureConfig, sourceDir, outputFile string) []string {
	args := []string{"--capture", "--directory", sourceDir, "--output-file", outputFile, "--quiet"}
	return append(args, cfg.Args...)
}

// Run invokes the capture tool and waits for it, bounded by the configured
// timeout. Any failure, including a missing output file, is ErrExternalTool.
func Run(ctx context.Context, cfg def.CaptureConfig, sourceDir, outputFile string, logger *log.Logger) error {
	if timeout := cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	args := Args(cfg, sourceDir, outputFile)
	logger.Debug("Running coverage capture", "command", cfg.Command, "args", strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, cfg.Command, args...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = errors.Wrapf(ctx.Err(), "%s timed out after %s", cfg.Command, cfg.Timeout())
		} else if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = errors.Wrapf(err, "%s", msg)
		}
		err = errors.Mark(errors.Wrapf(err, "run %s", cfg.Command), def.ErrExternalTool)
		return errors.WithHint(err, "check that "+cfg.Command+" is installed and the source directory holds coverage data")
	}

	if _, err := os.Stat(outputFile); err != nil {
		return errors.Mark(errors.Wrapf(err, "%s produced no output", cfg.Command), def.ErrExternalTool)
	}
	return nil
}
