package main

import (
	"os"
	"strings"

	log "github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/jinzhu/configor"
	"github.com/spf13/cobra"

	"github.com/nyg123/go_verify/def"
	"github.com/nyg123/go_verify/logger"
)

const envPrefix = "GO_VERIFY"

var configPath string

var logLevel string

var Config = def.Config{}

// globalLogger is replaced once the configuration is loaded.
var globalLogger = logger.New(os.Stderr, "info")

func main() {
	os.Exit(exitCode(newRootCmd().Execute()))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "go_verify",
		Short:         "Coverage and performance gates for the QA pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "unitConf.json", "config file (json, yaml or toml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newCoverageCmd(), newProfileCmd())
	return root
}

// loadConfig fills Config from the config file, GO_VERIFY_* variables and
// defaults. A missing config file leaves the defaults in place.
func loadConfig() error {
	Config = def.Config{}
	loader := configor.New(&configor.Config{ENVPrefix: envPrefix, Silent: true})
	if err := loader.Load(&Config, configPath); err != nil {
		return errors.Wrapf(err, "load config %s", configPath)
	}
	if logLevel != "" {
		Config.LogLevel = logLevel
	}
	globalLogger = logger.New(os.Stderr, Config.LogLevel)
	globalLogger.Debug("Configuration loaded", "file", configPath, "format", Config.Format, "component", Config.Component)
	return nil
}

// exitCode reports err and maps it to the process exit status. A failed
// validation has already been summarized and exits quietly.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, def.ErrValidationFailed) {
		printError(globalLogger, err)
	}
	return 1
}

func printError(l *log.Logger, err error) {
	l.Error(err.Error())
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		l.Info("Hint: " + strings.Join(hints, "; "))
	}
}
