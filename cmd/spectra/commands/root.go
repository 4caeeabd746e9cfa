package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/spectra"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spectra",
	Short: "Vector store and transform pipeline playground",
	Long: `spectra is a CLI for the spectra vector store and transform pipeline.

The run command pushes generated vectors through the transform chain and
stores each filtered result with its stage metrics. The bench command
measures raw insert and query latency of the store.

Example:
  spectra run --kind sparse --count 5
  spectra bench --ops 100 --config config.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(benchCmd)
}

// newLogger builds the logger selected by the root flags.
func newLogger() (*spectra.Logger, error) {
	var level slog.Level

	switch flagLogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q (expected debug, info, warn or error)", flagLogLevel)
	}

	switch flagLogFormat {
	case "text":
		return spectra.NewTextLogger(level), nil
	case "json":
		return spectra.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (expected text or json)", flagLogFormat)
	}
}
