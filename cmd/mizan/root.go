package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mizan-hq/mizan/pkg/cli"
	"mizan-hq/mizan/pkg/config"
	"mizan-hq/mizan/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mizan",
	Short: "Mizan - governed-agent runtime and audit journal",
	Long: `Mizan is a governed-agent runtime core that evaluates inputs against
a prioritised rule set, records every decision in a hash-chained
append-only journal, and scores decisions against UAE compliance
frameworks (PDPL, AI Ethics, NESA, Dubai AI Law).

The mizan command supports:
  - Rule file validation and conflict detection
  - One-shot decision evaluation with journal append
  - Journal integrity verification
  - Journal export as CSV`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code mapped from the
// returned error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

// loadConfig resolves the runtime configuration. A missing config file
// is not an error; defaults plus environment overrides apply.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); err != nil {
		return config.EnvConfig(), nil
	}
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	return cfg, nil
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logCfg := cfg.Telemetry.Logging
		if verbose {
			logCfg.Level = "debug"
		}
		_, err = logging.Setup(logCfg, os.Stderr)
		return err
	}
}
