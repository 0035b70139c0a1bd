// Package cmd wires the toolscout commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/toolscout/internal/config"
	"github.com/jonesrussell/toolscout/internal/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "toolscout",
	Short: "AI tools directory service and automation pipeline",
	Long: `toolscout serves the catalog REST API and runs the automation
pipeline that keeps it populated: search-based discovery, scraping,
LLM classification, metrics snapshots, and catalog refresh.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml",
		"path to the configuration file")
}

// loadConfig loads configuration and builds the logger from it.
func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}
