package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hrumbles/candidate-pipeline/internal/config"
	"github.com/hrumbles/candidate-pipeline/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:          "pipelinectl",
	Short:        "Operate the candidate status pipeline",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(invalidateCmd)
}

// loadRuntime reads configuration and builds the logger shared by subcommands.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
