package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hrumbles/candidate-pipeline/internal/persistence"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return err
		}
		defer pg.Close()

		dir := cfg.Postgres.MigrationsDir
		if migrationsDir != "" {
			dir = migrationsDir
		}
		applied, err := persistence.RunMigrations(ctx, pg.PoolHandle(), dir, logger)
		if err != nil {
			return err
		}
		logger.Info("db migrated", zap.Int("applied", applied), zap.String("dir", dir))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "", "Directory holding *.sql migrations (defaults to MIGRATIONS_DIR)")
}
