package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hrumbles/candidate-pipeline/internal/cache"
	"github.com/hrumbles/candidate-pipeline/internal/domain"
	"github.com/hrumbles/candidate-pipeline/internal/persistence"
)

var (
	invalidateOrganization string
	invalidatePipeline     string
)

type catalogInvalidator interface {
	Invalidate(ctx context.Context, scope domain.Scope) error
}

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop an organization's cached status catalogs",
	Long:  "Drop cached status catalogs after editing statuses in the database. Without --pipeline both pipelines are dropped.",
	RunE: func(cmd *cobra.Command, args []string) error {
		scopes, err := invalidationScopes(invalidateOrganization, invalidatePipeline)
		if err != nil {
			return err
		}

		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx := context.Background()
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()

		statuses := cache.NewStatusCache(nil, redis.ClientHandle(), cfg.Pipeline.CatalogCacheTTL, cfg.Redis.OpTimeout, logger)
		return invalidateCatalogs(ctx, statuses, scopes, cmd.OutOrStdout())
	},
}

func init() {
	invalidateCmd.Flags().StringVar(&invalidateOrganization, "org", "", "Organization id")
	invalidateCmd.Flags().StringVar(&invalidatePipeline, "pipeline", "", "Pipeline: recruitment or bgv (default both)")
	_ = invalidateCmd.MarkFlagRequired("org")
}

func invalidationScopes(org, pipelineName string) ([]domain.Scope, error) {
	if org == "" {
		return nil, fmt.Errorf("organization id is required")
	}
	pipelines := []domain.Pipeline{domain.PipelineRecruitment, domain.PipelineBgv}
	if pipelineName != "" {
		p := domain.Pipeline(pipelineName)
		if !p.Valid() {
			return nil, fmt.Errorf("unknown pipeline %q", pipelineName)
		}
		pipelines = []domain.Pipeline{p}
	}

	scopes := make([]domain.Scope, 0, len(pipelines))
	for _, p := range pipelines {
		scopes = append(scopes, domain.Scope{OrganizationID: org, Pipeline: p})
	}
	return scopes, nil
}

func invalidateCatalogs(ctx context.Context, inv catalogInvalidator, scopes []domain.Scope, w io.Writer) error {
	for _, scope := range scopes {
		if err := inv.Invalidate(ctx, scope); err != nil {
			return fmt.Errorf("invalidate %s: %w", cache.Key(scope), err)
		}
		fmt.Fprintf(w, "invalidated %s\n", cache.Key(scope))
	}
	return nil
}
