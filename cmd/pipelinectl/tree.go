package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hrumbles/candidate-pipeline/internal/api/dto"
	"github.com/hrumbles/candidate-pipeline/internal/domain"
	"github.com/hrumbles/candidate-pipeline/internal/persistence"
	"github.com/hrumbles/candidate-pipeline/internal/repository"
	"github.com/hrumbles/candidate-pipeline/internal/service"
)

var (
	treeOrganization string
	treePipeline     string
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print an organization's status catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		scope := domain.Scope{OrganizationID: treeOrganization, Pipeline: domain.Pipeline(treePipeline)}

		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx := context.Background()
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return err
		}
		defer pg.Close()

		catalog := service.NewCatalogService(repository.NewStatusRepository(pg.PoolHandle()), logger)
		tree, err := catalog.LoadStatusTree(ctx, scope)
		if err != nil {
			return err
		}
		printTree(cmd.OutOrStdout(), dto.NewStatusTreeResponse(scope.Pipeline, tree))
		return nil
	},
}

func init() {
	treeCmd.Flags().StringVar(&treeOrganization, "org", "", "Organization id")
	treeCmd.Flags().StringVar(&treePipeline, "pipeline", string(domain.PipelineRecruitment), "Pipeline: recruitment or bgv")
	_ = treeCmd.MarkFlagRequired("org")
}

func printTree(w io.Writer, tree []dto.MainStatusResponse) {
	for _, main := range tree {
		fmt.Fprintf(w, "%s (%s)\n", main.Name, main.ID)
		for _, sub := range main.Subs {
			marker := ""
			if sub.Terminal {
				marker = " [terminal]"
			}
			fmt.Fprintf(w, "  - %s (%s) interaction=%s%s\n", sub.Name, sub.ID, sub.InteractionType, marker)
		}
	}
}
