package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/hrumbles/candidate-pipeline/internal/api/dto"
	"github.com/hrumbles/candidate-pipeline/internal/service"
)

var classifyCmd = &cobra.Command{
	Use:   "classify NEW_STATUS [OLD_STATUS]",
	Short: "Show how a move to a status name is classified",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldStatus := ""
		if len(args) == 2 {
			oldStatus = args[1]
		}
		result := service.NewCatalogService(nil, nil).Classify(oldStatus, args[0])

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewClassifyResponse(result))
	},
}
