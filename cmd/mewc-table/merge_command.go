package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BWBrook/mewc-table/internal/datamerge"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Merge exported data tables into one CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			result, err := datamerge.Merge(cfg.Paths.DataTablesDir, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Rejections) > 0 {
				rows := make([][]string, 0, len(result.Rejections))
				for _, r := range result.Rejections {
					rows = append(rows, []string{r.File, r.Reason})
				}
				fmt.Fprintln(out, renderTable([]column{{name: "Rejected"}, {name: "Reason"}}, rows))
			}
			fmt.Fprintf(out, "Merged %d file(s), %d row(s) into %s\n",
				len(result.MergedFiles), result.Rows, result.OutputPath)
			return nil
		},
	}
}
