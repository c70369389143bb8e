package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/BWBrook/mewc-table/internal/config"
	"github.com/BWBrook/mewc-table/internal/pipeline"
)

func newConsolidateCommand(ctx *commandContext) *cobra.Command {
	var snipSortPath string

	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Build the curated table from raw classifier exports",
		Long: "Scans the service directory for per-site classifier exports, folds in the\n" +
			"expert snip sort, drops false detections, segments independent events, and\n" +
			"writes the curated table in both CSV and SQLite form.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			snips, err := config.ExpandPath(snipSortPath)
			if err != nil {
				return fmt.Errorf("resolve snip-sort path: %w", err)
			}

			summary, err := pipeline.Consolidate(cmd.Context(), pipeline.ConsolidateRequest{
				ServiceDir:      cfg.Paths.ServiceDir,
				SnipSortPath:    snips,
				OutputTable:     cfg.Paths.OutputTable,
				Interval:        cfg.EventInterval(),
				ProbThreshold:   cfg.Events.LowConfidenceProbThreshold,
				DropUnparseable: cfg.Table.DropUnparseable,
			}, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummary([][2]string{
				{"Exports read", strconv.Itoa(summary.Files)},
				{"Input rows", strconv.Itoa(summary.InputRows)},
				{"Snip-sort updates", strconv.Itoa(summary.Updated)},
				{"False detections dropped", strconv.Itoa(summary.Dropped)},
				{"Events", strconv.Itoa(summary.Events)},
				{"Unsegmented rows", strconv.Itoa(summary.Unsegmented)},
				{"Unknowns inferred", strconv.Itoa(summary.Inferred)},
				{"Table rows", strconv.Itoa(summary.Rows)},
			}))
			fmt.Fprintf(out, "Curated table written to %s.csv and %s.db\n",
				cfg.Paths.OutputTable, cfg.Paths.OutputTable)
			return nil
		},
	}

	cmd.Flags().StringVar(&snipSortPath, "snip-sort", "", "Snip-sort manifest (rand_name,class_name)")
	_ = cmd.MarkFlagRequired("snip-sort")
	return cmd
}
