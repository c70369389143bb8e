package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/BWBrook/mewc-table/internal/config"
	"github.com/BWBrook/mewc-table/internal/pipeline"
)

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var correctionsPath string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Fold expert folder corrections into the curated table",
		Long: "Loads the existing curated table, applies a correction manifest keyed by\n" +
			"(camera_site, base filename), re-segments events by time gap, aggregates\n" +
			"per-image counts, and rewrites both table forms.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			corrections, err := config.ExpandPath(correctionsPath)
			if err != nil {
				return fmt.Errorf("resolve corrections path: %w", err)
			}

			summary, err := pipeline.Reconcile(cmd.Context(), pipeline.ReconcileRequest{
				OutputTable:     cfg.Paths.OutputTable,
				CorrectionsPath: corrections,
				Interval:        cfg.EventInterval(),
				ProbThreshold:   cfg.Events.LowConfidenceProbThreshold,
			}, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummary([][2]string{
				{"Input rows", strconv.Itoa(summary.InputRows)},
				{"Confirmed", strconv.Itoa(summary.Confirmed)},
				{"Updated", strconv.Itoa(summary.Updated)},
				{"Appended", strconv.Itoa(summary.Appended)},
				{"Skipped (other_object)", strconv.Itoa(summary.Skipped)},
				{"Events", strconv.Itoa(summary.Events)},
				{"Unknowns inferred", strconv.Itoa(summary.Inferred)},
				{"Groups collapsed", strconv.Itoa(summary.Collapsed)},
				{"Largest count", strconv.Itoa(summary.MaxCount)},
				{"Table rows", strconv.Itoa(summary.Rows)},
			}))
			fmt.Fprintf(out, "Curated table rewritten at %s.csv and %s.db\n",
				cfg.Paths.OutputTable, cfg.Paths.OutputTable)
			return nil
		},
	}

	cmd.Flags().StringVar(&correctionsPath, "corrections", "",
		"Correction manifest (camera_site,filename,class_name[,timestamp,source])")
	_ = cmd.MarkFlagRequired("corrections")
	return cmd
}
