package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/BWBrook/mewc-table/internal/config"
	"github.com/BWBrook/mewc-table/internal/sitestats"
	"github.com/BWBrook/mewc-table/internal/table"
	"github.com/BWBrook/mewc-table/internal/tablestore"
)

func newSitesCommand(ctx *commandContext) *cobra.Command {
	var siteTablePath string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Derive per-site operating statistics from the curated table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			basePath := siteTablePath
			if basePath == "" {
				basePath = cfg.Paths.SiteTable
			}
			if basePath == "" {
				return errors.New("no site table configured; set paths.site_table or pass --site-table")
			}
			basePath, err = config.ExpandPath(basePath)
			if err != nil {
				return fmt.Errorf("resolve site table path: %w", err)
			}

			base, err := sitestats.LoadBaseSites(basePath)
			if err != nil {
				return err
			}
			tbl, err := tablestore.Load(cmd.Context(), cfg.Paths.OutputTable)
			if err != nil {
				return err
			}
			stats, err := sitestats.Compute(base, tbl, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(stats))
			for _, s := range stats {
				rows = append(rows, []string{
					s.Site,
					table.FormatTimestamp(s.FirstDetection),
					table.FormatTimestamp(s.LastDetection),
					strconv.Itoa(s.OpDays),
					strconv.Itoa(s.Detections),
					strconv.Itoa(s.Events),
					strconv.Itoa(s.Species),
					strconv.Itoa(s.DaysWithDetection),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]column{
					{name: "Site"},
					{name: "First"},
					{name: "Last"},
					{name: "Op days", numeric: true},
					{name: "Detections", numeric: true},
					{name: "Events", numeric: true},
					{name: "Species", numeric: true},
					{name: "Days w/ detection", numeric: true},
				},
				rows))

			if outputPath != "" {
				target, err := config.ExpandPath(outputPath)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				if err := sitestats.WriteCSV(target, stats); err != nil {
					return err
				}
				fmt.Fprintf(out, "Site statistics written to %s\n", target)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&siteTablePath, "site-table", "", "Base site CSV (camera_site,lat,lon)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the statistics to a CSV file")
	return cmd
}
