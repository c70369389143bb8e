package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/BWBrook/mewc-table/internal/report"
	"github.com/BWBrook/mewc-table/internal/table"
	"github.com/BWBrook/mewc-table/internal/tablestore"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Summarize the curated table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tbl, err := tablestore.Load(cmd.Context(), cfg.Paths.OutputTable)
			if err != nil {
				return err
			}
			summary := report.Summarize(tbl)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Table: %s (%d rows, %d sites, %d species, %d events)\n",
				cfg.Paths.OutputTable, summary.Rows, summary.Sites, summary.Species, summary.Events)
			if !summary.FirstSeen.IsZero() {
				fmt.Fprintf(out, "Detections span %s to %s\n",
					table.FormatTimestamp(summary.FirstSeen), table.FormatTimestamp(summary.LastSeen))
			}
			if summary.Unsegmented > 0 {
				fmt.Fprintf(out, "%d row(s) carry no usable timestamp and remain unsegmented\n",
					summary.Unsegmented)
			}

			classRows := make([][]string, 0, len(summary.Classes))
			for _, c := range summary.Classes {
				classRows = append(classRows, []string{
					c.ClassName,
					strconv.Itoa(c.Rows),
					strconv.Itoa(c.Animals),
					strconv.Itoa(c.Events),
					strconv.Itoa(c.Sites),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]column{
					{name: "Class"},
					{name: "Rows", numeric: true},
					{name: "Animals", numeric: true},
					{name: "Events", numeric: true},
					{name: "Sites", numeric: true},
				},
				classRows))

			provRows := make([][]string, 0, len(summary.Provenance))
			for _, p := range summary.Provenance {
				provRows = append(provRows, []string{
					p.Provenance.String(),
					strconv.Itoa(p.Rows),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]column{{name: "Provenance"}, {name: "Rows", numeric: true}},
				provRows))
			return nil
		},
	}
}
