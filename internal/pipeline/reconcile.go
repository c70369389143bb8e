package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/BWBrook/mewc-table/internal/count"
	"github.com/BWBrook/mewc-table/internal/event"
	"github.com/BWBrook/mewc-table/internal/fileutil"
	"github.com/BWBrook/mewc-table/internal/logging"
	"github.com/BWBrook/mewc-table/internal/merge"
	"github.com/BWBrook/mewc-table/internal/table"
	"github.com/BWBrook/mewc-table/internal/tablestore"
)

// ReconcileRequest carries everything the reconciliation run needs.
type ReconcileRequest struct {
	OutputTable     string
	CorrectionsPath string
	Interval        time.Duration
	ProbThreshold   float64
}

// ReconcileSummary reports what the run did.
type ReconcileSummary struct {
	RunID       string
	InputRows   int
	Confirmed   int
	Updated     int
	Appended    int
	Skipped     int
	Events      int
	Unsegmented int
	Inferred    int
	Collapsed   int
	MaxCount    int
	Rows        int
}

// Reconcile folds folder-level expert corrections into an existing table,
// re-segments it by gap only, resolves remaining unknowns, and aggregates
// per-image counts.
func Reconcile(ctx context.Context, req ReconcileRequest, logger *slog.Logger) (ReconcileSummary, error) {
	summary := ReconcileSummary{RunID: uuid.NewString()}
	logger = logger.With(logging.FieldRunID, summary.RunID)

	release, err := acquireLock(req.OutputTable + ".lock")
	if err != nil {
		return summary, err
	}
	defer release()

	stage := logger.With(logging.FieldStage, "load_table")
	tbl, err := tablestore.Load(ctx, req.OutputTable)
	if err != nil {
		return summary, err
	}
	summary.InputRows = tbl.Len()
	stage.Info("table loaded", "rows", tbl.Len())

	stage = logger.With(logging.FieldStage, "reconcile")
	corrections, err := merge.LoadCorrections(req.CorrectionsPath, stage)
	if err != nil {
		return summary, err
	}
	outcome, err := merge.Reconcile(tbl, corrections, stage)
	if err != nil {
		return summary, err
	}
	summary.Confirmed = outcome.Confirmed
	summary.Updated = outcome.Updated
	summary.Appended = outcome.Appended
	summary.Skipped = outcome.Skipped

	stage = logger.With(logging.FieldStage, "segment")
	stats, err := event.SegmentByGap(tbl, req.Interval)
	if err != nil {
		return summary, err
	}
	summary.Events = stats.Events
	summary.Unsegmented = stats.Unsegmented
	stage.Info("events segmented",
		"sites", stats.Sites, "events", stats.Events, "unsegmented", stats.Unsegmented)

	stage = logger.With(logging.FieldStage, "resolve_unknowns")
	inferred, err := event.ResolveUnknowns(tbl, req.ProbThreshold, table.ProvenanceInferredRecheck, stage)
	if err != nil {
		return summary, err
	}
	summary.Inferred = inferred

	stage = logger.With(logging.FieldStage, "aggregate")
	countStats, err := count.Aggregate(tbl, stage)
	if err != nil {
		return summary, err
	}
	summary.Collapsed = countStats.Collapsed
	summary.MaxCount = countStats.MaxCount

	stage = logger.With(logging.FieldStage, "save")
	csvPath := req.OutputTable + ".csv"
	if _, statErr := os.Stat(csvPath); statErr == nil {
		backup := fileutil.SnapshotPath(csvPath)
		if err := fileutil.Snapshot(csvPath, backup); err != nil {
			return summary, err
		}
		stage.Info("previous table backed up", "path", backup)
	}
	if err := tablestore.Save(ctx, req.OutputTable, tbl, stage); err != nil {
		return summary, err
	}
	summary.Rows = tbl.Len()

	logger.Info("reconciliation complete",
		"rows", summary.Rows,
		"updated", summary.Updated,
		"appended", summary.Appended)
	return summary, nil
}
