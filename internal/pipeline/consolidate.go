package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BWBrook/mewc-table/internal/event"
	"github.com/BWBrook/mewc-table/internal/logging"
	"github.com/BWBrook/mewc-table/internal/merge"
	"github.com/BWBrook/mewc-table/internal/table"
	"github.com/BWBrook/mewc-table/internal/tablestore"
)

// ConsolidateRequest carries everything the consolidation run needs; the
// driver reads no configuration itself.
type ConsolidateRequest struct {
	ServiceDir      string
	SnipSortPath    string
	OutputTable     string
	Interval        time.Duration
	ProbThreshold   float64
	DropUnparseable bool
}

// ConsolidateSummary reports what the run did.
type ConsolidateSummary struct {
	RunID              string
	Files              int
	InputRows          int
	Updated            int
	Confirmed          int
	Dropped            int
	DroppedUnparseable int
	Events             int
	Unsegmented        int
	Inferred           int
	Rows               int
}

// Consolidate builds the first curated table from the raw classifier
// exports and the expert snip sort.
func Consolidate(ctx context.Context, req ConsolidateRequest, logger *slog.Logger) (ConsolidateSummary, error) {
	summary := ConsolidateSummary{RunID: uuid.NewString()}
	logger = logger.With(logging.FieldRunID, summary.RunID)

	release, err := acquireLock(req.OutputTable + ".lock")
	if err != nil {
		return summary, err
	}
	defer release()

	stage := logger.With(logging.FieldStage, "load_raw")
	tbl, files, err := LoadRaw(req.ServiceDir, stage)
	if err != nil {
		return summary, err
	}
	summary.Files = files
	summary.InputRows = tbl.Len()

	stage = logger.With(logging.FieldStage, "snip_sort")
	snips, err := merge.LoadSnipSort(req.SnipSortPath)
	if err != nil {
		return summary, err
	}
	outcome := merge.ApplySnipSort(tbl, snips, stage)
	summary.Updated = outcome.Updated
	summary.Confirmed = outcome.Confirmed
	summary.Dropped = merge.DropRemoved(tbl)
	stage.Info("false detections dropped", "rows", summary.Dropped)
	if err := merge.ValidateProvenance(tbl); err != nil {
		return summary, err
	}

	if req.DropUnparseable {
		summary.DroppedUnparseable = tbl.Keep(func(_ int, r *table.Record) bool {
			return r.HasTimestamp()
		})
		if summary.DroppedUnparseable > 0 {
			logger.Warn("rows without parseable timestamps dropped",
				"rows", summary.DroppedUnparseable)
		}
	}

	stage = logger.With(logging.FieldStage, "segment")
	stats, err := event.Segment(tbl, req.Interval, req.ProbThreshold)
	if err != nil {
		return summary, err
	}
	summary.Events = stats.Events
	summary.Unsegmented = stats.Unsegmented
	stage.Info("events segmented",
		"sites", stats.Sites, "events", stats.Events, "unsegmented", stats.Unsegmented)

	stage = logger.With(logging.FieldStage, "resolve_unknowns")
	inferred, err := event.ResolveUnknowns(tbl, req.ProbThreshold, table.ProvenanceInferred, stage)
	if err != nil {
		return summary, err
	}
	summary.Inferred = inferred

	stage = logger.With(logging.FieldStage, "save")
	if err := tablestore.Save(ctx, req.OutputTable, tbl, stage); err != nil {
		return summary, err
	}
	summary.Rows = tbl.Len()

	logger.Info("consolidation complete", "rows", summary.Rows, "events", summary.Events)
	return summary, nil
}
