package merge

import (
	"log/slog"

	"github.com/BWBrook/mewc-table/internal/table"
)

// Outcome summarizes one reconciliation pass over the table.
type Outcome struct {
	Confirmed int
	Updated   int
	Appended  int
	Skipped   int
}

// Total returns the number of rows the pass changed or added.
func (o Outcome) Total() int {
	return o.Updated + o.Appended
}

// Reconcile folds a species-folder correction map into the table. Rows whose
// image the expert left in place are confirmed untouched; rows the expert
// moved get the new class, a looked-up class id and ProvenanceFolderSort.
// Unconsumed entries, except the other_object noise bin, append new rows
// with ProvenanceAppended. The map must be conflict-free.
func Reconcile(tbl *table.Table, corrections *CorrectionMap, logger *slog.Logger) (Outcome, error) {
	if err := corrections.ConflictError(); err != nil {
		return Outcome{}, err
	}

	classIDs := classIDIndex(tbl)
	var out Outcome

	tbl.Each(func(_ int, r *table.Record) {
		entry, ok := corrections.Lookup(r.Site, BaseFilename(r.Filename))
		if !ok {
			return
		}
		if entry.ClassName == r.ClassName {
			out.Confirmed++
		} else {
			logger.Debug("classification corrected",
				"site", r.Site,
				"filename", r.Filename,
				"from", r.ClassName,
				"to", entry.ClassName)
			r.ClassName = entry.ClassName
			r.ClassID = resolveClassID(classIDs, entry.ClassName)
			r.Provenance = table.ProvenanceFolderSort
			out.Updated++
		}
		corrections.Consume(r.Site, BaseFilename(r.Filename))
	})

	for _, entry := range corrections.Remaining() {
		if entry.ClassName == table.ClassOtherObject {
			out.Skipped++
			continue
		}
		if entry.Timestamp.IsZero() {
			logger.Warn("appended row has no usable timestamp; it will be excluded from event segmentation",
				"site", entry.Site, "filename", entry.Filename)
		}
		tbl.Append(table.Record{
			Site:         entry.Site,
			Filename:     entry.Filename,
			RandName:     table.RandNameNone,
			ClassID:      resolveClassID(classIDs, entry.ClassName),
			ClassName:    entry.ClassName,
			Prob:         1,
			Conf:         0,
			Provenance:   table.ProvenanceAppended,
			Event:        0,
			Timestamp:    entry.Timestamp,
			TimestampRaw: table.FormatTimestamp(entry.Timestamp),
			FlashFired:   table.FlashUnmatched,
		})
		out.Appended++
	}

	logger.Info("reconciliation complete",
		"confirmed", out.Confirmed,
		"updated", out.Updated,
		"appended", out.Appended,
		"skipped", out.Skipped)
	return out, nil
}

// classIDIndex snapshots class_name -> class_id from the table before any
// mutation, so corrections resolve against the pre-pass state.
func classIDIndex(tbl *table.Table) map[string]int {
	idx := make(map[string]int)
	tbl.Each(func(_ int, r *table.Record) {
		if _, ok := idx[r.ClassName]; !ok {
			idx[r.ClassName] = r.ClassID
		}
	})
	return idx
}

func resolveClassID(idx map[string]int, className string) int {
	if className == table.ClassUnknownAnimal {
		return table.UnknownAnimalClassID
	}
	if id, ok := idx[className]; ok {
		return id
	}
	return table.UnresolvedClassID
}
