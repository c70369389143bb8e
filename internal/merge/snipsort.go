package merge

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BWBrook/mewc-table/internal/sanity"
	"github.com/BWBrook/mewc-table/internal/table"
)

// SnipSortMap maps an anonymized snip name to the species folder the expert
// sorted it into.
type SnipSortMap map[string]string

// ApplySnipSort folds the one-time expert snip sort into a freshly
// consolidated table. Rows the expert moved get the corrected class and
// ProvenanceSnipSort; rows the expert left in place are confirmed. Rows with
// no snip-sort entry keep ProvenanceRemoved: the classifier ranked them
// below the animal cut and the expert never saw them.
func ApplySnipSort(tbl *table.Table, snips SnipSortMap, logger *slog.Logger) Outcome {
	var out Outcome
	tbl.Each(func(_ int, r *table.Record) {
		class, ok := snips[r.RandName]
		if !ok {
			return
		}
		if class != r.ClassName {
			r.ClassName = class
			r.Provenance = table.ProvenanceSnipSort
			out.Updated++
		} else if r.Provenance == table.ProvenanceRemoved {
			r.Provenance = table.ProvenanceConfirmed
			out.Confirmed++
		}
	})
	logger.Info("snip sort applied", "updated", out.Updated, "confirmed", out.Confirmed)
	return out
}

// DropRemoved deletes rows still flagged ProvenanceRemoved after the snip
// sort: the false and inanimate detections. It returns the number dropped.
func DropRemoved(tbl *table.Table) int {
	return tbl.Keep(func(_ int, r *table.Record) bool {
		return r.Provenance != table.ProvenanceRemoved
	})
}

// ValidateProvenance confirms no row carries ProvenanceRemoved or an
// out-of-domain provenance code. Consolidation calls this after cleanup.
func ValidateProvenance(tbl *table.Table) error {
	var bad []string
	tbl.Each(func(_ int, r *table.Record) {
		if r.Provenance == table.ProvenanceRemoved || !r.Provenance.Valid() {
			bad = append(bad, fmt.Sprintf("%s/%s (expert_updated=%d)", r.Site, r.Filename, int(r.Provenance)))
		}
	})
	if len(bad) == 0 {
		return nil
	}
	return sanity.Wrap(sanity.ErrValidation, "merge", "provenance check",
		fmt.Sprintf("%d row(s) with removed or out-of-domain provenance: %s",
			len(bad), strings.Join(bad, ", ")), nil)
}
