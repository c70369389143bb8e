package event

import (
	"fmt"
	"log/slog"

	"github.com/BWBrook/mewc-table/internal/sanity"
	"github.com/BWBrook/mewc-table/internal/table"
)

// ResolveUnknowns replaces unknown_animal classifications using event
// context. For each (site, event) group, the confident records are those
// with a known class and prob at or above the threshold; when any exist,
// unknown records take the dominant confident class, the maximum prob seen
// anywhere in the group, and the given provenance marker. Groups with no
// confident records are left alone, as is anything still outside an event.
//
// Dominance ties break on the lexicographically smallest class name, so
// repeated runs over the same table infer identically.
//
// The marker distinguishes pipeline phases: ProvenanceInferred for initial
// consolidation, ProvenanceInferredRecheck for reconciliation passes.
func ResolveUnknowns(tbl *table.Table, probThreshold float64, marker table.Provenance, logger *slog.Logger) (int, error) {
	if marker != table.ProvenanceInferred && marker != table.ProvenanceInferredRecheck {
		return 0, sanity.Wrap(sanity.ErrValidation, "event", "resolve unknowns",
			fmt.Sprintf("marker %v is not an inference provenance", marker), nil)
	}

	inferred := 0
	for _, group := range tbl.GroupBySiteEvent() {
		if group.Event == 0 {
			continue
		}

		counts := make(map[string]int)
		maxProb := 0.0
		for _, id := range group.IDs {
			r := tbl.Row(id)
			if r.Prob > maxProb {
				maxProb = r.Prob
			}
			if r.ClassName == table.ClassUnknownAnimal || r.Prob < probThreshold {
				continue
			}
			counts[r.ClassName]++
		}
		if len(counts) == 0 {
			continue
		}

		dominant := dominantClass(counts)
		for _, id := range group.IDs {
			r := tbl.Row(id)
			if r.ClassName != table.ClassUnknownAnimal {
				continue
			}
			r.ClassName = dominant
			r.Prob = maxProb
			r.Provenance = marker
			inferred++
		}
	}

	if inferred > 0 {
		logger.Info("unknown classifications resolved", "inferred", inferred, "marker", marker.String())
	}
	return inferred, nil
}

func dominantClass(counts map[string]int) string {
	best := ""
	bestCount := 0
	for class, n := range counts {
		if n > bestCount || (n == bestCount && (best == "" || class < best)) {
			best = class
			bestCount = n
		}
	}
	return best
}
