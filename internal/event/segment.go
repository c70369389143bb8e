package event

import (
	"fmt"
	"time"

	"github.com/BWBrook/mewc-table/internal/sanity"
	"github.com/BWBrook/mewc-table/internal/table"
)

// Stats summarizes one segmentation pass.
type Stats struct {
	Sites       int
	Events      int
	Unsegmented int
}

// Segment sorts the table by (site, timestamp) and assigns event numbers
// using the full rule: a new event starts when the gap to the previous
// record exceeds interval, or when the class changes (unknown_animal on
// either side never counts as a change) and the previous record was
// expert-sorted or confidently confirmed. Event numbering is dense per site,
// starting at 1; the first record of a site is always event 1.
//
// Records without a parsed timestamp keep event 0 and are excluded from the
// time logic. Interval and threshold must be supplied by the caller; the
// core reads no configuration.
func Segment(tbl *table.Table, interval time.Duration, probThreshold float64) (Stats, error) {
	if err := validate(tbl); err != nil {
		return Stats{}, err
	}
	return segment(tbl, func(r, prev *table.Record) bool {
		if r.Timestamp.Sub(prev.Timestamp) > interval {
			return true
		}
		classChanged := r.ClassName != prev.ClassName &&
			r.ClassName != table.ClassUnknownAnimal &&
			prev.ClassName != table.ClassUnknownAnimal
		updateFlag := prev.Provenance == table.ProvenanceSnipSort ||
			(prev.Provenance == table.ProvenanceConfirmed && prev.Prob > probThreshold)
		return classChanged && updateFlag
	}), nil
}

// SegmentByGap assigns event numbers using only the time-gap rule. Used
// after folder reconciliation, where expert corrections have already settled
// the class sequence.
func SegmentByGap(tbl *table.Table, interval time.Duration) (Stats, error) {
	if err := validate(tbl); err != nil {
		return Stats{}, err
	}
	return segment(tbl, func(r, prev *table.Record) bool {
		return r.Timestamp.Sub(prev.Timestamp) > interval
	}), nil
}

func segment(tbl *table.Table, newEvent func(r, prev *table.Record) bool) Stats {
	tbl.SortSiteTime()

	var stats Stats
	for _, group := range tbl.GroupBySite() {
		stats.Sites++
		current := 0
		var prev *table.Record
		for _, id := range group.IDs {
			r := tbl.Row(id)
			if !r.HasTimestamp() {
				r.Event = 0
				stats.Unsegmented++
				continue
			}
			if prev == nil {
				current = 1
			} else if newEvent(r, prev) {
				current++
			}
			r.Event = current
			prev = r
		}
		stats.Events += current
	}
	return stats
}

func validate(tbl *table.Table) error {
	if tbl.Len() == 0 {
		return sanity.Wrap(sanity.ErrValidation, "event", "segment", "empty table", nil)
	}
	var bad []string
	tbl.Each(func(id int, r *table.Record) {
		switch {
		case r.Site == "":
			bad = append(bad, fmt.Sprintf("row %d: empty camera_site", id))
		case r.ClassName == "":
			bad = append(bad, fmt.Sprintf("row %d (%s/%s): empty class_name", id, r.Site, r.Filename))
		case !r.Provenance.Valid():
			bad = append(bad, fmt.Sprintf("row %d (%s/%s): expert_updated=%d out of domain",
				id, r.Site, r.Filename, int(r.Provenance)))
		}
	})
	if len(bad) == 0 {
		return nil
	}
	detail := bad[0]
	if len(bad) > 1 {
		detail = fmt.Sprintf("%s (and %d more)", bad[0], len(bad)-1)
	}
	return sanity.Wrap(sanity.ErrValidation, "event", "segment", detail, nil)
}
