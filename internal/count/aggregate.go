package count

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BWBrook/mewc-table/internal/sanity"
	"github.com/BWBrook/mewc-table/internal/table"
)

// GroupKey identifies one aggregation group.
type GroupKey struct {
	Site      string
	ClassName string
	Event     int
	Timestamp time.Time
}

func keyOf(r *table.Record) GroupKey {
	return GroupKey{Site: r.Site, ClassName: r.ClassName, Event: r.Event, Timestamp: r.Timestamp}
}

// Stats summarizes one aggregation pass.
type Stats struct {
	InputRows  int
	OutputRows int
	Collapsed  int
	MaxCount   int
}

// GroupSizes returns the cardinality of every aggregation group over the
// live rows.
func GroupSizes(tbl *table.Table) map[GroupKey]int {
	sizes := make(map[GroupKey]int)
	tbl.Each(func(_ int, r *table.Record) {
		sizes[keyOf(r)]++
	})
	return sizes
}

// Aggregate collapses each aggregation group to its first row in stable
// order, records the group size in the count column, and verifies the
// result against the pre-aggregation sizes. Verification failure is fatal:
// the table is inconsistent and must not be persisted.
func Aggregate(tbl *table.Table, logger *slog.Logger) (Stats, error) {
	if tbl.Len() == 0 {
		return Stats{}, sanity.Wrap(sanity.ErrValidation, "count", "aggregate", "empty table", nil)
	}

	want := GroupSizes(tbl)
	stats := Stats{InputRows: tbl.Len()}

	seen := make(map[GroupKey]bool, len(want))
	tbl.Keep(func(_ int, r *table.Record) bool {
		key := keyOf(r)
		if seen[key] {
			return false
		}
		seen[key] = true
		r.Count = want[key]
		if r.Count > stats.MaxCount {
			stats.MaxCount = r.Count
		}
		if r.Count > 1 {
			stats.Collapsed++
		}
		return true
	})
	stats.OutputRows = tbl.Len()

	if err := Verify(tbl, want); err != nil {
		return stats, err
	}

	logger.Info("counts aggregated",
		"input_rows", stats.InputRows,
		"output_rows", stats.OutputRows,
		"groups_collapsed", stats.Collapsed,
		"max_count", stats.MaxCount)
	return stats, nil
}

// Verify re-derives the aggregation grouping over the result and checks
// every group's recorded count against the expected cardinalities. Any
// divergence returns an ErrInvariant listing each mismatched key.
func Verify(tbl *table.Table, want map[GroupKey]int) error {
	got := make(map[GroupKey]int, len(want))
	dupes := make(map[GroupKey]int)
	tbl.Each(func(_ int, r *table.Record) {
		key := keyOf(r)
		if _, ok := got[key]; ok {
			dupes[key]++
		}
		got[key] = r.Count
	})

	var problems []string
	for key, n := range dupes {
		problems = append(problems, fmt.Sprintf("%s/%s event %d @ %s: %d duplicate rows survived",
			key.Site, key.ClassName, key.Event, table.FormatTimestamp(key.Timestamp), n+1))
	}
	for key, wantCount := range want {
		gotCount, ok := got[key]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s/%s event %d @ %s: group lost (expected count %d)",
				key.Site, key.ClassName, key.Event, table.FormatTimestamp(key.Timestamp), wantCount))
			continue
		}
		if gotCount != wantCount {
			problems = append(problems, fmt.Sprintf("%s/%s event %d @ %s: count %d, expected %d",
				key.Site, key.ClassName, key.Event, table.FormatTimestamp(key.Timestamp), gotCount, wantCount))
		}
	}
	for key := range got {
		if _, ok := want[key]; !ok {
			problems = append(problems, fmt.Sprintf("%s/%s event %d @ %s: unexpected group appeared",
				key.Site, key.ClassName, key.Event, table.FormatTimestamp(key.Timestamp)))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return sanity.Wrap(sanity.ErrInvariant, "count", "verify",
		fmt.Sprintf("%d group(s) inconsistent:\n  %s", len(problems), strings.Join(problems, "\n  ")), nil)
}
