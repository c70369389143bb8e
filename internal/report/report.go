package report

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/BWBrook/mewc-table/internal/table"
)

// ClassSummary aggregates one species across the table.
type ClassSummary struct {
	ClassName string
	Rows      int
	Animals   int
	Events    int
	Sites     int
}

// ProvenanceSummary counts rows per provenance flag.
type ProvenanceSummary struct {
	Provenance table.Provenance
	Rows       int
}

// TableSummary is the top-level overview the show command renders.
type TableSummary struct {
	Rows        int
	Sites       int
	Species     int
	Events      int
	Unsegmented int
	FirstSeen   time.Time
	LastSeen    time.Time
	Classes     []ClassSummary
	Provenance  []ProvenanceSummary
}

type eventKey struct {
	site  string
	event int
}

// Summarize walks the table once and derives the overview. Class rows come
// back in collated order so mixed-case species names read naturally.
func Summarize(tbl *table.Table) TableSummary {
	summary := TableSummary{Rows: tbl.Len()}

	classes := make(map[string]*ClassSummary)
	classEvents := make(map[string]map[eventKey]bool)
	classSites := make(map[string]map[string]bool)
	events := make(map[eventKey]bool)
	sites := make(map[string]bool)
	provenance := make(map[table.Provenance]int)

	tbl.Each(func(_ int, r *table.Record) {
		sites[r.Site] = true
		provenance[r.Provenance]++
		if r.Event == 0 {
			summary.Unsegmented++
		} else {
			events[eventKey{r.Site, r.Event}] = true
		}
		if r.HasTimestamp() {
			if summary.FirstSeen.IsZero() || r.Timestamp.Before(summary.FirstSeen) {
				summary.FirstSeen = r.Timestamp
			}
			if r.Timestamp.After(summary.LastSeen) {
				summary.LastSeen = r.Timestamp
			}
		}

		cs := classes[r.ClassName]
		if cs == nil {
			cs = &ClassSummary{ClassName: r.ClassName}
			classes[r.ClassName] = cs
			classEvents[r.ClassName] = make(map[eventKey]bool)
			classSites[r.ClassName] = make(map[string]bool)
		}
		cs.Rows++
		if r.Count > 0 {
			cs.Animals += r.Count
		} else {
			cs.Animals++
		}
		if r.Event > 0 {
			classEvents[r.ClassName][eventKey{r.Site, r.Event}] = true
		}
		classSites[r.ClassName][r.Site] = true
	})

	summary.Sites = len(sites)
	summary.Species = len(classes)
	summary.Events = len(events)

	for name, cs := range classes {
		cs.Events = len(classEvents[name])
		cs.Sites = len(classSites[name])
		summary.Classes = append(summary.Classes, *cs)
	}
	collator := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(summary.Classes, func(i, j int) bool {
		return collator.CompareString(summary.Classes[i].ClassName, summary.Classes[j].ClassName) < 0
	})

	for prov, rows := range provenance {
		summary.Provenance = append(summary.Provenance, ProvenanceSummary{Provenance: prov, Rows: rows})
	}
	sort.Slice(summary.Provenance, func(i, j int) bool {
		return summary.Provenance[i].Provenance < summary.Provenance[j].Provenance
	})

	return summary
}
