package event

import (
	"testing"
	"time"

	"github.com/BWBrook/mewc-table/internal/table"
)

func at(value string) time.Time {
	ts, err := time.Parse(table.LayoutDayFirst, value)
	if err != nil {
		panic(err)
	}
	return ts
}

func row(site, class string, prob float64, prov table.Provenance, when string) table.Record {
	return table.Record{
		Site: site, ClassName: class, Prob: prob, Provenance: prov,
		Timestamp: at(when), TimestampRaw: when,
	}
}

func TestGapOpensNewEvent(t *testing.T) {
	// Two rows six minutes apart with a five minute interval.
	tbl := table.New()
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceConfirmed, "01/06/2024 10:00:00"))
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceConfirmed, "01/06/2024 10:06:00"))

	stats, err := Segment(tbl, 5*time.Minute, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Events != 2 {
		t.Fatalf("expected 2 events, got %d", stats.Events)
	}
	if tbl.Row(0).Event != 1 || tbl.Row(1).Event != 2 {
		t.Fatalf("unexpected events: %d, %d", tbl.Row(0).Event, tbl.Row(1).Event)
	}
}

func TestGapAtExactIntervalDoesNotSplit(t *testing.T) {
	tbl := table.New()
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceConfirmed, "01/06/2024 10:00:00"))
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceConfirmed, "01/06/2024 10:05:00"))

	if _, err := Segment(tbl, 5*time.Minute, 0.2); err != nil {
		t.Fatal(err)
	}
	if tbl.Row(1).Event != 1 {
		t.Fatalf("gap equal to interval should not split, got event %d", tbl.Row(1).Event)
	}
}

func TestFirstRecordAlwaysEventOne(t *testing.T) {
	tbl := table.New()
	tbl.Append(row("siteB", "fox", 0.99, table.ProvenanceSnipSort, "01/06/2024 23:00:00"))
	tbl.Append(row("siteA", "deer", 0.1, table.ProvenanceConfirmed, "01/06/2024 10:00:00"))

	if _, err := Segment(tbl, 5*time.Minute, 0.2); err != nil {
		t.Fatal(err)
	}
	tbl.Each(func(_ int, r *table.Record) {
		if r.Event != 1 {
			t.Fatalf("first record of %s got event %d", r.Site, r.Event)
		}
	})
}

func TestClassChangeSplitsOnlyWithUpdateFlag(t *testing.T) {
	interval := 60 * time.Minute // gaps below interval throughout

	// Previous record snip-sorted: class change splits.
	tbl := table.New()
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceSnipSort, "01/06/2024 10:00:00"))
	tbl.Append(row("siteA", "fox", 0.9, table.ProvenanceConfirmed, "01/06/2024 10:01:00"))
	if _, err := Segment(tbl, interval, 0.2); err != nil {
		t.Fatal(err)
	}
	if tbl.Row(1).Event != 2 {
		t.Fatalf("snip-sorted class change should split, got event %d", tbl.Row(1).Event)
	}

	// Previous record confirmed but below threshold: no split.
	tbl = table.New()
	tbl.Append(row("siteA", "deer", 0.1, table.ProvenanceConfirmed, "01/06/2024 10:00:00"))
	tbl.Append(row("siteA", "fox", 0.9, table.ProvenanceConfirmed, "01/06/2024 10:01:00"))
	if _, err := Segment(tbl, interval, 0.2); err != nil {
		t.Fatal(err)
	}
	if tbl.Row(1).Event != 1 {
		t.Fatalf("low-confidence previous should not split, got event %d", tbl.Row(1).Event)
	}

	// Unknown on either side never counts as a change.
	tbl = table.New()
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceSnipSort, "01/06/2024 10:00:00"))
	tbl.Append(row("siteA", table.ClassUnknownAnimal, 0.5, table.ProvenanceConfirmed, "01/06/2024 10:01:00"))
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceConfirmed, "01/06/2024 10:02:00"))
	if _, err := Segment(tbl, interval, 0.2); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if tbl.Row(i).Event != 1 {
			t.Fatalf("unknown transitions split at row %d", i)
		}
	}
}

func TestSegmentByGapIgnoresClassChanges(t *testing.T) {
	tbl := table.New()
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceSnipSort, "01/06/2024 10:00:00"))
	tbl.Append(row("siteA", "fox", 0.9, table.ProvenanceSnipSort, "01/06/2024 10:01:00"))
	tbl.Append(row("siteA", "fox", 0.9, table.ProvenanceSnipSort, "01/06/2024 10:30:00"))

	stats, err := SegmentByGap(tbl, 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Events != 2 {
		t.Fatalf("expected 2 events, got %d", stats.Events)
	}
	if tbl.Row(0).Event != 1 || tbl.Row(1).Event != 1 || tbl.Row(2).Event != 2 {
		t.Fatalf("unexpected events: %d %d %d",
			tbl.Row(0).Event, tbl.Row(1).Event, tbl.Row(2).Event)
	}
}

func TestSegmentIsDeterministicOnOwnOutput(t *testing.T) {
	tbl := table.New()
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceConfirmed, "01/06/2024 10:00:00"))
	tbl.Append(row("siteA", "fox", 0.95, table.ProvenanceSnipSort, "01/06/2024 10:02:00"))
	tbl.Append(row("siteA", "fox", 0.5, table.ProvenanceConfirmed, "01/06/2024 10:20:00"))
	tbl.Append(row("siteB", "quoll", 0.7, table.ProvenanceConfirmed, "01/06/2024 09:00:00"))

	if _, err := Segment(tbl, 5*time.Minute, 0.2); err != nil {
		t.Fatal(err)
	}
	first := make([]int, 0, tbl.Len())
	tbl.Each(func(_ int, r *table.Record) { first = append(first, r.Event) })

	// Strip ids and re-run.
	tbl.Each(func(_ int, r *table.Record) { r.Event = 0 })
	if _, err := Segment(tbl, 5*time.Minute, 0.2); err != nil {
		t.Fatal(err)
	}
	second := make([]int, 0, tbl.Len())
	tbl.Each(func(_ int, r *table.Record) { second = append(second, r.Event) })

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("event ids diverged at %d: %v vs %v", i, first, second)
		}
	}
}

func TestEventNumberingIsDensePerSite(t *testing.T) {
	tbl := table.New()
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceConfirmed, "01/06/2024 10:00:00"))
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceConfirmed, "01/06/2024 11:00:00"))
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceConfirmed, "01/06/2024 12:00:00"))
	tbl.Append(row("siteB", "fox", 0.9, table.ProvenanceConfirmed, "02/06/2024 10:00:00"))

	if _, err := Segment(tbl, 5*time.Minute, 0.2); err != nil {
		t.Fatal(err)
	}
	for _, group := range tbl.GroupBySite() {
		want := 1
		for _, id := range group.IDs {
			if got := tbl.Row(id).Event; got != want {
				t.Fatalf("%s: expected dense numbering, got %d want %d", group.Site, got, want)
			}
			want++
		}
	}
}

func TestUnparseableTimestampExcluded(t *testing.T) {
	tbl := table.New()
	tbl.Append(row("siteA", "deer", 0.9, table.ProvenanceConfirmed, "01/06/2024 10:00:00"))
	tbl.Append(table.Record{Site: "siteA", ClassName: "deer", Prob: 0.9,
		Provenance: table.ProvenanceConfirmed, TimestampRaw: "garbled"})

	stats, err := Segment(tbl, 5*time.Minute, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Unsegmented != 1 {
		t.Fatalf("expected 1 unsegmented, got %d", stats.Unsegmented)
	}
	unseg := 0
	tbl.Each(func(_ int, r *table.Record) {
		if !r.HasTimestamp() && r.Event == 0 {
			unseg++
		}
	})
	if unseg != 1 {
		t.Fatal("unparseable row should keep event 0")
	}
}

func TestSegmentRejectsEmptyTable(t *testing.T) {
	if _, err := Segment(table.New(), 5*time.Minute, 0.2); err == nil {
		t.Fatal("expected error for empty table")
	}
}

func TestSegmentRejectsMissingFields(t *testing.T) {
	tbl := table.New()
	tbl.Append(table.Record{Site: "", ClassName: "deer"})
	if _, err := Segment(tbl, 5*time.Minute, 0.2); err == nil {
		t.Fatal("expected error for empty camera_site")
	}
}
