package table

import (
	"testing"
	"time"
)

func ts(value string) time.Time {
	parsed, err := time.Parse(LayoutDayFirst, value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestAppendAssignsStableIDs(t *testing.T) {
	tbl := New()
	a := tbl.Append(Record{Site: "siteA", Filename: "a.JPG"})
	b := tbl.Append(Record{Site: "siteB", Filename: "b.JPG"})
	if a == b {
		t.Fatalf("expected distinct ids, got %d and %d", a, b)
	}
	if tbl.Row(a).Filename != "a.JPG" || tbl.Row(b).Filename != "b.JPG" {
		t.Fatal("ids do not address their rows")
	}
}

func TestSortSiteTimeIsStable(t *testing.T) {
	tbl := New()
	tbl.Append(Record{Site: "siteB", Filename: "late.JPG", Timestamp: ts("02/01/2024 10:00:00")})
	first := tbl.Append(Record{Site: "siteA", Filename: "tie-1.JPG", Timestamp: ts("01/01/2024 09:00:00")})
	second := tbl.Append(Record{Site: "siteA", Filename: "tie-2.JPG", Timestamp: ts("01/01/2024 09:00:00")})

	tbl.SortSiteTime()

	ids := tbl.IDs()
	if tbl.Row(ids[0]).Site != "siteA" {
		t.Fatalf("expected siteA first after sort, got %s", tbl.Row(ids[0]).Site)
	}
	if ids[0] != first || ids[1] != second {
		t.Fatalf("tie order not stable: got %v, want [%d %d ...]", ids, first, second)
	}
}

func TestSortKeepsIDsValid(t *testing.T) {
	tbl := New()
	id := tbl.Append(Record{Site: "siteZ", Timestamp: ts("01/01/2024 12:00:00")})
	tbl.Append(Record{Site: "siteA", Timestamp: ts("01/01/2024 08:00:00")})

	before := tbl.Row(id)
	tbl.SortSiteTime()
	if tbl.Row(id) != before {
		t.Fatal("sort invalidated a row pointer")
	}
	if tbl.Row(id).Site != "siteZ" {
		t.Fatal("sort moved the row contents")
	}
}

func TestKeepDropsRows(t *testing.T) {
	tbl := New()
	tbl.Append(Record{Site: "siteA", Provenance: ProvenanceConfirmed})
	tbl.Append(Record{Site: "siteA", Provenance: ProvenanceRemoved})
	tbl.Append(Record{Site: "siteB", Provenance: ProvenanceSnipSort})

	removed := tbl.Keep(func(_ int, r *Record) bool {
		return r.Provenance != ProvenanceRemoved
	})
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 live rows, got %d", tbl.Len())
	}
	for _, r := range tbl.Records() {
		if r.Provenance == ProvenanceRemoved {
			t.Fatal("removed row still live")
		}
	}
}

func TestGroupBySiteEventPreservesOrder(t *testing.T) {
	tbl := New()
	tbl.Append(Record{Site: "siteA", Event: 1, Filename: "1.JPG"})
	tbl.Append(Record{Site: "siteA", Event: 2, Filename: "2.JPG"})
	tbl.Append(Record{Site: "siteA", Event: 1, Filename: "3.JPG"})
	tbl.Append(Record{Site: "siteB", Event: 1, Filename: "4.JPG"})

	groups := tbl.GroupBySiteEvent()
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Site != "siteA" || groups[0].Event != 1 || len(groups[0].IDs) != 2 {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if tbl.Row(groups[0].IDs[0]).Filename != "1.JPG" || tbl.Row(groups[0].IDs[1]).Filename != "3.JPG" {
		t.Fatal("group ids out of order")
	}
}

func TestCloneIsDeep(t *testing.T) {
	tbl := New()
	id := tbl.Append(Record{Site: "siteA", Extra: map[string]string{"source": "north"}})
	tbl.SetExtraColumns([]string{"source"})

	cp := tbl.Clone()
	cp.Row(id).Extra["source"] = "south"
	cp.Row(id).ClassName = "fox"

	if tbl.Row(id).Extra["source"] != "north" {
		t.Fatal("clone shares extra maps with the original")
	}
	if tbl.Row(id).ClassName == "fox" {
		t.Fatal("clone shares rows with the original")
	}
}

func TestProvenanceDomain(t *testing.T) {
	for p := ProvenanceRemoved; p <= ProvenanceInferredRecheck; p++ {
		if !p.Valid() {
			t.Fatalf("%d should be valid", p)
		}
	}
	if Provenance(6).Valid() || Provenance(-2).Valid() {
		t.Fatal("out-of-domain provenance reported valid")
	}
}
