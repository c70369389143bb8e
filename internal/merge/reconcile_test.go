package merge

import (
	"reflect"
	"testing"
	"time"

	"github.com/BWBrook/mewc-table/internal/logging"
	"github.com/BWBrook/mewc-table/internal/table"
)

func seedTable() *table.Table {
	tbl := table.New()
	tbl.Append(table.Record{
		Site: "siteA", Filename: "IMG_01-0.JPG", RandName: "r1",
		ClassID: 7, ClassName: "deer", Prob: 0.9, Provenance: table.ProvenanceConfirmed,
	})
	tbl.Append(table.Record{
		Site: "siteA", Filename: "IMG_02-0.JPG", RandName: "r2",
		ClassID: 9, ClassName: "fox", Prob: 0.8, Provenance: table.ProvenanceConfirmed,
	})
	return tbl
}

func TestReconcileConfirmedRowUnchanged(t *testing.T) {
	tbl := seedTable()
	before := *tbl.Row(0)

	m := NewCorrectionMap()
	m.Add(Entry{Site: "siteA", Filename: "IMG_01.JPG", ClassName: "deer"})

	out, err := Reconcile(tbl, m, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if out.Confirmed != 1 || out.Updated != 0 || out.Appended != 0 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if !reflect.DeepEqual(*tbl.Row(0), before) {
		t.Fatalf("confirmed row mutated: %+v -> %+v", before, *tbl.Row(0))
	}
	if m.Len() != 0 {
		t.Fatal("confirmed key not consumed")
	}
}

func TestReconcileUpdatesClassAndResolvesID(t *testing.T) {
	tbl := seedTable()
	m := NewCorrectionMap()
	// Expert moved IMG_01 from deer into fox; fox already exists with id 9.
	m.Add(Entry{Site: "siteA", Filename: "IMG_01-0.JPG", ClassName: "fox"})

	out, err := Reconcile(tbl, m, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if out.Updated != 1 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	r := tbl.Row(0)
	if r.ClassName != "fox" || r.ClassID != 9 {
		t.Fatalf("class not rewritten: %+v", r)
	}
	if r.Provenance != table.ProvenanceFolderSort {
		t.Fatalf("expected folder-sort provenance, got %v", r.Provenance)
	}
}

func TestReconcileUnknownAnimalGetsReservedID(t *testing.T) {
	tbl := seedTable()
	m := NewCorrectionMap()
	m.Add(Entry{Site: "siteA", Filename: "IMG_01.JPG", ClassName: table.ClassUnknownAnimal})

	if _, err := Reconcile(tbl, m, logging.NewNop()); err != nil {
		t.Fatal(err)
	}
	if tbl.Row(0).ClassID != table.UnknownAnimalClassID {
		t.Fatalf("expected reserved id 0, got %d", tbl.Row(0).ClassID)
	}
}

func TestReconcileUnresolvableClassGetsMinusOne(t *testing.T) {
	tbl := seedTable()
	m := NewCorrectionMap()
	m.Add(Entry{Site: "siteA", Filename: "IMG_01.JPG", ClassName: "quoll"})

	if _, err := Reconcile(tbl, m, logging.NewNop()); err != nil {
		t.Fatal(err)
	}
	if tbl.Row(0).ClassID != table.UnresolvedClassID {
		t.Fatalf("expected -1 for unknown class, got %d", tbl.Row(0).ClassID)
	}
}

func TestReconcileAppendsUnmatchedEntries(t *testing.T) {
	tbl := seedTable()
	when := time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC)
	m := NewCorrectionMap()
	m.Add(Entry{Site: "siteB", Filename: "NEW_01.JPG", ClassName: "deer", Timestamp: when})
	m.Add(Entry{Site: "siteB", Filename: "NOISE_01.JPG", ClassName: table.ClassOtherObject})

	out, err := Reconcile(tbl, m, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if out.Appended != 1 || out.Skipped != 1 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Len())
	}

	var appended *table.Record
	tbl.Each(func(_ int, r *table.Record) {
		if r.Filename == "NEW_01.JPG" {
			appended = r
		}
	})
	if appended == nil {
		t.Fatal("appended row missing")
	}
	if appended.Provenance != table.ProvenanceAppended || appended.Event != 0 {
		t.Fatalf("wrong provenance/event on appended row: %+v", appended)
	}
	if appended.Prob != 1 || appended.Conf != 0 || appended.RandName != table.RandNameNone {
		t.Fatalf("wrong synthetic defaults: %+v", appended)
	}
	if appended.ClassID != 7 {
		t.Fatalf("deer id should resolve from the store, got %d", appended.ClassID)
	}
	if !appended.Timestamp.Equal(when) {
		t.Fatalf("timestamp not carried: %v", appended.Timestamp)
	}
}

func TestReconcileRefusesConflictedMap(t *testing.T) {
	tbl := seedTable()
	m := NewCorrectionMap()
	m.Add(Entry{Site: "siteA", Filename: "IMG_01.JPG", ClassName: "deer", Source: "verified/a"})
	m.Add(Entry{Site: "siteA", Filename: "IMG_01.JPG", ClassName: "fox", Source: "verified/b"})

	if _, err := Reconcile(tbl, m, logging.NewNop()); err == nil {
		t.Fatal("expected conflict rejection")
	}
	if tbl.Len() != 2 {
		t.Fatal("table mutated despite conflict rejection")
	}
}
