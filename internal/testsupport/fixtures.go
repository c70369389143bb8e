package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BWBrook/mewc-table/internal/table"
)

// WriteFile creates a file with the given content, creating parent
// directories as needed.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

// MustTime parses a canonical-format timestamp or fails the test.
func MustTime(t testing.TB, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(table.LayoutDayFirst, value)
	if err != nil {
		t.Fatalf("parse fixture timestamp %q: %v", value, err)
	}
	return ts
}

// Detection builds a confirmed record with the fields the curation stages
// care about.
func Detection(t testing.TB, site, class string, prob float64, when string) table.Record {
	t.Helper()
	r := table.Record{
		Site:       site,
		ClassName:  class,
		Prob:       prob,
		Provenance: table.ProvenanceConfirmed,
	}
	if when != "" {
		r.Timestamp = MustTime(t, when)
		r.TimestampRaw = when
	}
	return r
}
