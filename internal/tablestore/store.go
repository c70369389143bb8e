package tablestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/BWBrook/mewc-table/internal/sanity"
	"github.com/BWBrook/mewc-table/internal/table"
)

// Save writes both forms of the table under basePath and verifies each by
// reading it back. A table that does not round-trip is never left in place.
func Save(ctx context.Context, basePath string, tbl *table.Table, logger *slog.Logger) error {
	csvPath := basePath + ".csv"
	dbPath := basePath + ".db"

	if err := WriteCSV(csvPath, tbl); err != nil {
		return sanity.Wrap(sanity.ErrValidation, "store", "save", csvPath, err)
	}
	if err := WriteDB(ctx, dbPath, tbl); err != nil {
		return sanity.Wrap(sanity.ErrValidation, "store", "save", dbPath, err)
	}

	fromCSV, err := ReadCSV(csvPath)
	if err != nil {
		return sanity.Wrap(sanity.ErrInvariant, "store", "verify", "csv unreadable after write", err)
	}
	if err := equalTables(tbl, fromCSV); err != nil {
		return sanity.Wrap(sanity.ErrInvariant, "store", "verify",
			fmt.Sprintf("csv round-trip: %v", err), nil)
	}
	fromDB, err := ReadDB(ctx, dbPath)
	if err != nil {
		return sanity.Wrap(sanity.ErrInvariant, "store", "verify", "db unreadable after write", err)
	}
	if err := equalTables(tbl, fromDB); err != nil {
		return sanity.Wrap(sanity.ErrInvariant, "store", "verify",
			fmt.Sprintf("db round-trip: %v", err), nil)
	}

	logger.Info("table saved",
		"rows", tbl.Len(),
		"csv", csvPath,
		"db", dbPath)
	return nil
}

// Load reads the table back, preferring the CSV since collaborators edit it
// between runs. Falls back to the SQLite form, and reports ErrNotFound when
// neither exists.
func Load(ctx context.Context, basePath string) (*table.Table, error) {
	csvPath := basePath + ".csv"
	dbPath := basePath + ".db"

	if _, err := os.Stat(csvPath); err == nil {
		return ReadCSV(csvPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", csvPath, err)
	}
	if _, err := os.Stat(dbPath); err == nil {
		return ReadDB(ctx, dbPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", dbPath, err)
	}
	return nil, sanity.Wrap(sanity.ErrNotFound, "store", "load",
		fmt.Sprintf("no table at %s (.csv or .db)", basePath), nil)
}

// Exists reports whether either form of the table is present.
func Exists(basePath string) bool {
	for _, suffix := range []string{".csv", ".db"} {
		if _, err := os.Stat(basePath + suffix); err == nil {
			return true
		}
	}
	return false
}

func equalTables(want, got *table.Table) error {
	if want.Len() != got.Len() {
		return fmt.Errorf("row count %d, expected %d", got.Len(), want.Len())
	}
	wantRows := want.Records()
	gotRows := got.Records()
	for i := range wantRows {
		if err := equalRecords(&wantRows[i], &gotRows[i]); err != nil {
			return fmt.Errorf("row %d (%s/%s): %w", i, wantRows[i].Site, wantRows[i].Filename, err)
		}
	}
	return nil
}

func equalRecords(want, got *table.Record) error {
	switch {
	case got.Site != want.Site:
		return fmt.Errorf("camera_site %q, expected %q", got.Site, want.Site)
	case got.Filename != want.Filename:
		return fmt.Errorf("filename %q, expected %q", got.Filename, want.Filename)
	case got.RandName != want.RandName:
		return fmt.Errorf("rand_name %q, expected %q", got.RandName, want.RandName)
	case got.ClassID != want.ClassID:
		return fmt.Errorf("class_id %d, expected %d", got.ClassID, want.ClassID)
	case got.ClassName != want.ClassName:
		return fmt.Errorf("class_name %q, expected %q", got.ClassName, want.ClassName)
	case got.Count != want.Count:
		return fmt.Errorf("count %d, expected %d", got.Count, want.Count)
	case got.Prob != want.Prob:
		return fmt.Errorf("prob %v, expected %v", got.Prob, want.Prob)
	case got.Conf != want.Conf:
		return fmt.Errorf("conf %v, expected %v", got.Conf, want.Conf)
	case got.Provenance != want.Provenance:
		return fmt.Errorf("expert_updated %d, expected %d", got.Provenance, want.Provenance)
	case got.Event != want.Event:
		return fmt.Errorf("event %d, expected %d", got.Event, want.Event)
	case !got.Timestamp.Equal(want.Timestamp):
		return fmt.Errorf("timestamp %s, expected %s",
			table.FormatTimestamp(got.Timestamp), table.FormatTimestamp(want.Timestamp))
	case got.FlashFired != want.FlashFired:
		return fmt.Errorf("flash_fired %d, expected %d", got.FlashFired, want.FlashFired)
	}
	for col, value := range want.Extra {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if got.ExtraValue(col) != value {
			return fmt.Errorf("%s %q, expected %q", col, got.ExtraValue(col), value)
		}
	}
	return nil
}
