package tablestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/BWBrook/mewc-table/internal/table"
)

const detectionsSchema = `
CREATE TABLE detections (
    id INTEGER PRIMARY KEY,
    camera_site TEXT NOT NULL,
    filename TEXT NOT NULL,
    rand_name TEXT NOT NULL,
    class_id INTEGER NOT NULL,
    class_name TEXT NOT NULL,
    count INTEGER NOT NULL,
    prob REAL NOT NULL,
    conf REAL NOT NULL,
    expert_updated INTEGER NOT NULL,
    event INTEGER NOT NULL,
    timestamp TEXT NOT NULL,
    flash_fired INTEGER NOT NULL,
    extra TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX idx_detections_site_event ON detections (camera_site, event);
`

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, nil
}

// WriteDB writes the table as a fresh SQLite database. The database is built
// at a temporary path and renamed into place so readers never observe a
// half-written file.
func WriteDB(ctx context.Context, path string, tbl *table.Table) error {
	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear stale temp db: %w", err)
	}

	db, err := openDB(tmp)
	if err != nil {
		return err
	}
	if err := writeDetections(ctx, db, tbl); err != nil {
		_ = db.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := db.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close sqlite db: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace sqlite db: %w", err)
	}
	return nil
}

func writeDetections(ctx context.Context, db *sql.DB, tbl *table.Table) error {
	if _, err := db.ExecContext(ctx, detectionsSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO detections (
        camera_site, filename, rand_name, class_id, class_name, count,
        prob, conf, expert_updated, event, timestamp, flash_fired, extra
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var insertErr error
	tbl.Each(func(_ int, r *table.Record) {
		if insertErr != nil {
			return
		}
		extra := "{}"
		if len(r.Extra) > 0 {
			encoded, err := json.Marshal(r.Extra)
			if err != nil {
				insertErr = fmt.Errorf("encode extra columns: %w", err)
				return
			}
			extra = string(encoded)
		}
		_, insertErr = stmt.ExecContext(ctx,
			r.Site, r.Filename, r.RandName, r.ClassID, r.ClassName, r.Count,
			r.Prob, r.Conf, int(r.Provenance), r.Event, timestampField(r),
			r.FlashFired, extra)
	})
	if insertErr != nil {
		return fmt.Errorf("insert detection: %w", insertErr)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReadDB reads the table back from its SQLite form, in insertion order.
func ReadDB(ctx context.Context, path string) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat sqlite db: %w", err)
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT
        camera_site, filename, rand_name, class_id, class_name, count,
        prob, conf, expert_updated, event, timestamp, flash_fired, extra
    FROM detections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query detections: %w", err)
	}
	defer rows.Close()

	tbl := table.New()
	extraSeen := make(map[string]bool)
	for rows.Next() {
		var r table.Record
		var provenance int
		var timestamp, extra string
		if err := rows.Scan(&r.Site, &r.Filename, &r.RandName, &r.ClassID,
			&r.ClassName, &r.Count, &r.Prob, &r.Conf, &provenance, &r.Event,
			&timestamp, &r.FlashFired, &extra); err != nil {
			return nil, fmt.Errorf("scan detection: %w", err)
		}
		r.Provenance = table.Provenance(provenance)
		r.TimestampRaw = timestamp
		if ts, err := table.ParseTimestamp(timestamp); err == nil {
			r.Timestamp = ts
		}
		if extra != "" && extra != "{}" {
			if err := json.Unmarshal([]byte(extra), &r.Extra); err != nil {
				return nil, fmt.Errorf("decode extra columns: %w", err)
			}
			for col := range r.Extra {
				if !extraSeen[col] {
					extraSeen[col] = true
					tbl.AddExtraColumn(col)
				}
			}
		}
		tbl.Append(r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detections: %w", err)
	}
	return tbl, nil
}
