package pipeline

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BWBrook/mewc-table/internal/sanity"
	"github.com/BWBrook/mewc-table/internal/table"
)

// RawExportName is the per-site classifier export consolidation looks for.
const RawExportName = "mewc_out.csv"

// Columns of the raw export that never enter the table.
var droppedRawColumns = map[string]bool{
	"":           true,
	"label":      true,
	"class_rank": true,
}

// LoadRaw scans the service directory tree for classifier exports and builds
// the initial table. Each export's camera site is the name of the directory
// holding it. Every row starts with ProvenanceRemoved; the snip sort decides
// what survives.
func LoadRaw(serviceDir string, logger *slog.Logger) (*table.Table, int, error) {
	var exports []string
	err := filepath.WalkDir(serviceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == RawExportName {
			exports = append(exports, path)
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan %s: %w", serviceDir, err)
	}
	sort.Strings(exports)
	if len(exports) == 0 {
		return nil, 0, sanity.Wrap(sanity.ErrNotFound, "pipeline", "load_raw",
			fmt.Sprintf("no %s files under %s", RawExportName, serviceDir), nil)
	}

	tbl := table.New()
	for _, path := range exports {
		site := filepath.Base(filepath.Dir(path))
		if err := readRawExport(tbl, path, site); err != nil {
			return nil, 0, err
		}
	}
	logger.Info("raw exports loaded", "files", len(exports), "rows", tbl.Len())
	return tbl, len(exports), nil
}

func readRawExport(tbl *table.Table, path, site string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open raw export: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read raw export %s: %w", path, err)
	}
	if len(rows) == 0 {
		return sanity.Wrap(sanity.ErrValidation, "pipeline", "load_raw",
			fmt.Sprintf("%s: empty file", path), nil)
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	var extras []string
	for i, name := range header {
		name = strings.TrimSpace(name)
		index[name] = i
		if !table.IsCanonicalColumn(name) && name != table.ColDateTimeOrig && !droppedRawColumns[name] {
			extras = append(extras, name)
		}
	}
	for _, required := range []string{table.ColFilename, table.ColRandName, table.ColClassName} {
		if _, ok := index[required]; !ok {
			return sanity.Wrap(sanity.ErrValidation, "pipeline", "load_raw",
				fmt.Sprintf("%s: missing column %q", path, required), nil)
		}
	}
	for _, col := range extras {
		tbl.AddExtraColumn(col)
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for line, row := range rows[1:] {
		r := table.Record{
			Site:       site,
			Filename:   field(row, table.ColFilename),
			RandName:   field(row, table.ColRandName),
			ClassName:  field(row, table.ColClassName),
			Provenance: table.ProvenanceRemoved,
			FlashFired: table.FlashUnmatched,
		}
		var err error
		if r.ClassID, err = rawInt(field(row, table.ColClassID), table.UnresolvedClassID); err != nil {
			return rawRowErr(path, line, table.ColClassID, err)
		}
		if r.Prob, err = rawFloat(field(row, table.ColProb)); err != nil {
			return rawRowErr(path, line, table.ColProb, err)
		}
		if r.Conf, err = rawFloat(field(row, table.ColConf)); err != nil {
			return rawRowErr(path, line, table.ColConf, err)
		}
		if flash := field(row, table.ColFlashFired); flash != "" {
			if r.FlashFired, err = rawInt(flash, table.FlashUnmatched); err != nil {
				return rawRowErr(path, line, table.ColFlashFired, err)
			}
		}

		raw := field(row, table.ColDateTimeOrig)
		r.TimestampRaw = raw
		if ts, err := table.ParseEXIFTimestamp(raw); err == nil {
			r.Timestamp = ts
			r.TimestampRaw = table.FormatTimestamp(ts)
		}

		for _, col := range extras {
			if value := field(row, col); value != "" {
				r.SetExtra(col, value)
			}
		}
		tbl.Append(r)
	}
	return nil
}

func rawRowErr(path string, line int, column string, err error) error {
	return sanity.Wrap(sanity.ErrValidation, "pipeline", "load_raw",
		fmt.Sprintf("%s row %d: %s: %v", path, line+2, column, err), nil)
}

func rawInt(value string, empty int) (int, error) {
	if value == "" || value == "NA" {
		return empty, nil
	}
	return strconv.Atoi(value)
}

func rawFloat(value string) (float64, error) {
	if value == "" || value == "NA" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}
