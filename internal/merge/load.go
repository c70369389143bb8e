package merge

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BWBrook/mewc-table/internal/sanity"
	"github.com/BWBrook/mewc-table/internal/table"
)

// LoadCorrections reads a correction manifest: a delimited file with a
// header row naming at least camera_site, filename and class_name. Optional
// columns: timestamp (externally derived EXIF or file-modification time, for
// rows that need appending) and source (where the mapping came from; the
// file position is used when absent). Conflicting entries are collected, not
// rejected here, so the caller can report all of them at once.
func LoadCorrections(path string, logger *slog.Logger) (*CorrectionMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sanity.Wrap(sanity.ErrNotFound, "merge", "load corrections", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, sanity.Wrap(sanity.ErrValidation, "merge", "load corrections",
			fmt.Sprintf("%s: cannot read header", path), err)
	}
	cols := columnIndex(header)
	for _, required := range []string{table.ColSite, table.ColFilename, table.ColClassName} {
		if _, ok := cols[required]; !ok {
			return nil, sanity.Wrap(sanity.ErrValidation, "merge", "load corrections",
				fmt.Sprintf("%s: missing required column %q", path, required), nil)
		}
	}

	m := NewCorrectionMap()
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, sanity.Wrap(sanity.ErrValidation, "merge", "load corrections",
				fmt.Sprintf("%s: row %d", path, line+1), err)
		}
		line++

		entry := Entry{
			Site:      field(row, cols, table.ColSite),
			Filename:  field(row, cols, table.ColFilename),
			ClassName: field(row, cols, table.ColClassName),
			Source:    field(row, cols, "source"),
		}
		if entry.Site == "" || entry.Filename == "" || entry.ClassName == "" {
			return nil, sanity.Wrap(sanity.ErrValidation, "merge", "load corrections",
				fmt.Sprintf("%s: row %d: blank camera_site, filename or class_name", path, line), nil)
		}
		if entry.Source == "" {
			entry.Source = fmt.Sprintf("%s#%d", path, line)
		}
		if raw := field(row, cols, table.ColTimestamp); raw != "" && raw != "NA" {
			ts, err := table.ParseTimestamp(raw)
			if err != nil {
				logger.Warn("correction timestamp unparseable",
					"path", path, "row", line, "value", raw)
			} else {
				entry.Timestamp = ts
			}
		}
		m.Add(entry)
	}

	logger.Info("corrections loaded", "path", path, "entries", m.Len(), "conflicts", len(m.conflicts))
	return m, nil
}

// LoadSnipSort reads the expert snip-sort manifest: rand_name and class_name
// columns. A rand_name listed twice with different classes is ambiguous and
// fails the load.
func LoadSnipSort(path string) (SnipSortMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sanity.Wrap(sanity.ErrNotFound, "merge", "load snip sort", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, sanity.Wrap(sanity.ErrValidation, "merge", "load snip sort",
			fmt.Sprintf("%s: cannot read header", path), err)
	}
	cols := columnIndex(header)
	for _, required := range []string{table.ColRandName, table.ColClassName} {
		if _, ok := cols[required]; !ok {
			return nil, sanity.Wrap(sanity.ErrValidation, "merge", "load snip sort",
				fmt.Sprintf("%s: missing required column %q", path, required), nil)
		}
	}

	snips := make(SnipSortMap)
	line := 1
	var duplicates []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, sanity.Wrap(sanity.ErrValidation, "merge", "load snip sort",
				fmt.Sprintf("%s: row %d", path, line+1), err)
		}
		line++

		randName := field(row, cols, table.ColRandName)
		class := field(row, cols, table.ColClassName)
		if randName == "" || class == "" {
			return nil, sanity.Wrap(sanity.ErrValidation, "merge", "load snip sort",
				fmt.Sprintf("%s: row %d: blank rand_name or class_name", path, line), nil)
		}
		if existing, ok := snips[randName]; ok && existing != class {
			duplicates = append(duplicates, fmt.Sprintf("%s: %q vs %q", randName, existing, class))
			continue
		}
		snips[randName] = class
	}
	if len(duplicates) > 0 {
		return nil, sanity.Wrap(sanity.ErrConflict, "merge", "load snip sort",
			fmt.Sprintf("%s: %d snip(s) sorted into two classes: %s",
				path, len(duplicates), strings.Join(duplicates, "; ")), nil)
	}
	return snips, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
