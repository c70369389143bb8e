package datamerge

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BWBrook/mewc-table/internal/sanity"
	"github.com/BWBrook/mewc-table/internal/table"
)

// OutputFilename is written into the scanned directory and excluded from
// later merges so the command stays idempotent.
const OutputFilename = "merged_data_table.csv"

var requiredColumns = []string{table.ColSite, table.ColClassName, table.ColTimestamp}

// Rejection records one candidate file that failed validation.
type Rejection struct {
	File   string
	Reason string
}

// Result summarizes one merge run.
type Result struct {
	MergedFiles []string
	Rejections  []Rejection
	Rows        int
	OutputPath  string
}

type mergedRow struct {
	values map[string]string
	when   time.Time
	parsed bool
}

// Merge scans dir for exported tables, validates each, and writes the
// combined CSV into the same directory. ErrNotFound is returned when the
// directory holds no candidates, ErrValidation when every candidate was
// rejected.
func Merge(dir string, logger *slog.Logger) (Result, error) {
	var result Result

	candidates, err := listCandidates(dir)
	if err != nil {
		return result, err
	}
	if len(candidates) == 0 {
		return result, sanity.Wrap(sanity.ErrNotFound, "datamerge", "scan",
			fmt.Sprintf("no csv files in %s", dir), nil)
	}

	var columns []string
	columnSeen := make(map[string]bool)
	var rows []mergedRow

	for _, path := range candidates {
		name := filepath.Base(path)
		header, records, reason := readCandidate(path)
		if reason != "" {
			result.Rejections = append(result.Rejections, Rejection{File: name, Reason: reason})
			logger.Warn("data table rejected", "file", name, "reason", reason)
			continue
		}

		source := strings.TrimSuffix(name, filepath.Ext(name))
		for _, col := range header {
			if !columnSeen[col] {
				columnSeen[col] = true
				columns = append(columns, col)
			}
		}
		unparseable := 0
		for _, record := range records {
			row := mergedRow{values: make(map[string]string, len(header)+1)}
			for i, col := range header {
				if i < len(record) {
					row.values[col] = strings.TrimSpace(record[i])
				}
			}
			row.values["source"] = source
			if ts, err := table.ParseTimestamp(row.values[table.ColTimestamp]); err == nil {
				row.when = ts
				row.parsed = true
			} else {
				unparseable++
			}
			rows = append(rows, row)
		}
		if unparseable > 0 {
			logger.Warn("unparseable timestamps carried as NA",
				"file", name, "rows", unparseable)
		}
		result.MergedFiles = append(result.MergedFiles, name)
	}

	if len(result.MergedFiles) == 0 {
		return result, sanity.Wrap(sanity.ErrValidation, "datamerge", "validate",
			fmt.Sprintf("all %d candidate(s) rejected", len(candidates)), nil)
	}

	// Rows without a parseable timestamp sort after dated rows of the
	// same site; ties keep input order.
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.values[table.ColSite] != b.values[table.ColSite] {
			return a.values[table.ColSite] < b.values[table.ColSite]
		}
		if a.parsed != b.parsed {
			return a.parsed
		}
		return a.when.Before(b.when)
	})

	ordered := orderColumns(columns)
	result.OutputPath = filepath.Join(dir, OutputFilename)
	if err := writeMerged(result.OutputPath, ordered, rows); err != nil {
		return result, err
	}
	result.Rows = len(rows)

	logger.Info("data tables merged",
		"files", len(result.MergedFiles),
		"rejected", len(result.Rejections),
		"rows", result.Rows,
		"output", result.OutputPath)
	return result, nil
}

func listCandidates(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, sanity.Wrap(sanity.ErrValidation, "datamerge", "scan",
			fmt.Sprintf("%s is not a directory", dir), err)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(matches)
	var out []string
	for _, path := range matches {
		if filepath.Base(path) == OutputFilename {
			continue
		}
		out = append(out, path)
	}
	return out, nil
}

// readCandidate reads one CSV and checks the merge preconditions. A non-empty
// reason means the file is rejected.
func readCandidate(path string) (header []string, records [][]string, reason string) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Sprintf("unreadable: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Sprintf("malformed csv: %v", err)
	}
	if len(all) == 0 {
		return nil, nil, "empty file"
	}

	header = make([]string, len(all[0]))
	for i, col := range all[0] {
		header[i] = strings.TrimSpace(col)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Sprintf("missing columns %s", strings.Join(missing, ", "))
	}
	for rowNum, record := range all[1:] {
		for _, col := range requiredColumns {
			i := index[col]
			if i >= len(record) || strings.TrimSpace(record[i]) == "" {
				return nil, nil, fmt.Sprintf("row %d: blank %s", rowNum+2, col)
			}
		}
	}
	return header, all[1:], ""
}

// orderColumns puts the key columns first and source last; everything else
// keeps first-seen order in between.
func orderColumns(columns []string) []string {
	ordered := append([]string{}, requiredColumns...)
	key := make(map[string]bool, len(requiredColumns)+1)
	for _, col := range requiredColumns {
		key[col] = true
	}
	key["source"] = true
	for _, col := range columns {
		if !key[col] {
			ordered = append(ordered, col)
		}
	}
	return append(ordered, "source")
}

func writeMerged(path string, columns []string, rows []mergedRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create merged csv: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write merged header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = cellValue(row, col)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write merged row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush merged csv: %w", err)
	}
	return file.Close()
}

func cellValue(row mergedRow, col string) string {
	if col == table.ColTimestamp {
		if row.parsed {
			return table.FormatTimestamp(row.when)
		}
		return "NA"
	}
	value := row.values[col]
	if value == "" && col != table.ColSite {
		return "NA"
	}
	return value
}
