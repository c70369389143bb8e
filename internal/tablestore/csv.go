package tablestore

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BWBrook/mewc-table/internal/sanity"
	"github.com/BWBrook/mewc-table/internal/table"
)

// WriteCSV writes the table in the canonical column order, pass-through
// columns appended in their recorded order.
func WriteCSV(path string, tbl *table.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	extras := tbl.ExtraColumns()
	header := append(table.Columns(), extras...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	var writeErr error
	tbl.Each(func(_ int, r *table.Record) {
		if writeErr != nil {
			return
		}
		row := recordFields(r)
		for _, col := range extras {
			row = append(row, r.ExtraValue(col))
		}
		writeErr = writer.Write(row)
	})
	if writeErr != nil {
		return fmt.Errorf("write csv row: %w", writeErr)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return file.Close()
}

func recordFields(r *table.Record) []string {
	return []string{
		r.Site,
		r.Filename,
		r.RandName,
		strconv.Itoa(r.ClassID),
		r.ClassName,
		strconv.Itoa(r.Count),
		formatFloat(r.Prob),
		formatFloat(r.Conf),
		strconv.Itoa(int(r.Provenance)),
		strconv.Itoa(r.Event),
		timestampField(r),
		strconv.Itoa(r.FlashFired),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// timestampField emits the canonical format for parsed timestamps and
// preserves the raw text for rows that never parsed, so a later curator can
// still see what the camera wrote.
func timestampField(r *table.Record) string {
	if r.HasTimestamp() {
		return table.FormatTimestamp(r.Timestamp)
	}
	if strings.TrimSpace(r.TimestampRaw) != "" {
		return r.TimestampRaw
	}
	return "NA"
}

// ReadCSV reads a curated table back. The canonical columns are interpreted;
// any other columns are carried as pass-through values.
func ReadCSV(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, sanity.Wrap(sanity.ErrValidation, "store", "read_csv",
			fmt.Sprintf("%s: empty file", path), nil)
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	var extras []string
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; dup {
			return nil, sanity.Wrap(sanity.ErrValidation, "store", "read_csv",
				fmt.Sprintf("%s: duplicate column %q", path, name), nil)
		}
		index[name] = i
		if !table.IsCanonicalColumn(name) {
			extras = append(extras, name)
		}
	}
	for _, required := range []string{table.ColSite, table.ColFilename, table.ColClassName} {
		if _, ok := index[required]; !ok {
			return nil, sanity.Wrap(sanity.ErrValidation, "store", "read_csv",
				fmt.Sprintf("%s: missing column %q", path, required), nil)
		}
	}

	tbl := table.New()
	tbl.SetExtraColumns(extras)
	for line, row := range rows[1:] {
		record, err := parseRecord(index, extras, row)
		if err != nil {
			return nil, sanity.Wrap(sanity.ErrValidation, "store", "read_csv",
				fmt.Sprintf("%s row %d: %v", path, line+2, err), nil)
		}
		tbl.Append(record)
	}
	return tbl, nil
}

func parseRecord(index map[string]int, extras []string, row []string) (table.Record, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	r := table.Record{
		Site:      field(table.ColSite),
		Filename:  field(table.ColFilename),
		RandName:  field(table.ColRandName),
		ClassName: field(table.ColClassName),
	}

	var err error
	if r.ClassID, err = intField(field(table.ColClassID), 0); err != nil {
		return r, fmt.Errorf("%s: %w", table.ColClassID, err)
	}
	if r.Count, err = intField(field(table.ColCount), 0); err != nil {
		return r, fmt.Errorf("%s: %w", table.ColCount, err)
	}
	if r.Prob, err = floatField(field(table.ColProb)); err != nil {
		return r, fmt.Errorf("%s: %w", table.ColProb, err)
	}
	if r.Conf, err = floatField(field(table.ColConf)); err != nil {
		return r, fmt.Errorf("%s: %w", table.ColConf, err)
	}
	prov, err := intField(field(table.ColProvenance), int(table.ProvenanceConfirmed))
	if err != nil {
		return r, fmt.Errorf("%s: %w", table.ColProvenance, err)
	}
	r.Provenance = table.Provenance(prov)
	if r.Event, err = intField(field(table.ColEvent), 0); err != nil {
		return r, fmt.Errorf("%s: %w", table.ColEvent, err)
	}
	if r.FlashFired, err = intField(field(table.ColFlashFired), table.FlashUnmatched); err != nil {
		return r, fmt.Errorf("%s: %w", table.ColFlashFired, err)
	}

	r.TimestampRaw = field(table.ColTimestamp)
	if ts, err := table.ParseTimestamp(r.TimestampRaw); err == nil {
		r.Timestamp = ts
	}

	for _, col := range extras {
		if value := field(col); value != "" {
			r.SetExtra(col, value)
		}
	}
	return r, nil
}

func intField(value string, empty int) (int, error) {
	if value == "" || value == "NA" {
		return empty, nil
	}
	return strconv.Atoi(value)
}

func floatField(value string) (float64, error) {
	if value == "" || value == "NA" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}
