package datamerge

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/BWBrook/mewc-table/internal/logging"
	"github.com/BWBrook/mewc-table/internal/sanity"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readMerged(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestMergeCombinesSortedWithSourceColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "project_b.csv",
		"camera_site,class_name,timestamp,count\n"+
			"siteB,fox,02/06/2024 09:00:00,1\n")
	writeFile(t, dir, "project_a.csv",
		"camera_site,class_name,timestamp,count\n"+
			"siteA,deer,01/06/2024 11:00:00,2\n"+
			"siteA,deer,01/06/2024 10:00:00,1\n")

	result, err := Merge(dir, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.MergedFiles) != 2 || result.Rows != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}

	rows := readMerged(t, result.OutputPath)
	header := rows[0]
	if header[0] != "camera_site" || header[1] != "class_name" || header[2] != "timestamp" {
		t.Fatalf("key columns not first: %v", header)
	}
	if header[len(header)-1] != "source" {
		t.Fatalf("source not last: %v", header)
	}
	// siteA rows sorted by time, then siteB.
	if rows[1][2] != "01/06/2024 10:00:00" || rows[2][2] != "01/06/2024 11:00:00" {
		t.Fatalf("rows not time-sorted: %v", rows)
	}
	if rows[3][0] != "siteB" {
		t.Fatalf("sites not grouped: %v", rows)
	}
	if rows[1][len(header)-1] != "project_a" {
		t.Fatalf("source column wrong: %v", rows[1])
	}
}

func TestMergeRejectsFilesWithReasons(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.csv",
		"camera_site,class_name,timestamp\nsiteA,deer,01/06/2024 10:00:00\n")
	writeFile(t, dir, "no_columns.csv", "filename,count\na.JPG,1\n")
	writeFile(t, dir, "blank_cell.csv",
		"camera_site,class_name,timestamp\nsiteA,,01/06/2024 10:00:00\n")

	result, err := Merge(dir, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.MergedFiles) != 1 || result.MergedFiles[0] != "good.csv" {
		t.Fatalf("unexpected merged set: %v", result.MergedFiles)
	}
	if len(result.Rejections) != 2 {
		t.Fatalf("expected 2 rejections, got %+v", result.Rejections)
	}
	reasons := make(map[string]string)
	for _, r := range result.Rejections {
		reasons[r.File] = r.Reason
	}
	if reasons["no_columns.csv"] == "" || reasons["blank_cell.csv"] == "" {
		t.Fatalf("rejections must carry reasons: %v", reasons)
	}
}

func TestMergeFillsBlanksWithNA(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv",
		"camera_site,class_name,timestamp,count\nsiteA,deer,01/06/2024 10:00:00,\n")
	writeFile(t, dir, "b.csv",
		"camera_site,class_name,timestamp,notes\nsiteB,fox,01/06/2024 10:00:00,seen\n")

	result, err := Merge(dir, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	rows := readMerged(t, result.OutputPath)
	header := rows[0]
	cell := func(row []string, name string) string {
		for i, col := range header {
			if col == name {
				return row[i]
			}
		}
		t.Fatalf("column %s missing", name)
		return ""
	}
	if cell(rows[1], "count") != "NA" {
		t.Fatalf("blank count should become NA: %v", rows[1])
	}
	// Column absent from the other file also fills with NA.
	if cell(rows[1], "notes") != "NA" && cell(rows[2], "notes") != "NA" {
		t.Fatalf("missing column should fill NA: %v", rows)
	}
}

func TestMergeIsIdempotentAcrossReruns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv",
		"camera_site,class_name,timestamp\nsiteA,deer,01/06/2024 10:00:00\n")

	first, err := Merge(dir, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Merge(dir, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if first.Rows != second.Rows {
		t.Fatalf("rerun absorbed its own output: %d vs %d", first.Rows, second.Rows)
	}
}

func TestMergeEmptyDirectoryReportsNotFound(t *testing.T) {
	_, err := Merge(t.TempDir(), logging.NewNop())
	if !errors.Is(err, sanity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMergeAllRejectedReportsValidation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.csv", "filename\na.JPG\n")
	_, err := Merge(dir, logging.NewNop())
	if !errors.Is(err, sanity.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
