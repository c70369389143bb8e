package table

import (
	"testing"
	"time"
)

func TestParseTimestampLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"25/12/2023 14:30:45", "2023-12-25T14:30:45"},
		{"25/12/2023 14:30", "2023-12-25T14:30:00"},
		{"2023-12-25 14:30:45", "2023-12-25T14:30:45"},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", tc.in, err)
		}
		want, _ := time.Parse("2006-01-02T15:04:05", tc.want)
		if !got.Equal(want) {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", tc.in, got, want)
		}
	}
}

func TestParseTimestampDayFirstWins(t *testing.T) {
	// 03/04 must read as 3 April, not 4 March.
	got, err := ParseTimestamp("03/04/2024 08:00:00")
	if err != nil {
		t.Fatal(err)
	}
	if got.Month() != time.April || got.Day() != 3 {
		t.Fatalf("expected 3 April, got %v", got)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "NA", "not a date", "2023/12/25 14:30"} {
		if _, err := ParseTimestamp(in); err == nil {
			t.Fatalf("ParseTimestamp(%q) should fail", in)
		}
	}
}

func TestParseEXIFTimestamp(t *testing.T) {
	got, err := ParseEXIFTimestamp("2023:12:25 14:30:45")
	if err != nil {
		t.Fatal(err)
	}
	if got.Year() != 2023 || got.Month() != time.December || got.Second() != 45 {
		t.Fatalf("unexpected parse: %v", got)
	}
	if _, err := ParseEXIFTimestamp("2023-12-25 14:30:45"); err == nil {
		t.Fatal("ISO value should not parse as date_time_orig")
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	in := "05/06/2024 23:59:01"
	parsed, err := ParseTimestamp(in)
	if err != nil {
		t.Fatal(err)
	}
	if out := FormatTimestamp(parsed); out != in {
		t.Fatalf("round trip %q -> %q", in, out)
	}
	if FormatTimestamp(time.Time{}) != "NA" {
		t.Fatal("zero time should format as NA")
	}
}
