package table

// Canonical column names for the exported table. Both the CSV and SQLite
// forms emit these, in the order of Columns, followed by any pass-through
// columns in their input order. This file is the single source of truth for
// the layout.
const (
	ColSite       = "camera_site"
	ColFilename   = "filename"
	ColRandName   = "rand_name"
	ColClassID    = "class_id"
	ColClassName  = "class_name"
	ColCount      = "count"
	ColProb       = "prob"
	ColConf       = "conf"
	ColProvenance = "expert_updated"
	ColEvent      = "event"
	ColTimestamp  = "timestamp"
	ColFlashFired = "flash_fired"

	// ColDateTimeOrig is the EXIF-derived source column of raw classifier
	// output, consumed by the consolidation entry point and never exported.
	ColDateTimeOrig = "date_time_orig"
)

var canonicalColumns = []string{
	ColSite,
	ColFilename,
	ColRandName,
	ColClassID,
	ColClassName,
	ColCount,
	ColProb,
	ColConf,
	ColProvenance,
	ColEvent,
	ColTimestamp,
	ColFlashFired,
}

// Columns returns the canonical column order, excluding pass-through
// columns.
func Columns() []string {
	out := make([]string, len(canonicalColumns))
	copy(out, canonicalColumns)
	return out
}

// IsCanonicalColumn reports whether name is one of the interpreted columns.
func IsCanonicalColumn(name string) bool {
	for _, col := range canonicalColumns {
		if col == name {
			return true
		}
	}
	return false
}
