package table

import "time"

// Sentinel values shared across the curation stages.
const (
	// ClassUnknownAnimal means an animal was detected but the species could
	// not be confidently identified.
	ClassUnknownAnimal = "unknown_animal"
	// ClassOtherObject is the non-animal noise bin; files sorted there never
	// enter the table.
	ClassOtherObject = "other_object"
	// RandNameNone marks rows appended synthetically, which never went
	// through the anonymized snip sort.
	RandNameNone = "none"

	// UnknownAnimalClassID is the reserved numeric code for unknown_animal.
	UnknownAnimalClassID = 0
	// UnresolvedClassID marks a class name that could not be resolved to a
	// known numeric code.
	UnresolvedClassID = -1

	// FlashUnmatched marks rows with no corresponding on-disk image during
	// the flash pass.
	FlashUnmatched = -1
)

// Record is one classified detection: a full image, or one sub-detection
// within an image when the filename carries a -N suffix.
type Record struct {
	Site       string
	Filename   string
	RandName   string
	ClassID    int
	ClassName  string
	Count      int
	Prob       float64
	Conf       float64
	Provenance Provenance
	Event      int

	// Timestamp is the parsed capture time; zero when TimestampRaw did not
	// match any accepted layout. Rows with a zero Timestamp are excluded
	// from time-based logic but kept in the table.
	Timestamp    time.Time
	TimestampRaw string

	// FlashFired is externally supplied and passed through untouched, except
	// for the FlashUnmatched orphan marker.
	FlashFired int

	// Extra carries pass-through columns the curation stages do not
	// interpret, keyed by column name.
	Extra map[string]string
}

// HasTimestamp reports whether the record carries a usable capture time.
func (r *Record) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}

// ExtraValue returns a pass-through column value, or "" when absent.
func (r *Record) ExtraValue(column string) string {
	if r.Extra == nil {
		return ""
	}
	return r.Extra[column]
}

// SetExtra records a pass-through column value.
func (r *Record) SetExtra(column, value string) {
	if r.Extra == nil {
		r.Extra = make(map[string]string, 1)
	}
	r.Extra[column] = value
}
