package merge

import (
	"fmt"
	"strings"
	"time"

	"github.com/BWBrook/mewc-table/internal/sanity"
)

// Key identifies one source image within one camera site. Matching is
// case-insensitive on both parts.
type Key struct {
	Site         string
	BaseFilename string
}

func normalizeKey(site, baseFilename string) Key {
	return Key{Site: strings.ToLower(site), BaseFilename: strings.ToLower(baseFilename)}
}

// Entry is one resolved correction: an image the expert placed in a species
// folder, with the on-disk filename and an externally derived capture time
// for rows that need appending.
type Entry struct {
	Site      string
	Filename  string
	ClassName string
	Timestamp time.Time
	Source    string
}

// Conflict records one key mapped to two different classes by two sources.
type Conflict struct {
	Site         string
	BaseFilename string
	FirstClass   string
	FirstSource  string
	SecondClass  string
	SecondSource string
}

// CorrectionMap maps (camera_site, base filename) to the expert's resolved
// class. It tracks conflicting insertions instead of overwriting, and keeps
// insertion order so unconsumed entries append deterministically.
type CorrectionMap struct {
	entries   map[Key]Entry
	order     []Key
	conflicts []Conflict
}

// NewCorrectionMap returns an empty correction map.
func NewCorrectionMap() *CorrectionMap {
	return &CorrectionMap{entries: make(map[Key]Entry)}
}

// Add inserts a correction. A duplicate key with the same class is ignored;
// a duplicate key with a different class is recorded as a conflict and the
// map becomes unusable until the input is fixed.
func (m *CorrectionMap) Add(e Entry) {
	key := normalizeKey(e.Site, BaseFilename(e.Filename))
	existing, ok := m.entries[key]
	if !ok {
		m.entries[key] = e
		m.order = append(m.order, key)
		return
	}
	if existing.ClassName == e.ClassName {
		return
	}
	m.conflicts = append(m.conflicts, Conflict{
		Site:         existing.Site,
		BaseFilename: BaseFilename(existing.Filename),
		FirstClass:   existing.ClassName,
		FirstSource:  existing.Source,
		SecondClass:  e.ClassName,
		SecondSource: e.Source,
	})
}

// Len returns the number of unconsumed entries.
func (m *CorrectionMap) Len() int {
	return len(m.entries)
}

// Conflicts returns every conflicting insertion seen so far.
func (m *CorrectionMap) Conflicts() []Conflict {
	out := make([]Conflict, len(m.conflicts))
	copy(out, m.conflicts)
	return out
}

// ConflictError returns an ErrConflict listing every conflicting key with
// both candidate classes and both source locations, or nil when the map is
// clean.
func (m *CorrectionMap) ConflictError() error {
	if len(m.conflicts) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d image(s) mapped to two classes:", len(m.conflicts))
	for _, c := range m.conflicts {
		fmt.Fprintf(&b, "\n  %s/%s: %q (%s) vs %q (%s)",
			c.Site, c.BaseFilename, c.FirstClass, c.FirstSource, c.SecondClass, c.SecondSource)
	}
	return sanity.Wrap(sanity.ErrConflict, "merge", "corrections", b.String(), nil)
}

// Lookup finds the entry for (site, baseFilename), case-insensitively.
func (m *CorrectionMap) Lookup(site, baseFilename string) (Entry, bool) {
	e, ok := m.entries[normalizeKey(site, baseFilename)]
	return e, ok
}

// Consume removes a matched entry so it does not later append a new row.
func (m *CorrectionMap) Consume(site, baseFilename string) {
	delete(m.entries, normalizeKey(site, baseFilename))
}

// Remaining returns the unconsumed entries in insertion order. These are
// images found on disk with no corresponding table row.
func (m *CorrectionMap) Remaining() []Entry {
	out := make([]Entry, 0, len(m.entries))
	for _, key := range m.order {
		if e, ok := m.entries[key]; ok {
			out = append(out, e)
		}
	}
	return out
}
