package table

import (
	"sort"
)

// Table is the mutable in-memory detection table. Rows live in an arena and
// are addressed by the stable ids returned from Append; sorting reorders
// iteration, not ids.
type Table struct {
	rows  []Record
	order []int
	extra []string
}

// New returns an empty table.
func New() *Table {
	return &Table{}
}

// FromRecords builds a table over the given rows in the given order.
func FromRecords(rows []Record) *Table {
	t := &Table{rows: make([]Record, len(rows)), order: make([]int, len(rows))}
	copy(t.rows, rows)
	for i := range t.order {
		t.order[i] = i
	}
	return t
}

// Append adds a row and returns its stable id.
func (t *Table) Append(r Record) int {
	id := len(t.rows)
	t.rows = append(t.rows, r)
	t.order = append(t.order, id)
	return id
}

// Len returns the number of live rows.
func (t *Table) Len() int {
	return len(t.order)
}

// Row returns a pointer into the arena. The pointer stays valid across sorts
// and removals of other rows.
func (t *Table) Row(id int) *Record {
	return &t.rows[id]
}

// IDs returns the live row ids in iteration order. The returned slice is a
// copy and safe to retain.
func (t *Table) IDs() []int {
	ids := make([]int, len(t.order))
	copy(ids, t.order)
	return ids
}

// Each calls fn for every live row in iteration order.
func (t *Table) Each(fn func(id int, r *Record)) {
	for _, id := range t.order {
		fn(id, &t.rows[id])
	}
}

// Records returns a copy of the live rows in iteration order.
func (t *Table) Records() []Record {
	out := make([]Record, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

// Keep retains only the rows the predicate accepts, preserving order.
func (t *Table) Keep(keep func(id int, r *Record) bool) int {
	kept := t.order[:0]
	removed := 0
	for _, id := range t.order {
		if keep(id, &t.rows[id]) {
			kept = append(kept, id)
		} else {
			removed++
		}
	}
	t.order = kept
	return removed
}

// ExtraColumns returns the pass-through column names in input order.
func (t *Table) ExtraColumns() []string {
	out := make([]string, len(t.extra))
	copy(out, t.extra)
	return out
}

// SetExtraColumns declares the pass-through column names the table carries.
func (t *Table) SetExtraColumns(names []string) {
	t.extra = make([]string, len(names))
	copy(t.extra, names)
}

// AddExtraColumn declares one pass-through column if not already present.
func (t *Table) AddExtraColumn(name string) {
	for _, existing := range t.extra {
		if existing == name {
			return
		}
	}
	t.extra = append(t.extra, name)
}

// SortSiteTime stably sorts iteration order by (site, timestamp). Rows with
// equal keys, including rows without a parsed timestamp, keep their relative
// input order.
func (t *Table) SortSiteTime() {
	sort.SliceStable(t.order, func(i, j int) bool {
		a, b := &t.rows[t.order[i]], &t.rows[t.order[j]]
		if a.Site != b.Site {
			return a.Site < b.Site
		}
		return a.Timestamp.Before(b.Timestamp)
	})
}

// Group is a run of row ids sharing a grouping key, in iteration order.
type Group struct {
	Site  string
	Event int
	IDs   []int
}

// GroupBySite buckets live rows by camera site. Groups appear in first-seen
// order and each group's ids preserve iteration order.
func (t *Table) GroupBySite() []Group {
	var groups []Group
	index := make(map[string]int)
	for _, id := range t.order {
		site := t.rows[id].Site
		gi, ok := index[site]
		if !ok {
			gi = len(groups)
			index[site] = gi
			groups = append(groups, Group{Site: site})
		}
		groups[gi].IDs = append(groups[gi].IDs, id)
	}
	return groups
}

// GroupBySiteEvent buckets live rows by (camera site, event), in first-seen
// order with stable ids.
func (t *Table) GroupBySiteEvent() []Group {
	type key struct {
		site  string
		event int
	}
	var groups []Group
	index := make(map[key]int)
	for _, id := range t.order {
		r := &t.rows[id]
		k := key{r.Site, r.Event}
		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, Group{Site: r.Site, Event: r.Event})
		}
		groups[gi].IDs = append(groups[gi].IDs, id)
	}
	return groups
}

// Sites returns the distinct camera sites in first-seen order.
func (t *Table) Sites() []string {
	seen := make(map[string]bool)
	var sites []string
	for _, id := range t.order {
		site := t.rows[id].Site
		if !seen[site] {
			seen[site] = true
			sites = append(sites, site)
		}
	}
	return sites
}

// Clone returns a deep copy of the table, including pass-through columns.
func (t *Table) Clone() *Table {
	out := &Table{
		rows:  make([]Record, len(t.rows)),
		order: make([]int, len(t.order)),
		extra: make([]string, len(t.extra)),
	}
	copy(out.order, t.order)
	copy(out.extra, t.extra)
	for i := range t.rows {
		out.rows[i] = t.rows[i]
		if t.rows[i].Extra != nil {
			cp := make(map[string]string, len(t.rows[i].Extra))
			for k, v := range t.rows[i].Extra {
				cp[k] = v
			}
			out.rows[i].Extra = cp
		}
	}
	return out
}
