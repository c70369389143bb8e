package sitestats

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/BWBrook/mewc-table/internal/sanity"
	"github.com/BWBrook/mewc-table/internal/table"
)

// BaseSite is one row of the deployment metadata table.
type BaseSite struct {
	Site string
	Lat  string
	Lon  string
}

// SiteStats is one site's derived statistics.
type SiteStats struct {
	BaseSite
	FirstDetection    time.Time
	LastDetection     time.Time
	OpDays            int
	Detections        int
	Events            int
	Species           int
	DaysWithDetection int
}

// LoadBaseSites reads the deployment table, rejecting duplicate or blank
// site names so the later join is unambiguous.
func LoadBaseSites(path string) ([]BaseSite, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open site table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read site table %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, sanity.Wrap(sanity.ErrValidation, "sitestats", "load_base",
			fmt.Sprintf("%s: empty file", path), nil)
	}

	index := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		index[strings.TrimSpace(col)] = i
	}
	for _, required := range []string{table.ColSite, "lat", "lon"} {
		if _, ok := index[required]; !ok {
			return nil, sanity.Wrap(sanity.ErrValidation, "sitestats", "load_base",
				fmt.Sprintf("%s: missing column %q", path, required), nil)
		}
	}

	field := func(row []string, name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var sites []BaseSite
	seen := make(map[string]bool)
	var duplicates []string
	for line, row := range rows[1:] {
		site := field(row, table.ColSite)
		if site == "" {
			return nil, sanity.Wrap(sanity.ErrValidation, "sitestats", "load_base",
				fmt.Sprintf("%s row %d: blank camera_site", path, line+2), nil)
		}
		if seen[site] {
			duplicates = append(duplicates, site)
			continue
		}
		seen[site] = true
		sites = append(sites, BaseSite{
			Site: site,
			Lat:  field(row, "lat"),
			Lon:  field(row, "lon"),
		})
	}
	if len(duplicates) > 0 {
		return nil, sanity.Wrap(sanity.ErrValidation, "sitestats", "load_base",
			fmt.Sprintf("%s: duplicate camera_site rows: %s", path, strings.Join(duplicates, ", ")), nil)
	}
	return sites, nil
}

// Compute joins the base sites against the curated table. Sites present on
// one side only abort the computation, each side listed in full.
func Compute(base []BaseSite, tbl *table.Table, logger *slog.Logger) ([]SiteStats, error) {
	baseSet := make(map[string]bool, len(base))
	for _, b := range base {
		baseSet[b.Site] = true
	}
	tableSet := make(map[string]bool)
	for _, site := range tbl.Sites() {
		tableSet[site] = true
	}

	var missing, unknown []string
	for _, b := range base {
		if !tableSet[b.Site] {
			missing = append(missing, b.Site)
		}
	}
	for site := range tableSet {
		if !baseSet[site] {
			unknown = append(unknown, site)
		}
	}
	sort.Strings(unknown)
	if len(missing) > 0 || len(unknown) > 0 {
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, "no detections for: "+strings.Join(missing, ", "))
		}
		if len(unknown) > 0 {
			parts = append(parts, "not in site table: "+strings.Join(unknown, ", "))
		}
		return nil, sanity.Wrap(sanity.ErrValidation, "sitestats", "join",
			strings.Join(parts, "; "), nil)
	}

	perSite := make(map[string]*siteAccumulator, len(base))
	tbl.Each(func(_ int, r *table.Record) {
		acc := perSite[r.Site]
		if acc == nil {
			acc = newSiteAccumulator()
			perSite[r.Site] = acc
		}
		acc.add(r)
	})

	stats := make([]SiteStats, 0, len(base))
	for _, b := range base {
		stats = append(stats, perSite[b.Site].finish(b))
	}

	// Collated ordering so mixed-case site names sort the way a field
	// ecologist expects in the final report.
	collator := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(stats, func(i, j int) bool {
		return collator.CompareString(stats[i].Site, stats[j].Site) < 0
	})

	logger.Info("site statistics computed", "sites", len(stats))
	return stats, nil
}

type siteAccumulator struct {
	first      time.Time
	last       time.Time
	detections int
	events     map[int]bool
	species    map[string]bool
	days       map[string]bool
}

func newSiteAccumulator() *siteAccumulator {
	return &siteAccumulator{
		events:  make(map[int]bool),
		species: make(map[string]bool),
		days:    make(map[string]bool),
	}
}

func (a *siteAccumulator) add(r *table.Record) {
	count := r.Count
	if count <= 0 {
		count = 1
	}
	a.detections += count
	if r.Event > 0 {
		a.events[r.Event] = true
	}
	if r.ClassName != "" && r.ClassName != table.ClassUnknownAnimal {
		a.species[r.ClassName] = true
	}
	if r.HasTimestamp() {
		if a.first.IsZero() || r.Timestamp.Before(a.first) {
			a.first = r.Timestamp
		}
		if r.Timestamp.After(a.last) {
			a.last = r.Timestamp
		}
		a.days[r.Timestamp.Format("2006-01-02")] = true
	}
}

func (a *siteAccumulator) finish(b BaseSite) SiteStats {
	s := SiteStats{BaseSite: b}
	if a == nil {
		return s
	}
	s.FirstDetection = a.first
	s.LastDetection = a.last
	if !a.first.IsZero() {
		s.OpDays = int(a.last.Sub(a.first).Hours() / 24)
	}
	s.Detections = a.detections
	s.Events = len(a.events)
	s.Species = len(a.species)
	s.DaysWithDetection = len(a.days)
	return s
}

// WriteCSV writes the site statistics table.
func WriteCSV(path string, stats []SiteStats) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create site stats csv: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{table.ColSite, "lat", "lon", "first_detection", "last_detection",
		"op_days", "detections", "events", "species", "days_with_detection"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write site stats header: %w", err)
	}
	for _, s := range stats {
		row := []string{
			s.Site, s.Lat, s.Lon,
			table.FormatTimestamp(s.FirstDetection),
			table.FormatTimestamp(s.LastDetection),
			strconv.Itoa(s.OpDays),
			strconv.Itoa(s.Detections),
			strconv.Itoa(s.Events),
			strconv.Itoa(s.Species),
			strconv.Itoa(s.DaysWithDetection),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write site stats row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush site stats csv: %w", err)
	}
	return file.Close()
}
