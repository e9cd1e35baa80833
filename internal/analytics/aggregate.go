package analytics

import (
	"cmp"
	"slices"
	"time"
)

// DayLayout formats calendar days in reports and exports.
const DayLayout = "2006-01-02"

// KeyCount is the count of rows sharing one categorical value.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// StatusCount is the count of rows with one status code.
type StatusCount struct {
	Status int `json:"status_code"`
	Count  int `json:"count"`
}

// DayCount is the count of rows for one (UTC day, category) pair.
type DayCount struct {
	Day      string `json:"date"`
	Category string `json:"request_category"`
	Count    int    `json:"count"`
}

// GeoCount is the count of rows for one (continent, country, category).
type GeoCount struct {
	Continent string `json:"continent"`
	Country   string `json:"country"`
	Category  string `json:"request_category"`
	Count     int    `json:"count"`
}

// Report holds every grouped-count table derived from a filtered table.
// Each slice is sorted so the same input always yields the same report.
type Report struct {
	Total          int           `json:"total"`
	ContinentTotal []KeyCount    `json:"continent_totals"`
	CountryTotal   []KeyCount    `json:"country_totals"`
	DailySeries    []DayCount    `json:"daily_series"`
	StatusDist     []StatusCount `json:"status_dist"`
	CategoryDist   []KeyCount    `json:"category_dist"`
	GeoRollup      []GeoCount    `json:"geo_rollup"`
	TemporalRollup []DayCount    `json:"temporal_rollup"`
}

// SalesCategories are the categories charted in the daily series.
var SalesCategories = []string{CategoryJob, CategoryDemo}

// Aggregate computes the report for t. Days without matching rows are
// omitted from the series rather than reported as zero.
func Aggregate(t *Table) *Report {
	type dayKey struct {
		day      time.Time
		category string
	}
	type geoKey struct {
		continent, country, category string
	}

	continents := make(map[string]int)
	countries := make(map[string]int)
	statuses := make(map[int]int)
	categories := make(map[string]int)
	sales := make(map[dayKey]int)
	temporal := make(map[dayKey]int)
	geo := make(map[geoKey]int)

	var records []LogRecord
	if t != nil {
		records = t.records
	}
	for _, r := range records {
		continents[r.Continent]++
		countries[r.Country]++
		statuses[r.Status]++
		categories[r.Category]++
		geo[geoKey{r.Continent, r.Country, r.Category}]++

		dk := dayKey{day: r.Day(), category: r.Category}
		temporal[dk]++
		if slices.Contains(SalesCategories, r.Category) {
			sales[dk]++
		}
	}

	rep := &Report{
		Total:          len(records),
		ContinentTotal: keyCounts(continents),
		CountryTotal:   keyCounts(countries),
		CategoryDist:   keyCounts(categories),
		StatusDist:     make([]StatusCount, 0, len(statuses)),
		GeoRollup:      make([]GeoCount, 0, len(geo)),
	}

	for status, n := range statuses {
		rep.StatusDist = append(rep.StatusDist, StatusCount{Status: status, Count: n})
	}
	slices.SortFunc(rep.StatusDist, func(a, b StatusCount) int { return cmp.Compare(a.Status, b.Status) })

	for k, n := range geo {
		rep.GeoRollup = append(rep.GeoRollup, GeoCount{Continent: k.continent, Country: k.country, Category: k.category, Count: n})
	}
	slices.SortFunc(rep.GeoRollup, func(a, b GeoCount) int {
		return cmp.Or(
			cmp.Compare(a.Continent, b.Continent),
			cmp.Compare(a.Country, b.Country),
			cmp.Compare(a.Category, b.Category),
		)
	})

	toDays := func(m map[dayKey]int) []DayCount {
		out := make([]DayCount, 0, len(m))
		for k, n := range m {
			out = append(out, DayCount{Day: k.day.Format(DayLayout), Category: k.category, Count: n})
		}
		// DayLayout sorts lexically in date order.
		slices.SortFunc(out, func(a, b DayCount) int {
			return cmp.Or(cmp.Compare(a.Day, b.Day), cmp.Compare(a.Category, b.Category))
		})
		return out
	}
	rep.DailySeries = toDays(sales)
	rep.TemporalRollup = toDays(temporal)

	return rep
}

func keyCounts(m map[string]int) []KeyCount {
	out := make([]KeyCount, 0, len(m))
	for k, n := range m {
		out = append(out, KeyCount{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b KeyCount) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// CountOf returns the count recorded for key, or 0.
func CountOf(counts []KeyCount, key string) int {
	for _, kc := range counts {
		if kc.Key == key {
			return kc.Count
		}
	}
	return 0
}
