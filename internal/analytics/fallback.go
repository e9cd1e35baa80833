package analytics

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// DefaultFallbackSize is the number of records Synthesize produces when
// Generator.Size is not set.
const DefaultFallbackSize = 1000

type weighted[T any] struct {
	value  T
	weight float64
}

// pick draws one value with probability proportional to its weight.
func pick[T any](rng *rand.Rand, choices []weighted[T]) T {
	var total float64
	for _, c := range choices {
		total += c.weight
	}
	x := float64Of(rng) * total
	for _, c := range choices {
		if x < c.weight {
			return c.value
		}
		x -= c.weight
	}
	return choices[len(choices)-1].value
}

func float64Of(rng *rand.Rand) float64 {
	if rng != nil {
		return rng.Float64()
	}
	return rand.Float64()
}

var fallbackPaths = []weighted[string]{
	{"/demo", 0.30},
	{"/job/apply", 0.25},
	{"/events", 0.20},
	{"/virtualassistant.php", 0.15},
	{"/prototype", 0.05},
	{"/index.html", 0.05},
}

var fallbackStatuses = []weighted[int]{
	{200, 0.70},
	{302, 0.15},
	{304, 0.05},
	{400, 0.04},
	{404, 0.04},
	{500, 0.02},
}

var fallbackRequestTypes = []weighted[string]{
	{"Demo Request", 0.30},
	{"Job Application", 0.25},
	{"Event Inquiry", 0.20},
	{"AI Assistant Inquiry", 0.15},
	{"Prototype Info", 0.05},
	{"", 0.05},
}

var httpMethods = []weighted[string]{
	{"GET", 0.85},
	{"POST", 0.12},
	{"PUT", 0.02},
	{"DELETE", 0.01},
}

// FallbackCountries are drawn uniformly for synthetic records.
var FallbackCountries = []string{
	"United States", "China", "India", "Brazil", "Germany",
	"United Kingdom", "France", "Japan", "Nigeria", "South Africa",
}

// Generator synthesizes a canonical table when no real log can be loaded.
// Continent and category are derived exactly as for ingested data.
type Generator struct {
	Lookup ContinentLookup
	Rand   *rand.Rand
	Now    func() time.Time
	Size   int
	Days   int
}

// NewGenerator returns a Generator with the default size and window.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{
		Lookup: DefaultLookup,
		Rand:   rng,
		Now:    time.Now,
		Size:   DefaultFallbackSize,
		Days:   DefaultBackfillDays,
	}
}

// Synthesize never fails.
func (g *Generator) Synthesize() *Table {
	size := g.Size
	if size <= 0 {
		size = DefaultFallbackSize
	}
	days := g.Days
	if days <= 0 {
		days = DefaultBackfillDays
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	window := days * 24 * 60 * 60
	start := now().UTC().Add(-time.Duration(window) * time.Second).Truncate(time.Second)

	records := make([]LogRecord, size)
	for i := range records {
		path := pick(g.Rand, fallbackPaths)
		country := FallbackCountries[intN(g.Rand, len(FallbackCountries))]
		records[i] = LogRecord{
			Timestamp:   start.Add(time.Duration(intN(g.Rand, window)) * time.Second),
			IP:          fmt.Sprintf("192.168.%d.%d", 1+intN(g.Rand, 4), 1+intN(g.Rand, 254)),
			Path:        path,
			Status:      pick(g.Rand, fallbackStatuses),
			Country:     country,
			Continent:   resolveContinent(g.Lookup, country, nil),
			RequestType: pick(g.Rand, fallbackRequestTypes),
			HTTPMethod:  pick(g.Rand, httpMethods),
			Category:    Classify(path),
		}
	}
	return &Table{records: records}
}
