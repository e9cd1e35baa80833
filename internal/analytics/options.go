package analytics

import (
	"slices"
	"time"
)

// FilterOptions lists the values a caller can pick from for the current
// table. Countries are narrowed to the selected continent.
type FilterOptions struct {
	Continents []string  `json:"continents"`
	Countries  []string  `json:"countries"`
	Categories []string  `json:"categories"`
	MinDate    time.Time `json:"min_date"`
	MaxDate    time.Time `json:"max_date"`
}

// Options computes the selectable values of t. Passing All (or "") as
// continent returns every country.
func Options(t *Table, continent string) FilterOptions {
	var continents, countries, categories []string
	seenCont := map[string]bool{}
	seenCountry := map[string]bool{}
	seenCat := map[string]bool{}

	var records []LogRecord
	if t != nil {
		records = t.records
	}
	for _, r := range records {
		if !seenCont[r.Continent] {
			seenCont[r.Continent] = true
			continents = append(continents, r.Continent)
		}
		if !seenCat[r.Category] {
			seenCat[r.Category] = true
			categories = append(categories, r.Category)
		}
		if active(continent) && r.Continent != continent {
			continue
		}
		if !seenCountry[r.Country] {
			seenCountry[r.Country] = true
			countries = append(countries, r.Country)
		}
	}
	slices.Sort(continents)
	slices.Sort(countries)
	slices.Sort(categories)

	opts := FilterOptions{
		Continents: nonNil(continents),
		Countries:  nonNil(countries),
		Categories: nonNil(categories),
	}
	if lo, hi, ok := t.TimeRange(); ok {
		opts.MinDate, opts.MaxDate = truncateDay(lo), truncateDay(hi)
	}
	return opts
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
