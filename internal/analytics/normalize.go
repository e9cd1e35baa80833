package analytics

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Canonical column names.
const (
	ColTimestamp   = "timestamp"
	ColTimeOfDay   = "time_str"
	ColIP          = "ip"
	ColPath        = "path"
	ColStatus      = "status_code"
	ColCountry     = "country"
	ColContinent   = "continent"
	ColRequestType = "request_type"
	ColMethod      = "http_method"
	ColCategory    = "request_category"
)

// HeaderRenames maps the raw log header convention onto canonical names.
// Headers not listed are kept as-is, which lets canonical files through.
var HeaderRenames = map[string]string{
	"Time":         ColTimeOfDay,
	"IP Address":   ColIP,
	"URL/Path":     ColPath,
	"Status Code":  ColStatus,
	"Country":      ColCountry,
	"Request Type": ColRequestType,
	"Method":       ColMethod,
	"Continent":    ColContinent,
}

// RequiredColumns must all exist once renaming and derivation are done.
var RequiredColumns = []string{
	ColTimestamp,
	ColIP,
	ColPath,
	ColStatus,
	ColCountry,
	ColRequestType,
	ColContinent,
	ColCategory,
}

// DefaultBackfillDays is the window the synthetic calendar date is drawn from.
const DefaultBackfillDays = 30

var clockLayouts = []string{"15:04:05", "15:04", "3:04:05 PM", "3:04 PM"}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Normalizer turns raw log tables into canonical tables.
//
// Raw-convention files only carry a time of day. For those, each record gets
// a calendar date drawn uniformly from the last BackfillDays days (today
// included), so day-level patterns in such data are synthetic. Files that
// already carry a canonical timestamp column keep their real timestamps.
type Normalizer struct {
	Lookup       ContinentLookup
	Rand         *rand.Rand
	Now          func() time.Time
	BackfillDays int

	// LookupFailed, if set, is called for every row whose country could not
	// be mapped to a continent.
	LookupFailed func(country string)
}

// NewNormalizer returns a Normalizer using the bundled country table and
// the wall clock.
func NewNormalizer(rng *rand.Rand) *Normalizer {
	return &Normalizer{
		Lookup:       DefaultLookup,
		Rand:         rng,
		Now:          time.Now,
		BackfillDays: DefaultBackfillDays,
	}
}

// Normalize renames columns, derives timestamp, continent and request
// category, and validates the result. It returns a *SchemaError when a
// required column cannot be produced and a *ParseError for malformed cells.
func (n *Normalizer) Normalize(raw *RawTable) (*Table, error) {
	if raw == nil {
		return nil, &ParseError{Cause: errors.New("no input table")}
	}

	cols := make(map[string]int, len(raw.Header))
	for i, h := range raw.Header {
		name := strings.TrimSpace(h)
		if renamed, ok := HeaderRenames[name]; ok {
			name = renamed
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	has := func(name string) bool {
		_, ok := cols[name]
		return ok
	}

	_, realTimestamps := cols[ColTimestamp]
	available := map[string]bool{
		ColRequestType: true, // surfaced empty when the source has none
	}
	for name := range cols {
		available[name] = true
	}
	if has(ColTimeOfDay) {
		available[ColTimestamp] = true
	}
	if has(ColCountry) {
		available[ColContinent] = true
	}
	if has(ColPath) {
		available[ColCategory] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !available[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	today := truncateDay(n.now())
	records := make([]LogRecord, 0, len(raw.Rows))
	for i, row := range raw.Rows {
		rowNum := i + 1

		var ts time.Time
		if realTimestamps {
			v := cell(row, ColTimestamp)
			t, err := parseTimestamp(v)
			if err != nil {
				return nil, &ParseError{Row: rowNum, Column: ColTimestamp, Value: v, Cause: err}
			}
			ts = t
		} else {
			v := cell(row, ColTimeOfDay)
			clock, err := parseClock(v)
			if err != nil {
				return nil, &ParseError{Row: rowNum, Column: ColTimeOfDay, Value: v, Cause: err}
			}
			ts = n.backfillDate(today).Add(clock)
		}

		sv := cell(row, ColStatus)
		status, err := parseStatus(sv)
		if err != nil {
			return nil, &ParseError{Row: rowNum, Column: ColStatus, Value: sv, Cause: err}
		}

		rec := LogRecord{
			Timestamp:   ts,
			IP:          cell(row, ColIP),
			Path:        cell(row, ColPath),
			Status:      status,
			Country:     cell(row, ColCountry),
			Continent:   cell(row, ColContinent),
			RequestType: cell(row, ColRequestType),
			HTTPMethod:  cell(row, ColMethod),
		}
		if rec.Continent == "" {
			rec.Continent = n.continent(rec.Country)
		}
		// Only a known category survives from the source; anything else is
		// reclassified from the path.
		if c, ok := canonicalCategory(cell(row, ColCategory)); ok {
			rec.Category = c
		} else {
			rec.Category = Classify(rec.Path)
		}
		records = append(records, rec)
	}

	return &Table{records: records}, nil
}

func (n *Normalizer) continent(country string) string {
	return resolveContinent(n.Lookup, country, n.LookupFailed)
}

// resolveContinent never fails: an unknown country maps to UnknownContinent.
func resolveContinent(lookup ContinentLookup, country string, onFail func(string)) string {
	if lookup == nil {
		lookup = DefaultLookup
	}
	c, err := lookup.Continent(country)
	if err != nil || c == "" {
		if onFail != nil {
			onFail(country)
		}
		return UnknownContinent
	}
	return c
}

func (n *Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

func (n *Normalizer) backfillDate(today time.Time) time.Time {
	days := n.BackfillDays
	if days <= 0 {
		days = DefaultBackfillDays
	}
	return today.AddDate(0, 0, -intN(n.Rand, days))
}

func intN(rng *rand.Rand, n int) int {
	if rng != nil {
		return rng.IntN(n)
	}
	return rand.IntN(n)
}

// parseClock returns the offset from midnight for an HH:MM[:SS] value.
func parseClock(v string) (time.Duration, error) {
	var lastErr error
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second +
				time.Duration(t.Nanosecond()), nil
		}
		lastErr = err
	}
	return 0, lastErr
}

func parseTimestamp(v string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseStatus(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	// Spreadsheet exports sometimes write integral columns as "200.0".
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, errors.New("status code is not an integer")
	}
	return int(f), nil
}
