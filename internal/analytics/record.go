package analytics

import (
	"slices"
	"time"
)

// Request categories. The set is closed: every normalized record carries
// exactly one of these.
const (
	CategoryJob       = "Job Request"
	CategoryDemo      = "Demo Request"
	CategoryEvent     = "Event Inquiry"
	CategoryAI        = "AI Assistant"
	CategoryPrototype = "Prototype Info"
	CategoryOther     = "Other"
)

// UnknownContinent is assigned when a country cannot be mapped.
const UnknownContinent = "Unknown"

// LogRecord is one row of the canonical table.
type LogRecord struct {
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	Path      string    `json:"path"`
	Status    int       `json:"status_code"`
	Country   string    `json:"country"`
	Continent string    `json:"continent"`

	// RequestType is a free-form label from the source; empty means absent.
	RequestType string `json:"request_type,omitempty"`
	HTTPMethod  string `json:"http_method,omitempty"`

	Category string `json:"request_category"`
}

// Day returns the UTC calendar day of the record as midnight UTC.
func (r LogRecord) Day() time.Time {
	return truncateDay(r.Timestamp)
}

// Table is an immutable set of canonical records. Filtering produces a new
// Table; nothing mutates an existing one.
type Table struct {
	records []LogRecord
}

// NewTable copies records into a new Table.
func NewTable(records []LogRecord) *Table {
	return &Table{records: slices.Clone(records)}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of the table rows.
func (t *Table) Records() []LogRecord {
	if t == nil {
		return nil
	}
	return slices.Clone(t.records)
}

// TimeRange returns the earliest and latest timestamps in the table.
// ok is false for an empty table.
func (t *Table) TimeRange() (minTS, maxTS time.Time, ok bool) {
	if t.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	minTS, maxTS = t.records[0].Timestamp, t.records[0].Timestamp
	for _, r := range t.records[1:] {
		if r.Timestamp.Before(minTS) {
			minTS = r.Timestamp
		}
		if r.Timestamp.After(maxTS) {
			maxTS = r.Timestamp
		}
	}
	return minTS, maxTS, true
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
