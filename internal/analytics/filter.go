package analytics

import "time"

// All is the sentinel for "no constraint" on a categorical filter.
const All = "All"

// Criteria selects rows from a canonical table. Categorical fields left
// empty or set to All do not constrain. StartDate and EndDate are inclusive
// calendar days (UTC); a zero value leaves that side of the range open.
type Criteria struct {
	Continent string
	Country   string
	Category  string
	StartDate time.Time
	EndDate   time.Time
}

// Unconstrained returns criteria that match every row.
func Unconstrained() Criteria {
	return Criteria{Continent: All, Country: All, Category: All}
}

// Match reports whether r satisfies every active constraint.
func (c Criteria) Match(r LogRecord) bool {
	if active(c.Continent) && r.Continent != c.Continent {
		return false
	}
	if active(c.Country) && r.Country != c.Country {
		return false
	}
	if active(c.Category) && r.Category != c.Category {
		return false
	}
	day := r.Day()
	if !c.StartDate.IsZero() && day.Before(truncateDay(c.StartDate)) {
		return false
	}
	if !c.EndDate.IsZero() && day.After(truncateDay(c.EndDate)) {
		return false
	}
	return true
}

func active(v string) bool {
	return v != "" && v != All
}

// Filter returns the rows of t that match c, in their original order.
// The input table is left untouched; a selection with no matches yields an
// empty table.
func Filter(t *Table, c Criteria) *Table {
	out := &Table{records: make([]LogRecord, 0, t.Len())}
	if t == nil {
		return out
	}
	for _, r := range t.records {
		if c.Match(r) {
			out.records = append(out.records, r)
		}
	}
	return out
}
