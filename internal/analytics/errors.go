package analytics

import (
	"fmt"
	"strings"
)

// SchemaError reports canonical columns that are still missing after the
// header has been renamed and derived columns added.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) == 1 {
		return "missing required column: " + e.Missing[0]
	}
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// ParseError reports input that could not be decoded. Row is 1-based and
// counts data rows only; it is 0 when the error is not tied to a row.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Cause  error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " value %q", e.Value)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// LookupError is returned by a ContinentLookup that does not know a country.
// The normalizer recovers from it locally.
type LookupError struct {
	Country string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no continent known for country %q", e.Country)
}
