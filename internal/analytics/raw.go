package analytics

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// RawTable is a header plus string cells, as read from an uploaded or
// bundled log file.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of the named column, or -1.
func (t *RawTable) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ReadCSV decodes a comma separated log with a header row. Every data row
// must have as many fields as the header.
func ReadCSV(r io.Reader) (*RawTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Cause: errors.New("empty input")}
		}
		return nil, csvParseError(err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &RawTable{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvParseError(err)
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

func csvParseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		// The csv package counts the header as line 1.
		return &ParseError{Row: pe.StartLine - 1, Cause: pe.Err}
	}
	return &ParseError{Cause: err}
}
