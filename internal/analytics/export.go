package analytics

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteGeoCSV writes the geographic rollup as continent,country,request_category,count.
func WriteGeoCSV(w io.Writer, rows []GeoCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColContinent, ColCountry, ColCategory, "count"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Continent, r.Country, r.Category, strconv.Itoa(r.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTemporalCSV writes the temporal rollup as date,request_category,count.
func WriteTemporalCSV(w io.Writer, rows []DayCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", ColCategory, "count"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Day, r.Category, strconv.Itoa(r.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
