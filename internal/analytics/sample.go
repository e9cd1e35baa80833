package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
)

// SampleCountries maps the countries used for sample logs to continents.
var SampleCountries = map[string]string{
	"United States":        "North America",
	"China":                "Asia",
	"India":                "Asia",
	"Brazil":               "South America",
	"Germany":              "Europe",
	"United Kingdom":       "Europe",
	"France":               "Europe",
	"Japan":                "Asia",
	"Nigeria":              "Africa",
	"South Africa":         "Africa",
	"Kenya":                "Africa",
	"Egypt":                "Africa",
	"Australia":            "Oceania",
	"Canada":               "North America",
	"Mexico":               "North America",
	"Argentina":            "South America",
	"Russia":               "Europe",
	"South Korea":          "Asia",
	"Singapore":            "Asia",
	"United Arab Emirates": "Asia",
}

// RawHeader is the column order written by SampleLog.
var RawHeader = []string{"Time", "IP Address", "Method", "URL/Path", "Status Code", "Request Type", "Country", "Continent"}

type urlFamily struct {
	name     string
	paths    []string
	weight   float64
	fillers  []string
	typeName func(path string) string
}

func fixedType(s string) func(string) string {
	return func(string) string { return s }
}

var urlFamilies = []urlFamily{
	{name: "Generic", weight: 0.20, paths: []string{"/index.html", "/about.html", "/contact.html", "/privacy.html"}, typeName: fixedType("")},
	{name: "Job", weight: 0.15, paths: []string{"/job/apply", "/job/view/%s", "/job/list", "/job/details/%s"}, typeName: func(p string) string {
		if strings.Contains(p, "apply") {
			return "Job Application"
		}
		return "Job View"
	}},
	{name: "Demo", weight: 0.10, paths: []string{"/scheduledemo.php", "/demo/request", "/demo/signup"}, typeName: fixedType("Demo Request")},
	{name: "Event", weight: 0.10, paths: []string{"/events.php", "/events/upcoming", "/events/past"}, typeName: fixedType("Event Inquiry")},
	{name: "AI", weight: 0.10, paths: []string{"/virtualassistant.php", "/ai/help", "/ai/info"}, typeName: fixedType("AI Assistant Inquiry")},
	{name: "Prototype", weight: 0.10, paths: []string{"/prototype.php", "/prototype/info", "/prototype/signup"}, typeName: fixedType("Prototype Info")},
	{name: "Product", weight: 0.15, paths: []string{"/product/%s", "/products/list", "/product/details/%s"}, typeName: fixedType("Product View"),
		fillers: []string{"analytics", "dashboard", "api", "mobile", "enterprise", "cloud"}},
	{name: "Blog", weight: 0.10, paths: []string{"/blog/%s", "/blog/latest", "/blog/category/tech"}, typeName: fixedType("Blog Post View"),
		fillers: []string{"getting-started", "new-features", "case-study", "tutorial"}},
}

var sampleStatuses = []weighted[int]{
	{200, 0.75},
	{302, 0.15},
	{304, 0.05},
	{400, 0.02},
	{404, 0.02},
	{500, 0.01},
}

// SampleLog builds a raw-convention table of n random requests, the same
// shape as a real access-log export. It is used to produce test files.
func SampleLog(rng *rand.Rand, n int) *RawTable {
	families := make([]weighted[urlFamily], len(urlFamilies))
	for i, f := range urlFamilies {
		families[i] = weighted[urlFamily]{f, f.weight}
	}
	countries := make([]string, 0, len(SampleCountries))
	for c := range SampleCountries {
		countries = append(countries, c)
	}
	// Map iteration order is random; sort so a seeded rng is reproducible.
	slices.Sort(countries)

	t := &RawTable{Header: append([]string(nil), RawHeader...), Rows: make([][]string, 0, n)}
	for range n {
		fam := pick(rng, families)
		path := fam.paths[intN(rng, len(fam.paths))]
		if strings.Contains(path, "%s") {
			filler := strconv.Itoa(1000 + intN(rng, 9000))
			if len(fam.fillers) > 0 {
				filler = fam.fillers[intN(rng, len(fam.fillers))]
			}
			path = fmt.Sprintf(path, filler)
		}
		country := countries[intN(rng, len(countries))]
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%02d:%02d:%02d", intN(rng, 24), intN(rng, 60), intN(rng, 60)),
			fmt.Sprintf("%d.%d.%d.%d", 1+intN(rng, 255), intN(rng, 256), intN(rng, 256), 1+intN(rng, 255)),
			pick(rng, httpMethods),
			path,
			strconv.Itoa(pick(rng, sampleStatuses)),
			fam.typeName(path),
			country,
			SampleCountries[country],
		})
	}
	return t
}

// WriteRawCSV writes t with its header row.
func WriteRawCSV(w io.Writer, t *RawTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
