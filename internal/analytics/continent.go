package analytics

import "strings"

// ContinentLookup resolves a country name to a continent name. A failed
// lookup returns a *LookupError; callers decide how to recover.
type ContinentLookup interface {
	Continent(country string) (string, error)
}

// ContinentLookupFunc adapts a function to ContinentLookup.
type ContinentLookupFunc func(country string) (string, error)

func (f ContinentLookupFunc) Continent(country string) (string, error) {
	return f(country)
}

// StaticLookup is a case-insensitive country→continent table.
type StaticLookup map[string]string

// NewStaticLookup builds a lookup from a name→continent map. Keys are
// normalized so "united kingdom" and "United Kingdom" resolve alike.
func NewStaticLookup(m map[string]string) StaticLookup {
	l := make(StaticLookup, len(m))
	for country, continent := range m {
		l[lookupKey(country)] = continent
	}
	return l
}

func (l StaticLookup) Continent(country string) (string, error) {
	if c, ok := l[lookupKey(country)]; ok {
		return c, nil
	}
	return "", &LookupError{Country: country}
}

func lookupKey(country string) string {
	return strings.ToLower(strings.Join(strings.Fields(country), " "))
}

// DefaultLookup covers the countries that appear in generated and sample
// logs plus the other commonly seen ones. Continent names follow the
// seven-continent convention used in the reports.
var DefaultLookup = NewStaticLookup(map[string]string{
	// Africa
	"Algeria":      "Africa",
	"Egypt":        "Africa",
	"Ethiopia":     "Africa",
	"Ghana":        "Africa",
	"Kenya":        "Africa",
	"Morocco":      "Africa",
	"Nigeria":      "Africa",
	"Rwanda":       "Africa",
	"Senegal":      "Africa",
	"South Africa": "Africa",
	"Tanzania":     "Africa",
	"Tunisia":      "Africa",
	"Uganda":       "Africa",
	"Zimbabwe":     "Africa",

	// Asia
	"Bangladesh":           "Asia",
	"China":                "Asia",
	"Hong Kong":            "Asia",
	"India":                "Asia",
	"Indonesia":            "Asia",
	"Israel":               "Asia",
	"Japan":                "Asia",
	"Malaysia":             "Asia",
	"Pakistan":             "Asia",
	"Philippines":          "Asia",
	"Qatar":                "Asia",
	"Saudi Arabia":         "Asia",
	"Singapore":            "Asia",
	"South Korea":          "Asia",
	"Korea, Republic of":   "Asia",
	"Taiwan":               "Asia",
	"Thailand":             "Asia",
	"Turkey":               "Asia",
	"United Arab Emirates": "Asia",
	"Vietnam":              "Asia",
	"Viet Nam":             "Asia",

	// Europe
	"Austria":            "Europe",
	"Belgium":            "Europe",
	"Czech Republic":     "Europe",
	"Czechia":            "Europe",
	"Denmark":            "Europe",
	"Finland":            "Europe",
	"France":             "Europe",
	"Germany":            "Europe",
	"Greece":             "Europe",
	"Hungary":            "Europe",
	"Ireland":            "Europe",
	"Italy":              "Europe",
	"Netherlands":        "Europe",
	"Norway":             "Europe",
	"Poland":             "Europe",
	"Portugal":           "Europe",
	"Romania":            "Europe",
	"Russia":             "Europe",
	"Russian Federation": "Europe",
	"Spain":              "Europe",
	"Sweden":             "Europe",
	"Switzerland":        "Europe",
	"Ukraine":            "Europe",
	"United Kingdom":     "Europe",

	// North America
	"Canada":                   "North America",
	"Costa Rica":               "North America",
	"Cuba":                     "North America",
	"Guatemala":                "North America",
	"Jamaica":                  "North America",
	"Mexico":                   "North America",
	"Panama":                   "North America",
	"United States":            "North America",
	"United States of America": "North America",

	// South America
	"Argentina": "South America",
	"Bolivia":   "South America",
	"Brazil":    "South America",
	"Chile":     "South America",
	"Colombia":  "South America",
	"Ecuador":   "South America",
	"Peru":      "South America",
	"Uruguay":   "South America",
	"Venezuela": "South America",

	// Oceania
	"Australia":        "Oceania",
	"Fiji":             "Oceania",
	"New Zealand":      "Oceania",
	"Papua New Guinea": "Oceania",
})
