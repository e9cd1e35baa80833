package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticLookup(t *testing.T) {
	c, err := DefaultLookup.Continent("  united KINGDOM ")
	require.NoError(t, err)
	assert.Equal(t, "Europe", c)

	_, err = DefaultLookup.Continent("Atlantis")
	var le *LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "Atlantis", le.Country)
}

func TestLookupFunc(t *testing.T) {
	lookup := ContinentLookupFunc(func(country string) (string, error) {
		if country == "Mars" {
			return "Space", nil
		}
		return "", &LookupError{Country: country}
	})
	assert.Equal(t, "Space", resolveContinent(lookup, "Mars", nil))

	var failed string
	assert.Equal(t, UnknownContinent, resolveContinent(lookup, "Venus", func(c string) { failed = c }))
	assert.Equal(t, "Venus", failed)
}
