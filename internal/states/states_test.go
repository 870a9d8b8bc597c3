package states

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
)

func TestAbbreviation(t *testing.T) {
	abbr, ok := Abbreviation("California")
	require.True(t, ok)
	assert.Equal(t, "ca", abbr)

	abbr, ok = Abbreviation("  DISTRICT OF COLUMBIA ")
	require.True(t, ok)
	assert.Equal(t, "dc", abbr)

	_, ok = Abbreviation("Atlantis")
	assert.False(t, ok)
}

func TestCoordinates(t *testing.T) {
	c, ok := Coordinates("tx")
	require.True(t, ok)
	assert.InDelta(t, 31.1060, c.Lat, 1e-9)
	assert.InDelta(t, -97.6475, c.Lng, 1e-9)

	// Abbreviated but without a centroid.
	for _, abbr := range []string{"fm", "gu", "mh", "pw"} {
		_, ok := Coordinates(abbr)
		assert.False(t, ok, abbr)
	}
}

func TestTables(t *testing.T) {
	assert.Len(t, abbreviations, 56)
	assert.Len(t, centroids, 53)
	for name, abbr := range abbreviations {
		assert.Equal(t, normalize(name), name)
		if _, ok := centroids[abbr]; !ok {
			assert.Contains(t, []string{"fm", "gu", "mh", "pw"}, abbr, name)
		}
	}
}

func TestAggregateScenario(t *testing.T) {
	cs := []catalog.Case{
		{ID: "1", Title: "A", States: []string{"California"}},
		{ID: "2", Title: "B", States: []string{"California"}},
		{ID: "3", Title: "C", States: []string{"Texas"}},
	}
	groups := Aggregate(cs)
	require.Len(t, groups, 2)

	assert.Equal(t, "California", groups[0].Name)
	assert.Equal(t, "ca", groups[0].Abbreviation)
	assert.Len(t, groups[0].Cases, 2)

	assert.Equal(t, "Texas", groups[1].Name)
	assert.Len(t, groups[1].Cases, 1)
	assert.Equal(t, "3", groups[1].Cases[0].ID)
}

func TestAggregateSkipsUnresolved(t *testing.T) {
	cs := []catalog.Case{
		{ID: "1", States: []string{"Guam"}},
		{ID: "2", States: []string{"Narnia"}},
		{ID: "3", States: nil},
	}
	assert.Empty(t, Aggregate(cs))
	assert.Empty(t, Aggregate(nil))
}

func TestAggregateMultiStateAndSpellings(t *testing.T) {
	cs := []catalog.Case{
		{ID: "1", States: []string{"Oklahoma", "Texas"}},
		{ID: "2", States: []string{"texas", "Texas"}},
	}
	groups := Aggregate(cs)
	require.Len(t, groups, 2)
	assert.Equal(t, "ok", groups[0].Abbreviation)
	assert.Len(t, groups[0].Cases, 1)

	assert.Equal(t, "tx", groups[1].Abbreviation)
	// "Texas" sorts before "texas".
	assert.Equal(t, "Texas", groups[1].Name)
	assert.Len(t, groups[1].Cases, 2)
}

func TestAggregateCoverage(t *testing.T) {
	cs := []catalog.Case{
		{ID: "1", States: []string{"Maine", "Vermont"}},
		{ID: "2", States: []string{"Maine"}},
		{ID: "3", States: []string{"Palau"}},
		{ID: "4", States: []string{"Alaska", "Hawaii", "Unknown"}},
		{ID: "5"},
	}
	groups := Aggregate(cs)

	members := make(map[string]int)
	total := 0
	for _, g := range groups {
		total += len(g.Cases)
		for _, c := range g.Cases {
			members[c.ID]++
		}
	}
	for _, id := range []string{"1", "2", "4"} {
		assert.Positive(t, members[id], id)
	}
	assert.Zero(t, members["3"])
	assert.Zero(t, members["5"])
	assert.GreaterOrEqual(t, total, 3)
	assert.Equal(t, 5, total)
}

func TestNames(t *testing.T) {
	cs := []catalog.Case{
		{States: []string{"Texas", " Alaska "}},
		{States: []string{"Alaska", ""}},
	}
	assert.Equal(t, []string{"Alaska", "Texas"}, Names(cs))
}
