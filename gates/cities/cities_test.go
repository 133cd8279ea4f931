package cities

import (
	"io"
	"log/slog"
	"testing"

	"app/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func TestResolveKnownCity(t *testing.T) {
	c := testCatalog(t)

	loc, err := c.Resolve("1")
	require.NoError(t, err)
	assert.InDelta(t, 40.7127837, loc.Lat, 1e-6)
	assert.InDelta(t, -74.0059413, loc.Lng, 1e-6)
}

func TestResolveUnknownCity(t *testing.T) {
	c := testCatalog(t)

	_, err := c.Resolve("99999")
	assert.ErrorIs(t, err, domain.ErrCityNotFound)
}

func TestRandomReturnsCatalogMember(t *testing.T) {
	c := testCatalog(t)

	for i := 0; i < 50; i++ {
		city := c.Random()
		got, err := c.Get(city.Rank)
		require.NoError(t, err)
		assert.Equal(t, city, got)
	}
}

func TestCatalogCoordinatesAreValid(t *testing.T) {
	c := testCatalog(t)
	for id, city := range c.byID {
		assert.GreaterOrEqual(t, city.Latitude, -90.0, "city %s", id)
		assert.LessOrEqual(t, city.Latitude, 90.0, "city %s", id)
		assert.GreaterOrEqual(t, city.Longitude, -180.0, "city %s", id)
		assert.LessOrEqual(t, city.Longitude, 180.0, "city %s", id)
	}
}
