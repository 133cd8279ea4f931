package cities

import (
	_ "embed"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"

	"app/domain"

	json "github.com/goccy/go-json"
)

//go:embed cities.json
var cityFile []byte

// City is one entry of the bundled catalog. IDs are the population rank
// strings the dataset ships with ("1" = largest city).
type City struct {
	City       string  `json:"city"`
	Growth     string  `json:"growth_from_2000_to_2013"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Population string  `json:"population"`
	Rank       string  `json:"rank"`
	State      string  `json:"state"`
}

func (c City) Location() domain.Location {
	return domain.Location{Lat: c.Latitude, Lng: c.Longitude}
}

// Catalog is the city-data collaborator: read-only after load.
type Catalog struct {
	byID map[string]City
	ids  []string
	log  *slog.Logger
}

func Load(log *slog.Logger) (*Catalog, error) {
	var list []City
	if err := json.Unmarshal(cityFile, &list); err != nil {
		return nil, fmt.Errorf("parse city file: %w", err)
	}
	c := &Catalog{
		byID: make(map[string]City, len(list)),
		ids:  make([]string, 0, len(list)),
		log:  log,
	}
	for _, city := range list {
		c.byID[city.Rank] = city
		c.ids = append(c.ids, city.Rank)
	}
	log.Debug("cities.Load", "cities loaded", len(c.ids))
	return c, nil
}

func MustLoad(logger *slog.Logger) *Catalog {
	c, err := Load(logger)
	if err != nil {
		log.Fatal("cannot load city catalog: ", err)
	}
	return c
}

// Resolve returns the true coordinates for a city id.
func (c *Catalog) Resolve(cityID string) (domain.Location, error) {
	city, ok := c.byID[cityID]
	if !ok {
		return domain.Location{}, domain.ErrCityNotFound
	}
	return city.Location(), nil
}

func (c *Catalog) Get(cityID string) (City, error) {
	city, ok := c.byID[cityID]
	if !ok {
		return City{}, domain.ErrCityNotFound
	}
	return city, nil
}

// Random picks a uniformly random city for the play page.
func (c *Catalog) Random() City {
	id := c.ids[rand.IntN(len(c.ids))]
	return c.byID[id]
}
