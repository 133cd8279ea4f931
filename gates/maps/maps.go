package maps

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"app/domain"
)

const staticMapURL = "https://maps.googleapis.com/maps/api/staticmap"

var ErrNoAPIKey = errors.New("maps api key is not configured")

// Client fetches static satellite images from the Google Static Maps API.
// Images come back as base64 strings ready for an html <img> tag.
type Client struct {
	apiKey string
	http   *http.Client
	log    *slog.Logger
}

func NewClient(apiKey string, log *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// StaticGuessMap renders both markers: blue for the guess, red for the
// actual city, with a path between them.
func (c *Client) StaticGuessMap(ctx context.Context, guess, actual domain.Location) (string, error) {
	requestURL := fmt.Sprintf(
		"%s?maptype=satellite"+
			"&visible=%v,%v&visible=%v,%v"+
			"&size=1000x600"+
			"&markers=color:blue%%7Clabel:G%%7C%v,%v"+
			"&markers=color:red%%7C%v,%v"+
			"&path=color:0x0000ff|weight:5|%v,%v|%v,%v"+
			"&key=%s",
		staticMapURL,
		guess.Lat, guess.Lng, actual.Lat, actual.Lng,
		guess.Lat, guess.Lng,
		actual.Lat, actual.Lng,
		guess.Lat, guess.Lng, actual.Lat, actual.Lng,
		c.apiKey,
	)
	return c.fetch(ctx, requestURL)
}

// StaticCityMap renders a centered satellite view of a city for the play page.
func (c *Client) StaticCityMap(ctx context.Context, loc domain.Location) (string, error) {
	requestURL := fmt.Sprintf(
		"%s?key=%s&size=640x400&maptype=satellite&center=%v,%v&zoom=14",
		staticMapURL, c.apiKey, loc.Lat, loc.Lng,
	)
	return c.fetch(ctx, requestURL)
}

func (c *Client) fetch(ctx context.Context, requestURL string) (string, error) {
	const op = "maps.Client.fetch"
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error(op, "error", err.Error())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error(op, "error", "unexpected status", "status", resp.StatusCode)
		return "", fmt.Errorf("static map request failed: %s", resp.Status)
	}

	imageBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error(op, "error", err.Error())
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageBytes), nil
}
