package nominatim

import (
	"context"
	"fmt"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/starchart/pkg/cache"
	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/integrations"
)

// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// DefaultLimit caps the number of candidates per search.
const DefaultLimit = 5

// Place is one geocoding candidate. Coordinates are degrees, east positive.
type Place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Kind      string  `json:"kind,omitempty"`
}

// Client geocodes place names. Safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	limit   int
}

// NewClient creates a Nominatim client caching responses in backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client: integrations.NewClient(backend, "nominatim:", cacheTTL, map[string]string{
			"User-Agent": integrations.UserAgent(),
			"Accept":     "application/json",
		}),
		baseURL: DefaultBaseURL,
		limit:   DefaultLimit,
	}
}

// WithBaseURL points the client at another Nominatim instance.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// WithLimit sets the maximum number of candidates returned.
func (c *Client) WithLimit(n int) *Client {
	if n > 0 {
		c.limit = n
	}
	return c
}

// Search returns candidates for a free-form place query, best match first.
func (c *Client) Search(ctx context.Context, query string, refresh bool) ([]Place, error) {
	q := normalizeQuery(query)
	if q == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "place name is empty")
	}

	var places []Place
	err := c.Cached(ctx, fmt.Sprintf("%s:%d", q, c.limit), refresh, &places, func() error {
		return c.fetch(ctx, q, &places)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "geocode %q", query)
	}
	if len(places) == 0 {
		return nil, errors.New(errors.ErrCodeLocationNotFound, "no location found for %q", query)
	}
	return places, nil
}

func (c *Client) fetch(ctx context.Context, q string, places *[]Place) error {
	url := integrations.Endpoint(c.baseURL, "search", neturl.Values{
		"format": {"jsonv2"},
		"limit":  {strconv.Itoa(c.limit)},
		"q":      {q},
	})

	var results []apiResult
	if err := c.Get(ctx, url, &results); err != nil {
		return err
	}

	out := make([]Place, 0, len(results))
	for _, r := range results {
		p, err := r.place()
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	*places = out
	return nil
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

type apiResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

func (r apiResult) place() (Place, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return Place{}, err
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return Place{}, err
	}
	kind := r.Type
	if r.Category != "" && r.Type != "" {
		kind = r.Category + "/" + r.Type
	}
	return Place{Name: r.DisplayName, Latitude: lat, Longitude: lon, Kind: kind}, nil
}
