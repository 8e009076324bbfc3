package catalog

import (
	"bytes"
	"context"

	"github.com/matzehuels/starchart/pkg/cache"
	"github.com/matzehuels/starchart/pkg/integrations"
)

// HipparcosURL is the CDS copy of the Hipparcos main catalogue.
const HipparcosURL = "https://cdsarc.cds.unistra.fr/ftp/cats/I/239/hip_main.dat"

// Fetcher downloads remote catalogs through a caching client.
type Fetcher struct {
	client *integrations.Client
	url    string
}

// NewFetcher creates a Fetcher whose downloads are cached in c.
func NewFetcher(c cache.Cache) *Fetcher {
	return &Fetcher{
		client: integrations.NewClient(c, "catalog", cache.CatalogTTL, map[string]string{
			"User-Agent": integrations.UserAgent(),
		}),
		url: HipparcosURL,
	}
}

// WithURL points the fetcher at a different Hipparcos mirror.
func (f *Fetcher) WithURL(url string) *Fetcher {
	f.url = url
	return f
}

// Client exposes the underlying HTTP client, mainly for tests.
func (f *Fetcher) Client() *integrations.Client { return f.client }

// Hipparcos downloads and parses hip_main.dat. With refresh the cached copy
// is ignored.
func (f *Fetcher) Hipparcos(ctx context.Context, refresh bool) (*Catalog, error) {
	data, err := f.client.CachedBytes(ctx, f.url, refresh, func() ([]byte, error) {
		return f.client.GetBytes(ctx, f.url)
	})
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(data), FormatHipparcos, "hip_main.dat")
}
