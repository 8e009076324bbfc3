package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/starchart/pkg/cache"
	"github.com/matzehuels/starchart/pkg/errors"
)

const virginiaBeach = `[
  {"place_id": 1, "lat": "36.8529841", "lon": "-75.9774183", "display_name": "Virginia Beach, Virginia, United States", "category": "boundary", "type": "administrative"},
  {"place_id": 2, "lat": "not-a-number", "lon": "0", "display_name": "Broken"}
]`

func testClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(c, time.Hour).WithBaseURL(url + "/")
}

func TestSearch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		if got := r.URL.Query().Get("format"); got != "jsonv2" {
			t.Errorf("format = %q, want jsonv2", got)
		}
		if got := r.URL.Query().Get("q"); got != "virginia beach, va" {
			t.Errorf("q = %q", got)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "starchart/") {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Write([]byte(virginiaBeach))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	for _, q := range []string{"Virginia Beach, VA", "  virginia   BEACH, va "} {
		places, err := c.Search(context.Background(), q, false)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(places) != 1 {
			t.Fatalf("len(places) = %d, want 1 (unparsable row dropped)", len(places))
		}
		p := places[0]
		if p.Latitude != 36.8529841 || p.Longitude != -75.9774183 {
			t.Errorf("coordinates = %v, %v", p.Latitude, p.Longitude)
		}
		if p.Kind != "boundary/administrative" {
			t.Errorf("Kind = %q", p.Kind)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1 (normalized query cached)", n)
	}
}

func TestSearchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Search(context.Background(), "Atlantis", false)
	if !errors.Is(err, errors.ErrCodeLocationNotFound) {
		t.Errorf("err = %v, want LOCATION_NOT_FOUND", err)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	_, err := NewClient(nil, time.Hour).Search(context.Background(), "   ", false)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Search(context.Background(), "Paris", false)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("err = %v, want NETWORK_ERROR", err)
	}
}

func TestWithLimit(t *testing.T) {
	c := NewClient(nil, time.Hour).WithLimit(2).WithLimit(0)
	if c.limit != 2 {
		t.Errorf("limit = %d, want 2", c.limit)
	}
}
