package observer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/integrations/nominatim"
)

type fakeGeocoder struct {
	places []nominatim.Place
	err    error
	calls  int
}

func (g *fakeGeocoder) Search(ctx context.Context, query string, refresh bool) ([]nominatim.Place, error) {
	g.calls++
	return g.places, g.err
}

func TestResolveCoordinates(t *testing.T) {
	r := &Resolver{}
	res, err := r.Resolve(context.Background(), Request{
		Latitude: 36.85, Longitude: -75.98, HasCoordinates: true,
		When: "2021-05-17 00:00", TZ: "America/New_York",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := time.Date(2021, 5, 17, 4, 0, 0, 0, time.UTC)
	if !res.Observer.Instant.Equal(want) {
		t.Errorf("Instant = %v, want %v", res.Observer.Instant, want)
	}
	if got := res.Local.Format(TimeLayout); got != "2021-05-17 00:00" {
		t.Errorf("Local = %s, want wall time preserved", got)
	}
	if res.Label != "36.8500°N 75.9800°W" {
		t.Errorf("Label = %q", res.Label)
	}
	if res.Place != nil {
		t.Error("Place should be nil for coordinate requests")
	}
}

type fixedZones string

func (z fixedZones) GetTimezoneName(lng, lat float64) string { return string(z) }

func TestResolveZoneFromCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		r        *Resolver
		req      Request
		wantZone string
		wantUTC  time.Time
	}{
		{
			name:     "virginia beach",
			r:        &Resolver{},
			req:      Request{Latitude: 36.85, Longitude: -75.98, HasCoordinates: true, When: "2021-05-17 00:00"},
			wantZone: "America/New_York",
			wantUTC:  time.Date(2021, 5, 17, 4, 0, 0, 0, time.UTC),
		},
		{
			name:     "explicit zone wins",
			r:        &Resolver{},
			req:      Request{Latitude: 36.85, Longitude: -75.98, HasCoordinates: true, When: "2021-05-17 00:00", TZ: "Europe/Berlin"},
			wantZone: "Europe/Berlin",
			wantUTC:  time.Date(2021, 5, 16, 22, 0, 0, 0, time.UTC),
		},
		{
			name:     "unknown zone falls back to UTC",
			r:        &Resolver{Zones: fixedZones("")},
			req:      Request{Latitude: 36.85, Longitude: -75.98, HasCoordinates: true, When: "2021-05-17 00:00"},
			wantZone: "UTC",
			wantUTC:  time.Date(2021, 5, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "geocoded place",
			r:        &Resolver{Geocoder: &fakeGeocoder{places: []nominatim.Place{{Name: "Tokyo", Latitude: 35.68, Longitude: 139.76}}}},
			req:      Request{Place: "Tokyo", When: "2021-05-17 09:00"},
			wantZone: "Asia/Tokyo",
			wantUTC:  time.Date(2021, 5, 17, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.r.Resolve(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got := res.Local.Location().String(); got != tt.wantZone {
				t.Errorf("zone = %q, want %q", got, tt.wantZone)
			}
			if !res.Observer.Instant.Equal(tt.wantUTC) {
				t.Errorf("Instant = %v, want %v", res.Observer.Instant, tt.wantUTC)
			}
		})
	}
}

func TestResolveGeocodes(t *testing.T) {
	g := &fakeGeocoder{places: []nominatim.Place{
		{Name: "Virginia Beach, Virginia", Latitude: 36.85, Longitude: -75.97},
		{Name: "Virginia Beach, elsewhere", Latitude: 1, Longitude: 2},
	}}

	var picked int
	r := &Resolver{
		Geocoder: g,
		Pick: func(ctx context.Context, q string, places []nominatim.Place) (nominatim.Place, error) {
			picked++
			return places[1], nil
		},
	}
	res, err := r.Resolve(context.Background(), Request{Place: " Virginia Beach, VA ", When: "2021-05-17 00:00"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if picked != 1 || res.Observer.Latitude != 1 || res.Observer.Longitude != 2 {
		t.Errorf("picker not honoured: picked=%d observer=%+v", picked, res.Observer)
	}
	if res.Label != "Virginia Beach, VA" {
		t.Errorf("Label = %q, want trimmed query", res.Label)
	}
	if res.Place == nil || res.Place.Name != "Virginia Beach, elsewhere" {
		t.Errorf("Place = %+v", res.Place)
	}

	r.Pick = nil
	res, err = r.Resolve(context.Background(), Request{Place: "x", Label: "Home", When: "2021-05-17 00:00"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Observer.Latitude != 36.85 || res.Label != "Home" {
		t.Errorf("without picker the first match wins: %+v", res)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		r    *Resolver
		req  Request
		code errors.Code
	}{
		{"bad time", &Resolver{}, Request{HasCoordinates: true, When: "17/05/2021"}, errors.ErrCodeInvalidTime},
		{"bad zone", &Resolver{}, Request{HasCoordinates: true, When: "2021-05-17 00:00", TZ: "Mars/Olympus"}, errors.ErrCodeInvalidTime},
		{"bad latitude", &Resolver{}, Request{HasCoordinates: true, Latitude: 91, When: "2021-05-17 00:00"}, errors.ErrCodeInvalidCoordinates},
		{"no place", &Resolver{}, Request{When: "2021-05-17 00:00"}, errors.ErrCodeInvalidInput},
		{"no geocoder", &Resolver{}, Request{Place: "Paris", When: "2021-05-17 00:00"}, errors.ErrCodeUnsupported},
		{"no results", &Resolver{Geocoder: &fakeGeocoder{}}, Request{Place: "Atlantis", When: "2021-05-17 00:00"}, errors.ErrCodeLocationNotFound},
		{"bad label", &Resolver{}, Request{HasCoordinates: true, Label: "a\x00b", When: "2021-05-17 00:00"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.r.Resolve(context.Background(), tt.req)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestResolveNow(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 34, 56, 0, time.UTC)
	r := &Resolver{Now: func() time.Time { return fixed }}
	res, err := r.Resolve(context.Background(), Request{HasCoordinates: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Observer.Instant.Equal(fixed.Truncate(time.Minute)) {
		t.Errorf("Instant = %v", res.Observer.Instant)
	}
}

func TestFormatCoordinates(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     string
	}{
		{0, 0, "0.0000°N 0.0000°E"},
		{-33.8688, 151.2093, "33.8688°S 151.2093°E"},
		{51.5, -0.1275, "51.5000°N 0.1275°W"},
	}
	for _, tt := range tests {
		if got := FormatCoordinates(tt.lat, tt.lon); got != tt.want {
			t.Errorf("FormatCoordinates(%v, %v) = %q, want %q", tt.lat, tt.lon, got, tt.want)
		}
	}
	if !strings.Contains(FormatCoordinates(1, 1), "°") {
		t.Error("missing degree sign")
	}
}
