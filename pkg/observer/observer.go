// Package observer turns a user's place and wall-clock time into a
// [sky.Observer].
//
// A place is either explicit coordinates or a free-form name resolved with a
// [Geocoder]. Times are given as "2006-01-02 15:04" in an IANA zone. Without
// an explicit zone it is looked up from the coordinates with tzf; if that
// finds nothing the time is read as UTC and a warning is logged. The local
// time is kept for chart titles while the observer instant is UTC.
package observer

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ringsaturn/tzf"

	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/integrations/nominatim"
	"github.com/matzehuels/starchart/pkg/sky"
)

// TimeLayout is the accepted wall-clock format.
const TimeLayout = "2006-01-02 15:04"

// Geocoder resolves place names to candidates, best first.
type Geocoder interface {
	Search(ctx context.Context, query string, refresh bool) ([]nominatim.Place, error)
}

// Picker chooses one of several geocoding candidates. It is only called with
// two or more candidates.
type Picker func(ctx context.Context, query string, places []nominatim.Place) (nominatim.Place, error)

// Request describes where and when the sky is observed.
type Request struct {
	// Place is geocoded unless HasCoordinates is set.
	Place string

	Latitude, Longitude float64
	HasCoordinates      bool
	Elevation           float64 // metres

	// When is local wall time in TimeLayout; empty means now.
	When string
	// TZ is an IANA zone name such as "America/New_York". Empty means the
	// zone containing the coordinates.
	TZ string

	// Label overrides the title's location text.
	Label string

	Refresh bool
}

// Resolved is a request with every field settled.
type Resolved struct {
	Observer sky.Observer
	Label    string
	Local    time.Time // wall time in the requested zone
	Place    *nominatim.Place
}

// ZoneFinder maps a position to an IANA zone name, or "" when unknown.
type ZoneFinder interface {
	GetTimezoneName(lng, lat float64) string
}

// defaultZones loads the bundled tzf boundary data on first use.
var defaultZones = sync.OnceValues(func() (ZoneFinder, error) {
	return tzf.NewDefaultFinder()
})

// Resolver resolves requests. The zero value works for coordinate requests.
type Resolver struct {
	Geocoder Geocoder
	Pick     Picker
	// Zones finds the zone for requests without TZ; nil uses tzf's
	// default finder.
	Zones  ZoneFinder
	Logger *log.Logger
	Now    func() time.Time
}

// Resolve settles req into an observer, a title label and a display time.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Resolved, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// An explicit zone is checked before any geocoding is paid for.
	if _, err := LoadZone(req.TZ); err != nil {
		return Resolved{}, err
	}

	res := Resolved{Label: req.Label}
	lat, lon := req.Latitude, req.Longitude

	if !req.HasCoordinates {
		place, err := r.geocode(ctx, req.Place, req.Refresh)
		if err != nil {
			return Resolved{}, err
		}
		res.Place = &place
		lat, lon = place.Latitude, place.Longitude
		logger.Debug("geocoded", "query", req.Place, "name", place.Name, "lat", lat, "lon", lon)
		if res.Label == "" {
			res.Label = strings.TrimSpace(req.Place)
		}
	}
	if res.Label == "" {
		res.Label = FormatCoordinates(lat, lon)
	}
	if err := errors.ValidateLabel(res.Label); err != nil {
		return Resolved{}, err
	}

	tz := req.TZ
	if tz == "" {
		tz = r.zoneAt(lat, lon, logger)
	}
	local, err := r.parseWhen(req.When, tz, logger)
	if err != nil {
		return Resolved{}, err
	}
	res.Local = local

	res.Observer = sky.Observer{
		Latitude:  lat,
		Longitude: lon,
		Elevation: req.Elevation,
		Instant:   local.UTC(),
	}
	if err := res.Observer.Validate(); err != nil {
		return Resolved{}, err
	}
	return res, nil
}

func (r *Resolver) geocode(ctx context.Context, query string, refresh bool) (nominatim.Place, error) {
	if strings.TrimSpace(query) == "" {
		return nominatim.Place{}, errors.New(errors.ErrCodeInvalidInput, "either a place or coordinates are required")
	}
	if r.Geocoder == nil {
		return nominatim.Place{}, errors.New(errors.ErrCodeUnsupported, "geocoding is not configured; pass coordinates instead")
	}
	places, err := r.Geocoder.Search(ctx, query, refresh)
	if err != nil {
		return nominatim.Place{}, err
	}
	if len(places) == 0 {
		return nominatim.Place{}, errors.New(errors.ErrCodeLocationNotFound, "no location found for %q", query)
	}
	if len(places) == 1 || r.Pick == nil {
		return places[0], nil
	}
	return r.Pick(ctx, query, places)
}

// zoneAt returns the zone containing lat/lon, or "" when none is known.
func (r *Resolver) zoneAt(lat, lon float64, logger *log.Logger) string {
	// Out-of-range positions are reported by Observer.Validate.
	if !(math.Abs(lat) <= 90 && math.Abs(lon) <= 180) {
		return ""
	}
	zones := r.Zones
	if zones == nil {
		var err error
		if zones, err = defaultZones(); err != nil {
			logger.Warn("time zone lookup unavailable", "err", err)
			return ""
		}
	}
	name := zones.GetTimezoneName(lon, lat)
	if name == "" {
		return ""
	}
	if _, err := time.LoadLocation(name); err != nil {
		logger.Warn("time zone not in local database", "zone", name, "err", err)
		return ""
	}
	logger.Debug("time zone from coordinates", "zone", name, "lat", lat, "lon", lon)
	return name
}

func (r *Resolver) parseWhen(when, tz string, logger *log.Logger) (time.Time, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return time.Time{}, err
	}
	if tz == "" {
		logger.Warn("no time zone known, reading time as UTC")
	}
	if strings.TrimSpace(when) == "" {
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		return now().In(loc).Truncate(time.Minute), nil
	}
	return ParseTime(when, loc)
}

// ParseTime parses wall time in TimeLayout within loc.
func ParseTime(when string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(when), loc)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeInvalidTime, err, "time %q must look like %q", when, TimeLayout)
	}
	return t, nil
}

// LoadZone loads an IANA zone; empty means UTC.
func LoadZone(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTime, err, "unknown time zone %q", tz)
	}
	return loc, nil
}

// FormatCoordinates renders a coordinate label such as "36.8530°N 75.9774°W".
func FormatCoordinates(lat, lon float64) string {
	ns, ew := "N", "E"
	if lat < 0 {
		ns = "S"
	}
	if lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.4f°%s %.4f°%s", math.Abs(lat), ns, math.Abs(lon), ew)
}
