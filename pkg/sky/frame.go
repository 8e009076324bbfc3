package sky

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/soniakeys/meeus/v3/base"
	mcoord "github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/precess"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"

	"github.com/matzehuels/starchart/pkg/errors"
)

// Observer is a geodetic position on Earth at a UTC instant.
type Observer struct {
	Latitude  float64   // degrees, [-90, 90]
	Longitude float64   // degrees, [-180, 180], east positive
	Elevation float64   // metres above the ellipsoid
	Instant   time.Time // normalized to UTC by BuildFrame
}

// Validate reports ErrCodeInvalidCoordinates for out of range or non-finite
// coordinates and ErrCodeInvalidTime for a zero instant.
func (o Observer) Validate() error {
	for _, v := range []float64{o.Latitude, o.Longitude, o.Elevation} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidCoordinates, "observer coordinates must be finite")
		}
	}
	if o.Latitude < -90 || o.Latitude > 90 {
		return errors.New(errors.ErrCodeInvalidCoordinates, "latitude %v out of range [-90, 90]", o.Latitude)
	}
	if o.Longitude < -180 || o.Longitude > 180 {
		return errors.New(errors.ErrCodeInvalidCoordinates, "longitude %v out of range [-180, 180]", o.Longitude)
	}
	if o.Instant.IsZero() {
		return errors.New(errors.ErrCodeInvalidTime, "observer instant is not set")
	}
	return nil
}

// Frame is the observer's orientation at one instant.
type Frame struct {
	Instant time.Time // UTC
	JD      float64   // Julian date of Instant

	// GAST and LST are Greenwich and local apparent sidereal time in radians.
	GAST float64
	LST  float64

	// Position is the observer's geocentric position in km, equator of date.
	Position Vec3

	// Zenith points from Earth's centre toward the observer's local zenith,
	// in the catalog (J2000) frame.
	Zenith Direction
}

// BuildFrame computes the zenith direction and position vector of obs.
func BuildFrame(obs Observer) (Frame, error) {
	if err := obs.Validate(); err != nil {
		return Frame{}, err
	}

	t := obs.Instant.UTC()
	jd := julian.TimeToJD(t)
	gast := sidereal.Apparent(jd).Rad()

	lat := obs.Latitude * math.Pi / 180
	lon := obs.Longitude * math.Pi / 180
	lst := math.Mod(gast+lon, 2*math.Pi)
	if lst < 0 {
		lst += 2 * math.Pi
	}

	// Straight up is RA = LST, Dec = latitude of date. The catalog is J2000,
	// so precess the zenith back before comparing directions.
	ofDate := &mcoord.Equatorial{RA: unit.RAFromRad(lst), Dec: unit.Angle(lat)}
	j2000 := precess.NewPrecessor(base.JDEToJulianYear(jd), 2000).
		Precess(ofDate, &mcoord.Equatorial{})

	pos := satellite.LLAToECI(
		satellite.LatLong{Latitude: lat, Longitude: lon},
		obs.Elevation/1000,
		satJDay(t),
	)

	return Frame{
		Instant:  t,
		JD:       jd,
		GAST:     gast,
		LST:      lst,
		Position: Vec3{X: pos.X, Y: pos.Y, Z: pos.Z},
		Zenith:   fromRADecRad(j2000.RA.Rad(), j2000.Dec.Rad()),
	}, nil
}

func satJDay(t time.Time) float64 {
	jd := satellite.JDay(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	return jd + float64(t.Nanosecond())/1e9/86400
}
