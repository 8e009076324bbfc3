package sky

import (
	"math"

	"github.com/soniakeys/unit"
)

// Vec3 is a Cartesian vector. The frame depends on context.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the length of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction, or the zero vector.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns v+u.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns v-u.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the scalar product.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Cross returns the vector product v×u.
func (v Vec3) Cross(u Vec3) Vec3 {
	return Vec3{
		X: v.Y*u.Z - v.Z*u.Y,
		Y: v.Z*u.X - v.X*u.Z,
		Z: v.X*u.Y - v.Y*u.X,
	}
}

// Direction is a unit vector on the celestial sphere, in the ICRS (J2000)
// equatorial frame: X toward RA 0h, Z toward the north celestial pole.
type Direction struct {
	X, Y, Z float64
}

// DirectionOf normalizes v into a Direction.
func DirectionOf(v Vec3) Direction {
	n := v.Normalized()
	return Direction{X: n.X, Y: n.Y, Z: n.Z}
}

// FromRADec returns the direction for a right ascension and declination in
// degrees.
func FromRADec(raDeg, decDeg float64) Direction {
	return fromRADecRad(raDeg*math.Pi/180, decDeg*math.Pi/180)
}

func fromRADecRad(ra, dec float64) Direction {
	sr, cr := math.Sincos(ra)
	sd, cd := math.Sincos(dec)
	return Direction{X: cd * cr, Y: cd * sr, Z: sd}
}

// Vec returns d as a plain vector.
func (d Direction) Vec() Vec3 {
	return Vec3{X: d.X, Y: d.Y, Z: d.Z}
}

// RA returns the right ascension of d.
func (d Direction) RA() unit.RA {
	return unit.RAFromRad(math.Atan2(d.Y, d.X))
}

// Dec returns the declination of d.
func (d Direction) Dec() unit.Angle {
	return unit.Angle(math.Atan2(d.Z, math.Hypot(d.X, d.Y)))
}

// Separation returns the angle between two directions in radians.
func (d Direction) Separation(o Direction) float64 {
	a, b := d.Vec(), o.Vec()
	return math.Atan2(a.Cross(b).Norm(), a.Dot(b))
}
