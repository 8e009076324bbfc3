package sky

import "math"

const tol = 1e-9

func deg(d float64) float64 { return d * math.Pi / 180 }

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

// tangentBasis returns an east/north basis at c.
func tangentBasis(c Direction) (e, n Vec3) {
	cv := c.Vec()
	e = Vec3{Z: 1}.Cross(cv)
	if e.Norm() < 1e-12 {
		e = Vec3{Y: 1}
	}
	e = e.Normalized()
	return e, cv.Cross(e)
}

// offset returns the direction at angular distance theta from c, at position
// angle az measured from east toward north (radians).
func offset(c Direction, theta, az float64) Direction {
	e, n := tangentBasis(c)
	side := e.Scale(math.Cos(az)).Add(n.Scale(math.Sin(az)))
	return DirectionOf(c.Vec().Scale(math.Cos(theta)).Add(side.Scale(math.Sin(theta))))
}

// rotateAbout rotates d by phi radians around axis k (Rodrigues).
func rotateAbout(d Direction, k Direction, phi float64) Direction {
	v, kv := d.Vec(), k.Vec()
	s, c := math.Sincos(phi)
	r := v.Scale(c).Add(kv.Cross(v).Scale(s)).Add(kv.Scale(kv.Dot(v) * (1 - c)))
	return DirectionOf(r)
}
