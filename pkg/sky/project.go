package sky

import (
	"math"

	"github.com/matzehuels/starchart/pkg/errors"
)

// antipodeEpsilon bounds 1+cos(θ) below which a direction counts as
// opposite the projection centre.
const antipodeEpsilon = 1e-12

// Point is a position on the chart plane. The field of view maps onto the
// unit disc; points outside it may lie arbitrarily far out.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Radius returns the distance of p from the chart centre.
func (p Point) Radius() float64 {
	return math.Hypot(p.X, p.Y)
}

// Projection is the image of an ordered list of directions. Points and OK are
// parallel to the input; OK[i] is false for an excluded (antipodal) input,
// whose point is left at the origin.
type Projection struct {
	Points   []Point
	OK       []bool
	Excluded int
}

// Len returns the number of projected inputs, excluded ones included.
func (p Projection) Len() int { return len(p.Points) }

// At returns the i-th point and whether it has a finite image.
func (p Projection) At(i int) (Point, bool) {
	return p.Points[i], p.OK[i]
}

// Projector is a stereographic projection about a fixed centre.
type Projector struct {
	center, east, north Vec3
	scale               float64
}

// NewProjector builds the tangent basis at center. fovDeg is the full field
// of view in degrees and must lie in (0, 360).
func NewProjector(center Direction, fovDeg float64) (*Projector, error) {
	if math.IsNaN(fovDeg) || fovDeg <= 0 || fovDeg >= 360 {
		return nil, errors.New(errors.ErrCodeInvalidFieldOfView, "field of view %v must be in (0, 360) degrees", fovDeg)
	}
	c := center.Vec().Normalized()
	if c == (Vec3{}) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "projection centre must be a non-zero direction")
	}

	east := Vec3{Z: 1}.Cross(c)
	if east.Norm() < 1e-12 {
		// At a celestial pole every direction is south; pick RA 6h as east.
		east = Vec3{Y: 1}
	}
	east = east.Normalized()

	return &Projector{
		center: c,
		east:   east,
		north:  c.Cross(east),
		scale:  math.Tan(fovDeg * math.Pi / 180 / 4),
	}, nil
}

// Project maps d onto the chart plane. ok is false when d is opposite the
// centre, or is zero or non-finite; none of these has a finite image.
func (p *Projector) Project(d Direction) (pt Point, ok bool) {
	u := d.Vec().Normalized()
	den := 1 + u.Dot(p.center)
	if !(den > antipodeEpsilon) || u == (Vec3{}) {
		return Point{}, false
	}
	k := 1 / (den * p.scale)
	return Point{X: -u.Dot(p.east) * k, Y: u.Dot(p.north) * k}, true
}

// Project maps every direction in dirs onto the plane tangent to the sky at
// center. The result keeps input order and has one slot per input.
func Project(center Direction, dirs []Direction, fovDeg float64) (Projection, error) {
	p, err := NewProjector(center, fovDeg)
	if err != nil {
		return Projection{}, err
	}

	out := Projection{
		Points: make([]Point, len(dirs)),
		OK:     make([]bool, len(dirs)),
	}
	for i, d := range dirs {
		pt, ok := p.Project(d)
		out.Points[i], out.OK[i] = pt, ok
		if !ok {
			out.Excluded++
		}
	}
	return out, nil
}
