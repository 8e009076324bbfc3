package sink

import (
	"github.com/matzehuels/starchart/pkg/render/chart/styles"
	"github.com/matzehuels/starchart/pkg/sky"
)

// DefaultMinMarkerRadius is the smallest marker radius drawn, in pixels.
const DefaultMinMarkerRadius = 0.4

const (
	marginFraction = 0.02
	titleLines     = 2.5
)

// canvas maps scene coordinates to pixels.
type canvas struct {
	width, height float64
	cx, cy        float64 // disc centre
	r             float64 // disc radius in pixels
	k             float64 // pixels per scene unit
	ppp           float64 // pixels per point
	fontPx        float64
	titleX        float64
	titleY        float64
}

func newCanvas(s sky.Scene, style styles.Style) canvas {
	w, h := float64(s.Width), float64(s.Height)
	ppp := s.PixelsPerPoint()
	c := canvas{width: w, height: h, ppp: ppp, fontPx: style.FontSize * ppp}

	band := 0.0
	if s.Title != "" {
		band = c.fontPx * titleLines
	}
	margin := marginFraction * min(w, h)

	c.r = max(min(w, h-band)/2-margin, 1)
	c.cx = w / 2
	c.cy = band + (h-band)/2
	c.k = c.r / s.Boundary.Radius
	c.titleX = c.cx + c.r
	c.titleY = band / 2
	return c
}

// pt converts a scene point to canvas pixels.
func (c canvas) pt(p sky.Point) (x, y float64) {
	return c.cx + p.X*c.k, c.cy - p.Y*c.k
}

// markerRadius converts a marker radius in points to pixels.
func (c canvas) markerRadius(points, minPx float64) float64 {
	return max(points*c.ppp, minPx)
}

// lineWidth converts a line width in points to pixels.
func (c canvas) lineWidth(points float64) float64 {
	return points * c.ppp
}

// Option configures a sink.
type Option func(*options)

type options struct {
	style     styles.Style
	minRadius float64
	noTitle   bool
	scale     float64 // PNG only
	rsvg      bool    // PNG only
	cols      int     // text only
}

func newOptions(opts ...Option) options {
	o := options{style: styles.Classic(), minRadius: DefaultMinMarkerRadius, scale: 1, cols: DefaultTextColumns}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithStyle selects the colour scheme.
func WithStyle(s styles.Style) Option { return func(o *options) { o.style = s } }

// WithMinMarkerRadius sets the smallest marker radius drawn, in pixels.
func WithMinMarkerRadius(px float64) Option { return func(o *options) { o.minRadius = max(px, 0) } }

// WithoutTitle omits the title and its band.
func WithoutTitle() Option { return func(o *options) { o.noTitle = true } }

// WithScale multiplies the PNG pixel size (2 for high-DPI output).
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

// WithRSVG rasterises PNG output with rsvg-convert instead of natively.
func WithRSVG() Option { return func(o *options) { o.rsvg = true } }

// WithColumns sets the text preview width in characters.
func WithColumns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cols = n
		}
	}
}

// scene returns s with the title removed when the sink skips it, so the
// canvas does not reserve a band.
func (o options) scene(s sky.Scene) sky.Scene {
	if o.noTitle {
		s.Title = ""
	}
	return s
}
