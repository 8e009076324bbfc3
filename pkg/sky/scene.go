package sky

import (
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/starchart/pkg/errors"
)

// TitleLayout is the time pattern used in chart titles.
const TitleLayout = "2006-01-02 15:04"

// ChartPoints is the chart diameter in points. Sinks scale marker radii and
// line widths by min(Width, Height) / ChartPoints pixels per point.
const ChartPoints = 864

// LineStyle describes how a segment layer is stroked.
type LineStyle struct {
	Color   string  `json:"color"`
	Width   float64 `json:"width"`             // points
	Overlay bool    `json:"overlay,omitempty"` // drawn after all base layers
}

// Layer is one edge set's segments with their style.
type Layer struct {
	Name     string    `json:"name"`
	Style    LineStyle `json:"style"`
	Segments []Segment `json:"segments"`
}

// Boundary is the sky disc. Sinks fill it and clip everything else to it.
type Boundary struct {
	Radius float64 `json:"radius"`
	Fill   string  `json:"fill"`
}

// SceneConfig carries the explicit sizing and labelling of a scene.
type SceneConfig struct {
	Width, Height  int // pixels
	BoundaryRadius float64
	Background     string
	MarkerColor    string
	Title          string
}

// Scene is a render-ready star chart.
type Scene struct {
	Title       string   `json:"title"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Boundary    Boundary `json:"boundary"`
	MarkerColor string   `json:"marker_color"`
	Markers     []Marker `json:"markers"`
	Layers      []Layer  `json:"layers"` // base layers first, overlays last
}

// PixelsPerPoint converts point sizes (marker radii, line widths) to pixels.
func (s Scene) PixelsPerPoint() float64 {
	return float64(min(s.Width, s.Height)) / ChartPoints
}

// Assemble composes markers and segment layers into a scene. Layers are
// stably reordered so that overlays come after every base layer; sinks draw
// the boundary, then markers, then layers in slice order.
func Assemble(markers []Marker, layers []Layer, cfg SceneConfig) (Scene, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Scene{}, errors.New(errors.ErrCodeInvalidInput, "chart size %dx%d must be positive", cfg.Width, cfg.Height)
	}
	if cfg.BoundaryRadius == 0 {
		cfg.BoundaryRadius = DefaultBoundaryRadius
	}
	if cfg.BoundaryRadius < 0 {
		return Scene{}, errors.New(errors.ErrCodeInvalidInput, "boundary radius %v must be positive", cfg.BoundaryRadius)
	}
	if cfg.Background == "" {
		cfg.Background = DefaultBackground
	}
	if cfg.MarkerColor == "" {
		cfg.MarkerColor = DefaultMarkerColor
	}

	ordered := slices.Clone(layers)
	slices.SortStableFunc(ordered, func(a, b Layer) int {
		switch {
		case a.Style.Overlay == b.Style.Overlay:
			return 0
		case b.Style.Overlay:
			return -1
		default:
			return 1
		}
	})

	if markers == nil {
		markers = []Marker{}
	}
	if ordered == nil {
		ordered = []Layer{}
	}

	return Scene{
		Title:       cfg.Title,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Boundary:    Boundary{Radius: cfg.BoundaryRadius, Fill: cfg.Background},
		MarkerColor: cfg.MarkerColor,
		Markers:     markers,
		Layers:      ordered,
	}, nil
}

// FormatTitle labels a chart with the observer's place and display time.
func FormatTitle(label string, display time.Time) string {
	return fmt.Sprintf("Observation Location: %s, Time: %s", label, display.Format(TitleLayout))
}
