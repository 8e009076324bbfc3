package sky

import (
	"fmt"
	"time"
)

// Chart defaults.
const (
	DefaultFieldOfView    = 180.0
	DefaultMagnitudeLimit = 10.0
	DefaultMaxMarkerSize  = 8.0
	DefaultBoundaryRadius = 1.0
	DefaultSize           = 1200
	DefaultBackground     = "#041A40"
	DefaultMarkerColor    = "#ffffff"
	DefaultLineWidth      = 0.15
	DefaultBaseColor      = "#ffffff"
	DefaultOverlayColor   = "#ff0000"
)

// DefaultLayerStyle returns the style for the i-th edge set when none is
// configured: the first set is the base figure set, later ones are overlays.
func DefaultLayerStyle(i int) LineStyle {
	if i == 0 {
		return LineStyle{Color: DefaultBaseColor, Width: DefaultLineWidth}
	}
	return LineStyle{Color: DefaultOverlayColor, Width: DefaultLineWidth, Overlay: true}
}

// ChartOptions configures RenderStarChart.
type ChartOptions struct {
	MagnitudeLimit float64
	MaxMarkerSize  float64
	FieldOfView    float64 // degrees, full angle
	Width, Height  int     // pixels

	// Label and DisplayTime feed the title. An empty label falls back to the
	// observer's coordinates, a zero DisplayTime to the UTC instant.
	Label       string
	DisplayTime time.Time

	// LayerStyles is parallel to the edge sets. Missing entries fall back to
	// DefaultLayerStyle.
	LayerStyles []LineStyle

	Background  string
	MarkerColor string
}

// Diagnostics reports conditions that degrade a chart without failing it.
type Diagnostics struct {
	Markers          int  `json:"markers"`
	Segments         int  `json:"segments"`
	Excluded         int  `json:"excluded"`         // stars with no finite projection
	UnresolvedEdges  int  `json:"unresolved_edges"` // edges dropped for unknown ids
	EmptyAfterFilter bool `json:"empty_after_filter"`
}

// RenderStarChart builds the chart of catalog and sets as seen by obs.
// Only invalid observer coordinates or options fail; everything else is
// reported in Diagnostics.
func RenderStarChart(obs Observer, catalog []CatalogEntry, sets []EdgeSet, opts ChartOptions) (Scene, Diagnostics, error) {
	var diag Diagnostics

	frame, err := BuildFrame(obs)
	if err != nil {
		return Scene{}, diag, err
	}

	dirs := make([]Direction, len(catalog))
	for i, e := range catalog {
		dirs[i] = e.Dir
	}
	proj, err := Project(frame.Zenith, dirs, opts.FieldOfView)
	if err != nil {
		return Scene{}, diag, err
	}
	diag.Excluded = proj.Excluded

	markers, err := FilterAndStyle(catalog, proj, opts.MagnitudeLimit, opts.MaxMarkerSize)
	if err != nil {
		return Scene{}, diag, err
	}
	diag.Markers = len(markers)
	diag.EmptyAfterFilter = len(markers) == 0

	coords := CoordinateMap(catalog, proj)
	layers := make([]Layer, len(sets))
	for i, set := range sets {
		style := DefaultLayerStyle(i)
		if i < len(opts.LayerStyles) {
			style = opts.LayerStyles[i]
		}
		segs := Resolve(set, coords)
		diag.UnresolvedEdges += len(set.Edges) - len(segs)
		diag.Segments += len(segs)
		layers[i] = Layer{Name: set.Name, Style: style, Segments: segs}
	}

	label := opts.Label
	if label == "" {
		label = fmt.Sprintf("%.4f, %.4f", obs.Latitude, obs.Longitude)
	}
	display := opts.DisplayTime
	if display.IsZero() {
		display = frame.Instant
	}

	scene, err := Assemble(markers, layers, SceneConfig{
		Width:       opts.Width,
		Height:      opts.Height,
		Background:  opts.Background,
		MarkerColor: opts.MarkerColor,
		Title:       FormatTitle(label, display),
	})
	if err != nil {
		return Scene{}, diag, err
	}
	return scene, diag, nil
}
