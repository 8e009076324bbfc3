// Package pipeline provides the star chart pipeline shared by the CLI and the
// HTTP service.
//
// # Architecture
//
// A run has four stages:
//
//  1. Resolve: turn a place (or coordinates) and a local time into an observer
//  2. Load: read the star catalog and the constellation figure sets
//  3. Chart: project, filter and assemble the scene ([sky.RenderStarChart])
//  4. Render: draw the scene in each requested format
//
// Scenes and artifacts are cached under keys derived from every input, so a
// repeated request is served without recomputation.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Place:   "Virginia Beach, VA",
//	    When:    "2021-05-17 00:00",
//	    TZ:      "America/New_York",
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/starchart/pkg/catalog"
	"github.com/matzehuels/starchart/pkg/constellation"
	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/observer"
	"github.com/matzehuels/starchart/pkg/render/chart/styles"
	"github.com/matzehuels/starchart/pkg/sky"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultPlace and DefaultWhen reproduce the reference chart.
	DefaultPlace = "Virginia Beach, VA"
	DefaultWhen  = "2021-05-17 00:00"

	// DefaultCatalog is the embedded bright star table.
	DefaultCatalog = catalog.FormatBuiltin

	// CatalogHipparcos downloads the full Hipparcos catalogue.
	CatalogHipparcos = "hipparcos"

	// DefaultFigures is the embedded constellation set.
	DefaultFigures = constellation.SetConstellations

	// DefaultStyle is the default colour scheme.
	DefaultStyle = styles.DefaultName
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatTXT  = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatTXT:  true,
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatTXT:  "text/plain; charset=utf-8",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// FigureSource is one edge set: a built-in set name or a .fab path, with an
// optional line style. Unset style fields fall back to
// [sky.DefaultLayerStyle] for the set's position.
type FigureSource struct {
	Source  string  `json:"source" toml:"source"`
	Color   string  `json:"color,omitempty" toml:"color"`
	Width   float64 `json:"width,omitempty" toml:"width"`
	Overlay *bool   `json:"overlay,omitempty" toml:"overlay"`
}

// Options contains all configuration for a chart run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Observer options
	Place          string  `json:"place,omitempty"`
	Latitude       float64 `json:"lat,omitempty"`
	Longitude      float64 `json:"lon,omitempty"`
	HasCoordinates bool    `json:"has_coordinates,omitempty"`
	Elevation      float64 `json:"elevation,omitempty"`
	When           string  `json:"when,omitempty"` // local wall time, observer.TimeLayout
	TZ             string  `json:"tz,omitempty"`
	Label          string  `json:"label,omitempty"`

	// Source options
	Catalog       string         `json:"catalog,omitempty"` // "builtin", "hipparcos" or a file path
	CatalogFormat string         `json:"catalog_format,omitempty"`
	Figures       []FigureSource `json:"figures,omitempty"`

	// Chart options. Zero values select the defaults, except that a
	// magnitude limit of 0 is honoured when HasMagnitudeLimit is set.
	MagnitudeLimit    float64 `json:"magnitude_limit,omitempty"`
	HasMagnitudeLimit bool    `json:"has_magnitude_limit,omitempty"`
	MaxMarkerSize     float64 `json:"max_marker_size,omitempty"`
	FieldOfView       float64 `json:"fov,omitempty"`
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	Background        string  `json:"background,omitempty"`
	MarkerColor       string  `json:"marker_color,omitempty"`

	// Render options
	Formats         []string `json:"formats,omitempty"`
	Style           string   `json:"style,omitempty"`
	MinMarkerRadius float64  `json:"min_marker_radius,omitempty"`
	Scale           float64  `json:"scale,omitempty"`
	NoTitle         bool     `json:"no_title,omitempty"`

	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Observer    observer.Resolved
	Scene       sky.Scene
	SceneHash   string
	Diagnostics sky.Diagnostics
	Artifacts   map[string][]byte
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Stars       int
	Markers     int
	Segments    int
	ResolveTime time.Duration
	LoadTime    time.Duration
	ChartTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SceneHit  bool // scene came from cache; load and chart were skipped
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, txt)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !styles.Valid(style) {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: %s)", style, strings.Join(styles.Names(), ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if !o.HasCoordinates && strings.TrimSpace(o.Place) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "place or coordinates are required")
	}
	if !(o.FieldOfView > 0 && o.FieldOfView < 360) {
		return errors.New(errors.ErrCodeInvalidFieldOfView, "field of view %v must be in (0, 360)", o.FieldOfView)
	}
	if o.Width <= 0 || o.Height <= 0 || o.Width > MaxSize || o.Height > MaxSize {
		return errors.New(errors.ErrCodeInvalidInput, "chart size %dx%d must be within 1..%d", o.Width, o.Height, MaxSize)
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"magnitude limit", o.MagnitudeLimit},
		{"elevation", o.Elevation},
		{"max marker size", o.MaxMarkerSize},
		{"min marker radius", o.MinMarkerRadius},
		{"scale", o.Scale},
	} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "%s %v is not a finite number", v.name, v.val)
		}
	}
	if o.MaxMarkerSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max marker size %v must not be negative", o.MaxMarkerSize)
	}
	if o.MinMarkerRadius < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "min marker radius %v must not be negative", o.MinMarkerRadius)
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale %v must be positive", o.Scale)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	for _, c := range []string{o.Background, o.MarkerColor} {
		if err := styles.ValidateColor(c); err != nil {
			return err
		}
	}
	for _, f := range o.Figures {
		if f.Color != "" {
			if err := styles.ValidateColor(f.Color); err != nil {
				return err
			}
		}
		if math.IsNaN(f.Width) || math.IsInf(f.Width, 0) || f.Width < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "line width %v must not be negative", f.Width)
		}
	}
	if o.CatalogFormat != "" && !catalog.ValidFormats[o.CatalogFormat] {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown catalog format %q", o.CatalogFormat)
	}

	o.validated = true
	return nil
}

// MaxSize bounds chart width and height in pixels.
const MaxSize = 8192

// SetDefaults fills zero fields with defaults.
func (o *Options) SetDefaults() {
	if o.MagnitudeLimit == 0 && !o.HasMagnitudeLimit {
		o.MagnitudeLimit = sky.DefaultMagnitudeLimit
	}
	if o.MaxMarkerSize == 0 {
		o.MaxMarkerSize = sky.DefaultMaxMarkerSize
	}
	if o.FieldOfView == 0 {
		o.FieldOfView = sky.DefaultFieldOfView
	}
	if o.Width == 0 {
		o.Width = sky.DefaultSize
	}
	if o.Height == 0 {
		o.Height = o.Width
	}
	if o.Background == "" {
		o.Background = sky.DefaultBackground
	}
	if o.MarkerColor == "" {
		o.MarkerColor = sky.DefaultMarkerColor
	}
	if o.Catalog == "" {
		o.Catalog = DefaultCatalog
	}
	if len(o.Figures) == 0 {
		o.Figures = []FigureSource{{Source: DefaultFigures}}
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ObserverRequest returns the observer part of the options.
func (o *Options) ObserverRequest() observer.Request {
	return observer.Request{
		Place:          o.Place,
		Latitude:       o.Latitude,
		Longitude:      o.Longitude,
		HasCoordinates: o.HasCoordinates,
		Elevation:      o.Elevation,
		When:           o.When,
		TZ:             o.TZ,
		Label:          o.Label,
		Refresh:        o.Refresh,
	}
}

// LayerStyles resolves the line style of every figure source.
func (o *Options) LayerStyles() []sky.LineStyle {
	out := make([]sky.LineStyle, len(o.Figures))
	for i, f := range o.Figures {
		st := sky.DefaultLayerStyle(i)
		if f.Color != "" {
			st.Color = f.Color
		}
		if f.Width > 0 {
			st.Width = f.Width
		}
		if f.Overlay != nil {
			st.Overlay = *f.Overlay
		}
		out[i] = st
	}
	return out
}

// ChartOptions converts the options for [sky.RenderStarChart].
func (o *Options) ChartOptions(res observer.Resolved) sky.ChartOptions {
	return sky.ChartOptions{
		MagnitudeLimit: o.MagnitudeLimit,
		MaxMarkerSize:  o.MaxMarkerSize,
		FieldOfView:    o.FieldOfView,
		Width:          o.Width,
		Height:         o.Height,
		Label:          res.Label,
		DisplayTime:    res.Local,
		LayerStyles:    o.LayerStyles(),
		Background:     o.Background,
		MarkerColor:    o.MarkerColor,
	}
}
