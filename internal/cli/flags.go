package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/starchart/pkg/config"
	"github.com/matzehuels/starchart/pkg/pipeline"
)

// chartFlags are the observer, source and chart flags shared by the commands
// that compute a chart. Only flags set on the command line override config.
type chartFlags struct {
	place     string
	lat, lon  float64
	elevation float64
	when      string
	tz        string
	label     string

	catalog       string
	catalogFormat string
	figures       []string
	lineColor     string
	overlayColor  string
	lineWidth     float64

	mag         float64
	markerSize  float64
	fov         float64
	size        int
	width       int
	height      int
	background  string
	markerColor string

	formats   string
	style     string
	scale     float64
	minRadius float64
	noTitle   bool
	refresh   bool
}

// register adds the flags to cmd. Render flags are only meaningful for
// commands that produce artifacts.
func (f *chartFlags) register(cmd *cobra.Command, render bool) {
	fs := cmd.Flags()
	fs.StringVarP(&f.place, "place", "p", "", "place name to geocode (default \""+pipeline.DefaultPlace+"\")")
	fs.Float64Var(&f.lat, "lat", 0, "observer latitude in degrees, north positive")
	fs.Float64Var(&f.lon, "lon", 0, "observer longitude in degrees, east positive")
	fs.Float64Var(&f.elevation, "elevation", 0, "observer elevation in metres")
	fs.StringVarP(&f.when, "when", "w", "", "local time as \"YYYY-MM-DD HH:MM\" (default \""+pipeline.DefaultWhen+"\")")
	fs.StringVar(&f.tz, "tz", "", "IANA time zone of --when, e.g. America/New_York (default: zone at the location)")
	fs.StringVar(&f.label, "label", "", "location text for the title (default: the place)")

	fs.StringVar(&f.catalog, "catalog", "", "star catalog: builtin, hipparcos or a file path")
	fs.StringVar(&f.catalogFormat, "catalog-format", "", "catalog file format: hipparcos or csv (default: by extension)")
	fs.StringSliceVar(&f.figures, "figures", nil, "figure sets: built-in names or .fab paths; the first is the base set")
	fs.StringVar(&f.lineColor, "line-color", "", "base figure line colour")
	fs.StringVar(&f.overlayColor, "overlay-color", "", "overlay figure line colour")
	fs.Float64Var(&f.lineWidth, "line-width", 0, "figure line width in points")

	fs.Float64VarP(&f.mag, "mag", "m", 0, "faintest magnitude drawn (default 10)")
	fs.Float64Var(&f.markerSize, "marker-size", 0, "marker radius of a magnitude 0 star in points (default 8)")
	fs.Float64Var(&f.fov, "fov", 0, "field of view in degrees (default 180)")
	fs.IntVar(&f.size, "size", 0, "chart width and height in pixels (default 1200)")
	fs.IntVar(&f.width, "width", 0, "chart width in pixels")
	fs.IntVar(&f.height, "height", 0, "chart height in pixels")
	fs.StringVar(&f.background, "background", "", "sky disc colour")
	fs.StringVar(&f.markerColor, "marker-color", "", "star marker colour")
	fs.BoolVar(&f.refresh, "refresh", false, "bypass cached geocoding, catalogs and charts")

	if render {
		fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, txt (comma-separated)")
		fs.StringVar(&f.style, "style", "", "colour style: classic (default), night, print")
		fs.Float64Var(&f.scale, "scale", 0, "raster scale factor for png")
		fs.Float64Var(&f.minRadius, "min-radius", 0, "smallest marker radius in pixels")
		fs.BoolVar(&f.noTitle, "no-title", false, "omit the title")
	}
	registerChartCompletions(cmd)
}

// options merges changed flags over cfg.
func (f *chartFlags) options(cmd *cobra.Command, cfg *config.Config) pipeline.Options {
	opts := cfg.Options()
	changed := cmd.Flags().Changed

	if changed("place") {
		opts.Place = f.place
		opts.HasCoordinates = false
	}
	if changed("lat") || changed("lon") {
		opts.Latitude, opts.Longitude = f.lat, f.lon
		opts.HasCoordinates = true
	}
	setIf(changed("elevation"), &opts.Elevation, f.elevation)
	setIf(changed("when"), &opts.When, f.when)
	setIf(changed("tz"), &opts.TZ, f.tz)
	setIf(changed("label"), &opts.Label, f.label)

	setIf(changed("catalog"), &opts.Catalog, f.catalog)
	setIf(changed("catalog-format"), &opts.CatalogFormat, f.catalogFormat)
	if changed("figures") {
		opts.Figures = make([]pipeline.FigureSource, len(f.figures))
		for i, src := range f.figures {
			opts.Figures[i] = pipeline.FigureSource{Source: src}
		}
	}
	if changed("line-color") || changed("overlay-color") || changed("line-width") {
		if len(opts.Figures) == 0 {
			opts.Figures = []pipeline.FigureSource{{Source: pipeline.DefaultFigures}}
		}
		for i := range opts.Figures {
			if i == 0 && changed("line-color") {
				opts.Figures[i].Color = f.lineColor
			}
			if i > 0 && changed("overlay-color") {
				opts.Figures[i].Color = f.overlayColor
			}
			if changed("line-width") {
				opts.Figures[i].Width = f.lineWidth
			}
		}
	}

	if changed("mag") {
		opts.MagnitudeLimit, opts.HasMagnitudeLimit = f.mag, true
	}
	setIf(changed("marker-size"), &opts.MaxMarkerSize, f.markerSize)
	setIf(changed("fov"), &opts.FieldOfView, f.fov)
	if changed("size") {
		opts.Width, opts.Height = f.size, f.size
	}
	setIf(changed("width"), &opts.Width, f.width)
	setIf(changed("height"), &opts.Height, f.height)
	setIf(changed("background"), &opts.Background, f.background)
	setIf(changed("marker-color"), &opts.MarkerColor, f.markerColor)
	opts.Refresh = f.refresh

	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	setIf(changed("style"), &opts.Style, f.style)
	setIf(changed("scale"), &opts.Scale, f.scale)
	setIf(changed("min-radius"), &opts.MinMarkerRadius, f.minRadius)
	if changed("no-title") {
		opts.NoTitle = f.noTitle
	}
	return opts
}

func setIf[T any](ok bool, dst *T, v T) {
	if ok {
		*dst = v
	}
}
