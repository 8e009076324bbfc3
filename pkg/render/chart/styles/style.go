// Package styles defines the colour schemes star chart sinks draw with.
//
// A scene already carries its sky fill, marker colour and per-layer line
// colours. A style adds what surrounds the sky disc (page, title, horizon
// outline) and may override scene colours for a specific medium: [Print]
// swaps the dark sky for white paper and dark ink.
package styles

import (
	"regexp"
	"slices"
	"sort"

	"github.com/matzehuels/starchart/pkg/errors"
)

// Style names.
const (
	NameClassic = "classic"
	NameNight   = "night"
	NamePrint   = "print"
)

// DefaultName is used when no style is requested.
const DefaultName = NameClassic

// Style is a sink colour scheme. Empty override fields keep the scene's own
// colours.
type Style struct {
	Name string

	Page       string  // background outside the sky disc
	Title      string  // title text colour
	Border     string  // horizon outline; empty draws none
	FontFamily string  // SVG font-family list
	FontSize   float64 // title size in points

	Sky      string // overrides the boundary fill
	Marker   string // overrides the marker colour
	BaseLine string // overrides base layer colours; overlays keep theirs
}

// SkyColor returns the disc fill to draw.
func (s Style) SkyColor(scene string) string { return pick(s.Sky, scene) }

// MarkerColor returns the marker fill to draw.
func (s Style) MarkerColor(scene string) string { return pick(s.Marker, scene) }

// LineColor returns the stroke colour for a layer.
func (s Style) LineColor(layer string, overlay bool) string {
	if overlay {
		return layer
	}
	return pick(s.BaseLine, layer)
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

// Classic reproduces the reference look: a navy sky disc on white paper
// with a small black title.
func Classic() Style {
	return Style{
		Name:       NameClassic,
		Page:       "#ffffff",
		Title:      "#000000",
		FontFamily: "DejaVu Sans, Helvetica, Arial, sans-serif",
		FontSize:   10,
	}
}

// Night puts the whole chart on a dark page for screens.
func Night() Style {
	return Style{
		Name:       NameNight,
		Page:       "#000814",
		Title:      "#c8d3e6",
		Border:     "#1d3a6b",
		FontFamily: "DejaVu Sans, Helvetica, Arial, sans-serif",
		FontSize:   10,
	}
}

// Print uses dark ink on white for printers.
func Print() Style {
	return Style{
		Name:       NamePrint,
		Page:       "#ffffff",
		Title:      "#000000",
		Border:     "#000000",
		FontFamily: "DejaVu Serif, Georgia, serif",
		FontSize:   10,
		Sky:        "#ffffff",
		Marker:     "#000000",
		BaseLine:   "#555555",
	}
}

var registry = map[string]func() Style{
	NameClassic: Classic,
	NameNight:   Night,
	NamePrint:   Print,
}

// Names lists the registered styles in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a style by name; empty means DefaultName.
func Lookup(name string) (Style, error) {
	if name == "" {
		name = DefaultName
	}
	f, ok := registry[name]
	if !ok {
		return Style{}, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (must be one of: %v)", name, Names())
	}
	return f(), nil
}

// Valid reports whether name is a registered style.
func Valid(name string) bool {
	return slices.Contains(Names(), name)
}

var hexColorRE = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateColor accepts #rgb, #rrggbb and #rrggbbaa.
func ValidateColor(c string) error {
	if !hexColorRE.MatchString(c) {
		return errors.New(errors.ErrCodeInvalidStyle, "color %q must be #rgb, #rrggbb or #rrggbbaa", c)
	}
	return nil
}
