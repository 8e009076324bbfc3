// Package sink renders a [sky.Scene] into output formats.
//
// # Overview
//
// A sink maps the scene's projection plane onto a pixel canvas: the sky disc
// is centred below a title band, the boundary radius spans the disc and y
// grows upward in scene space but downward on the canvas. Marker radii and
// line widths are in points and are scaled by [sky.Scene.PixelsPerPoint].
//
//   - SVG: [RenderSVG], hand-written markup with the disc as a clip path
//   - PNG: [RenderPNG], rasterised natively with fogleman/gg
//   - PDF: [RenderPDF], the SVG converted by rsvg-convert
//   - JSON: [RenderJSON], the scene itself plus render metadata
//   - TXT: [RenderText], a character-cell preview for terminals
//
// Every sink draws the boundary first, then markers, then line layers in
// scene order, all clipped to the disc, then the title.
//
// # Faint stars
//
// Marker radii follow the magnitude law and fall below a pixel quickly.
// Sinks enforce a minimum visible radius, [DefaultMinMarkerRadius] unless
// changed with WithMinMarkerRadius.
//
// [sky.Scene]: github.com/matzehuels/starchart/pkg/sky.Scene
// [sky.Scene.PixelsPerPoint]: github.com/matzehuels/starchart/pkg/sky.Scene.PixelsPerPoint
package sink
