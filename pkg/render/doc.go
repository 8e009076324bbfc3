// Package render holds format conversion shared by the chart sinks.
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// from librsvg. The PDF sink depends on it; PNG is normally rasterised
// natively and only falls back to rsvg-convert on request.
//
//	svg := sink.RenderSVG(scene)
//	pdf, err := render.ToPDF(svg)
//
// The chart sinks live in [chart/sink] and their colour schemes in
// [chart/styles].
//
// [chart/sink]: github.com/matzehuels/starchart/pkg/render/chart/sink
// [chart/styles]: github.com/matzehuels/starchart/pkg/render/chart/styles
package render
