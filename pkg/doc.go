// Package pkg provides the core libraries for starchart.
//
// # Overview
//
// Starchart draws the sky as seen by an observer on Earth: stars from a
// catalog projected stereographically onto a disc centred on the zenith, with
// constellation figures drawn as line segments between them.
//
// The pkg directory is organized into these areas:
//
//  1. [sky] - Domain logic (observer frame, projection, filtering, edges, scene)
//  2. [catalog] and [constellation] - Star and figure sources
//  3. [observer] - Place and time resolution, with geocoding via [integrations]
//  4. [render] - Sinks that turn a scene into SVG, PNG, PDF, JSON or text
//  5. [pipeline] - Orchestration (resolve → load → chart → render)
//  6. [cache], [storage] and [config] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Place name or coordinates, local time
//	         ↓
//	    [observer] (geocode, time zone)
//	         ↓
//	    [sky] (frame → project → filter → edges → scene)
//	         ↓
//	    [render] (sinks)
//	         ↓
//	    SVG/PNG/PDF/JSON/text
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/starchart/pkg/catalog"
//	    "github.com/matzehuels/starchart/pkg/constellation"
//	    "github.com/matzehuels/starchart/pkg/render/chart/sink"
//	    "github.com/matzehuels/starchart/pkg/sky"
//	)
//
//	obs := sky.Observer{Latitude: 36.85, Longitude: -75.98, Instant: t}
//	figs, _ := constellation.Builtin(constellation.SetConstellations)
//	scene, diag, err := sky.RenderStarChart(obs, catalog.Builtin().Entries(),
//	    []sky.EdgeSet{constellation.Flatten("constellations", figs)}, sky.ChartOptions{})
//	svg := sink.RenderSVG(scene)
//
// Most callers use [pipeline] instead, which adds geocoding, caching and
// multi-format rendering.
//
// [sky]: https://pkg.go.dev/github.com/matzehuels/starchart/pkg/sky
// [catalog]: https://pkg.go.dev/github.com/matzehuels/starchart/pkg/catalog
// [constellation]: https://pkg.go.dev/github.com/matzehuels/starchart/pkg/constellation
// [observer]: https://pkg.go.dev/github.com/matzehuels/starchart/pkg/observer
// [integrations]: https://pkg.go.dev/github.com/matzehuels/starchart/pkg/integrations
// [render]: https://pkg.go.dev/github.com/matzehuels/starchart/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/starchart/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/starchart/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/starchart/pkg/storage
// [config]: https://pkg.go.dev/github.com/matzehuels/starchart/pkg/config
package pkg
