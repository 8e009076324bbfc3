// Package sky turns a star catalog into a render-ready star chart scene for
// an observer at a given place and instant.
//
// # Overview
//
// A chart is the sky above one observer, drawn as a disc. The package does
// the geometric work and nothing else: it never reads files, talks to the
// network or draws pixels. Catalog loading, geocoding and rasterisation live
// in sibling packages and feed plain values in and out of this one.
//
// The pipeline runs leaf first:
//
//  1. [BuildFrame] computes the observer's position and zenith direction.
//  2. [Project] maps catalog directions onto the tangent plane at the zenith
//     with a stereographic projection.
//  3. [FilterAndStyle] keeps stars at or below a limiting magnitude and sizes
//     their markers.
//  4. [Resolve] turns constellation figure edges into line segments.
//  5. [Assemble] composes boundary, markers and segment layers into a [Scene].
//
// [RenderStarChart] chains all five for the common case:
//
//	scene, diag, err := sky.RenderStarChart(obs, catalog, sets, sky.ChartOptions{
//	    MagnitudeLimit: 10,
//	    MaxMarkerSize:  8,
//	    FieldOfView:    180,
//	    Width:          1200,
//	    Height:         1200,
//	})
//
// # Projection
//
// A direction at angular distance θ from the zenith lands at planar radius
// tan(θ/2) / tan(fov/4), so the edge of the requested field of view falls on
// the unit circle. With the default 180° field of view the unit circle is the
// horizon. Azimuth around the zenith is preserved and east is drawn to the
// left, the way the sky looks when lying on your back with north up.
//
// A direction exactly opposite the zenith has no finite image. Such points
// are marked as excluded in the [Projection] and counted in [Diagnostics];
// they never surface as NaN coordinates.
//
// # Unresolved edges
//
// Catalogs and figure files come from independent sources and rarely match
// exactly. An edge that names a star missing from the coordinate map is
// dropped without error. This is deliberate: a partial overlap between the
// two sources is normal input, not a fault.
//
// # Clipping
//
// Nothing is filtered by position. Stars and segment endpoints outside the
// boundary stay in the scene so that sinks can clip them against the
// boundary circle, which keeps the visible part of a line that crosses the
// horizon.
//
// # Concurrency
//
// Every function is pure. Scenes and projections are plain values and may be
// built concurrently for independent observers.
package sky
