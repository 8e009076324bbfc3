// Package constellation reads constellation figure files and turns them into
// edge sets for chart rendering.
//
// Figure files use the Stellarium constellationship.fab layout: one figure
// per line, an abbreviation, a pair count, then that many pairs of Hipparcos
// numbers. Blank lines and lines starting with '#' are ignored.
//
//	Ori 2 27989 25336 25336 25930
//
// Two figure files are embedded: [SetConstellations] with a handful of
// well known northern figures and [SetAsterisms] with the seasonal
// triangles. Both only reference stars of the built-in catalog.
//
// [ToDOT] and [RenderSVG] export figures as a Graphviz graph, which is handy
// for checking a hand written figure file.
package constellation
