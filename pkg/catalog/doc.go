// Package catalog loads star catalogs into [sky.CatalogEntry] slices.
//
// Three sources are supported:
//
//   - [FormatHipparcos]: the ESA Hipparcos main catalogue (hip_main.dat),
//     pipe separated and optionally gzip compressed. Rows without an ICRS
//     position are skipped. A row with no V magnitude is kept with a NaN
//     magnitude so that constellation edges can still reach it while the
//     marker filter drops it.
//   - [FormatCSV]: a header-led CSV with id, ra_deg, dec_deg and mag columns
//     and an optional name column.
//   - [FormatBuiltin]: a small embedded table of bright naked-eye stars keyed
//     by Hipparcos number, matching the built-in constellation figures.
//
// Catalog identifiers are Hipparcos numbers throughout, which is what
// Stellarium figure files reference.
//
// # Remote data
//
// [Fetcher] downloads hip_main.dat through [integrations.Client], so repeated
// runs hit the response cache instead of the CDS mirror.
package catalog
