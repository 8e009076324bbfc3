package sky

import (
	"math"

	"github.com/matzehuels/starchart/pkg/errors"
)

// CatalogEntry is one star. ID is the join key for constellation edges.
type CatalogEntry struct {
	ID        int
	Dir       Direction
	Magnitude float64
}

// Marker is a star that passed the magnitude filter.
type Marker struct {
	ID        int     `json:"id"`
	Pos       Point   `json:"pos"`
	Radius    float64 `json:"radius"` // points
	Magnitude float64 `json:"magnitude"`
}

// MarkerRadius sizes a star marker from its apparent magnitude:
// maxMarkerSize * 10^(magnitude / -2.5). Magnitude 0 gets exactly
// maxMarkerSize; every 2.5 magnitudes fainter divides it by ten.
func MarkerRadius(magnitude, maxMarkerSize float64) float64 {
	return maxMarkerSize * math.Pow(10, magnitude/-2.5)
}

// FilterAndStyle keeps entries with magnitude <= magLimit and sizes their
// markers. Entries with a non-finite magnitude or an excluded projection are
// dropped. proj must be parallel to entries.
func FilterAndStyle(entries []CatalogEntry, proj Projection, magLimit, maxMarkerSize float64) ([]Marker, error) {
	if len(entries) != proj.Len() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"catalog has %d entries but projection has %d points", len(entries), proj.Len())
	}
	if math.IsNaN(magLimit) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "magnitude limit is NaN")
	}
	if math.IsNaN(maxMarkerSize) || math.IsInf(maxMarkerSize, 0) || maxMarkerSize < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "max marker size %v must be finite and not negative", maxMarkerSize)
	}

	markers := make([]Marker, 0, len(entries))
	for i, e := range entries {
		if math.IsNaN(e.Magnitude) || math.IsInf(e.Magnitude, 0) {
			continue
		}
		if e.Magnitude > magLimit {
			continue
		}
		pt, ok := proj.At(i)
		if !ok {
			continue
		}
		markers = append(markers, Marker{
			ID:        e.ID,
			Pos:       pt,
			Radius:    MarkerRadius(e.Magnitude, maxMarkerSize),
			Magnitude: e.Magnitude,
		})
	}
	return markers, nil
}
