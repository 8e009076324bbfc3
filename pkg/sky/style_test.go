package sky

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/starchart/pkg/errors"
)

func TestMarkerRadius(t *testing.T) {
	tests := []struct {
		mag, max, want float64
	}{
		{0, 8, 8},
		{2.5, 8, 0.8},
		{5, 8, 0.08},
		{-2.5, 1, 10},
		{10, 500, 500e-4},
	}
	for _, tt := range tests {
		if got := MarkerRadius(tt.mag, tt.max); !approx(got, tt.want, 1e-12*tt.want+1e-15) {
			t.Errorf("MarkerRadius(%v, %v) = %v, want %v", tt.mag, tt.max, got, tt.want)
		}
	}
}

func TestMarkerRadiusMonotone(t *testing.T) {
	prev := math.Inf(1)
	for mag := -1.5; mag <= 12; mag += 0.25 {
		r := MarkerRadius(mag, 8)
		if r <= 0 {
			t.Fatalf("MarkerRadius(%v) = %v, want > 0", mag, r)
		}
		if r >= prev {
			t.Errorf("MarkerRadius(%v) = %v, not below %v", mag, r, prev)
		}
		prev = r
	}
	if MarkerRadius(0, 8) <= MarkerRadius(5, 8) {
		t.Error("magnitude 0 marker not larger than magnitude 5")
	}
}

func TestFilterAndStyle(t *testing.T) {
	entries := []CatalogEntry{
		{ID: 1, Magnitude: -1.46},
		{ID: 2, Magnitude: 10}, // exactly at the limit
		{ID: 3, Magnitude: 10.01},
		{ID: 4, Magnitude: math.NaN()},
		{ID: 5, Magnitude: math.Inf(-1)},
		{ID: 6, Magnitude: 3}, // excluded projection
		{ID: 7, Magnitude: 6.5},
	}
	proj := Projection{
		Points: []Point{{0.1, 0.2}, {0.3, 0.4}, {0.5, 0.6}, {0, 0}, {0, 0}, {0, 0}, {-0.7, 0.1}},
		OK:     []bool{true, true, true, true, true, false, true},
	}

	markers, err := FilterAndStyle(entries, proj, 10, 8)
	if err != nil {
		t.Fatalf("FilterAndStyle() error = %v", err)
	}

	var ids []int
	for _, m := range markers {
		ids = append(ids, m.ID)
		if m.Magnitude > 10 {
			t.Errorf("marker %d magnitude %v above limit", m.ID, m.Magnitude)
		}
	}
	if got, want := fmt.Sprint(ids), "[1 2 7]"; got != want {
		t.Errorf("marker ids = %s, want %s", got, want)
	}
	if markers[1].Pos != (Point{0.3, 0.4}) {
		t.Errorf("marker 2 pos = %+v, want {0.3 0.4}", markers[1].Pos)
	}
	if got, want := markers[0].Radius, MarkerRadius(-1.46, 8); got != want {
		t.Errorf("marker 1 radius = %v, want %v", got, want)
	}
}

func TestFilterAndStyleLimitBoundary(t *testing.T) {
	entries := []CatalogEntry{{ID: 1, Magnitude: 4.5}}
	proj := Projection{Points: []Point{{}}, OK: []bool{true}}

	tests := []struct {
		limit float64
		want  int
	}{
		{4.5, 1},
		{4.49, 0},
		{4.51, 1},
	}
	for _, tt := range tests {
		markers, err := FilterAndStyle(entries, proj, tt.limit, 1)
		if err != nil {
			t.Fatalf("FilterAndStyle() error = %v", err)
		}
		if len(markers) != tt.want {
			t.Errorf("limit %v: %d markers, want %d", tt.limit, len(markers), tt.want)
		}
	}
}

func TestFilterAndStyleRejectsNonFiniteOptions(t *testing.T) {
	entries := []CatalogEntry{{ID: 1, Magnitude: 1}}
	proj := Projection{Points: []Point{{}}, OK: []bool{true}}

	tests := []struct {
		name          string
		limit, marker float64
	}{
		{"NaN limit", math.NaN(), 1},
		{"NaN marker size", 10, math.NaN()},
		{"infinite marker size", 10, math.Inf(1)},
		{"negative marker size", 10, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FilterAndStyle(entries, proj, tt.limit, tt.marker)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("FilterAndStyle() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestFilterAndStyleLengthMismatch(t *testing.T) {
	_, err := FilterAndStyle([]CatalogEntry{{ID: 1}}, Projection{}, 10, 1)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("FilterAndStyle() error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func ExampleMarkerRadius() {
	for _, mag := range []float64{0, 2.5, 5} {
		fmt.Printf("mag %.1f -> %.2f\n", mag, MarkerRadius(mag, 8))
	}
	// Output:
	// mag 0.0 -> 8.00
	// mag 2.5 -> 0.80
	// mag 5.0 -> 0.08
}
