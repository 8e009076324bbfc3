package sky

import (
	"testing"
	"time"

	"github.com/matzehuels/starchart/pkg/errors"
)

func TestAssembleLayerOrder(t *testing.T) {
	layers := []Layer{
		{Name: "cam", Style: LineStyle{Overlay: true}},
		{Name: "modern"},
		{Name: "zodiac", Style: LineStyle{Overlay: true}},
		{Name: "asterisms"},
	}

	scene, err := Assemble(nil, layers, SceneConfig{Width: 100, Height: 80})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	want := []string{"modern", "asterisms", "cam", "zodiac"}
	for i, l := range scene.Layers {
		if l.Name != want[i] {
			t.Errorf("Layers[%d] = %s, want %s", i, l.Name, want[i])
		}
	}
	if layers[0].Name != "cam" {
		t.Error("Assemble reordered the caller's slice")
	}
}

func TestAssembleDefaults(t *testing.T) {
	scene, err := Assemble(nil, nil, SceneConfig{Width: 1200, Height: 900, Title: "t"})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if scene.Boundary.Radius != DefaultBoundaryRadius {
		t.Errorf("Boundary.Radius = %v, want %v", scene.Boundary.Radius, DefaultBoundaryRadius)
	}
	if scene.Boundary.Fill != DefaultBackground {
		t.Errorf("Boundary.Fill = %v, want %v", scene.Boundary.Fill, DefaultBackground)
	}
	if scene.MarkerColor != DefaultMarkerColor {
		t.Errorf("MarkerColor = %v, want %v", scene.MarkerColor, DefaultMarkerColor)
	}
	if scene.Markers == nil || scene.Layers == nil {
		t.Error("Markers/Layers should be empty, not nil")
	}
	if got, want := scene.PixelsPerPoint(), 900.0/ChartPoints; got != want {
		t.Errorf("PixelsPerPoint() = %v, want %v", got, want)
	}
}

func TestAssembleInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  SceneConfig
	}{
		{"zero width", SceneConfig{Width: 0, Height: 10}},
		{"negative height", SceneConfig{Width: 10, Height: -1}},
		{"negative radius", SceneConfig{Width: 10, Height: 10, BoundaryRadius: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Assemble(nil, nil, tt.cfg); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Assemble() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestFormatTitle(t *testing.T) {
	loc := time.FixedZone("EDT", -4*3600)
	got := FormatTitle("Virginia Beach, VA", time.Date(2021, 5, 17, 0, 0, 30, 0, loc))
	want := "Observation Location: Virginia Beach, VA, Time: 2021-05-17 00:00"
	if got != want {
		t.Errorf("FormatTitle() = %q, want %q", got, want)
	}
}
