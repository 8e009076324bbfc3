package sink

import (
	"github.com/matzehuels/starchart/pkg/render"
	"github.com/matzehuels/starchart/pkg/sky"
)

// RenderPDF renders the scene as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(s sky.Scene, opts ...Option) ([]byte, error) {
	return render.ToPDF(RenderSVG(s, opts...))
}
