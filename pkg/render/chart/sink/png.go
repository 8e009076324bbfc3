package sink

import (
	"bytes"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/render"
	"github.com/matzehuels/starchart/pkg/sky"
)

var (
	titleFontOnce sync.Once
	titleFont     *truetype.Font
	titleFontErr  error
)

func titleFace(px float64) (font.Face, error) {
	titleFontOnce.Do(func() {
		titleFont, titleFontErr = truetype.Parse(goregular.TTF)
	})
	if titleFontErr != nil {
		return nil, titleFontErr
	}
	return truetype.NewFace(titleFont, &truetype.Options{Size: px}), nil
}

// RenderPNG rasterises the scene. The image is Width x Height pixels times
// the WithScale factor.
func RenderPNG(s sky.Scene, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	if o.rsvg {
		return render.ToPNG(RenderSVG(s, opts...), o.scale)
	}

	s = o.scene(s)
	s.Width = max(int(float64(s.Width)*o.scale+0.5), 1)
	s.Height = max(int(float64(s.Height)*o.scale+0.5), 1)
	st := o.style
	c := newCanvas(s, st)

	dc := gg.NewContext(s.Width, s.Height)

	dc.SetHexColor(st.Page)
	dc.Clear()

	dc.DrawCircle(c.cx, c.cy, c.r)
	dc.SetHexColor(st.SkyColor(s.Boundary.Fill))
	dc.Fill()

	dc.DrawCircle(c.cx, c.cy, c.r)
	dc.Clip()

	for _, m := range s.Markers {
		x, y := c.pt(m.Pos)
		dc.DrawCircle(x, y, c.markerRadius(m.Radius, o.minRadius))
	}
	dc.SetHexColor(st.MarkerColor(s.MarkerColor))
	dc.Fill()

	dc.SetLineCapRound()
	for _, l := range s.Layers {
		if len(l.Segments) == 0 {
			continue
		}
		for _, seg := range l.Segments {
			x1, y1 := c.pt(seg.P1)
			x2, y2 := c.pt(seg.P2)
			dc.DrawLine(x1, y1, x2, y2)
		}
		dc.SetHexColor(st.LineColor(l.Style.Color, l.Style.Overlay))
		dc.SetLineWidth(c.lineWidth(l.Style.Width))
		dc.Stroke()
	}
	dc.ResetClip()

	if st.Border != "" {
		dc.DrawCircle(c.cx, c.cy, c.r)
		dc.SetHexColor(st.Border)
		dc.SetLineWidth(max(c.ppp, 1))
		dc.Stroke()
	}

	if s.Title != "" {
		face, err := titleFace(c.fontPx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "load title font")
		}
		dc.SetFontFace(face)
		dc.SetHexColor(st.Title)
		dc.DrawStringAnchored(s.Title, c.titleX, c.titleY, 1, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}
