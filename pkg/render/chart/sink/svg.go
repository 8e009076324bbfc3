package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/starchart/pkg/sky"
)

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(s sky.Scene, opts ...Option) []byte {
	o := newOptions(opts...)
	s = o.scene(s)
	st := o.style
	c := newCanvas(s, st)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", st.Page)
	fmt.Fprintf(&buf, `  <defs><clipPath id="horizon"><circle cx="%.2f" cy="%.2f" r="%.2f"/></clipPath></defs>`+"\n", c.cx, c.cy, c.r)

	fmt.Fprintf(&buf, `  <circle class="sky" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"`, c.cx, c.cy, c.r, st.SkyColor(s.Boundary.Fill))
	if st.Border != "" {
		fmt.Fprintf(&buf, ` stroke="%s" stroke-width="%.2f"`, st.Border, max(c.ppp, 1))
	}
	buf.WriteString("/>\n")

	fmt.Fprintf(&buf, `  <g class="stars" clip-path="url(#horizon)" fill="%s">`+"\n", st.MarkerColor(s.MarkerColor))
	for _, m := range s.Markers {
		x, y := c.pt(m.Pos)
		fmt.Fprintf(&buf, `    <circle cx="%.2f" cy="%.2f" r="%.3f" data-hip="%d"/>`+"\n", x, y, c.markerRadius(m.Radius, o.minRadius), m.ID)
	}
	buf.WriteString("  </g>\n")

	for _, l := range s.Layers {
		fmt.Fprintf(&buf, `  <g class="layer" data-name="%s" clip-path="url(#horizon)" stroke="%s" stroke-width="%.3f" stroke-linecap="round" fill="none">`+"\n",
			html.EscapeString(l.Name), st.LineColor(l.Style.Color, l.Style.Overlay), c.lineWidth(l.Style.Width))
		for _, seg := range l.Segments {
			x1, y1 := c.pt(seg.P1)
			x2, y2 := c.pt(seg.P2)
			fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", x1, y1, x2, y2)
		}
		buf.WriteString("  </g>\n")
	}

	if s.Title != "" {
		fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" text-anchor="end" dominant-baseline="middle" font-family="%s" font-size="%.2f" fill="%s">%s</text>`+"\n",
			c.titleX, c.titleY, html.EscapeString(st.FontFamily), c.fontPx, st.Title, html.EscapeString(s.Title))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
