package sink

import (
	"bytes"
	"math"
	"strings"

	"github.com/matzehuels/starchart/pkg/sky"
)

// DefaultTextColumns is the default preview width in characters.
const DefaultTextColumns = 72

// Terminal cells are about twice as tall as they are wide.
const cellAspect = 2.0

const (
	cellEmpty   = ' '
	cellHorizon = '.'
	cellLine    = ':'
)

// starGlyph picks a character by brightness.
func starGlyph(mag float64) byte {
	switch {
	case mag < 1:
		return '@'
	case mag < 2:
		return 'O'
	case mag < 3:
		return 'o'
	case mag < 4:
		return '+'
	default:
		return '\''
	}
}

// RenderText draws a character-cell preview of the scene: the horizon as
// dots, lines as colons and stars by brightness from '@' down to an apostrophe.
// Colours and the style are ignored.
func RenderText(s sky.Scene, opts ...Option) []byte {
	o := newOptions(opts...)
	cols := o.cols
	rows := max(int(float64(cols)/cellAspect+0.5), 1)

	grid := make([][]byte, rows)
	for i := range grid {
		grid[i] = bytes.Repeat([]byte{cellEmpty}, cols)
	}

	radius := s.Boundary.Radius
	toCell := func(p sky.Point) (int, int, bool) {
		cx := int(math.Floor((p.X/radius + 1) / 2 * float64(cols)))
		cy := int(math.Floor((1 - p.Y/radius) / 2 * float64(rows)))
		if cx < 0 || cx >= cols || cy < 0 || cy >= rows {
			return 0, 0, false
		}
		return cx, cy, true
	}
	inside := func(p sky.Point) bool { return p.Radius() <= radius }

	steps := 4 * (cols + rows)
	for i := range steps {
		a := 2 * math.Pi * float64(i) / float64(steps)
		if x, y, ok := toCell(sky.Point{X: radius * math.Cos(a), Y: radius * math.Sin(a)}); ok {
			grid[y][x] = cellHorizon
		}
	}

	for _, l := range s.Layers {
		for _, seg := range l.Segments {
			n := max(int(math.Ceil(math.Hypot(seg.P2.X-seg.P1.X, seg.P2.Y-seg.P1.Y)/radius*float64(cols))), 1)
			for i := 0; i <= n; i++ {
				t := float64(i) / float64(n)
				p := sky.Point{X: seg.P1.X + t*(seg.P2.X-seg.P1.X), Y: seg.P1.Y + t*(seg.P2.Y-seg.P1.Y)}
				if !inside(p) {
					continue
				}
				if x, y, ok := toCell(p); ok {
					grid[y][x] = cellLine
				}
			}
		}
	}

	// Brighter stars win shared cells.
	best := make(map[[2]int]float64)
	for _, m := range s.Markers {
		if !inside(m.Pos) {
			continue
		}
		x, y, ok := toCell(m.Pos)
		if !ok {
			continue
		}
		k := [2]int{x, y}
		if prev, seen := best[k]; seen && prev <= m.Magnitude {
			continue
		}
		best[k] = m.Magnitude
		grid[y][x] = starGlyph(m.Magnitude)
	}

	var buf bytes.Buffer
	if t := o.scene(s).Title; t != "" {
		buf.WriteString(t)
		buf.WriteByte('\n')
	}
	for _, row := range grid {
		buf.WriteString(strings.TrimRight(string(row), " "))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
