package constellation

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/starchart/pkg/errors"
)

// DOTOptions configures figure graph export.
type DOTOptions struct {
	// Name labels a node; nil or an empty result falls back to "HIP <id>".
	Name func(id int) string
	// Missing marks nodes whose star is absent from the catalog.
	Missing map[int]bool
}

// ToDOT converts figures to an undirected Graphviz graph with one cluster
// per figure.
func ToDOT(figs []Figure, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph figures {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#041A40\", fontcolor=white, fontsize=10];\n")
	buf.WriteString("  edge [color=\"#888888\"];\n")

	declared := make(map[int]bool)
	for i, f := range figs {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", f.Abbr)
		for _, id := range Stars([]Figure{f}) {
			if declared[id] {
				continue
			}
			declared[id] = true
			attrs := fmt.Sprintf("label=%q", nodeLabel(id, opts.Name))
			if opts.Missing[id] {
				attrs += ", style=\"filled,dashed\", fillcolor=lightgrey, fontcolor=black"
			}
			fmt.Fprintf(&buf, "    \"%d\" [%s];\n", id, attrs)
		}
		for _, e := range f.Edges {
			fmt.Fprintf(&buf, "    \"%d\" -- \"%d\";\n", e.From, e.To)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(id int, name func(int) string) string {
	if name != nil {
		if n := name(id); n != "" {
			return n
		}
	}
	return "HIP " + strconv.Itoa(id)
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFigures, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render figures")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel viewBox so the SVG scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
