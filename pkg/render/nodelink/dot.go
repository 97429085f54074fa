package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sankeytimeline/pkg/timeline"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds key times and size to node labels.
	// When false, only the label is shown.
	Detailed bool
}

// Colours of circular links by side.
const (
	colorTop    = "steelblue"
	colorBottom = "darkorange"
)

// ToDOT converts a timeline to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Nodes are keyed by id, so duplicate labels stay distinct. Nodes that are
// an endpoint of a circular link get a bold outline.
func ToDOT(tl *timeline.Timeline, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	for _, n := range tl.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
		if n.PartOfCircuit() {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	maxFlow := tl.MaxFlow()
	for _, l := range tl.Links() {
		fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", l.Source, l.Target, strings.Join(linkAttrs(l, maxFlow), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *timeline.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	start, end := n.KeyTimes()
	return fmt.Sprintf("%s\n[%g, %g]\nsize: %g", n.Label, start, end, n.Size())
}

func linkAttrs(l *timeline.Link, maxFlow float64) []string {
	attrs := []string{fmt.Sprintf("label=%q", strconv.FormatFloat(l.Flow, 'g', -1, 64))}
	if maxFlow > 0 {
		attrs = append(attrs, fmt.Sprintf("penwidth=%.2f", 1+3*l.Flow/maxFlow))
	}
	if l.Circular {
		color := colorTop
		if l.Side == timeline.SideBottom {
			color = colorBottom
		}
		attrs = append(attrs, "style=dashed", "constraint=false", fmt.Sprintf("color=%s", color), fmt.Sprintf("fontcolor=%s", color))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion.
func RenderSVG(dot string) ([]byte, error) {
	return RenderSVGContext(context.Background(), dot)
}

// RenderSVGContext is [RenderSVG] with an explicit context.
func RenderSVGContext(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one sized
// in user units.
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
