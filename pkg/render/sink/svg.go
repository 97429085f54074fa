package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/sankeytimeline/pkg/layout"
	"github.com/matzehuels/sankeytimeline/pkg/path"
	"github.com/matzehuels/sankeytimeline/pkg/timeline"
)

const linkInteractionCSS = `
    .link { fill: none; stroke-opacity: 0.45; transition: stroke-opacity 0.2s ease; }
    .link.highlight { stroke-opacity: 0.85; }
    .node { stroke: #333; stroke-width: 1; }
    .node-text { font-family: sans-serif; fill: #222; pointer-events: none; }`

const linkInteractionJS = `
    function highlight(id) {
      document.querySelectorAll('.link').forEach(l => l.classList.toggle('highlight', l.dataset.source === id || l.dataset.target === id));
    }
    function clearHighlight() {
      document.querySelectorAll('.link').forEach(l => l.classList.remove('highlight'));
    }
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.dataset.node));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// DefaultPalette is the node fill palette.
var DefaultPalette = []string{"#4e79a7", "#59a14f", "#9c755f", "#b07aa1", "#76b7b2", "#edc948", "#e15759", "#bab0ac"}

const (
	defaultMargin = 20.0
	linkColor     = "#8c8c8c"
	topColor      = "#4682b4"
	bottomColor   = "#ff8c00"

	fontSizeMin    = 8.0
	fontSizeMax    = 16.0
	fontHeightRate = 0.6
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin  float64
	labels  bool
	palette []string
}

func WithMargin(m float64) SVGOption {
	return func(r *svgRenderer) {
		if m >= 0 {
			r.margin = m
		}
	}
}
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }
func WithPalette(colors ...string) SVGOption {
	return func(r *svgRenderer) {
		if len(colors) > 0 {
			r.palette = colors
		}
	}
}

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(res layout.Result, opts ...SVGOption) []byte {
	r := svgRenderer{margin: defaultMargin, labels: true, palette: DefaultPalette}
	for _, opt := range opts {
		opt(&r)
	}

	x, y, w, h := viewBox(res, r.margin)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(x), num(y), num(w), num(h), w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", linkInteractionCSS)

	buf.WriteString("  <g class=\"links\">\n")
	for _, l := range res.Links {
		renderLink(&buf, res, l)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"nodes\">\n")
	for _, n := range res.Nodes {
		r.renderNode(&buf, n)
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", linkInteractionJS)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func viewBox(res layout.Result, margin float64) (x, y, w, h float64) {
	b := res.Bounds()
	if len(res.Nodes) == 0 {
		b.MinX, b.MinY, b.MaxX, b.MaxY = res.RangeStart, 0, res.RangeEnd, res.Height
	}
	return b.MinX - margin, b.MinY - margin, b.MaxX - b.MinX + 2*margin, b.MaxY - b.MinY + 2*margin
}

func renderLink(buf *bytes.Buffer, res layout.Result, l layout.LinkPath) {
	class, color := "link", linkColor
	if l.Circular {
		class, color = "link circular "+l.Side.String(), sideColor(l.Side)
	}
	fmt.Fprintf(buf, `    <path id="link-%d" class="%s" data-source="%d" data-target="%d" d="%s" stroke="%s" stroke-width="%s">`,
		l.ID, class, l.Source, l.Target, l.Path.D(), color, num(l.Width))
	fmt.Fprintf(buf, "<title>%s</title></path>\n", escapeXML(linkTitle(res, l)))
}

func linkTitle(res layout.Result, l layout.LinkPath) string {
	src, _ := res.Node(l.Source)
	tgt, _ := res.Node(l.Target)
	title := fmt.Sprintf("%s → %s: %g", src.Label, tgt.Label, l.Flow)
	if l.Path.Kind != path.KindBezier {
		title += " (" + l.Path.Kind.String() + ")"
	}
	return title
}

func sideColor(s timeline.Side) string {
	if s == timeline.SideBottom {
		return bottomColor
	}
	return topColor
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n layout.NodeBox) {
	fill := r.palette[n.ID%len(r.palette)]
	fmt.Fprintf(buf, `    <rect id="node-%d" class="node" data-node="%d" x="%s" y="%s" width="%s" height="%s" rx="2" fill="%s">`,
		n.ID, n.ID, num(n.X), num(n.Y), num(max(n.Width, 1)), num(n.Height), fill)
	fmt.Fprintf(buf, "<title>%s</title></rect>\n", escapeXML(n.Label))
	if !r.labels || n.Label == "" {
		return
	}
	fmt.Fprintf(buf, `    <text class="node-text" x="%s" y="%s" font-size="%s" dominant-baseline="middle">%s</text>`+"\n",
		num(n.X+4), num(n.Y+n.Height/2), num(fontSize(n.Height)), escapeXML(n.Label))
}

func fontSize(height float64) float64 {
	return max(fontSizeMin, min(fontSizeMax, height*fontHeightRate))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func num(v float64) string { return fmt.Sprintf("%.2f", v) }
