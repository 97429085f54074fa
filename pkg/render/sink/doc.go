// Package sink draws a computed Sankey timeline as SVG.
//
// # Overview
//
// [RenderSVG] takes a [layout.Result] and writes node rectangles and link
// paths straight from the layout geometry. Ordinary links are stroked cubic
// curves as wide as their flow; circular links are stroked arc paths drawn
// in the colour of their side. The view box covers [layout.Result.Bounds]
// plus a margin, so arcs that swing above or below the timeline stay
// visible.
//
//	svg := sink.RenderSVG(res, sink.WithMargin(30))
//
// # SVG Options
//
//   - [WithMargin]: padding around the drawn bounds
//   - [WithoutLabels]: omit node labels
//   - [WithPalette]: node fill colours, cycled by node id
//
// Hovering a node highlights its links; the behaviour is a small inline
// script, so the output works as a standalone file.
//
// [layout.Result]: github.com/matzehuels/sankeytimeline/pkg/layout.Result
// [layout.Result.Bounds]: github.com/matzehuels/sankeytimeline/pkg/layout.Result.Bounds
package sink
