// Package nodelink renders the flow topology of a timeline as a node-link
// diagram.
//
// # Overview
//
// The diagram ignores time: nodes are boxes ranked by Graphviz and links are
// arrows labelled with their flow. Circular links are dashed and coloured by
// the side the classifier routed them around, and they do not constrain the
// ranking, so the ordinary links read left to right.
//
// # Usage
//
//	dot := nodelink.ToDOT(tl, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, pass the SVG to [render.Convert].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
//
// [render.Convert]: github.com/matzehuels/sankeytimeline/pkg/render.Convert
package nodelink
