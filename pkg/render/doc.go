// Package render turns computed timeline layouts into pictures.
//
// # Format Conversion
//
// [Convert] turns any SVG into PDF or PNG with the external rsvg-convert tool
// (from librsvg). Both renderers below produce SVG first.
//
//	svg := sankey.RenderSVG(res)
//	pdf, err := render.Convert(svg, render.FormatPDF, 1)
//	png, err := render.Convert(svg, render.FormatPNG, 2)  // 2x scale
//
// # Sankey Timelines
//
// The [sankey] subpackage draws a [layout.Result] directly: node rectangles
// on the time axis and every link as a stroked path of its flow width.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the bare flow topology with Graphviz,
// circular links dashed. It is a debugging view of what the cycle classifier
// decided, independent of the timeline geometry.
//
// [sankey]: github.com/matzehuels/sankeytimeline/pkg/render/sankey
// [nodelink]: github.com/matzehuels/sankeytimeline/pkg/render/nodelink
// [layout.Result]: github.com/matzehuels/sankeytimeline/pkg/layout.Result
package render
