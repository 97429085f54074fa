// Package graph provides the serialization format for computed timeline
// layouts.
//
// A [Layout] is the wire document handed to renderers outside this module:
// node rectangles, link geometry (both structured and as SVG path data) and
// the scale metadata of the run. It is a snapshot; nothing in it points back
// into the live [timeline.Timeline].
//
// # Layout Serialization
//
// Layouts are discriminated by VizType:
//
//	l := graph.FromResult(res)            // layout.Result -> Layout
//	data, _ := graph.MarshalLayout(l)     // Layout -> []byte
//	graph.WriteLayoutFile(l, "out.json")  // Layout -> file
//	l, _ = graph.ReadLayoutFile("out.json")
//
//	if l.IsNodelink() {
//	    // Use l.DOT for Graphviz rendering
//	}
//
// A Sankey layout always carries node rectangles; a node-link layout carries
// the DOT source of the flow topology instead.
//
// # Document Shape
//
//	{
//	  "viz_type": "sankey",
//	  "width": 800, "height": 600,
//	  "nodes": [{"id": 0, "label": "fetch", "row": 0, "x": 0, "x1": 200, ...}],
//	  "links": [{"id": 0, "source": 0, "target": 1, "d": "M200,50 C...", ...}]
//	}
//
// [timeline.Timeline]: github.com/matzehuels/sankeytimeline/pkg/timeline.Timeline
package graph
