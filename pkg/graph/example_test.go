package graph_test

import (
	"fmt"

	"github.com/matzehuels/sankeytimeline/pkg/graph"
	"github.com/matzehuels/sankeytimeline/pkg/layout"
	"github.com/matzehuels/sankeytimeline/pkg/timeline"
)

func ExampleFromResult() {
	tl := timeline.New()
	tl.CreateNode("fetch", timeline.Interval(0, 5))
	tl.CreateNode("build", timeline.Interval(5, 10))
	tl.CreateLink(timeline.NodeID(0), timeline.NodeID(1), 4)

	l := graph.FromResult(layout.Build(tl))
	fmt.Println(l.VizType, len(l.Nodes), "nodes")
	for _, n := range l.Nodes {
		fmt.Printf("%s x=[%g, %g]\n", n.Label, n.X, n.X1)
	}
	fmt.Println(l.Links[0].Path.Kind)
	// Output:
	// sankey 2 nodes
	// fetch x=[0, 400]
	// build x=[400, 800]
	// bezier
}
