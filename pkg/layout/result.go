package layout

import (
	"github.com/matzehuels/sankeytimeline/pkg/geom"
	"github.com/matzehuels/sankeytimeline/pkg/path"
	"github.com/matzehuels/sankeytimeline/pkg/timeline"
)

// NodeBox is the resolved rectangle of a node.
type NodeBox struct {
	ID            int
	Label         string
	Row           int
	X, X1         float64
	Y             float64
	Width         float64
	Height        float64
	Size          float64
	PartOfCircuit bool
	Shift         float64 // node/link overlap shift applied in this run
}

// Bottom returns the lower edge of the node.
func (n NodeBox) Bottom() float64 { return n.Y + n.Height }

// Rect returns the node's rectangle.
func (n NodeBox) Rect() geom.Rect { return geom.Rect{MinX: n.X, MinY: n.Y, MaxX: n.X1, MaxY: n.Bottom()} }

func (n NodeBox) box() path.Box { return path.Box{X: n.X, X1: n.X1, Y: n.Y, Height: n.Height} }

// LinkPath is the resolved geometry of a link.
type LinkPath struct {
	ID       int
	Source   int
	Target   int
	Flow     float64
	Circular bool
	Side     timeline.Side
	Width    float64
	Y0, Y1   float64 // anchors on the source and target edges
	Path     path.Path
}

// Result is one immutable layout of a timeline.
type Result struct {
	Nodes []NodeBox
	Links []LinkPath

	MinTime, MaxTime float64
	MaxFlow, MaxSize float64
	RangeStart       float64
	RangeEnd         float64
	Height           float64

	// DegenerateScale is set when all key times coincide (or there are no
	// nodes) and every x collapsed to RangeStart.
	DegenerateScale bool
	// DegenerateFlow is set when no link carries positive flow and every
	// link got the base width.
	DegenerateFlow bool
}

// Bounds covers every node rectangle and link path. Circular arcs can reach
// above y=0 or below Height.
func (r Result) Bounds() geom.Rect {
	b := geom.Empty
	for _, n := range r.Nodes {
		b = b.Union(n.Rect())
	}
	for _, l := range r.Links {
		b = b.Union(l.Path.Bounds())
	}
	if b == geom.Empty {
		return geom.Rect{}
	}
	return b
}

// Node returns the box of the node with the given id.
func (r Result) Node(id int) (NodeBox, bool) {
	if id < 0 || id >= len(r.Nodes) {
		return NodeBox{}, false
	}
	return r.Nodes[id], true
}
