package graph

import (
	"github.com/matzehuels/sankeytimeline/pkg/layout"
	"github.com/matzehuels/sankeytimeline/pkg/path"
)

// =============================================================================
// Constants
// =============================================================================

// Visualization types.
const (
	VizTypeSankey   = "sankey"
	VizTypeNodelink = "nodelink"
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the serialization format for all visualizations.
//
//	Sankey ("sankey"):
//	  - Nodes, Links: positioned rectangles and link geometry
//	  - Rows: row -> node ids
//	  - ViewBox: extent of everything drawn, arcs included
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine (e.g., "dot")
type Layout struct {
	VizType string `json:"viz_type"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	RangeStart float64    `json:"range_start"`
	RangeEnd   float64    `json:"range_end"`
	MinTime    float64    `json:"min_time"`
	MaxTime    float64    `json:"max_time"`
	MaxFlow    float64    `json:"max_flow"`
	MaxSize    float64    `json:"max_size"`
	ViewBox    [4]float64 `json:"view_box"`

	DegenerateScale bool `json:"degenerate_scale,omitempty"`
	DegenerateFlow  bool `json:"degenerate_flow,omitempty"`

	Nodes []Node  `json:"nodes,omitempty"`
	Links []Link  `json:"links,omitempty"`
	Rows  [][]int `json:"rows,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty"`
	Engine string `json:"engine,omitempty"`
}

// IsSankey returns true if this is a Sankey layout.
func (l *Layout) IsSankey() bool { return l.VizType == VizTypeSankey }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// Node is one positioned node.
type Node struct {
	ID            int     `json:"id"`
	Label         string  `json:"label"`
	Row           int     `json:"row"`
	X             float64 `json:"x"`
	X1            float64 `json:"x1"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Size          float64 `json:"size"`
	PartOfCircuit bool    `json:"part_of_circuit,omitempty"`
	Shift         float64 `json:"shift,omitempty"`
}

// Link is one link with its geometry. D is the SVG path data of Path.
type Link struct {
	ID       int       `json:"id"`
	Source   int       `json:"source"`
	Target   int       `json:"target"`
	Flow     float64   `json:"flow"`
	Circular bool      `json:"circular,omitempty"`
	Side     string    `json:"side,omitempty"`
	Width    float64   `json:"width"`
	Y0       float64   `json:"y0"`
	Y1       float64   `json:"y1"`
	D        string    `json:"d"`
	Path     path.Path `json:"path"`
}

// =============================================================================
// Result -> Layout Conversion
// =============================================================================

// FromResult converts a computed layout into its serialization format.
func FromResult(r layout.Result) Layout {
	b := r.Bounds()
	out := Layout{
		VizType:         VizTypeSankey,
		Width:           r.RangeEnd - r.RangeStart,
		Height:          r.Height,
		RangeStart:      r.RangeStart,
		RangeEnd:        r.RangeEnd,
		MinTime:         r.MinTime,
		MaxTime:         r.MaxTime,
		MaxFlow:         r.MaxFlow,
		MaxSize:         r.MaxSize,
		ViewBox:         [4]float64{b.MinX, b.MinY, b.MaxX - b.MinX, b.MaxY - b.MinY},
		DegenerateScale: r.DegenerateScale,
		DegenerateFlow:  r.DegenerateFlow,
		Nodes:           make([]Node, len(r.Nodes)),
		Links:           make([]Link, len(r.Links)),
	}

	for i, n := range r.Nodes {
		out.Nodes[i] = Node{
			ID: n.ID, Label: n.Label, Row: n.Row,
			X: n.X, X1: n.X1, Y: n.Y,
			Width: n.Width, Height: n.Height, Size: n.Size,
			PartOfCircuit: n.PartOfCircuit,
			Shift:         n.Shift,
		}
		for len(out.Rows) <= n.Row {
			out.Rows = append(out.Rows, nil)
		}
		out.Rows[n.Row] = append(out.Rows[n.Row], n.ID)
	}

	for i, l := range r.Links {
		link := Link{
			ID: l.ID, Source: l.Source, Target: l.Target,
			Flow: l.Flow, Circular: l.Circular,
			Width: l.Width, Y0: l.Y0, Y1: l.Y1,
			D:    l.Path.D(),
			Path: l.Path,
		}
		if l.Circular {
			link.Side = l.Side.String()
		}
		out.Links[i] = link
	}
	return out
}
