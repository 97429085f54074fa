package timeline

import (
	"math"
	"slices"

	"github.com/matzehuels/sankeytimeline/pkg/errors"
)

// Default pixel range that time is mapped onto.
const (
	DefaultRangeStart = 0
	DefaultRangeEnd   = 800
)

// Side is the arc side a circular link is routed on.
type Side int

const (
	SideNone Side = iota
	SideTop
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Node is a vertex of the timeline. Nodes returned by a [Timeline] point into
// its arena and must be treated as read-only.
type Node struct {
	ID    int
	Label string
	Times TimeSpec // normalized

	incoming []int
	outgoing []int
	inFlow   float64
	outFlow  float64

	adjustment float64
	side       Side // side of the most recent circular link at this node
	circular   int  // circular links touching this node
}

// KeyTimes returns the node's effective [start, end].
func (n *Node) KeyTimes() (start, end float64) { return n.Times.KeyTimes() }

// Size is max(Σ incoming flow, Σ outgoing flow); 0 for a linkless node.
func (n *Node) Size() float64 { return max(n.inFlow, n.outFlow) }

// Incoming returns the ids of links into the node in insertion order.
func (n *Node) Incoming() []int { return slices.Clone(n.incoming) }

// Outgoing returns the ids of links out of the node in insertion order.
func (n *Node) Outgoing() []int { return slices.Clone(n.outgoing) }

// Adjustment returns the accumulated vertical offset from incremental layout.
func (n *Node) Adjustment() float64 { return n.adjustment }

// Side returns the arc side of the most recent circular link at the node, or
// SideNone.
func (n *Node) Side() Side { return n.side }

// PartOfCircuit reports whether the node is an endpoint of a circular link.
func (n *Node) PartOfCircuit() bool { return n.circular > 0 }

// Link is a weighted directed flow between two nodes. Circular and Side are
// fixed when the link is created.
type Link struct {
	ID       int
	Source   int
	Target   int
	Flow     float64
	Circular bool
	Side     Side
}

// SelfLoop reports whether the link starts and ends at the same node.
func (l *Link) SelfLoop() bool { return l.Source == l.Target }

// Timeline is the container that owns nodes and links.
//
// The zero value is not usable; create one with [New]. A Timeline is not safe
// for concurrent use.
type Timeline struct {
	nodes   []*Node
	links   []*Link
	byLabel map[string]int

	rangeStart float64
	rangeEnd   float64

	topCount    int
	bottomCount int
}

// New creates an empty timeline with the default pixel range.
func New() *Timeline {
	return &Timeline{
		byLabel:    make(map[string]int),
		rangeStart: DefaultRangeStart,
		rangeEnd:   DefaultRangeEnd,
	}
}

// CreateNode appends a node and returns it. The time spec is normalized;
// malformed input degrades rather than failing.
func (t *Timeline) CreateNode(label string, ts TimeSpec) *Node {
	n := &Node{ID: len(t.nodes), Label: label, Times: ts.Normalize()}
	t.nodes = append(t.nodes, n)
	if _, ok := t.byLabel[label]; !ok {
		t.byLabel[label] = n.ID
	}
	return n
}

// CreateLink connects two existing nodes and classifies the new link.
// Negative or NaN flow is treated as 0. If either endpoint does not resolve
// the call fails with UNKNOWN_REFERENCE and nothing is modified.
func (t *Timeline) CreateLink(source, target Ref, flow float64) (*Link, error) {
	src, ok := source.resolve(t)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownReference, "link source %s does not exist", describe(source))
	}
	tgt, ok := target.resolve(t)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownReference, "link target %s does not exist", describe(target))
	}
	if math.IsNaN(flow) || flow < 0 {
		flow = 0
	}

	l := &Link{ID: len(t.links), Source: src, Target: tgt, Flow: flow}
	t.links = append(t.links, l)

	s, d := t.nodes[src], t.nodes[tgt]
	s.outgoing = append(s.outgoing, l.ID)
	s.outFlow += flow
	d.incoming = append(d.incoming, l.ID)
	d.inFlow += flow

	t.classify(l)
	return l, nil
}

// Node returns the node with the given id.
func (t *Timeline) Node(id int) (*Node, bool) {
	if id < 0 || id >= len(t.nodes) {
		return nil, false
	}
	return t.nodes[id], true
}

// NodeByLabel returns the first node created with the label.
func (t *Timeline) NodeByLabel(label string) (*Node, bool) {
	id, ok := t.byLabel[label]
	if !ok {
		return nil, false
	}
	return t.nodes[id], true
}

// Link returns the link with the given id.
func (t *Timeline) Link(id int) (*Link, bool) {
	if id < 0 || id >= len(t.links) {
		return nil, false
	}
	return t.links[id], true
}

// Nodes returns all nodes in id order.
func (t *Timeline) Nodes() []*Node { return slices.Clone(t.nodes) }

// Links returns all links in id order.
func (t *Timeline) Links() []*Link { return slices.Clone(t.links) }

// NodeCount returns the number of nodes.
func (t *Timeline) NodeCount() int { return len(t.nodes) }

// LinkCount returns the number of links.
func (t *Timeline) LinkCount() int { return len(t.links) }

// LinksOf returns the node's incoming links followed by its outgoing links,
// each in insertion order. A self-loop appears in both halves.
func (t *Timeline) LinksOf(id int) []*Link {
	n, ok := t.Node(id)
	if !ok {
		return nil
	}
	out := make([]*Link, 0, len(n.incoming)+len(n.outgoing))
	for _, lid := range n.incoming {
		out = append(out, t.links[lid])
	}
	for _, lid := range n.outgoing {
		out = append(out, t.links[lid])
	}
	return out
}

// MinTime returns the smallest key time over all nodes, or 0 when empty.
func (t *Timeline) MinTime() float64 {
	if len(t.nodes) == 0 {
		return 0
	}
	lo := math.Inf(1)
	for _, n := range t.nodes {
		s, _ := n.KeyTimes()
		lo = min(lo, s)
	}
	return lo
}

// MaxTime returns the largest key time over all nodes, or 0 when empty.
func (t *Timeline) MaxTime() float64 {
	if len(t.nodes) == 0 {
		return 0
	}
	hi := math.Inf(-1)
	for _, n := range t.nodes {
		_, e := n.KeyTimes()
		hi = max(hi, e)
	}
	return hi
}

// MaxFlow returns the largest link flow, or 0 when there are no links.
func (t *Timeline) MaxFlow() float64 {
	var m float64
	for _, l := range t.links {
		m = max(m, l.Flow)
	}
	return m
}

// MaxSize returns the largest node size, or 0 when empty.
func (t *Timeline) MaxSize() float64 {
	var m float64
	for _, n := range t.nodes {
		m = max(m, n.Size())
	}
	return m
}

// SetRange sets the pixel range time is mapped onto. Non-finite bounds are
// ignored.
func (t *Timeline) SetRange(start, end float64) {
	if !finite(start) || !finite(end) {
		return
	}
	t.rangeStart, t.rangeEnd = start, end
}

// Range returns the pixel range.
func (t *Timeline) Range() (start, end float64) { return t.rangeStart, t.rangeEnd }

// AddAdjustment adds dy to the node's accumulated vertical offset.
func (t *Timeline) AddAdjustment(id int, dy float64) {
	if n, ok := t.Node(id); ok && finite(dy) {
		n.adjustment += dy
	}
}

// ClearAdjustments resets every node's accumulated offset to zero.
func (t *Timeline) ClearAdjustments() {
	for _, n := range t.nodes {
		n.adjustment = 0
	}
}

// SideCounts returns the number of circular links each side received by
// balancing. Links that inherit an endpoint's side are not counted.
func (t *Timeline) SideCounts() (top, bottom int) { return t.topCount, t.bottomCount }

// Graph is a value snapshot of a timeline in creation order.
type Graph struct {
	Nodes []Node
	Links []Link
}

// Graph returns a snapshot that shares no memory with the timeline.
func (t *Timeline) Graph() Graph {
	g := Graph{
		Nodes: make([]Node, len(t.nodes)),
		Links: make([]Link, len(t.links)),
	}
	for i, n := range t.nodes {
		c := *n
		c.incoming = slices.Clone(n.incoming)
		c.outgoing = slices.Clone(n.outgoing)
		g.Nodes[i] = c
	}
	for i, l := range t.links {
		g.Links[i] = *l
	}
	return g
}
