package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/sankeytimeline/pkg/geom"
	"github.com/matzehuels/sankeytimeline/pkg/path"
	"github.com/matzehuels/sankeytimeline/pkg/timeline"
)

// Build computes a layout of the timeline's current state. Pass-4 shifts are
// applied to this result only.
func Build(tl *timeline.Timeline, opts ...Option) Result {
	s := newSolver(tl, newConfig(opts...))
	return s.run()
}

// Adjust computes a layout like [Build] and then adds each node's pass-4
// shift to its persistent adjustment on the timeline.
func Adjust(tl *timeline.Timeline, opts ...Option) Result {
	r := Build(tl, opts...)
	for _, n := range r.Nodes {
		if n.Shift != 0 {
			tl.AddAdjustment(n.ID, n.Shift)
		}
	}
	return r
}

type solver struct {
	cfg    config
	tl     *timeline.Timeline
	nodes  []NodeBox
	links  []LinkPath
	offset []float64 // persistent adjustment per node
	minY   float64
	res    Result
}

func newSolver(tl *timeline.Timeline, cfg config) *solver {
	s := &solver{cfg: cfg, tl: tl}
	s.res.MinTime, s.res.MaxTime = tl.MinTime(), tl.MaxTime()
	s.res.MaxFlow, s.res.MaxSize = tl.MaxFlow(), tl.MaxSize()
	s.res.RangeStart, s.res.RangeEnd = tl.Range()
	s.res.Height = cfg.height
	return s
}

func (s *solver) run() Result {
	s.place()
	s.assignRows()
	s.buildLinks(false)
	s.shiftNodes()
	s.assignRows()
	s.normalize()
	s.buildLinks(true)

	s.res.Nodes, s.res.Links = s.nodes, s.links
	return s.res
}

// =============================================================================
// Pass 1: placement
// =============================================================================

func (s *solver) place() {
	minT, maxT := s.res.MinTime, s.res.MaxTime
	rs, re := s.res.RangeStart, s.res.RangeEnd
	span := maxT - minT
	s.res.DegenerateScale = !(span > 0) || !finite(span)

	scale := func(t float64) float64 {
		if s.res.DegenerateScale {
			return rs
		}
		return rs + (re-rs)*(t-minT)/span
	}

	nodes := s.tl.Nodes()
	s.nodes = make([]NodeBox, len(nodes))
	s.offset = make([]float64, len(nodes))
	for i, n := range nodes {
		start, end := n.KeyTimes()
		// A reversed range mirrors the axis; boxes keep X <= X1.
		x, x1 := scale(start), scale(end)
		if x1 < x {
			x, x1 = x1, x
		}
		w := x1 - x
		if !(w > 0) {
			w = 0
		}
		s.nodes[i] = NodeBox{
			ID:            n.ID,
			Label:         n.Label,
			X:             x,
			X1:            x + w,
			Width:         w,
			Height:        s.nodeHeight(n.Size()),
			Size:          n.Size(),
			PartOfCircuit: n.PartOfCircuit(),
		}
		s.offset[i] = n.Adjustment()
	}
}

func (s *solver) nodeHeight(size float64) float64 {
	h := s.cfg.maxNodeHeight
	if s.cfg.dynamicHeight && s.res.MaxSize > 0 {
		h *= size / s.res.MaxSize
	}
	return h
}

// =============================================================================
// Pass 2: rows
// =============================================================================

type span struct {
	lo, hi float64
	row    int
}

func overlapsX(a, b NodeBox) bool { return a.X <= b.X1 && b.X <= a.X1 }

func (s *solver) assignRows() {
	pitch := s.cfg.maxNodeHeight + s.cfg.nodePadding
	s.minY = math.Inf(1)

	for i := range s.nodes {
		n := &s.nodes[i]
		off := s.offset[i] + n.Shift

		var taken []span
		for j := 0; j < i; j++ {
			if o := s.nodes[j]; overlapsX(*n, o) {
				taken = append(taken, span{o.Y, o.Bottom(), o.Row})
			}
		}
		slices.SortFunc(taken, func(a, b span) int {
			switch {
			case a.lo < b.lo:
				return -1
			case a.lo > b.lo:
				return 1
			}
			return a.row - b.row
		})

		row := 0
		for !s.fits(row, float64(row)*pitch+off, n.Height, taken) {
			row++
		}
		n.Row = row
		n.Y = float64(row)*pitch + off
		s.minY = min(s.minY, n.Y)
	}
	if len(s.nodes) == 0 {
		s.minY = 0
	}
}

// fits reports whether a node of height h can sit at y in row without sharing
// the row or vertical space with an overlapping node. taken is sorted by lo.
func (s *solver) fits(row int, y, h float64, taken []span) bool {
	for _, t := range taken {
		if t.row == row {
			return false
		}
	}
	for _, t := range taken {
		if t.lo >= y+h {
			break
		}
		if y < t.hi && t.lo < y+h {
			return false
		}
	}
	return true
}

// =============================================================================
// Pass 3 and final: link paths
// =============================================================================

func (s *solver) linkWidth(flow float64) float64 {
	if s.res.MaxFlow > 0 {
		return s.cfg.maxLinkWidth * flow / s.res.MaxFlow
	}
	s.res.DegenerateFlow = true
	return s.cfg.baseLinkWidth
}

// buildLinks computes widths, stacked anchors and paths. Until final is set
// circular links only get anchors; their arcs depend on settled positions.
func (s *solver) buildLinks(final bool) {
	links := s.tl.Links()
	s.links = make([]LinkPath, len(links))
	s.res.DegenerateFlow = false
	for i, l := range links {
		s.links[i] = LinkPath{
			ID:       l.ID,
			Source:   l.Source,
			Target:   l.Target,
			Flow:     l.Flow,
			Circular: l.Circular,
			Side:     l.Side,
			Width:    s.linkWidth(l.Flow),
		}
	}
	s.anchor()

	minY := math.Inf(1)
	for _, n := range s.nodes {
		minY = min(minY, n.Y)
	}

	p := s.cfg.path
	for i := range s.links {
		l := &s.links[i]
		src, tgt := s.nodes[l.Source], s.nodes[l.Target]
		switch {
		case !l.Circular:
			l.Path = path.Bezier(src.X1, l.Y0, tgt.X, l.Y1, p)
		case !final:
		case l.Source == l.Target:
			l.Path = path.SelfLoop(src.box(), l.Y0, l.Y1, l.Side, p)
		default:
			l.Path = path.Arc(path.Circular{
				Source: src.box(),
				Target: tgt.box(),
				Y0:     l.Y0,
				Y1:     l.Y1,
				Width:  l.Width,
				Side:   l.Side,
				Index:  l.ID,
				MinY:   minY,
			}, p)
		}
	}
}

// anchor stacks each node's outgoing and incoming links independently, in
// insertion order.
func (s *solver) anchor() {
	for _, n := range s.tl.Nodes() {
		box := s.nodes[n.ID].box()

		out := n.Outgoing()
		ys := path.Stack(box, s.stacked(out))
		for k, id := range out {
			s.links[id].Y0 = ys[k]
		}

		in := n.Incoming()
		ys = path.Stack(box, s.stacked(in))
		for k, id := range in {
			s.links[id].Y1 = ys[k]
		}
	}
}

func (s *solver) stacked(ids []int) []path.Stacked {
	st := make([]path.Stacked, len(ids))
	for k, id := range ids {
		st[k] = path.Stacked{Width: s.links[id].Width, Circular: s.links[id].Circular}
	}
	return st
}

// =============================================================================
// Pass 4: node/link overlap
// =============================================================================

func (s *solver) shiftNodes() {
	shifts := make([]float64, len(s.nodes))
	for i, n := range s.nodes {
		shifts[i] = s.shiftFor(n)
	}
	for i := range s.nodes {
		s.nodes[i].Shift = shifts[i]
	}
}

func (s *solver) shiftFor(n NodeBox) float64 {
	rect := n.Rect()
	edges := rect.Edges()
	mid := (rect.MinY + rect.MaxY) / 2

	var up, down float64
	for _, l := range s.links {
		if l.Circular || l.Source == n.ID || l.Target == n.ID || l.Path.Curve == nil {
			continue
		}
		for _, dy := range [2]float64{-l.Width / 2, l.Width / 2} {
			c := l.Path.Curve.Translate(0, dy)
			if !c.Hull().Overlaps(rect) {
				continue
			}
			for _, e := range edges {
				for _, p := range geom.Intersections(c, e) {
					if p.Y < mid {
						down = max(down, p.Y-rect.MinY)
					} else {
						up = max(up, rect.MaxY-p.Y)
					}
				}
			}
		}
	}
	return down - up
}

// =============================================================================
// Normalization
// =============================================================================

func (s *solver) normalize() {
	if len(s.nodes) == 0 {
		return
	}
	extent := 0.0
	for i := range s.nodes {
		s.nodes[i].Y -= s.minY
		extent = max(extent, s.nodes[i].Bottom())
	}
	s.minY = 0

	h := s.cfg.height
	if extent <= h {
		return
	}
	k := h / extent
	for i := range s.nodes {
		n := &s.nodes[i]
		n.Y *= k
		if n.Bottom() > h {
			n.Y = max(0, h-n.Height)
		}
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
