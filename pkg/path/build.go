package path

import (
	"github.com/matzehuels/sankeytimeline/pkg/geom"
	"github.com/matzehuels/sankeytimeline/pkg/timeline"
)

// Params are the geometric constants of path construction.
type Params struct {
	CurveWidth     float64 // horizontal control-point offset
	CurveHeight    float64 // self-loop bulge past the node edge
	ArcRadius      float64 // base radius of circular arcs
	CircularGap    float64 // per-link growth of radius and clearance
	CircularMargin float64 // clearance between nodes and circular runs
}

// Box is a node's rectangle.
type Box struct {
	X, X1, Y, Height float64
}

// Bottom returns the lower edge of the box.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// Bezier is the S-curve of an ordinary link from (x0, y0) to (x1, y1).
func Bezier(x0, y0, x1, y1 float64, p Params) Path {
	c := geom.Cubic{
		P0: geom.Point{X: x0, Y: y0},
		P1: geom.Point{X: x0 + p.CurveWidth, Y: y0},
		P2: geom.Point{X: x1 - p.CurveWidth, Y: y1},
		P3: geom.Point{X: x1, Y: y1},
	}
	return Path{Kind: KindBezier, Curve: &c}
}

// SelfLoop leaves box's right edge at y0 and re-enters its left edge at y1,
// bulging above the box for top links and below it otherwise. The bulge is
// at least CurveHeight and deepens for wide boxes so the curve never passes
// through the node body.
func SelfLoop(box Box, y0, y1 float64, side timeline.Side, p Params) Path {
	cw := max(p.CurveWidth, p.CurveHeight, 1)
	w := max(box.X1-box.X, 0)

	// Between the parameters t and 1-t the curve lies horizontally over the
	// box. u*t is smallest at those ends.
	t := loopOverlap(w, cw)
	ut := t * (1 - t)

	var cy float64
	if side == timeline.SideBottom {
		h := max(box.Bottom()-min(y0, y1), 0)
		cy = box.Bottom() + p.CurveHeight + max(0, h/(3*ut)-h)
	} else {
		h := max(max(y0, y1)-box.Y, 0)
		cy = box.Y - p.CurveHeight - max(0, h/(3*ut)-h)
	}
	c := geom.Cubic{
		P0: geom.Point{X: box.X1, Y: y0},
		P1: geom.Point{X: box.X1 + cw, Y: cy},
		P2: geom.Point{X: box.X - cw, Y: cy},
		P3: geom.Point{X: box.X, Y: y1},
	}
	return Path{Kind: KindSelfLoop, Curve: &c}
}

// loopOverlap returns the first parameter at which a self-loop over a box of
// width w with control offset cw comes back over the box. The horizontal
// excess past the right edge is t*(3cw*(1-t)*(1-2t) - w*t*(3-2t)), and the
// bracketed term falls strictly on [0, 0.5].
func loopOverlap(w, cw float64) float64 {
	excess := func(t float64) float64 { return 3*cw*(1-t)*(1-2*t) - w*t*(3-2*t) }
	lo, hi := 0.0, 0.5
	for range 60 {
		mid := (lo + hi) / 2
		if excess(mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Circular describes a cycle-closing link to route around the diagram.
type Circular struct {
	Source, Target Box
	Y0, Y1         float64 // anchors on the source and target edges
	Width          float64 // stroke width
	Side           timeline.Side
	Index          int     // link id; larger ids nest outside smaller ones
	MinY           float64 // top of the highest node in the diagram
}

// Radius returns the arc radius for the link.
func (c Circular) Radius(p Params) float64 {
	return p.ArcRadius + p.CircularGap*float64(c.Index)
}

// Arc routes a circular link. Top links run above MinY, bottom links below
// the lower of the two endpoint boxes.
func Arc(c Circular, p Params) Path {
	r := c.Radius(p)
	clearance := p.CircularMargin + p.CircularGap*float64(c.Index) + c.Width/2

	dir, sweep := -1.0, false
	var run float64
	if c.Side == timeline.SideBottom {
		dir, sweep = 1, true
		run = max(c.Source.Bottom(), c.Target.Bottom()) + clearance
		run = max(run, max(c.Y0, c.Y1)+2*r)
	} else {
		run = c.MinY - clearance
		run = min(run, min(c.Y0, c.Y1)-2*r)
	}

	xs := c.Source.X1 + p.CircularMargin
	xt := c.Target.X - p.CircularMargin
	pt := func(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }
	line := func(x, y float64) Segment { return Segment{Op: OpLine, To: pt(x, y)} }
	arc := func(x, y float64) Segment { return Segment{Op: OpArc, To: pt(x, y), Radius: r, Sweep: sweep} }

	return Path{Kind: KindArc, Segments: []Segment{
		{Op: OpMove, To: pt(c.Source.X1, c.Y0)},
		line(xs, c.Y0),
		arc(xs+r, c.Y0+dir*r),
		line(xs+r, run-dir*r),
		arc(xs, run),
		line(xt, run),
		arc(xt-r, run-dir*r),
		line(xt-r, c.Y1+dir*r),
		arc(xt, c.Y1),
		line(c.Target.X, c.Y1),
	}}
}

// Stacked is one link as seen from a node edge.
type Stacked struct {
	Width    float64
	Circular bool
}

// Stack returns the anchor y for each link along one edge of box, in order.
// Offsets start at the bottom edge; an ordinary link raises the following
// ones by its width and a circular link lowers them.
func Stack(box Box, links []Stacked) []float64 {
	ys := make([]float64, len(links))
	var offset float64
	for i, l := range links {
		ys[i] = box.Bottom() - offset - l.Width/2
		if l.Circular {
			offset -= l.Width
		} else {
			offset += l.Width
		}
	}
	return ys
}
