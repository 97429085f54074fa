// Package geom holds the small amount of plane geometry the layout needs:
// points, rectangles and cubic Bézier curves with curve/curve intersection.
package geom

import "math"

// Point is a position in pixel space; y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{p.X + dx, p.Y + dy} }

func lerp(a, b Point, t float64) Point {
	return Point{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Empty is the identity for [Rect.Union].
var Empty = Rect{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}

// Overlaps reports whether r and o share at least one point.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX && r.MinY <= o.MaxY && o.MinY <= r.MaxY
}

// Union returns the smallest rectangle covering both.
func (r Rect) Union(o Rect) Rect {
	return Rect{min(r.MinX, o.MinX), min(r.MinY, o.MinY), max(r.MaxX, o.MaxX), max(r.MaxY, o.MaxY)}
}

// Extend grows r to include p.
func (r Rect) Extend(p Point) Rect {
	return Rect{min(r.MinX, p.X), min(r.MinY, p.Y), max(r.MaxX, p.X), max(r.MaxY, p.Y)}
}

// Size returns the larger of width and height.
func (r Rect) Size() float64 { return max(r.MaxX-r.MinX, r.MaxY-r.MinY) }

// Center returns the midpoint of r.
func (r Rect) Center() Point { return Point{(r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2} }

// Edges returns the four sides of r as degenerate cubics in the order top,
// right, bottom, left.
func (r Rect) Edges() [4]Cubic {
	tl, tr := Point{r.MinX, r.MinY}, Point{r.MaxX, r.MinY}
	br, bl := Point{r.MaxX, r.MaxY}, Point{r.MinX, r.MaxY}
	return [4]Cubic{Line(tl, tr), Line(tr, br), Line(bl, br), Line(tl, bl)}
}

// Cubic is a cubic Bézier curve.
type Cubic struct {
	P0 Point `json:"p0"`
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
	P3 Point `json:"p3"`
}

// Line returns the straight segment a-b as a cubic.
func Line(a, b Point) Cubic {
	return Cubic{a, lerp(a, b, 1.0/3), lerp(a, b, 2.0/3), b}
}

// At evaluates the curve at t in [0, 1].
func (c Cubic) At(t float64) Point {
	u := 1 - t
	a, b, d, e := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		X: a*c.P0.X + b*c.P1.X + d*c.P2.X + e*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + d*c.P2.Y + e*c.P3.Y,
	}
}

// Split divides the curve at t with de Casteljau's construction.
func (c Cubic) Split(t float64) (Cubic, Cubic) {
	p01, p12, p23 := lerp(c.P0, c.P1, t), lerp(c.P1, c.P2, t), lerp(c.P2, c.P3, t)
	p012, p123 := lerp(p01, p12, t), lerp(p12, p23, t)
	mid := lerp(p012, p123, t)
	return Cubic{c.P0, p01, p012, mid}, Cubic{mid, p123, p23, c.P3}
}

// Hull returns the bounding box of the control polygon, which contains the
// curve.
func (c Cubic) Hull() Rect {
	return Empty.Extend(c.P0).Extend(c.P1).Extend(c.P2).Extend(c.P3)
}

// Translate shifts every control point by (dx, dy).
func (c Cubic) Translate(dx, dy float64) Cubic {
	return Cubic{c.P0.Add(dx, dy), c.P1.Add(dx, dy), c.P2.Add(dx, dy), c.P3.Add(dx, dy)}
}

// Intersection search limits.
const (
	// Tolerance is the hull size at which a candidate region is accepted.
	Tolerance = 0.1
	// MaxDepth bounds subdivision; overlapping collinear curves stop here.
	MaxDepth = 16
	// MaxIntersections caps the result for coincident curves.
	MaxIntersections = 32
)

// Intersections returns the points where a and b cross, found by recursive
// subdivision of overlapping control hulls. Points closer than [Tolerance]
// to one already found are merged. The result is nil when the curves do not
// meet.
func Intersections(a, b Cubic) []Point {
	var out []Point
	intersect(a, b, 0, &out)
	return out
}

func intersect(a, b Cubic, depth int, out *[]Point) {
	if len(*out) >= MaxIntersections {
		return
	}
	ha, hb := a.Hull(), b.Hull()
	if !ha.Overlaps(hb) {
		return
	}
	if depth >= MaxDepth || (ha.Size() < Tolerance && hb.Size() < Tolerance) {
		addPoint(out, ha.Union(hb).Center())
		return
	}

	// Split only the larger curve once the other has converged.
	switch {
	case hb.Size() < Tolerance:
		a0, a1 := a.Split(0.5)
		intersect(a0, b, depth+1, out)
		intersect(a1, b, depth+1, out)
	case ha.Size() < Tolerance:
		b0, b1 := b.Split(0.5)
		intersect(a, b0, depth+1, out)
		intersect(a, b1, depth+1, out)
	default:
		a0, a1 := a.Split(0.5)
		b0, b1 := b.Split(0.5)
		intersect(a0, b0, depth+1, out)
		intersect(a0, b1, depth+1, out)
		intersect(a1, b0, depth+1, out)
		intersect(a1, b1, depth+1, out)
	}
}

func addPoint(out *[]Point, p Point) {
	for _, q := range *out {
		if math.Abs(p.X-q.X) < 4*Tolerance && math.Abs(p.Y-q.Y) < 4*Tolerance {
			return
		}
	}
	*out = append(*out, p)
}
