package path

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sankeytimeline/pkg/geom"
)

// Kind distinguishes the three link geometries.
type Kind int

const (
	KindBezier Kind = iota
	KindSelfLoop
	KindArc
)

var kindNames = [...]string{"bezier", "self-loop", "arc"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	for i, n := range kindNames {
		if n == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown path kind %q", b)
}

// Op is a segment command.
type Op int

const (
	OpMove Op = iota
	OpLine
	OpArc
)

var opNames = [...]string{"M", "L", "A"}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "?"
	}
	return opNames[o]
}

func (o Op) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Op) UnmarshalText(b []byte) error {
	for i, n := range opNames {
		if n == string(b) {
			*o = Op(i)
			return nil
		}
	}
	return fmt.Errorf("unknown segment op %q", b)
}

// Segment is one step of a circular path. Radius and Sweep apply to arcs;
// Sweep true means clockwise on screen.
type Segment struct {
	Op     Op         `json:"op"`
	To     geom.Point `json:"to"`
	Radius float64    `json:"radius,omitempty"`
	Sweep  bool       `json:"sweep,omitempty"`
}

// Path is the geometry of one link.
type Path struct {
	Kind     Kind        `json:"kind"`
	Curve    *geom.Cubic `json:"curve,omitempty"`
	Segments []Segment   `json:"segments,omitempty"`
}

// Start returns the first point of the path.
func (p Path) Start() geom.Point {
	if p.Curve != nil {
		return p.Curve.P0
	}
	if len(p.Segments) > 0 {
		return p.Segments[0].To
	}
	return geom.Point{}
}

// End returns the last point of the path.
func (p Path) End() geom.Point {
	if p.Curve != nil {
		return p.Curve.P3
	}
	if len(p.Segments) > 0 {
		return p.Segments[len(p.Segments)-1].To
	}
	return geom.Point{}
}

// Bounds returns a rectangle containing the whole path. Quarter arcs lie
// inside the box spanned by their endpoints, so segment endpoints suffice.
func (p Path) Bounds() geom.Rect {
	if p.Curve != nil {
		return p.Curve.Hull()
	}
	r := geom.Empty
	for _, s := range p.Segments {
		r = r.Extend(s.To)
	}
	return r
}

// D renders the path as SVG path data.
func (p Path) D() string {
	var b strings.Builder
	if c := p.Curve; c != nil {
		fmt.Fprintf(&b, "M%s,%s C%s,%s %s,%s %s,%s",
			num(c.P0.X), num(c.P0.Y), num(c.P1.X), num(c.P1.Y),
			num(c.P2.X), num(c.P2.Y), num(c.P3.X), num(c.P3.Y))
		return b.String()
	}
	for i, s := range p.Segments {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch s.Op {
		case OpArc:
			sweep := 0
			if s.Sweep {
				sweep = 1
			}
			fmt.Fprintf(&b, "A%s,%s 0 0 %d %s,%s", num(s.Radius), num(s.Radius), sweep, num(s.To.X), num(s.To.Y))
		default:
			fmt.Fprintf(&b, "%s%s,%s", s.Op, num(s.To.X), num(s.To.Y))
		}
	}
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
