package path

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sankeytimeline/pkg/geom"
	"github.com/matzehuels/sankeytimeline/pkg/timeline"
)

var params = Params{CurveWidth: 50, CurveHeight: 30, ArcRadius: 10, CircularGap: 4, CircularMargin: 8}

func TestBezier(t *testing.T) {
	p := Bezier(100, 40, 300, 90, params)
	require.NotNil(t, p.Curve)

	want := geom.Cubic{
		P0: geom.Point{X: 100, Y: 40},
		P1: geom.Point{X: 150, Y: 40},
		P2: geom.Point{X: 250, Y: 90},
		P3: geom.Point{X: 300, Y: 90},
	}
	assert.Equal(t, KindBezier, p.Kind)
	assert.Equal(t, want, *p.Curve)
	assert.Equal(t, "M100,40 C150,40 250,90 300,90", p.D())
}

func TestSelfLoopClearsNode(t *testing.T) {
	box := Box{X: 100, X1: 200, Y: 50, Height: 40}
	tests := []struct {
		side  timeline.Side
		clear func(y float64) bool
	}{
		{timeline.SideTop, func(y float64) bool { return y < box.Y }},
		{timeline.SideBottom, func(y float64) bool { return y > box.Bottom() }},
	}
	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			p := SelfLoop(box, 70, 70, tt.side, params)
			assert.Equal(t, KindSelfLoop, p.Kind)
			assert.Equal(t, geom.Point{X: 200, Y: 70}, p.Start())
			assert.Equal(t, geom.Point{X: 100, Y: 70}, p.End())
			assert.True(t, tt.clear(p.Curve.At(0.5).Y), "loop midpoint %v inside node", p.Curve.At(0.5))
		})
	}
}

func TestSelfLoopAvoidsNodeBody(t *testing.T) {
	tests := []struct {
		name   string
		box    Box
		y0, y1 float64
	}{
		{"wide", Box{X: 0, X1: 400, Y: 0, Height: 50}, 37.5, 37.5},
		{"very wide", Box{X: 0, X1: 2000, Y: 10, Height: 40}, 12, 48},
		{"narrow", Box{X: 300, X1: 310, Y: 0, Height: 50}, 25, 25},
		{"zero width", Box{X: 50, X1: 50, Y: 0, Height: 50}, 5, 45},
		{"anchors on the edges", Box{X: 0, X1: 400, Y: 0, Height: 50}, 0, 50},
	}
	for _, tt := range tests {
		for _, side := range []timeline.Side{timeline.SideTop, timeline.SideBottom} {
			t.Run(tt.name+"/"+side.String(), func(t *testing.T) {
				p := SelfLoop(tt.box, tt.y0, tt.y1, side, params)
				for i := 1; i < 1000; i++ {
					pt := p.Curve.At(float64(i) / 1000)
					inside := pt.X > tt.box.X && pt.X < tt.box.X1 && pt.Y > tt.box.Y && pt.Y < tt.box.Bottom()
					require.False(t, inside, "t=%v point %v inside node", float64(i)/1000, pt)
				}
			})
		}
	}

	// The bulge never drops below the curve height, and grows with width.
	narrow := SelfLoop(Box{X: 0, X1: 10, Y: 0, Height: 50}, 25, 25, timeline.SideBottom, params)
	wide := SelfLoop(Box{X: 0, X1: 400, Y: 0, Height: 50}, 25, 25, timeline.SideBottom, params)
	assert.GreaterOrEqual(t, narrow.Curve.P1.Y, 80.0)
	assert.Greater(t, wide.Curve.P1.Y, narrow.Curve.P1.Y)
}

func checkArcPath(t *testing.T, p Path, sweep bool) {
	t.Helper()
	require.Len(t, p.Segments, 10)
	assert.Equal(t, OpMove, p.Segments[0].Op)

	arcs := 0
	prev := p.Segments[0].To
	for _, s := range p.Segments[1:] {
		switch s.Op {
		case OpArc:
			arcs++
			assert.Equal(t, sweep, s.Sweep)
			dx, dy := s.To.X-prev.X, s.To.Y-prev.Y
			assert.InDelta(t, s.Radius, abs(dx), 1e-9, "arc is not a quarter circle")
			assert.InDelta(t, s.Radius, abs(dy), 1e-9, "arc is not a quarter circle")
		case OpLine:
			assert.True(t, s.To.X == prev.X || s.To.Y == prev.Y, "line %v->%v is not axis aligned", prev, s.To)
		}
		prev = s.To
	}
	assert.Equal(t, 4, arcs)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestArcTop(t *testing.T) {
	c := Circular{
		Source: Box{X: 400, X1: 500, Y: 100, Height: 50},
		Target: Box{X: 0, X1: 120, Y: 160, Height: 50},
		Y0:     140, Y1: 200,
		Width: 6, Side: timeline.SideTop, Index: 3, MinY: 20,
	}
	p := Arc(c, params)
	assert.Equal(t, KindArc, p.Kind)
	checkArcPath(t, p, false)

	assert.Equal(t, geom.Point{X: 500, Y: 140}, p.Start())
	assert.Equal(t, geom.Point{X: 0, Y: 200}, p.End())

	run := p.Segments[4].To.Y
	assert.Equal(t, run, p.Segments[5].To.Y)
	assert.Less(t, run, c.MinY-c.Width/2, "top run must clear the highest node")
	assert.InDelta(t, 22.0, c.Radius(params), 1e-9)
}

func TestArcBottom(t *testing.T) {
	c := Circular{
		Source: Box{X: 400, X1: 500, Y: 100, Height: 50},
		Target: Box{X: 0, X1: 120, Y: 300, Height: 40},
		Y0:     140, Y1: 320,
		Width: 4, Side: timeline.SideBottom, Index: 0, MinY: 0,
	}
	p := Arc(c, params)
	checkArcPath(t, p, true)

	run := p.Segments[4].To.Y
	assert.Greater(t, run, 340.0+c.Width/2, "bottom run must clear both endpoints")
	assert.GreaterOrEqual(t, run, 320.0+2*c.Radius(params))
}

func TestArcsNest(t *testing.T) {
	base := Circular{
		Source: Box{X: 400, X1: 500, Y: 100, Height: 50},
		Target: Box{X: 0, X1: 120, Y: 100, Height: 50},
		Y0:     140, Y1: 140, Width: 2, Side: timeline.SideTop, MinY: 100,
	}
	inner := Arc(base, params)
	base.Index = 5
	outer := Arc(base, params)

	ib, ob := inner.Bounds(), outer.Bounds()
	assert.Less(t, ob.MinY, ib.MinY)
	assert.Greater(t, outer.Segments[3].To.X, inner.Segments[3].To.X)
	assert.Less(t, outer.Segments[7].To.X, inner.Segments[7].To.X)
}

func TestStack(t *testing.T) {
	box := Box{X: 0, X1: 10, Y: 0, Height: 50}
	tests := []struct {
		name  string
		links []Stacked
		want  []float64
	}{
		{"empty", nil, []float64{}},
		{"ordinary", []Stacked{{Width: 10}, {Width: 4}, {Width: 6}}, []float64{45, 38, 33}},
		{"circular pulls down", []Stacked{{Width: 10, Circular: true}, {Width: 4}}, []float64{45, 58}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stack(box, tt.links))
		})
	}
}

func TestArcD(t *testing.T) {
	p := Path{Kind: KindArc, Segments: []Segment{
		{Op: OpMove, To: geom.Point{X: 1, Y: 2}},
		{Op: OpLine, To: geom.Point{X: 3.333333, Y: 2}},
		{Op: OpArc, To: geom.Point{X: 13.33, Y: -8}, Radius: 10, Sweep: true},
	}}
	assert.Equal(t, "M1,2 L3.33,2 A10,10 0 0 1 13.33,-8", p.D())
}

func TestPathJSON(t *testing.T) {
	p := Arc(Circular{
		Source: Box{X: 10, X1: 20, Y: 0, Height: 10},
		Target: Box{X: 0, X1: 5, Y: 0, Height: 10},
		Y0:     5, Y1: 5, Width: 1, Side: timeline.SideBottom,
	}, params)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"arc"`)
	assert.Contains(t, string(data), `"op":"A"`)

	var back Path
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}
