package graph

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sankeytimeline/pkg/layout"
	"github.com/matzehuels/sankeytimeline/pkg/path"
	"github.com/matzehuels/sankeytimeline/pkg/timeline"
)

func buildLoop(t *testing.T) layout.Result {
	t.Helper()
	tl := timeline.New()
	tl.CreateNode("fetch", timeline.Interval(0, 5))
	tl.CreateNode("build", timeline.Interval(4, 12))
	tl.CreateNode("test", timeline.Interval(10, 20))
	for _, l := range []struct {
		src, tgt string
		flow     float64
	}{
		{"fetch", "build", 3}, {"build", "test", 2}, {"test", "fetch", 1}, {"test", "test", 1},
	} {
		if _, err := tl.CreateLink(timeline.Label(l.src), timeline.Label(l.tgt), l.flow); err != nil {
			t.Fatal(err)
		}
	}
	return layout.Build(tl)
}

func TestFromResult(t *testing.T) {
	r := buildLoop(t)
	l := FromResult(r)

	if !l.IsSankey() || l.IsNodelink() {
		t.Fatalf("VizType = %q, want %q", l.VizType, VizTypeSankey)
	}
	if l.Width != 800 {
		t.Errorf("Width = %v, want 800", l.Width)
	}
	if len(l.Nodes) != 3 || len(l.Links) != 4 {
		t.Fatalf("got %d nodes, %d links, want 3, 4", len(l.Nodes), len(l.Links))
	}

	seen := map[int]bool{}
	for row, ids := range l.Rows {
		for _, id := range ids {
			if seen[id] {
				t.Errorf("node %d listed twice in rows", id)
			}
			seen[id] = true
			if l.Nodes[id].Row != row {
				t.Errorf("node %d Row = %d, listed under row %d", id, l.Nodes[id].Row, row)
			}
		}
	}
	if len(seen) != len(l.Nodes) {
		t.Errorf("rows list %d nodes, want %d", len(seen), len(l.Nodes))
	}

	for i, lk := range l.Links {
		if lk.D != r.Links[i].Path.D() {
			t.Errorf("link %d D = %q, want %q", i, lk.D, r.Links[i].Path.D())
		}
		if lk.Circular != (lk.Side != "") {
			t.Errorf("link %d Circular = %v but Side = %q", i, lk.Circular, lk.Side)
		}
	}
	if got := l.Links[2].Path.Kind; got != path.KindArc {
		t.Errorf("test->fetch Kind = %v, want arc", got)
	}
	if got := l.Links[3].Path.Kind; got != path.KindSelfLoop {
		t.Errorf("test->test Kind = %v, want self-loop", got)
	}
	if !l.Nodes[0].PartOfCircuit || !l.Nodes[2].PartOfCircuit || l.Nodes[1].PartOfCircuit {
		t.Errorf("PartOfCircuit = %v %v %v, want true false true",
			l.Nodes[0].PartOfCircuit, l.Nodes[1].PartOfCircuit, l.Nodes[2].PartOfCircuit)
	}

	b := r.Bounds()
	if l.ViewBox[1] != b.MinY || l.ViewBox[3] != b.MaxY-b.MinY {
		t.Errorf("ViewBox = %v, want y %v h %v", l.ViewBox, b.MinY, b.MaxY-b.MinY)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	want := FromResult(buildLoop(t))
	file := filepath.Join(t.TempDir(), "layout.json")

	if err := WriteLayoutFile(want, file); err != nil {
		t.Fatalf("WriteLayoutFile() error: %v", err)
	}
	got, err := ReadLayoutFile(file)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}

	data1, _ := MarshalLayout(want)
	data2, _ := MarshalLayout(got)
	if !bytes.Equal(data1, data2) {
		t.Errorf("round trip changed the document:\n%s\nvs\n%s", data1, data2)
	}
	if got.Links[2].Path.Segments[0].Op != path.OpMove {
		t.Errorf("first segment Op = %v, want M", got.Links[2].Path.Segments[0].Op)
	}
}

func TestWriteLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLayout(FromResult(buildLoop(t)), &buf); err != nil {
		t.Fatalf("WriteLayout() error: %v", err)
	}
	for _, want := range []string{`"viz_type": "sankey"`, `"kind": "arc"`, `"side": "`, `"part_of_circuit": true`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %s", want)
		}
	}

	l, err := ReadLayout(&buf)
	if err != nil {
		t.Fatalf("ReadLayout() error: %v", err)
	}
	if len(l.Nodes) != 3 {
		t.Errorf("len(Nodes) = %d, want 3", len(l.Nodes))
	}
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"InvalidJSON", `{`, "unmarshal layout"},
		{"MissingVizType", `{"width": 10}`, "no viz_type"},
		{"UnknownVizType", `{"viz_type": "tower"}`, "unknown viz_type"},
		{"NodelinkWithoutDOT", `{"viz_type": "nodelink"}`, "DOT"},
		{"DanglingLink", `{"viz_type": "sankey", "nodes": [{"id": 0}], "links": [{"id": 0, "source": 0, "target": 3}]}`, "missing node"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("UnmarshalLayout() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestReadLayoutFileMissing(t *testing.T) {
	_, err := ReadLayoutFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadLayoutFile() error = %v, want not-exist", err)
	}
}
