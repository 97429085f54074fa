package pipeline

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/sankeytimeline/pkg/cache"
	"github.com/matzehuels/sankeytimeline/pkg/errors"
	"github.com/matzehuels/sankeytimeline/pkg/graph"
	tlio "github.com/matzehuels/sankeytimeline/pkg/io"
	"github.com/matzehuels/sankeytimeline/pkg/observability"
)

var releaseFile = filepath.Join("testdata", "release.toml")

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"toml", false},
		{"yaml", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"sankey", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Source: "x.toml"}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if o.VizType != DefaultVizType {
		t.Errorf("VizType = %q, want %q", o.VizType, DefaultVizType)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
	if o.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", o.Scale, DefaultScale)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
	if len(o.LayoutOptions()) != 0 {
		t.Errorf("LayoutOptions() = %d options, want none", len(o.LayoutOptions()))
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"NoSource", Options{}, "source or definition is required"},
		{"BadRange", Options{Source: "a.toml", Range: []float64{1}}, "range needs exactly 2 values"},
		{"NegativeHeight", Options{Source: "a.toml", Height: -1}, "must not be negative"},
		{"TooManyIterations", Options{Source: "a.toml", Iterations: MaxAdjustIterations + 1}, "iterations"},
		{"BadVizType", Options{Source: "a.toml", VizType: "tower"}, "invalid viz_type"},
		{"BadFormat", Options{Source: "a.toml", Formats: []string{"gif"}}, "invalid format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil)
	res, err := r.Execute(context.Background(), Options{
		Source:  releaseFile,
		Formats: []string{FormatJSON, FormatSVG, FormatDOT, FormatYAML},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if res.Stats.NodeCount != 4 || res.Stats.LinkCount != 4 {
		t.Errorf("Stats = %+v, want 4 nodes, 4 links", res.Stats)
	}
	if res.Stats.CircularCount != 1 {
		t.Errorf("CircularCount = %d, want 1", res.Stats.CircularCount)
	}
	if res.Layout.Height != 300 {
		t.Errorf("Height = %v, want 300 from the definition", res.Layout.Height)
	}

	for _, f := range []string{FormatJSON, FormatSVG, FormatDOT, FormatYAML} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}

	l, err := graph.UnmarshalLayout(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if !l.IsSankey() || len(l.Nodes) != 4 {
		t.Errorf("json artifact: viz_type %q with %d nodes", l.VizType, len(l.Nodes))
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), "n2 -> n1") {
		t.Errorf("dot artifact lacks the circular link:\n%s", res.Artifacts[FormatDOT])
	}

	def, err := tlio.ReadDefinition(strings.NewReader(string(res.Artifacts[FormatYAML])), tlio.FormatYAML)
	if err != nil {
		t.Fatalf("yaml artifact: %v", err)
	}
	if len(def.Nodes) != 4 || def.Nodes[0].End.Float() != 90 {
		t.Errorf("yaml artifact nodes = %+v", def.Nodes)
	}
}

func TestExecuteOverrides(t *testing.T) {
	def := &tlio.Definition{
		Nodes: []tlio.NodeDef{
			{Label: "a", Start: timeRef(0), End: timeRef(10)},
			{Label: "b", Start: timeRef(10), End: timeRef(20)},
		},
		Links: []tlio.LinkDef{{Source: "a", Target: "b", Flow: 1}},
	}
	res, err := NewRunner(nil).Execute(context.Background(), Options{
		Definition: def,
		Range:      []float64{100, 500},
		Height:     200,
		Formats:    []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Layout.RangeStart != 100 || res.Layout.RangeEnd != 500 {
		t.Errorf("range = [%v, %v], want [100, 500]", res.Layout.RangeStart, res.Layout.RangeEnd)
	}
	if res.Layout.Nodes[1].X1 != 500 {
		t.Errorf("b.X1 = %v, want 500", res.Layout.Nodes[1].X1)
	}
	if res.Layout.Height != 200 {
		t.Errorf("Height = %v, want 200", res.Layout.Height)
	}
}

func TestExecuteNodelinkJSON(t *testing.T) {
	res, err := NewRunner(nil).Execute(context.Background(), Options{
		Source:   releaseFile,
		VizType:  graph.VizTypeNodelink,
		Detailed: true,
		Formats:  []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	l, err := graph.UnmarshalLayout(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("UnmarshalLayout() error: %v", err)
	}
	if !l.IsNodelink() || !strings.Contains(l.DOT, "digraph G") {
		t.Errorf("nodelink json = %+v", l)
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil)

	_, err := r.Execute(context.Background(), Options{Source: filepath.Join(t.TempDir(), "missing.toml")})
	if errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("missing file: code = %q, want %q", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}

	bad := &tlio.Definition{Nodes: []tlio.NodeDef{{Label: "a", Start: timeRef(5), End: timeRef(1)}}}
	_, err = r.Execute(context.Background(), Options{Definition: bad, Strict: true})
	if !errors.Is(err, errors.ErrCodeInvalidTimeRange) {
		t.Errorf("strict: err = %v, want INVALID_TIME_RANGE", err)
	}
	if _, err := r.Execute(context.Background(), Options{Definition: bad, Formats: []string{FormatJSON}}); err != nil {
		t.Errorf("lenient: err = %v, want nil", err)
	}

	dangling := &tlio.Definition{
		Nodes: []tlio.NodeDef{{Label: "a", Start: timeRef(0), End: timeRef(1)}},
		Links: []tlio.LinkDef{{Source: "a", Target: "ghost", Flow: 1}},
	}
	_, err = r.Execute(context.Background(), Options{Definition: dangling})
	if !errors.Is(err, errors.ErrCodeUnknownReference) {
		t.Errorf("dangling: err = %v, want UNKNOWN_REFERENCE", err)
	}
}

func TestLayoutIterations(t *testing.T) {
	r := NewRunner(nil)
	def, err := r.Load(context.Background(), Options{Source: releaseFile})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	d, res, err := r.Layout(context.Background(), def, Options{Iterations: 5})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if len(res.Nodes) != 4 {
		t.Fatalf("len(Nodes) = %d, want 4", len(res.Nodes))
	}
	for _, n := range d.Timeline().Nodes() {
		if math.IsNaN(n.Adjustment()) {
			t.Errorf("node %d adjustment is NaN", n.ID)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := r.Layout(ctx, def, Options{Iterations: 3}); err == nil {
		t.Error("Layout() with cancelled context should fail")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLoadStart(context.Context, string) { h.add("load") }
func (h *recordingHooks) OnLayoutStart(_ context.Context, mode string, _ int) {
	h.add("layout:" + mode)
}
func (h *recordingHooks) OnExportComplete(_ context.Context, formats []string, _ time.Duration, err error) {
	if err == nil {
		h.add("export:" + strings.Join(formats, ","))
	}
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	_, err := NewRunner(nil).Execute(context.Background(), Options{
		Source:     releaseFile,
		Iterations: 2,
		Formats:    []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []string{"load", "layout:adjust", "export:dot"}
	if strings.Join(hooks.events, " ") != strings.Join(want, " ") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

func timeRef(v float64) *tlio.Time {
	t := tlio.Time(v)
	return &t
}

func TestExecuteCache(t *testing.T) {
	mc := cache.NewMemoryCache()
	r := NewRunner(nil)
	r.Cache = mc

	opts := Options{Source: releaseFile, Formats: []string{FormatSVG, FormatJSON}}
	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.Cached {
		t.Error("first run should not be cached")
	}
	if mc.Len() != 1 {
		t.Fatalf("cache entries = %d, want 1", mc.Len())
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.Cached {
		t.Fatal("second run should come from the cache")
	}
	if second.Diagram != nil {
		t.Error("cached result should not carry a diagram")
	}
	if second.Stats.NodeCount != 4 || second.Stats.CircularCount != 1 {
		t.Errorf("cached Stats = %+v", second.Stats)
	}
	if string(second.Artifacts[FormatSVG]) != string(first.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from the rendered one")
	}

	// Different options miss.
	opts.Height = 500
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if third.Cached {
		t.Error("changed options should not hit the cache")
	}
	if mc.Len() != 2 {
		t.Errorf("cache entries = %d, want 2", mc.Len())
	}
}
