package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tlio "github.com/matzehuels/sankeytimeline/pkg/io"
	"github.com/matzehuels/sankeytimeline/pkg/observability"
)

func loadRelease(t *testing.T) (*Runner, *tlio.Definition) {
	t.Helper()
	r := NewRunner(nil)
	def, err := r.Load(context.Background(), Options{Source: releaseFile})
	require.NoError(t, err)
	return r, def
}

func TestReplaySeek(t *testing.T) {
	r, def := loadRelease(t)
	p := r.NewReplay(def, Options{})
	require.Equal(t, 8, p.Len())

	ctx := context.Background()

	f, err := p.Seek(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, f.Op)
	assert.Empty(t, f.Layout.Nodes)

	f, err = p.Seek(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, f.Layout.Nodes, 4)
	assert.Empty(t, f.Layout.Links)
	assert.True(t, strings.HasPrefix(f.Op, `node "deploy"`), f.Op)

	f, err = p.Seek(ctx, 8)
	require.NoError(t, err)
	assert.Len(t, f.Layout.Links, 4)
	assert.Equal(t, "link test -> deploy (4)", f.Op)
	assert.Equal(t, 8, f.Total)

	circular := 0
	for _, l := range f.Layout.Links {
		if l.Circular {
			circular++
		}
	}
	assert.Equal(t, 1, circular)

	// Going back rebuilds the diagram.
	back, err := p.Seek(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, back.Layout.Links, 1)
	assert.NotSame(t, f.Diagram, back.Diagram)
}

func TestReplayRangeOverride(t *testing.T) {
	r, def := loadRelease(t)
	p := r.NewReplay(def, Options{Range: []float64{100, 500}})
	require.Equal(t, 9, p.Len())
	assert.Equal(t, tlio.OpRange, p.Ops()[0].Kind)

	f, err := p.Seek(context.Background(), p.Len())
	require.NoError(t, err)
	assert.Equal(t, 100.0, f.Layout.RangeStart)
	assert.Equal(t, 500.0, f.Layout.RangeEnd)
}

func TestReplayErrors(t *testing.T) {
	r, def := loadRelease(t)
	p := r.NewReplay(def, Options{})

	_, err := p.Seek(context.Background(), 9)
	assert.Error(t, err)
	_, err = p.Seek(context.Background(), -1)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Seek(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)

	bad := &tlio.Definition{
		Nodes: []tlio.NodeDef{{Label: "a", Start: timeRef(0), End: timeRef(1)}},
		Links: []tlio.LinkDef{{Source: "a", Target: "ghost", Flow: 1}},
	}
	_, err = r.NewReplay(bad, Options{}).Seek(context.Background(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2")
}

type stepRecorder struct {
	mu      sync.Mutex
	steps   []int
	adjusts []int
}

func (s *stepRecorder) OnStep(_ context.Context, i int, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, i)
}

func (s *stepRecorder) OnAdjust(_ context.Context, i int, _ float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adjusts = append(s.adjusts, i)
}

func TestReplayHooks(t *testing.T) {
	rec := &stepRecorder{}
	observability.SetStepHooks(rec)
	defer observability.Reset()

	r, def := loadRelease(t)
	_, err := r.NewReplay(def, Options{}).Seek(context.Background(), 6)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, rec.steps)
	assert.Equal(t, []int{5, 6}, rec.adjusts)
}
