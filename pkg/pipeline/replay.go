package pipeline

import (
	"context"
	"fmt"

	tlio "github.com/matzehuels/sankeytimeline/pkg/io"
	"github.com/matzehuels/sankeytimeline/pkg/layout"
	"github.com/matzehuels/sankeytimeline/pkg/observability"
	"github.com/matzehuels/sankeytimeline/pkg/sankey"
)

// Replay rebuilds a definition one construction step at a time: a range
// change, a node or a link per step. Every link step clears the accumulated
// node offsets and runs one incremental adjustment, so each frame shows the
// diagram the way an interactive editor would after that call.
//
// Moving forward applies the missing steps to the current diagram; moving
// back rebuilds from scratch. A Replay is not safe for concurrent use.
type Replay struct {
	runner  *Runner
	def     *tlio.Definition
	opts    Options
	ops     []tlio.Op
	d       *sankey.Diagram
	applied int
}

// Frame is the state of a replay after a number of steps.
type Frame struct {
	Step    int    // steps applied
	Total   int    // steps in the definition
	Op      string // description of the last applied step, empty at step 0
	Shift   float64
	Diagram *sankey.Diagram
	Layout  layout.Result
}

// NewReplay prepares a replay of def. A range override in opts replaces the
// definition's own range step.
func (r *Runner) NewReplay(def *tlio.Definition, opts Options) *Replay {
	r.applyLogger(&opts)
	ops := def.Ops()
	if len(opts.Range) == 2 {
		rng := tlio.Op{Kind: tlio.OpRange, Range: [2]float64{opts.Range[0], opts.Range[1]}}
		if len(ops) > 0 && ops[0].Kind == tlio.OpRange {
			ops[0] = rng
		} else {
			ops = append([]tlio.Op{rng}, ops...)
		}
	}
	return &Replay{runner: r, def: def, opts: opts, ops: ops}
}

// Len returns the number of steps.
func (p *Replay) Len() int { return len(p.ops) }

// Ops returns the steps in replay order.
func (p *Replay) Ops() []tlio.Op { return p.ops }

// Seek moves the replay to the state after the first n steps and lays it out.
func (p *Replay) Seek(ctx context.Context, n int) (Frame, error) {
	if n < 0 || n > len(p.ops) {
		return Frame{}, fmt.Errorf("step %d out of range [0, %d]", n, len(p.ops))
	}
	if p.d == nil || n < p.applied {
		p.d = p.runner.NewDiagram(p.def, p.opts)
		p.applied = 0
	}

	hooks := observability.Step()
	var shift float64
	for p.applied < n {
		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}
		op := p.ops[p.applied]
		if err := op.Apply(p.d); err != nil {
			return Frame{}, fmt.Errorf("step %d: %w", p.applied+1, err)
		}
		p.applied++
		hooks.OnStep(ctx, p.applied, op.String())

		if op.Kind == tlio.OpLink {
			p.d.ClearAdjustments()
			shift = totalShift(p.d.Adjust())
			hooks.OnAdjust(ctx, p.applied, shift)
			p.opts.Logger.Debug("replayed link", "step", p.applied, "shift", shift)
		}
	}

	f := Frame{
		Step:    n,
		Total:   len(p.ops),
		Shift:   shift,
		Diagram: p.d,
		Layout:  p.d.Graph(),
	}
	if n > 0 {
		f.Op = p.ops[n-1].String()
	}
	return f, nil
}
