// Package sankey is the construction surface for Sankey timelines.
//
// A [Diagram] wraps a [timeline.Timeline] and the layout solver behind the
// small API a renderer needs: create nodes and links, set the pixel range,
// compute or fetch the layout, and step through incremental adjustment.
//
//	d := sankey.New(sankey.WithLogger(logger))
//	fetch, _ := d.CreateNode("fetch", timeline.Interval(0, 5))
//	d.CreateNode("build", timeline.Interval(4, 12))
//	d.CreateLink(fetch, timeline.Label("build"), 3)
//	res := d.CalculateLayout()
//
// Malformed time input is accepted and degraded (see package timeline) and
// logged as a warning. [WithStrictTimes] rejects it with INVALID_TIME_RANGE
// instead.
package sankey

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankeytimeline/pkg/layout"
	"github.com/matzehuels/sankeytimeline/pkg/timeline"
)

// Option configures a [Diagram].
type Option func(*Diagram)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(d *Diagram) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithLayout sets options passed to every layout computation.
func WithLayout(opts ...layout.Option) Option {
	return func(d *Diagram) { d.layoutOpts = append(d.layoutOpts, opts...) }
}

// WithStrictTimes makes CreateNode fail on malformed time input.
func WithStrictTimes() Option { return func(d *Diagram) { d.strict = true } }

// Diagram is a Sankey timeline under construction. It is not safe for
// concurrent use.
type Diagram struct {
	tl         *timeline.Timeline
	logger     *log.Logger
	layoutOpts []layout.Option
	strict     bool

	current *layout.Result // nil when the graph changed since the last layout
}

// New creates an empty diagram.
func New(opts ...Option) *Diagram {
	d := &Diagram{
		tl:     timeline.New(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Timeline exposes the underlying graph model.
func (d *Diagram) Timeline() *timeline.Timeline { return d.tl }

// CreateNode adds a node. The error is only ever non-nil in strict mode.
func (d *Diagram) CreateNode(label string, ts timeline.TimeSpec) (*timeline.Node, error) {
	if err := ts.Validate(); err != nil {
		if d.strict {
			return nil, err
		}
		d.logger.Warn("degrading malformed node time", "label", label, "err", err)
	}
	n := d.tl.CreateNode(label, ts)
	d.current = nil
	start, end := n.KeyTimes()
	d.logger.Debug("created node", "id", n.ID, "label", label, "start", start, "end", end)
	return n, nil
}

// CreateLink connects two nodes given as handles, ids or labels.
func (d *Diagram) CreateLink(source, target timeline.Ref, flow float64) (*timeline.Link, error) {
	l, err := d.tl.CreateLink(source, target, flow)
	if err != nil {
		return nil, err
	}
	d.current = nil
	if l.Circular {
		d.logger.Debug("created circular link", "id", l.ID, "source", l.Source, "target", l.Target, "side", l.Side)
	} else {
		d.logger.Debug("created link", "id", l.ID, "source", l.Source, "target", l.Target, "flow", l.Flow)
	}
	return l, nil
}

// SetRange sets the pixel range the time axis maps onto.
func (d *Diagram) SetRange(start, end float64) {
	d.tl.SetRange(start, end)
	d.current = nil
}

// CalculateLayout recomputes the layout from the current graph.
func (d *Diagram) CalculateLayout() layout.Result {
	r := layout.Build(d.tl, d.layoutOpts...)
	d.logResult("computed layout", r)
	d.current = &r
	return r
}

// Graph returns the most recent layout, computing one if the graph changed.
func (d *Diagram) Graph() layout.Result {
	if d.current == nil {
		return d.CalculateLayout()
	}
	return *d.current
}

// Adjust lays the graph out and keeps the node/link shifts it found as
// persistent node offsets.
func (d *Diagram) Adjust() layout.Result {
	r := layout.Adjust(d.tl, d.layoutOpts...)
	d.logResult("adjusted layout", r)
	d.current = nil
	return r
}

// ClearAdjustments drops all accumulated node offsets.
func (d *Diagram) ClearAdjustments() {
	d.tl.ClearAdjustments()
	d.current = nil
}

func (d *Diagram) logResult(msg string, r layout.Result) {
	if r.DegenerateScale && len(r.Nodes) > 0 {
		d.logger.Warn("all key times coincide, x collapsed to range start", "time", r.MinTime)
	}
	if r.DegenerateFlow {
		d.logger.Warn("no positive flow, links use base width")
	}
	d.logger.Debug(msg, "nodes", len(r.Nodes), "links", len(r.Links), "height", r.Height)
}
