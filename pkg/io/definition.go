package io

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sankeytimeline/pkg/layout"
	"github.com/matzehuels/sankeytimeline/pkg/sankey"
	"github.com/matzehuels/sankeytimeline/pkg/timeline"
)

// Definition is a timeline definition document.
type Definition struct {
	Layout *LayoutDef `json:"layout,omitempty" toml:"layout,omitempty" yaml:"layout,omitempty"`
	Nodes  []NodeDef  `json:"nodes" toml:"nodes" yaml:"nodes" validate:"required,min=1,dive"`
	Links  []LinkDef  `json:"links,omitempty" toml:"links,omitempty" yaml:"links,omitempty" validate:"dive"`
}

// LayoutDef overrides layout settings.
type LayoutDef struct {
	Range       []float64 `json:"range,omitempty" toml:"range,omitempty" yaml:"range,omitempty" validate:"omitempty,len=2"`
	Height      float64   `json:"height,omitempty" toml:"height,omitempty" yaml:"height,omitempty" validate:"gte=0"`
	NodeHeight  float64   `json:"node_height,omitempty" toml:"node_height,omitempty" yaml:"node_height,omitempty" validate:"gte=0"`
	NodePadding float64   `json:"node_padding,omitempty" toml:"node_padding,omitempty" yaml:"node_padding,omitempty" validate:"gte=0"`
	Dynamic     bool      `json:"dynamic,omitempty" toml:"dynamic,omitempty" yaml:"dynamic,omitempty"`
}

// NodeDef is one node. Either Start (with End) or Mean (with Std) is set.
type NodeDef struct {
	Label string `json:"label" toml:"label" yaml:"label" validate:"required,max=256"`
	Start *Time  `json:"start,omitempty" toml:"start,omitempty" yaml:"start,omitempty"`
	End   *Time  `json:"end,omitempty" toml:"end,omitempty" yaml:"end,omitempty"`
	Mean  *Time  `json:"mean,omitempty" toml:"mean,omitempty" yaml:"mean,omitempty"`
	Std   *Time  `json:"std,omitempty" toml:"std,omitempty" yaml:"std,omitempty"`
}

// LinkDef is one link between labelled nodes. SourceID and TargetID, when
// set, pick an endpoint by its position in Nodes and take precedence over
// the label; they disambiguate nodes that share a label.
type LinkDef struct {
	Source   string  `json:"source" toml:"source" yaml:"source" validate:"required"`
	Target   string  `json:"target" toml:"target" yaml:"target" validate:"required"`
	SourceID *int    `json:"source_id,omitempty" toml:"source_id,omitempty" yaml:"source_id,omitempty" validate:"omitempty,gte=0"`
	TargetID *int    `json:"target_id,omitempty" toml:"target_id,omitempty" yaml:"target_id,omitempty" validate:"omitempty,gte=0"`
	Flow     float64 `json:"flow" toml:"flow" yaml:"flow" validate:"gte=0"`
}

// Refs returns the endpoint references of the link.
func (l LinkDef) Refs() (source, target timeline.Ref) {
	return endpoint(l.Source, l.SourceID), endpoint(l.Target, l.TargetID)
}

func endpoint(label string, id *int) timeline.Ref {
	if id != nil {
		return timeline.NodeID(*id)
	}
	return timeline.Label(label)
}

// TimeSpec converts the definition into a time spec. A missing end or
// unparsable value becomes NaN.
func (n NodeDef) TimeSpec() timeline.TimeSpec {
	if n.Mean != nil {
		return timeline.Distribution(n.Mean.Float(), n.Std.orZero())
	}
	return timeline.Interval(n.Start.Float(), n.End.Float())
}

// LayoutOptions returns the layout options the document asks for.
func (def *Definition) LayoutOptions() []layout.Option {
	if def.Layout == nil {
		return nil
	}
	l := def.Layout
	var opts []layout.Option
	if l.Height > 0 {
		opts = append(opts, layout.WithHeight(l.Height))
	}
	if l.NodeHeight > 0 {
		opts = append(opts, layout.WithMaxNodeHeight(l.NodeHeight))
	}
	if l.NodePadding > 0 {
		opts = append(opts, layout.WithNodePadding(l.NodePadding))
	}
	if l.Dynamic {
		opts = append(opts, layout.WithDynamicHeight(true))
	}
	return opts
}

// Apply replays the whole document into d: range first, then nodes and
// links in document order.
func (def *Definition) Apply(d *sankey.Diagram) error {
	for _, op := range def.Ops() {
		if err := op.Apply(d); err != nil {
			return err
		}
	}
	return nil
}

// OpKind is the kind of one construction step.
type OpKind int

const (
	OpRange OpKind = iota
	OpNode
	OpLink
)

// Op is a single construction step of a definition, used to replay a
// diagram one call at a time.
type Op struct {
	Kind  OpKind
	Range [2]float64
	Node  NodeDef
	Link  LinkDef
}

func (o Op) String() string {
	switch o.Kind {
	case OpRange:
		return fmt.Sprintf("range [%g, %g]", o.Range[0], o.Range[1])
	case OpNode:
		s, e := o.Node.TimeSpec().KeyTimes()
		return fmt.Sprintf("node %q [%g, %g]", o.Node.Label, s, e)
	default:
		return fmt.Sprintf("link %s -> %s (%g)", o.Link.Source, o.Link.Target, o.Link.Flow)
	}
}

// Apply performs the step on d.
func (o Op) Apply(d *sankey.Diagram) error {
	switch o.Kind {
	case OpRange:
		d.SetRange(o.Range[0], o.Range[1])
		return nil
	case OpNode:
		_, err := d.CreateNode(o.Node.Label, o.Node.TimeSpec())
		if err != nil {
			return fmt.Errorf("node %q: %w", o.Node.Label, err)
		}
		return nil
	default:
		src, tgt := o.Link.Refs()
		_, err := d.CreateLink(src, tgt, o.Link.Flow)
		if err != nil {
			return fmt.Errorf("link %s->%s: %w", o.Link.Source, o.Link.Target, err)
		}
		return nil
	}
}

// Ops lists the construction steps of the document.
func (def *Definition) Ops() []Op {
	ops := make([]Op, 0, len(def.Nodes)+len(def.Links)+1)
	if def.Layout != nil && len(def.Layout.Range) == 2 {
		ops = append(ops, Op{Kind: OpRange, Range: [2]float64{def.Layout.Range[0], def.Layout.Range[1]}})
	}
	for _, n := range def.Nodes {
		ops = append(ops, Op{Kind: OpNode, Node: n})
	}
	for _, l := range def.Links {
		ops = append(ops, Op{Kind: OpLink, Link: l})
	}
	return ops
}

// FromTimeline captures a timeline as a definition. Nodes are written with
// their normalized times. Link endpoints whose label is shared by several
// nodes also carry the node id.
func FromTimeline(tl *timeline.Timeline) *Definition {
	def := &Definition{}
	if s, e := tl.Range(); s != timeline.DefaultRangeStart || e != timeline.DefaultRangeEnd {
		def.Layout = &LayoutDef{Range: []float64{s, e}}
	}
	labels := make(map[string]int)
	for _, n := range tl.Nodes() {
		labels[n.Label]++
		nd := NodeDef{Label: n.Label}
		if n.Times.Mode == timeline.TimeDistribution {
			nd.Mean, nd.Std = timePtr(n.Times.Mean), timePtr(n.Times.StdDev)
		} else {
			nd.Start, nd.End = timePtr(n.Times.Start), timePtr(n.Times.End)
		}
		def.Nodes = append(def.Nodes, nd)
	}
	for _, l := range tl.Links() {
		src, _ := tl.Node(l.Source)
		tgt, _ := tl.Node(l.Target)
		ld := LinkDef{Source: src.Label, Target: tgt.Label, Flow: l.Flow}
		if labels[src.Label] > 1 {
			ld.SourceID = intPtr(src.ID)
		}
		if labels[tgt.Label] > 1 {
			ld.TargetID = intPtr(tgt.ID)
		}
		def.Links = append(def.Links, ld)
	}
	return def
}

func intPtr(v int) *int { return &v }

// Time is a time value that decodes from numbers or clock strings.
type Time float64

func timePtr(v float64) *Time {
	t := Time(v)
	return &t
}

// Float returns the value, or NaN for a missing time.
func (t *Time) Float() float64 {
	if t == nil {
		return math.NaN()
	}
	return float64(*t)
}

func (t *Time) orZero() float64 {
	if t == nil {
		return 0
	}
	return float64(*t)
}

// UnmarshalJSON accepts numbers and strings.
func (t *Time) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	*t = Time(timeline.ParseTime(s))
	return nil
}

// UnmarshalYAML accepts any scalar.
func (t *Time) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: time must be a scalar", value.Line)
	}
	*t = Time(timeline.ParseTime(value.Value))
	return nil
}

// UnmarshalTOML accepts integers, floats, strings and times. A local time
// such as 01:30:00 counts seconds from midnight; a full date-time becomes
// Unix seconds.
func (t *Time) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		*t = Time(x)
	case float64:
		*t = Time(x)
	case string:
		*t = Time(timeline.ParseTime(x))
	case time.Time:
		if x.Year() == 0 {
			*t = Time(float64(x.Hour()*3600+x.Minute()*60+x.Second()) + float64(x.Nanosecond())/float64(time.Second))
		} else {
			*t = Time(float64(x.UnixNano()) / float64(time.Second))
		}
	default:
		return fmt.Errorf("unsupported time value %v (%T)", v, v)
	}
	return nil
}

// MarshalTOML writes the value as a TOML float or integer.
func (t Time) MarshalTOML() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(t), 'f', -1, 64)), nil
}
