package layout

import "github.com/matzehuels/sankeytimeline/pkg/path"

// Defaults for layout options.
const (
	DefaultHeight         = 600
	DefaultMaxNodeHeight  = 50
	DefaultNodePadding    = 10
	DefaultCurveWidth     = 50
	DefaultCurveHeight    = 30
	DefaultArcRadius      = 10
	DefaultCircularGap    = 4
	DefaultCircularMargin = 8
	DefaultMaxLinkWidth   = 25
	DefaultBaseLinkWidth  = 1
)

// Option configures [Build] and [Adjust].
type Option func(*config)

type config struct {
	height        float64
	maxNodeHeight float64
	nodePadding   float64
	dynamicHeight bool
	maxLinkWidth  float64
	baseLinkWidth float64
	path          path.Params
}

func newConfig(opts ...Option) config {
	c := config{
		height:        DefaultHeight,
		maxNodeHeight: DefaultMaxNodeHeight,
		nodePadding:   DefaultNodePadding,
		maxLinkWidth:  DefaultMaxLinkWidth,
		baseLinkWidth: DefaultBaseLinkWidth,
		path: path.Params{
			CurveWidth:     DefaultCurveWidth,
			CurveHeight:    DefaultCurveHeight,
			ArcRadius:      DefaultArcRadius,
			CircularGap:    DefaultCircularGap,
			CircularMargin: DefaultCircularMargin,
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// positive keeps the current value unless v is a usable size.
func positive(v float64, cur *float64) {
	if v > 0 && finite(v) {
		*cur = v
	}
}

func nonNegative(v float64, cur *float64) {
	if v >= 0 && finite(v) {
		*cur = v
	}
}

func WithHeight(h float64) Option         { return func(c *config) { positive(h, &c.height) } }
func WithMaxNodeHeight(h float64) Option  { return func(c *config) { positive(h, &c.maxNodeHeight) } }
func WithNodePadding(p float64) Option    { return func(c *config) { nonNegative(p, &c.nodePadding) } }
func WithDynamicHeight(on bool) Option    { return func(c *config) { c.dynamicHeight = on } }
func WithMaxLinkWidth(w float64) Option   { return func(c *config) { positive(w, &c.maxLinkWidth) } }
func WithBaseLinkWidth(w float64) Option  { return func(c *config) { nonNegative(w, &c.baseLinkWidth) } }
func WithCurveWidth(w float64) Option     { return func(c *config) { nonNegative(w, &c.path.CurveWidth) } }
func WithCurveHeight(h float64) Option    { return func(c *config) { nonNegative(h, &c.path.CurveHeight) } }
func WithArcRadius(r float64) Option      { return func(c *config) { nonNegative(r, &c.path.ArcRadius) } }
func WithCircularGap(g float64) Option    { return func(c *config) { nonNegative(g, &c.path.CircularGap) } }
func WithCircularMargin(m float64) Option { return func(c *config) { nonNegative(m, &c.path.CircularMargin) } }
