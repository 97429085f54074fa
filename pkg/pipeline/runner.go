package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankeytimeline/pkg/buildinfo"
	"github.com/matzehuels/sankeytimeline/pkg/cache"
	tlio "github.com/matzehuels/sankeytimeline/pkg/io"
	"github.com/matzehuels/sankeytimeline/pkg/layout"
	"github.com/matzehuels/sankeytimeline/pkg/observability"
	"github.com/matzehuels/sankeytimeline/pkg/sankey"
)

// Runner executes the pipeline with a shared artifact cache and logger.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options as long as the cache is safe for concurrent use.
type Runner struct {
	Logger *log.Logger

	// Cache holds rendered artifact bundles keyed by definition content and
	// options. It is a [cache.NullCache] unless set.
	Cache cache.Cache

	// TTL is the lifetime of cached bundles; zero means [cache.DefaultTTL].
	TTL time.Duration
}

// NewRunner creates a runner with caching disabled. A nil logger discards
// output.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Logger: logger, Cache: cache.NewNullCache()}
}

// Execute runs the complete load -> layout -> export pipeline.
//
// When the runner's cache holds artifacts for the same definition content
// and options, layout and export are skipped: the result then carries the
// cached artifacts and counts, Cached is set and Diagram and Layout are
// left empty.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	def, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Definition = def
	result.Stats.LoadTime = time.Since(loadStart)

	key := r.artifactKey(def, opts)
	if r.loadCached(ctx, key, result) {
		r.Logger.Info("using cached outputs", "formats", opts.Formats)
		return result, nil
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	d, res, err := r.Layout(ctx, def, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Diagram, result.Layout = d, res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(res.Nodes)
	result.Stats.LinkCount = len(res.Links)
	for _, l := range res.Links {
		if l.Circular {
			result.Stats.CircularCount++
		}
	}

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"links", result.Stats.LinkCount,
		"circular", result.Stats.CircularCount,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Export
	exportStart := time.Now()
	artifacts, err := r.Export(ctx, d, res, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Info("exported outputs",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	r.storeCached(ctx, key, result)
	return result, nil
}

// Load reads the definition named by opts.Source, or returns
// opts.Definition when it is set.
func (r *Runner) Load(ctx context.Context, opts Options) (def *tlio.Definition, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Definition != nil {
		def = opts.Definition
		if err := def.Validate(); err != nil {
			return nil, err
		}
	} else {
		hooks := observability.Pipeline()
		hooks.OnLoadStart(ctx, opts.Source)
		start := time.Now()
		defer func() {
			var nodes, links int
			if def != nil {
				nodes, links = len(def.Nodes), len(def.Links)
			}
			hooks.OnLoadComplete(ctx, opts.Source, nodes, links, time.Since(start), err)
		}()

		def, err = tlio.LoadDefinition(opts.Source)
		if err != nil {
			return nil, err
		}
	}
	if opts.Strict {
		if err := def.ValidateStrict(); err != nil {
			return nil, err
		}
	}
	opts.Logger.Debug("loaded definition", "source", opts.Source, "nodes", len(def.Nodes), "links", len(def.Links))
	return def, nil
}

// NewDiagram creates an empty diagram configured from the definition's
// layout table and the option overrides, in that order.
func (r *Runner) NewDiagram(def *tlio.Definition, opts Options) *sankey.Diagram {
	r.applyLogger(&opts)
	layoutOpts := append(def.LayoutOptions(), opts.LayoutOptions()...)
	dopts := []sankey.Option{sankey.WithLogger(opts.Logger), sankey.WithLayout(layoutOpts...)}
	if opts.Strict {
		dopts = append(dopts, sankey.WithStrictTimes())
	}
	return sankey.New(dopts...)
}

// Layout replays the definition into a new diagram and computes its layout.
// With opts.Iterations > 0 it first runs that many incremental adjustments.
func (r *Runner) Layout(ctx context.Context, def *tlio.Definition, opts Options) (d *sankey.Diagram, res layout.Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, layout.Result{}, err
	}

	mode := "build"
	if opts.Iterations > 0 {
		mode = "adjust"
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, mode, len(def.Nodes))
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(ctx, mode, time.Since(start), err) }()

	d = r.NewDiagram(def, opts)
	if err := def.Apply(d); err != nil {
		return nil, layout.Result{}, err
	}
	if len(opts.Range) == 2 {
		d.SetRange(opts.Range[0], opts.Range[1])
	}

	for i := 0; i < opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, layout.Result{}, err
		}
		moved := totalShift(d.Adjust())
		opts.Logger.Debug("adjusted layout", "iteration", i+1, "shift", moved)
		if moved == 0 {
			break
		}
	}
	return d, d.CalculateLayout(), nil
}

// totalShift sums the absolute node shifts of one layout run.
func totalShift(res layout.Result) float64 {
	var sum float64
	for _, n := range res.Nodes {
		if n.Shift < 0 {
			sum -= n.Shift
		} else {
			sum += n.Shift
		}
	}
	return sum
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// =============================================================================
// Artifact Cache
// =============================================================================

// cachedBundle is the cached form of one Execute run.
type cachedBundle struct {
	Nodes     int               `json:"nodes"`
	Links     int               `json:"links"`
	Circular  int               `json:"circular"`
	Artifacts map[string][]byte `json:"artifacts"`
}

// artifactKey derives the cache key of a run. The source path is not part
// of the key, only the definition content. An empty key disables caching,
// which happens when the definition cannot be encoded (NaN times).
func (r *Runner) artifactKey(def *tlio.Definition, opts Options) string {
	content, err := json.Marshal(def)
	if err != nil {
		opts.Logger.Debug("definition not cacheable", "error", err)
		return ""
	}
	settings := opts
	settings.Source = ""
	key, err := cache.ArtifactKey(content, struct {
		Version string  `json:"version"`
		Options Options `json:"options"`
	}{buildinfo.Version, settings})
	if err != nil {
		opts.Logger.Debug("options not cacheable", "error", err)
		return ""
	}
	return key
}

func (r *Runner) loadCached(ctx context.Context, key string, result *Result) bool {
	if key == "" || r.Cache == nil {
		return false
	}
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return false
	}
	if !ok {
		return false
	}
	var b cachedBundle
	if err := json.Unmarshal(data, &b); err != nil {
		r.Logger.Debug("dropping unreadable cache entry", "error", err)
		_ = r.Cache.Delete(ctx, key)
		return false
	}
	result.Artifacts = b.Artifacts
	result.Stats.NodeCount = b.Nodes
	result.Stats.LinkCount = b.Links
	result.Stats.CircularCount = b.Circular
	result.Cached = true
	return true
}

func (r *Runner) storeCached(ctx context.Context, key string, result *Result) {
	if key == "" || r.Cache == nil {
		return
	}
	data, err := json.Marshal(cachedBundle{
		Nodes:     result.Stats.NodeCount,
		Links:     result.Stats.LinkCount,
		Circular:  result.Stats.CircularCount,
		Artifacts: result.Artifacts,
	})
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	}
}
