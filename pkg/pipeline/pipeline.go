// Package pipeline provides the load -> layout -> export pipeline for
// timeline definitions.
//
// The CLI (and anything else that turns definition files into pictures)
// goes through one [Runner], so logging, hooks and format handling behave
// the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate a TOML/YAML/JSON timeline definition
//  2. Layout: Replay it into a [sankey.Diagram] and compute the layout,
//     optionally converging with incremental adjustment first
//  3. Export: Produce artifacts (layout JSON, SVG, PNG, PDF, DOT, and the
//     normalized definition)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "build.toml",
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// [sankey.Diagram]: github.com/matzehuels/sankeytimeline/pkg/sankey.Diagram
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankeytimeline/pkg/graph"
	tlio "github.com/matzehuels/sankeytimeline/pkg/io"
	"github.com/matzehuels/sankeytimeline/pkg/layout"
	"github.com/matzehuels/sankeytimeline/pkg/sankey"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// MaxAdjustIterations bounds the incremental adjustment loop.
	MaxAdjustIterations = 100
)

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeSankey

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatTOML: true,
	FormatYAML: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeSankey:   true,
	graph.VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. Zero layout fields
// leave the definition's own [layout] table (or the library default) alone.
type Options struct {
	// Load options
	Source     string          `json:"source,omitempty"`
	Definition *tlio.Definition `json:"-"` // used instead of Source when set
	Strict     bool            `json:"strict,omitempty"`

	// Layout options
	VizType     string    `json:"viz_type,omitempty"`
	Range       []float64 `json:"range,omitempty"`
	Height      float64   `json:"height,omitempty"`
	NodeHeight  float64   `json:"node_height,omitempty"`
	NodePadding float64   `json:"node_padding,omitempty"`
	Dynamic     bool      `json:"dynamic,omitempty"`
	Iterations  int       `json:"iterations,omitempty"` // Adjust passes before the final layout

	// Export options
	Formats  []string `json:"formats,omitempty"`
	NoLabels bool     `json:"no_labels,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // nodelink labels with times and size
	Scale    float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Definition is the loaded timeline definition.
	Definition *tlio.Definition

	// Diagram is the constructed diagram, adjustments included.
	Diagram *sankey.Diagram

	// Layout is the final computed layout.
	Layout layout.Result

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// Cached reports that Artifacts came from the runner's cache.
	Cached bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	LinkCount     int
	CircularCount int
	LoadTime      time.Duration
	LayoutTime    time.Duration
	ExportTime    time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format, formatList())
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return fmt.Errorf("invalid viz_type: %q (must be one of: sankey, nodelink)", vizType)
	}
	return nil
}

func formatList() string {
	keys := make([]string, 0, len(ValidFormats))
	for k := range ValidFormats {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return fmt.Sprint(keys)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForLoad checks that there is something to load.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" && o.Definition == nil {
		return fmt.Errorf("source or definition is required")
	}
	o.setLoggerDefault()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	o.setLoggerDefault()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if len(o.Range) != 0 && len(o.Range) != 2 {
		return fmt.Errorf("range needs exactly 2 values, got %d", len(o.Range))
	}
	if o.Height < 0 || o.NodeHeight < 0 || o.NodePadding < 0 {
		return fmt.Errorf("height, node height and node padding must not be negative")
	}
	if o.Iterations < 0 || o.Iterations > MaxAdjustIterations {
		return fmt.Errorf("iterations must be between 0 and %d", MaxAdjustIterations)
	}
	return nil
}

// SetExportDefaults sets default values for exporting.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLoggerDefault()
}

// ValidateForExport validates and sets defaults for exporting.
func (o *Options) ValidateForExport() error {
	o.SetLayoutDefaults()
	o.SetExportDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults runs every stage's validation.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForExport()
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// LayoutOptions translates the non-zero layout fields into layout options.
func (o *Options) LayoutOptions() []layout.Option {
	var opts []layout.Option
	if o.Height > 0 {
		opts = append(opts, layout.WithHeight(o.Height))
	}
	if o.NodeHeight > 0 {
		opts = append(opts, layout.WithMaxNodeHeight(o.NodeHeight))
	}
	if o.NodePadding > 0 {
		opts = append(opts, layout.WithNodePadding(o.NodePadding))
	}
	if o.Dynamic {
		opts = append(opts, layout.WithDynamicHeight(true))
	}
	return opts
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
