// Package cli implements the sankeytimeline command-line interface.
//
// # Commands
//
//   - layout: Compute a layout and write it as layout JSON
//   - render: Draw a definition as SVG, PNG or PDF (or export DOT/JSON/TOML/YAML)
//   - inspect: Print the nodes and links of a computed layout as tables
//   - nodelink: Draw the flow topology with Graphviz, circular links dashed
//   - step: Replay a definition one construction step at a time
//   - cache: Clear or locate the rendered-artifact cache
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging through one
// shared charmbracelet/log logger.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeytimeline/pkg/buildinfo"
	"github.com/matzehuels/sankeytimeline/pkg/cache"
	"github.com/matzehuels/sankeytimeline/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "sankeytimeline"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sankey timelines: flows between time-bounded nodes, loops included",
		Long:         `sankeytimeline lays out Sankey diagrams whose nodes sit on a time axis. Links that close a cycle are routed around the diagram as arcs, and the layout can be refined step by step.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.nodelinkCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates an uncached pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// newCachedRunner creates a runner backed by the artifact cache: Redis when
// $SANKEYTIMELINE_REDIS_URL is set, the cache directory otherwise. Callers
// close the runner's cache when done.
func (c *CLI) newCachedRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	r := pipeline.NewRunner(c.Logger)
	if noCache {
		return r, nil
	}
	if url := os.Getenv(redisURLEnv); url != "" {
		rc, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			return nil, err
		}
		r.Cache = rc
		return r, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return r, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return r, nil
	}
	r.Cache = fc
	return r, nil
}

// =============================================================================
// Paths
// =============================================================================

// redisURLEnv names the environment variable selecting a Redis cache.
const redisURLEnv = "SANKEYTIMELINE_REDIS_URL"

// cacheDir returns the cache directory using XDG standard (~/.cache/sankeytimeline/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Shared Flags
// =============================================================================

// layoutFlags are the layout settings every command accepts.
type layoutFlags struct {
	rangeStr string
	strict   bool
}

func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options, lf *layoutFlags) {
	cmd.Flags().StringVar(&lf.rangeStr, "range", "", "pixel range of the time axis as start,end (default: definition or 0,800)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "diagram height (default: definition or 600)")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", 0, "maximum node height")
	cmd.Flags().Float64Var(&opts.NodePadding, "node-padding", 0, "vertical gap between rows")
	cmd.Flags().BoolVar(&opts.Dynamic, "dynamic", false, "scale node height by node size")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", 0, "incremental adjustment passes before the final layout")
	cmd.Flags().BoolVar(&lf.strict, "strict", false, "reject malformed times instead of degrading them")
}

// apply copies the parsed flag values into opts.
func (lf *layoutFlags) apply(opts *pipeline.Options) error {
	r, err := parseRange(lf.rangeStr)
	if err != nil {
		return err
	}
	opts.Range = r
	opts.Strict = lf.strict
	return nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseRange parses "start,end". An empty string means no override.
func parseRange(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, &flagError{flag: "range", value: s, want: "start,end"}
	}
	out := make([]float64, 2)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, &flagError{flag: "range", value: s, want: "two numbers"}
		}
		out[i] = v
	}
	return out, nil
}

type flagError struct {
	flag, value, want string
}

func (e *flagError) Error() string {
	return "invalid --" + e.flag + " " + strconv.Quote(e.value) + ": want " + e.want
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. A known format
// extension on output is stripped as well.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
