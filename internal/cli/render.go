package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeytimeline/pkg/pipeline"
)

// renderCommand creates the render command for drawing definitions.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts    pipeline.Options
		lf      layoutFlags
		formats string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a timeline definition",
		Long: `Lay out a timeline definition and write it in one or more formats.

Formats: svg, png, pdf (pictures), json (layout), dot (Graphviz topology),
toml and yaml (the normalized definition). PNG and PDF need rsvg-convert
on the PATH.

One file is written per format, named after the input file or -o.`,
		Example: `  sankeytimeline render build.toml
  sankeytimeline render build.toml -f svg,png --scale 3
  sankeytimeline render build.yaml -t nodelink --detailed -o out/topology`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := lf.apply(&opts); err != nil {
				return err
			}
			opts.Source = args[0]
			opts.Formats = parseFormats(formats)
			return c.runRender(cmd, opts, basePath(output, args[0]), noCache)
		},
	}

	addLayoutFlags(cmd, &opts, &lf)
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output formats, comma separated (default: svg)")
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", pipeline.DefaultVizType, "visualization type: sankey or nodelink")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "omit node labels from the picture")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show times and sizes in nodelink labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(cmd *cobra.Command, opts pipeline.Options, base string, noCache bool) error {
	runner, err := c.newCachedRunner(cmd.Context(), noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	out := cmd.ErrOrStderr()
	spinner := newSpinner(cmd.Context(), out, "Rendering "+opts.Source+"...")
	spinner.Start()

	result, err := runner.Execute(cmd.Context(), opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}

	spinner.Update("Writing files...")
	paths, err := writeArtifacts(base, result.Artifacts)
	if err != nil {
		spinner.StopWithError("Write failed")
		return err
	}

	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", opts.Source))
	printStats(out, result.Stats.NodeCount, result.Stats.LinkCount, result.Stats.CircularCount, result.Cached)
	for _, p := range paths {
		printFile(out, p)
	}
	return nil
}

// writeArtifacts writes base.<format> for every artifact and returns the
// paths in format order.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
