package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeytimeline/pkg/pipeline"
)

// layoutCommand creates the layout command for computing layout JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		opts    pipeline.Options
		lf      layoutFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute the layout of a timeline definition",
		Long: `Compute node rectangles and link paths for a TOML, YAML or JSON timeline
definition and write them as layout JSON.

The JSON can be fed back to other tools or drawn with the render command's
json format. Without -o the layout is written to stdout.`,
		Example: `  sankeytimeline layout build.toml
  sankeytimeline layout build.toml --range 0,1200 --height 400 -o build.json
  sankeytimeline layout build.toml --iterations 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := lf.apply(&opts); err != nil {
				return err
			}
			opts.Source = args[0]
			opts.VizType = pipeline.DefaultVizType
			opts.Formats = []string{pipeline.FormatJSON}
			return c.runLayout(cmd, opts, output, noCache)
		},
	}

	addLayoutFlags(cmd, &opts, &lf)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// runLayout executes the pipeline and writes the layout JSON.
func (c *CLI) runLayout(cmd *cobra.Command, opts pipeline.Options, output string, noCache bool) error {
	prog := newProgress(c.Logger)

	runner, err := c.newCachedRunner(cmd.Context(), noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	result, err := runner.Execute(cmd.Context(), opts)
	if err != nil {
		return err
	}
	data := result.Artifacts[pipeline.FormatJSON]

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	prog.done(fmt.Sprintf("Laid out %d nodes", result.Stats.NodeCount), "file", output)
	return nil
}
