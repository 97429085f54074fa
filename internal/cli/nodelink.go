package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeytimeline/pkg/graph"
	"github.com/matzehuels/sankeytimeline/pkg/pipeline"
)

// nodelinkCommand creates the nodelink command for the Graphviz topology view.
func (c *CLI) nodelinkCommand() *cobra.Command {
	var (
		opts   pipeline.Options
		svg    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "nodelink [file]",
		Short: "Show the flow topology as a Graphviz graph",
		Long: `Write the nodes and links of a definition as a Graphviz DOT graph.
Nodes on a circuit are drawn bold and circular links dashed, colored by
the side their arc takes in the Sankey layout.

With --svg the graph is rendered with the embedded Graphviz engine.`,
		Example: `  sankeytimeline nodelink build.toml | dot -Tpng > build.png
  sankeytimeline nodelink build.toml --svg --detailed -o build.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Source = args[0]
			opts.VizType = graph.VizTypeNodelink
			opts.Formats = []string{pipeline.FormatDOT}
			if svg {
				opts.Formats = []string{pipeline.FormatSVG}
			}

			result, err := c.newRunner().Execute(cmd.Context(), opts)
			if err != nil {
				return err
			}
			data := result.Artifacts[opts.Formats[0]]

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			c.Logger.Info("Wrote topology", "file", output, "circular", result.Stats.CircularCount)
			return nil
		},
	}

	cmd.Flags().BoolVar(&svg, "svg", false, "render to SVG instead of printing DOT")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show times and sizes in node labels")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject malformed times instead of degrading them")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
