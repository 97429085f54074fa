package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeytimeline/pkg/layout"
	"github.com/matzehuels/sankeytimeline/pkg/pipeline"
)

// inspectCommand creates the inspect command for printing computed layouts.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		opts pipeline.Options
		lf   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the computed nodes and links of a definition",
		Long: `Lay out a timeline definition and print its nodes and links as tables:
rows, x ranges, heights, link widths and which links are circular.`,
		Example: `  sankeytimeline inspect build.toml
  sankeytimeline inspect build.toml --dynamic --node-padding 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := lf.apply(&opts); err != nil {
				return err
			}
			opts.Source = args[0]

			runner := c.newRunner()
			def, err := runner.Load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			_, res, err := runner.Layout(cmd.Context(), def, opts)
			if err != nil {
				return err
			}
			printLayout(cmd.OutOrStdout(), args[0], res)
			return nil
		},
	}

	addLayoutFlags(cmd, &opts, &lf)

	return cmd
}

// printLayout writes a summary block followed by the node and link tables.
func printLayout(w io.Writer, title string, res layout.Result) {
	fmt.Fprintln(w, StyleTitle.Render(title))
	printKeyValue(w, "range", fmt.Sprintf("%s .. %s", num(res.RangeStart), num(res.RangeEnd)))
	printKeyValue(w, "time", fmt.Sprintf("%s .. %s", num(res.MinTime), num(res.MaxTime)))
	printKeyValue(w, "height", num(res.Height))
	printKeyValue(w, "max flow", num(res.MaxFlow))
	if res.DegenerateScale {
		printKeyValue(w, "note", "all key times coincide")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, nodeTable(res))
	fmt.Fprintln(w, linkTable(res))
}

func nodeTable(res layout.Result) *table.Table {
	rows := make([][]string, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		circuit := ""
		if n.PartOfCircuit {
			circuit = iconCircular
		}
		rows = append(rows, []string{
			strconv.Itoa(n.ID), n.Label, strconv.Itoa(n.Row),
			num(n.X), num(n.X1), num(n.Y), num(n.Height), num(n.Size), circuit,
		})
	}
	return styledTable(rows, nil, "ID", "Node", "Row", "X", "X1", "Y", "Height", "Size", "")
}

func linkTable(res layout.Result) *table.Table {
	labels := make(map[int]string, len(res.Nodes))
	for _, n := range res.Nodes {
		labels[n.ID] = n.Label
	}
	rows := make([][]string, 0, len(res.Links))
	sides := make([]string, 0, len(res.Links))
	for _, l := range res.Links {
		side := ""
		if l.Circular {
			side = l.Side.String()
		}
		sides = append(sides, side)
		rows = append(rows, []string{
			strconv.Itoa(l.ID), labels[l.Source], labels[l.Target],
			num(l.Flow), num(l.Width), side,
		})
	}
	return styledTable(rows, sides, "ID", "Source", "Target", "Flow", "Width", "Arc")
}

// styledTable builds a rounded table. When sides is set, the last column of
// each row is colored by arc side.
func styledTable(rows [][]string, sides []string, headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	last := len(headers) - 1

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == last && sides != nil && row < len(sides) && sides[row] != "":
				return sideStyle(sides[row]).Padding(0, 1)
			case col == 0:
				return cellStyle.Foreground(colorGray)
			}
			return cellStyle
		})
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
