package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/sankeytimeline/pkg/graph"
	tlio "github.com/matzehuels/sankeytimeline/pkg/io"
	"github.com/matzehuels/sankeytimeline/pkg/layout"
	"github.com/matzehuels/sankeytimeline/pkg/observability"
	"github.com/matzehuels/sankeytimeline/pkg/render"
	"github.com/matzehuels/sankeytimeline/pkg/render/nodelink"
	"github.com/matzehuels/sankeytimeline/pkg/render/sink"
	"github.com/matzehuels/sankeytimeline/pkg/sankey"
)

// Export produces one artifact per requested format.
//
//   - json: the layout document ([graph.Layout]); for nodelink it carries
//     the DOT source instead of geometry
//   - svg, png, pdf: the Sankey picture, or the Graphviz topology view for
//     nodelink
//   - dot: the Graphviz source of the topology view
//   - toml, yaml: the diagram written back as a definition
func (r *Runner) Export(ctx context.Context, d *sankey.Diagram, res layout.Result, opts Options) (artifacts map[string][]byte, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForExport(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), err) }()

	var (
		dot string
		svg []byte
	)
	lazyDOT := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(d.Timeline(), nodelink.Options{Detailed: opts.Detailed})
		}
		return dot
	}
	lazySVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		if opts.IsNodelink() {
			out, err := nodelink.RenderSVGContext(ctx, lazyDOT())
			if err != nil {
				return nil, err
			}
			svg = out
		} else {
			svg = sink.RenderSVG(res, svgOptions(opts)...)
		}
		return svg, nil
	}

	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(exportLayout(res, opts, lazyDOT))
		case FormatDOT:
			data = []byte(lazyDOT())
		case FormatSVG, FormatPNG, FormatPDF:
			data, err = lazySVG()
			if err == nil {
				data, err = render.ConvertContext(ctx, data, render.Format(format), opts.Scale)
			}
		case FormatTOML, FormatYAML:
			var buf bytes.Buffer
			err = tlio.WriteDefinition(&buf, tlio.FromTimeline(d.Timeline()), tlio.Format(format))
			data = buf.Bytes()
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		artifacts[format] = data
		opts.Logger.Debug("exported artifact", "format", format, "bytes", len(data))
	}
	return artifacts, nil
}

func exportLayout(res layout.Result, opts Options, dot func() string) graph.Layout {
	l := graph.FromResult(res)
	if opts.IsNodelink() {
		return graph.Layout{
			VizType: graph.VizTypeNodelink,
			Width:   l.Width,
			Height:  l.Height,
			DOT:     dot(),
			Engine:  "dot",
		}
	}
	return l
}

func svgOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.NoLabels {
		out = append(out, sink.WithoutLabels())
	}
	return out
}
