package pipeline

import (
	"context"

	apperr "github.com/matzehuels/gitlanes/pkg/errors"
	"github.com/matzehuels/gitlanes/pkg/feed"
	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/render"
	"github.com/matzehuels/gitlanes/pkg/render/nodelink"
	"github.com/matzehuels/gitlanes/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
//
// commits is only needed for the dot format, which draws parent edges the
// Layout does not carry; it may be nil otherwise.
func Render(ctx context.Context, l graph.Layout, commits []feed.Commit, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatJSON:
			var jsonOpts []sink.JSONOption
			if opts.Top > 0 || opts.Rows > 0 {
				jsonOpts = append(jsonOpts, sink.WithJSONWindow(opts.Top, opts.Rows))
			}
			data, err = sink.RenderJSON(l, jsonOpts...)
		case FormatText:
			data = sink.RenderText(l,
				sink.WithTextWindow(opts.Top, opts.Rows),
				sink.WithTextMessages(!opts.NoMessages))
		case FormatDOT:
			data, err = renderDOT(l, commits, opts)
		case FormatPNG:
			data, err = sink.RenderPNG(l, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(l, sink.WithPDFSVGOptions(svgOpts...))
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			code := apperr.GetCode(err)
			if code == "" {
				code = apperr.ErrCodeInternal
			}
			return nil, apperr.Wrap(code, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderDOT(l graph.Layout, commits []feed.Commit, opts Options) ([]byte, error) {
	if commits == nil {
		return nil, apperr.New(apperr.ErrCodeUnsupported, "dot output needs the commit feed, not just a layout")
	}
	colors := make([]int, len(l.Commits))
	for i, c := range l.Commits {
		colors[i] = c.Color
	}
	dot := nodelink.ToDOT(commits, nodelink.Options{Colors: colors, Palette: opts.Palette})
	return []byte(dot), nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithWindow(opts.Top, opts.Rows),
		sink.WithMessages(!opts.NoMessages),
		sink.WithMetrics(render.Metrics{
			RowHeight: opts.RowHeight,
			LaneWidth: opts.LaneWidth,
			Padding:   render.DefaultMetrics.Padding,
		}),
	}
	if len(opts.Palette) > 0 {
		svgOpts = append(svgOpts, sink.WithPalette(opts.Palette))
	}
	if opts.DimUnmerged {
		svgOpts = append(svgOpts, sink.WithDimUnmerged())
	}
	return svgOpts
}

// RenderFromLayoutData renders output from serialized layout data.
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	l, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, err
	}
	return Render(ctx, l, nil, opts)
}
