package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitlanes/pkg/pipeline"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	feedFlags
	output     string
	formats    string
	layout     string // render a saved layout instead of loading a feed
	top        int
	rows       int
	noMessages bool
	dim        bool
	rowHeight  float64
	laneWidth  float64
	scale      float64
}

// renderCommand creates the render command for generating outputs.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [repo]",
		Short: "Render a commit history to SVG, text, JSON, DOT, PNG or PDF",
		Long: `Render a commit history.

Formats (-f, comma-separated):
  svg   lanes with commit messages (default)
  text  box-drawing lanes for the terminal
  json  the layout document
  dot   a Graphviz digraph of the commits
  png   rasterized svg (needs rsvg-convert)
  pdf   svg converted to pdf (needs rsvg-convert)

--top and --rows render a window of the history; rows outside it are not
drawn. With several formats, -o is a base path and each format gets its
extension.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(cmd, &opts, args)
			flags.applyRender(cmd, &opts)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if flags.layout != "" {
				return c.renderLayoutFile(cmd.Context(), flags.layout, opts, flags.output)
			}
			return c.runRender(cmd.Context(), opts, flags.output, flags.noCache)
		},
	}

	flags.register(cmd)
	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple), - for stdout")
	f.StringVarP(&flags.formats, "format", "f", "", "output format(s): svg, text, json, dot, png, pdf")
	f.StringVar(&flags.layout, "layout", "", "render a layout file written by 'layout'")
	f.IntVar(&flags.top, "top", 0, "first row to render")
	f.IntVar(&flags.rows, "rows", 0, "number of rows to render (default: all)")
	f.BoolVar(&flags.noMessages, "no-messages", false, "draw lanes only, without refs and subjects")
	f.BoolVar(&flags.dim, "dim", false, "fade commits not reachable from HEAD (svg)")
	f.Float64Var(&flags.rowHeight, "row-height", 0, "row height in pixels (svg)")
	f.Float64Var(&flags.laneWidth, "lane-width", 0, "lane width in pixels (svg)")
	f.Float64Var(&flags.scale, "scale", pipeline.DefaultScale, "scale factor (png)")

	return cmd
}

func (f *renderFlags) applyRender(cmd *cobra.Command, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("no-messages") {
		opts.NoMessages = f.noMessages
	}
	if changed("row-height") {
		opts.RowHeight = f.rowHeight
	}
	if changed("lane-width") {
		opts.LaneWidth = f.laneWidth
	}
	opts.Top = f.top
	opts.Rows = f.rows
	opts.DimUnmerged = f.dim
	opts.Scale = f.scale
}

// runRender runs the whole pipeline and writes each artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering history...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, output, defaultBase(opts))
	if err != nil {
		return err
	}
	if output == "-" {
		return nil
	}

	printSuccess("Rendered %d commits", result.Stats.Commits)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Commits, result.Stats.Lanes, result.CacheInfo.LayoutHit)
	if c.Logger.GetLevel() <= LogDebug {
		printTimings([]stageTiming{
			{"feed", result.Stats.FeedTime, result.CacheInfo.FeedHit},
			{"layout", result.Stats.LayoutTime, result.CacheInfo.LayoutHit},
			{"render", result.Stats.RenderTime, result.CacheInfo.RenderHit},
		})
	}
	return nil
}

// renderLayoutFile renders a saved layout document.
func (c *CLI) renderLayoutFile(ctx context.Context, path string, opts pipeline.Options, output string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read layout %s: %w", path, err)
	}
	artifacts, err := pipeline.RenderFromLayoutData(ctx, data, opts)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(path, ".layout.json")
	if base == path {
		base = strings.TrimSuffix(path, filepath.Ext(path))
	}
	paths, err := writeArtifacts(artifacts, opts.Formats, output, base)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes artifacts in format order and returns the paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, fallback string) ([]string, error) {
	if output == "-" && len(formats) > 1 {
		return nil, fmt.Errorf("cannot write %d formats to stdout", len(formats))
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := outputPath(output, fallback, format, len(formats) > 1)
		out, err := openOutput(path)
		if err != nil {
			return nil, err
		}
		_, err = out.Write(artifacts[format])
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath picks the file for one format. A single format writes to output
// as given; several formats use output (minus a known extension) as a base.
func outputPath(output, fallback, format string, multiple bool) string {
	if output == "-" {
		return output
	}
	if output != "" && !multiple {
		return output
	}
	return basePath(output, fallback) + pipeline.FormatExt[format]
}

// basePath derives the base output path: output with any format extension
// removed, or fallback when output is empty.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	for _, known := range pipeline.FormatExt {
		if ext == known {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
