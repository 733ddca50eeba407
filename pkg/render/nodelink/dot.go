package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	apperr "github.com/matzehuels/gitlanes/pkg/errors"
	"github.com/matzehuels/gitlanes/pkg/feed"
	"github.com/matzehuels/gitlanes/pkg/render"
)

// Options configures commit DAG rendering.
type Options struct {
	// Detailed adds the author, date and refs to node labels.
	// When false, nodes show the short sha and subject.
	Detailed bool

	// Colors, when set, holds a palette index per commit (Layout row
	// colors) and tints each node's outline to match the lane view.
	Colors  []int
	Palette render.Palette
}

// ToDOT converts a feed to Graphviz DOT format. Edges point from child to
// parent; first-parent edges are solid and merge edges dashed. Parents not in
// the feed are left out.
//
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(commits []feed.Commit, opts Options) string {
	present := make(map[string]bool, len(commits))
	for _, c := range commits {
		present[c.SHA] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=12];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("  ranksep=0.3;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, c := range commits {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(c, opts.Detailed))}
		if c.IsHead {
			attrs = append(attrs, "penwidth=2.5")
		}
		if i < len(opts.Colors) {
			attrs = append(attrs, fmt.Sprintf("color=%q", opts.Palette.Color(opts.Colors[i])))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", c.SHA, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range commits {
		for j, p := range c.Parents {
			if !present[p] {
				continue
			}
			if j == 0 {
				fmt.Fprintf(&buf, "  %q -> %q;\n", c.SHA, p)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", c.SHA, p)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c feed.Commit, detailed bool) string {
	sha := c.SHA
	if len(sha) > 7 {
		sha = sha[:7]
	}
	label := sha
	if c.Subject != "" {
		label += " " + c.Subject
	}
	if !detailed {
		return label
	}

	var parts []string
	if c.Author != "" {
		parts = append(parts, c.Author)
	}
	if !c.When.IsZero() {
		parts = append(parts, c.When.UTC().Format("2006-01-02 15:04"))
	}
	for _, r := range c.Refs {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Kind, r.Name))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel viewBox so the SVG scales like the lane renderer's output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
