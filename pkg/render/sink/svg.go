package sink

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/lanes"
	"github.com/matzehuels/gitlanes/pkg/render"
)

const (
	dotRadius   = 4.0
	headRadius  = 5.0
	mergeRadius = 3.0
	strokeWidth = 2.0
	dimOpacity  = 0.35

	// messageWidth is the room reserved for subjects; SVG text does not
	// report its own width.
	messageWidth = 640.0
	charWidth    = 7.0
)

const svgCSS = `
    .msg { font: 12px ui-monospace, SFMono-Regular, Menlo, monospace; fill: #24292f; dominant-baseline: central; }
    .ref { font-weight: bold; }
    .sha { fill: #57606a; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	window
	metrics     render.Metrics
	palette     render.Palette
	messages    bool
	dimUnmerged bool
}

// WithWindow renders only rows top through top+rows-1. rows <= 0 means all.
func WithWindow(top, rows int) SVGOption {
	return func(r *svgRenderer) { r.window = window{top: top, rows: rows} }
}

// WithMetrics sets the pixel metrics.
func WithMetrics(m render.Metrics) SVGOption { return func(r *svgRenderer) { r.metrics = m } }

// WithPalette sets the track colors.
func WithPalette(p render.Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// WithMessages toggles the ref and subject column.
func WithMessages(on bool) SVGOption { return func(r *svgRenderer) { r.messages = on } }

// WithDimUnmerged fades lines, links and dots not reachable from HEAD.
func WithDimUnmerged() SVGOption { return func(r *svgRenderer) { r.dimUnmerged = true } }

// RenderSVG draws the layout as a standalone SVG document.
//
// Straight segments become L commands and lane changes Q curves through the
// segment's control point, so the picture matches lanes.Segments exactly.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{metrics: render.DefaultMetrics, palette: render.DefaultPalette, messages: true}
	for _, opt := range opts {
		opt(&r)
	}
	r.metrics = r.metrics.WithDefaults()
	m := r.metrics

	g := l.Graph()
	top, bottom := r.bounds(g.Len())
	v := g.Visible(float64(top), float64(bottom))

	rows := max(bottom-top+1, 0)
	width := m.Width(l.Lanes)
	if r.messages {
		width += messageWidth
	}
	height := m.Height(rows)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgCSS)
	fmt.Fprintf(&buf, `  <clipPath id="rows"><rect x="0" y="0" width="%.1f" height="%.1f"/></clipPath>`+"\n", width, height)
	fmt.Fprintf(&buf, `  <g clip-path="url(#rows)" transform="translate(0 %.1f)">`+"\n", -float64(top)*m.RowHeight)

	buf.WriteString("    <g class=\"lines\" fill=\"none\" stroke-linecap=\"round\">\n")
	for _, ln := range v.Lines {
		fmt.Fprintf(&buf, `      <path d="%s" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
			linePath(m, ln.Points), r.palette.Color(ln.Color), strokeWidth, r.opacity(ln.IsMerged))
	}
	for _, s := range v.Links {
		fmt.Fprintf(&buf, `      <path d="M%.1f %.1f Q%.1f %.1f %.1f %.1f" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
			m.X(s.Start.Lane), m.Y(s.Start.Row),
			m.X(s.Control.Lane), m.Y(s.Control.Row),
			m.X(s.End.Lane), m.Y(s.End.Row),
			r.palette.Color(s.Color), strokeWidth, r.opacity(s.IsMerged))
	}
	buf.WriteString("    </g>\n")

	buf.WriteString("    <g class=\"dots\">\n")
	for i, d := range v.Dots {
		merged := true
		if row := v.First + i; row < len(g.Rows) {
			merged = g.Rows[row].IsMerged
		}
		r.renderDot(&buf, d, merged)
	}
	buf.WriteString("    </g>\n")

	if r.messages {
		buf.WriteString("    <g class=\"messages\">\n")
		for i := range v.Dots {
			row := v.First + i
			if row < len(l.Commits) {
				r.renderMessage(&buf, row, l.Commits[row])
			}
		}
		buf.WriteString("    </g>\n")
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) opacity(merged bool) string {
	if r.dimUnmerged && !merged {
		return fmt.Sprintf(` opacity="%.2f"`, dimOpacity)
	}
	return ""
}

func (r *svgRenderer) renderDot(buf *bytes.Buffer, d lanes.Dot, merged bool) {
	m := r.metrics
	color := r.palette.Color(d.Color)
	x, y := m.X(d.Lane), m.Y(d.Row)
	switch d.Kind {
	case lanes.DotHead:
		fmt.Fprintf(buf, `      <circle cx="%.1f" cy="%.1f" r="%.1f" fill="#ffffff" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
			x, y, headRadius, color, strokeWidth, r.opacity(merged))
	case lanes.DotMerge:
		fmt.Fprintf(buf, `      <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"%s/>`+"\n",
			x, y, mergeRadius, color, r.opacity(merged))
	default:
		fmt.Fprintf(buf, `      <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"%s/>`+"\n",
			x, y, dotRadius, color, r.opacity(merged))
	}
}

func (r *svgRenderer) renderMessage(buf *bytes.Buffer, row int, c graph.Commit) {
	m := r.metrics
	x := m.Padding + c.LaneOffset*m.LaneWidth + m.LaneWidth/2
	fmt.Fprintf(buf, `      <text class="msg" x="%.1f" y="%.1f">`, x, m.Y(float64(row)))
	for _, ref := range c.Refs {
		fmt.Fprintf(buf, `<tspan class="ref" fill="%s">%s</tspan> `, r.palette.Color(c.Color), html.EscapeString(refLabel(ref)))
	}
	if c.SHA != "" {
		fmt.Fprintf(buf, `<tspan class="sha">%s</tspan> `, html.EscapeString(shortSHA(c.SHA)))
	}
	buf.WriteString(html.EscapeString(truncate(c.Subject, int((messageWidth-x)/charWidth))))
	buf.WriteString("</text>\n")
}

// linePath converts a track polyline into SVG path data.
func linePath(m render.Metrics, pts []lanes.Point) string {
	if len(pts) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "M%.1f %.1f", m.X(pts[0].Lane), m.Y(pts[0].Row))
	for _, s := range lanes.Segments(pts) {
		if s.Curved {
			fmt.Fprintf(&sb, " Q%.1f %.1f %.1f %.1f", m.X(s.Control.Lane), m.Y(s.Control.Row), m.X(s.To.Lane), m.Y(s.To.Row))
		} else {
			fmt.Fprintf(&sb, " L%.1f %.1f", m.X(s.To.Lane), m.Y(s.To.Row))
		}
	}
	return sb.String()
}

func refLabel(r graph.Ref) string {
	if r.Kind == "tag" {
		return "tag: " + r.Name
	}
	return r.Name
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func truncate(s string, n int) string {
	if n <= 1 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
