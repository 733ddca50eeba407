package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/lanes"
	"github.com/matzehuels/gitlanes/pkg/render"
)

// TextOption configures [RenderText].
type TextOption func(*textRenderer)

type textRenderer struct {
	window
	messages bool
	colors   bool
	fixed    bool
	palette  render.Palette
}

// WithTextWindow renders only rows top through top+rows-1. rows <= 0 means all.
func WithTextWindow(top, rows int) TextOption {
	return func(r *textRenderer) { r.window = window{top: top, rows: rows} }
}

// WithTextMessages toggles the sha, ref and subject column.
func WithTextMessages(on bool) TextOption { return func(r *textRenderer) { r.messages = on } }

// WithTextFixedRows keeps blank half-row lines so that row r of the window
// is always text line 2*(r-top).
func WithTextFixedRows() TextOption { return func(r *textRenderer) { r.fixed = true } }

// WithTextColors colors strokes with the given 256-color palette.
// A nil palette uses render.ANSI.
func WithTextColors(p render.Palette) TextOption {
	return func(r *textRenderer) {
		r.colors = true
		r.palette = p
	}
}

// =============================================================================
// Cell Grid
// =============================================================================

// Each commit row spans two text lines: the dot line and the half row below
// it. Lane L sits in column 2L with a spacer column between lanes.
const (
	north = 1 << iota
	south
	east
	west
)

var strokeGlyphs = [16]string{
	0:                           " ",
	north:                       "│",
	south:                       "│",
	north | south:               "│",
	east:                        "─",
	west:                        "─",
	east | west:                 "─",
	south | east:                "╭",
	south | west:                "╮",
	north | east:                "╰",
	north | west:                "╯",
	north | south | east:        "├",
	north | south | west:        "┤",
	south | east | west:         "┬",
	north | east | west:         "┴",
	north | south | east | west: "┼",
}

var dotGlyphs = map[lanes.DotKind]string{
	lanes.DotDefault: "●",
	lanes.DotHead:    "◉",
	lanes.DotMerge:   "◆",
}

type cell struct {
	mask  int
	color int
	dot   string
}

type grid struct {
	top   int // first text line, in half rows
	cells [][]cell
}

func newGrid(top, lines, cols int) *grid {
	g := &grid{top: top, cells: make([][]cell, lines)}
	for i := range g.cells {
		g.cells[i] = make([]cell, cols)
	}
	return g
}

func (g *grid) at(k, col int) *cell {
	k -= g.top
	if k < 0 || k >= len(g.cells) || col < 0 || col >= len(g.cells[k]) {
		return nil
	}
	return &g.cells[k][col]
}

func (g *grid) mark(k, col, bits, color int) {
	if c := g.at(k, col); c != nil {
		c.mask |= bits
		c.color = color
	}
}

func halfRow(row float64) int { return int(math.Round(2 * row)) }
func column(lane float64) int { return int(math.Round(2 * lane)) }

// leg draws an axis-aligned stroke. Diagonal input is routed vertical first.
func (g *grid) leg(a, b lanes.Point, color int) {
	ka, kb := halfRow(a.Row), halfRow(b.Row)
	ca, cb := column(a.Lane), column(b.Lane)
	if ka != kb {
		lo, hi := min(ka, kb), max(ka, kb)
		for k := lo; k <= hi; k++ {
			if k > lo {
				g.mark(k, ca, north, color)
			}
			if k < hi {
				g.mark(k, ca, south, color)
			}
		}
	}
	if ca != cb {
		lo, hi := min(ca, cb), max(ca, cb)
		for c := lo; c <= hi; c++ {
			if c > lo {
				g.mark(kb, c, west, color)
			}
			if c < hi {
				g.mark(kb, c, east, color)
			}
		}
	}
}

// curve draws start -> control -> end, which is how lanes.Segments bends.
func (g *grid) curve(from, control, to lanes.Point, color int) {
	g.leg(from, control, color)
	g.leg(control, to, color)
}

// =============================================================================
// Renderer
// =============================================================================

// RenderText draws the layout with box-drawing characters, one text line per
// commit and one per half row between commits, in the manner of git log
// --graph.
func RenderText(l graph.Layout, opts ...TextOption) []byte {
	r := textRenderer{messages: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.colors && len(r.palette) == 0 {
		r.palette = render.ANSI
	}

	lg := l.Graph()
	top, bottom := r.bounds(lg.Len())
	if bottom < top {
		return []byte{}
	}
	v := lg.Visible(float64(top), float64(bottom))

	cols := max(2*l.Lanes-1, 1)
	g := newGrid(2*top, 2*(bottom-top+1), cols)

	for _, ln := range v.Lines {
		for _, s := range lanes.Segments(ln.Points) {
			g.curve(s.From, s.Control, s.To, ln.Color)
		}
	}
	for _, s := range v.Links {
		g.curve(s.Start, s.Control, s.End, s.Color)
	}
	for _, d := range v.Dots {
		if c := g.at(halfRow(d.Row), column(d.Lane)); c != nil {
			c.dot = dotGlyphs[d.Kind]
			c.color = d.Color
		}
	}

	var sb strings.Builder
	for i, line := range g.cells {
		k := g.top + i
		text := r.line(line)
		if k%2 == 0 && r.messages {
			row := k / 2
			if row < len(l.Commits) {
				c := l.Commits[row]
				if msg := message(c); msg != "" {
					pad := 2*int(math.Round(c.LaneOffset)) - visibleWidth(line)
					text += strings.Repeat(" ", max(pad, 1)) + msg
				}
			}
		}
		if k%2 == 1 && text == "" && !r.fixed {
			continue
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// line renders one row of cells without trailing blanks.
func (r *textRenderer) line(cells []cell) string {
	n := visibleWidth(cells)
	var sb strings.Builder
	for _, c := range cells[:n] {
		glyph := c.dot
		if glyph == "" {
			glyph = strokeGlyphs[c.mask]
		}
		if r.colors && glyph != " " {
			glyph = lipgloss.NewStyle().Foreground(lipgloss.Color(r.palette.Color(c.color))).Render(glyph)
		}
		sb.WriteString(glyph)
	}
	return sb.String()
}

func visibleWidth(cells []cell) int {
	n := len(cells)
	for n > 0 && cells[n-1].mask == 0 && cells[n-1].dot == "" {
		n--
	}
	return n
}

// message formats the text after a commit's dot: short sha, refs, subject.
func message(c graph.Commit) string {
	var parts []string
	if c.SHA != "" {
		parts = append(parts, shortSHA(c.SHA))
	}
	if len(c.Refs) > 0 {
		labels := make([]string, len(c.Refs))
		for i, ref := range c.Refs {
			labels[i] = refLabel(ref)
		}
		parts = append(parts, "("+strings.Join(labels, ", ")+")")
	}
	if c.Subject != "" {
		parts = append(parts, c.Subject)
	}
	return strings.Join(parts, " ")
}
