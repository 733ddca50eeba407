package graph

import (
	"github.com/matzehuels/gitlanes/pkg/feed"
	"github.com/matzehuels/gitlanes/pkg/lanes"
)

// =============================================================================
// Conversion API
// =============================================================================

// FromLanes builds a Layout from a feed and the graph the engine computed for
// it. commits and g must describe the same rows.
func FromLanes(commits []feed.Commit, g *lanes.Graph, paletteSize int) Layout {
	if paletteSize < 1 {
		paletteSize = lanes.DefaultPaletteSize
	}
	l := Layout{
		Rows:        len(g.Dots),
		Lanes:       g.Lanes,
		PaletteSize: paletteSize,
		Commits:     make([]Commit, len(g.Dots)),
		Dots:        make([]Dot, len(g.Dots)),
		Lines:       make([]Line, len(g.Lines)),
		Links:       make([]Link, len(g.Links)),
	}

	for i, d := range g.Dots {
		l.Dots[i] = Dot{Lane: d.Lane, Row: d.Row, Color: d.Color, Kind: d.Kind.String()}

		c := Commit{}
		if i < len(commits) {
			c = commitFromFeed(commits[i])
		}
		r := g.Rows[i]
		c.Lane, c.LaneOffset, c.Merged, c.Color = r.Lane, r.LaneOffset, r.IsMerged, r.Color
		l.Commits[i] = c
	}
	for i, ln := range g.Lines {
		pts := make([]Point, len(ln.Points))
		for j, p := range ln.Points {
			pts[j] = toPoint(p)
		}
		l.Lines[i] = Line{Points: pts, Color: ln.Color, Merged: ln.IsMerged}
	}
	for i, s := range g.Links {
		l.Links[i] = Link{
			Start:   toPoint(s.Start),
			Control: toPoint(s.Control),
			End:     toPoint(s.End),
			Color:   s.Color,
			Merged:  s.IsMerged,
		}
	}
	return l
}

// Graph rebuilds the engine representation, so a stored layout can be
// queried with lanes.Graph.Visible or rendered without re-running the engine.
func (l Layout) Graph() *lanes.Graph {
	g := &lanes.Graph{
		Dots:  make([]lanes.Dot, len(l.Dots)),
		Lines: make([]lanes.Line, len(l.Lines)),
		Links: make([]lanes.ShortLink, len(l.Links)),
		Rows:  make([]lanes.Row, len(l.Commits)),
		Lanes: l.Lanes,
	}
	for i, d := range l.Dots {
		g.Dots[i] = lanes.Dot{
			Point: lanes.Point{Lane: d.Lane, Row: d.Row},
			Color: d.Color,
			Kind:  dotKinds[d.Kind],
		}
	}
	for i, ln := range l.Lines {
		pts := make([]lanes.Point, len(ln.Points))
		for j, p := range ln.Points {
			pts[j] = p.toLanes()
		}
		g.Lines[i] = lanes.Line{Points: pts, Color: ln.Color, IsMerged: ln.Merged}
	}
	for i, s := range l.Links {
		g.Links[i] = lanes.ShortLink{
			Start:    s.Start.toLanes(),
			Control:  s.Control.toLanes(),
			End:      s.End.toLanes(),
			Color:    s.Color,
			IsMerged: s.Merged,
		}
	}
	for i, c := range l.Commits {
		g.Rows[i] = lanes.Row{Lane: c.Lane, LaneOffset: c.LaneOffset, IsMerged: c.Merged, Color: c.Color}
	}
	return g
}

// Feed recovers the commit list the layout was built from. Parent edges are
// not part of the document, so the result carries display fields only.
func (l Layout) Feed() []feed.Commit {
	out := make([]feed.Commit, len(l.Commits))
	for i, c := range l.Commits {
		refs := make([]feed.Ref, len(c.Refs))
		for j, r := range c.Refs {
			refs[j] = feed.Ref{Name: r.Name, Kind: feed.RefKind(r.Kind)}
		}
		if len(refs) == 0 {
			refs = nil
		}
		out[i] = feed.Commit{SHA: c.SHA, Subject: c.Subject, Author: c.Author, When: c.When, Refs: refs}
	}
	return out
}

func commitFromFeed(c feed.Commit) Commit {
	out := Commit{SHA: c.SHA, Subject: c.Subject, Author: c.Author, When: c.When}
	for _, r := range c.Refs {
		out.Refs = append(out.Refs, Ref{Name: r.Name, Kind: string(r.Kind)})
	}
	return out
}
