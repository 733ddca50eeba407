package lanes

import (
	"cmp"
	"slices"
)

// Option configures [Build].
type Option func(*builder)

type builder struct {
	paletteSize int
	firstParent bool
}

// WithPaletteSize sets the number of colors tracks cycle through.
// Sizes below 1 fall back to [DefaultPaletteSize].
func WithPaletteSize(n int) Option {
	return func(b *builder) { b.paletteSize = n }
}

// WithFirstParentOnly ignores merge parents: merge commits neither open
// tracks nor emit short links for them.
func WithFirstParentOnly() Option {
	return func(b *builder) { b.firstParent = true }
}

// Build lays out commits in a single forward pass.
//
// Commits must be in feed order, children before parents. Out-of-order input
// is not detected; it produces a wrong but well-formed layout. Parents that
// never appear in commits (shallow or truncated history) keep their track open
// until the bottom of the window. Build never panics on well-typed input and
// never returns nil slices.
func Build(commits []CommitRef, opts ...Option) *Graph {
	b := builder{paletteSize: DefaultPaletteSize}
	for _, opt := range opts {
		opt(&b)
	}
	if b.paletteSize < 1 {
		b.paletteSize = DefaultPaletteSize
	}

	g := &Graph{
		Dots:  make([]Dot, 0, len(commits)),
		Lines: []Line{},
		Links: []ShortLink{},
		Rows:  make([]Row, 0, len(commits)),
	}

	var (
		open      []*track
		ended     []*track
		nextColor int
	)
	takeColor := func() int {
		c := nextColor % b.paletteSize
		nextColor++
		return c
	}

	for r, c := range commits {
		row := float64(r)
		entering := len(open)
		lane := 0
		merged := c.IsHead
		ended = ended[:0]

		var major *track
		for _, t := range open {
			if t.target != c.SHA {
				t.moveTo(float64(lane), row)
				lane++
				continue
			}
			if major == nil {
				major = t
				t.moveTo(float64(lane), row)
				lane++
			} else {
				t.ended = true
				ended = append(ended, t)
			}
			merged = merged || t.merged
		}

		if major == nil && len(c.Parents) > 0 {
			major = newTrack(c.Parents[0], takeColor(), merged, Point{Lane: float64(lane), Row: row})
			lane++
			open = append(open, major)
		}

		dot := Dot{Kind: dotKind(c)}
		if major != nil {
			dot.Point = Point{Lane: major.lane, Row: row}
			dot.Color = major.color
			if len(c.Parents) > 0 {
				major.target = c.Parents[0]
				major.merged = major.merged || merged
			} else {
				major.ended = true
				ended = append(ended, major)
			}
		} else {
			// Orphan: no track reached it and it has no parents.
			dot.Point = Point{Lane: float64(lane), Row: row}
			dot.Color = nextColor % b.paletteSize
			lane++
		}
		g.Dots = append(g.Dots, dot)

		if !b.firstParent && len(c.Parents) > 1 {
			for _, p := range c.Parents[1:] {
				if t := waitingFor(open, p, major); t != nil {
					g.Links = append(g.Links, ShortLink{
						Start:    dot.Point,
						Control:  Point{Lane: t.lane, Row: row},
						End:      Point{Lane: t.lane, Row: row + 0.5},
						Color:    t.color,
						IsMerged: merged,
					})
					t.merged = t.merged || merged
					continue
				}
				t := newTrack(p, takeColor(), merged, dot.Point)
				t.moveTo(float64(lane), row+0.5)
				lane++
				open = append(open, t)
			}
		}

		if len(ended) > 0 {
			for _, t := range ended {
				t.moveTo(dot.Lane, row)
				g.Lines = append(g.Lines, t.line())
			}
			open = slices.DeleteFunc(open, func(t *track) bool { return t.ended })
		}

		g.Rows = append(g.Rows, Row{
			Lane:       dot.Lane,
			LaneOffset: float64(max(lane, entering)),
			IsMerged:   merged,
			Color:      dot.Color,
		})
		g.Lanes = max(g.Lanes, lane)
	}

	bottom := float64(len(commits)) - 0.5
	for _, t := range open {
		t.add(Point{Lane: t.lane, Row: bottom})
		g.Lines = append(g.Lines, t.line())
	}

	slices.SortStableFunc(g.Lines, func(a, b Line) int {
		return cmp.Compare(firstRow(a), firstRow(b))
	})
	return g
}

// waitingFor returns the first open track other than skip that targets sha.
func waitingFor(open []*track, sha string, skip *track) *track {
	for _, t := range open {
		if t != skip && !t.ended && t.target == sha {
			return t
		}
	}
	return nil
}

func dotKind(c CommitRef) DotKind {
	switch {
	case c.IsHead:
		return DotHead
	case len(c.Parents) > 1:
		return DotMerge
	default:
		return DotDefault
	}
}
