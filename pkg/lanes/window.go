package lanes

import (
	"math"
	"sort"
)

// View is the part of a [Graph] that intersects a row range.
type View struct {
	// First is the row (commit index) of Dots[0].
	First int
	Dots  []Dot
	Lines []Line
	Links []ShortLink
}

// Visible returns the dots, lines and links that touch rows top through
// bottom inclusive. Dots and Links share the graph's backing arrays; callers
// must not modify them.
func (g *Graph) Visible(top, bottom float64) View {
	v := View{Dots: []Dot{}, Lines: []Line{}, Links: []ShortLink{}}
	if bottom < top || math.IsNaN(top) || math.IsNaN(bottom) {
		return v
	}

	first := clampRow(math.Ceil(top), len(g.Dots))
	last := clampRow(math.Floor(bottom)+1, len(g.Dots))
	if first < last {
		v.First = first
		v.Dots = g.Dots[first:last]
	}

	end := sort.Search(len(g.Lines), func(i int) bool {
		return firstRow(g.Lines[i]) > bottom
	})
	for _, l := range g.Lines[:end] {
		if lastRow(l) >= top {
			v.Lines = append(v.Lines, l)
		}
	}

	lo := sort.Search(len(g.Links), func(i int) bool { return g.Links[i].End.Row >= top })
	hi := sort.Search(len(g.Links), func(i int) bool { return g.Links[i].Start.Row > bottom })
	if lo < hi {
		v.Links = g.Links[lo:hi]
	}
	return v
}

func clampRow(f float64, n int) int {
	switch {
	case f < 0:
		return 0
	case f > float64(n):
		return n
	default:
		return int(f)
	}
}

func firstRow(l Line) float64 {
	if len(l.Points) == 0 {
		return 0
	}
	return l.Points[0].Row
}

func lastRow(l Line) float64 {
	if len(l.Points) == 0 {
		return math.Inf(-1)
	}
	return l.Points[len(l.Points)-1].Row
}
