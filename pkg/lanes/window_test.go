package lanes

import (
	"math/rand"
	"testing"
)

func TestVisible_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	commits := randomHistory(rng, 120)
	g := Build(commits)

	windows := []struct{ top, bottom float64 }{
		{0, 0},
		{0, 10},
		{-5, 3},
		{17.5, 30},
		{40, 40.5},
		{100, 500},
		{119, 119},
	}
	for _, w := range windows {
		v := g.Visible(w.top, w.bottom)

		var wantDots int
		for _, d := range g.Dots {
			if d.Row >= w.top && d.Row <= w.bottom {
				wantDots++
			}
		}
		if len(v.Dots) != wantDots {
			t.Errorf("Visible(%v, %v): %d dots, want %d", w.top, w.bottom, len(v.Dots), wantDots)
		}
		if len(v.Dots) > 0 && v.Dots[0].Row != float64(v.First) {
			t.Errorf("Visible(%v, %v): First = %d, first dot row %v", w.top, w.bottom, v.First, v.Dots[0].Row)
		}

		var wantLines int
		for _, l := range g.Lines {
			if l.Points[0].Row <= w.bottom && l.Points[len(l.Points)-1].Row >= w.top {
				wantLines++
			}
		}
		if len(v.Lines) != wantLines {
			t.Errorf("Visible(%v, %v): %d lines, want %d", w.top, w.bottom, len(v.Lines), wantLines)
		}

		var wantLinks int
		for _, l := range g.Links {
			if l.Start.Row <= w.bottom && l.End.Row >= w.top {
				wantLinks++
			}
		}
		if len(v.Links) != wantLinks {
			t.Errorf("Visible(%v, %v): %d links, want %d", w.top, w.bottom, len(v.Links), wantLinks)
		}
	}
}

func TestVisible_Empty(t *testing.T) {
	tests := []struct {
		name        string
		g           *Graph
		top, bottom float64
	}{
		{"empty graph", Build(nil), 0, 10},
		{"inverted range", Build([]CommitRef{{SHA: "a"}}), 5, 1},
		{"past the end", Build([]CommitRef{{SHA: "a", Parents: []string{"b"}}}), 3, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.g.Visible(tt.top, tt.bottom)
			if v.Dots == nil || v.Lines == nil || v.Links == nil {
				t.Fatal("Visible returned nil slices")
			}
			if len(v.Dots)+len(v.Lines)+len(v.Links) != 0 {
				t.Errorf("Visible(%v, %v) = %+v, want empty", tt.top, tt.bottom, v)
			}
		})
	}
}
