package lanes

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

func TestBuild_Empty(t *testing.T) {
	for _, commits := range [][]CommitRef{nil, {}} {
		g := Build(commits)
		if g.Dots == nil || g.Lines == nil || g.Links == nil || g.Rows == nil {
			t.Fatalf("Build(%v) returned nil slices: %+v", commits, g)
		}
		if len(g.Dots) != 0 || len(g.Lines) != 0 || len(g.Links) != 0 || len(g.Rows) != 0 {
			t.Errorf("Build(%v) = %+v, want empty graph", commits, g)
		}
		if g.Lanes != 0 {
			t.Errorf("Lanes = %d, want 0", g.Lanes)
		}
	}
}

func TestBuild_Linear(t *testing.T) {
	g := Build([]CommitRef{
		{SHA: "c3", Parents: []string{"c2"}, IsHead: true},
		{SHA: "c2", Parents: []string{"c1"}},
		{SHA: "c1"},
	})

	if len(g.Dots) != 3 {
		t.Fatalf("len(Dots) = %d, want 3", len(g.Dots))
	}
	for i, d := range g.Dots {
		if d.Lane != 0 || d.Row != float64(i) {
			t.Errorf("Dots[%d] = %+v, want lane 0 row %d", i, d.Point, i)
		}
	}
	if len(g.Links) != 0 {
		t.Errorf("len(Links) = %d, want 0", len(g.Links))
	}
	if len(g.Lines) != 1 {
		t.Fatalf("len(Lines) = %d, want 1", len(g.Lines))
	}
	want := []Point{{0, 0}, {0, 1}, {0, 2}}
	if got := g.Lines[0].Points; !reflect.DeepEqual(got, want) {
		t.Errorf("Lines[0].Points = %v, want %v", got, want)
	}
	if g.Dots[0].Kind != DotHead {
		t.Errorf("Dots[0].Kind = %v, want head", g.Dots[0].Kind)
	}
	for i, r := range g.Rows {
		if !r.IsMerged {
			t.Errorf("Rows[%d].IsMerged = false, want true", i)
		}
	}
	if g.Lanes != 1 {
		t.Errorf("Lanes = %d, want 1", g.Lanes)
	}
}

func TestBuild_FeatureBranchMerged(t *testing.T) {
	g := Build([]CommitRef{
		{SHA: "M", Parents: []string{"C3", "F2"}},
		{SHA: "C3", Parents: []string{"C2"}},
		{SHA: "F2", Parents: []string{"F1"}},
		{SHA: "F1", Parents: []string{"C2"}},
		{SHA: "C2", Parents: []string{"C1"}},
	})

	if g.Lanes != 2 {
		t.Errorf("Lanes = %d, want 2", g.Lanes)
	}
	if len(g.Links) != 0 {
		t.Errorf("len(Links) = %d, want 0", len(g.Links))
	}

	wantDots := []Point{{0, 0}, {0, 1}, {1, 2}, {1, 3}, {0, 4}}
	for i, d := range g.Dots {
		if d.Point != wantDots[i] {
			t.Errorf("Dots[%d] = %v, want %v", i, d.Point, wantDots[i])
		}
	}
	if g.Dots[0].Kind != DotMerge {
		t.Errorf("Dots[0].Kind = %v, want merge", g.Dots[0].Kind)
	}

	// Feature track: leaves M, runs down lane 1, folds into C2.
	// Main track: lane 0 from M past C2 to the window edge.
	want := [][]Point{
		{{0, 0}, {1, 0.5}, {1, 1}, {1, 2}, {1, 3}, {1, 3.5}, {0, 4}},
		{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 4.5}},
	}
	if len(g.Lines) != len(want) {
		t.Fatalf("len(Lines) = %d, want %d", len(g.Lines), len(want))
	}
	for i, l := range g.Lines {
		if !reflect.DeepEqual(l.Points, want[i]) {
			t.Errorf("Lines[%d].Points = %v, want %v", i, l.Points, want[i])
		}
	}
	if g.Lines[0].Color == g.Lines[1].Color {
		t.Errorf("feature and main tracks share color %d", g.Lines[0].Color)
	}

	// Both tracks are open on every row between M and C2.
	for r := 1; r <= 3; r++ {
		if got := g.Rows[r].LaneOffset; got != 2 {
			t.Errorf("Rows[%d].LaneOffset = %v, want 2", r, got)
		}
	}
}

func TestBuild_OctopusShortLinks(t *testing.T) {
	g := Build([]CommitRef{
		{SHA: "X", Parents: []string{"B"}},
		{SHA: "Y", Parents: []string{"C"}},
		{SHA: "O", Parents: []string{"A", "B", "C"}},
		{SHA: "A"},
		{SHA: "B"},
		{SHA: "C"},
	})

	if len(g.Links) != 2 {
		t.Fatalf("len(Links) = %d, want 2", len(g.Links))
	}
	octopus := g.Dots[2].Point
	for i, l := range g.Links {
		if l.Start != octopus {
			t.Errorf("Links[%d].Start = %v, want %v", i, l.Start, octopus)
		}
		if l.Control.Row != 2 || l.End.Row != 2.5 {
			t.Errorf("Links[%d] control/end rows = %v/%v, want 2/2.5", i, l.Control.Row, l.End.Row)
		}
		if l.Control.Lane != l.End.Lane {
			t.Errorf("Links[%d] control lane %v != end lane %v", i, l.Control.Lane, l.End.Lane)
		}
	}
	if g.Links[0].End.Lane != 0 || g.Links[1].End.Lane != 1 {
		t.Errorf("link lanes = %v, %v, want 0, 1", g.Links[0].End.Lane, g.Links[1].End.Lane)
	}

	// X's track, Y's track and O's own track: nothing opened for B or C.
	if len(g.Lines) != 3 {
		t.Errorf("len(Lines) = %d, want 3", len(g.Lines))
	}
	if g.Dots[2].Kind != DotMerge {
		t.Errorf("octopus Kind = %v, want merge", g.Dots[2].Kind)
	}
}

func TestBuild_RootEndsTrack(t *testing.T) {
	g := Build([]CommitRef{
		{SHA: "a", Parents: []string{"b"}},
		{SHA: "b"},
		{SHA: "c", Parents: []string{"d"}},
		{SHA: "d"},
	})

	if len(g.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(g.Lines))
	}
	for i, root := range []int{1, 3} {
		l := g.Lines[i]
		end := l.Points[len(l.Points)-1]
		if end != g.Dots[root].Point {
			t.Errorf("Lines[%d] ends at %v, want root dot %v", i, end, g.Dots[root].Point)
		}
	}
	// c starts fresh on lane 0 because b's track is gone.
	if g.Dots[2].Lane != 0 {
		t.Errorf("Dots[2].Lane = %v, want 0", g.Dots[2].Lane)
	}
}

func TestBuild_Orphan(t *testing.T) {
	g := Build([]CommitRef{{SHA: "solo"}})

	if len(g.Dots) != 1 || len(g.Lines) != 0 || len(g.Links) != 0 {
		t.Fatalf("Build(solo) = %d dots, %d lines, %d links, want 1, 0, 0", len(g.Dots), len(g.Lines), len(g.Links))
	}
	if g.Dots[0].Point != (Point{0, 0}) {
		t.Errorf("Dots[0] = %v, want {0 0}", g.Dots[0].Point)
	}
	if g.Rows[0].LaneOffset != 1 {
		t.Errorf("Rows[0].LaneOffset = %v, want 1", g.Rows[0].LaneOffset)
	}
}

func TestBuild_MissingParentStaysOpen(t *testing.T) {
	g := Build([]CommitRef{
		{SHA: "tip", Parents: []string{"gone"}},
		{SHA: "other", Parents: []string{"also-gone"}},
	})

	if len(g.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(g.Lines))
	}
	for i, l := range g.Lines {
		end := l.Points[len(l.Points)-1]
		if end.Row != 1.5 {
			t.Errorf("Lines[%d] ends at row %v, want window edge 1.5", i, end.Row)
		}
	}
}

func TestBuild_PaletteWraps(t *testing.T) {
	var commits []CommitRef
	for i := 0; i < 5; i++ {
		commits = append(commits, CommitRef{
			SHA:     fmt.Sprintf("tip%d", i),
			Parents: []string{fmt.Sprintf("base%d", i)},
		})
	}
	g := Build(commits, WithPaletteSize(3))

	want := []int{0, 1, 2, 0, 1}
	for i, d := range g.Dots {
		if d.Color != want[i] {
			t.Errorf("Dots[%d].Color = %d, want %d", i, d.Color, want[i])
		}
	}
}

func TestWithPaletteSize_Invalid(t *testing.T) {
	for _, n := range []int{0, -4} {
		var commits []CommitRef
		for i := 0; i < DefaultPaletteSize+1; i++ {
			commits = append(commits, CommitRef{SHA: fmt.Sprint(i), Parents: []string{"p" + fmt.Sprint(i)}})
		}
		g := Build(commits, WithPaletteSize(n))
		if got := g.Dots[DefaultPaletteSize].Color; got != 0 {
			t.Errorf("WithPaletteSize(%d): color after wrap = %d, want 0", n, got)
		}
	}
}

func TestBuild_FirstParentOnly(t *testing.T) {
	g := Build([]CommitRef{
		{SHA: "M", Parents: []string{"C3", "F2"}},
		{SHA: "C3", Parents: []string{"C2"}},
		{SHA: "F2", Parents: []string{"F1"}},
		{SHA: "F1", Parents: []string{"C2"}},
		{SHA: "C2", Parents: []string{"C1"}},
	}, WithFirstParentOnly())

	if len(g.Links) != 0 {
		t.Errorf("len(Links) = %d, want 0", len(g.Links))
	}
	fromMerge := 0
	for _, l := range g.Lines {
		if l.Points[0].Row == 0 {
			fromMerge++
		}
	}
	if fromMerge != 1 {
		t.Errorf("lines leaving M = %d, want 1", fromMerge)
	}
	// F2 is a tip of its own in first-parent view.
	if g.Dots[2].Lane != 1 {
		t.Errorf("Dots[2].Lane = %v, want 1", g.Dots[2].Lane)
	}
}

func TestBuild_MergedPropagation(t *testing.T) {
	g := Build([]CommitRef{
		{SHA: "feature", Parents: []string{"f1"}},
		{SHA: "head", Parents: []string{"m1", "side"}, IsHead: true},
		{SHA: "f1", Parents: []string{"m1"}},
		{SHA: "side", Parents: []string{"m1"}},
		{SHA: "m1", Parents: []string{"m0"}},
		{SHA: "m0"},
	})

	want := []bool{false, true, false, true, true, true}
	for i, r := range g.Rows {
		if r.IsMerged != want[i] {
			t.Errorf("Rows[%d].IsMerged = %v, want %v", i, r.IsMerged, want[i])
		}
	}
}

func TestBuild_MalformedInputDoesNotPanic(t *testing.T) {
	tests := []struct {
		name    string
		commits []CommitRef
	}{
		{"duplicate shas", []CommitRef{
			{SHA: "a", Parents: []string{"b"}},
			{SHA: "a", Parents: []string{"b"}},
			{SHA: "b"},
			{SHA: "b"},
		}},
		{"empty shas", []CommitRef{
			{SHA: "", Parents: []string{""}},
			{SHA: "", Parents: []string{"", ""}},
			{SHA: ""},
		}},
		{"self parent", []CommitRef{
			{SHA: "a", Parents: []string{"a", "a"}},
		}},
		{"parents before children", []CommitRef{
			{SHA: "root"},
			{SHA: "child", Parents: []string{"root"}},
		}},
		{"repeated merge parent", []CommitRef{
			{SHA: "m", Parents: []string{"a", "b", "b", "a"}},
			{SHA: "a", Parents: []string{"b"}},
			{SHA: "b"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.commits)
			if len(g.Dots) != len(tt.commits) {
				t.Errorf("len(Dots) = %d, want %d", len(g.Dots), len(tt.commits))
			}
			checkGraph(t, tt.commits, g)
		})
	}
}

func TestBuild_RandomHistories(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		commits := randomHistory(rng, 1+rng.Intn(60))
		g := Build(commits, WithPaletteSize(1+rng.Intn(10)))
		checkGraph(t, commits, g)
		if t.Failed() {
			t.Fatalf("history %d: %+v", i, commits)
		}
	}
}

func TestBuild_Independent(t *testing.T) {
	commits := []CommitRef{
		{SHA: "a", Parents: []string{"b", "c"}},
		{SHA: "b", Parents: []string{"c"}},
		{SHA: "c"},
	}
	first := Build(commits)
	second := Build(commits)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Build calls produced different graphs")
	}
	if commits[0].Parents[1] != "c" || commits[0].IsHead {
		t.Error("Build modified its input")
	}
}

// randomHistory generates commits in feed order: parents always come later.
// About one parent in ten is outside the window.
func randomHistory(rng *rand.Rand, n int) []CommitRef {
	commits := make([]CommitRef, n)
	for i := range commits {
		commits[i].SHA = fmt.Sprintf("c%d", i)

		var k int
		switch x := rng.Intn(20); {
		case x < 2:
			k = 0
		case x < 14:
			k = 1
		case x < 19:
			k = 2
		default:
			k = 3
		}
		for j := 0; j < k; j++ {
			if rng.Intn(10) == 0 || i+1 >= n {
				commits[i].Parents = append(commits[i].Parents, fmt.Sprintf("gone%d", rng.Intn(4)))
				continue
			}
			p := i + 1 + rng.Intn(min(6, n-i-1))
			commits[i].Parents = append(commits[i].Parents, fmt.Sprintf("c%d", p))
		}
	}
	commits[0].IsHead = true
	return commits
}

// checkGraph asserts the structural properties every layout must have.
func checkGraph(t *testing.T, commits []CommitRef, g *Graph) {
	t.Helper()

	if len(g.Dots) != len(commits) || len(g.Rows) != len(commits) {
		t.Errorf("len(Dots), len(Rows) = %d, %d, want %d", len(g.Dots), len(g.Rows), len(commits))
		return
	}
	for i, d := range g.Dots {
		if d.Row != float64(i) {
			t.Errorf("Dots[%d].Row = %v, want %d", i, d.Row, i)
		}
		if g.Rows[i].Lane != d.Lane {
			t.Errorf("Rows[%d].Lane = %v, want dot lane %v", i, g.Rows[i].Lane, d.Lane)
		}
		if g.Rows[i].LaneOffset < d.Lane+1 {
			t.Errorf("Rows[%d].LaneOffset = %v, less than dot lane %v + 1", i, g.Rows[i].LaneOffset, d.Lane)
		}
		if int(d.Lane) >= g.Lanes {
			t.Errorf("Dots[%d].Lane = %v beyond peak %d", i, d.Lane, g.Lanes)
		}
	}

	// Interior points at a commit row belong to tracks passing or continuing
	// through it; they must not share a lane.
	occupied := make(map[Point]bool)
	for i, l := range g.Lines {
		if len(l.Points) == 0 {
			t.Errorf("Lines[%d] has no points", i)
			continue
		}
		if i > 0 && l.Points[0].Row < g.Lines[i-1].Points[0].Row {
			t.Errorf("Lines[%d] starts at row %v before Lines[%d] at %v", i, l.Points[0].Row, i-1, g.Lines[i-1].Points[0].Row)
		}
		for j := 1; j < len(l.Points); j++ {
			prev, cur := l.Points[j-1], l.Points[j]
			if cur.Row < prev.Row {
				t.Errorf("Lines[%d] row goes back: %v then %v", i, prev, cur)
			}
			if cur.Lane != prev.Lane && cur.Row-prev.Row != 0.5 {
				t.Errorf("Lines[%d] lane change %v -> %v is not a half-row elbow", i, prev, cur)
			}
		}
		for j := 1; j < len(l.Points)-1; j++ {
			p := l.Points[j]
			if p.Row != float64(int(p.Row)) {
				continue
			}
			if occupied[p] {
				t.Errorf("lane %v used twice at row %v", p.Lane, p.Row)
			}
			occupied[p] = true
		}
	}

	for i := 1; i < len(g.Links); i++ {
		if g.Links[i].Start.Row < g.Links[i-1].Start.Row {
			t.Errorf("Links[%d] out of row order", i)
		}
	}

	checkHeadAncestry(t, commits, g)
}

// checkHeadAncestry follows first parents from every head commit and expects
// each visited commit to be marked merged.
func checkHeadAncestry(t *testing.T, commits []CommitRef, g *Graph) {
	t.Helper()

	index := make(map[string]int, len(commits))
	for i := len(commits) - 1; i >= 0; i-- {
		index[commits[i].SHA] = i
	}
	for i, c := range commits {
		if !c.IsHead {
			continue
		}
		seen := map[int]bool{}
		for at := i; !seen[at]; {
			seen[at] = true
			if !g.Rows[at].IsMerged {
				t.Errorf("commit %d (%s) is a first-parent ancestor of head but not merged", at, commits[at].SHA)
			}
			if len(commits[at].Parents) == 0 {
				break
			}
			next, ok := index[commits[at].Parents[0]]
			if !ok || next <= at {
				break
			}
			at = next
		}
	}
}
