package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/gitlanes/pkg/feed"
	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/lanes"
)

func layoutOf(commits []feed.Commit) graph.Layout {
	return graph.FromLanes(commits, lanes.Build(feed.Refs(commits)), 0)
}

// mergeLayout:
//
//	M  merges C3 and F2
//	C3
//	F2
//	F1
//	C2 (parent outside the feed)
func mergeLayout() graph.Layout {
	return layoutOf([]feed.Commit{
		{SHA: "M", Parents: []string{"C3", "F2"}, Subject: "merge"},
		{SHA: "C3", Parents: []string{"C2"}, Subject: "c3"},
		{SHA: "F2", Parents: []string{"F1"}, Subject: "f2"},
		{SHA: "F1", Parents: []string{"C2"}, Subject: "f1"},
		{SHA: "C2", Parents: []string{"C1"}, Subject: "c2"},
	})
}

func linearLayout() graph.Layout {
	return layoutOf([]feed.Commit{
		{SHA: "aaaa111fff", Parents: []string{"bbbb222fff"}, IsHead: true, Subject: "third",
			Refs: []feed.Ref{{Name: "HEAD", Kind: feed.RefHead}, {Name: "main", Kind: feed.RefBranch}}},
		{SHA: "bbbb222fff", Parents: []string{"cccc333fff"}, Subject: "second"},
		{SHA: "cccc333fff", Subject: "first", Refs: []feed.Ref{{Name: "v1", Kind: feed.RefTag}}},
	})
}

func TestRenderText_Merge(t *testing.T) {
	got := string(RenderText(mergeLayout(), WithTextMessages(false)))
	want := strings.Join([]string{
		"◆─╮",
		"│ │",
		"● │",
		"│ │",
		"│ ●",
		"│ │",
		"│ ●",
		"│ │",
		"●─╯",
		"│",
	}, "\n") + "\n"
	if got != want {
		t.Errorf("RenderText =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderText_Messages(t *testing.T) {
	got := string(RenderText(linearLayout()))
	want := "◉ aaaa111 (HEAD, main) third\n" +
		"│\n" +
		"● bbbb222 second\n" +
		"│\n" +
		"● cccc333 (tag: v1) first\n"
	if got != want {
		t.Errorf("RenderText =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderText_Window(t *testing.T) {
	got := string(RenderText(mergeLayout(), WithTextMessages(false), WithTextWindow(3, 2)))
	want := "│ ●\n│ │\n●─╯\n│\n"
	if got != want {
		t.Errorf("RenderText window =\n%s\nwant\n%s", got, want)
	}

	if got := RenderText(mergeLayout(), WithTextWindow(10, 5)); len(got) != 0 {
		t.Errorf("window past the end = %q, want empty", got)
	}
}

func TestRenderText_FixedRows(t *testing.T) {
	l := layoutOf([]feed.Commit{{SHA: "a", Subject: "one"}, {SHA: "b", Subject: "two"}})
	got := string(RenderText(l, WithTextFixedRows()))
	want := "● a one\n\n● b two\n\n"
	if got != want {
		t.Errorf("RenderText fixed =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderText_Empty(t *testing.T) {
	if got := RenderText(layoutOf(nil)); len(got) != 0 {
		t.Errorf("RenderText(empty) = %q, want empty", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(mergeLayout()))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`<path d="M15.0 22.0 Q29.0 22.0 29.0 36.0`,
		`class="msg"`,
		"merge</text>",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if n := strings.Count(svg, "<circle"); n != 5 {
		t.Errorf("circles = %d, want 5", n)
	}
	if n := strings.Count(svg, "<path"); n != 2 {
		t.Errorf("paths = %d, want 2", n)
	}
}

func TestRenderSVG_Options(t *testing.T) {
	l := mergeLayout()

	svg := string(RenderSVG(l, WithMessages(false), WithWindow(4, 1)))
	if strings.Contains(svg, "<text") {
		t.Error("messages rendered with WithMessages(false)")
	}
	if n := strings.Count(svg, "<circle"); n != 1 {
		t.Errorf("circles in window = %d, want 1", n)
	}
	if !strings.Contains(svg, "translate(0 -112.0)") {
		t.Error("window not translated to row 4")
	}

	svg = string(RenderSVG(l, WithPalette([]string{"red"}), WithMessages(false)))
	if strings.Contains(svg, "#1f77b4") || !strings.Contains(svg, `fill="red"`) {
		t.Error("palette not applied")
	}

	if !strings.Contains(string(RenderSVG(l, WithDimUnmerged())), "opacity") {
		t.Error("unmerged rows not dimmed")
	}
}

func TestRenderSVG_Escapes(t *testing.T) {
	l := layoutOf([]feed.Commit{{SHA: "abc", Subject: "a <b> & c"}})
	svg := string(RenderSVG(l))
	if !strings.Contains(svg, "a &lt;b&gt; &amp; c") {
		t.Errorf("subject not escaped:\n%s", svg)
	}
}

func TestRenderJSON(t *testing.T) {
	l := mergeLayout()

	data, err := RenderJSON(l)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	got, err := graph.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if got.Rows != 5 || len(got.Commits) != 5 || len(got.Lines) != 2 {
		t.Errorf("got rows=%d commits=%d lines=%d", got.Rows, len(got.Commits), len(got.Lines))
	}

	data, err = RenderJSON(l, WithJSONWindow(1, 2))
	if err != nil {
		t.Fatalf("RenderJSON window: %v", err)
	}
	got, err = graph.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout window: %v", err)
	}
	if got.FirstRow != 1 || len(got.Commits) != 2 || got.Commits[0].SHA != "C3" {
		t.Errorf("window first=%d commits=%d", got.FirstRow, len(got.Commits))
	}
}

func TestWindowBounds(t *testing.T) {
	tests := []struct {
		w           window
		n           int
		top, bottom int
	}{
		{window{}, 5, 0, 4},
		{window{top: 2}, 5, 2, 4},
		{window{top: 2, rows: 2}, 5, 2, 3},
		{window{top: 4, rows: 10}, 5, 4, 4},
		{window{top: -3, rows: 1}, 5, 0, 0},
		{window{top: 7}, 5, 5, 4},
		{window{}, 0, 0, -1},
	}
	for _, tt := range tests {
		top, bottom := tt.w.bounds(tt.n)
		if top != tt.top || bottom != tt.bottom {
			t.Errorf("%+v.bounds(%d) = %d, %d, want %d, %d", tt.w, tt.n, top, bottom, tt.top, tt.bottom)
		}
	}
}
