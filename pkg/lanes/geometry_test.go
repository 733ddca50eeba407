package lanes

import (
	"reflect"
	"testing"
)

func TestElbow(t *testing.T) {
	got := Elbow(Point{Lane: 2, Row: 3}, Point{Lane: 0, Row: 4})
	want := []Point{{Lane: 2, Row: 3.5}, {Lane: 0, Row: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Elbow() = %v, want %v", got, want)
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   []Segment
	}{
		{
			name:   "single point",
			points: []Point{{0, 0}},
			want:   nil,
		},
		{
			name:   "straight",
			points: []Point{{1, 0}, {1, 1}},
			want:   []Segment{{From: Point{1, 0}, Control: Point{1, 1}, To: Point{1, 1}}},
		},
		{
			name:   "out to a higher lane",
			points: []Point{{0, 2}, {1, 2.5}},
			want: []Segment{{
				From: Point{0, 2}, Control: Point{1, 2}, To: Point{1, 2.5}, Curved: true,
			}},
		},
		{
			name:   "fold into a lower lane",
			points: []Point{{1, 3}, {1, 3.5}, {0, 4}},
			want: []Segment{
				{From: Point{1, 3}, Control: Point{1, 3.5}, To: Point{1, 3.5}},
				{From: Point{1, 3.5}, Control: Point{1, 4}, To: Point{0, 4}, Curved: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segments(tt.points)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segments() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLineSegments(t *testing.T) {
	g := Build([]CommitRef{
		{SHA: "m", Parents: []string{"a", "b"}},
		{SHA: "a", Parents: []string{"b"}},
		{SHA: "b"},
	})

	curves := 0
	for _, l := range g.Lines {
		segs := l.Segments()
		if len(segs) != len(l.Points)-1 {
			t.Errorf("len(Segments) = %d, want %d", len(segs), len(l.Points)-1)
		}
		for _, s := range segs {
			if s.Curved {
				curves++
			}
		}
	}
	// The merge parent leaves m and folds back into b.
	if curves != 2 {
		t.Errorf("curved segments = %d, want 2", curves)
	}
}
