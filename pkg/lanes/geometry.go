package lanes

// Segment is one piece of a line between two consecutive points. Curved
// segments are quadratic curves through Control; straight segments ignore it.
type Segment struct {
	From    Point
	Control Point
	To      Point
	Curved  bool
}

// Elbow returns the points that carry a track from one lane to another: a
// point on the old lane half a row above the target row, then the target.
// Renderers draw the pair as a single bend.
func Elbow(from, to Point) []Point {
	return []Point{
		{Lane: from.Lane, Row: to.Row - 0.5},
		to,
	}
}

// Segments splits a polyline into straight and curved segments.
//
// Moving to a higher lane bends out horizontally first (control at the target
// lane on the starting row), which is how merge parents leave a dot. Moving to
// a lower lane drops vertically first (control on the starting lane at the
// target row), which is how tracks fold into a dot or close a gap.
func Segments(points []Point) []Segment {
	if len(points) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		from, to := points[i-1], points[i]
		s := Segment{From: from, To: to, Control: to}
		switch {
		case to.Lane > from.Lane:
			s.Curved = true
			s.Control = Point{Lane: to.Lane, Row: from.Row}
		case to.Lane < from.Lane:
			s.Curved = true
			s.Control = Point{Lane: from.Lane, Row: to.Row}
		}
		segs = append(segs, s)
	}
	return segs
}

// Segments returns the line's segments. See [Segments].
func (l Line) Segments() []Segment { return Segments(l.Points) }
