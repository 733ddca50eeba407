package lanes

// track is an open line of descent waiting to reach target.
type track struct {
	target string
	color  int
	merged bool
	lane   float64
	points []Point
	ended  bool
}

func newTrack(target string, color int, merged bool, start Point) *track {
	return &track{
		target: target,
		color:  color,
		merged: merged,
		lane:   start.Lane,
		points: []Point{start},
	}
}

// moveTo extends the track to lane at row, bending through an elbow when the
// lane changes.
func (t *track) moveTo(lane, row float64) {
	to := Point{Lane: lane, Row: row}
	if lane == t.lane {
		t.add(to)
		return
	}
	for _, p := range Elbow(Point{Lane: t.lane, Row: t.lastRow()}, to) {
		t.add(p)
	}
	t.lane = lane
}

// add appends p unless it repeats the last point or would step back a row.
func (t *track) add(p Point) {
	if n := len(t.points); n > 0 {
		last := t.points[n-1]
		if p == last || p.Row < last.Row {
			return
		}
	}
	t.points = append(t.points, p)
}

func (t *track) lastRow() float64 {
	return t.points[len(t.points)-1].Row
}

func (t *track) line() Line {
	return Line{Points: t.points, Color: t.color, IsMerged: t.merged}
}
