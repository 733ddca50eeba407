package lanes

// DefaultPaletteSize is the number of track colors used when no
// [WithPaletteSize] option is given.
const DefaultPaletteSize = 8

// CommitRef is one commit as seen by the layout engine.
//
// Parents are ordered: the first entry is the primary line of ancestry, the
// rest are merge parents. An empty list marks a root commit. Build never
// modifies a CommitRef.
type CommitRef struct {
	SHA     string
	Parents []string
	IsHead  bool
}

// Point is a position in lane and row units. Row r is the center of commit r;
// half rows (r-0.5, r+0.5) are the band edges where lane changes bend.
type Point struct {
	Lane float64
	Row  float64
}

// DotKind distinguishes how a commit's dot is drawn.
type DotKind int

const (
	// DotDefault is a regular commit.
	DotDefault DotKind = iota
	// DotHead is the checked-out commit.
	DotHead
	// DotMerge is a commit with more than one parent.
	DotMerge
)

// String returns the lowercase name of the kind.
func (k DotKind) String() string {
	switch k {
	case DotHead:
		return "head"
	case DotMerge:
		return "merge"
	default:
		return "default"
	}
}

// Dot is the node drawn for one commit.
type Dot struct {
	Point
	Color int
	Kind  DotKind
}

// Line is a finished track: the polyline a line of descent traced from the
// row it opened to the row it merged, hit a root, or left the window.
type Line struct {
	Points   []Point
	Color    int
	IsMerged bool
}

// ShortLink connects a merge commit's dot to a track that already targets one
// of its extra parents. Control is the quadratic bend point.
type ShortLink struct {
	Start    Point
	Control  Point
	End      Point
	Color    int
	IsMerged bool
}

// Row holds the fields derived for one input commit.
type Row struct {
	// Lane is the lane of the commit's dot.
	Lane float64
	// LaneOffset is the width, in lanes, of this commit's row band: the
	// largest lane count among the tracks entering and leaving the row.
	// Renderers start the message column here.
	LaneOffset float64
	// IsMerged reports whether the commit is reachable from the head.
	IsMerged bool
	// Color is the dot's palette index.
	Color int
}

// Graph is the result of a layout pass. All slices are non-nil. Rows is
// indexed like the input commits; Lines are sorted by their first point's row.
type Graph struct {
	Dots  []Dot
	Lines []Line
	Links []ShortLink
	Rows  []Row

	// Lanes is the peak number of lanes in use on any row.
	Lanes int
}

// Len returns the number of commits laid out.
func (g *Graph) Len() int { return len(g.Dots) }
