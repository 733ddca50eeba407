package graph

import (
	"time"

	"github.com/matzehuels/gitlanes/pkg/lanes"
)

// =============================================================================
// Geometry
// =============================================================================

// Point is a position in lane and row units.
type Point struct {
	Lane float64 `json:"lane" bson:"lane"`
	Row  float64 `json:"row" bson:"row"`
}

// Dot is the marker drawn for one commit.
type Dot struct {
	Lane  float64 `json:"lane" bson:"lane"`
	Row   float64 `json:"row" bson:"row"`
	Color int     `json:"color" bson:"color"`
	Kind  string  `json:"kind" bson:"kind"` // "default", "head" or "merge"
}

// Line is a polyline between commits.
type Line struct {
	Points []Point `json:"points" bson:"points"`
	Color  int     `json:"color" bson:"color"`
	Merged bool    `json:"merged,omitempty" bson:"merged,omitempty"`
}

// Link is a quadratic curve from a merge dot into an existing lane.
type Link struct {
	Start   Point `json:"start" bson:"start"`
	Control Point `json:"control" bson:"control"`
	End     Point `json:"end" bson:"end"`
	Color   int   `json:"color" bson:"color"`
	Merged  bool  `json:"merged,omitempty" bson:"merged,omitempty"`
}

// =============================================================================
// Commit - Per-Row Record
// =============================================================================

// Ref is a decoration shown next to a commit.
type Ref struct {
	Name string `json:"name" bson:"name"`
	Kind string `json:"kind" bson:"kind"`
}

// Commit carries the display fields of one row together with the derived
// lane fields.
type Commit struct {
	SHA     string    `json:"sha" bson:"sha"`
	Subject string    `json:"subject,omitempty" bson:"subject,omitempty"`
	Author  string    `json:"author,omitempty" bson:"author,omitempty"`
	When    time.Time `json:"when,omitzero" bson:"when,omitempty"`
	Refs    []Ref     `json:"refs,omitempty" bson:"refs,omitempty"`

	Lane       float64 `json:"lane" bson:"lane"`
	LaneOffset float64 `json:"lane_offset" bson:"lane_offset"`
	Merged     bool    `json:"merged" bson:"merged"`
	Color      int     `json:"color" bson:"color"`
}

var dotKinds = map[string]lanes.DotKind{
	lanes.DotDefault.String(): lanes.DotDefault,
	lanes.DotHead.String():    lanes.DotHead,
	lanes.DotMerge.String():   lanes.DotMerge,
}

func toPoint(p lanes.Point) Point { return Point{Lane: p.Lane, Row: p.Row} }

func (p Point) toLanes() lanes.Point { return lanes.Point{Lane: p.Lane, Row: p.Row} }
