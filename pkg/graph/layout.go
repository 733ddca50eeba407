package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	apperr "github.com/matzehuels/gitlanes/pkg/errors"
)

// =============================================================================
// Layout - Commit Graph Document
// =============================================================================

// Layout is the serialization format for a laid-out commit graph.
//
// Commits, Dots and the derived per-row fields are indexed by row. Lines are
// sorted by their first row and Links by their start row, which is what
// window queries rely on.
type Layout struct {
	Rows        int  `json:"rows" bson:"rows"`
	Lanes       int  `json:"lanes" bson:"lanes"`
	PaletteSize int  `json:"palette_size" bson:"palette_size"`
	FirstParent bool `json:"first_parent,omitempty" bson:"first_parent,omitempty"`

	// FirstRow is the absolute row of Commits[0]; non-zero only for windows.
	FirstRow int `json:"first_row,omitempty" bson:"first_row,omitempty"`

	Commits []Commit `json:"commits" bson:"commits"`
	Dots    []Dot    `json:"dots" bson:"dots"`
	Lines   []Line   `json:"lines" bson:"lines"`
	Links   []Link   `json:"links" bson:"links"`
}

// Window returns the part of l that touches rows top through bottom
// inclusive. Rows and Lanes still describe the whole graph. A window of a
// window is not supported; call Window on the full layout.
func (l Layout) Window(top, bottom float64) Layout {
	v := l.Graph().Visible(top, bottom)

	w := Layout{
		Rows:        l.Rows,
		Lanes:       l.Lanes,
		PaletteSize: l.PaletteSize,
		FirstParent: l.FirstParent,
		FirstRow:    v.First,
		Commits:     []Commit{},
		Dots:        []Dot{},
		Lines:       []Line{},
		Links:       []Link{},
	}
	if n := len(v.Dots); n > 0 {
		w.Commits = l.Commits[v.First : v.First+n]
		w.Dots = l.Dots[v.First : v.First+n]
	}
	for _, ln := range v.Lines {
		pts := make([]Point, len(ln.Points))
		for i, p := range ln.Points {
			pts[i] = toPoint(p)
		}
		w.Lines = append(w.Lines, Line{Points: pts, Color: ln.Color, Merged: ln.IsMerged})
	}
	for _, s := range v.Links {
		w.Links = append(w.Links, Link{
			Start: toPoint(s.Start), Control: toPoint(s.Control), End: toPoint(s.End),
			Color: s.Color, Merged: s.IsMerged,
		})
	}
	return w
}

// Validate checks the structural invariants a renderer depends on.
func (l Layout) Validate() error {
	if l.FirstRow != 0 {
		if l.FirstRow < 0 || l.FirstRow+len(l.Commits) > l.Rows {
			return apperr.New(apperr.ErrCodeInvalidLayout, "window rows %d+%d exceed %d", l.FirstRow, len(l.Commits), l.Rows)
		}
	} else if len(l.Commits) != l.Rows && len(l.Commits) != 0 {
		return apperr.New(apperr.ErrCodeInvalidLayout, "rows = %d but %d commits", l.Rows, len(l.Commits))
	}
	if len(l.Dots) != len(l.Commits) {
		return apperr.New(apperr.ErrCodeInvalidLayout, "%d dots for %d commits", len(l.Dots), len(l.Commits))
	}
	if l.Lanes < 0 || l.PaletteSize < 0 {
		return apperr.New(apperr.ErrCodeInvalidLayout, "negative lanes or palette size")
	}
	for i, ln := range l.Lines {
		if len(ln.Points) < 2 {
			return apperr.New(apperr.ErrCodeInvalidLayout, "line %d has %d points", i, len(ln.Points))
		}
		for _, p := range ln.Points {
			if math.IsNaN(p.Lane) || math.IsNaN(p.Row) {
				return apperr.New(apperr.ErrCodeInvalidLayout, "line %d has a NaN coordinate", i)
			}
		}
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	if l.Commits == nil {
		l.Commits = []Commit{}
	}
	if l.Dots == nil {
		l.Dots = []Dot{}
	}
	if l.Lines == nil {
		l.Lines = []Line{}
	}
	if l.Links == nil {
		l.Links = []Link{}
	}
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, apperr.Wrap(apperr.ErrCodeInvalidLayout, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
