package cache

import "strings"

// Keyer names cache entries for each pipeline stage.
type Keyer interface {
	// FeedKey names a commit feed loaded from a repository. head is the
	// resolved HEAD sha so a new commit invalidates the entry.
	FeedKey(repo, head string, opts FeedKeyOpts) string

	// LayoutKey names a layout computed from a feed with the given hash.
	LayoutKey(feedHash string, opts LayoutKeyOpts) string

	// ArtifactKey names one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// FeedKeyOpts holds the feed options that change the loaded commits.
type FeedKeyOpts struct {
	Limit int      `json:"limit"`
	All   bool     `json:"all,omitempty"`
	Revs  []string `json:"revs,omitempty"`
}

// LayoutKeyOpts holds the engine options that change a layout.
type LayoutKeyOpts struct {
	PaletteSize int  `json:"palette_size"`
	FirstParent bool `json:"first_parent,omitempty"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format    string   `json:"format"`
	Top       int      `json:"top,omitempty"`
	Rows      int      `json:"rows,omitempty"`
	Messages  bool     `json:"messages"`
	RowHeight float64  `json:"row_height,omitempty"`
	LaneWidth float64  `json:"lane_width,omitempty"`
	Dim       bool     `json:"dim,omitempty"`
	Palette   []string `json:"palette,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
}

// DefaultKeyer produces keys of the form "stage:hash".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FeedKey implements Keyer.
func (DefaultKeyer) FeedKey(repo, head string, opts FeedKeyOpts) string {
	return hashKey("feed", repo, head, opts)
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(feedHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", feedHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	opts.Format = strings.ToLower(opts.Format)
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
