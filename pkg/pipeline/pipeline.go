// Package pipeline runs the feed → layout → render sequence shared by the
// CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Feed: load commits from a repository, a feed file or an inline list
//  2. Layout: assign lanes with the lanes engine and build a graph.Layout
//  3. Render: produce svg, json, text, dot, png or pdf output
//
// Each stage can be run on its own or as part of [Runner.Execute]. The
// runner caches every stage: feeds by repository ref state, layouts by feed
// hash, artifacts by layout hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Repo:    ".",
//	    Limit:   500,
//	    Formats: []string{"svg", "text"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitlanes/pkg/cache"
	apperr "github.com/matzehuels/gitlanes/pkg/errors"
	"github.com/matzehuels/gitlanes/pkg/feed"
	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/lanes"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultLimit is the number of commits loaded when none is given.
	DefaultLimit = feed.DefaultLimit

	// DefaultPaletteSize is the number of track colors.
	DefaultPaletteSize = lanes.DefaultPaletteSize

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatText = "text"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatText: true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// FormatExt maps a format to its output file extension.
var FormatExt = map[string]string{
	FormatSVG:  ".svg",
	FormatJSON: ".json",
	FormatText: ".txt",
	FormatDOT:  ".dot",
	FormatPNG:  ".png",
	FormatPDF:  ".pdf",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
//
// Exactly one feed source must be set: Repo, Input or Commits.
type Options struct {
	// Feed options
	Repo    string        `json:"repo,omitempty"`  // repository path
	Input   string        `json:"input,omitempty"` // feed file, "-" for Stdin
	Commits []feed.Commit `json:"commits,omitempty"`
	Limit   int           `json:"limit,omitempty"`
	All     bool          `json:"all,omitempty"`
	Revs    []string      `json:"revs,omitempty"`
	MaxScan int           `json:"max_scan,omitempty"`
	Refresh bool          `json:"refresh,omitempty"`

	// Layout options
	PaletteSize int  `json:"palette_size,omitempty"`
	FirstParent bool `json:"first_parent,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Top         int      `json:"top,omitempty"`
	Rows        int      `json:"rows,omitempty"`
	NoMessages  bool     `json:"no_messages,omitempty"`
	DimUnmerged bool     `json:"dim_unmerged,omitempty"`
	RowHeight   float64  `json:"row_height,omitempty"`
	LaneWidth   float64  `json:"lane_width,omitempty"`
	Palette     []string `json:"palette,omitempty"`
	Scale       float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Stdin  io.Reader   `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Commits is the loaded feed.
	Commits []feed.Commit

	// FeedHash is the content hash of the feed.
	FeedHash string

	// Layout is the serializable layout document.
	Layout graph.Layout

	// Graph is the engine view of Layout.
	Graph *lanes.Graph

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Commits    int
	Lanes      int
	FeedTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FeedHit   bool // Whether the feed came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperr.New(apperr.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, text, dot, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the whole pipeline's options and applies
// defaults. Calling it again has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFeed(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFeed checks the feed source and applies feed defaults.
func (o *Options) ValidateForFeed() error {
	sources := 0
	for _, set := range []bool{o.Repo != "", o.Input != "", o.Commits != nil} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return apperr.New(apperr.ErrCodeInvalidInput, "one of repo, input or commits is required")
	case sources > 1:
		return apperr.New(apperr.ErrCodeInvalidInput, "repo, input and commits are mutually exclusive")
	}

	if err := apperr.ValidateLimit(o.Limit); err != nil {
		return err
	}
	for _, rev := range o.Revs {
		if err := apperr.ValidateRevision(rev); err != nil {
			return err
		}
	}
	if o.Limit == 0 {
		o.Limit = DefaultLimit
	}
	if o.Input == "-" && o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.PaletteSize == 0 {
		o.PaletteSize = DefaultPaletteSize
		if len(o.Palette) > 0 {
			o.PaletteSize = len(o.Palette)
		}
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	if o.PaletteSize < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "palette size must not be negative")
	}
	o.SetLayoutDefaults()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Top < 0 || o.Rows < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "top and rows must not be negative")
	}
	if o.RowHeight < 0 || o.LaneWidth < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "row height and lane width must not be negative")
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// FeedOptions returns the options for feed.Load.
func (o *Options) FeedOptions() feed.Options {
	return feed.Options{Limit: o.Limit, All: o.All, Revs: o.Revs, MaxScan: o.MaxScan}
}

// FeedKeyOpts returns cache key options for feed loading.
func (o *Options) FeedKeyOpts() cache.FeedKeyOpts {
	return cache.FeedKeyOpts{Limit: o.Limit, All: o.All, Revs: o.Revs}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{PaletteSize: o.PaletteSize, FirstParent: o.FirstParent}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Top:       o.Top,
		Rows:      o.Rows,
		Messages:  !o.NoMessages,
		RowHeight: o.RowHeight,
		LaneWidth: o.LaneWidth,
		Dim:       o.DimUnmerged,
		Palette:   o.Palette,
		Scale:     o.Scale,
	}
}

// source describes the feed source for logs and hooks.
func (o *Options) source() string {
	switch {
	case o.Repo != "":
		return o.Repo
	case o.Input != "":
		return o.Input
	default:
		return fmt.Sprintf("inline (%d commits)", len(o.Commits))
	}
}
