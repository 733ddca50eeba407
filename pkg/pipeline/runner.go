package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitlanes/pkg/cache"
	apperr "github.com/matzehuels/gitlanes/pkg/errors"
	"github.com/matzehuels/gitlanes/pkg/feed"
	"github.com/matzehuels/gitlanes/pkg/graph"
	gio "github.com/matzehuels/gitlanes/pkg/io"
	"github.com/matzehuels/gitlanes/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so the caching rules live in one place.
//
// The Runner holds no per-run state. Multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// FeedTTL overrides cache.TTLFeed when positive.
	FeedTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete feed → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Feed
	start := time.Now()
	commits, feedHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	result.Commits = commits
	result.FeedHash = feedHash(commits)
	result.Stats.FeedTime = time.Since(start)
	result.Stats.Commits = len(commits)
	result.CacheInfo.FeedHit = feedHit

	r.Logger.Info("loaded commits",
		"source", opts.source(),
		"commits", len(commits),
		"duration", result.Stats.FeedTime)

	// Stage 2: Layout
	start = time.Now()
	layout, layoutHit, err := r.layout(ctx, commits, result.FeedHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Graph = layout.Graph()
	result.Stats.LayoutTime = time.Since(start)
	result.Stats.Lanes = layout.Lanes
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"lanes", layout.Lanes,
		"lines", len(layout.Lines),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	start = time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, commits, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// =============================================================================
// Feed Stage
// =============================================================================

// LoadWithCacheInfo loads the feed and reports whether it came from cache.
//
// Only repository feeds are cached. Their key includes a hash of every ref
// the repository has, so any commit, fetch or branch change misses.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (commits []feed.Commit, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForFeed(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	source := opts.source()
	hooks.OnFeedStart(ctx, source)
	start := time.Now()
	defer func() {
		hooks.OnFeedComplete(ctx, source, len(commits), time.Since(start), err)
	}()

	if opts.Repo == "" {
		commits, err = Load(ctx, opts)
		return commits, false, err
	}

	repo, err := feed.Open(opts.Repo)
	if err != nil {
		return nil, false, err
	}
	state, err := feed.State(repo)
	if err != nil {
		return nil, false, err
	}
	abs, err := filepath.Abs(opts.Repo)
	if err != nil {
		abs = opts.Repo
	}
	key := r.Keyer.FeedKey(abs, cache.Hash([]byte(state)), opts.FeedKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, "feed", key); ok {
			if cached, err := gio.ReadJSON(bytes.NewReader(data)); err == nil {
				return cached, true, nil
			}
		}
	}

	commits, err = feed.Load(ctx, repo, opts.FeedOptions())
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := gio.WriteJSON(commits, &buf); err == nil {
		ttl := cache.TTLFeed
		if r.FeedTTL > 0 {
			ttl = r.FeedTTL
		}
		r.set(ctx, "feed", key, buf.Bytes(), ttl)
	}
	return commits, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) ([]feed.Commit, error) {
	commits, _, err := r.LoadWithCacheInfo(ctx, opts)
	return commits, err
}

// =============================================================================
// Layout Stage
// =============================================================================

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, commits []feed.Commit, opts Options) (graph.Layout, bool, error) {
	return r.layout(ctx, commits, feedHash(commits), opts)
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, commits []feed.Commit, opts Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, commits, opts)
	return l, err
}

func (r *Runner) layout(ctx context.Context, commits []feed.Commit, hash string, opts Options) (l graph.Layout, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(commits))
	start := time.Now()
	defer func() {
		hooks.OnLayoutComplete(ctx, l.Lanes, time.Since(start), err)
	}()

	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	if data, ok := r.get(ctx, "layout", key); ok {
		if cached, err := graph.UnmarshalLayout(data); err == nil {
			return cached, true, nil
		}
		// A stale or corrupt document is recomputed.
	}

	l = ComputeLayout(commits, opts)

	if data, err := graph.MarshalLayout(l); err == nil {
		r.set(ctx, "layout", key, data, cache.TTLLayout)
	}
	return l, false, nil
}

// =============================================================================
// Render Stage
// =============================================================================

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The hit flag is set only when every requested format was cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, commits []feed.Commit, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, apperr.Wrap(apperr.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, ok := r.get(ctx, "artifact", r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
		if !ok {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, l, commits, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		r.set(ctx, "artifact", r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, commits []feed.Commit, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, commits, opts)
	return artifacts, err
}

// =============================================================================
// Helpers
// =============================================================================

// get reads a cache entry. Backend errors count as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "type", keyType, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// feedHash is the content hash layouts are keyed by.
func feedHash(commits []feed.Commit) string {
	var buf bytes.Buffer
	if err := gio.WriteJSON(commits, &buf); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
