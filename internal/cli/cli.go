// Package cli implements the gitlanes command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitlanes/pkg/cache"
	"github.com/matzehuels/gitlanes/pkg/config"
	"github.com/matzehuels/gitlanes/pkg/observability"
	"github.com/matzehuels/gitlanes/pkg/pipeline"
	"github.com/matzehuels/gitlanes/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs; see RootCommand.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger and built-in settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. Debug level also routes pipeline
// and cache events to the log.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
}

// loadConfig reads the config file and applies settings with global effect.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.Render.Converter != "" {
		render.Converter = cfg.Render.Converter
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.FeedTTL = c.Config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc := c.Config.Cache
	ch, err := cache.Open(ctx, cache.Config{
		Backend:   cc.Backend,
		Dir:       cc.Dir,
		RedisAddr: cc.RedisAddr,
		Compress:  cc.Compress,
	})
	if err != nil {
		// A broken cache should not block rendering.
		c.Logger.Warn("cache disabled", "backend", cc.Backend, "error", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the config file. Flags
// are bound on top of these values.
func (c *CLI) baseOptions() pipeline.Options {
	cfg := c.Config
	return pipeline.Options{
		Limit:       cfg.Feed.Limit,
		All:         cfg.Feed.All,
		MaxScan:     cfg.Feed.MaxScan,
		PaletteSize: cfg.Layout.PaletteSize,
		FirstParent: cfg.Layout.FirstParent,
		Formats:     cfg.Render.Formats,
		NoMessages:  !cfg.Render.Messages,
		RowHeight:   cfg.Render.RowHeight,
		LaneWidth:   cfg.Render.LaneWidth,
		Palette:     cfg.Render.Palette,
		Logger:      c.Logger,
	}
}

// feedSource fills the feed source of opts from the positional argument and
// --input. With neither, the current directory is used.
func feedSource(opts *pipeline.Options, args []string, input string) {
	switch {
	case input != "":
		opts.Input = input
	case len(args) > 0:
		opts.Repo = args[0]
	default:
		opts.Repo = "."
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
