// Package config loads gitlanes settings from a TOML file and the
// environment.
//
// The file is looked up in this order:
//
//  1. $GITLANES_CONFIG
//  2. $XDG_CONFIG_HOME/gitlanes/config.toml
//  3. ~/.config/gitlanes/config.toml
//
// A missing file is not an error; [Default] values apply. GITLANES_*
// environment variables override the file. A minimal file:
//
//	[feed]
//	limit = 5000
//
//	[cache]
//	backend = "bolt"
//	ttl = "30m"
//
//	[repos]
//	gitlanes = "~/src/gitlanes"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperr "github.com/matzehuels/gitlanes/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "gitlanes"

// Config is the full settings tree.
type Config struct {
	Feed   FeedConfig        `toml:"feed"`
	Layout LayoutConfig      `toml:"layout"`
	Render RenderConfig      `toml:"render"`
	Cache  CacheConfig       `toml:"cache"`
	Server ServerConfig      `toml:"server"`
	Repos  map[string]string `toml:"repos"`
}

// FeedConfig controls how commits are loaded.
type FeedConfig struct {
	Limit   int  `toml:"limit"`
	All     bool `toml:"all"`
	MaxScan int  `toml:"max_scan"`
}

// LayoutConfig controls the lane engine.
type LayoutConfig struct {
	PaletteSize int  `toml:"palette_size"`
	FirstParent bool `toml:"first_parent"`
}

// RenderConfig controls output.
type RenderConfig struct {
	Formats   []string `toml:"formats"`
	Messages  bool     `toml:"messages"`
	RowHeight float64  `toml:"row_height"`
	LaneWidth float64  `toml:"lane_width"`
	Palette   []string `toml:"palette"`
	// Converter is the rsvg-convert binary for png and pdf output.
	Converter string `toml:"converter"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // file, bolt, redis or none
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
	Compress  bool     `toml:"compress"`
}

// ServerConfig configures `gitlanes serve`.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Duration is a time.Duration written as a string like "10m" in TOML.
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Feed:   FeedConfig{Limit: 2000, MaxScan: 50000},
		Layout: LayoutConfig{PaletteSize: 8},
		Render: RenderConfig{Formats: []string{"svg"}, Messages: true, Converter: "rsvg-convert"},
		Cache: CacheConfig{
			Backend: "file",
			Dir:     DefaultCacheDir(),
			TTL:     Duration{10 * time.Minute},
		},
		Server: ServerConfig{Addr: ":8080", MongoDatabase: AppName},
		Repos:  map[string]string{},
	}
}

// Path returns the config file location, or "" if none can be determined.
func Path() string {
	if p := os.Getenv("GITLANES_CONFIG"); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName, "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/gitlanes or ~/.cache/gitlanes.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".cache", AppName)
}

// Load reads the file at path over [Default] and applies environment
// overrides. An empty path means [Path]. A missing file is only an error when
// path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = Path()
	}

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case err != nil:
			return Config{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read config %s", path)
		default:
			if extra := md.Undecoded(); len(extra) > 0 {
				keys := make([]string, len(extra))
				for i, k := range extra {
					keys[i] = k.String()
				}
				return Config{}, apperr.New(apperr.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
			}
		}
	}

	applyEnv(&cfg, os.Getenv)
	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides cfg from GITLANES_* variables. Unparseable numbers are
// ignored.
func applyEnv(cfg *Config, getenv func(string) string) {
	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.Cache.Backend, "GITLANES_CACHE_BACKEND")
	setString(&cfg.Cache.Dir, "GITLANES_CACHE_DIR")
	setString(&cfg.Cache.RedisAddr, "GITLANES_REDIS_ADDR")
	setString(&cfg.Server.Addr, "GITLANES_ADDR")
	setString(&cfg.Server.MongoURI, "GITLANES_MONGO_URI")
	setString(&cfg.Render.Converter, "GITLANES_CONVERTER")

	if v, err := strconv.Atoi(getenv("GITLANES_LIMIT")); err == nil {
		cfg.Feed.Limit = v
	}
	if v, err := strconv.Atoi(getenv("GITLANES_PALETTE_SIZE")); err == nil {
		cfg.Layout.PaletteSize = v
	}
	if v, err := time.ParseDuration(getenv("GITLANES_CACHE_TTL")); err == nil {
		cfg.Cache.TTL = Duration{v}
	}
}

// expandPaths resolves a leading ~ in repository and cache paths.
func (c *Config) expandPaths() {
	c.Cache.Dir = expandHome(c.Cache.Dir)
	for name, p := range c.Repos {
		c.Repos[name] = expandHome(p)
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	if err := apperr.ValidateLimit(c.Feed.Limit); err != nil {
		return err
	}
	if c.Layout.PaletteSize < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "palette_size must not be negative")
	}
	switch c.Cache.Backend {
	case "", "file", "bolt", "redis", "none":
	default:
		return apperr.New(apperr.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "cache backend redis needs redis_addr")
	}
	for name := range c.Repos {
		if err := apperr.ValidateRepoName(name); err != nil {
			return err
		}
	}
	return nil
}

// RepoPath returns the configured path for a repository name.
func (c Config) RepoPath(name string) (string, error) {
	p, ok := c.Repos[name]
	if !ok {
		return "", apperr.New(apperr.ErrCodeRepoNotFound, "repository %q is not configured", name)
	}
	return p, nil
}
