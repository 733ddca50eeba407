package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/gitlanes/pkg/cache"
)

func cacheConfig(t *testing.T, dir, backend string) {
	t.Helper()
	cfg := "[cache]\nbackend = \"" + backend + "\"\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "cache")) + "\"\n"
	writeTestFile(t, filepath.Join(dir, "config.toml"), cfg)
}

func TestCachePath(t *testing.T) {
	c, dir := testCLI(t)
	cacheConfig(t, dir, "file")

	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", filepath.Join(dir, "config.toml"), "cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got, want := strings.TrimSpace(out.String()), filepath.Join(dir, "cache"); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClear(t *testing.T) {
	c, dir := testCLI(t)
	cacheConfig(t, dir, "file")

	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fc.Set(ctx, "layout:abc", []byte("x"), time.Hour); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, c, dir, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "layout:abc"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestCacheClear_Missing(t *testing.T) {
	c, dir := testCLI(t)
	cacheConfig(t, dir, "file")
	if err := runCommand(t, c, dir, "cache", "clear"); err != nil {
		t.Errorf("clearing a missing cache dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cache")); err == nil {
		t.Error("cache clear created the cache dir")
	}
}

func TestCachePrune(t *testing.T) {
	c, dir := testCLI(t)
	cacheConfig(t, dir, "bolt")
	if err := os.MkdirAll(filepath.Join(dir, "cache"), 0o755); err != nil {
		t.Fatal(err)
	}

	bc, err := cache.NewBoltCache(filepath.Join(dir, "cache", cache.BoltFile))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := bc.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	if err := bc.Close(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)

	if err := runCommand(t, c, dir, "cache", "prune"); err != nil {
		t.Fatalf("cache prune: %v", err)
	}
}
