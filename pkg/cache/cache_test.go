package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// testBackend runs the behavior every persistent backend shares.
func testBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) hit=%v err=%v", hit, err)
	}

	want := []byte(`{"rows":3}`)
	if err := c.Set(ctx, "layout:abc", want, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, hit, err := c.Get(ctx, "layout:abc")
	if err != nil || !hit || !bytes.Equal(got, want) {
		t.Fatalf("Get = %q, %v, %v; want %q", got, hit, err, want)
	}

	if err := c.Set(ctx, "layout:abc", []byte("v2"), 0); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _, _ := c.Get(ctx, "layout:abc"); string(got) != "v2" {
		t.Errorf("after overwrite Get = %q, want v2", got)
	}

	if err := c.Set(ctx, "stale", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set stale: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "stale"); hit {
		t.Error("expired entry returned")
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("deleted entry returned")
	}
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	testBackend(t, c)
}

func TestFileCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(c.path("k"), "not json"); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestBoltCache(t *testing.T) {
	c, err := NewBoltCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewBoltCache: %v", err)
	}
	defer c.Close()
	testBackend(t, c)
}

func TestBoltCache_Prune(t *testing.T) {
	ctx := context.Background()
	c, err := NewBoltCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_ = c.Set(ctx, "keep", []byte("1"), time.Hour)
	_ = c.Set(ctx, "forever", []byte("2"), 0)
	_ = c.Set(ctx, "drop", []byte("3"), time.Nanosecond)
	time.Sleep(2 * time.Millisecond)

	n, err := c.Prune()
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("Prune removed %d, want 1", n)
	}
	if _, hit, _ := c.Get(ctx, "keep"); !hit {
		t.Error("live entry pruned")
	}
}

func TestCompressed(t *testing.T) {
	ctx := context.Background()
	inner, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewCompressed(inner)
	defer c.Close()
	testBackend(t, c)

	big := []byte(strings.Repeat(`{"lane":0,"row":1},`, 2000))
	if err := c.Set(ctx, "big", big, 0); err != nil {
		t.Fatal(err)
	}
	raw, _, _ := inner.Get(ctx, "big")
	if len(raw) >= len(big)/4 {
		t.Errorf("stored %d bytes for %d input, want compression", len(raw), len(big))
	}
	got, hit, err := c.Get(ctx, "big")
	if err != nil || !hit || !bytes.Equal(got, big) {
		t.Error("compressed round trip failed")
	}

	// Plain bytes under a compressed reader are a miss, not an error.
	_ = inner.Set(ctx, "plain", []byte("not zstd"), 0)
	if _, hit, err := c.Get(ctx, "plain"); hit || err != nil {
		t.Errorf("undecodable entry: hit=%v err=%v", hit, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		cfg     Config
		want    string
		wantErr bool
	}{
		{Config{Dir: dir}, "*cache.FileCache", false},
		{Config{Backend: BackendBolt, Dir: dir}, "*cache.BoltCache", false},
		{Config{Backend: BackendNone}, "cache.NullCache", false},
		{Config{Dir: dir, Compress: true}, "*cache.Compressed", false},
		{Config{Backend: "memcached"}, "", true},
	}
	for _, tt := range tests {
		c, err := Open(ctx, tt.cfg)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Open(%+v) succeeded, want error", tt.cfg)
			}
			continue
		}
		if err != nil {
			t.Errorf("Open(%+v): %v", tt.cfg, err)
			continue
		}
		if got := typeName(c); got != tt.want {
			t.Errorf("Open(%+v) = %s, want %s", tt.cfg, got, tt.want)
		}
		c.Close()
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	fk1 := k.FeedKey("linux", "abc123", FeedKeyOpts{Limit: 100})
	fk2 := k.FeedKey("linux", "def456", FeedKeyOpts{Limit: 100})
	fk3 := k.FeedKey("linux", "abc123", FeedKeyOpts{Limit: 100, All: true})
	if fk1 == fk2 || fk1 == fk3 {
		t.Error("feed keys must change with HEAD and options")
	}
	if !strings.HasPrefix(fk1, "feed:") {
		t.Errorf("FeedKey = %s, want feed: prefix", fk1)
	}

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{PaletteSize: 8})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{PaletteSize: 8, FirstParent: true})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Messages: true})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Messages: true})
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "SVG", Messages: true})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if ak1 != ak3 {
		t.Error("format case should not change the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "repo:linux:")

	opts := LayoutKeyOpts{PaletteSize: 8}
	if got, want := scoped.LayoutKey("h", opts), "repo:linux:"+inner.LayoutKey("h", opts); got != want {
		t.Errorf("LayoutKey = %s, want %s", got, want)
	}
	if got := scoped.FeedKey("r", "h", FeedKeyOpts{}); !strings.HasPrefix(got, "repo:linux:feed:") {
		t.Errorf("FeedKey = %s", got)
	}
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}); !strings.HasPrefix(got, "repo:linux:artifact:") {
		t.Errorf("ArtifactKey = %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if got := scoped.LayoutKey("h", LayoutKeyOpts{}); !strings.HasPrefix(got, "prefix:layout:") {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("Retryable should unwrap to the cause")
	}
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	retryDelay = time.Millisecond
	defer func() { retryDelay = 200 * time.Millisecond }()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func typeName(v any) string { return fmt.Sprintf("%T", v) }
