package cache

import (
	"context"
	"errors"
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
		t.Errorf("Get = (%v, %v, %v), want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// backends returns every local backend under test.
func backends(t *testing.T) map[string]Cache {
	t.Helper()
	fc, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Cache{
		"memory": NewMemoryCache(0),
		"file":   fc,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Close()

			if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
				t.Errorf("Get(missing) = hit %v, err %v", hit, err)
			}
			if err := c.Set(ctx, "poster", []byte("png bytes"), time.Hour); err != nil {
				t.Fatal(err)
			}
			data, hit, err := c.Get(ctx, "poster")
			if err != nil || !hit || string(data) != "png bytes" {
				t.Errorf("Get(poster) = (%q, %v, %v)", data, hit, err)
			}
			if err := c.Set(ctx, "poster", []byte("v2"), 0); err != nil {
				t.Fatal(err)
			}
			if data, _, _ := c.Get(ctx, "poster"); string(data) != "v2" {
				t.Errorf("overwrite: got %q", data)
			}
			if err := c.Delete(ctx, "poster"); err != nil {
				t.Fatal(err)
			}
			if _, hit, _ := c.Get(ctx, "poster"); hit {
				t.Error("entry still present after Delete")
			}
			if err := c.Delete(ctx, "poster"); err != nil {
				t.Errorf("Delete of missing key should succeed: %v", err)
			}
		})
	}
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	mc := NewMemoryCache(0)
	mc.now = clock
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fc.now = clock

	for name, c := range map[string]Cache{"memory": mc, "file": fc} {
		t.Run(name, func(t *testing.T) {
			_ = c.Set(ctx, "short", []byte("x"), time.Minute)
			_ = c.Set(ctx, "forever", []byte("y"), 0)

			if _, hit, _ := c.Get(ctx, "short"); !hit {
				t.Error("entry should be live before its ttl")
			}
			now = now.Add(2 * time.Minute)
			if _, hit, _ := c.Get(ctx, "short"); hit {
				t.Error("entry should expire after its ttl")
			}
			if _, hit, _ := c.Get(ctx, "forever"); !hit {
				t.Error("entry without ttl should not expire")
			}
		})
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)
	_ = c.Set(ctx, "a", []byte("a"), time.Hour)
	_ = c.Set(ctx, "b", []byte("b"), 2*time.Hour)
	_ = c.Set(ctx, "c", []byte("c"), 3*time.Hour)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry closest to expiry should be evicted")
	}
	for _, k := range []string{"b", "c"} {
		if _, hit, _ := c.Get(ctx, k); !hit {
			t.Errorf("entry %s should survive", k)
		}
	}
}

func TestMemoryCacheCopiesData(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'z'
	if data, _, _ := c.Get(ctx, "k"); string(data) != "abc" {
		t.Errorf("cached data changed with caller buffer: %q", data)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v err %v, want clean miss", hit, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear() removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "stale", []byte("old poster"), time.Minute)
	_ = c.Set(ctx, "fresh", []byte("new poster"), time.Hour)
	_ = c.Set(ctx, "pinned", []byte("handoff"), 0)
	broken := c.path("broken")
	if err := os.MkdirAll(filepath.Dir(broken), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(broken, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	now = now.Add(10 * time.Minute)
	n, err := c.Prune()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Prune() removed %d entries, want 2 (stale, broken)", n)
	}
	for _, k := range []string{"fresh", "pinned"} {
		if _, hit, _ := c.Get(ctx, k); !hit {
			t.Errorf("live entry %q removed by Prune", k)
		}
	}
	if _, err := os.Stat(c.path("stale")); !os.IsNotExist(err) {
		t.Error("expired entry still on disk")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}

	j1, err := HashJSON(map[string]string{"city": "Edmonton"})
	if err != nil {
		t.Fatal(err)
	}
	j2, _ := HashJSON(map[string]string{"city": "Calgary"})
	if j1 == j2 {
		t.Error("HashJSON should distinguish values")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	png := k.ArtifactKey("req", ArtifactKeyOpts{Template: "event", Format: "png"})
	pdf := k.ArtifactKey("req", ArtifactKeyOpts{Template: "event", Format: "pdf"})
	other := k.ArtifactKey("req", ArtifactKeyOpts{Template: "event", Format: "png", SettingsHash: "s2"})
	if png == pdf || png == other {
		t.Error("different artifact options should produce different keys")
	}
	if !strings.HasPrefix(png, "artifact:") {
		t.Errorf("ArtifactKey = %q", png)
	}
	if got := k.HandoffKey("abc", "pdf"); got != "handoff:abc.pdf" {
		t.Errorf("HandoffKey = %q", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "posterkit:")
	if got := scoped.HandoffKey("abc", "png"); got != "posterkit:handoff:abc.png" {
		t.Errorf("HandoffKey = %q", got)
	}
	if got := scoped.ArtifactKey("r", ArtifactKeyOpts{}); !strings.HasPrefix(got, "posterkit:artifact:") {
		t.Errorf("ArtifactKey = %q", got)
	}
	if got := NewScopedKeyer(nil, "p:").HandoffKey("x", "png"); got != "p:handoff:x.png" {
		t.Errorf("nil inner keyer: %q", got)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"default", Options{}, false},
		{"null", Options{Backend: BackendNull}, false},
		{"memory", Options{Backend: BackendMemory}, false},
		{"file", Options{Backend: BackendFile, Dir: t.TempDir()}, false},
		{"file without dir", Options{Backend: BackendFile}, true},
		{"unknown", Options{Backend: "memcached"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(ctx, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if c != nil {
				c.Close()
			}
		})
	}
}

func TestRedisUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1", Attempts: 2, Backoff: 10 * time.Millisecond})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewRedisCache error = %v, want ErrUnavailable", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	base := errors.New("connection refused")
	err := Retryable(base)
	if !IsRetryable(err) || err.Error() != base.Error() || !errors.Is(err, base) {
		t.Errorf("Retryable(%v) = %v", base, err)
	}
	if IsRetryable(base) {
		t.Error("plain errors are not retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	fatal := errors.New("fatal")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"first try", 0, nil, 1, nil},
		{"recovers", 2, Retryable(ErrUnavailable), 3, nil},
		{"gives up", 5, Retryable(ErrUnavailable), 3, ErrUnavailable},
		{"not retryable", 5, fatal, 1, fatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) && !(err == nil && tt.wantErr == nil) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, 3, time.Hour, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
