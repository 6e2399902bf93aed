package cache

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/tilenav/pkg/errors"
	"github.com/matzehuels/tilenav/pkg/observability"
)

func TestNullCacheAlwaysComputes(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	renders := 0
	render := func() ([]byte, error) {
		renders++
		return []byte("digraph G {}"), nil
	}
	for i := 0; i < 2; i++ {
		data, hit, err := Fetch(ctx, c, "artifact:doc:opts", KeyTypeArtifact, DefaultTTL, render)
		if err != nil || hit || string(data) != "digraph G {}" {
			t.Fatalf("Fetch #%d = %q, %v, %v", i, data, hit, err)
		}
	}
	if renders != 2 {
		t.Errorf("renders = %d, want 2 with --no-cache", renders)
	}
	if err := c.Delete(ctx, "artifact:doc:opts"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "svg", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "svg")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get(svg) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "svg"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "svg"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "svg"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear() = %d, %v; want 3", n, err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir not empty: %d entries", len(entries))
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
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
	lf := Hash([]byte("[[tiles]]\nkey = 1\n"))
	if crlf := Hash([]byte("[[tiles]]\r\nkey = 1\r\n")); crlf != lf {
		t.Error("CRLF and LF copies of a document should hash the same")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	doc := Hash([]byte("doc"))

	g1 := k.GraphKey(doc, GraphKeyOpts{Map: "hall", Kind: "tile", GridCellSize: 600})
	g2 := k.GraphKey(doc, GraphKeyOpts{Map: "hall", Kind: "tile", GridCellSize: 300})
	if g1 == g2 {
		t.Error("Different GraphKeyOpts should produce different keys")
	}
	if want := "graph:" + doc[:12] + ":"; !strings.HasPrefix(g1, want) {
		t.Errorf("GraphKey = %s, want prefix %s", g1, want)
	}
	if a := k.ArtifactKey(doc, ArtifactKeyOpts{}); !strings.HasPrefix(a, "artifact:"+doc[:12]+":") {
		t.Errorf("ArtifactKey = %s", a)
	}

	base := ArtifactKeyOpts{Graph: GraphKeyOpts{Map: "hall"}, Format: "svg"}
	a1 := k.ArtifactKey(doc, base)
	base.Strata = true
	a2 := k.ArtifactKey(doc, base)
	if a1 == a2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if a1 != k.ArtifactKey(doc, ArtifactKeyOpts{Graph: GraphKeyOpts{Map: "hall"}, Format: "svg"}) {
		t.Error("ArtifactKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "tilenav:")
	inner := NewDefaultKeyer()
	opts := GraphKeyOpts{Map: "hall"}

	if got := scoped.GraphKey("h", opts); got != "tilenav:"+inner.GraphKey("h", opts) {
		t.Errorf("ScopedKeyer GraphKey = %s", got)
	}
	aopts := ArtifactKeyOpts{Format: "dot"}
	if got := scoped.ArtifactKey("h", aopts); got != "tilenav:"+inner.ArtifactKey("h", aopts) {
		t.Errorf("ScopedKeyer ArtifactKey = %s", got)
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string)       { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)      { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestFetch(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("out"), nil
	}

	data, hit, err := Fetch(ctx, c, "k", KeyTypeArtifact, time.Hour, compute)
	if err != nil || hit || string(data) != "out" {
		t.Fatalf("first Fetch = %q, %v, %v", data, hit, err)
	}
	data, hit, err = Fetch(ctx, c, "k", KeyTypeArtifact, time.Hour, compute)
	if err != nil || !hit || string(data) != "out" {
		t.Fatalf("second Fetch = %q, %v, %v", data, hit, err)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 {
		t.Errorf("hooks = %+v", *hooks)
	}

	boom := stderrors.New("boom")
	_, _, err = Fetch(ctx, NewNullCache(), "k", KeyTypeArtifact, 0, func() ([]byte, error) { return nil, boom })
	if err != boom {
		t.Errorf("Fetch should return compute error, got %v", err)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !stderrors.Is(err, ErrNetwork) {
		t.Error("Retryable should unwrap to the cause")
	}
	if IsRetryable(ErrNetwork) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	const delay = time.Millisecond

	calls := 0
	if err := RetryWithBackoff(ctx, 3, delay, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, 3, delay, func() error { calls++; return ErrNetwork })
	if err != ErrNetwork || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, 3, delay, func() error {
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
	err = RetryWithBackoff(ctx, 3, delay, func() error { calls++; return Retryable(ErrNetwork) })
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, 3, time.Second, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRedisConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  RedisConfig
		addr string
		db   int
		ok   bool
	}{
		{"url", RedisConfig{URL: "redis://localhost:6380/2"}, "localhost:6380", 2, true},
		{"addr", RedisConfig{Addr: "cache:6379", DB: 1}, "cache:6379", 1, true},
		{"url wins", RedisConfig{URL: "redis://a:1/0", Addr: "b:2"}, "a:1", 0, true},
		{"bad url", RedisConfig{URL: "http://x"}, "", 0, false},
		{"empty", RedisConfig{}, "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := tt.cfg.options()
			if !tt.ok {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("options() error = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("options(): %v", err)
			}
			if opts.Addr != tt.addr || opts.DB != tt.db {
				t.Errorf("options() = %s db %d", opts.Addr, opts.DB)
			}
		})
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1", Attempts: 1})
	if err == nil {
		t.Fatal("expected connection error")
	}
	if !stderrors.Is(err, ErrNetwork) {
		t.Errorf("error should wrap ErrNetwork: %v", err)
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("TILENAV_TEST_REDIS")
	if url == "" {
		t.Skip("TILENAV_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{URL: url, Prefix: "tilenav-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}
}
