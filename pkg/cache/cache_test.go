package cache

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/octomap/pkg/buffer"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// testBackend runs the behaviour every Cache must share.
func testBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		if _, hit, err := c.Get(ctx, "absent"); err != nil || hit {
			t.Errorf("Get(absent) = hit %v, err %v", hit, err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := c.Set(ctx, "k", []byte(`{"solved":true}`), time.Hour); err != nil {
			t.Fatal(err)
		}
		data, hit, err := c.Get(ctx, "k")
		if err != nil || !hit {
			t.Fatalf("Get(k) = hit %v, err %v", hit, err)
		}
		if !bytes.Equal(data, []byte(`{"solved":true}`)) {
			t.Errorf("Get(k) = %s", data)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := c.Delete(ctx, "k"); err != nil {
			t.Fatal(err)
		}
		if _, hit, _ := c.Get(ctx, "k"); hit {
			t.Error("Get after Delete hit")
		}
		if err := c.Delete(ctx, "k"); err != nil {
			t.Errorf("Delete(missing) error: %v", err)
		}
	})
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	testBackend(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry was returned")
	}
}

func TestFileCacheClear(t *testing.T) {
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
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("Get(%s) hit after Clear", k)
		}
	}
}

func newRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), RedisOptions{Addr: mr.Addr()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache(t *testing.T) {
	c, _ := newRedis(t)
	testBackend(t, c)
}

func TestRedisCacheTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t)

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if got := mr.TTL(redisPrefix + "k"); got != time.Minute {
		t.Errorf("TTL = %v, want 1m", got)
	}
	mr.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry was returned")
	}
}

func TestRedisCacheClearKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t)

	if err := mr.Set("other:key", "keep"); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if mr.Exists(redisPrefix + "a") {
		t.Error("octomap key survived Clear")
	}
	if !mr.Exists("other:key") {
		t.Error("Clear removed a foreign key")
	}
}

func TestRedisCacheFromClient(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer c.Close()
	testBackend(t, c)
}

func TestRedisCacheUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisCache(context.Background(), RedisOptions{Addr: addr})
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("NewRedisCache() error = %v, want ErrNetwork", err)
	}
}

func TestMongoEntryExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	forever := newMongoEntry("k", []byte("v"), 0, now)
	if forever.ExpiresAt != nil || !forever.live(now.Add(1000*time.Hour)) {
		t.Error("entry without TTL expired")
	}

	short := newMongoEntry("k", []byte("v"), time.Minute, now)
	if !short.live(now.Add(30 * time.Second)) {
		t.Error("entry expired early")
	}
	if short.live(now.Add(time.Minute)) {
		t.Error("entry outlived its TTL")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Config{Backend: BackendNone})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*NullCache); !ok {
		t.Errorf("Open(none) = %T, want *NullCache", c)
	}

	dir := t.TempDir()
	c, err = Open(ctx, Config{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := c.(*FileCache); !ok || fc.Dir() != dir {
		t.Errorf("Open(file) = %T", c)
	}

	mr := miniredis.RunT(t)
	c, err = Open(ctx, Config{Backend: BackendRedis, RedisAddr: mr.Addr()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*RedisCache); !ok {
		t.Errorf("Open(redis) = %T, want *RedisCache", c)
	}
	c.Close()

	if _, err := Open(ctx, Config{Backend: "memcached"}); err == nil || !strings.Contains(err.Error(), "memcached") {
		t.Errorf("Open(memcached) error = %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Strategy: "displace"})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Strategy: "scale"})
	if lk1 == lk2 {
		t.Error("Different strategies should produce different keys")
	}
	lk3 := k.LayoutKey("hash123", LayoutKeyOpts{Strategy: "displace", Margins: buffer.Margins{Node: 1}})
	if lk1 == lk3 {
		t.Error("Different margins should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey unexpected: %s", lk1)
	}

	ck := k.ConflictsKey("hash123", ConflictsKeyOpts{})
	if !strings.HasPrefix(ck, "conflicts:") {
		t.Errorf("ConflictsKey unexpected: %s", ck)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	key := scoped.LayoutKey("h", LayoutKeyOpts{})
	if key != "user:123:"+inner.LayoutKey("h", LayoutKeyOpts{}) {
		t.Errorf("ScopedKeyer LayoutKey unexpected: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ConflictsKey("h", ConflictsKeyOpts{})
	if !strings.HasPrefix(key, "prefix:conflicts:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNetwork) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	retryDelay = time.Millisecond
	defer func() { retryDelay = 100 * time.Millisecond }()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	errPlain := errors.New("plain")
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errPlain
	})
	if err != errPlain {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
