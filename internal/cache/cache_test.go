package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testRedis returns a client for the redis named by TEST_REDIS_ADDR, skipping
// the test when unset. Example: TEST_REDIS_ADDR=localhost:6379 go test ./...
func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis-backed test")
	}
	return redis.NewClient(&redis.Options{Addr: addr, DB: 9})
}

func TestNewDefaultTTL(t *testing.T) {
	c := New(nil, 0)
	if c.TTL() != DefaultTTL {
		t.Errorf("expected DefaultTTL for zero ttl, got %v", c.TTL())
	}
	c = New(nil, -time.Second)
	if c.TTL() != DefaultTTL {
		t.Errorf("expected DefaultTTL for negative ttl, got %v", c.TTL())
	}
	c = New(nil, 5*time.Minute)
	if c.TTL() != 5*time.Minute {
		t.Errorf("expected configured ttl, got %v", c.TTL())
	}
}

func TestPutGet(t *testing.T) {
	rdb := testRedis(t)
	defer rdb.Close()
	ctx := context.Background()

	c := New(rdb, 30*time.Second)
	if err := c.Put(ctx, "cache-test-key", []byte("hello")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	defer rdb.Del(ctx, "stm:cache-test-key")

	val, err := c.Get(ctx, "cache-test-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "hello" {
		t.Errorf("expected hello, got %q", string(val))
	}

	if _, err := c.Get(ctx, "cache-test-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing key, got %v", err)
	}
}

func TestExpiry(t *testing.T) {
	rdb := testRedis(t)
	defer rdb.Close()
	ctx := context.Background()

	c := New(rdb, time.Second)
	if err := c.Put(ctx, "cache-test-expiry", []byte("ephemeral")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, err := c.Get(ctx, "cache-test-expiry"); err != nil {
		t.Fatalf("Get before expiry failed: %v", err)
	}

	time.Sleep(1500 * time.Millisecond)
	if _, err := c.Get(ctx, "cache-test-expiry"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after ttl, got %v", err)
	}
}

func TestOverwriteResetsDeadline(t *testing.T) {
	rdb := testRedis(t)
	defer rdb.Close()
	ctx := context.Background()

	c := New(rdb, 2*time.Second)
	if err := c.Put(ctx, "cache-test-reset", []byte("v1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	time.Sleep(1200 * time.Millisecond)
	if err := c.Put(ctx, "cache-test-reset", []byte("v2")); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}
	defer rdb.Del(ctx, "stm:cache-test-reset")

	// Past the first deadline but within the second
	time.Sleep(1200 * time.Millisecond)
	val, err := c.Get(ctx, "cache-test-reset")
	if err != nil {
		t.Fatalf("Get after rewrite failed: %v", err)
	}
	if string(val) != "v2" {
		t.Errorf("expected v2, got %q", string(val))
	}
}
