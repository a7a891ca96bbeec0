//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("RECOLOR_TEST_REDIS_URL")
	if url == "" {
		t.Skip("RECOLOR_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, "recolor-test:"+t.Name()+":")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = c.Clear(ctx)
		_ = c.Close()
	})
	return c
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c := newTestRedis(t)

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Fatalf("Get on empty = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, hit %v, err %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
}

func TestRedisTags(t *testing.T) {
	ctx := context.Background()
	c := newTestRedis(t)
	tags := NewTags(c, nil)

	for i := 0; i < 3; i++ {
		if err := tags.Invalidate(ctx, TagLibraryInfo); err != nil {
			t.Fatal(err)
		}
	}
	if gen, err := tags.Generation(ctx, TagLibraryInfo); err != nil || gen != 3 {
		t.Errorf("Generation = %d, %v, want 3", gen, err)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if gen, _ := tags.Generation(ctx, TagLibraryInfo); gen != 0 {
		t.Errorf("Generation after Clear = %d, want 0", gen)
	}
}
