package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// Tags tracks cache tag generations.
type Tags struct {
	cache Cache
	keyer Keyer
	mu    sync.Mutex
}

// NewTags creates a tag tracker storing its counters in c.
func NewTags(c Cache, k Keyer) *Tags {
	if k == nil {
		k = NewDefaultKeyer()
	}
	return &Tags{cache: c, keyer: k}
}

// Generation returns the current generation of tag. Tags never
// invalidated are at generation 0.
func (t *Tags) Generation(ctx context.Context, tag string) (int64, error) {
	data, ok, err := t.cache.Get(ctx, t.keyer.TagKey(tag))
	if err != nil {
		return 0, fmt.Errorf("read tag %s: %w", tag, err)
	}
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		// A corrupt counter is treated as never invalidated.
		return 0, nil
	}
	return gen, nil
}

// Invalidate bumps the generation of every tag.
func (t *Tags) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		if err := t.bump(ctx, tag); err != nil {
			return fmt.Errorf("invalidate tag %s: %w", tag, err)
		}
	}
	return nil
}

func (t *Tags) bump(ctx context.Context, tag string) error {
	key := t.keyer.TagKey(tag)
	if c, ok := t.cache.(Counter); ok {
		_, err := c.Incr(ctx, key)
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	gen, err := t.Generation(ctx, tag)
	if err != nil {
		return err
	}
	return t.cache.Set(ctx, key, []byte(strconv.FormatInt(gen+1, 10)), 0)
}
