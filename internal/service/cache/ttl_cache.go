package cache

import (
	"context"
	"sync"
	"time"
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

type entry struct {
	v   []byte
	exp time.Time
}

// TTLCache is an in-process BytesCache. TTLs are capped at maxTTL; a non-positive TTL means maxTTL.
type TTLCache struct {
	mu     sync.RWMutex
	m      map[string]entry
	now    Clock
	maxTTL time.Duration
}

func NewTTLCache(maxTTL time.Duration, now Clock) *TTLCache {
	if now == nil {
		now = time.Now
	}
	if maxTTL <= 0 {
		maxTTL = time.Hour
	}
	return &TTLCache{m: make(map[string]entry), now: now, maxTTL: maxTTL}
}

func (c *TTLCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.exp) {
		c.mu.Lock()
		// re-check: a concurrent SetBytes may have refreshed the entry
		if cur, ok := c.m[key]; ok && !c.now().Before(cur.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.v, true, nil
}

func (c *TTLCache) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > c.maxTTL {
		ttl = c.maxTTL
	}
	c.mu.Lock()
	c.m[key] = entry{v: value, exp: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Purge drops every expired entry and returns how many were removed.
func (c *TTLCache) Purge() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.m {
		if !now.Before(e.exp) {
			delete(c.m, k)
			n++
		}
	}
	return n
}

// Len reports the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// RunPurger purges expired entries every interval until ctx is done.
func (c *TTLCache) RunPurger(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.Purge()
		}
	}
}
