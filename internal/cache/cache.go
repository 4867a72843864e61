package cache

import (
	"sync"
	"time"
)

// Cache is a small TTL map. Expired entries are invisible to TTL and Incr
// and stay in memory until Sweep drops them.
type Cache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry

	now func() time.Time
}

type entry struct {
	val any
	exp time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache{
		ttl: ttl,
		m:   make(map[string]entry),
		now: time.Now,
	}
}

// TTL returns how long key has left, or false if it is absent or expired.
func (c *Cache) TTL(key string) (time.Duration, bool) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()

	if !ok || now.After(e.exp) {
		return 0, false
	}
	return e.exp.Sub(now), true
}

func (c *Cache) Set(key string, val any) {
	c.mu.Lock()
	c.m[key] = entry{val: val, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Incr adds one to the int stored at key and returns the new value. A new or
// expired key starts at 1 with a fresh TTL; an existing key keeps its expiry.
func (c *Cache) Incr(key string) int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	n, isInt := e.val.(int)
	if !ok || !isInt || now.After(e.exp) {
		c.m[key] = entry{val: 1, exp: now.Add(c.ttl)}
		return 1
	}

	c.m[key] = entry{val: n + 1, exp: e.exp}
	return n + 1
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// Sweep removes every expired entry and reports how many it dropped.
func (c *Cache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.m {
		if now.After(e.exp) {
			delete(c.m, k)
			n++
		}
	}
	return n
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
