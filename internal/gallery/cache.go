package gallery

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ttlCache is a read-mostly concurrent cache with per-entry expiry and
// lazily populated values. Values are immutable once written; an expired
// entry is regenerated on next access, not eagerly invalidated. The
// singleflight group keeps at most one regeneration in flight per key.
type ttlCache[V any] struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.RWMutex
	entries map[string]ttlEntry[V]
	group   singleflight.Group
}

type ttlEntry[V any] struct {
	value   V
	expires time.Time
}

func newTTLCache[V any](ttl time.Duration, clock func() time.Time) *ttlCache[V] {
	if clock == nil {
		clock = time.Now
	}
	return &ttlCache[V]{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]ttlEntry[V]),
	}
}

// do returns the cached value for key, filling it with fill when absent or
// expired. Fill errors are returned to every waiting caller and nothing is
// cached, so the next access retries.
func (c *ttlCache[V]) do(key string, fill func() (V, error)) (V, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.clock().Before(e.expires) {
		return e.value, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another caller may have filled the entry while we waited
		// on the flight group.
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && c.clock().Before(e.expires) {
			return e.value, nil
		}

		value, err := fill()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = ttlEntry[V]{value: value, expires: c.clock().Add(c.ttl)}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
