package query

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultFreshFor = 30 * time.Second

// entry is the cached state for one key: the latest successful data, the
// latest error, and freshness bookkeeping. gen counts invalidations; a fetch
// captures it when it starts so a result can be recognized as predating an
// invalidation that arrived while the fetch was in flight.
type entry struct {
	key       Key
	data      any
	hasData   bool
	err       error
	fetchedAt time.Time
	stale     bool
	gen       uint64
}

// Cache is a process-wide query cache keyed by Key. It deduplicates
// concurrent fetches for the same key into a single in-flight request,
// serves stale data while revalidating in the background, and supports
// exact and prefix invalidation.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	subs     map[string]map[int]chan struct{}
	nextSub  int
	group    singleflight.Group
	freshFor time.Duration
}

// Option configures a Cache
type Option func(*Cache)

// WithFreshFor sets how long a fetched result is considered fresh before
// a new subscriber triggers revalidation.
func WithFreshFor(d time.Duration) Option {
	return func(c *Cache) { c.freshFor = d }
}

// NewCache creates an empty query cache
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[string]*entry),
		subs:     make(map[string]map[int]chan struct{}),
		freshFor: defaultFreshFor,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key, fetching it with fetch when the cache has
// no fresh entry. Behavior:
//
//   - fresh cached data is returned without calling fetch
//   - stale cached data is returned immediately while a background
//     revalidation runs (stale-while-revalidate)
//   - on a miss, fetch runs; concurrent Gets for the same key share one
//     in-flight call and observe the same result
//   - a canceled context abandons the wait; the late result is discarded
//     for that caller but still lands in the cache for future readers
func Get[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	ks := key.String()

	c.mu.RLock()
	ent, ok := c.entries[ks]
	if ok && ent.hasData && !ent.stale && time.Since(ent.fetchedAt) < c.freshFor {
		data := ent.data.(T)
		c.mu.RUnlock()
		return data, nil
	}
	if ok && ent.hasData {
		// Serve stale data now, revalidate in the background.
		data := ent.data.(T)
		c.mu.RUnlock()
		c.revalidate(key, func(ctx context.Context) (any, error) { return fetch(ctx) })
		return data, nil
	}
	c.mu.RUnlock()

	ch := c.group.DoChan(ks, func() (any, error) {
		gen := c.begin(key)
		// The fetch owns its own lifetime: a single caller going away must
		// not cancel a request other callers are waiting on.
		data, err := fetch(context.WithoutCancel(ctx))
		c.store(key, gen, data, err)
		return data, err
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Peek returns the cached data and error for key without fetching
func (c *Cache) Peek(key Key) (any, error, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ent, ok := c.entries[key.String()]
	if !ok {
		return nil, nil, false
	}
	return ent.data, ent.err, ent.hasData
}

// revalidate refreshes a stale entry in the background, deduplicated per key
func (c *Cache) revalidate(key Key, fetch func(ctx context.Context) (any, error)) {
	ks := key.String()
	c.group.DoChan(ks, func() (any, error) {
		gen := c.begin(key)
		data, err := fetch(context.Background())
		c.store(key, gen, data, err)
		return data, err
	})
}

// begin ensures an entry exists for key before its fetch starts, so that
// invalidations arriving mid-flight have something to mark, and returns the
// generation the fetch is based on.
func (c *Cache) begin(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ks := key.String()
	ent, ok := c.entries[ks]
	if !ok {
		ent = &entry{key: key}
		c.entries[ks] = ent
	}
	return ent.gen
}

// store records a fetch outcome. A failed fetch keeps the previous data so
// consumers can keep rendering it alongside the error. A result whose
// generation is behind the entry's was overtaken by an invalidation while in
// flight; it is stored but stays stale so the next Get refetches.
func (c *Cache) store(key Key, gen uint64, data any, err error) {
	ks := key.String()

	c.mu.Lock()
	ent, ok := c.entries[ks]
	if !ok {
		ent = &entry{key: key}
		c.entries[ks] = ent
	}
	if err == nil {
		ent.data = data
		ent.hasData = true
		ent.fetchedAt = time.Now()
		ent.stale = ent.gen != gen
	}
	ent.err = err
	c.mu.Unlock()

	c.notify(ks)
}

// Invalidate marks the entry for key stale and wakes its subscribers. The
// next Get refetches. The entry is created when absent so an invalidation is
// never lost to a fetch that has not stored yet.
func (c *Cache) Invalidate(key Key) {
	ks := key.String()

	c.mu.Lock()
	ent, ok := c.entries[ks]
	if !ok {
		ent = &entry{key: key}
		c.entries[ks] = ent
	}
	ent.stale = true
	ent.gen++
	c.mu.Unlock()

	c.notify(ks)
}

// InvalidatePrefix marks every entry whose key starts with prefix as stale
// and wakes their subscribers. In-flight fetches register their entry up
// front, so they are matched and their results land stale.
func (c *Cache) InvalidatePrefix(prefix Key) {
	var matched []string

	c.mu.Lock()
	for ks, ent := range c.entries {
		if ent.key.HasPrefix(prefix) {
			ent.stale = true
			ent.gen++
			matched = append(matched, ks)
		}
	}
	c.mu.Unlock()

	for _, ks := range matched {
		c.notify(ks)
	}
}

// Subscribe registers interest in changes to key. The returned channel
// receives a signal whenever the entry is stored or invalidated. The cancel
// function must be called when the subscriber goes away; afterwards no
// further signals are delivered.
func (c *Cache) Subscribe(key Key) (<-chan struct{}, func()) {
	ks := key.String()
	ch := make(chan struct{}, 1)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	if c.subs[ks] == nil {
		c.subs[ks] = make(map[int]chan struct{})
	}
	c.subs[ks][id] = ch
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if subs, ok := c.subs[ks]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(c.subs, ks)
			}
		}
		c.mu.Unlock()
	}

	return ch, cancel
}

// notify signals all subscribers of a key without blocking
func (c *Cache) notify(ks string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, ch := range c.subs[ks] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
