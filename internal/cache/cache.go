// Package cache implements the request cache shared by all views.
//
// Each cacheable request is identified by a fingerprint (resource name plus
// canonically encoded parameters). Concurrent reads of the same fingerprint
// collapse into one network call. A successful mutation invalidates every
// fingerprint under the resource's namespace; invalidated entries keep their
// last data so a view can still render the previous page when a refetch is
// in flight or fails.
package cache

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads fresh data for one fingerprint.
type FetchFunc func(ctx context.Context) (any, error)

// MutateFunc performs a mutation against the API.
type MutateFunc func(ctx context.Context) error

type entry struct {
	data  any
	fresh bool
	gen   uint64
}

// Cache maps fingerprints to cached responses. gens counts invalidations
// per namespace so a fetch that was already in flight when a mutation
// landed cannot store its pre-mutation result as fresh.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	gens    map[string]uint64
	group   singleflight.Group
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		gens:    make(map[string]uint64),
	}
}

// Fingerprint builds the cache key for a resource and its parameters.
// url.Values.Encode sorts keys, so equal parameter sets always produce
// equal fingerprints.
func Fingerprint(resource string, params url.Values) string {
	if len(params) == 0 {
		return resource
	}
	return resource + "?" + params.Encode()
}

// Get returns the cached data for the fingerprint, fetching it first if the
// entry is missing or invalidated. At most one fetch per fingerprint runs at
// a time; concurrent callers share its result. On fetch failure any previous
// data is kept for Stale and the error is returned.
func (c *Cache) Get(ctx context.Context, resource string, params url.Values, fetch FetchFunc) (any, error) {
	key := Fingerprint(resource, params)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.fresh {
		data := e.data
		c.mu.Unlock()
		return data, nil
	}
	gen := c.gens[resource]
	c.mu.Unlock()

	// The flight key carries the generation, so a read that arrives after
	// an invalidation never joins a fetch dispatched before it.
	flightKey := key + "#" + strconv.FormatUint(gen, 10)
	data, err, _ := c.group.Do(flightKey, func() (any, error) {
		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		// An invalidation that landed while the fetch was in flight
		// outdates its result: never store it as fresh, and never let it
		// overwrite data from a newer fetch.
		if e, ok := c.entries[key]; !ok || gen >= e.gen {
			c.entries[key] = &entry{data: data, fresh: gen == c.gens[resource], gen: gen}
		}
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Stale returns the last-known data for the fingerprint, fresh or not.
func (c *Cache) Stale(resource string, params url.Values) (any, bool) {
	key := Fingerprint(resource, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.data, true
}

// Invalidate marks every fingerprint under the resource namespace stale,
// forcing a refetch on the next Get. The data itself is retained.
func (c *Cache) Invalidate(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[resource]++
	for key, e := range c.entries {
		if key == resource || strings.HasPrefix(key, resource+"?") {
			e.fresh = false
		}
	}
}

// Do runs a mutation and, only on success, invalidates each named resource
// namespace. The invalidation happens before Do returns, so a refetch
// triggered by the caller's next read always sees it.
func (c *Cache) Do(ctx context.Context, mutate MutateFunc, resources ...string) error {
	if err := mutate(ctx); err != nil {
		return err
	}
	for _, r := range resources {
		c.Invalidate(r)
	}
	return nil
}
