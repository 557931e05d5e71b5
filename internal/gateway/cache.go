package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/meridianswap/swap-engine/internal/domain"
	"github.com/meridianswap/swap-engine/internal/metrics"
)

type cacheKey struct {
	protocol domain.Protocol
	tokenIn  string
	tokenOut string
}

type cacheEntry struct {
	pools     []*domain.Pool
	fetchedAt time.Time
}

// CachedGateway memoizes pool lookups per (protocol, tokenIn, tokenOut).
// Entries are idempotent snapshots, so concurrent writers racing on one key
// are harmless: last write wins. ttl == 0 disables expiry; entries then
// live until an explicit Clear.
type CachedGateway struct {
	inner PoolGateway
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry
}

func NewCachedGateway(inner PoolGateway, ttl time.Duration) *CachedGateway {
	return &CachedGateway{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedGateway) Pools(ctx context.Context, protocol domain.Protocol, tokenIn, tokenOut string) ([]*domain.Pool, error) {
	key := cacheKey{protocol: protocol, tokenIn: tokenIn, tokenOut: tokenOut}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && (c.ttl == 0 || time.Since(entry.fetchedAt) < c.ttl) {
		metrics.PoolCacheHits.Inc()
		return entry.pools, nil
	}
	metrics.PoolCacheMisses.Inc()

	pools, err := c.inner.Pools(ctx, protocol, tokenIn, tokenOut)
	if err != nil {
		// Do not cache failures; the next call retries the source.
		return nil, &LookupError{Protocol: protocol, Err: err}
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{pools: pools, fetchedAt: time.Now()}
	metrics.PoolCacheSize.Set(float64(len(c.entries)))
	c.mu.Unlock()

	return pools, nil
}

// Clear drops every cached snapshot.
func (c *CachedGateway) Clear() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]cacheEntry)
	metrics.PoolCacheSize.Set(0)
	c.mu.Unlock()
}

// Len reports the current entry count.
func (c *CachedGateway) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
