// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"invest_backend/internal/feature/symboldictionary/adapters"
)

// DefaultNamespace is the key prefix used for cached source symbol lists.
const DefaultNamespace = "source_symbols"

// CachingSymbolLister decorates a SymbolLister with a short-lived Redis cache.
// A cached list is reused across registrations until ttl expires, so ttl bounds
// how stale a validity decision may be. Empty lists are never served from cache.
type CachingSymbolLister struct {
	inner     adapters.SymbolLister
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	source    string
}

var _ adapters.SymbolLister = (*CachingSymbolLister)(nil)

// NewCachingSymbolLister decorates a SymbolLister with Redis caching.
// If ttl is 0 or less, or rdb is nil, every call goes to the inner lister.
// If namespace is empty, it uses DefaultNamespace.
func NewCachingSymbolLister(rdb *redis.Client, ttl time.Duration, inner adapters.SymbolLister, namespace, source string) *CachingSymbolLister {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingSymbolLister{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		source:    source,
	}
}

// ListSymbols returns the source's valid symbols, checking cache first then falling back to the inner lister.
func (c *CachingSymbolLister) ListSymbols(ctx context.Context) ([]string, error) {
	// Bypass cache if Redis is not configured or caching is off
	if c.rdb == nil || c.ttl <= 0 {
		return c.inner.ListSymbols(ctx)
	}

	key := c.cacheKey()

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []string
		if err := json.Unmarshal(b, &out); err == nil && len(out) > 0 {
			return out, nil
		}
		// Delete corrupted or empty cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the source
	out, err := c.inner.ListSymbols(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort). An empty list is likely an upstream hiccup and is not cached.
	if len(out) == 0 {
		return out, nil
	}
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("failed to cache source symbols", "source", c.source, "error", err)
		}
	}

	return out, nil
}

// cacheKey generates the cache key for this source.
func (c *CachingSymbolLister) cacheKey() string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(c.source))
}

// Flush deletes every cached symbol list under namespace using SCAN.
// It returns the number of deleted keys.
func Flush(ctx context.Context, rdb *redis.Client, namespace string) (int, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, cur, err := rdb.Scan(ctx, cursor, namespace+":*", 200).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += int(n)
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
