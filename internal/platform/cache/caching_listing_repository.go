// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Filter is a query value that can name itself inside a cache namespace.
// CacheKey must return distinct strings for distinct filters.
type Filter interface {
	CacheKey() string
}

// ListingRepository is the read/append surface shared by the catalog stores.
type ListingRepository[T any, F Filter] interface {
	Insert(ctx context.Context, item *T) error
	Find(ctx context.Context, f F) ([]T, error)
}

// CachingListingRepository decorates a ListingRepository with Redis caching.
// Results are cached per filter under a namespace generation. An insert bumps
// the generation, so every filtered view cached before it becomes unreachable
// and expires by TTL. A Find that raced with the insert writes under the old
// generation and is never read again.
type CachingListingRepository[T any, F Filter] struct {
	inner     ListingRepository[T, F]
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingListingRepository decorates a ListingRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "listings".
func NewCachingListingRepository[T any, F Filter](rdb *redis.Client, ttl time.Duration, inner ListingRepository[T, F], namespace string) *CachingListingRepository[T, F] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "listings"
	}
	return &CachingListingRepository[T, F]{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Insert appends to the underlying repository and invalidates cached listings.
func (c *CachingListingRepository[T, F]) Insert(ctx context.Context, item *T) error {
	if err := c.inner.Insert(ctx, item); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Incr(ctx, c.versionKey()).Err(); err != nil {
		// 世代を進められなければ古い一覧がTTLまで残る
		slog.Warn("failed to invalidate listing cache", "namespace", c.namespace, "error", err)
	}
	return nil
}

// Find retrieves listings, checking cache first then falling back to the inner repository.
func (c *CachingListingRepository[T, F]) Find(ctx context.Context, f F) ([]T, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Find(ctx, f)
	}

	version, err := c.version(ctx)
	if err != nil {
		// 世代が読めない場合はキャッシュを使わない
		return c.inner.Find(ctx, f)
	}
	key := c.cacheKey(version, f)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []T
		if err := json.Unmarshal(b, &out); err == nil && out != nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the inner repository
	out, err := c.inner.Find(ctx, f)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// version returns the current namespace generation. A missing counter is generation 0.
func (c *CachingListingRepository[T, F]) version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *CachingListingRepository[T, F]) versionKey() string {
	return c.namespace + ":version"
}

func (c *CachingListingRepository[T, F]) cacheKey(version int64, f F) string {
	return fmt.Sprintf("%s:v%d:%s", c.namespace, version, f.CacheKey())
}
