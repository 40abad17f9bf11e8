package lookup

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedResolver keeps hits from the wrapped resolver in Redis. Misses are
// not cached so a source that was down gets another chance. Redis errors are
// logged and treated as misses.
type CachedResolver struct {
	next   NameResolver
	client *redis.Client
	chain  string
	ttl    time.Duration
}

func NewCachedResolver(next NameResolver, client *redis.Client, chain string, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		next:   next,
		client: client,
		chain:  chain,
		ttl:    ttl,
	}
}

func (c *CachedResolver) key(sku string) string {
	return "lookup:" + c.chain + ":" + sku
}

func (c *CachedResolver) Resolve(ctx context.Context, sku string) Result {
	key := c.key(sku)

	name, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil && name != "":
		return Result{Name: name, Source: "cache"}
	case err != nil && err != redis.Nil:
		zap.L().Debug("lookup cache read failed", zap.String("key", key), zap.Error(err))
	}

	res := c.next.Resolve(ctx, sku)
	if !res.Found() {
		return res
	}

	if err := c.client.Set(ctx, key, res.Name, c.ttl).Err(); err != nil {
		zap.L().Debug("lookup cache write failed", zap.String("key", key), zap.Error(err))
	}

	return res
}
