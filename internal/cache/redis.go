package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/faciam-dev/widgetboard/pkg/metrics"
)

// Redis is a TTL cache backed by a shared Redis instance so multiple
// dashboard processes reuse each other's fetches. Expiry is delegated to
// Redis key TTLs; Prune is a no-op.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis creates a Redis cache from a redis:// DSN.
func NewRedis(dsn string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, err
	}
	return &Redis{client: redis.NewClient(opt), ttl: ttl, prefix: "wb:fetch:"}, nil
}

// NewRedisWithClient wraps an existing client, used by tests.
func NewRedisWithClient(c *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: c, ttl: ttl, prefix: "wb:fetch:"}
}

// GetOrFetch implements Cache. A Redis outage degrades to a plain fetch
// rather than failing the widget.
func (r *Redis) GetOrFetch(ctx context.Context, key string, fn Fetcher) ([]byte, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == nil {
		metrics.CacheHits.Inc()
		return v, nil
	}
	if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	metrics.CacheMisses.Inc()
	v, ferr := fn(ctx)
	if ferr != nil {
		return nil, ferr
	}
	if err := r.client.Set(ctx, r.prefix+key, v, r.ttl).Err(); err != nil {
		// Cache write failures are not fetch failures.
		return v, nil
	}
	return v, nil
}

// Prune implements Cache. Redis expires keys on its own.
func (r *Redis) Prune(ctx context.Context) int { return 0 }
