package repo

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type Redis struct{ C *redis.Client }

func NewRedis(addr string) *Redis {
	return &Redis{C: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *Redis) Ping(ctx context.Context) error { return r.C.Ping(ctx).Err() }
func (r *Redis) Close() error                   { return r.C.Close() }

// GetCache returns the cached payload for key, or nil on miss/any error.
// Cache failures never surface; the caller just rebuilds.
func (r *Redis) GetCache(ctx context.Context, key string) []byte {
	if r == nil {
		return nil
	}
	b, err := r.C.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return b
}

func (r *Redis) SetCache(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if r == nil {
		return
	}
	_ = r.C.Set(ctx, key, val, ttl).Err()
}

// Allow implements a fixed-window rate limit: at most limit hits per minute
// for key. Fails open when redis is down or unconfigured.
func (r *Redis) Allow(ctx context.Context, key string, limit int) bool {
	if r == nil || limit <= 0 {
		return true
	}
	n, err := r.C.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if n == 1 {
		r.C.Expire(ctx, key, time.Minute)
	}
	return n <= int64(limit)
}
