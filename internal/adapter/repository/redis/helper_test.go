package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// redisFixture wires the grid cache and idempotency store to one miniredis.
type redisFixture struct {
	server      *miniredis.Miniredis
	client      *redislib.Client
	cache       *Cache
	idempotency *IdempotencyStore
}

func newRedisFixture(t *testing.T) redisFixture {
	t.Helper()

	server := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redisFixture{
		server:      server,
		client:      client,
		cache:       NewCache(client),
		idempotency: NewIdempotencyStore(client),
	}
}

// storedGrid reports whether the cached grid for key is present in redis.
func (f redisFixture) storedGrid(key string) bool {
	return f.server.Exists(f.cache.prefix + key)
}
