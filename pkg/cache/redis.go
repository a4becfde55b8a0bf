package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores encoded values in Redis. Take uses GETDEL, so an entry is
// handed out once across every instance sharing the server.
type Redis[V any] struct {
	rdb   redis.UniversalClient
	codec Marshaler[V]
	cfg   redisConfig
}

// NewRedis wraps a client from pkg/redis. A nil codec selects JSON.
//
//	client := redis.MustOpen(ctx, redis.Config{URL: os.Getenv("REDIS_URL")})
//	records := cache.NewRedis[state.Record](client, nil, cache.WithPrefix("ambassador"))
func NewRedis[V any](rdb redis.UniversalClient, codec Marshaler[V], opts ...RedisOption) *Redis[V] {
	cfg := redisConfig{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(&cfg)
	}
	if codec == nil {
		codec = JSON[V]{}
	}
	return &Redis[V]{rdb: rdb, codec: codec, cfg: cfg}
}

// Get returns the entry for key.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	return r.read(r.rdb.Get(ctx, r.name(key)))
}

// Take returns the entry for key and removes it.
func (r *Redis[V]) Take(ctx context.Context, key string) (V, error) {
	return r.read(r.rdb.GetDel(ctx, r.name(key)))
}

// Set encodes value and stores it under key.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	b, err := r.codec.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.cfg.ttl
	}
	// a zero expiration makes Redis keep the key indefinitely
	return r.rdb.Set(ctx, r.name(key), b, max(ttl, 0)).Err()
}

// Delete drops key.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.name(key)).Err()
}

// Close does nothing. The client is closed with pkg/redis.Shutdown.
func (r *Redis[V]) Close() error { return nil }

func (r *Redis[V]) read(cmd *redis.StringCmd) (V, error) {
	b, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		var zero V
		return zero, ErrNotFound
	}
	if err != nil {
		var zero V
		return zero, err
	}
	return r.codec.Unmarshal(b)
}

func (r *Redis[V]) name(key string) string {
	if r.cfg.prefix != "" {
		return r.cfg.prefix + ":" + key
	}
	return key
}

var _ Cache[any] = (*Redis[any])(nil)
