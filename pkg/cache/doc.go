// Package cache provides a generic TTL store with in-memory and Redis
// implementations. The engine uses it to keep authentication attempt records
// between the authorization redirect and the provider callback.
//
// # Interface
//
// The [Cache] interface is generic over value type V:
//
//   - Get(ctx, key) (V, error): retrieve a value
//   - Set(ctx, key, value, ttl) error: store a value with TTL
//   - Take(ctx, key) (V, error): retrieve and remove atomically
//   - Delete(ctx, key) error: remove a key
//   - Close() error: release resources
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL (10 minutes by default)
//   - Negative: item never expires
//
// # In-Memory Cache
//
// Use [NewMemory] for single-process deployments or testing. Entries are
// indexed by a map and ordered by a linked list for LRU bounding; a
// background sweeper drops expired entries:
//
//	c := cache.NewMemory[state.Record](
//	    cache.WithDefaultTTL(10 * time.Minute),
//	    cache.WithCleanupInterval(30 * time.Second),
//	    cache.WithMaxEntries(10000),
//	)
//	defer c.Close()
//
// # Redis Cache
//
// Use [NewRedis] when several instances serve callbacks for the same users.
// Take maps to GETDEL, so a record is handed out at most once across the
// cluster:
//
//	client := redis.MustOpen(ctx, redis.Config{URL: os.Getenv("REDIS_URL")})
//	c := cache.NewRedis[state.Record](client, nil, cache.WithPrefix("ambassador"))
//
// # Errors
//
//   - ErrNotFound: key missing or expired
//   - ErrClosed: operation on a closed in-memory cache
//   - ErrMarshal / ErrUnmarshal: value serialization failed
package cache
