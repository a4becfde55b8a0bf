package cache

import "time"

// DefaultTTL applies to Set calls with a zero ttl unless overridden.
const DefaultTTL = 10 * time.Minute

// MemoryOption tunes a Memory cache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	ttl   time.Duration
	sweep time.Duration
	limit int
}

// WithDefaultTTL overrides DefaultTTL for a Memory cache.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.ttl = d }
}

// WithCleanupInterval sets the sweep period for expired entries, one minute
// by default. Zero turns the sweeper off and leaves expiry to lookups.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.sweep = d }
}

// WithMaxEntries caps the entry count, evicting the least recently used
// entry on overflow. Zero or less means no cap.
func WithMaxEntries(n int) MemoryOption {
	return func(c *memoryConfig) { c.limit = n }
}

// RedisOption tunes a Redis cache.
type RedisOption func(*redisConfig)

type redisConfig struct {
	prefix string
	ttl    time.Duration
}

// WithRedisDefaultTTL overrides DefaultTTL for a Redis cache.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(c *redisConfig) { c.ttl = d }
}

// WithPrefix stores every key as prefix + ":" + key.
func WithPrefix(prefix string) RedisOption {
	return func(c *redisConfig) { c.prefix = prefix }
}
