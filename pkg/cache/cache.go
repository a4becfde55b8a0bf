package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotFound reports a key that was never stored, has expired or was taken.
	ErrNotFound = errors.New("cache: entry not found")
	// ErrClosed reports a write to a cache after Close.
	ErrClosed = errors.New("cache: closed")
	// ErrMarshal wraps an encoding failure in a byte-oriented backend.
	ErrMarshal = errors.New("cache: failed to marshal value")
	// ErrUnmarshal wraps a decoding failure in a byte-oriented backend.
	ErrUnmarshal = errors.New("cache: failed to unmarshal value")
)

// Cache stores values of type V under string keys with a per-entry lifetime.
// A ttl of zero in Set selects the backend default; a negative ttl keeps the
// entry until it is deleted.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Take returns the entry and removes it. Of two concurrent Take calls on
	// the same key, at most one succeeds.
	Take(ctx context.Context, key string) (V, error)

	Delete(ctx context.Context, key string) error
	Close() error
}

// Marshaler converts values to bytes for backends like Redis.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// JSON is the default Marshaler.
type JSON[V any] struct{}

// Marshal encodes v as JSON.
func (JSON[V]) Marshal(v V) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return b, nil
}

// Unmarshal decodes a JSON document into a new V.
func (JSON[V]) Unmarshal(b []byte) (V, error) {
	var out V
	err := json.Unmarshal(b, &out)
	if err != nil {
		err = errors.Join(ErrUnmarshal, err)
	}
	return out, err
}

// expiry converts a Set ttl into an absolute deadline. The zero time means
// the entry never expires.
func expiry(now time.Time, ttl, fallback time.Duration) time.Time {
	if ttl == 0 {
		ttl = fallback
	}
	if ttl < 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
