package state

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dmitrymomot/ambassador/pkg/cache"
	"github.com/dmitrymomot/ambassador/pkg/session"
)

// Storage is the per-browser place attempts live between redirect and
// callback. Take must remove the record it returns.
type Storage interface {
	Put(ctx context.Context, key string, rec Record, ttl time.Duration) error
	Take(ctx context.Context, key string) (Record, error)
}

// MapStorage keeps records in memory. It ignores TTLs; the store's max age
// still rejects stale records.
type MapStorage struct {
	records map[string]Record
	mu      sync.Mutex
}

// NewMapStorage creates an empty MapStorage.
func NewMapStorage() *MapStorage {
	return &MapStorage{records: make(map[string]Record)}
}

func (m *MapStorage) Put(_ context.Context, key string, rec Record, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = rec
	return nil
}

func (m *MapStorage) Take(_ context.Context, key string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok {
		return Record{}, ErrNotFound
	}
	delete(m.records, key)
	return rec, nil
}

// Len returns the number of pending records.
func (m *MapStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// SessionStorage keeps records in a host session's values.
type SessionStorage struct {
	sess *session.Session
}

// NewSessionStorage wraps sess.
func NewSessionStorage(sess *session.Session) *SessionStorage {
	return &SessionStorage{sess: sess}
}

func (s *SessionStorage) Put(_ context.Context, key string, rec Record, _ time.Duration) error {
	s.sess.SetValue(key, rec)
	return nil
}

// Take pops the record under key. Values restored from a serialized session
// arrive as generic maps and are re-decoded.
func (s *SessionStorage) Take(_ context.Context, key string) (Record, error) {
	v, ok := s.sess.PopValue(key)
	if !ok {
		return Record{}, ErrNotFound
	}

	switch rec := v.(type) {
	case Record:
		return rec, nil
	case *Record:
		if rec == nil {
			return Record{}, ErrNotFound
		}
		return *rec, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return Record{}, errors.Join(ErrCorruptRecord, err)
		}
		var out Record
		if err := json.Unmarshal(data, &out); err != nil {
			return Record{}, errors.Join(ErrCorruptRecord, err)
		}
		return out, nil
	}
}

// CacheStorage keeps records in a shared cache, namespaced by a per-browser
// identifier such as a cookie value.
type CacheStorage struct {
	records   cache.Cache[Record]
	namespace string
}

// NewCacheStorage binds records to namespace.
func NewCacheStorage(records cache.Cache[Record], namespace string) *CacheStorage {
	return &CacheStorage{records: records, namespace: namespace}
}

func (c *CacheStorage) Put(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	return c.records.Set(ctx, c.key(key), rec, ttl)
}

func (c *CacheStorage) Take(ctx context.Context, key string) (Record, error) {
	rec, err := c.records.Take(ctx, c.key(key))
	if errors.Is(err, cache.ErrNotFound) {
		return Record{}, ErrNotFound
	}
	if errors.Is(err, cache.ErrUnmarshal) {
		return Record{}, errors.Join(ErrCorruptRecord, err)
	}
	return rec, err
}

func (c *CacheStorage) key(key string) string {
	return c.namespace + ":" + key
}

var (
	_ Storage = (*MapStorage)(nil)
	_ Storage = (*SessionStorage)(nil)
	_ Storage = (*CacheStorage)(nil)
)
