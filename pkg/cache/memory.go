package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	key      string
	value    V
	deadline time.Time
}

func (e *entry[V]) live(now time.Time) bool {
	return e.deadline.IsZero() || !now.After(e.deadline)
}

// Memory keeps entries in process, ordered by recency of use.
// A single mutex guards every operation, which makes Take atomic.
type Memory[V any] struct {
	mu     sync.Mutex
	cfg    memoryConfig
	byKey  map[string]*list.Element
	recent *list.List
	stop   chan struct{}
	closed bool
}

// NewMemory creates an in-process cache and starts its sweeper.
//
//	records := cache.NewMemory[state.Record](
//	    cache.WithDefaultTTL(10 * time.Minute),
//	    cache.WithMaxEntries(100000),
//	)
//	defer records.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := memoryConfig{ttl: DefaultTTL, sweep: time.Minute}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Memory[V]{
		cfg:    cfg,
		byKey:  make(map[string]*list.Element),
		recent: list.New(),
		stop:   make(chan struct{}),
	}
	if cfg.sweep > 0 {
		go m.sweeper(cfg.sweep)
	}
	return m
}

// Get returns the entry for key and refreshes its recency.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el := m.find(key)
	if el == nil {
		var zero V
		return zero, ErrNotFound
	}
	m.recent.MoveToFront(el)
	return el.Value.(*entry[V]).value, nil
}

// Take returns the entry for key and removes it.
func (m *Memory[V]) Take(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	if m.closed {
		return zero, ErrClosed
	}
	el := m.find(key)
	if el == nil {
		return zero, ErrNotFound
	}
	m.unlink(el)
	return el.Value.(*entry[V]).value, nil
}

// Set stores value under key, replacing any previous entry.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	deadline := expiry(time.Now(), ttl, m.cfg.ttl)

	if el, ok := m.byKey[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.deadline = deadline
		m.recent.MoveToFront(el)
		return nil
	}

	if m.cfg.limit > 0 && m.recent.Len() >= m.cfg.limit {
		m.unlink(m.recent.Back())
	}
	m.byKey[key] = m.recent.PushFront(&entry[V]{key: key, value: value, deadline: deadline})
	return nil
}

// Delete drops key. Deleting a missing key is not an error.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if el, ok := m.byKey[key]; ok {
		m.unlink(el)
	}
	return nil
}

// Len counts stored entries. Expired entries count until swept or looked up.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recent.Len()
}

// Close stops the sweeper and rejects further writes. It is safe to call twice.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.stop)
	return nil
}

// find must be called with mu held. It evicts key if it has expired.
func (m *Memory[V]) find(key string) *list.Element {
	el, ok := m.byKey[key]
	if !ok {
		return nil
	}
	if !el.Value.(*entry[V]).live(time.Now()) {
		m.unlink(el)
		return nil
	}
	return el
}

func (m *Memory[V]) unlink(el *list.Element) {
	if el == nil {
		return
	}
	delete(m.byKey, el.Value.(*entry[V]).key)
	m.recent.Remove(el)
}

func (m *Memory[V]) sweeper(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			m.purge(time.Now())
		case <-m.stop:
			return
		}
	}
}

func (m *Memory[V]) purge(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for el := m.recent.Front(); el != nil; {
		next := el.Next()
		if !el.Value.(*entry[V]).live(now) {
			m.unlink(el)
		}
		el = next
	}
}

var _ Cache[any] = (*Memory[any])(nil)
