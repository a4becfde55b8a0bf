package session

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound reports a nil session or an absent key.
	ErrNotFound = errors.New("session: not found")
	// ErrTypeMismatch reports a stored value of another type than requested.
	ErrTypeMismatch = errors.New("session: type mismatch")
)

// Session is the per-browser value bag a host application persists between
// requests. Stateful authentication keeps its pending record here from the
// redirect until the callback.
//
// Values is exported for serialization. Once the session is shared between
// goroutines, go through the methods instead.
type Session struct {
	ID        string         `json:"id"`
	Values    map[string]any `json:"values"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`

	mu      sync.Mutex
	changed bool
}

// New returns an empty session that still has to be saved.
func New(id string, expiresAt time.Time) *Session {
	return &Session{
		ID:        id,
		Values:    map[string]any{},
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
		changed:   true,
	}
}

// SetValue stores val under key.
func (s *Session) SetValue(key string, val any) {
	s.with(func(vals map[string]any) bool {
		vals[key] = val
		return true
	})
}

// GetValue looks up key.
func (s *Session) GetValue(key string) (val any, ok bool) {
	s.with(func(vals map[string]any) bool {
		val, ok = vals[key]
		return false
	})
	return val, ok
}

// DeleteValue removes key if present.
func (s *Session) DeleteValue(key string) {
	s.PopValue(key)
}

// PopValue removes key and returns what it held. Among concurrent callers
// only one receives the value.
func (s *Session) PopValue(key string) (val any, ok bool) {
	s.with(func(vals map[string]any) bool {
		if val, ok = vals[key]; ok {
			delete(vals, key)
		}
		return ok
	})
	return val, ok
}

// IsDirty reports changes made since New or the last ClearDirty.
func (s *Session) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// ClearDirty is called by the host after persisting the session.
func (s *Session) ClearDirty() {
	s.mu.Lock()
	s.changed = false
	s.mu.Unlock()
}

// IsExpired reports whether ExpiresAt is set and in the past.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(time.Now())
}

// with runs fn on the value map under the lock. fn reports whether it
// modified the map.
func (s *Session) with(fn func(map[string]any) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Values == nil {
		s.Values = map[string]any{}
	}
	if fn(s.Values) {
		s.changed = true
	}
}

// Value returns the value under key asserted to T.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}
	raw, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}
	v, ok := raw.(T)
	if !ok {
		return zero, ErrTypeMismatch
	}
	return v, nil
}

// ValueOr is Value with a fallback for any error.
func ValueOr[T any](s *Session, key string, fallback T) T {
	if v, err := Value[T](s, key); err == nil {
		return v
	}
	return fallback
}
