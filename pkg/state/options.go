package state

import "time"

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for issue timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTokenGenerator overrides state value generation.
func WithTokenGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newToken = fn
		}
	}
}
