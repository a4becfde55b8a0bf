package state

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/dmitrymomot/ambassador/pkg/id"
)

const (
	// TokenLength is the length of generated state values. At 6 bits per
	// character that is 192 bits of entropy.
	TokenLength = 32

	// DefaultMaxAge bounds how long an issued attempt may wait for its callback.
	DefaultMaxAge = 10 * time.Minute
)

// Kind selects the state store variant.
type Kind int

const (
	// KindNone disables state; Issue returns no value and Verify always passes.
	KindNone Kind = iota
	// KindSession stores a random state per attempt and checks it on callback.
	KindSession
	// KindPKCE additionally stores a PKCE verifier and returns it on callback.
	KindPKCE
)

func (k Kind) String() string {
	switch k {
	case KindSession:
		return "session"
	case KindPKCE:
		return "pkce"
	default:
		return "none"
	}
}

// Config describes a Store.
type Config struct {
	// Key is the storage key attempts are kept under.
	Key    string
	Method PKCEMethod
	// MaxAge rejects older attempts as expired. Zero means DefaultMaxAge.
	MaxAge time.Duration
	Kind   Kind
}

// Store issues and verifies the state parameter of authorization requests.
// A Store is immutable and safe for concurrent use; per-attempt data lives
// in the Storage passed to each call.
type Store struct {
	now      func() time.Time
	newToken func() string
	key      string
	method   PKCEMethod
	maxAge   time.Duration
	kind     Kind
}

// New validates cfg and builds a Store.
func New(cfg Config, opts ...Option) (*Store, error) {
	s := &Store{
		kind:     cfg.Kind,
		key:      cfg.Key,
		method:   cfg.Method,
		maxAge:   cfg.MaxAge,
		now:      time.Now,
		newToken: func() string { return id.NewToken(TokenLength) },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxAge <= 0 {
		s.maxAge = DefaultMaxAge
	}

	switch s.kind {
	case KindNone:
		s.method = PKCENone
	case KindSession:
		if s.key == "" {
			return nil, ErrMissingKey
		}
		s.method = PKCENone
	case KindPKCE:
		if s.key == "" {
			return nil, ErrMissingKey
		}
		if _, err := Challenge("", s.method); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("state: unknown store kind")
	}

	return s, nil
}

// Kind returns the store variant.
func (s *Store) Kind() Kind { return s.kind }

// Key returns the storage key attempts are kept under.
func (s *Store) Key() string { return s.key }

// Method returns the PKCE method, PKCENone unless Kind is KindPKCE.
func (s *Store) Method() PKCEMethod { return s.method }

// MaxAge returns how long an issued attempt stays valid.
func (s *Store) MaxAge() time.Duration { return s.maxAge }

// Issue creates an attempt and persists it in storage, replacing any earlier
// pending attempt under the same key.
func (s *Store) Issue(ctx context.Context, storage Storage) (Issued, error) {
	if s.kind == KindNone {
		return Issued{}, nil
	}
	if storage == nil {
		return Issued{}, ErrNoStorage
	}

	now := s.now()
	rec := Record{
		ID:       id.NewULIDAt(now),
		State:    s.newToken(),
		IssuedAt: now,
	}
	if s.kind == KindPKCE {
		rec.Verifier = NewVerifier()
		rec.Method = s.method
		challenge, err := Challenge(rec.Verifier, s.method)
		if err != nil {
			return Issued{}, err
		}
		rec.Challenge = challenge
	}

	if err := storage.Put(ctx, s.key, rec, s.maxAge); err != nil {
		return Issued{}, err
	}

	return Issued{ID: rec.ID, State: rec.State, Challenge: rec.Challenge, Method: rec.Method}, nil
}

// Verify consumes the pending attempt and checks presented against it.
// The attempt is removed whether or not verification succeeds.
// Rejections are returned as *VerificationError.
func (s *Store) Verify(ctx context.Context, storage Storage, presented string) (Verified, error) {
	if s.kind == KindNone {
		return Verified{}, nil
	}
	if storage == nil {
		return Verified{}, ErrNoStorage
	}

	rec, err := storage.Take(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return Verified{}, &VerificationError{Reason: ReasonMissing}
	}
	if err != nil {
		return Verified{}, err
	}
	if rec.State == "" {
		return Verified{}, &VerificationError{Reason: ReasonMissing}
	}

	if subtle.ConstantTimeCompare([]byte(rec.State), []byte(presented)) != 1 {
		return Verified{}, &VerificationError{Reason: ReasonMismatch}
	}
	if s.now().Sub(rec.IssuedAt) > s.maxAge {
		return Verified{}, &VerificationError{Reason: ReasonExpired}
	}

	return Verified{ID: rec.ID, IssuedAt: rec.IssuedAt, Verifier: rec.Verifier}, nil
}
