package state

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKey is returned when a session-backed store has no namespace key.
	ErrMissingKey = errors.New("state: session-backed store requires a key")

	// ErrUnsupportedMethod is returned for PKCE methods other than plain and S256.
	ErrUnsupportedMethod = errors.New("state: unsupported PKCE method")

	// ErrNoStorage is returned when a stateful store is used without attempt storage.
	ErrNoStorage = errors.New("state: attempt storage is required when using state")

	// ErrNotFound is returned by Storage.Take when no record exists under the key.
	ErrNotFound = errors.New("state: record not found")

	// ErrCorruptRecord is returned when stored attempt data cannot be decoded.
	ErrCorruptRecord = errors.New("state: corrupt attempt record")
)

// Reason explains why a presented state was rejected.
type Reason string

const (
	ReasonMissing  Reason = "missing"
	ReasonMismatch Reason = "mismatch"
	ReasonExpired  Reason = "expired"
)

// VerificationError rejects a callback whose state cannot be matched to an
// issued attempt. It is a request failure, not an internal error.
type VerificationError struct {
	Reason Reason
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("state: verification failed (%s)", e.Reason)
}

// Message returns the user-facing explanation.
func (e *VerificationError) Message() string {
	switch e.Reason {
	case ReasonMismatch:
		return "Invalid authorization request state."
	case ReasonExpired:
		return "Authorization request state has expired."
	default:
		return "Unable to verify authorization request state."
	}
}

// IsVerificationError reports whether err rejects the presented state.
func IsVerificationError(err error) bool {
	var verr *VerificationError
	return errors.As(err, &verr)
}
