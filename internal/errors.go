package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAuthorizeURL is returned when neither the config nor the
	// adapter provides an authorization endpoint.
	ErrMissingAuthorizeURL = errors.New("ambassador: missing authorize URL")

	// ErrInvalidAuthorizeURL is returned when the authorization endpoint is not an absolute URL.
	ErrInvalidAuthorizeURL = errors.New("ambassador: invalid authorize URL")

	// ErrInvalidCallbackURL is returned when the callback URL cannot be parsed.
	ErrInvalidCallbackURL = errors.New("ambassador: invalid callback URL")

	// ErrPKCERequiresState is returned when PKCE is enabled while state is disabled.
	ErrPKCERequiresState = errors.New("ambassador: PKCE requires state to be enabled")

	// ErrMissingVerify is returned when the verify callback matching
	// PassRequestToCallback is not configured.
	ErrMissingVerify = errors.New("ambassador: missing verify callback")

	// ErrInvalidConfig wraps configuration loading and parsing failures.
	ErrInvalidConfig = errors.New("ambassador: invalid configuration")

	// ErrPanic wraps a value recovered from a panicking callback.
	ErrPanic = errors.New("ambassador: recovered from panic")
)

func panicError(v any) error {
	if err, ok := v.(error); ok {
		return errors.Join(ErrPanic, err)
	}
	return fmt.Errorf("%w: %v", ErrPanic, v)
}
