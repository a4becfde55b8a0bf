package oauth

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrMissingClientID is returned when the OAuth client ID is not provided.
	ErrMissingClientID = errors.New("oauth: missing client ID")

	// ErrMissingTokenURL is returned when a token client is built without a token endpoint.
	ErrMissingTokenURL = errors.New("oauth: missing token URL")

	// ErrEmailNotVerified is returned when the OAuth provider reports
	// that the user's email is not verified.
	ErrEmailNotVerified = errors.New("oauth: email not verified")

	// ErrRequestFailed is returned when the OAuth provider answers with a status
	// outside the accepted range.
	ErrRequestFailed = errors.New("oauth: request returned unexpected status")

	// ErrDecodeFailed is returned when decoding the OAuth provider response fails.
	ErrDecodeFailed = errors.New("oauth: failed to decode response")

	// ErrMissingAccessToken is returned when a successful token response has no access_token.
	ErrMissingAccessToken = errors.New("oauth: token response has no access token")

	// ErrTimeout is returned when a provider call exceeds its deadline.
	ErrTimeout = errors.New("oauth: provider request timed out")
)

// Default error codes used when the provider does not supply one.
const (
	DefaultAuthorizationErrorCode = "server_error"
	DefaultTokenErrorCode         = "invalid_request"
)

// AuthorizationError is reported when the provider redirects back with an
// error query parameter other than access_denied.
type AuthorizationError struct {
	Message string
	Code    string
	URI     string
	Status  int
}

// NewAuthorizationError builds an AuthorizationError. A zero status is derived
// from the error code.
func NewAuthorizationError(message, code, uri string, status int) *AuthorizationError {
	if code == "" {
		code = DefaultAuthorizationErrorCode
	}
	if status == 0 {
		status = authorizationStatus(code)
	}
	return &AuthorizationError{Message: message, Code: code, URI: uri, Status: status}
}

func (e *AuthorizationError) Error() string {
	return describe("authorization", e.Code, e.Message)
}

// StatusCode returns the HTTP status hint.
func (e *AuthorizationError) StatusCode() int { return e.Status }

func authorizationStatus(code string) int {
	switch code {
	case "access_denied":
		return http.StatusForbidden
	case "server_error":
		return http.StatusBadGateway
	case "temporarily_unavailable":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// TokenError is a structured error body returned by the token endpoint.
type TokenError struct {
	Message string
	Code    string
	URI     string
	Status  int
}

// NewTokenError builds a TokenError. A zero status becomes 500.
func NewTokenError(message, code, uri string, status int) *TokenError {
	if code == "" {
		code = DefaultTokenErrorCode
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &TokenError{Message: message, Code: code, URI: uri, Status: status}
}

func (e *TokenError) Error() string {
	return describe("token", e.Code, e.Message)
}

// StatusCode returns the HTTP status hint.
func (e *TokenError) StatusCode() int { return e.Status }

// InternalError wraps an unexpected failure such as a transport error
// or an undecodable provider response.
type InternalError struct {
	Err     error
	Message string
	Status  int
}

// NewInternalError wraps err with a user-facing message.
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{Message: message, Err: err, Status: http.StatusInternalServerError}
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return "oauth: " + e.Message
	}
	return "oauth: " + e.Message + ": " + e.Err.Error()
}

func (e *InternalError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status hint.
func (e *InternalError) StatusCode() int { return e.Status }

// ParseErrorResponse extracts {error, error_description, error_uri} from a
// provider body. It returns false when the body is not JSON or carries no
// error field.
func ParseErrorResponse(body []byte, lenient bool) (*TokenError, bool) {
	fields, err := DecodeObject(body, lenient)
	if err != nil {
		return nil, false
	}
	code, _ := fields["error"].(string)
	if code == "" {
		return nil, false
	}
	desc, _ := fields["error_description"].(string)
	uri, _ := fields["error_uri"].(string)
	return NewTokenError(desc, code, uri, 0), true
}

// ClassifyExchangeError converts a failed exchange into the error reported to
// the host: the provider's TokenError when its body carries one, otherwise an
// InternalError wrapping err.
func ClassifyExchangeError(message string, err error, lenient bool) error {
	var xerr *ExchangeError
	if errors.As(err, &xerr) && len(xerr.Body) > 0 {
		if terr, ok := ParseErrorResponse(xerr.Body, lenient); ok {
			return terr
		}
	}
	return NewInternalError(message, err)
}

func describe(kind, code, message string) string {
	var b strings.Builder
	b.WriteString("oauth: ")
	b.WriteString(kind)
	b.WriteString(" error")
	if code != "" {
		b.WriteString(" (")
		b.WriteString(code)
		b.WriteString(")")
	}
	if message != "" {
		b.WriteString(": ")
		b.WriteString(message)
	}
	return b.String()
}
