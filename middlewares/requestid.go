package middlewares

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/ambassador/pkg/id"
	"github.com/dmitrymomot/ambassador/pkg/logger"
)

type requestIDKey struct{}

// RequestIDHeader carries the request ID on responses.
const RequestIDHeader = "X-Request-ID"

// DefaultRequestIDHeaders are consulted in order for an upstream request ID.
var DefaultRequestIDHeaders = []string{RequestIDHeader, "X-Correlation-ID"}

type requestIDSettings struct {
	inbound []string
	newID   func() string
}

// RequestIDOption tunes RequestID.
type RequestIDOption func(*requestIDSettings)

// WithRequestIDHeaders replaces DefaultRequestIDHeaders.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(s *requestIDSettings) { s.inbound = headers }
}

// WithRequestIDGenerator replaces the ULID generator. Nil is ignored.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(s *requestIDSettings) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// RequestID tags every request with an ID, taken from the first non-empty
// inbound header or freshly generated. The ID lands in the context and in
// the X-Request-ID response header.
func RequestID(opts ...RequestIDOption) func(http.Handler) http.Handler {
	s := requestIDSettings{inbound: DefaultRequestIDHeaders, newID: id.NewULID}
	for _, opt := range opts {
		opt(&s)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := s.pick(r.Header)
			w.Header().Set(RequestIDHeader, rid)
			ctx := context.WithValue(r.Context(), requestIDKey{}, rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s requestIDSettings) pick(h http.Header) string {
	for _, name := range s.inbound {
		if v := h.Get(name); v != "" {
			return v
		}
	}
	return s.newID()
}

// GetRequestID returns the ID set by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

// RequestIDExtractor logs the request ID as "request_id".
func RequestIDExtractor() logger.ContextExtractor {
	return logger.StringExtractor(requestIDKey{}, "request_id")
}
