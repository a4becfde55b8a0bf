package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/ambassador/pkg/oauth"
)

// Option configures an Engine.
type Option func(*Engine)

// WithAdapter sets the provider adapter. Adapter endpoints and scopes fill
// the corresponding empty Config fields; its function fields override the
// engine defaults.
func WithAdapter(a oauth.Adapter) Option {
	return func(e *Engine) {
		e.adapter = a
	}
}

// WithVerify sets the callback used when PassRequestToCallback is false.
func WithVerify(fn VerifyFunc) Option {
	return func(e *Engine) {
		e.verify = fn
	}
}

// WithRequestVerify sets the callback used when PassRequestToCallback is true.
func WithRequestVerify(fn VerifyRequestFunc) Option {
	return func(e *Engine) {
		e.verifyReq = fn
	}
}

// WithLogger sets the engine logger. Nil is ignored.
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHTTPClient sets the client used for token and profile requests.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) {
		if c != nil {
			e.clientOpts = append(e.clientOpts, oauth.WithHTTPClient(c))
		}
	}
}

// WithHeader adds a header to every provider request.
func WithHeader(key, value string) Option {
	return func(e *Engine) {
		e.clientOpts = append(e.clientOpts, oauth.WithHeader(key, value))
	}
}

// WithSkipProfile skips the profile fetch whenever fn returns true for the
// obtained token. Config.SkipProfile skips it unconditionally.
func WithSkipProfile(fn func(tok *oauth.Token) bool) Option {
	return func(e *Engine) {
		e.skipProfile = fn
	}
}

// WithClock overrides the time source for state expiry and token expiry.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
