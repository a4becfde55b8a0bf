package ambassador

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/ambassador/internal"
	"github.com/dmitrymomot/ambassador/pkg/cookie"
	"github.com/dmitrymomot/ambassador/pkg/oauth"
	"github.com/dmitrymomot/ambassador/pkg/state"
)

// Engine options

// WithAdapter sets the provider adapter. Its endpoints and scopes fill empty
// Config fields.
func WithAdapter(a Adapter) Option {
	return internal.WithAdapter(a)
}

// WithVerify sets the callback used when PassRequestToCallback is false.
func WithVerify(fn VerifyFunc) Option {
	return internal.WithVerify(fn)
}

// WithRequestVerify sets the callback used when PassRequestToCallback is true.
func WithRequestVerify(fn VerifyRequestFunc) Option {
	return internal.WithRequestVerify(fn)
}

// WithLogger sets the engine logger. If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithHTTPClient sets the client used for token and profile requests.
func WithHTTPClient(c *http.Client) Option {
	return internal.WithHTTPClient(c)
}

// WithHeader adds a header to every provider request.
func WithHeader(key, value string) Option {
	return internal.WithHeader(key, value)
}

// WithSkipProfile skips the profile fetch when fn returns true for the token.
func WithSkipProfile(fn func(tok *oauth.Token) bool) Option {
	return internal.WithSkipProfile(fn)
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return internal.WithClock(now)
}

// Handler options

// WithSuccessRedirect redirects authenticated users to url.
func WithSuccessRedirect(url string) HandlerOption {
	return internal.WithSuccessRedirect(url)
}

// WithFailureRedirect redirects rejected attempts to url.
func WithFailureRedirect(url string) HandlerOption {
	return internal.WithFailureRedirect(url)
}

// WithFailureFlash stores the failure reason as a flash message before the
// failure redirect.
func WithFailureFlash(enabled bool) HandlerOption {
	return internal.WithFailureFlash(enabled)
}

// WithSuccessHandler sets the response writer for successful attempts.
func WithSuccessHandler(fn SuccessHandler) HandlerOption {
	return internal.WithSuccessHandler(fn)
}

// WithErrorHandler sets the response writer for engine errors.
func WithErrorHandler(fn ErrorHandler) HandlerOption {
	return internal.WithErrorHandler(fn)
}

// WithCookieManager sets the cookie manager for the attempt cookie and
// flash messages.
//
// Example:
//
//	ambassador.WithCookieManager(cookie.New(
//	    cookie.WithSecret(os.Getenv("COOKIE_SECRET")),
//	    cookie.WithSecure(true),
//	))
func WithCookieManager(m *cookie.Manager) HandlerOption {
	return internal.WithCookieManager(m)
}

// WithAttemptCookie renames the attempt cookie.
func WithAttemptCookie(name string) HandlerOption {
	return internal.WithAttemptCookie(name)
}

// WithHandlerLogger sets the handler logger.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return internal.WithHandlerLogger(l)
}

// Storage constructors

// NewMapStorage returns in-process attempt storage for a single request
// pipeline, such as tests or non-HTTP hosts.
func NewMapStorage() *state.MapStorage {
	return state.NewMapStorage()
}
