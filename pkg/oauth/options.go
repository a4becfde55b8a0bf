package oauth

import (
	"net/http"
	"time"
)

// DefaultUserAgent is sent on every provider request unless overridden.
const DefaultUserAgent = "ambassador"

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20
)

// Option configures a TokenClient or ResourceClient.
type Option func(*options)

type options struct {
	httpClient *http.Client
	headers    http.Header
	userAgent  string
	timeout    time.Duration
	lenient    bool
	now        func() time.Time
}

func newOptions(opts []Option) *options {
	o := &options{
		httpClient: noRedirects(&http.Client{}),
		headers:    make(http.Header),
		userAgent:  DefaultUserAgent,
		timeout:    defaultTimeout,
		lenient:    true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// noRedirects returns a copy of c that hands 3xx responses back to the
// caller, so a 301 or 302 from the provider is decoded as is.
func noRedirects(c *http.Client) *http.Client {
	cp := *c
	cp.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &cp
}

// WithHTTPClient sets a custom HTTP client for provider requests, e.g. to
// inject a logging transport or reach an httptest server. The client is
// copied and its CheckRedirect replaced so redirects are never followed.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = noRedirects(client)
		}
	}
}

// WithTimeout bounds every provider request. Zero or negative disables the bound.
// Default: 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHeader adds a header to every provider request.
func WithHeader(key, value string) Option {
	return func(o *options) {
		o.headers.Add(key, value)
	}
}

// WithUserAgent overrides the User-Agent header. Default: "ambassador".
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithLenientDecoding controls whether a leading "undefined" token is
// stripped from response bodies before decoding. Enabled by default.
func WithLenientDecoding(enabled bool) Option {
	return func(o *options) {
		o.lenient = enabled
	}
}

// WithClock overrides the time source used to compute token expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
