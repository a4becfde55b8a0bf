package ambassador

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/ambassador/internal"
	"github.com/dmitrymomot/ambassador/pkg/cache"
	"github.com/dmitrymomot/ambassador/pkg/logger"
	"github.com/dmitrymomot/ambassador/pkg/oauth"
	"github.com/dmitrymomot/ambassador/pkg/state"
)

// Type aliases - public API
type (
	// Engine drives the authorization-code flow for one provider.
	Engine = internal.Engine

	// Config is the immutable per-engine configuration.
	Config = internal.Config

	// Option configures an Engine.
	Option = internal.Option

	// Host receives the outcome of Authenticate.
	Host = internal.Host

	// Request is the inbound data of one Authenticate call.
	Request = internal.Request

	// Result is handed to the verify callback.
	Result = internal.Result

	// Info accompanies Success and Fail.
	Info = internal.Info

	// VerifyFunc maps an authenticated result to an application user.
	VerifyFunc = internal.VerifyFunc

	// VerifyRequestFunc is VerifyFunc with access to the inbound request.
	VerifyRequestFunc = internal.VerifyRequestFunc

	// Handler serves the login redirect and callback over HTTP.
	Handler = internal.Handler

	// HandlerOption configures a Handler.
	HandlerOption = internal.HandlerOption

	// SuccessHandler writes the response for an authenticated user.
	SuccessHandler = internal.SuccessHandler

	// ErrorHandler writes the response for an engine error.
	ErrorHandler = internal.ErrorHandler

	// ServerConfig describes the HTTP server started by Serve.
	ServerConfig = internal.ServerConfig

	// Adapter carries provider-specific data and overrides.
	Adapter = oauth.Adapter

	// Token is the decoded token response.
	Token = oauth.Token

	// Profile is the decoded user-info document.
	Profile = oauth.Profile

	// Identity is the provider-agnostic view of a profile.
	Identity = oauth.Identity

	// Storage keeps pending attempts between redirect and callback.
	Storage = state.Storage

	// Record is one stored authentication attempt.
	Record = state.Record

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor
)

// Errors
var (
	ErrMissingAuthorizeURL = internal.ErrMissingAuthorizeURL
	ErrInvalidAuthorizeURL = internal.ErrInvalidAuthorizeURL
	ErrInvalidCallbackURL  = internal.ErrInvalidCallbackURL
	ErrPKCERequiresState   = internal.ErrPKCERequiresState
	ErrMissingVerify       = internal.ErrMissingVerify
	ErrInvalidConfig       = internal.ErrInvalidConfig
	ErrPanic               = internal.ErrPanic
)

// DefaultAttemptCookie names the cookie binding a browser to its attempts.
const DefaultAttemptCookie = internal.DefaultAttemptCookie

// New validates cfg and builds an Engine.
//
// Example:
//
//	engine, err := ambassador.New(cfg,
//	    ambassador.WithAdapter(oauth.Discord(oauth.DiscordConfig{})),
//	    ambassador.WithVerify(func(ctx context.Context, res *ambassador.Result) (any, ambassador.Info, error) {
//	        user, err := users.FindOrCreate(ctx, res.Identity)
//	        return user, ambassador.Info{}, err
//	    }),
//	)
func New(cfg Config, opts ...Option) (*Engine, error) {
	return internal.New(cfg, opts...)
}

// LoadConfig reads a Config from environment variables named prefix + tag,
// e.g. "DISCORD_OAUTH_CLIENT_ID" for prefix "DISCORD_OAUTH_".
func LoadConfig(prefix string) (Config, error) {
	return internal.LoadConfig(prefix)
}

// RequestFromHTTP reads the callback query parameters from r.
// Use it when implementing a custom Host.
func RequestFromHTTP(r *http.Request, storage Storage) *Request {
	return internal.RequestFromHTTP(r, storage)
}

// NewHandler creates an HTTP host for engine with attempts kept in records.
//
// Example:
//
//	h := ambassador.NewHandler(engine, cache.NewMemory[ambassador.Record](),
//	    ambassador.WithSuccessHandler(onLogin),
//	)
//	r.Mount("/auth/discord", h.Routes())
func NewHandler(engine *Engine, records cache.Cache[Record], opts ...HandlerOption) *Handler {
	return internal.NewHandler(engine, records, opts...)
}

// Serve runs an HTTP server until ctx is cancelled or a termination signal
// arrives, then shuts it down gracefully and runs the shutdown hooks.
func Serve(ctx context.Context, cfg ServerConfig) error {
	return internal.Serve(ctx, cfg)
}

// AttemptIDExtractor adds the current attempt ID to log records.
//
// Example:
//
//	log := logger.New(logger.Config{}, ambassador.AttemptIDExtractor())
func AttemptIDExtractor() ContextExtractor {
	return internal.AttemptIDExtractor()
}
