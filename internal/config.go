package internal

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/ambassador/pkg/oauth"
)

// Config is the immutable per-engine configuration. Empty endpoint and scope
// fields are filled from the adapter passed with WithAdapter.
//
// CallbackURL may be relative; it is then resolved against the incoming
// request, honouring X-Forwarded-Proto and X-Forwarded-Host when TrustProxy
// is set. SessionKey namespaces stored attempts and defaults to "oauth2:"
// followed by the authorize URL host. PKCE is one of "none", "plain" or
// "S256". PassRequestToCallback selects VerifyRequestFunc over VerifyFunc.
// Provider bodies may carry a leading "undefined", which is stripped unless
// StrictDecoding is set by the config or the adapter.
//
// A zero State disables CSRF state; LoadConfig enables it by default.
type Config struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	AuthorizeURL string `env:"AUTHORIZE_URL"`
	TokenURL     string `env:"TOKEN_URL"`
	ProfileURL   string `env:"PROFILE_URL"`
	CallbackURL  string `env:"CALLBACK_URL"`
	SessionKey   string `env:"SESSION_KEY"`
	PKCE         string `env:"PKCE" envDefault:"none"`
	AuthMethod   string `env:"AUTH_METHOD" envDefault:"Bearer"`

	ScopeSeparator string   `env:"SCOPE_SEPARATOR" envDefault:" "`
	Scopes         []string `env:"SCOPES" envSeparator:","`

	Timeout     time.Duration `env:"TIMEOUT" envDefault:"10s"`
	StateMaxAge time.Duration `env:"STATE_MAX_AGE" envDefault:"10m"`

	State                  bool `env:"STATE" envDefault:"true"`
	PassRequestToCallback  bool `env:"PASS_REQUEST_TO_CALLBACK" envDefault:"false"`
	SkipProfile            bool `env:"SKIP_PROFILE" envDefault:"false"`
	UseAuthorizationHeader bool `env:"USE_AUTHORIZATION_HEADER" envDefault:"false"`
	StrictDecoding         bool `env:"STRICT_DECODING" envDefault:"false"`
	TrustProxy             bool `env:"TRUST_PROXY" envDefault:"false"`
}

// LoadConfig reads a Config from environment variables named prefix + tag,
// e.g. "DISCORD_OAUTH_" + "CLIENT_ID".
func LoadConfig(prefix string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: prefix}); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	return cfg, nil
}

// withAdapter fills empty fields from a.
func (c Config) withAdapter(a oauth.Adapter) Config {
	if c.AuthorizeURL == "" {
		c.AuthorizeURL = a.AuthorizeURL
	}
	if c.TokenURL == "" {
		c.TokenURL = a.TokenURL
	}
	if c.ProfileURL == "" {
		c.ProfileURL = a.ProfileURL
	}
	if len(c.Scopes) == 0 {
		c.Scopes = a.Scopes
	}
	if c.ScopeSeparator == "" {
		c.ScopeSeparator = a.ScopeSeparator
	}
	if a.StrictDecoding {
		c.StrictDecoding = true
	}
	return c
}

func (c Config) withDefaults() Config {
	if c.ScopeSeparator == "" {
		c.ScopeSeparator = " "
	}
	if c.AuthMethod == "" {
		c.AuthMethod = oauth.DefaultAuthMethod
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	return c
}
