package cookie

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when the request carries no cookie with the name.
	ErrNotFound = errors.New("cookie: not found")
	// ErrNoSecret is returned by signed and encrypted operations on a manager without a secret.
	ErrNoSecret = errors.New("cookie: secret required")
	// ErrBadSig is returned when a signed value fails verification.
	ErrBadSig = errors.New("cookie: invalid signature")
	// ErrDecrypt is returned when an encrypted value cannot be opened.
	ErrDecrypt = errors.New("cookie: decryption failed")
)

// MinSecretLength is the shortest secret accepted by WithSecret.
const MinSecretLength = 32

// Config describes cookie attributes loaded from the environment.
type Config struct {
	Secret   string `env:"COOKIE_SECRET"`
	Domain   string `env:"COOKIE_DOMAIN"`
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	HTTPOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
}

// Options converts cfg into manager options.
func (cfg Config) Options() []Option {
	opts := []Option{
		WithSecret(cfg.Secret),
		WithDomain(cfg.Domain),
		WithSecure(cfg.Secure),
		WithHTTPOnly(cfg.HTTPOnly),
	}
	if cfg.Path != "" {
		opts = append(opts, WithPath(cfg.Path))
	}
	return opts
}

// Manager writes cookies from a shared attribute template.
// Signed and encrypted values need a secret.
type Manager struct {
	tmpl http.Cookie
	keys *keys
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a cookie Manager. Cookies default to Path "/", HttpOnly and SameSite=Lax.
func New(opts ...Option) *Manager {
	m := &Manager{tmpl: http.Cookie{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret enables signed and encrypted cookies.
// A secret shorter than MinSecretLength leaves them disabled.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) < MinSecretLength {
			m.keys = nil
			return
		}
		m.keys = deriveKeys([]byte(secret))
	}
}

// WithDomain sets the Domain attribute.
func WithDomain(domain string) Option {
	return func(m *Manager) { m.tmpl.Domain = domain }
}

// WithPath sets the Path attribute.
func WithPath(path string) Option {
	return func(m *Manager) { m.tmpl.Path = path }
}

// WithSecure sets the Secure attribute.
func WithSecure(secure bool) Option {
	return func(m *Manager) { m.tmpl.Secure = secure }
}

// WithHTTPOnly sets the HttpOnly attribute.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) { m.tmpl.HttpOnly = httpOnly }
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.tmpl.SameSite = ss }
}

// HasSecret reports whether signed and encrypted cookies are available.
func (m *Manager) HasSecret() bool {
	return m.keys != nil
}

// Get returns the raw value of the named cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	switch {
	case errors.Is(err, http.ErrNoCookie):
		return "", ErrNotFound
	case err != nil:
		return "", err
	}
	return c.Value, nil
}

// Set writes value unchanged. A zero maxAge makes a session cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	m.write(w, name, value, maxAge)
}

// Delete tells the browser to drop the named cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	m.write(w, name, "", -1)
}

func (m *Manager) write(w http.ResponseWriter, name, value string, maxAge int) {
	c := m.tmpl
	c.Name = name
	c.Value = value
	c.MaxAge = maxAge
	http.SetCookie(w, &c)
}
