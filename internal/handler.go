package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/ambassador/pkg/cache"
	"github.com/dmitrymomot/ambassador/pkg/cookie"
	"github.com/dmitrymomot/ambassador/pkg/state"
)

const (
	// DefaultAttemptCookie names the cookie binding a browser to its pending attempts.
	DefaultAttemptCookie = "__ambassador"

	// FailureFlashKey is the flash key a failure reason is stored under.
	FailureFlashKey = "auth_failure"
)

// SuccessHandler writes the response for an authenticated user.
type SuccessHandler func(w http.ResponseWriter, r *http.Request, user any, info Info)

// ErrorHandler writes the response for an engine error.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Handler serves the login redirect and the provider callback over HTTP.
// Attempts are kept in records, keyed by a per-browser cookie.
type Handler struct {
	engine          *Engine
	records         cache.Cache[state.Record]
	cookies         *cookie.Manager
	logger          *slog.Logger
	onSuccess       SuccessHandler
	onError         ErrorHandler
	cookieName      string
	successRedirect string
	failureRedirect string
	failureFlash    bool
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithSuccessRedirect redirects authenticated users to url.
// Ignored when a SuccessHandler is set.
func WithSuccessRedirect(url string) HandlerOption {
	return func(h *Handler) {
		h.successRedirect = url
	}
}

// WithFailureRedirect redirects rejected attempts to url instead of
// answering with the failure status.
func WithFailureRedirect(url string) HandlerOption {
	return func(h *Handler) {
		h.failureRedirect = url
	}
}

// WithFailureFlash stores the failure reason as a flash message before the
// failure redirect. Requires a cookie manager with a secret.
func WithFailureFlash(enabled bool) HandlerOption {
	return func(h *Handler) {
		h.failureFlash = enabled
	}
}

// WithSuccessHandler sets the response writer for successful attempts.
func WithSuccessHandler(fn SuccessHandler) HandlerOption {
	return func(h *Handler) {
		h.onSuccess = fn
	}
}

// WithErrorHandler sets the response writer for engine errors.
// Default: plain status text with the error's status hint.
func WithErrorHandler(fn ErrorHandler) HandlerOption {
	return func(h *Handler) {
		h.onError = fn
	}
}

// WithCookieManager sets the manager for the attempt cookie and flash
// messages. With a secret the attempt cookie is signed.
func WithCookieManager(m *cookie.Manager) HandlerOption {
	return func(h *Handler) {
		if m != nil {
			h.cookies = m
		}
	}
}

// WithAttemptCookie renames the attempt cookie. Empty names are ignored.
func WithAttemptCookie(name string) HandlerOption {
	return func(h *Handler) {
		if name != "" {
			h.cookieName = name
		}
	}
}

// WithHandlerLogger sets the handler logger. Nil is ignored.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates an HTTP host for engine backed by records.
func NewHandler(engine *Engine, records cache.Cache[state.Record], opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:     engine,
		records:    records,
		cookies:    cookie.New(),
		logger:     engine.logger,
		cookieName: DefaultAttemptCookie,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the login redirect at "/" and the callback at "/callback".
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeHTTP)
	r.Get("/callback", h.ServeHTTP)
	return r
}

// ServeHTTP runs one Authenticate step for r.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rw := track(w)
	attempt := h.attemptID(r)
	host := &httpHost{h: h, w: rw, r: r, attempt: attempt}

	storage := state.NewCacheStorage(h.records, attempt)
	h.engine.Authenticate(r.Context(), RequestFromHTTP(r, storage), host)

	if !rw.Written() {
		h.logger.ErrorContext(r.Context(), "authentication finished without a response")
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// FailureMessage returns and clears the flash message set by a failure redirect.
func (h *Handler) FailureMessage(w http.ResponseWriter, r *http.Request) (string, bool) {
	var msg string
	if err := h.cookies.Flash(w, r, FailureFlashKey, &msg); err != nil {
		return "", false
	}
	return msg, true
}

// attemptID returns the browser's attempt ID, or a new one when the cookie
// is absent or invalid.
func (h *Handler) attemptID(r *http.Request) string {
	var (
		v   string
		err error
	)
	if h.cookies.HasSecret() {
		v, err = h.cookies.GetSigned(r, h.cookieName)
	} else {
		v, err = h.cookies.Get(r, h.cookieName)
	}
	if err == nil {
		if _, perr := uuid.Parse(v); perr == nil {
			return v
		}
	}
	return uuid.NewString()
}

func (h *Handler) setAttemptCookie(w http.ResponseWriter, attempt string) error {
	maxAge := int(h.engine.StateMaxAge().Seconds())
	if h.cookies.HasSecret() {
		return h.cookies.SetSigned(w, h.cookieName, attempt, maxAge)
	}
	h.cookies.Set(w, h.cookieName, attempt, maxAge)
	return nil
}

// httpHost adapts one request/response pair to Host.
type httpHost struct {
	h       *Handler
	w       http.ResponseWriter
	r       *http.Request
	attempt string
}

var _ Host = (*httpHost)(nil)

func (x *httpHost) Redirect(url string) {
	if err := x.h.setAttemptCookie(x.w, x.attempt); err != nil {
		x.Error(err)
		return
	}
	http.Redirect(x.w, x.r, url, http.StatusFound)
}

func (x *httpHost) Success(user any, info Info) {
	switch {
	case x.h.onSuccess != nil:
		x.h.onSuccess(x.w, x.r, user, info)
	case x.h.successRedirect != "":
		http.Redirect(x.w, x.r, x.h.successRedirect, http.StatusFound)
	default:
		x.w.WriteHeader(http.StatusNoContent)
	}
}

func (x *httpHost) Fail(reason string, status int) {
	if x.h.failureRedirect != "" {
		if x.h.failureFlash && reason != "" {
			if err := x.h.cookies.SetFlash(x.w, FailureFlashKey, reason); err != nil {
				x.h.logger.WarnContext(x.r.Context(), "failed to set failure flash", slog.Any("error", err))
			}
		}
		http.Redirect(x.w, x.r, x.h.failureRedirect, http.StatusFound)
		return
	}

	if status == http.StatusUnauthorized {
		x.w.Header().Set("WWW-Authenticate", fmt.Sprintf("OAuth realm=%q", x.h.engine.Name()))
	}
	if reason == "" {
		reason = http.StatusText(status)
	}
	http.Error(x.w, reason, status)
}

func (x *httpHost) Error(err error) {
	if x.h.onError != nil {
		x.h.onError(x.w, x.r, err)
		return
	}

	status := http.StatusInternalServerError
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) && sc.StatusCode() >= 400 {
		status = sc.StatusCode()
	}
	http.Error(x.w, http.StatusText(status), status)
}
