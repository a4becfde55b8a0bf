package internal

import (
	"context"
	"net/http"
	"sync"

	"github.com/dmitrymomot/ambassador/pkg/oauth"
	"github.com/dmitrymomot/ambassador/pkg/state"
)

// Host receives the outcome of Authenticate. Exactly one method is called
// per Authenticate call.
type Host interface {
	// Redirect sends the user agent to the provider's authorization endpoint.
	Redirect(url string)
	// Success reports an authenticated user.
	Success(user any, info Info)
	// Fail reports a rejected attempt: denied consent, a state check failure
	// or a verify callback that returned no user.
	Fail(reason string, status int)
	// Error reports everything else.
	Error(err error)
}

// Request is the inbound data of one Authenticate call.
type Request struct {
	// Storage holds the pending attempt between redirect and callback.
	// It may be nil when state is disabled.
	Storage state.Storage
	// HTTP is the original request, used to resolve relative callback URLs
	// and passed to VerifyRequestFunc.
	HTTP             *http.Request
	Code             string
	State            string
	Error            string
	ErrorDescription string
	ErrorURI         string
}

// RequestFromHTTP reads the callback query parameters from r.
func RequestFromHTTP(r *http.Request, storage state.Storage) *Request {
	q := r.URL.Query()
	return &Request{
		Storage:          storage,
		HTTP:             r,
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
		ErrorURI:         q.Get("error_uri"),
	}
}

// Result is what the engine hands to the verify callback.
type Result struct {
	Token        *oauth.Token
	Profile      *oauth.Profile
	AccessToken  string
	RefreshToken string
	Identity     oauth.Identity
}

// Info accompanies Success and Fail.
type Info struct {
	Extra map[string]any
	// State is the verified attempt, nil when state is disabled.
	State   *state.Verified
	Message string
}

// VerifyFunc maps an authenticated result to an application user.
// A nil user with a nil error rejects the attempt.
type VerifyFunc func(ctx context.Context, res *Result) (user any, info Info, err error)

// VerifyRequestFunc is VerifyFunc with access to the inbound request.
type VerifyRequestFunc func(ctx context.Context, req *Request, res *Result) (user any, info Info, err error)

// onceHost forwards only the first terminal call.
type onceHost struct {
	next    Host
	mu      sync.Mutex
	settled bool
}

func (h *onceHost) settle() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.settled {
		return false
	}
	h.settled = true
	return true
}

func (h *onceHost) isSettled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settled
}

func (h *onceHost) Redirect(url string) {
	if h.settle() {
		h.next.Redirect(url)
	}
}

func (h *onceHost) Success(user any, info Info) {
	if h.settle() {
		h.next.Success(user, info)
	}
}

func (h *onceHost) Fail(reason string, status int) {
	if h.settle() {
		h.next.Fail(reason, status)
	}
}

func (h *onceHost) Error(err error) {
	if h.settle() {
		h.next.Error(err)
	}
}
