package internal_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ambassador/internal"
)

const (
	testAuthorizeURL = "https://provider.test/oauth/authorize"
	testCallbackURL  = "https://app.test/auth/callback"
	defaultTokenBody = `{"access_token":"at-1","refresh_token":"rt-1","token_type":"Bearer","expires_in":3600}`
	defaultProfile   = `{"id":"42","username":"jane","email":"jane@example.com"}`
)

// provider is a fake token and profile endpoint.
type provider struct {
	srv          *httptest.Server
	tokenCalls   atomic.Int32
	profileCalls atomic.Int32

	mu          sync.Mutex
	tokenForm   url.Values
	profileAuth string
	tokenStatus int
	tokenBody   string
	profileBody string
}

func newProvider(t *testing.T) *provider {
	t.Helper()

	p := &provider{
		tokenStatus: http.StatusOK,
		tokenBody:   defaultTokenBody,
		profileBody: defaultProfile,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		p.tokenCalls.Add(1)
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))

		p.mu.Lock()
		p.tokenForm = form
		status, resp := p.tokenStatus, p.tokenBody
		p.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, resp)
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		p.profileCalls.Add(1)

		p.mu.Lock()
		p.profileAuth = r.Header.Get("Authorization")
		resp := p.profileBody
		p.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, resp)
	})

	p.srv = httptest.NewServer(mux)
	t.Cleanup(p.srv.Close)
	return p
}

func (p *provider) respondToken(status int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokenStatus, p.tokenBody = status, body
}

func (p *provider) respondProfile(body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profileBody = body
}

func (p *provider) lastProfileAuth() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profileAuth
}

func (p *provider) lastTokenForm() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tokenForm
}

func (p *provider) config() internal.Config {
	return internal.Config{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		AuthorizeURL: testAuthorizeURL,
		TokenURL:     p.srv.URL + "/token",
		ProfileURL:   p.srv.URL + "/me",
		CallbackURL:  testCallbackURL,
		Scopes:       []string{"identify", "email"},
		State:        true,
	}
}

func (p *provider) engine(t *testing.T, cfg internal.Config, opts ...internal.Option) *internal.Engine {
	t.Helper()

	base := []internal.Option{
		internal.WithHTTPClient(p.srv.Client()),
		internal.WithVerify(acceptResult),
	}
	e, err := internal.New(cfg, append(base, opts...)...)
	require.NoError(t, err)
	return e
}

func acceptResult(_ context.Context, res *internal.Result) (any, internal.Info, error) {
	return res, internal.Info{Message: "welcome"}, nil
}

type hostCall struct {
	user   any
	err    error
	info   internal.Info
	kind   string
	url    string
	reason string
	status int
}

// recordingHost records every terminal call.
type recordingHost struct {
	calls []hostCall
	mu    sync.Mutex
}

func (h *recordingHost) add(c hostCall) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, c)
}

func (h *recordingHost) Redirect(url string) { h.add(hostCall{kind: "redirect", url: url}) }

func (h *recordingHost) Success(user any, info internal.Info) {
	h.add(hostCall{kind: "success", user: user, info: info})
}

func (h *recordingHost) Fail(reason string, status int) {
	h.add(hostCall{kind: "fail", reason: reason, status: status})
}

func (h *recordingHost) Error(err error) { h.add(hostCall{kind: "error", err: err}) }

func (h *recordingHost) only(t *testing.T) hostCall {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.calls, 1)
	return h.calls[0]
}

// authenticate runs one step and returns its single host call.
func authenticate(t *testing.T, e *internal.Engine, req *internal.Request) hostCall {
	t.Helper()
	host := &recordingHost{}
	e.Authenticate(context.Background(), req, host)
	return host.only(t)
}

// stateFrom extracts the state parameter of a redirect URL.
func stateFrom(t *testing.T, location string) string {
	t.Helper()
	u, err := url.Parse(location)
	require.NoError(t, err)
	return u.Query().Get("state")
}
