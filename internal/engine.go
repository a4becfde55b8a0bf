package internal

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/ambassador/pkg/logger"
	"github.com/dmitrymomot/ambassador/pkg/oauth"
	"github.com/dmitrymomot/ambassador/pkg/state"
)

// Engine drives the authorization-code flow for one provider.
// It is immutable after New and safe for concurrent use.
type Engine struct {
	now         func() time.Time
	verify      VerifyFunc
	verifyReq   VerifyRequestFunc
	skipProfile func(*oauth.Token) bool
	logger      *slog.Logger
	store       *state.Store
	tokens      *oauth.TokenClient
	resources   *oauth.ResourceClient
	callback    *url.URL
	adapter     oauth.Adapter
	clientOpts  []oauth.Option
	cfg         Config
}

// New validates cfg and builds an Engine. Configuration problems are
// reported here and never at request time.
func New(cfg Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		now:    time.Now,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(e)
	}

	cfg = cfg.withAdapter(e.adapter).withDefaults()
	if cfg.ClientID == "" {
		return nil, oauth.ErrMissingClientID
	}
	if cfg.AuthorizeURL == "" {
		return nil, ErrMissingAuthorizeURL
	}
	authorize, err := url.Parse(cfg.AuthorizeURL)
	if err != nil || !authorize.IsAbs() || authorize.Host == "" {
		return nil, errors.Join(ErrInvalidAuthorizeURL, err)
	}
	if cfg.CallbackURL != "" {
		if e.callback, err = url.Parse(cfg.CallbackURL); err != nil {
			return nil, errors.Join(ErrInvalidCallbackURL, err)
		}
	}

	method, err := state.ParsePKCEMethod(cfg.PKCE)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if method != state.PKCENone && !cfg.State {
		return nil, ErrPKCERequiresState
	}
	if (cfg.PassRequestToCallback && e.verifyReq == nil) || (!cfg.PassRequestToCallback && e.verify == nil) {
		return nil, ErrMissingVerify
	}

	if cfg.SessionKey == "" {
		cfg.SessionKey = "oauth2:" + authorize.Host
	}
	kind := state.KindNone
	switch {
	case method != state.PKCENone:
		kind = state.KindPKCE
	case cfg.State:
		kind = state.KindSession
	}
	e.store, err = state.New(state.Config{
		Kind:   kind,
		Key:    cfg.SessionKey,
		Method: method,
		MaxAge: cfg.StateMaxAge,
	}, state.WithClock(e.now))
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	clientOpts := append([]oauth.Option{
		oauth.WithTimeout(cfg.Timeout),
		oauth.WithLenientDecoding(!cfg.StrictDecoding),
		oauth.WithClock(e.now),
	}, e.clientOpts...)

	tokenCfg := oauth.TokenClientConfig{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scope:        strings.Join(cfg.Scopes, cfg.ScopeSeparator),
	}
	if e.callback != nil && e.callback.IsAbs() {
		tokenCfg.RedirectURL = cfg.CallbackURL
	}
	if e.tokens, err = oauth.NewTokenClient(tokenCfg, clientOpts...); err != nil {
		return nil, err
	}
	e.resources = oauth.NewResourceClient(cfg.UseAuthorizationHeader, cfg.AuthMethod, clientOpts...)

	if e.adapter.Name == "" {
		e.adapter.Name = authorize.Host
	}
	e.cfg = cfg
	return e, nil
}

// Name returns the provider name used for profiles and logs.
func (e *Engine) Name() string { return e.adapter.Name }

// StateMaxAge returns how long an issued attempt stays valid.
func (e *Engine) StateMaxAge() time.Duration { return e.store.MaxAge() }

// Authenticate runs one step of the flow for req and reports the outcome
// through exactly one host call. Panics raised by callbacks are recovered
// and reported with host.Error.
func (e *Engine) Authenticate(ctx context.Context, req *Request, host Host) {
	h := &onceHost{next: host}
	log := e.logger.With(slog.String("provider", e.adapter.Name))

	defer func() {
		if r := recover(); r != nil {
			err := panicError(r)
			log.ErrorContext(ctx, "authentication panicked", slog.Any("error", err))
			if !h.isSettled() {
				h.Error(err)
			}
		}
	}()

	if req == nil {
		req = &Request{}
	}

	switch {
	case req.Error != "":
		e.rejected(ctx, log, req, h)
	case req.Code != "":
		e.callbackStep(ctx, log, req, h)
	default:
		e.redirectStep(ctx, log, req, h)
	}
}

func (e *Engine) rejected(ctx context.Context, log *slog.Logger, req *Request, h Host) {
	if req.Error == "access_denied" {
		reason := req.ErrorDescription
		if reason == "" {
			reason = req.Error
		}
		log.InfoContext(ctx, "authorization denied by user")
		h.Fail(reason, http.StatusForbidden)
		return
	}

	err := oauth.NewAuthorizationError(req.ErrorDescription, req.Error, req.ErrorURI, 0)
	log.WarnContext(ctx, "authorization failed", slog.String("code", err.Code))
	h.Error(err)
}

func (e *Engine) redirectStep(ctx context.Context, log *slog.Logger, req *Request, h Host) {
	issued, err := e.store.Issue(ctx, req.Storage)
	if err != nil {
		log.ErrorContext(ctx, "failed to issue state", slog.Any("error", err))
		h.Error(oauth.NewInternalError("failed to issue authorization request state", err))
		return
	}
	if issued.ID != "" {
		ctx = WithAttemptID(ctx, issued.ID)
	}

	location := e.authorizeURL(ctx, req, issued)
	log.DebugContext(ctx, "redirecting to provider")
	h.Redirect(location)
}

func (e *Engine) callbackStep(ctx context.Context, log *slog.Logger, req *Request, h Host) {
	verified, err := e.store.Verify(ctx, req.Storage, req.State)
	var verr *state.VerificationError
	if errors.As(err, &verr) {
		log.WarnContext(ctx, "state verification failed", slog.String("reason", string(verr.Reason)))
		h.Fail(verr.Message(), http.StatusForbidden)
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "failed to verify state", slog.Any("error", err))
		h.Error(oauth.NewInternalError("failed to verify authorization request state", err))
		return
	}
	if verified.ID != "" {
		ctx = WithAttemptID(ctx, verified.ID)
	}

	tok, err := e.tokens.Exchange(ctx, req.Code, verified.Verifier, e.tokenParams(ctx, req))
	if err != nil {
		log.ErrorContext(ctx, "token exchange failed", slog.Any("error", err))
		h.Error(oauth.ClassifyExchangeError("failed to obtain access token", err, !e.cfg.StrictDecoding))
		return
	}

	res := &Result{
		Token:        tok,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if !e.skip(tok) {
		profile, err := e.fetchProfile(ctx, tok)
		if err != nil {
			log.ErrorContext(ctx, "profile fetch failed", slog.Any("error", err))
			h.Error(oauth.NewInternalError("failed to fetch user profile", err))
			return
		}
		res.Profile = profile
		res.Identity = profile.Identity(e.identityMapping())
	}

	user, info, err := e.runVerify(ctx, req, res)
	if err != nil {
		log.ErrorContext(ctx, "verify callback failed", slog.Any("error", err))
		h.Error(err)
		return
	}
	if user == nil {
		log.InfoContext(ctx, "verify callback rejected user")
		h.Fail(info.Message, http.StatusUnauthorized)
		return
	}

	if e.store.Kind() != state.KindNone {
		info.State = &verified
	}
	log.InfoContext(ctx, "authentication succeeded")
	h.Success(user, info)
}

func (e *Engine) runVerify(ctx context.Context, req *Request, res *Result) (user any, info Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			user, err = nil, panicError(r)
		}
	}()

	if e.cfg.PassRequestToCallback {
		return e.verifyReq(ctx, req, res)
	}
	return e.verify(ctx, res)
}

func (e *Engine) skip(tok *oauth.Token) bool {
	if e.cfg.SkipProfile {
		return true
	}
	return e.skipProfile != nil && e.skipProfile(tok)
}

func (e *Engine) fetchProfile(ctx context.Context, tok *oauth.Token) (*oauth.Profile, error) {
	if e.adapter.FetchProfile != nil {
		return e.adapter.FetchProfile(ctx, e.resources, e.cfg.ProfileURL, tok)
	}
	if e.cfg.ProfileURL == "" {
		return oauth.NewProfile(e.adapter.Name, map[string]any{})
	}
	return e.resources.Fetch(ctx, e.adapter.Name, e.cfg.ProfileURL, tok)
}

func (e *Engine) identityMapping() oauth.IdentityMapping {
	m := e.adapter.Identity
	if len(m.ID) == 0 && len(m.Name) == 0 && len(m.Email) == 0 && len(m.Picture) == 0 {
		return oauth.DefaultIdentityMapping()
	}
	return m
}

func (e *Engine) tokenParams(ctx context.Context, req *Request) url.Values {
	params := url.Values{}
	if e.callback != nil && !e.callback.IsAbs() {
		params.Set("redirect_uri", e.callbackURL(req))
	}
	if e.adapter.ExtraTokenParams != nil {
		for k, vs := range e.adapter.ExtraTokenParams(ctx) {
			params[k] = vs
		}
	}
	return params
}

// callbackURL returns the absolute redirect_uri for req.
func (e *Engine) callbackURL(req *Request) string {
	if e.callback == nil {
		return ""
	}
	if e.callback.IsAbs() || req.HTTP == nil {
		return e.callback.String()
	}

	r := req.HTTP
	scheme, host := "http", r.Host
	if r.TLS != nil {
		scheme = "https"
	}
	if e.cfg.TrustProxy {
		if v := firstValue(r.Header.Get("X-Forwarded-Proto")); v != "" {
			scheme = v
		}
		if v := firstValue(r.Header.Get("X-Forwarded-Host")); v != "" {
			host = v
		}
	}

	base := &url.URL{Scheme: scheme, Host: host, Path: r.URL.Path}
	return base.ResolveReference(e.callback).String()
}

// authorizeURL builds the redirect target. Parameters keep a fixed order:
// response_type, client_id, redirect_uri, scope, state, code_challenge,
// code_challenge_method, then adapter extras sorted by key. Extras replace
// earlier parameters with the same name.
func (e *Engine) authorizeURL(ctx context.Context, req *Request, issued state.Issued) string {
	var q query
	q.set("response_type", "code")
	q.set("client_id", e.cfg.ClientID)
	if cb := e.callbackURL(req); cb != "" {
		q.set("redirect_uri", cb)
	}
	if scope := strings.Join(e.cfg.Scopes, e.cfg.ScopeSeparator); scope != "" {
		q.set("scope", scope)
	}
	if issued.State != "" {
		q.set("state", issued.State)
	}
	if issued.Challenge != "" {
		q.set("code_challenge", issued.Challenge)
		q.set("code_challenge_method", string(issued.Method))
	}

	if e.adapter.ExtraAuthorizeParams != nil {
		extra := e.adapter.ExtraAuthorizeParams(ctx)
		for _, k := range slices.Sorted(maps.Keys(extra)) {
			if vs := extra[k]; len(vs) > 0 {
				q.set(k, vs[0])
			}
		}
	}

	base := e.cfg.AuthorizeURL
	switch {
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		return base + q.encode()
	case strings.Contains(base, "?"):
		return base + "&" + q.encode()
	default:
		return base + "?" + q.encode()
	}
}

// query is an insertion-ordered parameter list.
type query []param

type param struct{ key, value string }

func (q *query) set(key, value string) {
	for i := range *q {
		if (*q)[i].key == key {
			(*q)[i].value = value
			return
		}
	}
	*q = append(*q, param{key, value})
}

func (q query) encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(p.key))
		b.WriteByte('=')
		b.WriteString(escape(p.value))
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func firstValue(header string) string {
	v, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(v)
}
