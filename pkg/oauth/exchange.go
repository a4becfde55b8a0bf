package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// TokenClientConfig describes the token endpoint and client credentials.
type TokenClientConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
}

// TokenClient exchanges authorization codes for tokens.
// It is safe for concurrent use.
type TokenClient struct {
	opts *options
	cfg  TokenClientConfig
}

// NewTokenClient creates a token client. Returns an error if the token URL
// or client ID is empty.
func NewTokenClient(cfg TokenClientConfig, opts ...Option) (*TokenClient, error) {
	if cfg.TokenURL == "" {
		return nil, ErrMissingTokenURL
	}
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	return &TokenClient{cfg: cfg, opts: newOptions(opts)}, nil
}

// Exchange trades code for a token. A non-empty verifier is sent as
// code_verifier. Values in extra are added to the form and replace the
// defaults on key collision.
func (c *TokenClient) Exchange(ctx context.Context, code, verifier string, extra url.Values) (*Token, error) {
	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("grant_type", "authorization_code")
	if c.cfg.RedirectURL != "" {
		form.Set("redirect_uri", c.cfg.RedirectURL)
	}
	if c.cfg.Scope != "" {
		form.Set("scope", c.cfg.Scope)
	}
	form.Set("code", code)
	if verifier != "" {
		form.Set("code_verifier", verifier)
	}
	for k, vs := range extra {
		form[k] = vs
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ExchangeError{Reason: ReasonTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, body, reason, err := c.opts.roundTrip(ctx, req)
	if err != nil {
		return nil, &ExchangeError{Reason: reason, Status: status, Body: body, Err: err}
	}

	params, err := DecodeObject(body, c.opts.lenient)
	if err != nil {
		return nil, &ExchangeError{Reason: ReasonDecode, Status: status, Body: body, Err: err}
	}

	tok, err := NewToken(params, c.opts.now())
	if err != nil {
		// Some providers answer 200 with an error object instead of a token.
		return nil, &ExchangeError{Reason: ReasonDecode, Status: status, Body: body, Err: err}
	}

	return tok, nil
}

// IsExchangeError reports whether err is an ExchangeError with the given reason.
func IsExchangeError(err error, reason Reason) bool {
	var xerr *ExchangeError
	return errors.As(err, &xerr) && xerr.Reason == reason
}
