package oauth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ambassador/pkg/oauth"
)

func TestNewTokenClient(t *testing.T) {
	t.Parallel()

	t.Run("missing token URL", func(t *testing.T) {
		t.Parallel()
		c, err := oauth.NewTokenClient(oauth.TokenClientConfig{ClientID: "abc"})
		require.ErrorIs(t, err, oauth.ErrMissingTokenURL)
		require.Nil(t, c)
	})

	t.Run("missing client ID", func(t *testing.T) {
		t.Parallel()
		c, err := oauth.NewTokenClient(oauth.TokenClientConfig{TokenURL: "https://idp.example/token"})
		require.ErrorIs(t, err, oauth.ErrMissingClientID)
		require.Nil(t, c)
	})
}

func TestTokenClient_Exchange(t *testing.T) {
	t.Parallel()

	newClient := func(t *testing.T, handler http.HandlerFunc, opts ...oauth.Option) *oauth.TokenClient {
		t.Helper()
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)

		c, err := oauth.NewTokenClient(oauth.TokenClientConfig{
			TokenURL:     srv.URL + "/token",
			ClientID:     "abc",
			ClientSecret: "shh",
			RedirectURL:  "https://app.example/cb",
			Scope:        "identify email",
		}, opts...)
		require.NoError(t, err)
		return c
	}

	t.Run("sends the form and decodes the token", func(t *testing.T) {
		t.Parallel()

		var form url.Values
		now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			require.Equal(t, oauth.DefaultUserAgent, r.Header.Get("User-Agent"))
			require.Equal(t, "yes", r.Header.Get("X-Custom"))
			require.NoError(t, r.ParseForm())
			form = r.PostForm

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600,"scope":"identify email","guild":{"id":"1"}}`))
		}, oauth.WithHeader("X-Custom", "yes"), oauth.WithClock(func() time.Time { return now }))

		tok, err := c.Exchange(context.Background(), "xyz", "verifier-123", nil)
		require.NoError(t, err)

		require.Equal(t, "abc", form.Get("client_id"))
		require.Equal(t, "shh", form.Get("client_secret"))
		require.Equal(t, "authorization_code", form.Get("grant_type"))
		require.Equal(t, "https://app.example/cb", form.Get("redirect_uri"))
		require.Equal(t, "identify email", form.Get("scope"))
		require.Equal(t, "xyz", form.Get("code"))
		require.Equal(t, "verifier-123", form.Get("code_verifier"))

		require.Equal(t, "at", tok.AccessToken)
		require.Equal(t, "rt", tok.RefreshToken)
		require.Equal(t, "Bearer", tok.TokenType)
		require.Equal(t, now.Add(time.Hour), tok.Expiry)
		require.NotNil(t, tok.Extra("guild"))
		require.Equal(t, "at", tok.OAuth2().AccessToken)
		require.NotNil(t, tok.OAuth2().Extra("guild"))
	})

	t.Run("omits code_verifier without PKCE and applies extras", func(t *testing.T) {
		t.Parallel()

		var form url.Values
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			form = r.PostForm
			_, _ = w.Write([]byte(`{"access_token":"at"}`))
		})

		tok, err := c.Exchange(context.Background(), "xyz", "", url.Values{
			"redirect_uri": {"https://other.example/cb"},
			"audience":     {"api"},
		})
		require.NoError(t, err)
		require.Equal(t, oauth.DefaultTokenType, tok.TokenType)
		require.True(t, tok.Expiry.IsZero())

		require.False(t, form.Has("code_verifier"))
		require.Equal(t, "https://other.example/cb", form.Get("redirect_uri"))
		require.Equal(t, "api", form.Get("audience"))
	})

	t.Run("decodes redirect responses without following them", func(t *testing.T) {
		t.Parallel()

		clients := map[string][]oauth.Option{
			"default client":  nil,
			"injected client": {oauth.WithHTTPClient(&http.Client{})},
		}
		for name, opts := range clients {
			for _, status := range []int{http.StatusCreated, http.StatusMovedPermanently, http.StatusFound} {
				var followed atomic.Int32
				c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
					if r.URL.Path == "/elsewhere" {
						followed.Add(1)
						http.NotFound(w, r)
						return
					}
					w.Header().Set("Location", "/elsewhere")
					w.WriteHeader(status)
					_, _ = w.Write([]byte(`{"access_token":"at"}`))
				}, opts...)

				tok, err := c.Exchange(context.Background(), "xyz", "", nil)
				require.NoError(t, err, "%s, status %d", name, status)
				require.Equal(t, "at", tok.AccessToken)
				require.Zero(t, followed.Load(), "%s followed the redirect", name)
			}
		}
	})

	t.Run("non-success status keeps status and body", func(t *testing.T) {
		t.Parallel()

		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid code"}`))
		})

		tok, err := c.Exchange(context.Background(), "xyz", "", nil)
		require.Nil(t, tok)

		var xerr *oauth.ExchangeError
		require.ErrorAs(t, err, &xerr)
		require.Equal(t, oauth.ReasonStatus, xerr.Reason)
		require.Equal(t, http.StatusBadRequest, xerr.Status)
		require.JSONEq(t, `{"error":"invalid_grant","error_description":"Invalid code"}`, string(xerr.Body))
		require.ErrorIs(t, err, oauth.ErrRequestFailed)
	})

	t.Run("undefined prefix stripped by default", func(t *testing.T) {
		t.Parallel()

		handler := func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`undefined{"access_token":"at","token_type":"Bearer"}`))
		}

		tok, err := newClient(t, handler).Exchange(context.Background(), "xyz", "", nil)
		require.NoError(t, err)
		require.Equal(t, "at", tok.AccessToken)

		strict := newClient(t, handler, oauth.WithLenientDecoding(false))
		_, err = strict.Exchange(context.Background(), "xyz", "", nil)
		require.True(t, oauth.IsExchangeError(err, oauth.ReasonDecode))
		require.ErrorIs(t, err, oauth.ErrDecodeFailed)
	})

	t.Run("error object with success status", func(t *testing.T) {
		t.Parallel()

		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
		})

		_, err := c.Exchange(context.Background(), "xyz", "", nil)
		require.ErrorIs(t, err, oauth.ErrMissingAccessToken)

		var terr *oauth.TokenError
		require.ErrorAs(t, oauth.ClassifyExchangeError("failed", err, false), &terr)
		require.Equal(t, "bad_verification_code", terr.Code)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		t.Cleanup(func() { close(release) })

		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}, oauth.WithTimeout(20*time.Millisecond))

		_, err := c.Exchange(context.Background(), "xyz", "", nil)
		require.True(t, oauth.IsExchangeError(err, oauth.ReasonTimeout))
		require.ErrorIs(t, err, oauth.ErrTimeout)
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls.Add(1) }))
		srv.Close()

		c, err := oauth.NewTokenClient(oauth.TokenClientConfig{TokenURL: srv.URL, ClientID: "abc"})
		require.NoError(t, err)

		_, err = c.Exchange(context.Background(), "xyz", "", nil)
		require.True(t, oauth.IsExchangeError(err, oauth.ReasonTransport))
		require.Zero(t, calls.Load())
	})
}
