package oauth

import (
	"context"
	"net/url"
)

// ParamsFunc returns provider-specific parameters added to a request.
type ParamsFunc func(ctx context.Context) url.Values

// ProfileFetcher replaces the default single-request profile fetch.
// profileURL is the resolved profile endpoint: the configured one when set,
// otherwise the adapter's ProfileURL.
type ProfileFetcher func(ctx context.Context, rc *ResourceClient, profileURL string, tok *Token) (*Profile, error)

// Adapter carries the provider-specific data and overrides consumed by the
// engine. Nil function fields fall back to the engine defaults.
type Adapter struct {
	ExtraAuthorizeParams ParamsFunc
	ExtraTokenParams     ParamsFunc
	FetchProfile         ProfileFetcher
	Name                 string
	AuthorizeURL         string
	TokenURL             string
	ProfileURL           string
	ScopeSeparator       string
	Scopes               []string
	Identity             IdentityMapping

	// StrictDecoding turns off the "undefined" body prefix workaround.
	StrictDecoding bool
}

// OAuth2 returns a generic adapter for an arbitrary provider.
func OAuth2(name, authorizeURL, tokenURL, profileURL string, scopes ...string) Adapter {
	return Adapter{
		Name:         name,
		AuthorizeURL: authorizeURL,
		TokenURL:     tokenURL,
		ProfileURL:   profileURL,
		Scopes:       scopes,
		Identity:     DefaultIdentityMapping(),
	}
}

func scopesOrDefault(scopes, def []string) []string {
	if len(scopes) == 0 {
		return def
	}
	return scopes
}
