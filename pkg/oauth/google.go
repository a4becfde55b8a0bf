package oauth

import (
	"context"
	"net/url"

	"golang.org/x/oauth2/endpoints"
)

const (
	// GoogleProviderName is the identifier for the Google adapter.
	GoogleProviderName = "google"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleDefaultScopes returns the default scopes for Google OAuth.
func GoogleDefaultScopes() []string {
	return []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	}
}

// Google returns the Google adapter. AccessType and Prompt are forwarded as
// access_type and prompt on the authorization redirect. The profile fetch
// fails with ErrEmailNotVerified when Google reports an unverified email.
func Google(cfg GoogleConfig) Adapter {
	a := Adapter{
		Name:           GoogleProviderName,
		AuthorizeURL:   endpoints.Google.AuthURL,
		TokenURL:       endpoints.Google.TokenURL,
		ProfileURL:     googleUserInfoURL,
		Scopes:         scopesOrDefault(cfg.Scopes, GoogleDefaultScopes()),
		ScopeSeparator: " ",
		Identity:       DefaultIdentityMapping(),
		FetchProfile:   fetchGoogleProfile,
	}

	params := url.Values{}
	if cfg.AccessType != "" {
		params.Set("access_type", cfg.AccessType)
	}
	if cfg.Prompt != "" {
		params.Set("prompt", cfg.Prompt)
	}
	if len(params) > 0 {
		a.ExtraAuthorizeParams = func(context.Context) url.Values {
			return cloneValues(params)
		}
	}

	return a
}

func fetchGoogleProfile(ctx context.Context, rc *ResourceClient, profileURL string, tok *Token) (*Profile, error) {
	if profileURL == "" {
		profileURL = googleUserInfoURL
	}
	profile, err := rc.Fetch(ctx, GoogleProviderName, profileURL, tok)
	if err != nil {
		return nil, err
	}
	if !profile.Lookup("verified_email").Bool() {
		return nil, ErrEmailNotVerified
	}
	return profile, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
