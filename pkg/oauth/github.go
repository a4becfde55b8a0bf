package oauth

import (
	"context"
	"strings"

	"golang.org/x/oauth2/endpoints"
)

const (
	// GitHubProviderName is the identifier for the GitHub adapter.
	GitHubProviderName = "github"
	githubUserURL      = "https://api.github.com/user"
)

// GitHubDefaultScopes returns the default scopes for GitHub OAuth.
func GitHubDefaultScopes() []string {
	return []string{"read:user", "user:email"}
}

// GitHub returns the GitHub adapter. Its profile fetch also queries the
// emails endpoint, "/emails" under the profile URL, and stores the primary
// verified address under "email". A custom profile URL such as
// "https://github.example.com/api/v3/user" therefore serves GitHub Enterprise.
// Returns ErrEmailNotVerified from the fetch when no verified email exists,
// unless AllowUnverifiedEmail is set.
func GitHub(cfg GitHubConfig) Adapter {
	return Adapter{
		Name:           GitHubProviderName,
		AuthorizeURL:   endpoints.GitHub.AuthURL,
		TokenURL:       endpoints.GitHub.TokenURL,
		ProfileURL:     githubUserURL,
		Scopes:         scopesOrDefault(cfg.Scopes, GitHubDefaultScopes()),
		ScopeSeparator: " ",
		Identity: IdentityMapping{
			ID:      []string{"id"},
			Name:    []string{"name", "login"},
			Email:   []string{"email"},
			Picture: []string{"avatar_url"},
		},
		FetchProfile: githubProfileFetcher(cfg.AllowUnverifiedEmail),
	}
}

func githubProfileFetcher(allowUnverified bool) ProfileFetcher {
	return func(ctx context.Context, rc *ResourceClient, profileURL string, tok *Token) (*Profile, error) {
		if profileURL == "" {
			profileURL = githubUserURL
		}
		profile, err := rc.Fetch(ctx, GitHubProviderName, profileURL, tok)
		if err != nil {
			return nil, err
		}

		var emails []githubEmail
		emailsURL := strings.TrimSuffix(profileURL, "/") + "/emails"
		if err := rc.FetchInto(ctx, emailsURL, tok, &emails); err != nil {
			return nil, err
		}

		email := primaryVerifiedEmail(emails)
		if email == "" {
			if !allowUnverified {
				return nil, ErrEmailNotVerified
			}
			return profile, nil
		}

		return profile.With("email", email)
	}
}

func primaryVerifiedEmail(emails []githubEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	return ""
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}
