package oauth

import (
	"context"
	"net/url"
)

const (
	// DiscordProviderName is the identifier for the Discord adapter.
	DiscordProviderName = "discord"
	discordAuthorizeURL = "https://discord.com/api/oauth2/authorize"
	discordTokenURL     = "https://discord.com/api/oauth2/token"
	discordProfileURL   = "https://discord.com/api/v8/users/@me"
)

// DiscordDefaultScopes returns the default scopes for Discord.
func DiscordDefaultScopes() []string {
	return []string{"identify", "email"}
}

// Discord returns the Discord adapter.
func Discord(cfg DiscordConfig) Adapter {
	a := Adapter{
		Name:           DiscordProviderName,
		AuthorizeURL:   discordAuthorizeURL,
		TokenURL:       discordTokenURL,
		ProfileURL:     discordProfileURL,
		Scopes:         scopesOrDefault(cfg.Scopes, DiscordDefaultScopes()),
		ScopeSeparator: " ",
		Identity: IdentityMapping{
			ID:    []string{"id"},
			Name:  []string{"global_name", "username"},
			Email: []string{"email"},
		},
	}

	if cfg.Prompt != "" {
		prompt := cfg.Prompt
		a.ExtraAuthorizeParams = func(context.Context) url.Values {
			return url.Values{"prompt": {prompt}}
		}
	}

	return a
}
