// Package oauth provides the provider-facing pieces of the OAuth 2.0
// authorization-code flow: the token exchange client, the protected-resource
// client, response decoding, the error taxonomy and provider adapters.
//
// # Features
//
//   - TokenClient posts the authorization code as a form and decodes the token
//   - ResourceClient fetches user profiles with the access token
//   - Tolerance for bodies prefixed with a literal "undefined" token, on by default
//   - AuthorizationError, TokenError and InternalError with status hints
//   - Adapters for Discord, GitHub, Google and generic providers
//   - Profile path queries through gjson and configurable identity mapping
//   - Sentinel errors with "oauth:" prefix for consistent error handling
//
// # Usage
//
// Exchanging a code and fetching the profile:
//
//	tokens, err := oauth.NewTokenClient(oauth.TokenClientConfig{
//		TokenURL:     "https://discord.com/api/oauth2/token",
//		ClientID:     os.Getenv("DISCORD_CLIENT_ID"),
//		ClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
//		RedirectURL:  "https://example.com/auth/discord/callback",
//		Scope:        "identify email",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	tok, err := tokens.Exchange(ctx, code, "", nil)
//	if err != nil {
//		return oauth.ClassifyExchangeError("failed to obtain access token", err, true)
//	}
//
//	rc := oauth.NewResourceClient(false, "")
//	profile, err := rc.Fetch(ctx, "discord", "https://discord.com/api/v8/users/@me", tok)
//
// # Adapters
//
// An Adapter bundles provider endpoints, default scopes and optional
// overrides. The engine in the root package consumes it:
//
//	a := oauth.GitHub(oauth.GitHubConfig{})
//	a.FetchProfile // resolves the primary verified email under the profile URL
//
// # Errors
//
// Request failures are *ExchangeError or *FetchError and carry a Reason
// (status, timeout, transport, decode), the provider status and raw body.
// ClassifyExchangeError turns an exchange failure into the error reported to
// the application.
//
// Sentinel errors:
//
//   - ErrMissingClientID: client ID not provided
//   - ErrMissingTokenURL: token endpoint not provided
//   - ErrEmailNotVerified: provider reports unverified email
//   - ErrRequestFailed: provider returned an unexpected status
//   - ErrDecodeFailed: failed to decode provider response
//   - ErrMissingAccessToken: token response without access_token
//   - ErrTimeout: provider request exceeded its deadline
package oauth
