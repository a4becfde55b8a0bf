// Package ambassador implements the client side of the OAuth 2.0
// authorization-code flow: redirect to the provider, callback, CSRF state
// and PKCE verification, code-for-token exchange, profile fetch and an
// application verify callback.
//
// One Engine serves one provider. Provider differences live in an
// [Adapter] (see package oauth for Discord, GitHub, Google and a generic
// adapter), so the flow itself is never duplicated.
//
// # Quick Start
//
//	cfg, err := ambassador.LoadConfig("DISCORD_OAUTH_")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine, err := ambassador.New(cfg,
//	    ambassador.WithAdapter(oauth.Discord(oauth.DiscordConfig{})),
//	    ambassador.WithVerify(verifyUser),
//	    ambassador.WithLogger(logger.New(logger.Config{}, ambassador.AttemptIDExtractor())),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	h := ambassador.NewHandler(engine, cache.NewMemory[ambassador.Record](),
//	    ambassador.WithSuccessRedirect("/"),
//	    ambassador.WithFailureRedirect("/login"),
//	)
//
//	r := chi.NewRouter()
//	r.Mount("/auth/discord", h.Routes())
//
// # Outcomes
//
// Every Authenticate call ends in exactly one [Host] method:
//
//   - Redirect: no code and no error in the request
//   - Fail(reason, 403): the user denied consent or the state check failed
//   - Fail(message, 401): the verify callback returned no user
//   - Success(user, info): the verify callback accepted the user
//   - Error(err): anything else, typically *oauth.AuthorizationError,
//     *oauth.TokenError or *oauth.InternalError
//
// State verification failures never reach the token endpoint.
//
// # Configuration
//
// Config violations, such as PKCE without state or a missing verify
// callback, are reported by New. Config fields carry env tags read by
// LoadConfig:
//
//	DISCORD_OAUTH_CLIENT_ID=...
//	DISCORD_OAUTH_CLIENT_SECRET=...
//	DISCORD_OAUTH_CALLBACK_URL=/auth/discord/callback
//	DISCORD_OAUTH_PKCE=S256
//
// # Storage
//
// Pending attempts live in a [Storage]. The HTTP handler keys them by a
// per-browser cookie in a cache.Cache[Record], which may be in memory or in
// Redis for multi-instance deployments:
//
//	client := redis.MustOpen(ctx, redis.Config{URL: os.Getenv("REDIS_URL")})
//	records := cache.NewRedis[ambassador.Record](client, nil, cache.WithPrefix("oauth"))
package ambassador
