// Package internal implements the authorization-code flow engine and its
// HTTP host.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/ambassador" instead, which re-exports the public API.
//
// # Flow
//
// Engine.Authenticate inspects the request and takes one step:
//
//   - no code and no error: issue state, redirect to the provider
//   - error=access_denied: Fail with 403
//   - any other error: Error with *oauth.AuthorizationError
//   - code: verify state (Fail with 403 on mismatch, before any network
//     call), exchange the code, fetch the profile and run the verify callback
//
// Every call ends in exactly one Host method. Panics from callbacks are
// recovered and reported through Host.Error.
//
// # HTTP
//
// Handler implements Host over net/http. A per-browser cookie names the
// attempt storage, so one cache.Cache[state.Record] (memory or Redis) serves
// all users:
//
//	records := cache.NewMemory[state.Record]()
//	h := internal.NewHandler(engine, records,
//	    internal.WithSuccessHandler(onLogin),
//	    internal.WithFailureRedirect("/login"),
//	)
//	r.Mount("/auth/discord", h.Routes())
package internal
