// Package state issues and verifies the OAuth 2.0 state parameter and,
// optionally, the PKCE code verifier bound to it.
//
// A [Store] is one of three variants chosen at construction:
//
//   - KindNone: no state; Issue returns an empty value and Verify always passes
//   - KindSession: a random 32-character state per attempt
//   - KindPKCE: as KindSession plus a code verifier and challenge
//
// Attempts are kept in a [Storage] supplied per call, so a single Store can
// serve every request:
//
//	store, err := state.New(state.Config{
//	    Kind:   state.KindPKCE,
//	    Key:    "oauth2:discord.com",
//	    Method: state.PKCES256,
//	})
//
//	issued, err := store.Issue(ctx, state.NewSessionStorage(sess))
//	// redirect with issued.State and issued.Challenge
//
//	verified, err := store.Verify(ctx, state.NewSessionStorage(sess), r.URL.Query().Get("state"))
//	if state.IsVerificationError(err) {
//	    // reject with 403
//	}
//	// send verified.Verifier as code_verifier
//
// Every Verify call removes the stored attempt, so a state value can be
// checked only once. Values are compared in constant time and attempts older
// than Config.MaxAge are rejected with ReasonExpired.
//
// Storage implementations:
//
//   - SessionStorage: values map of a pkg/session Session
//   - CacheStorage: pkg/cache Cache (memory or Redis) namespaced per browser
//   - MapStorage: in-process map, mainly for tests
package state
