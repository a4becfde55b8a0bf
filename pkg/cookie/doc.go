// Package cookie provides HTTP cookie management with optional signing and
// encryption. The HTTP handler uses it to bind a browser to its pending
// authentication attempts and to carry failure messages across redirects.
//
// Plain cookies work without a secret:
//
//	m := cookie.New()
//	m.Set(w, "theme", "dark", 86400)
//	value, err := m.Get(r, "theme")
//
// Signed cookies detect tampering with HMAC-SHA256, encrypted cookies are
// sealed with AES-GCM. Both need a secret of at least 32 bytes and return
// [ErrNoSecret] without one:
//
//	m := cookie.New(cookie.WithSecret(os.Getenv("COOKIE_SECRET")), cookie.WithSecure(true))
//	if err := m.SetSigned(w, "__ambassador", attemptID, 600); err != nil {
//		return err
//	}
//	attemptID, err := m.GetSigned(r, "__ambassador")
//
// Flash values are encrypted, JSON-encoded and deleted on first read:
//
//	_ = m.SetFlash(w, "auth", "Invalid authorization request state.")
//	var msg string
//	err := m.Flash(w, r, "auth", &msg)
package cookie
