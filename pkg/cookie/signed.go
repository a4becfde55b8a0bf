package cookie

import (
	"crypto/hmac"
	"encoding/base64"
	"net/http"
	"strings"
)

var b64 = base64.RawURLEncoding

// SetSigned writes value in the clear next to an HMAC-SHA256 tag bound to
// the cookie name. The wire form is base64url(value) "." base64url(tag).
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge int) error {
	if m.keys == nil {
		return ErrNoSecret
	}
	tag := m.keys.mac(name, []byte(value))
	m.write(w, name, b64.EncodeToString([]byte(value))+"."+b64.EncodeToString(tag), maxAge)
	return nil
}

// GetSigned returns a value written by SetSigned, or ErrBadSig when the
// cookie was altered, renamed or signed with another secret.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if m.keys == nil {
		return "", ErrNoSecret
	}
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	payload, tag, found := strings.Cut(raw, ".")
	if !found {
		return "", ErrBadSig
	}
	value, verr := b64.DecodeString(payload)
	got, terr := b64.DecodeString(tag)
	if verr != nil || terr != nil {
		return "", ErrBadSig
	}
	if !hmac.Equal(got, m.keys.mac(name, value)) {
		return "", ErrBadSig
	}
	return string(value), nil
}
