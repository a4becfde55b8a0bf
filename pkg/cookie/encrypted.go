package cookie

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
)

// flash cookies live under this name prefix.
const flashPrefix = "flash_"

// SetEncrypted seals value with AES-GCM, using the cookie name as
// additional data so a sealed value cannot be replayed under another name.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, maxAge int) error {
	if m.keys == nil {
		return ErrNoSecret
	}
	nonce := make([]byte, m.keys.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	box := m.keys.aead.Seal(nonce, nonce, []byte(value), []byte(name))
	m.write(w, name, b64.EncodeToString(box), maxAge)
	return nil
}

// GetEncrypted opens a value written by SetEncrypted.
// Every failure past lookup is reported as ErrDecrypt.
func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	if m.keys == nil {
		return "", ErrNoSecret
	}
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	box, err := b64.DecodeString(raw)
	n := m.keys.aead.NonceSize()
	if err != nil || len(box) < n {
		return "", ErrDecrypt
	}
	plain, err := m.keys.aead.Open(nil, box[:n], box[n:], []byte(name))
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// SetFlash stores value as JSON in an encrypted session cookie that the
// next Flash call consumes.
func (m *Manager) SetFlash(w http.ResponseWriter, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return m.SetEncrypted(w, flashPrefix+key, string(data), 0)
}

// Flash decodes the pending flash value for key into dest and clears it.
// Returns ErrNotFound when nothing is pending.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	name := flashPrefix + key
	raw, err := m.GetEncrypted(r, name)
	if err != nil {
		return err
	}
	m.Delete(w, name)
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return errors.Join(ErrDecrypt, err)
	}
	return nil
}
