package oauth

import (
	"encoding/json"
	"errors"
	"maps"

	"github.com/tidwall/gjson"
)

// ProtocolOAuth2 tags profiles produced by this package.
const ProtocolOAuth2 = "oauth2"

// Profile is the decoded user-info document of a provider.
// It is immutable once returned; use With to derive a modified copy.
type Profile struct {
	fields   map[string]any
	raw      []byte
	Provider string
	Protocol string
}

// NewProfile builds a profile from a decoded field map.
func NewProfile(provider string, fields map[string]any) (*Profile, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, errors.Join(ErrDecodeFailed, err)
	}
	return &Profile{Provider: provider, Protocol: ProtocolOAuth2, fields: fields, raw: raw}, nil
}

// ParseProfile decodes a provider body into a profile.
func ParseProfile(provider string, body []byte, lenient bool) (*Profile, error) {
	fields, err := DecodeObject(body, lenient)
	if err != nil {
		return nil, err
	}
	if lenient {
		body = TrimUndefinedPrefix(body)
	}
	return &Profile{Provider: provider, Protocol: ProtocolOAuth2, fields: fields, raw: body}, nil
}

// Fields returns a copy of the top-level fields.
func (p *Profile) Fields() map[string]any {
	return maps.Clone(p.fields)
}

// Get returns a top-level field.
func (p *Profile) Get(key string) (any, bool) {
	v, ok := p.fields[key]
	return v, ok
}

// Lookup queries the profile with a gjson path such as "user.emails.0.value".
func (p *Profile) Lookup(path string) gjson.Result {
	return gjson.GetBytes(p.raw, path)
}

// String returns the string form of the first path that resolves to a
// non-empty value.
func (p *Profile) String(paths ...string) string {
	for _, path := range paths {
		if r := p.Lookup(path); r.Exists() && r.Type != gjson.Null {
			if s := r.String(); s != "" {
				return s
			}
		}
	}
	return ""
}

// With returns a copy of the profile with key set to value.
func (p *Profile) With(key string, value any) (*Profile, error) {
	fields := maps.Clone(p.fields)
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields[key] = value
	return NewProfile(p.Provider, fields)
}

// JSON returns the raw JSON document.
func (p *Profile) JSON() []byte {
	return append([]byte(nil), p.raw...)
}

// MarshalJSON encodes the profile fields.
func (p *Profile) MarshalJSON() ([]byte, error) {
	return p.JSON(), nil
}

// Identity is the provider-agnostic view of a profile.
type Identity struct {
	ID      string
	Name    string
	Email   string
	Picture string
}

// IdentityMapping lists candidate gjson paths per identity attribute.
// The first path with a non-empty value wins.
type IdentityMapping struct {
	ID      []string
	Name    []string
	Email   []string
	Picture []string
}

// DefaultIdentityMapping covers OpenID Connect claims and common provider fields.
func DefaultIdentityMapping() IdentityMapping {
	return IdentityMapping{
		ID:      []string{"sub", "id"},
		Name:    []string{"name", "username", "login"},
		Email:   []string{"email"},
		Picture: []string{"picture", "avatar_url"},
	}
}

// Identity resolves the identity attributes of the profile with m.
func (p *Profile) Identity(m IdentityMapping) Identity {
	return Identity{
		ID:      p.String(m.ID...),
		Name:    p.String(m.Name...),
		Email:   p.String(m.Email...),
		Picture: p.String(m.Picture...),
	}
}
