package oauth

import (
	"encoding/json"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTokenType is used when a token response omits token_type.
const DefaultTokenType = "Bearer"

// Token is the decoded result of an authorization-code exchange.
type Token struct {
	Expiry       time.Time
	Raw          map[string]any
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
}

// NewToken builds a Token from decoded token-endpoint parameters.
// It returns ErrMissingAccessToken when access_token is absent.
func NewToken(params map[string]any, now time.Time) (*Token, error) {
	access := stringField(params, "access_token")
	if access == "" {
		return nil, ErrMissingAccessToken
	}

	tok := &Token{
		AccessToken:  access,
		RefreshToken: stringField(params, "refresh_token"),
		TokenType:    stringField(params, "token_type"),
		Scope:        stringField(params, "scope"),
		Raw:          params,
	}
	if tok.TokenType == "" {
		tok.TokenType = DefaultTokenType
	}
	if secs := intField(params, "expires_in"); secs > 0 {
		tok.Expiry = now.Add(time.Duration(secs) * time.Second)
	}

	return tok, nil
}

// AuthorizationHeader returns the "<type> <token>" header value.
func (t *Token) AuthorizationHeader() string {
	return t.TokenType + " " + t.AccessToken
}

// Extra returns a raw token parameter by name.
func (t *Token) Extra(key string) any {
	if t.Raw == nil {
		return nil
	}
	return t.Raw[key]
}

// OAuth2 converts the token into a golang.org/x/oauth2 token so callers can
// build authenticated clients with oauth2.Config.Client or StaticTokenSource.
func (t *Token) OAuth2() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
	return tok.WithExtra(t.Raw)
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func intField(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0
			}
			return int64(f)
		}
		return n
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}
