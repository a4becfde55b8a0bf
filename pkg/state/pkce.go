package state

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// PKCEMethod is a code_challenge_method value.
type PKCEMethod string

const (
	PKCENone  PKCEMethod = ""
	PKCEPlain PKCEMethod = "plain"
	PKCES256  PKCEMethod = "S256"
)

// ParsePKCEMethod accepts "", "none", "plain" and "S256".
func ParsePKCEMethod(s string) (PKCEMethod, error) {
	switch s {
	case "", "none", "false":
		return PKCENone, nil
	case string(PKCEPlain):
		return PKCEPlain, nil
	case string(PKCES256):
		return PKCES256, nil
	default:
		return PKCENone, errors.Join(ErrUnsupportedMethod, fmt.Errorf("method %q", s))
	}
}

// NewVerifier returns a random 43-character code verifier.
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// Challenge derives the code challenge for verifier.
// plain returns the verifier; S256 returns base64url-no-padding(SHA-256(verifier)).
func Challenge(verifier string, method PKCEMethod) (string, error) {
	switch method {
	case PKCEPlain:
		return verifier, nil
	case PKCES256:
		return oauth2.S256ChallengeFromVerifier(verifier), nil
	default:
		return "", errors.Join(ErrUnsupportedMethod, fmt.Errorf("method %q", method))
	}
}
