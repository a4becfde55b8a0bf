package state

import "time"

// Record is one authentication attempt, created on redirect and consumed
// exactly once on callback.
type Record struct {
	IssuedAt  time.Time  `json:"issued_at"`
	ID        string     `json:"id"`
	State     string     `json:"state"`
	Verifier  string     `json:"verifier,omitempty"`
	Challenge string     `json:"challenge,omitempty"`
	Method    PKCEMethod `json:"method,omitempty"`
}

// Issued is what the engine needs to build the authorization redirect.
type Issued struct {
	ID        string
	State     string
	Challenge string
	Method    PKCEMethod
}

// Verified is the outcome of a successful state check.
type Verified struct {
	IssuedAt time.Time
	ID       string
	// Verifier is the PKCE code verifier to send with the token request.
	Verifier string
}
