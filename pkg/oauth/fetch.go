package oauth

import (
	"context"
	"net/http"
)

// DefaultAuthMethod is the scheme used in header mode when none is configured.
const DefaultAuthMethod = "Bearer"

// ResourceClient performs authenticated GET requests against protected
// resources such as a user-info endpoint. It is safe for concurrent use.
type ResourceClient struct {
	opts       *options
	authMethod string
	useHeader  bool
}

// NewResourceClient creates a resource client.
//
// By default the Authorization header is "<token type> <access token>".
// With useAuthorizationHeader set it is "<authMethod> <access token>"
// instead; an empty authMethod means Bearer.
func NewResourceClient(useAuthorizationHeader bool, authMethod string, opts ...Option) *ResourceClient {
	if authMethod == "" {
		authMethod = DefaultAuthMethod
	}
	return &ResourceClient{
		opts:       newOptions(opts),
		useHeader:  useAuthorizationHeader,
		authMethod: authMethod,
	}
}

// Lenient reports whether bodies are decoded with the "undefined" prefix quirk.
func (c *ResourceClient) Lenient() bool { return c.opts.lenient }

// Get issues an authenticated GET and returns the raw body.
func (c *ResourceClient) Get(ctx context.Context, url string, tok *Token) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Reason: ReasonTransport, Err: err}
	}
	req.Header.Set("Authorization", c.authorization(tok))

	status, body, reason, err := c.opts.roundTrip(ctx, req)
	if err != nil {
		return nil, &FetchError{URL: url, Reason: reason, Status: status, Body: body, Err: err}
	}
	return body, nil
}

// Fetch retrieves url and decodes it as a profile owned by provider.
func (c *ResourceClient) Fetch(ctx context.Context, provider, url string, tok *Token) (*Profile, error) {
	body, err := c.Get(ctx, url, tok)
	if err != nil {
		return nil, err
	}
	profile, err := ParseProfile(provider, body, c.opts.lenient)
	if err != nil {
		return nil, &FetchError{URL: url, Reason: ReasonDecode, Body: body, Err: err}
	}
	return profile, nil
}

// FetchInto retrieves url and decodes it into v.
func (c *ResourceClient) FetchInto(ctx context.Context, url string, tok *Token, v any) error {
	body, err := c.Get(ctx, url, tok)
	if err != nil {
		return err
	}
	if err := Decode(body, c.opts.lenient, v); err != nil {
		return &FetchError{URL: url, Reason: ReasonDecode, Body: body, Err: err}
	}
	return nil
}

func (c *ResourceClient) authorization(tok *Token) string {
	if c.useHeader {
		return c.authMethod + " " + tok.AccessToken
	}
	return tok.AuthorizationHeader()
}
