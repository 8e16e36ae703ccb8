package httpclient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/OndrejVasicek/go-ppl-myapi/oauth2client"
)

// BearerTransport is an http.RoundTripper that resolves an access token via
// a TokenManager and attaches it as "Authorization: Bearer <token>" to every
// outgoing request. Token acquisition uses the request context, so it is
// bounded by the request's cancellation and deadline.
type BearerTransport struct {
	// Base is the underlying transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// TokenManager provides OAuth2 access tokens.
	TokenManager *oauth2client.TokenManager
}

// NewBearerTransport creates a BearerTransport around base. A nil base
// defaults to http.DefaultTransport.
func NewBearerTransport(tm *oauth2client.TokenManager, base http.RoundTripper) *BearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &BearerTransport{Base: base, TokenManager: tm}
}

// RoundTrip implements http.RoundTripper. The request is cloned before the
// Authorization header is set, leaving the caller's request untouched.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.TokenManager == nil {
		return nil, errors.New("httpclient: TokenManager is nil")
	}

	token, err := t.TokenManager.GetTokenWithContext(req.Context())
	if err != nil {
		return nil, fmt.Errorf("httpclient: failed to get token: %w", err)
	}

	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(authed)
}
