package ppl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/OndrejVasicek/go-ppl-myapi/httpclient"
	"github.com/OndrejVasicek/go-ppl-myapi/oauth2client"
	"github.com/OndrejVasicek/go-ppl-myapi/tokenstore"
)

// ContentType is the media type PPL myAPI2 expects on JSON request bodies.
const ContentType = "application/json-patch+json"

// DefaultScopes is the OAuth2 scope requested during the token exchange.
const DefaultScopes = "myapi2"

// Config holds the construction-time settings of a Client. ClientID and
// ClientSecret are required; everything else has working defaults.
type Config struct {
	// ClientID and ClientSecret are the myAPI2 credentials issued by PPL.
	ClientID     string
	ClientSecret string

	// Production selects the production deployment; the default is the
	// test deployment.
	Production bool

	// Environment overrides the endpoint pair entirely. Intended for tests
	// and for pointing the client at a proxy; takes precedence over
	// Production when set.
	Environment *Environment

	// TokenStore persists tokens across processes. Defaults to no
	// persistence (every process performs its own exchange).
	TokenStore tokenstore.Store

	// CacheNamespace is the token store key. Defaults to
	// "ppl:<environment>:<client id>" so clients with different
	// credentials or environments never share a token.
	CacheNamespace string

	// Timeout bounds every request including the body read.
	// Defaults to httpclient.DefaultTimeout.
	Timeout time.Duration

	// Logger receives token refresh events when set.
	Logger oauth2client.Logger
}

// Client is an authenticated PPL myAPI2 client. All request paths are
// relative to the environment's base URL; the bearer token is attached by
// the transport, which refreshes it as needed.
type Client struct {
	env    Environment
	http   *http.Client
	tokens *oauth2client.TokenManager
}

// NewClient creates a Client for the configured environment.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("ppl: client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("ppl: client secret is required")
	}

	env := Testing
	if cfg.Production {
		env = Production
	}
	if cfg.Environment != nil {
		env = *cfg.Environment
	}
	if !strings.HasSuffix(env.BaseURL, "/") {
		env.BaseURL += "/"
	}

	namespace := cfg.CacheNamespace
	if namespace == "" {
		// Colon separators keep the key safe as a file name in keyring
		// file backends.
		namespace = fmt.Sprintf("ppl:%s:%s", env.Name, cfg.ClientID)
	}

	tmOpts := []oauth2client.Option{
		oauth2client.WithCacheKey(namespace),
	}
	if cfg.TokenStore != nil {
		tmOpts = append(tmOpts, oauth2client.WithTokenStore(cfg.TokenStore))
	}
	if cfg.Logger != nil {
		tmOpts = append(tmOpts, oauth2client.WithLogger(cfg.Logger))
	}

	tokens := oauth2client.NewTokenManager(ctx, env.TokenURL, cfg.ClientID, cfg.ClientSecret, DefaultScopes, tmOpts...)

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = httpclient.DefaultTimeout
	}

	// The batch endpoints answer 201 with a Location header; following it
	// would turn the create response into the poll response.
	client, err := httpclient.NewBuilder().
		WithTokenManager(tokens).
		WithTimeout(timeout).
		WithoutRedirects().
		Build()
	if err != nil {
		return nil, fmt.Errorf("ppl: build HTTP client: %w", err)
	}

	return &Client{
		env:    env,
		http:   client,
		tokens: tokens,
	}, nil
}

// Environment returns the endpoint pair this client talks to.
func (c *Client) Environment() Environment {
	return c.env
}

// AccessToken returns a currently valid access token, fetching or refreshing
// one if necessary.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	return c.tokens.GetTokenWithContext(ctx)
}

// Do sends an authenticated request for the given relative path. When body
// is non-nil it is JSON-encoded and sent with the PPL content type. The raw
// response is returned without status interpretation; transport errors
// propagate unmodified. The caller owns the response body.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ppl: encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.absoluteURL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("ppl: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", ContentType)
	}

	return c.http.Do(req)
}

// DoJSON sends an authenticated request and decodes the JSON response body
// into out. A missing or undecodable body leaves out untouched and returns
// nil; informational calls degrade to an empty result rather than failing.
// Status codes are not interpreted.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ppl: read response body: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	// Decode failures are deliberate no-ops; see package doc.
	_ = json.Unmarshal(data, out)
	return nil
}

// Header returns the named response header. Location values are relativized
// against the environment base URL so they can be fed back into Do.
func (c *Client) Header(resp *http.Response, name string) string {
	value := resp.Header.Get(name)
	if strings.EqualFold(name, "Location") {
		return c.RelativizeURL(value)
	}
	return value
}

// Location returns the relativized Location response header.
func (c *Client) Location(resp *http.Response) string {
	return c.Header(resp, "Location")
}

// RelativizeURL strips the environment's API base URL prefix from absolute,
// yielding a path usable for subsequent relative requests. URLs outside the
// base are returned unchanged.
func (c *Client) RelativizeURL(absolute string) string {
	if strings.HasPrefix(absolute, c.env.BaseURL) {
		return absolute[len(c.env.BaseURL):]
	}
	return absolute
}

// absoluteURL joins the base URL with a relative path. Absolute URLs under
// the base are accepted as-is so relativized Location values round-trip.
func (c *Client) absoluteURL(path string) string {
	if strings.HasPrefix(path, c.env.BaseURL) {
		return path
	}
	return c.env.BaseURL + strings.TrimPrefix(path, "/")
}
