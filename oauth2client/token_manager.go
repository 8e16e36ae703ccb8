package oauth2client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/OndrejVasicek/go-ppl-myapi/tokenstore"
)

// DefaultExpiryLeeway is the safety buffer subtracted from a token's expiry.
// A token is only handed out if it survives at least this long, covering
// clock skew and the latency until the token reaches the API.
const DefaultExpiryLeeway = 10 * time.Second

// DefaultCacheKey is the key used in the token store when no namespace is
// configured via WithCacheKey.
const DefaultCacheKey = "oauth2client:token"

// Logger is an interface for optional logging in TokenManager.
// Implementations can log token refresh events if desired.
type Logger interface {
	Printf(format string, args ...any)
}

// TokenManager obtains and reuses OAuth2 client-credentials tokens.
//
// A valid token is looked up in memory first, then in the configured token
// store, and only then fetched from the token endpoint. Freshly fetched
// tokens are written back to the store so other processes can reuse them.
// TokenManager is safe for concurrent use.
type TokenManager struct {
	config       *clientcredentials.Config
	token        *oauth2.Token
	mu           sync.RWMutex
	ctx          context.Context // fallback context for GetToken
	expiryLeeway time.Duration
	store        tokenstore.Store
	cacheKey     string
	logger       Logger // optional
}

// Option is a functional option for configuring TokenManager.
type Option func(*TokenManager)

// WithLogger sets a custom logger for token refresh events.
// If not set, no logging will occur.
func WithLogger(logger Logger) Option {
	return func(tm *TokenManager) {
		tm.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
// This is a convenience option that sets the logger to log.Default().
func WithLoggingEnabled() Option {
	return func(tm *TokenManager) {
		tm.logger = log.Default()
	}
}

// WithExpiryLeeway overrides the default 10 second expiry buffer.
func WithExpiryLeeway(leeway time.Duration) Option {
	return func(tm *TokenManager) {
		tm.expiryLeeway = leeway
	}
}

// WithTokenStore configures an external store consulted after the in-memory
// token and written to after every fresh exchange. Without it, tokens live
// only in this process.
func WithTokenStore(store tokenstore.Store) Option {
	return func(tm *TokenManager) {
		if store != nil {
			tm.store = store
		}
	}
}

// WithCacheKey sets the namespace under which tokens are stored.
// Managers sharing a store must use distinct keys per credential pair.
func WithCacheKey(key string) Option {
	return func(tm *TokenManager) {
		if key != "" {
			tm.cacheKey = key
		}
	}
}

// NewTokenManager creates a new OAuth2 token manager using the client
// credentials flow.
//
// Parameters:
//   - ctx: Context for token requests (used as fallback by GetToken)
//   - tokenURL: OAuth2 token endpoint (e.g., "https://api.dhl.com/ecs/ppl/myapi2/login/getAccessToken")
//   - clientID: OAuth2 client identifier
//   - clientSecret: OAuth2 client secret
//   - scopes: Space-separated list of OAuth2 scopes (e.g., "myapi2")
//   - opts: Optional configuration (WithTokenStore, WithCacheKey, WithLogger, ...)
func NewTokenManager(ctx context.Context, tokenURL, clientID, clientSecret, scopes string, opts ...Option) *TokenManager {
	// Keep token requests independent from caller cancellations while
	// preserving values such as a custom oauth2.HTTPClient.
	if ctx == nil {
		ctx = context.Background()
	} else {
		ctx = context.WithoutCancel(ctx)
	}

	tm := &TokenManager{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       strings.Fields(scopes),
		},
		ctx:          ctx,
		expiryLeeway: DefaultExpiryLeeway,
		store:        tokenstore.Noop{},
		cacheKey:     DefaultCacheKey,
	}

	for _, opt := range opts {
		opt(tm)
	}

	return tm
}

// GetTokenWithContext returns a valid access token, consulting memory, then
// the token store, and finally performing a fresh client-credentials exchange.
// Exchange failures propagate to the caller; store failures degrade to a miss.
//
// The method is thread-safe and uses double-checked locking so concurrent
// callers trigger at most one exchange.
func (tm *TokenManager) GetTokenWithContext(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Fast path: a usable in-memory token needs no write lock.
	tm.mu.RLock()
	if tm.usable(tm.token) {
		token := tm.token.AccessToken
		tm.mu.RUnlock()
		return token, nil
	}
	tm.mu.RUnlock()

	tm.mu.Lock()
	defer tm.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if tm.usable(tm.token) {
		return tm.token.AccessToken, nil
	}

	if cached := tm.loadStored(ctx); cached != nil {
		tm.token = cached
		return cached.AccessToken, nil
	}

	token, err := tm.config.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("oauth2client: token exchange failed: %w", err)
	}
	deriveExpiry(token)

	tm.writeStored(ctx, token)
	tm.token = token

	if tm.logger != nil {
		tm.logger.Printf("oauth2client: obtained new access token (expires: %s)", token.Expiry.Format(time.RFC3339))
	}

	return token.AccessToken, nil
}

// GetToken returns a valid access token using the constructor context.
// Prefer GetTokenWithContext to honor caller cancellation and deadlines.
func (tm *TokenManager) GetToken() (string, error) {
	return tm.GetTokenWithContext(tm.ctx)
}

// Invalidate drops the in-memory token and removes the stored copy, forcing
// the next call to perform a fresh exchange.
func (tm *TokenManager) Invalidate(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.token = nil
	_ = tm.store.Delete(ctx, tm.cacheKey)
}

// usable reports whether token survives the leeway window. Tokens without a
// known expiry never expire, matching x/oauth2 semantics.
func (tm *TokenManager) usable(token *oauth2.Token) bool {
	if token == nil || token.AccessToken == "" {
		return false
	}
	if token.Expiry.IsZero() {
		return true
	}
	return time.Until(token.Expiry) > tm.expiryLeeway
}

// storedToken is the serialized form written to the token store.
type storedToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type,omitempty"`
	Expiry      time.Time `json:"expiry"`
}

// loadStored reads the stored token and returns it when still usable.
// Any store error or undecodable entry counts as a miss.
func (tm *TokenManager) loadStored(ctx context.Context) *oauth2.Token {
	data, err := tm.store.Get(ctx, tm.cacheKey)
	if err != nil {
		if tm.logger != nil {
			tm.logger.Printf("oauth2client: token store read failed: %v", err)
		}
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var stored storedToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil
	}

	token := &oauth2.Token{
		AccessToken: stored.AccessToken,
		TokenType:   stored.TokenType,
		Expiry:      stored.Expiry,
	}
	if !tm.usable(token) {
		return nil
	}
	return token
}

// writeStored persists token with TTL = expiry - now - leeway. Tokens already
// inside the leeway window, or without a known expiry, are not stored.
func (tm *TokenManager) writeStored(ctx context.Context, token *oauth2.Token) {
	if token.Expiry.IsZero() {
		return
	}

	ttl := time.Until(token.Expiry) - tm.expiryLeeway
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(storedToken{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		Expiry:      token.Expiry,
	})
	if err != nil {
		return
	}

	if err := tm.store.Set(ctx, tm.cacheKey, data, ttl); err != nil && tm.logger != nil {
		tm.logger.Printf("oauth2client: token store write failed: %v", err)
	}
}

// deriveExpiry fills in a missing expiry from the access token's "exp" claim
// when the token happens to be a JWT. Endpoints that omit expires_in
// otherwise yield tokens that never refresh.
func deriveExpiry(token *oauth2.Token) {
	if !token.Expiry.IsZero() {
		return
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token.AccessToken, claims); err != nil {
		return
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	token.Expiry = exp.Time
}
