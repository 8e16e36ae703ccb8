// Package oauth2client manages OAuth2 client-credentials tokens for the PPL myAPI client.
//
// TokenManager resolves a valid access token in three steps: the in-memory token,
// an optional external token store (see package tokenstore), and finally a fresh
// client-credentials exchange. Fresh tokens are written back to the store with a
// TTL shortened by the expiry leeway, so a token that would expire within the
// buffer window is never cached. Token fetches honor contexts, are thread-safe,
// and can log refresh events via an optional Logger.
//
// # Features
//
//   - Client-credentials flow with in-memory reuse and early refresh (10s leeway)
//   - Pluggable token store so tokens survive process restarts
//   - Context-aware fetching with cancellation and deadline support
//   - gRPC unary and stream client interceptors that inject Bearer tokens
//   - Optional logging (WithLogger, WithLoggingEnabled)
//
// # Quick Start
//
//	tm := oauth2client.NewTokenManager(
//	    ctx,
//	    "https://api.dhl.com/ecs/ppl/myapi2/login/getAccessToken",
//	    "client-id",
//	    "client-secret",
//	    "myapi2",
//	    oauth2client.WithTokenStore(tokenstore.NewMemory()),
//	    oauth2client.WithCacheKey("ppl:production:client-id"),
//	)
//
//	token, err := tm.GetTokenWithContext(ctx)
//
// # Notes
//
//   - Exchange failures propagate to the caller; there is no retry logic.
//   - Store read/write failures are indistinguishable from a cache miss.
package oauth2client
