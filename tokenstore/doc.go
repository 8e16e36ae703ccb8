// Package tokenstore provides pluggable persistence for serialized OAuth2 tokens.
//
// The Store interface is a minimal get/set/delete capability with per-entry TTL.
// It is consumed by oauth2client.TokenManager so a token obtained by one process
// can be reused by another before it expires.
//
// # Implementations
//
//   - Noop: default when no external cache is configured; every read misses
//   - Memory: mutex-guarded in-process map with lazy TTL eviction
//   - Keyring: OS keyring (via 99designs/keyring) with an encrypted file
//     fallback for headless Linux; used by the ppl CLI
//
// All implementations report an expired or absent entry the same way: Get
// returns (nil, nil). Callers therefore cannot, and should not, distinguish a
// cache miss from an evicted entry.
package tokenstore
