package tokenstore

import (
	"context"
	"time"
)

// Store persists small opaque blobs (serialized tokens) under string keys with
// an optional time-to-live. Implementations must treat an expired or missing
// entry identically: Get returns (nil, nil).
//
// A Store is a capability supplied by the host application; this package ships
// a no-op default, an in-process store, and an OS keyring store.
type Store interface {
	// Get returns the value stored under key, or (nil, nil) when the key is
	// absent or its TTL has elapsed.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A ttl greater than zero bounds the entry's
	// lifetime; a ttl of zero or less stores the entry without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the entry for key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Noop is a Store that never holds anything. It is the default collaborator
// when no external cache is configured: every Get is a miss and every Set is
// discarded.
type Noop struct{}

// Get always reports a miss.
func (Noop) Get(context.Context, string) ([]byte, error) { return nil, nil }

// Set discards the value.
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (Noop) Delete(context.Context, string) error { return nil }
