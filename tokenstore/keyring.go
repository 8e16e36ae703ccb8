package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/99designs/keyring"
)

const (
	// KeyringPasswordEnvVar sets the file keyring passphrase for
	// non-interactive setups (CI, headless servers).
	KeyringPasswordEnvVar = "PPL_KEYRING_PASSWORD"

	// dbusSessionAddressEnvVar is used to detect headless Linux, where no
	// secret-service daemon is reachable.
	dbusSessionAddressEnvVar = "DBUS_SESSION_BUS_ADDRESS"
)

// Keyring stores entries in the operating system keyring (macOS Keychain,
// Windows Credential Manager, Secret Service on Linux) with an encrypted file
// fallback for headless environments. The keyring itself has no TTL support,
// so the expiry is recorded alongside the value and enforced on read.
type Keyring struct {
	ring keyring.Keyring
}

type keyringEntry struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// NewKeyring opens the OS keyring under the given service name.
func NewKeyring(service string) (*Keyring, error) {
	if service == "" {
		return nil, errors.New("tokenstore: keyring service name is required")
	}

	cfg := keyring.Config{
		ServiceName:                    service,
		KeychainTrustApplication:       true,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,
		FileDir:                        keyringFileDir(service),
		FilePasswordFunc: func(string) (string, error) {
			return keyringFilePassword(service), nil
		},
	}

	// Without a session bus there is no secret service to talk to; go
	// straight to the file backend instead of failing at first use.
	if runtime.GOOS == "linux" && strings.TrimSpace(os.Getenv(dbusSessionAddressEnvVar)) == "" {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("tokenstore: open keyring: %w", err)
	}

	return &Keyring{ring: ring}, nil
}

// Get returns the value stored under key, or (nil, nil) when the key is
// absent, expired, or holds an unreadable entry.
func (k *Keyring) Get(ctx context.Context, key string) ([]byte, error) {
	item, err := k.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tokenstore: keyring get: %w", err)
	}

	var entry keyringEntry
	if err := json.Unmarshal(item.Data, &entry); err != nil {
		// Stale or foreign entry under our key; treat as a miss.
		return nil, nil
	}

	if !entry.ExpiresAt.IsZero() && !time.Now().Before(entry.ExpiresAt) {
		_ = k.Delete(ctx, key)
		return nil, nil
	}

	return entry.Value, nil
}

// Set stores value under key. A positive ttl is converted to an absolute
// expiry enforced by Get.
func (k *Keyring) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := keyringEntry{Value: value}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("tokenstore: encode keyring entry: %w", err)
	}

	if err := k.ring.Set(keyring.Item{Key: key, Data: data}); err != nil {
		return fmt.Errorf("tokenstore: keyring set: %w", err)
	}
	return nil
}

// Delete removes the entry for key. A missing key is not an error.
func (k *Keyring) Delete(_ context.Context, key string) error {
	err := k.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("tokenstore: keyring delete: %w", err)
	}
	return nil
}

func keyringFileDir(service string) string {
	configDir, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(configDir) == "" {
		configDir = os.Getenv("HOME")
	}
	return filepath.Join(configDir, service, "keyring")
}

func keyringFilePassword(service string) string {
	if password := strings.TrimSpace(os.Getenv(KeyringPasswordEnvVar)); password != "" {
		return password
	}
	return service
}
