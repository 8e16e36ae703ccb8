package tokenstore

import (
	"context"
	"testing"
	"time"
)

func TestNoop_AlwaysMisses(t *testing.T) {
	ctx := context.Background()
	store := Noop{}

	if err := store.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := store.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != nil {
		t.Errorf("expected miss, got %q", value)
	}

	if err := store.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := store.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != "value" {
		t.Errorf("expected 'value', got %q", value)
	}
}

func TestMemory_MissingKey(t *testing.T) {
	value, err := NewMemory().Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != nil {
		t.Errorf("expected miss, got %q", value)
	}
}

func TestMemory_ExpiredEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	// Plant an already elapsed deadline directly to exercise eviction.
	store.mu.Lock()
	store.entries["key"] = memoryEntry{value: []byte("value"), expiresAt: time.Now().Add(-time.Second)}
	store.mu.Unlock()

	value, err := store.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != nil {
		t.Errorf("expected expired entry to miss, got %q", value)
	}
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := store.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != "value" {
		t.Errorf("expected 'value', got %q", value)
	}
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	value, err := store.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != nil {
		t.Errorf("expected miss after delete, got %q", value)
	}
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	first, _ := store.Get(ctx, "key")
	first[0] = 'X'

	second, _ := store.Get(ctx, "key")
	if string(second) != "value" {
		t.Errorf("mutating a returned value must not affect the store, got %q", second)
	}
}
