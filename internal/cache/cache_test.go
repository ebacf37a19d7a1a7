package cache

import (
	"strings"
	"testing"
	"time"
)

func TestResultKey_Deterministic(t *testing.T) {
	k1 := ResultKey("content-1", "owner-1")
	k2 := ResultKey("content-1", "owner-1")

	if k1 != k2 {
		t.Errorf("Same inputs produced different keys: %s vs %s", k1, k2)
	}
}

func TestResultKey_Prefix(t *testing.T) {
	key := ResultKey("content-1", "owner-1")

	if !strings.HasPrefix(key, "veracity:v1:") {
		t.Errorf("Key missing version prefix: %s", key)
	}
	if len(key) != len("veracity:v1:")+64 {
		t.Errorf("Key should carry a full sha256 hex digest: %s", key)
	}
}

func TestResultKey_DistinguishesInputs(t *testing.T) {
	base := ResultKey("content-1", "owner-1")

	if ResultKey("content-2", "owner-1") == base {
		t.Error("Different content must produce different keys")
	}
	if ResultKey("content-1", "owner-2") == base {
		t.Error("Different owners must produce different keys")
	}
	// The separator keeps the two fields from bleeding into each other.
	if ResultKey("ab", "c") == ResultKey("a", "bc") {
		t.Error("Field boundary lost in key derivation")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("absent"); found {
		t.Error("Expected miss for absent key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("Get = %q, %v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)

	if err := c.Clear(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("Expected miss after clear")
	}
	if _, found := c.Get("b"); found {
		t.Error("Expected miss after clear")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("short", []byte("v"), 20*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	if _, found := c.Get("short"); found {
		t.Error("Expected miss after TTL expiry")
	}
}
