package cache

import (
	"context"
	"testing"
	"time"
)

func TestTTLCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }

	if err := c.SetBytes(ctx, "view:signals", []byte("[]"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.SetBytes(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	b, ok, err := c.GetBytes(ctx, "view:signals")
	if err != nil || !ok || string(b) != "[]" {
		t.Fatalf("get = %q %v %v", b, ok, err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.GetBytes(ctx, "view:signals"); ok {
		t.Fatalf("entry should have expired")
	}
	if _, ok, _ := c.GetBytes(ctx, "forever"); !ok {
		t.Fatalf("zero ttl entry expired")
	}
	if _, ok, _ := c.GetBytes(ctx, "missing"); ok {
		t.Fatalf("missing key found")
	}
}
