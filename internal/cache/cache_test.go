package cache

import (
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c := New()

	c.Set("api:/manga", "payload", time.Minute)

	got, ok := c.Get("api:/manga")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.(string) != "payload" {
		t.Errorf("expected payload, got %v", got)
	}
}

func TestCache_Miss(t *testing.T) {
	c := New()

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCache_ZeroDurationExpiresImmediately(t *testing.T) {
	c := New()

	c.Set("k", "v", 0)

	if _, ok := c.Get("k"); ok {
		t.Error("zero duration entry should be absent on read")
	}
}

func TestCache_ExpiredReadEvicts(t *testing.T) {
	c := New()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", "v", time.Minute)

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry past expiry should be treated as absent")
	}

	// The expired read must have evicted the entry, not just skipped it
	size, _ := c.Stats()
	if size != 0 {
		t.Errorf("expected 0 entries after expired read, got %d", size)
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := New()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Invalidate("a")

	if _, ok := c.Get("a"); ok {
		t.Error("invalidated entry should be gone")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("unrelated entry should survive")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()

	size, _ := c.Stats()
	if size != 0 {
		t.Errorf("expected empty cache, got %d entries", size)
	}
}

func TestCache_Sweep(t *testing.T) {
	c := New()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("old", 1, time.Minute)
	c.Set("fresh", 2, time.Hour)

	now = now.Add(10 * time.Minute)
	c.Sweep()

	size, keys := c.Stats()
	if size != 1 {
		t.Fatalf("expected 1 entry after sweep, got %d (%v)", size, keys)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("unexpired entry should survive sweep")
	}
}
