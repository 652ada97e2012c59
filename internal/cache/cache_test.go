package cache

import (
	"strconv"
	"testing"
	"time"

	"github.com/btmxh/folio/internal/clock"
)

func TestExpiry(t *testing.T) {
	clk := clock.NewFake(time.Unix(1700000000, 0))
	c := New[[]string](clk, 5*time.Minute)

	c.Put("roles", []string{"Animator", "Modeler"})
	if v, ok := c.Get("roles"); !ok || len(v) != 2 {
		t.Fatalf("Expected fresh entry, got %v (ok=%v)", v, ok)
	}

	clk.Advance(4*time.Minute + 59*time.Second)
	if _, ok := c.Get("roles"); !ok {
		t.Fatalf("Entry expired before its TTL")
	}

	clk.Advance(time.Second)
	if _, ok := c.Get("roles"); ok {
		t.Fatalf("Entry still served at its TTL boundary")
	}
}

func TestInvalidate(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	c := New[int](clk, time.Hour)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("Invalidated entry still present")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("Unrelated entry lost: %v %v", v, ok)
	}

	c.InvalidateAll()
	if c.Len() != 0 {
		t.Fatalf("InvalidateAll left %d entries", c.Len())
	}
}

func TestPutRefreshesExpiry(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	c := New[string](clk, time.Minute)

	c.Put("k", "old")
	clk.Advance(50 * time.Second)
	c.Put("k", "new")
	clk.Advance(50 * time.Second)

	if v, ok := c.Get("k"); !ok || v != "new" {
		t.Fatalf("Expected refreshed entry, got %q (ok=%v)", v, ok)
	}
}

func TestExpiredEntriesAreDropped(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	c := New[int](clk, time.Minute)

	for i := 0; i < 1000; i++ {
		c.Put(strconv.Itoa(i), i)
	}
	if c.Len() != 1000 {
		t.Fatalf("Expected 1000 entries, got %d", c.Len())
	}

	clk.Advance(time.Hour)
	c.Put("fresh", 1)
	if c.Len() != 1 {
		t.Fatalf("Put kept %d entries after all but one expired", c.Len())
	}

	clk.Advance(time.Minute)
	if _, ok := c.Get("fresh"); ok {
		t.Fatalf("Expired entry served")
	}
	if c.Len() != 0 {
		t.Fatalf("Get kept an expired entry")
	}
}
