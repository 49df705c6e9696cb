package utils

import (
	"testing"
	"time"
)

func TestLRUCacheSetGet(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // 淘汰 a

	if _, ok := c.Get("a"); ok {
		t.Error("Expected a to be evicted")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Expected c=3, got %d (ok=%v)", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Expected len 2, got %d", c.Len())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache[string](4, time.Millisecond)
	c.Set("k", "v")
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Expected expired entry to be missing")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be removed, len=%d", c.Len())
	}
}

func TestLRUCacheClear(t *testing.T) {
	c := NewLRUCache[int](0, time.Minute)
	c.Set("k", 1)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, len=%d", c.Len())
	}
}
