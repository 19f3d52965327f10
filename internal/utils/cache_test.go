package utils

import (
	"testing"
	"time"
)

func TestSearchCache_Expiry(t *testing.T) {
	c := NewSearchCache[[]float32](2, 20*time.Millisecond)
	c.Set("a", []float32{1})

	if v, ok := c.Get("a"); !ok || v[0] != 1 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("expired entry returned")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after expiry", c.Len())
	}
}

func TestSearchCache_Evicts(t *testing.T) {
	c := NewSearchCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	if _, ok := c.Get("a"); ok {
		t.Error("least recently used entry should be evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestResponseCache(t *testing.T) {
	c := NewResponseCache(time.Minute, time.Minute)
	c.Set("quiz:Anime", []string{"Akira"})
	if _, ok := c.Get("quiz:Anime"); !ok {
		t.Fatal("missing cached value")
	}
	c.Flush()
	if c.Len() != 0 {
		t.Errorf("Len = %d after Flush", c.Len())
	}
}
