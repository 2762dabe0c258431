package metadata

import (
	"testing"
	"time"

	"github.com/slipstream/showguide/internal/library/tv"
)

func newTestCache[V any](t *testing.T, cfg CacheConfig) *Cache[V] {
	t.Helper()
	cache := NewCache[V](cfg)
	t.Cleanup(cache.Close)
	return cache
}

func TestCache_SetGet(t *testing.T) {
	cache := newTestCache[string](t, CacheConfig{TTL: time.Minute, MaxItems: 100})

	cache.Set("key1", "value1")

	val, ok := cache.Get("key1")
	if !ok {
		t.Error("expected key1 to exist")
	}
	if val != "value1" {
		t.Errorf("expected value1, got %v", val)
	}
}

func TestCache_GetMissing(t *testing.T) {
	cache := newTestCache[string](t, CacheConfig{TTL: time.Minute, MaxItems: 100})

	val, ok := cache.Get("nonexistent")
	if ok {
		t.Error("expected key to not exist")
	}
	if val != "" {
		t.Errorf("expected zero value, got %q", val)
	}
}

func TestCache_Expiration(t *testing.T) {
	cache := newTestCache[string](t, CacheConfig{TTL: 50 * time.Millisecond, MaxItems: 100})

	cache.Set("key1", "value1")

	if _, ok := cache.Get("key1"); !ok {
		t.Error("expected key1 to exist immediately")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get("key1"); ok {
		t.Error("expected key1 to be expired")
	}
}

func TestCache_SetWithTTL(t *testing.T) {
	cache := newTestCache[string](t, CacheConfig{TTL: time.Hour, MaxItems: 100})

	cache.SetWithTTL("key1", "value1", 50*time.Millisecond)

	if _, ok := cache.Get("key1"); !ok {
		t.Error("expected key1 to exist immediately")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get("key1"); ok {
		t.Error("expected key1 to be expired with custom TTL")
	}
}

func TestCache_Delete(t *testing.T) {
	cache := newTestCache[string](t, CacheConfig{TTL: time.Minute, MaxItems: 100})

	cache.Set("key1", "value1")
	cache.Delete("key1")

	if _, ok := cache.Get("key1"); ok {
		t.Error("expected key1 to be deleted")
	}
}

func TestCache_Clear(t *testing.T) {
	cache := newTestCache[string](t, CacheConfig{TTL: time.Minute, MaxItems: 100})

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	cache.Clear()

	if cache.Len() != 0 {
		t.Errorf("expected cache to be empty, got %d items", cache.Len())
	}
}

func TestCache_Eviction(t *testing.T) {
	cache := newTestCache[int](t, CacheConfig{TTL: time.Minute, MaxItems: 5})

	for i := 0; i < 10; i++ {
		cache.Set(string(rune('a'+i)), i)
	}

	if cache.Len() > 5 {
		t.Errorf("expected at most 5 items, got %d", cache.Len())
	}
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	cache := newTestCache[int](t, CacheConfig{TTL: time.Minute, MaxItems: 2})

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("a", 3)

	if cache.Len() != 2 {
		t.Errorf("expected 2 items, got %d", cache.Len())
	}
	if v, _ := cache.Get("a"); v != 3 {
		t.Errorf("expected overwritten value 3, got %d", v)
	}
}

func TestCache_Series(t *testing.T) {
	cache := newTestCache[*tv.Series](t, DefaultCacheConfig())

	series, err := tv.NewSeries(tv.Info{Name: "Homeland"}, nil)
	if err != nil {
		t.Fatalf("NewSeries() error = %v", err)
	}
	cache.Set("homeland", series)

	got, ok := cache.Get("homeland")
	if !ok {
		t.Fatal("expected series to exist")
	}
	if got != series {
		t.Error("expected the cached series pointer")
	}
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	cache := NewCache[string](CacheConfig{})
	cache.Close()
	cache.Close()
}
