package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	config := LocalConfig{
		DefaultExpiration: 5 * time.Minute,
		CleanupInterval:   10 * time.Minute,
	}

	cache := NewMemoryCache(config)
	defer cache.Close()

	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		err := cache.Set(ctx, "test_key", "test_value", time.Minute)
		if err != nil {
			t.Errorf("Failed to set cache: %v", err)
		}

		if retrieved, exists := cache.Get(ctx, "test_key"); !exists {
			t.Error("Cache value not found")
		} else if retrieved != "test_value" {
			t.Errorf("Expected %v, got %v", "test_value", retrieved)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := cache.Set(ctx, "delete_me", 1, time.Minute); err != nil {
			t.Fatalf("Failed to set cache: %v", err)
		}
		if err := cache.Delete(ctx, "delete_me"); err != nil {
			t.Errorf("Failed to delete cache: %v", err)
		}
		if cache.Exists(ctx, "delete_me") {
			t.Error("Key should be gone after delete")
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		if err := cache.Set(ctx, "short_lived", "v", 10*time.Millisecond); err != nil {
			t.Fatalf("Failed to set cache: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
		if _, exists := cache.Get(ctx, "short_lived"); exists {
			t.Error("Expired value should not be returned")
		}
	})
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	if _, err := NewCache(Config{Type: "memcached"}); err == nil {
		t.Error("Expected error for unsupported cache type")
	}
}
