package memory

import (
	"context"
	"testing"
	"time"

	"digests-a11y/core/errors"
	"digests-a11y/core/interfaces"
)

var _ interfaces.Cache = (*MemoryCache)(nil)

const translationKey = "translation:fr:en:3k1x9q"

func TestMemoryCache_SetGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if err := cache.Set(ctx, translationKey, []byte("Good morning"), time.Hour); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := cache.Get(ctx, translationKey)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != "Good morning" {
		t.Errorf("Get returned %q, want %q", got, "Good morning")
	}
}

func TestMemoryCache_Get_MissIsNotFound(t *testing.T) {
	cache := NewMemoryCache()

	got, err := cache.Get(context.Background(), "translation:de:en:missing")

	if !errors.IsNotFound(err) {
		t.Errorf("Get error = %v, want NotFoundError", err)
	}
	if got != nil {
		t.Error("Get should return nil value on a miss")
	}
}

func TestMemoryCache_Get_ExpiredKey(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_ = cache.Set(ctx, translationKey, []byte("short lived"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, err := cache.Get(ctx, translationKey); !errors.IsNotFound(err) {
		t.Errorf("Get error = %v, want NotFoundError after expiry", err)
	}
}

func TestMemoryCache_Set_ZeroTTLNeverExpires(t *testing.T) {
	cache := NewMemoryCacheWithCleanup(5 * time.Millisecond)
	ctx := context.Background()

	_ = cache.Set(ctx, translationKey, []byte("kept"), 0)
	time.Sleep(30 * time.Millisecond)

	got, err := cache.Get(ctx, translationKey)
	if err != nil || string(got) != "kept" {
		t.Errorf("Get = %q, %v; want kept", got, err)
	}
}

func TestMemoryCache_Set_Overwrites(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_ = cache.Set(ctx, translationKey, []byte("first"), 0)
	_ = cache.Set(ctx, translationKey, []byte("second"), 0)

	got, _ := cache.Get(ctx, translationKey)
	if string(got) != "second" {
		t.Errorf("Get returned %q, want second", got)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	value := []byte("original")
	_ = cache.Set(ctx, translationKey, value, 0)
	value[0] = 'X'

	got, _ := cache.Get(ctx, translationKey)
	got[1] = 'Y'

	again, _ := cache.Get(ctx, translationKey)
	if string(again) != "original" {
		t.Errorf("stored value was mutated through a caller slice: %q", again)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_ = cache.Set(ctx, translationKey, []byte("bye"), 0)
	if err := cache.Delete(ctx, translationKey); err != nil {
		t.Errorf("Delete returned error: %v", err)
	}
	if err := cache.Delete(ctx, "translation:xx:yy:none"); err != nil {
		t.Errorf("Delete of absent key returned error: %v", err)
	}
	if _, err := cache.Get(ctx, translationKey); !errors.IsNotFound(err) {
		t.Error("deleted key should be gone")
	}
}

func TestMemoryCache_CanceledContext(t *testing.T) {
	cache := NewMemoryCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := cache.Set(ctx, translationKey, []byte("x"), 0); err != context.Canceled {
		t.Errorf("Set error = %v, want context.Canceled", err)
	}
	if _, err := cache.Get(ctx, translationKey); err != context.Canceled {
		t.Errorf("Get error = %v, want context.Canceled", err)
	}
	if err := cache.Delete(ctx, translationKey); err != context.Canceled {
		t.Errorf("Delete error = %v, want context.Canceled", err)
	}
}
