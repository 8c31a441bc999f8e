package memory

import (
	"context"
	"fmt"
	"testing"

	"digests-a11y/core/domain"
)

func BenchmarkMemoryCache_TranslationLookup(b *testing.B) {
	cache := NewMemoryCache()
	ctx := context.Background()

	keys := make([]string, 1000)
	for i := range keys {
		keys[i] = domain.NewTranslationKey(fmt.Sprintf("phrase %d", i), "fr", "en").String()
		_ = cache.Set(ctx, keys[i], []byte(fmt.Sprintf("translated %d", i)), 0)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cache.Get(ctx, keys[i%len(keys)])
	}
}

func BenchmarkMemoryCache_TranslationStore(b *testing.B) {
	cache := NewMemoryCache()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := domain.NewTranslationKey(fmt.Sprintf("phrase %d", i), "es", "en").String()
		_ = cache.Set(ctx, key, []byte("translated"), 0)
	}
}
