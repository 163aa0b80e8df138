package gotdir_test

import (
	"context"
	"strings"
	"testing"

	"github.com/ZaguanLabs/gotdir"
	"github.com/ZaguanLabs/gotdir/cache"
	"github.com/ZaguanLabs/gotdir/provider"
)

// Benchmarks for the per-keystroke path

func BenchmarkHashText(b *testing.B) {
	text := "Hello World, this is a sample text for hashing"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gotdir.HashText(text)
	}
}

func BenchmarkCacheKey(b *testing.B) {
	hash := "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gotdir.CacheKey(hash, enRu)
	}
}

func BenchmarkInMemoryCache_Get(b *testing.B) {
	c := cache.NewInMemoryCache(3600, 1000)
	c.Set("test-key", "test-value")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("test-key")
	}
}

func BenchmarkInMemoryCache_Set(b *testing.B) {
	c := cache.NewInMemoryCache(3600, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set("test-key", "test-value")
	}
}

// ShouldAutoSwitch compiles its patterns on every call.
func BenchmarkShouldAutoSwitch(b *testing.B) {
	conds := []gotdir.Condition{gotdir.NotMatch("[а-яё]"), gotdir.Match("[a-z]")}
	text := "the quick brown fox jumps over the lazy dog"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gotdir.ShouldAutoSwitch(conds, text)
	}
}

func BenchmarkSwitcher_Decide_Short(b *testing.B) {
	s := gotdir.NewSwitcher(gotdir.DefaultRules, gotdir.DefaultDirections)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Decide(enRu, "привет")
	}
}

func BenchmarkSwitcher_Decide_Long(b *testing.B) {
	s := gotdir.NewSwitcher(gotdir.DefaultRules, gotdir.DefaultDirections)
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 50) + "ё"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Decide(enRu, text)
	}
}

func BenchmarkTranslator_Cached(b *testing.B) {
	host := gotdir.Compose(provider.NewMockHost(), gotdir.StackConfig{
		Cache: cache.NewInMemoryCache(0, 100),
		Model: "mock",
	})
	translator := gotdir.NewTranslator(host,
		gotdir.WithSwitcher(gotdir.NewSwitcher(gotdir.DefaultRules, gotdir.DefaultDirections)),
	)
	ctx := context.Background()
	_, _ = translator.Translate(ctx, enRu, "hello world")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = translator.Translate(ctx, enRu, "hello world")
	}
}

func BenchmarkTranslateBatch(b *testing.B) {
	translator := gotdir.NewTranslator(provider.NewMockHost())
	texts := []string{"hello", "привет", "hello world", "привет мир", "hello"}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = translator.TranslateBatch(ctx, enRu, texts, 4)
	}
}
