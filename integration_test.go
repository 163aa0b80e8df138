package gotdir_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/gotdir"
	"github.com/ZaguanLabs/gotdir/cache"
	"github.com/ZaguanLabs/gotdir/provider"
)

// Integration tests using all real components

var enRu = gotdir.Direction{Source: "en", Target: "ru"}

func newStack(t *testing.T, backend gotdir.Host, c gotdir.TranslationCache, out *bytes.Buffer) *gotdir.Translator {
	t.Helper()
	host := gotdir.Compose(backend, gotdir.StackConfig{
		Cache:       c,
		Model:       "mock",
		Suggestions: gotdir.JSONSuggestionExtractor{},
	})
	return gotdir.NewTranslator(host,
		gotdir.WithSwitcher(gotdir.NewSwitcher(gotdir.DefaultRules, gotdir.DefaultDirections)),
		gotdir.WithRenderer(gotdir.NewThresholdRenderer(out, gotdir.DefaultPopupThreshold)),
	)
}

func TestIntegration_AutoSwitchTranslation(t *testing.T) {
	p := provider.NewMockHost()
	var out bytes.Buffer
	translator := newStack(t, p, cache.NewInMemoryCache(3600, 100), &out)

	result, err := translator.Translate(context.Background(), enRu, "привет мир")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if result.Translation != "hello world" {
		t.Errorf("Expected 'hello world', got %q", result.Translation)
	}
	if result.Direction() != (gotdir.Direction{Source: "ru", Target: "en"}) {
		t.Errorf("Expected ru→en, got %s", result.Direction())
	}
	if req := p.LastRequest(); req.SourceLang != "ru" || req.TargetLang != "en" {
		t.Errorf("backend saw %s→%s", req.SourceLang, req.TargetLang)
	}
	if !strings.Contains(out.String(), "hello world") {
		t.Errorf("Expected rendered translation, got: %s", out.String())
	}
}

func TestIntegration_CacheHit(t *testing.T) {
	p := provider.NewMockHost()
	var out bytes.Buffer
	translator := newStack(t, p, cache.NewInMemoryCache(3600, 100), &out)

	first, _ := translator.Translate(context.Background(), enRu, "hello")
	if first.Cached {
		t.Error("First call should not be cached")
	}

	second, err := translator.Translate(context.Background(), enRu, "hello")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !second.Cached || second.Translation != "привет" {
		t.Errorf("Second call: expected cached 'привет', got %+v", second)
	}

	// Provider should only be called once
	if p.CallCount() != 1 {
		t.Errorf("Provider should be called once, was called %d times", p.CallCount())
	}
}

func TestIntegration_SuggestionThroughCache(t *testing.T) {
	p := provider.NewMockHost()
	p.Suggestions["helo"] = "hello"
	var out bytes.Buffer
	translator := newStack(t, p, cache.NewInMemoryCache(3600, 100), &out)

	for i := 0; i < 2; i++ {
		result, err := translator.Translate(context.Background(), enRu, "helo")
		if err != nil {
			t.Fatalf("Translate failed: %v", err)
		}
		if result.Translation != "привет" || result.Original != "helo" {
			t.Errorf("call %d: expected corrected translation, got %+v", i, result)
		}
	}

	// helo and hello once each; the second round is served from the cache.
	if p.CallCount() != 2 {
		t.Errorf("Provider called %d times, want 2", p.CallCount())
	}
}

func TestIntegration_BackendFailure(t *testing.T) {
	p := provider.NewMockHost()
	p.Err = &gotdir.ProviderError{Message: "service unavailable", Retryable: false}
	var out bytes.Buffer
	translator := newStack(t, p, cache.NewInMemoryCache(3600, 100), &out)

	_, err := translator.Translate(context.Background(), enRu, "hello")

	var transErr *gotdir.TranslationError
	if !errors.As(err, &transErr) {
		t.Fatalf("Expected TranslationError, got %v", err)
	}
	var provErr *gotdir.ProviderError
	if !errors.As(err, &provErr) {
		t.Error("Expected the ProviderError to be wrapped")
	}
	if out.Len() != 0 {
		t.Errorf("Nothing should be rendered on failure, got %q", out.String())
	}
}

func TestIntegration_CachePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	p := provider.NewMockHost()

	c1 := cache.NewInMemoryCache(0, 100)
	var out bytes.Buffer
	if _, err := newStack(t, p, c1, &out).Translate(context.Background(), enRu, "hello world"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if _, err := cache.NewExporter(c1).ExportToFile(path, map[string]string{"model": "mock"}); err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}

	// A fresh process: import, then translate without reaching the backend.
	c2 := cache.NewInMemoryCache(0, 100)
	res, err := cache.NewImporter(c2).ImportFromFile(path)
	if err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}
	if res.Imported != 1 {
		t.Errorf("Imported = %d, want 1", res.Imported)
	}

	p.Reset()
	result, err := newStack(t, p, c2, &out).Translate(context.Background(), enRu, "hello world")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !result.Cached || p.CallCount() != 0 {
		t.Errorf("Expected a cache hit after import, cached=%v calls=%d", result.Cached, p.CallCount())
	}
}

func TestIntegration_Batch(t *testing.T) {
	p := provider.NewMockHost()
	var out bytes.Buffer
	translator := newStack(t, p, cache.NewInMemoryCache(3600, 100), &out)

	batch, err := translator.TranslateBatch(context.Background(), enRu, []string{"hello", "привет", "hello"}, 2)
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}

	if batch.Results[0].Translation != "привет" || batch.Results[1].Translation != "hello" {
		t.Errorf("unexpected results %q, %q", batch.Results[0].Translation, batch.Results[1].Translation)
	}
	if p.CallCount() != 2 {
		t.Errorf("Provider called %d times, want 2", p.CallCount())
	}
	if out.Len() != 0 {
		t.Error("Batch results should not be rendered")
	}
}

func TestIntegration_EchoForLongText(t *testing.T) {
	p := provider.NewMockHost()
	var out bytes.Buffer
	host := gotdir.Compose(p, gotdir.StackConfig{})
	translator := gotdir.NewTranslator(host,
		gotdir.WithRenderer(gotdir.NewThresholdRenderer(&out, 10)),
	)

	if _, err := translator.Translate(context.Background(), enRu, "a fairly long sentence"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "[en→ru] ") {
		t.Errorf("Expected echo output, got %q", out.String())
	}
}
