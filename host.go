package gotdir

import "context"

// Host is the translation capability of the client being customized.
// Backends in the provider package implement it; the decorators in this
// package wrap it.
type Host interface {
	Translate(ctx context.Context, req TranslateRequest) (*Result, error)
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(ctx context.Context, req TranslateRequest) (*Result, error)

// Translate calls f.
func (f HostFunc) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	return f(ctx, req)
}

// Renderer displays a translation result on some output surface.
type Renderer interface {
	Render(ctx context.Context, res *Result) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, res *Result) error

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, res *Result) error {
	return f(ctx, res)
}

// SuggestionExtractor finds a "did you mean" correction in a backend's raw response.
type SuggestionExtractor interface {
	ExtractSuggestion(raw []byte) (string, bool)
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}
