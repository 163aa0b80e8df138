package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockHost is an offline backend for tests and dry runs. Its raw responses use
// the same JSON shape as OpenAIProvider, so JSONSuggestionExtractor works with
// both.
type MockHost struct {
	Translations map[string]string // Map of source text to translation
	Suggestions  map[string]string // Map of source text to "did you mean" suggestion
	Err          error             // Returned by every call when set

	mu          sync.Mutex
	callCount   int
	lastRequest *TranslateRequest
}

// NewMockHost creates a mock backend with a few English/Russian/Ukrainian
// translations.
func NewMockHost() *MockHost {
	return &MockHost{
		Translations: map[string]string{
			"hello":       "привет",
			"привет":      "hello",
			"hello world": "привет мир",
			"привет мир":  "hello world",
			"привіт":      "привет",
		},
		Suggestions: map[string]string{},
	}
}

// Translate returns mock translations.
func (m *MockHost) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	m.mu.Lock()
	m.callCount++
	m.lastRequest = &req
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	translation, ok := m.Translations[req.Text]
	if !ok {
		// Return bracketed text for unknown translations
		translation = fmt.Sprintf("[%s]", req.Text)
	}

	raw, err := json.Marshal(openAIAnswer{Translation: translation, Suggestion: m.Suggestions[req.Text]})
	if err != nil {
		return nil, err
	}

	return &Result{
		Text:        req.Text,
		Translation: translation,
		SourceLang:  req.SourceLang,
		TargetLang:  req.TargetLang,
		Raw:         raw,
	}, nil
}

// CallCount returns the number of Translate calls.
func (m *MockHost) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the most recent request, or nil.
func (m *MockHost) LastRequest() *TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset resets the call count and last request.
func (m *MockHost) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = nil
}

var _ Host = (*MockHost)(nil)
