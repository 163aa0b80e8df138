package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/gotdir"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Host using OpenAI's chat completions API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.2)
	BaseURL     string  // Custom base URL (optional)
}

// DefaultOpenAIModel is used when OpenAIConfig.Model is empty.
const DefaultOpenAIModel = "gpt-4o-mini"

// openAIAnswer is the JSON object the model is asked to reply with.
type openAIAnswer struct {
	Translation string `json:"translation"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Model returns the configured model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Translate translates req.Text. The raw model answer is kept in Result.Raw;
// it may carry a spelling suggestion for JSONSuggestionExtractor.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return &Result{Text: req.Text, SourceLang: req.SourceLang, TargetLang: req.TargetLang}, nil
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &gotdir.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &gotdir.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	content := resp.Choices[0].Message.Content
	answer, err := parseAnswer(content)
	if err != nil {
		return nil, err
	}

	return &Result{
		Text:        req.Text,
		Translation: answer.Translation,
		SourceLang:  req.SourceLang,
		TargetLang:  req.TargetLang,
		Raw:         []byte(content),
	}, nil
}

func (p *OpenAIProvider) buildSystemPrompt(req TranslateRequest) string {
	sourceName := gotdir.GetLanguageName(req.SourceLang)
	targetName := gotdir.GetLanguageName(req.TargetLang)

	return fmt.Sprintf(`# Role
You are a dictionary-style translator embedded in a text editor. The user types a word, phrase or short passage in %s; you translate it into %s.

# Task
- Translate the text naturally. Keep line breaks.
- Do not explain, transliterate or add alternatives.
- If the input looks misspelled, translate the most likely intended text and put that corrected %s text in "suggestion". Otherwise omit "suggestion".

# Format
Return a valid JSON object: { "translation": "...", "suggestion": "..." }
- Do NOT wrap in Markdown code blocks.`, sourceName, targetName, sourceName)
}

// parseAnswer decodes the model reply. Replies that are not a JSON object are
// taken as the bare translation, which some compatible servers send.
func parseAnswer(content string) (openAIAnswer, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return openAIAnswer{}, &gotdir.ProviderError{
			Message:   "empty response from OpenAI",
			Retryable: true,
		}
	}

	if !strings.HasPrefix(trimmed, "{") {
		return openAIAnswer{Translation: trimmed}, nil
	}

	var answer openAIAnswer
	if err := json.Unmarshal([]byte(trimmed), &answer); err != nil {
		return openAIAnswer{}, &gotdir.ProviderError{
			Message:   "invalid response format from OpenAI",
			Cause:     err,
			Retryable: false,
		}
	}
	return answer, nil
}

func isRetryableError(err error) bool {
	// Check for common retryable conditions
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

var _ Host = (*OpenAIProvider)(nil)
