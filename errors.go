package gotdir

import (
	"fmt"
	"time"
)

// TranslationError is the base error type for translation failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a host backend failure (API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool

	// RetryAfter is the wait the backend asked for before the next attempt.
	RetryAfter time.Duration
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// RuleError describes a rule table entry that was skipped or partly disabled.
type RuleError struct {
	Index   int  // Position in the rule table
	Rule    Rule // The offending entry
	Message string
	Cause   error
}

func (e *RuleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rule %d (%s→%s): %s: %v", e.Index, e.Rule.Source, e.Rule.Target, e.Message, e.Cause)
	}
	return fmt.Sprintf("rule %d (%s→%s): %s", e.Index, e.Rule.Source, e.Rule.Target, e.Message)
}

func (e *RuleError) Unwrap() error {
	return e.Cause
}

// RenderError indicates an output surface failed to display a result.
type RenderError struct {
	Surface string // "popup", "echo", ...
	Cause   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error (%s): %v", e.Surface, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ConfigError indicates settings that cannot be loaded or used.
type ConfigError struct {
	Path    string // Settings file, when known
	Field   string // Offending setting, when known
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := "config error"
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
