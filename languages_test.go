package gotdir

import "testing"

func TestGetLanguageName(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"ru", "Russian"},
		{"uk", "Ukrainian"},
		{"en_US", "English"}, // base code
		{"en-GB", "English"}, // dash form
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			result := GetLanguageName(tt.code)
			if result != tt.expected {
				t.Errorf("GetLanguageName(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"en", true},
		{"ru_RU", true},
		{"uk", true},
		{"", false},
		{"xx", false},
		{"klingon", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsSupported(tt.code); got != tt.expected {
				t.Errorf("IsSupported(%q) = %v, want %v", tt.code, got, tt.expected)
			}
		})
	}
}

func TestSupportedLanguages_Sorted(t *testing.T) {
	codes := SupportedLanguages()
	if len(codes) != len(LanguageNames) {
		t.Fatalf("got %d codes, want %d", len(codes), len(LanguageNames))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not sorted at %d: %q >= %q", i, codes[i-1], codes[i])
		}
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en-US", "en_US"},
		{"en_US", "en_US"},
		{"ru", "ru"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeLocale(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeLocale(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidateLanguages(t *testing.T) {
	if errs := ValidateLanguages(DefaultRules, DefaultDirections); len(errs) != 0 {
		t.Fatalf("defaults should validate, got %v", errs)
	}

	rules := RuleTable{
		{Source: "en", Target: "xx", Conditions: []Condition{Match("a")}},
		{Source: "", Target: "ru"}, // malformed, reported by CompileRules instead
	}
	dirs := Directions{{Source: "en", Target: "ru"}, {Source: "zz", Target: "en"}}

	errs := ValidateLanguages(rules, dirs)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
}
