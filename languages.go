package gotdir

import (
	"fmt"
	"sort"
	"strings"
)

// LanguageNames maps the language codes the client accepts to display names.
var LanguageNames = map[string]string{
	"ar": "Arabic",
	"be": "Belarusian",
	"bg": "Bulgarian",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"et": "Estonian",
	"fi": "Finnish",
	"fr": "French",
	"he": "Hebrew",
	"hi": "Hindi",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"kk": "Kazakh",
	"ko": "Korean",
	"lt": "Lithuanian",
	"lv": "Latvian",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sk": "Slovak",
	"sr": "Serbian",
	"sv": "Swedish",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// GetLanguageName returns the display name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[normalizeBaseLang(langCode)]; ok {
		return name
	}
	return langCode
}

// IsSupported reports whether the base of langCode ("en" for "en_US") is a
// known language.
func IsSupported(langCode string) bool {
	if langCode == "" {
		return false
	}
	_, ok := LanguageNames[normalizeBaseLang(langCode)]
	return ok
}

// SupportedLanguages returns the known language codes, sorted.
func SupportedLanguages() []string {
	codes := make([]string, 0, len(LanguageNames))
	for code := range LanguageNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// NormalizeLocale converts a language code to the standard format (e.g., "en-US" → "en_US").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(langCode, "-", "_")
}

// ValidateLanguages reports rules and directions that name unsupported
// languages. It does not check patterns; see CompileRules.
func ValidateLanguages(rules RuleTable, directions Directions) []error {
	var errs []error
	for i, r := range rules {
		if !r.Valid() {
			continue
		}
		for _, lang := range []string{r.Source, r.Target} {
			if !IsSupported(lang) {
				errs = append(errs, &RuleError{Index: i, Rule: r, Message: fmt.Sprintf("unsupported language %q", lang)})
			}
		}
	}
	for i, d := range directions {
		if !IsSupported(d.Source) || !IsSupported(d.Target) {
			errs = append(errs, fmt.Errorf("direction %d (%s): unsupported language", i, d))
		}
	}
	return errs
}
