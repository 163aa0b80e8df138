package gotdir

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Translator is the composed client: it picks the direction for the text,
// translates through the (decorated) host and renders the result.
type Translator struct {
	host     Host
	renderer Renderer
	switcher *Switcher
	logger   *zap.Logger
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithSwitcher enables direction auto-switching.
func WithSwitcher(s *Switcher) TranslatorOption {
	return func(t *Translator) {
		t.switcher = s
	}
}

// WithRenderer sets the output surface. Without one, results are only returned.
func WithRenderer(r Renderer) TranslatorOption {
	return func(t *Translator) {
		t.renderer = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) TranslatorOption {
	return func(t *Translator) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTranslator creates a new Translator over host.
func NewTranslator(host Host, opts ...TranslatorOption) *Translator {
	t := &Translator{
		host:   host,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Direction returns the direction text should be translated in while current
// is active. Without a switcher it returns current.
func (t *Translator) Direction(current Direction, text string) Direction {
	if t.switcher == nil {
		return current
	}
	dir, _ := t.switcher.Decide(current, text)
	return dir
}

// Translate translates text, switching away from current when a rule applies,
// and renders the result.
func (t *Translator) Translate(ctx context.Context, current Direction, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &TranslationError{Message: "nothing to translate"}
	}

	res, err := t.translate(ctx, t.Direction(current, text), text)
	if err != nil {
		return nil, err
	}

	if t.renderer != nil {
		if err := t.renderer.Render(ctx, res); err != nil {
			return res, err
		}
	}

	return res, nil
}

// translate runs text through the host in dir without rendering.
func (t *Translator) translate(ctx context.Context, dir Direction, text string) (*Result, error) {
	var res *Result
	if isSameLang(dir.Source, dir.Target) {
		// Nothing to do when source and target agree.
		res = &Result{Text: text, Translation: text, SourceLang: dir.Source, TargetLang: dir.Target}
	} else {
		var err error
		res, err = t.host.Translate(ctx, TranslateRequest{
			Text:       text,
			SourceLang: dir.Source,
			TargetLang: dir.Target,
		})
		if err != nil {
			return nil, &TranslationError{Message: "translating " + dir.String(), Cause: err}
		}
	}

	t.logger.Debug("translated",
		zap.Stringer("direction", dir),
		zap.Bool("cached", res.Cached),
		zap.Bool("corrected", res.Original != ""),
	)
	return res, nil
}

// Switcher returns the configured switcher, or nil.
func (t *Translator) Switcher() *Switcher {
	return t.switcher
}

// isSameLang compares the base language codes ("en" for "en_US").
func isSameLang(a, b string) bool {
	return normalizeBaseLang(a) == normalizeBaseLang(b)
}

// normalizeBaseLang extracts the base language code (e.g., "en" from "en_US").
func normalizeBaseLang(lang string) string {
	lang = NormalizeLocale(lang)
	parts := strings.Split(lang, "_")
	return strings.ToLower(parts[0])
}
