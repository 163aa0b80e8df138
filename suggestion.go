package gotdir

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// SuggestionFollower re-translates the backend's "did you mean" suggestion
// instead of the text as typed. It follows at most one suggestion per request.
type SuggestionFollower struct {
	host      Host
	extractor SuggestionExtractor
	logger    *zap.Logger
}

// NewSuggestionFollower wraps host. A nil logger disables logging.
func NewSuggestionFollower(host Host, extractor SuggestionExtractor, logger *zap.Logger) *SuggestionFollower {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionFollower{host: host, extractor: extractor, logger: logger}
}

// Translate implements Host.
func (f *SuggestionFollower) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	res, err := f.host.Translate(ctx, req)
	if err != nil {
		return nil, err
	}

	suggestion, ok := f.extractor.ExtractSuggestion(res.Raw)
	if !ok || strings.TrimSpace(suggestion) == strings.TrimSpace(req.Text) {
		return res, nil
	}

	follow := req
	follow.Text = suggestion
	follow.Token = ""
	follow.Suggested = true

	corrected, err := f.host.Translate(ctx, follow)
	if err != nil {
		// The first translation is still usable.
		f.logger.Warn("following suggestion failed", zap.String("suggestion", suggestion), zap.Error(err))
		return res, nil
	}

	f.logger.Debug("followed suggestion", zap.String("typed", req.Text), zap.String("suggestion", suggestion))
	corrected.Original = req.Text
	return corrected, nil
}

// JSONSuggestionExtractor reads a suggestion from a JSON object field, the
// shape the OpenAI backend asks the model to answer in.
type JSONSuggestionExtractor struct {
	Field string // Defaults to "suggestion"
}

// ExtractSuggestion implements SuggestionExtractor.
func (e JSONSuggestionExtractor) ExtractSuggestion(raw []byte) (string, bool) {
	field := e.Field
	if field == "" {
		field = "suggestion"
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	s, ok := obj[field].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// GoogleSuggestionExtractor reads the spelling correction of a Google
// translate_a array payload. Element 7 holds [marked-up, plain, ...]; the
// marked-up form wraps corrected words in <b><i> tags.
type GoogleSuggestionExtractor struct{}

// ExtractSuggestion implements SuggestionExtractor.
func (GoogleSuggestionExtractor) ExtractSuggestion(raw []byte) (string, bool) {
	var payload []json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload) <= 7 {
		return "", false
	}

	var spell []any
	if err := json.Unmarshal(payload[7], &spell); err != nil || len(spell) == 0 {
		return "", false
	}

	if marked, ok := spell[0].(string); ok && marked != "" {
		if text := stripMarkup(marked); text != "" {
			return text, true
		}
	}
	if len(spell) > 1 {
		if plain, ok := spell[1].(string); ok && strings.TrimSpace(plain) != "" {
			return strings.TrimSpace(plain), true
		}
	}
	return "", false
}

// stripMarkup returns the text content of an HTML fragment.
func stripMarkup(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(goquery.NewDocumentFromNode(doc).Text())
}

var (
	_ Host                = (*SuggestionFollower)(nil)
	_ SuggestionExtractor = JSONSuggestionExtractor{}
	_ SuggestionExtractor = GoogleSuggestionExtractor{}
)
