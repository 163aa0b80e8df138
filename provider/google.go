package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ZaguanLabs/gotdir"
)

// DefaultGoogleURL is the web translation endpoint.
const DefaultGoogleURL = "https://translate.googleapis.com/translate_a/single"

const googleMaxResponseBytes = 1 << 20

// GoogleProvider implements Host over Google's web translation endpoint. The
// endpoint expects the request token that gotdir.TokenStamper computes; wrap
// the provider in one (gotdir.Compose does when a TKK is configured).
type GoogleProvider struct {
	client  *http.Client
	baseURL string
	appID   string
}

// GoogleConfig holds configuration for the Google provider.
type GoogleConfig struct {
	BaseURL    string        // Endpoint (default: DefaultGoogleURL)
	Client     string        // "client" query parameter (default: "gtx")
	Timeout    time.Duration // HTTP timeout (default: 10s)
	HTTPClient *http.Client  // Optional; overrides Timeout
}

// NewGoogleProvider creates a new Google provider.
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultGoogleURL
	}

	appID := cfg.Client
	if appID == "" {
		appID = "gtx"
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &GoogleProvider{client: client, baseURL: baseURL, appID: appID}
}

func (p *GoogleProvider) requestURL(req TranslateRequest) string {
	q := url.Values{}
	q.Set("client", p.appID)
	q.Set("sl", req.SourceLang)
	q.Set("tl", req.TargetLang)
	q.Set("hl", req.TargetLang)
	q.Add("dt", "t")
	q.Add("dt", "qca")
	q.Set("ie", "UTF-8")
	q.Set("oe", "UTF-8")
	if req.Token != "" {
		q.Set("tk", req.Token)
	}
	q.Set("q", req.Text)
	return p.baseURL + "?" + q.Encode()
}

// Translate implements Host. The undecoded response is kept in Result.Raw for
// gotdir.GoogleSuggestionExtractor.
func (p *GoogleProvider) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return &Result{Text: req.Text, SourceLang: req.SourceLang, TargetLang: req.TargetLang}, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.requestURL(req), nil)
	if err != nil {
		return nil, &gotdir.ProviderError{Message: "building request", Cause: err}
	}
	httpReq.Header.Set("User-Agent", gotdir.UserAgent())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &gotdir.ProviderError{
			Message:   "Google request failed",
			Cause:     err,
			Retryable: ctx.Err() == nil,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, googleMaxResponseBytes))
	if err != nil {
		return nil, &gotdir.ProviderError{Message: "reading response", Cause: err, Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &gotdir.ProviderError{
			Message:    fmt.Sprintf("Google returned %s", resp.Status),
			Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			RetryAfter: retryAfter(resp.Header, time.Now()),
		}
	}

	translation, err := parseGoogleTranslation(body)
	if err != nil {
		return nil, err
	}

	return &Result{
		Text:        req.Text,
		Translation: translation,
		SourceLang:  req.SourceLang,
		TargetLang:  req.TargetLang,
		Raw:         body,
	}, nil
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
func retryAfter(h http.Header, now time.Time) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs > 0 {
			return time.Duration(secs) * time.Second
		}
		return 0
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

// parseGoogleTranslation joins the translated segments of element 0:
// [[["translated", "original", ...], ...], ...].
func parseGoogleTranslation(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return "", &gotdir.ProviderError{Message: "invalid response format from Google", Cause: err}
	}

	var segments [][]any
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", &gotdir.ProviderError{Message: "invalid segment list from Google", Cause: err}
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

var _ Host = (*GoogleProvider)(nil)
