package gotdir

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// cachedResult is what CachingHost stores per key. Raw is kept so suggestion
// following still works on a cache hit.
type cachedResult struct {
	Translation string `json:"translation"`
	Raw         []byte `json:"raw,omitempty"`
}

// CachingHost serves repeated translations from a TranslationCache.
type CachingHost struct {
	host   Host
	cache  TranslationCache
	model  string
	logger *zap.Logger
}

// NewCachingHost wraps host with cache. model namespaces the keys when it is
// not empty. A nil logger disables logging.
func NewCachingHost(host Host, cache TranslationCache, model string, logger *zap.Logger) *CachingHost {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingHost{host: host, cache: cache, model: model, logger: logger}
}

func (h *CachingHost) key(req TranslateRequest) string {
	dir := Direction{Source: req.SourceLang, Target: req.TargetLang}
	hash := HashText(req.Text)
	if h.model != "" {
		return CacheKeyExtended(hash, dir, h.model)
	}
	return CacheKey(hash, dir)
}

// Translate implements Host.
func (h *CachingHost) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	key := h.key(req)

	if val, ok := h.cache.Get(key); ok {
		var entry cachedResult
		if err := json.Unmarshal([]byte(val), &entry); err == nil {
			return &Result{
				Text:        req.Text,
				Translation: entry.Translation,
				SourceLang:  req.SourceLang,
				TargetLang:  req.TargetLang,
				Raw:         entry.Raw,
				Cached:      true,
			}, nil
		}
		h.logger.Debug("dropping unreadable cache entry", zap.String("key", key))
	}

	res, err := h.host.Translate(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(cachedResult{Translation: res.Translation, Raw: res.Raw})
	if err == nil {
		if err := h.cache.Set(key, string(data)); err != nil {
			// Cache failures never fail a translation.
			h.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}

	return res, nil
}

var _ Host = (*CachingHost)(nil)
