// Package cache provides translation caches for gotdir.CachingHost.
//
// Values are opaque to the caches: the caching decorator stores a small JSON
// document per (text, direction) key. Keys are produced by gotdir.CacheKey.
package cache

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}

// Lister is implemented by caches that can enumerate their live entries.
// Export requires it.
type Lister interface {
	Entries() (map[string]string, error)
}
