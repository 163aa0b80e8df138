package gotdir

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key from a text hash and a direction.
func CacheKey(hash string, dir Direction) string {
	return hash + ":" + dir.Source + ":" + dir.Target
}

// CacheKeyExtended generates a cache key that also includes the backend model.
// Use this when several models share one cache.
func CacheKeyExtended(hash string, dir Direction, model string) string {
	return CacheKey(hash, dir) + ":" + model
}
