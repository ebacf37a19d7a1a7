// Package cache provides the layered result cache: a fast in-memory layer
// over a persistent disk layer, plus the typed store the server and CLI use
// to keep analysis results between runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the byte-level contract shared by all layers.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ResultKey derives the cache key for one piece of content analyzed on
// behalf of one owner. Different owners never share entries.
func ResultKey(contentID, ownerID string) string {
	hash := sha256.Sum256([]byte(contentID + "\x00" + ownerID))
	return "veracity:v1:" + hex.EncodeToString(hash[:])
}
