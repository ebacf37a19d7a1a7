package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/snedea/veracity/internal/model"
)

// ResultStore persists analysis results keyed by (content, owner). Results
// come back exactly as saved; the store never recomputes or mutates them.
type ResultStore struct {
	cache Cache
	ttl   time.Duration
}

// NewResultStore wraps a byte cache. A zero ttl lets each cache layer apply
// its own default.
func NewResultStore(c Cache, ttl time.Duration) *ResultStore {
	return &ResultStore{cache: c, ttl: ttl}
}

// NewResultStoreFromConfig builds the layered store the config describes.
// Returns nil when caching is disabled.
func NewResultStoreFromConfig(cfg model.CacheConfig) *ResultStore {
	if !cfg.Enabled {
		return nil
	}

	layered := NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
	return NewResultStore(layered, 0)
}

// Save stores one analysis result.
func (s *ResultStore) Save(contentID, ownerID string, result *model.ManipulationAnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	return s.cache.Set(ResultKey(contentID, ownerID), data, s.ttl)
}

// Get returns a previously stored result. Missing and unreadable entries
// both report a miss.
func (s *ResultStore) Get(contentID, ownerID string) (*model.ManipulationAnalysisResult, bool) {
	data, found := s.cache.Get(ResultKey(contentID, ownerID))
	if !found {
		return nil, false
	}

	var result model.ManipulationAnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}

	return &result, true
}

// Delete drops a stored result.
func (s *ResultStore) Delete(contentID, ownerID string) error {
	return s.cache.Delete(ResultKey(contentID, ownerID))
}
