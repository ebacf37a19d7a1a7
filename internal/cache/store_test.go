package cache

import (
	"testing"
	"time"

	"github.com/snedea/veracity/internal/model"
)

func storedResult() *model.ManipulationAnalysisResult {
	return &model.ManipulationAnalysisResult{
		AnalysisMode: model.ModeQuick,
		OverallScore: 81.5,
		OverallGrade: "B-",
		DimensionScores: map[model.Dimension]model.DimensionScore{
			model.DimensionArgumentQuality: {Score: 78, Confidence: 0.8},
		},
		ExecutiveSummary: "Reasonably argued.",
		TokensUsed:       1500,
	}
}

func TestResultStore_SaveGet(t *testing.T) {
	store := NewResultStore(NewMemoryCache(time.Minute, time.Minute), 0)

	if err := store.Save("content-1", "owner-1", storedResult()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, found := store.Get("content-1", "owner-1")
	if !found {
		t.Fatal("Expected hit for saved result")
	}
	if got.OverallGrade != "B-" || got.OverallScore != 81.5 {
		t.Errorf("Result altered in storage: %s %f", got.OverallGrade, got.OverallScore)
	}
	if got.DimensionScores[model.DimensionArgumentQuality].Score != 78 {
		t.Error("Dimension scores lost in storage")
	}
	if got.ExecutiveSummary != "Reasonably argued." {
		t.Errorf("Summary altered: %q", got.ExecutiveSummary)
	}
}

func TestResultStore_Miss(t *testing.T) {
	store := NewResultStore(NewMemoryCache(time.Minute, time.Minute), 0)

	if _, found := store.Get("never-saved", "owner-1"); found {
		t.Error("Expected miss for absent result")
	}
}

func TestResultStore_OwnerIsolation(t *testing.T) {
	store := NewResultStore(NewMemoryCache(time.Minute, time.Minute), 0)

	if err := store.Save("content-1", "owner-1", storedResult()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, found := store.Get("content-1", "owner-2"); found {
		t.Error("Another owner must not see the result")
	}
}

func TestResultStore_CorruptPayload(t *testing.T) {
	mem := NewMemoryCache(time.Minute, time.Minute)
	store := NewResultStore(mem, 0)

	_ = mem.Set(ResultKey("content-1", "owner-1"), []byte("{broken"), time.Minute)

	if _, found := store.Get("content-1", "owner-1"); found {
		t.Error("Corrupt payload must count as a miss")
	}
}

func TestResultStore_Delete(t *testing.T) {
	store := NewResultStore(NewMemoryCache(time.Minute, time.Minute), 0)

	_ = store.Save("content-1", "owner-1", storedResult())
	if err := store.Delete("content-1", "owner-1"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, found := store.Get("content-1", "owner-1"); found {
		t.Error("Expected miss after delete")
	}
}

func TestNewResultStoreFromConfig(t *testing.T) {
	store := NewResultStoreFromConfig(model.CacheConfig{
		Enabled:   true,
		Dir:       t.TempDir(),
		MemoryTTL: time.Minute,
		DiskTTL:   time.Hour,
	})
	if store == nil {
		t.Fatal("Expected store when caching is enabled")
	}

	if err := store.Save("content-1", "owner-1", storedResult()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := store.Get("content-1", "owner-1"); !found {
		t.Error("Expected hit through the layered store")
	}
}

func TestNewResultStoreFromConfig_Disabled(t *testing.T) {
	if store := NewResultStoreFromConfig(model.CacheConfig{Enabled: false}); store != nil {
		t.Error("Expected nil store when caching is disabled")
	}
}
