package model

import "time"

// AnalysisMode selects the depth of a pipeline run
type AnalysisMode string

const (
	ModeQuick AnalysisMode = "quick" // Single pass, low latency
	ModeDeep  AnalysisMode = "deep"  // Sequential multi-pass analysis
)

// AnalysisRequest carries everything the pipeline needs for one run.
type AnalysisRequest struct {
	Transcript    string         `json:"transcript"`
	TimedSegments []TimedSegment `json:"segments,omitempty"` // Optional timing data from extraction
	Mode          AnalysisMode   `json:"mode"`
	VerifyClaims  bool           `json:"verify_claims"`
	Title         string         `json:"title,omitempty"`  // Optional, for prompt context
	Author        string         `json:"author,omitempty"` // Optional, for prompt context
}

// ManipulationAnalysisResult is the aggregate output of one pipeline run.
// It is created exactly once at the end of the run and never mutated after
// return; the caching layer persists it verbatim.
type ManipulationAnalysisResult struct {
	AnalysisMode    AnalysisMode `json:"analysis_mode"`
	PassesCompleted int          `json:"passes_completed"`

	OverallScore float64 `json:"overall_score"` // 0-100
	OverallGrade string  `json:"overall_grade"` // A+ .. F

	// DimensionScores always holds all five canonical dimensions once the
	// scoring pass ran; it is empty only when the run degraded before scoring.
	DimensionScores map[Dimension]DimensionScore `json:"dimension_scores"`

	Segments    []AnalyzedSegment   `json:"segments"`
	Claims      []DetectedClaim     `json:"claims"`
	Annotations []SegmentAnnotation `json:"annotations"`

	DeviceSummary DeviceSummary `json:"device_summary"`

	ExecutiveSummary         string   `json:"executive_summary"`
	TopConcerns              []string `json:"top_concerns"`
	TopStrengths             []string `json:"top_strengths"`
	CharitableInterpretation string   `json:"charitable_interpretation"`
	ConcerningInterpretation string   `json:"concerning_interpretation"`

	ClaimsVerified  int     `json:"claims_verified"` // Claims actually run through verification
	TokensUsed      int     `json:"tokens_used"`
	Provider        string  `json:"provider,omitempty"` // LLM backend that served the run
	DurationSeconds float64 `json:"duration_seconds"`

	Title      string    `json:"title,omitempty"`
	Author     string    `json:"author,omitempty"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// DeviceSummary aggregates technique occurrences across the whole transcript.
type DeviceSummary struct {
	TotalDetections int              `json:"total_detections"`
	Techniques      []TechniqueUsage `json:"techniques"` // Sorted by count, descending
	MostUsed        []string         `json:"most_used"`  // Top 5 technique identifiers
}

// TechniqueUsage is the per-technique rollup inside a DeviceSummary.
type TechniqueUsage struct {
	Technique   string   `json:"technique"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Count       int      `json:"count"`
	Examples    []string `json:"examples"` // Up to 3 example phrases or explanations
	MaxSeverity Severity `json:"max_severity"`
}
