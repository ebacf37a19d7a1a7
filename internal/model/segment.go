package model

// TimedSegment is one entry of the timestamped transcript data supplied by the
// content-extraction subsystem. Start and Duration are in seconds.
type TimedSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// AnalyzedSegment is one chunk of the transcript under analysis. Segments are
// built once at the start of a run (from timing data when available, otherwise
// fixed word-count chunks) and their boundaries never change mid-pipeline.
// Claims and annotations are tied to segments by ID; each belongs to at most
// one segment.
type AnalyzedSegment struct {
	Index         int      `json:"index"`
	Text          string   `json:"text"`
	Start         float64  `json:"start"`    // Seconds, zero for word-count chunks
	Duration      float64  `json:"duration"` // Seconds, zero for word-count chunks
	WordCount     int      `json:"word_count"`
	ClaimIDs      []string `json:"claim_ids,omitempty"`
	AnnotationIDs []string `json:"annotation_ids,omitempty"`
}
