package pipeline

import (
	"strings"

	"github.com/snedea/veracity/internal/model"
)

// chunkWords is the target segment size when no timing data is supplied.
const chunkWords = 100

// BuildSegments chunks the transcript once per run. Timed segments from the
// extraction subsystem are used verbatim when present; otherwise the
// transcript is split into fixed ~100-word chunks with index-only boundaries.
// Segment boundaries never change after this call.
func BuildSegments(transcript string, timed []model.TimedSegment) []model.AnalyzedSegment {
	if len(timed) > 0 {
		segments := make([]model.AnalyzedSegment, 0, len(timed))
		for _, ts := range timed {
			text := strings.TrimSpace(ts.Text)
			if text == "" {
				continue
			}
			segments = append(segments, model.AnalyzedSegment{
				Index:     len(segments),
				Text:      text,
				Start:     ts.Start,
				Duration:  ts.Duration,
				WordCount: len(strings.Fields(text)),
			})
		}
		return segments
	}

	words := strings.Fields(transcript)
	if len(words) == 0 {
		return nil
	}

	segments := make([]model.AnalyzedSegment, 0, len(words)/chunkWords+1)
	for start := 0; start < len(words); start += chunkWords {
		end := start + chunkWords
		if end > len(words) {
			end = len(words)
		}
		chunk := words[start:end]
		segments = append(segments, model.AnalyzedSegment{
			Index:     len(segments),
			Text:      strings.Join(chunk, " "),
			WordCount: len(chunk),
		})
	}
	return segments
}

// AssignClaims ties each claim to the first segment (in list order) whose
// lower-cased text contains the claim's lower-cased text. A claim matches at
// most one segment; unmatched claims keep SegmentIndex -1. Re-running on the
// same inputs produces the same assignment: segment claim lists are rebuilt
// from scratch, never appended across runs.
func AssignClaims(segments []model.AnalyzedSegment, claims []model.DetectedClaim) {
	for i := range segments {
		segments[i].ClaimIDs = nil
	}

	for i := range claims {
		claims[i].SegmentIndex = -1
		needle := strings.ToLower(strings.TrimSpace(claims[i].Text))
		if needle == "" {
			continue
		}

		for j := range segments {
			if strings.Contains(strings.ToLower(segments[j].Text), needle) {
				claims[i].SegmentIndex = segments[j].Index
				segments[j].ClaimIDs = append(segments[j].ClaimIDs, claims[i].ID)
				break
			}
		}
	}
}

// AssignAnnotations does the same first-containing-segment assignment for
// technique annotations, matching on the annotated span.
func AssignAnnotations(segments []model.AnalyzedSegment, annotations []model.SegmentAnnotation) {
	for i := range segments {
		segments[i].AnnotationIDs = nil
	}

	for i := range annotations {
		annotations[i].SegmentIndex = -1
		needle := strings.ToLower(strings.TrimSpace(annotations[i].Span))
		if needle == "" {
			continue
		}

		for j := range segments {
			if strings.Contains(strings.ToLower(segments[j].Text), needle) {
				annotations[i].SegmentIndex = segments[j].Index
				segments[j].AnnotationIDs = append(segments[j].AnnotationIDs, annotations[i].ID)
				break
			}
		}
	}
}
