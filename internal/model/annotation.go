package model

import (
	"encoding/json"
	"strings"
)

// SegmentAnnotation marks one occurrence of a manipulation technique in a
// text span. Annotations are created during the technique-scan pass and are
// immutable afterward.
type SegmentAnnotation struct {
	ID           string   `json:"id"`
	SegmentIndex int      `json:"segment_index"` // Containing segment, -1 if unassigned
	Span         string   `json:"span"`          // The quoted phrase the technique was found in
	Technique    string   `json:"technique"`     // Technique identifier (see reference catalog)
	Category     string   `json:"category"`
	Confidence   float64  `json:"confidence"` // 0-1
	Explanation  string   `json:"explanation"`
	Severity     Severity `json:"severity"`
}

// Severity ranks how serious a technique occurrence is. The ordering
// low < medium < high is total: numeric comparison on the underlying value
// is the canonical way to find the highest severity in a group.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// ParseSeverity maps a free-form severity label to a Severity, defaulting to
// medium when the label is unrecognized.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "critical", "severe":
		return SeverityHigh
	case "low", "minor":
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// MarshalJSON renders the severity as its lowercase label.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the lowercase labels produced by MarshalJSON.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	*s = ParseSeverity(label)
	return nil
}
