package model

import "strings"

// DetectedClaim is a verifiable or interpretive statement extracted from the
// source transcript. Claims are created during the extraction pass; the
// verification step overwrites Status exactly once (re-verification replaces,
// never appends).
type DetectedClaim struct {
	ID                     string             `json:"id"`
	Text                   string             `json:"text"`                    // Exact text as extracted
	Type                   ClaimType          `json:"type"`                    // factual, causal, normative, prediction, prescriptive
	Confidence             float64            `json:"confidence"`              // Detection confidence (0-1)
	SegmentIndex           int                `json:"segment_index"`           // Originating segment, -1 if unassigned
	Status                 VerificationStatus `json:"verification_status"`     // verified, disputed, unverified, unverifiable
	VerificationConfidence float64            `json:"verification_confidence"` // Confidence in Status (0-1)
	VerificationDetail     string             `json:"verification_detail,omitempty"`
	SupportingSources      []string           `json:"supporting_sources,omitempty"`
	ContradictingSources   []string           `json:"contradicting_sources,omitempty"`
}

// ClaimType categorizes the nature of a claim
type ClaimType string

const (
	ClaimTypeFactual      ClaimType = "factual"      // Checkable statements of fact
	ClaimTypeCausal       ClaimType = "causal"       // X causes/caused Y
	ClaimTypeNormative    ClaimType = "normative"    // Value judgments (good/bad, right/wrong)
	ClaimTypePrediction   ClaimType = "prediction"   // Statements about the future
	ClaimTypePrescriptive ClaimType = "prescriptive" // What should/must be done
)

// ParseClaimType maps a free-form type label from an LLM response to a known
// ClaimType, defaulting to factual when the label is unrecognized.
func ParseClaimType(s string) ClaimType {
	switch ClaimType(strings.ToLower(strings.TrimSpace(s))) {
	case ClaimTypeCausal:
		return ClaimTypeCausal
	case ClaimTypeNormative:
		return ClaimTypeNormative
	case ClaimTypePrediction:
		return ClaimTypePrediction
	case ClaimTypePrescriptive:
		return ClaimTypePrescriptive
	default:
		return ClaimTypeFactual
	}
}

// VerificationStatus is the outcome of checking a claim against external sources
type VerificationStatus string

const (
	StatusVerified     VerificationStatus = "verified"     // Supporting sources clearly outweigh contradicting ones
	StatusDisputed     VerificationStatus = "disputed"     // Contradicting sources clearly outweigh supporting ones
	StatusUnverified   VerificationStatus = "unverified"   // No clear signal either way
	StatusUnverifiable VerificationStatus = "unverifiable" // Too vague or impossible to search
)
