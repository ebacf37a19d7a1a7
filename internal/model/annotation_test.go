package model

import (
	"encoding/json"
	"testing"
)

func TestSeverityOrdering(t *testing.T) {
	if !(SeverityLow < SeverityMedium && SeverityMedium < SeverityHigh) {
		t.Fatal("Severity must order low < medium < high")
	}

	// Finding the highest severity in a group relies on numeric comparison
	seen := []Severity{SeverityMedium, SeverityLow, SeverityHigh, SeverityMedium}
	max := SeverityLow
	for _, s := range seen {
		if s > max {
			max = s
		}
	}
	if max != SeverityHigh {
		t.Errorf("Expected max severity high, got %s", max)
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"high", SeverityHigh},
		{"HIGH", SeverityHigh},
		{"critical", SeverityHigh},
		{"medium", SeverityMedium},
		{"low", SeverityLow},
		{" low ", SeverityLow},
		{"", SeverityMedium},
		{"weird", SeverityMedium},
	}
	for _, tt := range tests {
		if got := ParseSeverity(tt.in); got != tt.want {
			t.Errorf("ParseSeverity(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSeverityJSON(t *testing.T) {
	ann := SegmentAnnotation{Technique: "false_dichotomy", Severity: SeverityHigh}
	data, err := json.Marshal(ann)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var back SegmentAnnotation
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Severity != SeverityHigh {
		t.Errorf("Expected severity high after round trip, got %s", back.Severity)
	}
}

func TestParseClaimType(t *testing.T) {
	tests := []struct {
		in   string
		want ClaimType
	}{
		{"factual", ClaimTypeFactual},
		{"Causal", ClaimTypeCausal},
		{"NORMATIVE", ClaimTypeNormative},
		{"prediction", ClaimTypePrediction},
		{"prescriptive", ClaimTypePrescriptive},
		{"opinion", ClaimTypeFactual},
		{"", ClaimTypeFactual},
	}
	for _, tt := range tests {
		if got := ParseClaimType(tt.in); got != tt.want {
			t.Errorf("ParseClaimType(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
