package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/snedea/veracity/internal/model"
)

func sampleResult() *model.ManipulationAnalysisResult {
	return &model.ManipulationAnalysisResult{
		AnalysisMode:    model.ModeDeep,
		PassesCompleted: 3,
		OverallScore:    72.4,
		OverallGrade:    "C-",
		DimensionScores: map[model.Dimension]model.DimensionScore{
			model.DimensionEpistemicIntegrity: {
				Score:       80,
				Confidence:  0.9,
				Explanation: "Cites primary sources for most figures.",
				RedFlags:    []string{"one unsourced statistic"},
				KeyExamples: []string{"according to the March report"},
			},
			model.DimensionManipulationRisk: {Score: 30, Confidence: 0.8},
		},
		Claims: []model.DetectedClaim{
			{Text: "Rates rose twice this year", Type: model.ClaimTypeFactual, Status: model.StatusVerified},
		},
		ClaimsVerified: 1,
		DeviceSummary: model.DeviceSummary{
			TotalDetections: 2,
			Techniques: []model.TechniqueUsage{
				{
					Technique:   "fear_appeal",
					Name:        "Fear Appeal",
					Category:    "emotional_exploitation",
					Count:       2,
					Examples:    []string{"we are running out of time"},
					MaxSeverity: model.SeverityHigh,
				},
			},
			MostUsed: []string{"fear_appeal"},
		},
		ExecutiveSummary:         "Mostly sourced with occasional pressure framing.",
		TopConcerns:              []string{"urgency framing"},
		TopStrengths:             []string{"cites primary sources"},
		CharitableInterpretation: "An urgent but honest appeal.",
		ConcerningInterpretation: "Deadline pressure to suppress scrutiny.",
		TokensUsed:               2400,
		Provider:                 "openai",
		Title:                    "Budget speech",
		AnalyzedAt:               time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	r := NewRenderer(true)

	if err := r.RenderJSON(sampleResult(), path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected readable file, got %v", err)
	}

	var decoded model.ManipulationAnalysisResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.OverallGrade != "C-" {
		t.Errorf("OverallGrade = %s after round trip", decoded.OverallGrade)
	}
	if len(decoded.DimensionScores) != 2 {
		t.Errorf("DimensionScores lost in round trip: %d", len(decoded.DimensionScores))
	}
	if decoded.DimensionScores[model.DimensionEpistemicIntegrity].Score != 80 {
		t.Error("Dimension score lost in round trip")
	}
}

func TestRenderJSONUnwritablePath(t *testing.T) {
	r := NewRenderer(true)
	path := filepath.Join(t.TempDir(), "missing", "result.json")

	if err := r.RenderJSON(sampleResult(), path); err == nil {
		t.Fatal("Expected error for unwritable path")
	}
}

func TestRenderMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.md")
	r := NewRenderer(true)

	if err := r.RenderMarkdown(sampleResult(), path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected readable file, got %v", err)
	}
	md := string(data)

	checks := []string{
		"# Manipulation Analysis: Budget speech",
		"**Mode:** deep | **Overall:** 72.4/100 (C-) | **Passes:** 3 | **Tokens:** 2400",
		"| Epistemic Integrity | 80 | 0.90 |",
		"| Manipulation Risk | 30 | 0.80 |",
		"### Epistemic Integrity",
		"- one unsourced statistic",
		"## Techniques Detected (2)",
		"**Fear Appeal** (emotional_exploitation) ×2 — max severity high",
		"\"we are running out of time\"",
		"## Claims (1 extracted, 1 verified)",
		"`verified` \"Rates rose twice this year\" (factual)",
		"## Executive Summary",
		"**Charitable reading:** An urgent but honest appeal.",
		"*Generated by veracity on 2026-03-01 12:00 UTC.",
	}
	for _, want := range checks {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q", want)
		}
	}

	// Dimensions without an explanation get a table row but no detail section.
	if strings.Contains(md, "### Manipulation Risk") {
		t.Error("Explanation-free dimension must not get a detail section")
	}
}

func TestRenderMarkdownWithoutFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.md")
	r := NewRenderer(false)

	if err := r.RenderMarkdown(sampleResult(), path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "Generated by veracity") {
		t.Error("Footer rendered despite being disabled")
	}
}

func TestRenderMarkdownUntitled(t *testing.T) {
	result := sampleResult()
	result.Title = ""

	path := filepath.Join(t.TempDir(), "result.md")
	if err := NewRenderer(false).RenderMarkdown(result, path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "# Manipulation Analysis: Transcript\n") {
		t.Errorf("Untitled result heading wrong: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestRenderMarkdownDegradedResult(t *testing.T) {
	result := &model.ManipulationAnalysisResult{
		AnalysisMode:    model.ModeQuick,
		OverallGrade:    "F",
		DimensionScores: map[model.Dimension]model.DimensionScore{},
	}

	path := filepath.Join(t.TempDir(), "result.md")
	if err := NewRenderer(true).RenderMarkdown(result, path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, _ := os.ReadFile(path)
	md := string(data)
	if strings.Contains(md, "## Dimension Scores") {
		t.Error("Empty scores must not render a table")
	}
	if strings.Contains(md, "## Claims") {
		t.Error("No claims, no claims section")
	}
}
