package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/snedea/veracity/internal/model"
	"github.com/snedea/veracity/internal/reference"
)

// Renderer writes analysis results as JSON or Markdown files and prints the
// stdout summary for CLI runs.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the result as indented JSON.
func (r *Renderer) RenderJSON(result *model.ManipulationAnalysisResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes the result as a Markdown report.
func (r *Renderer) RenderMarkdown(result *model.ManipulationAnalysisResult, path string) error {
	if err := os.WriteFile(path, []byte(r.buildMarkdown(result)), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func (r *Renderer) buildMarkdown(result *model.ManipulationAnalysisResult) string {
	var b strings.Builder

	title := result.Title
	if title == "" {
		title = "Transcript"
	}
	fmt.Fprintf(&b, "# Manipulation Analysis: %s\n\n", title)
	if result.Author != "" {
		fmt.Fprintf(&b, "**Author:** %s\n\n", result.Author)
	}
	fmt.Fprintf(&b, "**Mode:** %s | **Overall:** %.1f/100 (%s) | **Passes:** %d | **Tokens:** %d\n\n",
		result.AnalysisMode, result.OverallScore, result.OverallGrade, result.PassesCompleted, result.TokensUsed)

	if len(result.DimensionScores) > 0 {
		b.WriteString("## Dimension Scores\n\n")
		b.WriteString("| Dimension | Score | Confidence |\n")
		b.WriteString("|---|---|---|\n")
		for _, dim := range model.Dimensions() {
			ds, ok := result.DimensionScores[dim]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "| %s | %.0f | %.2f |\n", dimensionLabel(dim), ds.Score, ds.Confidence)
		}
		b.WriteString("\n")

		for _, dim := range model.Dimensions() {
			ds, ok := result.DimensionScores[dim]
			if !ok || ds.Explanation == "" {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n%s\n\n", dimensionLabel(dim), ds.Explanation)
			writeBulletList(&b, "Red flags", ds.RedFlags)
			writeBulletList(&b, "Strengths", ds.Strengths)
			writeBulletList(&b, "Key examples", ds.KeyExamples)
		}
	}

	if result.DeviceSummary.TotalDetections > 0 {
		fmt.Fprintf(&b, "## Techniques Detected (%d)\n\n", result.DeviceSummary.TotalDetections)
		for _, usage := range result.DeviceSummary.Techniques {
			fmt.Fprintf(&b, "- **%s** (%s) ×%d — max severity %s\n",
				usage.Name, usage.Category, usage.Count, usage.MaxSeverity)
			for _, example := range usage.Examples {
				fmt.Fprintf(&b, "  - %q\n", example)
			}
		}
		b.WriteString("\n")
	}

	if len(result.Claims) > 0 {
		fmt.Fprintf(&b, "## Claims (%d extracted, %d verified)\n\n", len(result.Claims), result.ClaimsVerified)
		for _, claim := range result.Claims {
			fmt.Fprintf(&b, "- `%s` %q (%s)\n", claim.Status, claim.Text, claim.Type)
		}
		b.WriteString("\n")
	}

	if result.ExecutiveSummary != "" {
		fmt.Fprintf(&b, "## Executive Summary\n\n%s\n\n", result.ExecutiveSummary)
	}
	writeBulletList(&b, "Top concerns", result.TopConcerns)
	writeBulletList(&b, "Top strengths", result.TopStrengths)
	if result.CharitableInterpretation != "" {
		fmt.Fprintf(&b, "**Charitable reading:** %s\n\n", result.CharitableInterpretation)
	}
	if result.ConcerningInterpretation != "" {
		fmt.Fprintf(&b, "**Concerning reading:** %s\n\n", result.ConcerningInterpretation)
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "*Generated by veracity on %s. Scores describe rhetorical method, not truth.*\n",
			result.AnalyzedAt.Format("2006-01-02 15:04 UTC"))
	}

	return b.String()
}

// RenderSummary prints a short result box to stdout.
func (r *Renderer) RenderSummary(result *model.ManipulationAnalysisResult) {
	line := strings.Repeat("═", 52)

	fmt.Println(line)
	fmt.Printf("  Manipulation Analysis (%s mode)\n", result.AnalysisMode)
	fmt.Println(line)
	fmt.Printf("  Overall: %.1f/100 (%s)\n\n", result.OverallScore, result.OverallGrade)

	for _, dim := range model.Dimensions() {
		ds, ok := result.DimensionScores[dim]
		if !ok {
			continue
		}
		marker := ""
		if dim.Inverted() {
			marker = "  (high = manipulative)"
		}
		fmt.Printf("  %-22s %5.1f%s\n", dimensionLabel(dim), ds.Score, marker)
	}

	fmt.Println()
	fmt.Printf("  Claims: %d extracted, %d verified\n", len(result.Claims), result.ClaimsVerified)
	fmt.Printf("  Technique detections: %d\n", result.DeviceSummary.TotalDetections)
	if len(result.DeviceSummary.MostUsed) > 0 {
		fmt.Printf("  Most used: %s\n", strings.Join(result.DeviceSummary.MostUsed, ", "))
	}
	fmt.Printf("  Passes: %d | Tokens: %d | Duration: %.1fs\n",
		result.PassesCompleted, result.TokensUsed, result.DurationSeconds)
	fmt.Println(line)
}

// dimensionLabel returns the display name for an axis.
func dimensionLabel(dim model.Dimension) string {
	if def, ok := reference.DimensionByID(dim); ok {
		return def.Name
	}
	return string(dim)
}

func writeBulletList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
