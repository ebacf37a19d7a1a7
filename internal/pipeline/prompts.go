package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/snedea/veracity/internal/model"
	"github.com/snedea/veracity/internal/reference"
)

// dimensionSchema is the JSON shape requested for the five-axis scoring
// block. The normalizer repairs deviations, but asking precisely keeps the
// repair rate down.
const dimensionSchema = `"dimension_scores": {
  "epistemic_integrity": {"score": <0-100>, "confidence": <0-1>, "explanation": "...", "red_flags": ["..."], "strengths": ["..."], "key_examples": ["..."], "contributing_techniques": ["<technique id>"]},
  "argument_quality": {...same fields...},
  "manipulation_risk": {...same fields...},
  "rhetorical_craft": {...same fields...},
  "fairness_balance": {...same fields...}
}`

const synthesisSchema = `"executive_summary": "<3-4 sentences>",
"top_concerns": ["..."],
"top_strengths": ["..."],
"charitable_interpretation": "<1-2 sentences>",
"concerning_interpretation": "<1-2 sentences>"`

// buildQuickPrompts produces the single-pass prompt pair: the full reference
// catalog goes into the system prompt and one response carries scores,
// claims, techniques, and synthesis together.
func buildQuickPrompts(req model.AnalysisRequest) (string, string) {
	system := fmt.Sprintf(`You are a media-literacy analyst. You evaluate how a transcript argues - you NEVER judge whether its political or moral stance is correct.

Score the transcript on five dimensions:
%s

RULES:
1. manipulation_risk is inverted: high score = heavy manipulation. The other four: high score = strong.
2. Cite exact phrases from the transcript as key_examples; do not paraphrase them.
3. Use ONLY technique identifiers from this catalog:
%s
4. Extract the main verifiable or interpretive claims (at most 10).
5. Respond with a single JSON object and nothing else:

{
%s,
"claims": [{"text": "<exact text from transcript>", "type": "factual|causal|normative|prediction|prescriptive", "confidence": <0-1>}],
"techniques": [{"span": "<exact phrase>", "technique": "<technique id>", "confidence": <0-1>, "explanation": "...", "severity": "low|medium|high"}],
%s
}`, renderDimensionReference(), renderTechniqueReference(), dimensionSchema, synthesisSchema)

	return system, transcriptPrompt(req, req.Transcript)
}

// buildClaimPrompts produces the deep-mode claim extraction pair. This pass
// runs on the cheaper model, so the prompt carries no catalog.
func buildClaimPrompts(req model.AnalysisRequest) (string, string) {
	system := `You are a claim extraction assistant. You identify checkable statements in a transcript - you NEVER assess whether they are true.

RULES:
1. Extract every distinct claim a fact-checker could examine (at most 25).
2. Copy the claim text EXACTLY as it appears in the transcript; verbatim text is required for locating claims later.
3. Classify each claim: factual (checkable fact), causal (X causes Y), normative (value judgment), prediction (about the future), prescriptive (what should be done).
4. Respond with a single JSON object and nothing else:

{"claims": [{"text": "<exact text>", "type": "factual|causal|normative|prediction|prescriptive", "confidence": <0-1>}]}`

	return system, transcriptPrompt(req, req.Transcript)
}

// buildTechniquePrompts produces the deep-mode manipulation scan pair.
func buildTechniquePrompts(req model.AnalysisRequest) (string, string) {
	system := fmt.Sprintf(`You are a manipulation-technique scanner. You locate rhetorical devices in a transcript - you NEVER judge the speaker's conclusions.

Use ONLY technique identifiers from this catalog:
%s

RULES:
1. Report each occurrence separately; the same technique can appear many times.
2. Copy the span EXACTLY as it appears in the transcript.
3. Severity reflects how strongly the device pressures the audience: low, medium, or high.
4. Respond with a single JSON object and nothing else:

{"techniques": [{"span": "<exact phrase>", "technique": "<technique id>", "confidence": <0-1>, "explanation": "...", "severity": "low|medium|high"}]}`,
		renderTechniqueReference())

	return system, transcriptPrompt(req, req.Transcript)
}

// buildScoringPrompts produces the deep-mode dimension scoring pair. Earlier
// passes are summarized statistically rather than inlined, keeping the prompt
// bounded regardless of how many claims and detections they produced.
func buildScoringPrompts(req model.AnalysisRequest, stats string) (string, string) {
	system := fmt.Sprintf(`You are a media-literacy analyst. You evaluate how a transcript argues - you NEVER judge whether its political or moral stance is correct.

Score the transcript on five dimensions:
%s

Findings from earlier analysis passes:
%s

RULES:
1. manipulation_risk is inverted: high score = heavy manipulation. The other four: high score = strong.
2. Cite exact phrases from the transcript as key_examples; do not paraphrase them.
3. contributing_techniques must use identifiers from this catalog:
%s
4. Respond with a single JSON object and nothing else:

{
%s,
%s
}`, renderDimensionReference(), stats, renderTechniqueReference(), dimensionSchema, synthesisSchema)

	return system, transcriptPrompt(req, req.Transcript)
}

// transcriptPrompt assembles the user prompt: optional title/author context,
// then the transcript itself.
func transcriptPrompt(req model.AnalysisRequest, transcript string) string {
	var b strings.Builder
	if req.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", req.Title)
	}
	if req.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", req.Author)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("Transcript:\n")
	b.WriteString(transcript)
	return b.String()
}

// renderDimensionReference renders the five axis definitions as a bullet list.
func renderDimensionReference() string {
	var b strings.Builder
	for _, d := range reference.Dimensions() {
		fmt.Fprintf(&b, "- %s (%s): %s\n", d.ID, d.Name, d.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderTechniqueReference renders the catalog grouped by category.
func renderTechniqueReference() string {
	byCategory := make(map[string][]reference.Technique)
	for _, t := range reference.Techniques() {
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}

	var b strings.Builder
	for _, category := range reference.Categories() {
		fmt.Fprintf(&b, "%s:\n", category)
		for _, t := range byCategory[category] {
			fmt.Fprintf(&b, "  - %s: %s\n", t.ID, t.Description)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// passStatistics condenses the extraction and scan passes into a few lines
// for the scoring prompt: claim counts by type plus the five most frequent
// techniques.
func passStatistics(claims []model.DetectedClaim, annotations []model.SegmentAnnotation) string {
	var b strings.Builder

	typeCounts := make(map[model.ClaimType]int)
	for _, c := range claims {
		typeCounts[c.Type]++
	}
	fmt.Fprintf(&b, "Claims extracted: %d", len(claims))
	if len(claims) > 0 {
		parts := make([]string, 0, len(typeCounts))
		for _, ct := range []model.ClaimType{
			model.ClaimTypeFactual, model.ClaimTypeCausal, model.ClaimTypeNormative,
			model.ClaimTypePrediction, model.ClaimTypePrescriptive,
		} {
			if n := typeCounts[ct]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s: %d", ct, n))
			}
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Technique detections: %d", len(annotations))
	if top := topTechniques(annotations, 5); len(top) > 0 {
		parts := make([]string, 0, len(top))
		for _, t := range top {
			parts = append(parts, fmt.Sprintf("%s (%d)", t.id, t.count))
		}
		fmt.Fprintf(&b, ". Most frequent: %s", strings.Join(parts, ", "))
	}

	return b.String()
}

type techniqueCount struct {
	id    string
	count int
}

// topTechniques counts annotations per technique and returns the n most
// frequent, ties broken by identifier so the output is stable.
func topTechniques(annotations []model.SegmentAnnotation, n int) []techniqueCount {
	counts := make(map[string]int)
	for _, a := range annotations {
		if a.Technique != "" {
			counts[a.Technique]++
		}
	}

	out := make([]techniqueCount, 0, len(counts))
	for id, count := range counts {
		out = append(out, techniqueCount{id: id, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].id < out[j].id
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}
