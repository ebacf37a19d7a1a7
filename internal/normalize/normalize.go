// Package normalize reconciles LLM JSON output against the canonical analysis
// schema. Models are asked for five dimension objects nested under a
// "dimension_scores" key, but in practice flatten them to the top level, vary
// the casing ("Epistemic Integrity", "epistemicIntegrity", "Fairness/Balance"),
// or return bare numbers instead of objects. This package relocates and
// coerces whatever arrived into a total, fully-typed record; it never fails an
// analysis over a shape mismatch.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/snedea/veracity/internal/model"
)

// Defaults applied when a field is absent or a dimension cannot be located.
const (
	DefaultScore      = 50.0
	DefaultConfidence = 0.8
)

// DimensionScores locates each of the five canonical dimensions in a parsed
// LLM response and returns a complete score map. The search order per
// dimension is: the nested "dimension_scores" object first, then top-level
// keys under any accepted spelling. A dimension found nowhere is synthesized
// with the default score and an empty explanation.
func DimensionScores(raw map[string]any) map[model.Dimension]model.DimensionScore {
	nested := foldKeys(locateContainer(raw))
	top := foldKeys(raw)

	out := make(map[model.Dimension]model.DimensionScore, 5)
	for _, dim := range model.Dimensions() {
		key := string(dim)
		if v, ok := nested[key]; ok {
			out[dim] = coerceScore(v)
			continue
		}
		if v, ok := top[key]; ok {
			out[dim] = coerceScore(v)
			continue
		}
		out[dim] = synthesized()
	}
	return out
}

// locateContainer finds the nested dimension-score object, accepting folded
// spellings of the container key itself ("dimensionScores", "Dimension Scores").
func locateContainer(raw map[string]any) map[string]any {
	for k, v := range raw {
		if FoldKey(k) != "dimension_scores" {
			continue
		}
		if obj, ok := v.(map[string]any); ok {
			return obj
		}
	}
	return nil
}

// foldKeys re-indexes a map under canonical key spellings. When two source
// keys fold to the same canonical key, object values win over plain numbers
// so a full record is never shadowed by a bare score.
func foldKeys(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		folded := FoldKey(k)
		if prev, exists := out[folded]; exists {
			_, prevIsObj := prev.(map[string]any)
			_, nextIsObj := v.(map[string]any)
			if prevIsObj || !nextIsObj {
				continue
			}
		}
		out[folded] = v
	}
	return out
}

// FoldKey normalizes a key spelling to the canonical form: camelCase is
// split, everything is lower-cased, spaces, slashes, and hyphens become
// underscores, and any "*_balance" variant collapses to exactly
// "fairness_balance".
func FoldKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)

	prevLower := false
	for _, r := range key {
		switch {
		case r == ' ' || r == '/' || r == '-' || r == '&':
			b.WriteByte('_')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}

	folded := b.String()
	for strings.Contains(folded, "__") {
		folded = strings.ReplaceAll(folded, "__", "_")
	}
	folded = strings.Trim(folded, "_")

	if strings.HasSuffix(folded, "_balance") {
		return string(model.DimensionFairnessBalance)
	}
	return folded
}

// coerceScore turns whatever value the model supplied for a dimension into a
// complete DimensionScore. A plain number is the score with defaults for the
// rest; an object is read field by field with per-field defaults; anything
// else is the synthesized record.
func coerceScore(v any) model.DimensionScore {
	if n, ok := asNumber(v); ok {
		return model.DimensionScore{
			Score:                  clamp(n, 0, 100),
			Confidence:             DefaultConfidence,
			RedFlags:               []string{},
			Strengths:              []string{},
			KeyExamples:            []string{},
			ContributingTechniques: []string{},
		}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return synthesized()
	}

	return model.DimensionScore{
		Score:                  clamp(Float(obj, "score", DefaultScore), 0, 100),
		Confidence:             clamp(Float(obj, "confidence", DefaultConfidence), 0, 1),
		Explanation:            String(obj, "explanation", ""),
		RedFlags:               StringList(obj, "red_flags"),
		Strengths:              StringList(obj, "strengths"),
		KeyExamples:            StringList(obj, "key_examples"),
		ContributingTechniques: StringList(obj, "contributing_techniques"),
	}
}

func synthesized() model.DimensionScore {
	return model.DimensionScore{
		Score:                  DefaultScore,
		Confidence:             DefaultConfidence,
		RedFlags:               []string{},
		Strengths:              []string{},
		KeyExamples:            []string{},
		ContributingTechniques: []string{},
	}
}

// asNumber accepts the numeric shapes encoding/json can produce, plus
// numeric strings, which some models emit for scores.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseJSONObject extracts the JSON object from raw LLM content, tolerating
// surrounding prose and markdown code fences.
func ParseJSONObject(content string) (map[string]any, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, fmt.Errorf("empty content")
	}

	// Fast path: the whole content is the object.
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		return obj, nil
	}

	// Slice out the outermost {...} span and retry. Covers fenced blocks and
	// leading "Here is the JSON:" chatter in one move.
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in content")
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("parse JSON object: %w", err)
	}
	return obj, nil
}

// String reads a string field with a default.
func String(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}

// Float reads a numeric field with a default.
func Float(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		if n, isNum := asNumber(v); isNum {
			return n
		}
	}
	return def
}

// StringList reads a list-of-strings field, dropping non-string entries.
// Absent or malformed fields yield an empty (never nil) slice.
func StringList(m map[string]any, key string) []string {
	out := []string{}
	items, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, isStr := item.(string); isStr {
			out = append(out, s)
		}
	}
	return out
}

// ObjectList reads a list-of-objects field, dropping non-object entries.
func ObjectList(m map[string]any, key string) []map[string]any {
	var out []map[string]any
	items, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if obj, isObj := item.(map[string]any); isObj {
			out = append(out, obj)
		}
	}
	return out
}
