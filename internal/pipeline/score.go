package pipeline

import (
	"sort"

	"github.com/snedea/veracity/internal/model"
	"github.com/snedea/veracity/internal/reference"
)

// dimensionWeights combines the five axes into the overall score. Weights are
// equal today; a re-weighting is a one-table edit. manipulation_risk is NOT
// negated here - OverallScore inverts it before weighting, so the table stays
// all-positive.
var dimensionWeights = map[model.Dimension]float64{
	model.DimensionEpistemicIntegrity: 0.2,
	model.DimensionArgumentQuality:    0.2,
	model.DimensionManipulationRisk:   0.2,
	model.DimensionRhetoricalCraft:    0.2,
	model.DimensionFairnessBalance:    0.2,
}

// OverallScore aggregates dimension scores into one 0-100 figure.
// manipulation_risk contributes inverted (100 - score): a transcript scoring
// 90 on manipulation pulls the overall DOWN, never up. An empty score map
// (degraded run) yields 0.
func OverallScore(scores map[model.Dimension]model.DimensionScore) float64 {
	total := 0.0
	weightSum := 0.0

	for dim, weight := range dimensionWeights {
		ds, ok := scores[dim]
		if !ok {
			continue
		}

		value := ds.Score
		if dim.Inverted() {
			value = 100 - value
		}
		total += value * weight
		weightSum += weight
	}

	if weightSum == 0 {
		return 0
	}
	return total / weightSum
}

// Grade maps an overall score to a letter grade on fixed thresholds.
func Grade(score float64) string {
	switch {
	case score >= 97:
		return "A+"
	case score >= 93:
		return "A"
	case score >= 90:
		return "A-"
	case score >= 87:
		return "B+"
	case score >= 83:
		return "B"
	case score >= 80:
		return "B-"
	case score >= 77:
		return "C+"
	case score >= 73:
		return "C"
	case score >= 70:
		return "C-"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// maxDeviceExamples caps the example phrases kept per technique.
const maxDeviceExamples = 3

// BuildDeviceSummary rolls all annotations up by technique: occurrence
// counts, up to three example phrases each, and the highest severity seen.
// Techniques are sorted by count descending (ties by identifier) and the
// most-used list is the top five.
func BuildDeviceSummary(annotations []model.SegmentAnnotation) model.DeviceSummary {
	byTechnique := make(map[string]*model.TechniqueUsage)

	for _, a := range annotations {
		if a.Technique == "" {
			continue
		}

		usage, ok := byTechnique[a.Technique]
		if !ok {
			usage = &model.TechniqueUsage{
				Technique: a.Technique,
				Name:      a.Technique,
				Category:  a.Category,
			}
			if t, found := reference.TechniqueByID(a.Technique); found {
				usage.Name = t.Name
				usage.Category = t.Category
			}
			byTechnique[a.Technique] = usage
		}

		usage.Count++
		if a.Severity > usage.MaxSeverity {
			usage.MaxSeverity = a.Severity
		}
		if len(usage.Examples) < maxDeviceExamples {
			if example := deviceExample(a); example != "" {
				usage.Examples = append(usage.Examples, example)
			}
		}
	}

	techniques := make([]model.TechniqueUsage, 0, len(byTechnique))
	for _, usage := range byTechnique {
		techniques = append(techniques, *usage)
	}
	sort.Slice(techniques, func(i, j int) bool {
		if techniques[i].Count != techniques[j].Count {
			return techniques[i].Count > techniques[j].Count
		}
		return techniques[i].Technique < techniques[j].Technique
	})

	mostUsed := make([]string, 0, 5)
	for _, usage := range techniques {
		if len(mostUsed) == 5 {
			break
		}
		mostUsed = append(mostUsed, usage.Technique)
	}

	return model.DeviceSummary{
		TotalDetections: len(annotations),
		Techniques:      techniques,
		MostUsed:        mostUsed,
	}
}

// deviceExample picks the example text for one detection: the quoted span
// when present, otherwise the explanation.
func deviceExample(a model.SegmentAnnotation) string {
	if a.Span != "" {
		return a.Span
	}
	return a.Explanation
}
