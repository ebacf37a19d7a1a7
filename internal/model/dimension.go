package model

// Dimension identifies one of the five fixed axes a transcript is scored on.
type Dimension string

const (
	DimensionEpistemicIntegrity Dimension = "epistemic_integrity"
	DimensionArgumentQuality    Dimension = "argument_quality"
	DimensionManipulationRisk   Dimension = "manipulation_risk"
	DimensionRhetoricalCraft    Dimension = "rhetorical_craft"
	DimensionFairnessBalance    Dimension = "fairness_balance"
)

// Dimensions returns the canonical axes in presentation order.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionEpistemicIntegrity,
		DimensionArgumentQuality,
		DimensionManipulationRisk,
		DimensionRhetoricalCraft,
		DimensionFairnessBalance,
	}
}

// Inverted reports whether high scores on this axis indicate a problem.
// manipulation_risk is the only inverted axis: 90 means heavily manipulative,
// while 90 on any other axis means strong. Aggregation and labeling must
// never average the inverted axis in the same direction as the rest.
func (d Dimension) Inverted() bool {
	return d == DimensionManipulationRisk
}

// DimensionScore is the assessment of a transcript along one axis.
type DimensionScore struct {
	Score                  float64  `json:"score"`      // 0-100
	Confidence             float64  `json:"confidence"` // 0-1
	Explanation            string   `json:"explanation"`
	RedFlags               []string `json:"red_flags"`
	Strengths              []string `json:"strengths"`
	KeyExamples            []string `json:"key_examples"`
	ContributingTechniques []string `json:"contributing_techniques"`
}
