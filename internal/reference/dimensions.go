// Package reference holds the static knowledge base behind the analysis:
// the five scoring dimension definitions and the manipulation technique
// catalog. Both are immutable lookup tables used to render prompts and to
// label output.
package reference

import "github.com/snedea/veracity/internal/model"

// DimensionDefinition describes one scoring axis for prompt rendering and
// report labeling.
type DimensionDefinition struct {
	ID          model.Dimension
	Name        string
	Description string
}

var dimensionDefinitions = []DimensionDefinition{
	{
		ID:   model.DimensionEpistemicIntegrity,
		Name: "Epistemic Integrity",
		Description: "How honestly the speaker handles knowledge and uncertainty: " +
			"distinguishing fact from speculation, acknowledging what is unknown, " +
			"citing sources accurately, and correcting rather than doubling down on errors.",
	},
	{
		ID:   model.DimensionArgumentQuality,
		Name: "Argument Quality",
		Description: "The logical soundness of the reasoning: whether conclusions follow " +
			"from stated premises, whether evidence is relevant and sufficient, and whether " +
			"counterarguments are engaged rather than ignored.",
	},
	{
		ID:   model.DimensionManipulationRisk,
		Name: "Manipulation Risk",
		Description: "The degree to which the content uses psychological pressure instead of " +
			"reasoning: fear appeals, loaded language, false urgency, identity exploitation. " +
			"This axis is inverted: a high score means heavy manipulation, not quality.",
	},
	{
		ID:   model.DimensionRhetoricalCraft,
		Name: "Rhetorical Craft",
		Description: "Skill of the presentation as persuasion: structure, clarity, narrative, " +
			"memorable framing. High craft is neutral in itself; it amplifies whatever else " +
			"the content is doing.",
	},
	{
		ID:   model.DimensionFairnessBalance,
		Name: "Fairness & Balance",
		Description: "How fairly opposing views are represented: strongest-form (steel-man) " +
			"treatment of the other side, proportionate coverage, and disclosure of the " +
			"speaker's own stake or bias.",
	},
}

// Dimensions returns the five definitions in canonical presentation order.
func Dimensions() []DimensionDefinition {
	out := make([]DimensionDefinition, len(dimensionDefinitions))
	copy(out, dimensionDefinitions)
	return out
}

// DimensionByID looks up one definition.
func DimensionByID(id model.Dimension) (DimensionDefinition, bool) {
	for _, d := range dimensionDefinitions {
		if d.ID == id {
			return d, true
		}
	}
	return DimensionDefinition{}, false
}
