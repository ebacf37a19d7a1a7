package reference

import "sort"

// Technique describes one manipulation or rhetorical pattern the scanner can
// label. The catalog is fixed at build time; IDs are the stable identifiers
// annotations and device summaries refer to.
type Technique struct {
	ID          string
	Name        string
	Category    string
	Description string
}

// Technique categories.
const (
	CategoryEmotional   = "emotional_exploitation"
	CategoryFallacy     = "logical_fallacy"
	CategorySocial      = "social_pressure"
	CategoryFraming     = "framing_control"
	CategoryCredibility = "credibility_games"
)

var techniqueCatalog = map[string]Technique{
	"fear_appeal": {
		ID: "fear_appeal", Name: "Fear Appeal", Category: CategoryEmotional,
		Description: "Invoking danger or catastrophe to push the audience toward a conclusion without weighing evidence.",
	},
	"false_urgency": {
		ID: "false_urgency", Name: "False Urgency", Category: CategoryEmotional,
		Description: "Manufacturing time pressure (act now, before it's too late) so the audience skips deliberation.",
	},
	"loaded_language": {
		ID: "loaded_language", Name: "Loaded Language", Category: CategoryEmotional,
		Description: "Emotionally charged word choice that smuggles a judgment into what is presented as description.",
	},
	"identity_appeal": {
		ID: "identity_appeal", Name: "Identity Appeal", Category: CategoryEmotional,
		Description: "Framing agreement as a marker of group membership so dissent feels like betrayal.",
	},
	"outrage_bait": {
		ID: "outrage_bait", Name: "Outrage Bait", Category: CategoryEmotional,
		Description: "Presenting content primarily to provoke anger, displacing analysis with reaction.",
	},
	"false_dichotomy": {
		ID: "false_dichotomy", Name: "False Dichotomy", Category: CategoryFallacy,
		Description: "Presenting exactly two options when more exist, forcing a choice between extremes.",
	},
	"strawman": {
		ID: "strawman", Name: "Strawman", Category: CategoryFallacy,
		Description: "Refuting a distorted, weaker version of an opposing position instead of the position itself.",
	},
	"slippery_slope": {
		ID: "slippery_slope", Name: "Slippery Slope", Category: CategoryFallacy,
		Description: "Claiming a modest step leads inevitably to an extreme outcome without establishing the chain.",
	},
	"hasty_generalization": {
		ID: "hasty_generalization", Name: "Hasty Generalization", Category: CategoryFallacy,
		Description: "Drawing a sweeping conclusion from one or two examples.",
	},
	"ad_hominem": {
		ID: "ad_hominem", Name: "Ad Hominem", Category: CategoryFallacy,
		Description: "Attacking the person making an argument rather than the argument.",
	},
	"circular_reasoning": {
		ID: "circular_reasoning", Name: "Circular Reasoning", Category: CategoryFallacy,
		Description: "Using the conclusion as its own support, often disguised by rephrasing.",
	},
	"bandwagon": {
		ID: "bandwagon", Name: "Bandwagon", Category: CategorySocial,
		Description: "Treating popularity as proof: everyone is doing or believing it, so it must be right.",
	},
	"appeal_to_authority": {
		ID: "appeal_to_authority", Name: "Misplaced Authority", Category: CategorySocial,
		Description: "Citing a source's status in place of relevant expertise or evidence.",
	},
	"social_proof_stacking": {
		ID: "social_proof_stacking", Name: "Social Proof Stacking", Category: CategorySocial,
		Description: "Piling up testimonials, follower counts, or endorsements as a substitute for argument.",
	},
	"cherry_picking": {
		ID: "cherry_picking", Name: "Cherry Picking", Category: CategoryFraming,
		Description: "Selecting only the evidence that supports a position while ignoring the rest.",
	},
	"whataboutism": {
		ID: "whataboutism", Name: "Whataboutism", Category: CategoryFraming,
		Description: "Deflecting a charge by pointing at someone else's conduct instead of answering it.",
	},
	"moving_goalposts": {
		ID: "moving_goalposts", Name: "Moving Goalposts", Category: CategoryFraming,
		Description: "Redefining success or the question after the original standard is met.",
	},
	"false_balance": {
		ID: "false_balance", Name: "False Balance", Category: CategoryFraming,
		Description: "Presenting a fringe position as an equal counterweight to a well-supported one.",
	},
	"gish_gallop": {
		ID: "gish_gallop", Name: "Gish Gallop", Category: CategoryFraming,
		Description: "Overwhelming the audience with a rapid stream of claims no one could check in real time.",
	},
	"manufactured_doubt": {
		ID: "manufactured_doubt", Name: "Manufactured Doubt", Category: CategoryCredibility,
		Description: "Casting routine uncertainty as controversy to keep a settled question looking open.",
	},
	"false_expertise": {
		ID: "false_expertise", Name: "False Expertise", Category: CategoryCredibility,
		Description: "Claiming or implying credentials the speaker does not hold, or stretching real ones outside their field.",
	},
	"anecdotal_evidence": {
		ID: "anecdotal_evidence", Name: "Anecdotal Evidence", Category: CategoryCredibility,
		Description: "Offering personal stories as if they outweighed systematic data.",
	},
}

// Techniques returns the full catalog sorted by ID.
func Techniques() []Technique {
	out := make([]Technique, 0, len(techniqueCatalog))
	for _, t := range techniqueCatalog {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TechniqueByID looks up one technique.
func TechniqueByID(id string) (Technique, bool) {
	t, ok := techniqueCatalog[id]
	return t, ok
}

// Categories returns the distinct technique categories sorted alphabetically.
func Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range techniqueCatalog {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	sort.Strings(out)
	return out
}
