package domain

// NutritionFacts holds per-serving nutrition estimated from listing text.
// Values are best-effort: when the listing does not state them they come from
// protein-type defaults, so every field is always populated.
type NutritionFacts struct {
	ProteinGrams     float64  `json:"proteinGrams"`
	Calories         float64  `json:"calories"`
	Servings         int      `json:"servings"`
	ServingSizeGrams float64  `json:"servingSizeGrams"`
	SugarGrams       *float64 `json:"sugarGrams,omitempty"` // nil when the text does not state sugar
	Source           string   `json:"source"`               // "label", "text" or "default"
}

// Nutrition fact provenance values
const (
	NutritionFromLabel   = "label"   // combined serving/calorie/protein declaration
	NutritionFromText    = "text"    // individual protein or calorie mentions
	NutritionFromDefault = "default" // protein-type defaults
)

// HasSugar reports whether a sugar amount was extracted.
func (n NutritionFacts) HasSugar() bool {
	return n.SugarGrams != nil
}
