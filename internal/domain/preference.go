package domain

// Goal is the user's primary reason for taking protein
type Goal string

const (
	GoalDiet   Goal = "diet"
	GoalMuscle Goal = "muscle"
	GoalHealth Goal = "health"
	GoalBeauty Goal = "beauty"
)

// ExerciseFrequency is how often the user trains
type ExerciseFrequency string

const (
	ExerciseNone     ExerciseFrequency = "none"
	ExerciseLight    ExerciseFrequency = "light"
	ExerciseModerate ExerciseFrequency = "moderate"
	ExerciseHeavy    ExerciseFrequency = "heavy"
)

// BodyHint is the gender/body-type answer
type BodyHint string

const (
	BodyMale   BodyHint = "male"
	BodyFemale BodyHint = "female"
	BodyOther  BodyHint = "other"
)

// BudgetTier is the user's price sensitivity
type BudgetTier string

const (
	BudgetLow  BudgetTier = "low"
	BudgetMid  BudgetTier = "mid"
	BudgetHigh BudgetTier = "high"
)

// FlavorPreference groups flavors into sweet and light categories
type FlavorPreference string

const (
	FlavorPrefSweet FlavorPreference = "sweet"
	FlavorPrefLight FlavorPreference = "light"
	FlavorPrefAny   FlavorPreference = "any"
)

// Timing is when the user intends to drink the protein
type Timing string

const (
	TimingMorning     Timing = "morning"
	TimingPostWorkout Timing = "post_workout"
	TimingBeforeBed   Timing = "before_bed"
	TimingMeal        Timing = "meal_replacement"
)

// TypePreference is an optional explicit protein-type answer
type TypePreference string

const (
	TypePrefAny    TypePreference = "any"
	TypePrefPlant  TypePreference = "plant"
	TypePrefWhey   TypePreference = "whey"
	TypePrefCasein TypePreference = "casein"
)

// PreferenceAnswers is the flat set of answers posted by the diagnosis UI.
type PreferenceAnswers struct {
	Goal              string `json:"goal"`
	ExerciseFrequency string `json:"exerciseFrequency"`
	BodyHint          string `json:"bodyHint"`
	Budget            string `json:"budget"`
	FlavorPreference  string `json:"flavorPreference"`
	Timing            string `json:"timing"`
	LactoseIntolerant string `json:"lactoseIntolerant"` // "yes" or "no"
	ProteinType       string `json:"proteinType,omitempty"`
}

// UserPreferenceProfile is the validated, immutable input to the scorer.
type UserPreferenceProfile struct {
	Goal              Goal              `json:"goal"`
	ExerciseFrequency ExerciseFrequency `json:"exerciseFrequency"`
	BodyHint          BodyHint          `json:"bodyHint"`
	Budget            BudgetTier        `json:"budget"`
	FlavorPreference  FlavorPreference  `json:"flavorPreference"`
	Timing            Timing            `json:"timing"`
	LactoseIntolerant bool              `json:"lactoseIntolerant"`
	ProteinType       TypePreference    `json:"proteinType"`
}

// PreferredTypes returns the protein types the profile leans towards, or nil
// when no preference can be derived.
func (p UserPreferenceProfile) PreferredTypes() []ProteinType {
	switch {
	case p.ProteinType == TypePrefPlant || p.LactoseIntolerant:
		return []ProteinType{ProteinSoy, ProteinPlant}
	case p.ProteinType == TypePrefWhey:
		return []ProteinType{ProteinWhey, ProteinWPI}
	case p.ProteinType == TypePrefCasein:
		return []ProteinType{ProteinCasein}
	}
	return nil
}
