package usecase

import (
	"strings"

	"github.com/proteinfinder/backend/internal/domain"
)

var (
	validGoals = map[string]domain.Goal{
		"diet": domain.GoalDiet, "muscle": domain.GoalMuscle,
		"health": domain.GoalHealth, "beauty": domain.GoalBeauty,
	}
	validExercise = map[string]domain.ExerciseFrequency{
		"none": domain.ExerciseNone, "light": domain.ExerciseLight,
		"moderate": domain.ExerciseModerate, "heavy": domain.ExerciseHeavy,
	}
	validBodyHints = map[string]domain.BodyHint{
		"male": domain.BodyMale, "female": domain.BodyFemale, "other": domain.BodyOther,
	}
	validBudgets = map[string]domain.BudgetTier{
		"low": domain.BudgetLow, "mid": domain.BudgetMid, "high": domain.BudgetHigh,
	}
	validFlavors = map[string]domain.FlavorPreference{
		"sweet": domain.FlavorPrefSweet, "light": domain.FlavorPrefLight, "any": domain.FlavorPrefAny,
	}
	validTimings = map[string]domain.Timing{
		"morning": domain.TimingMorning, "post_workout": domain.TimingPostWorkout,
		"before_bed": domain.TimingBeforeBed, "meal_replacement": domain.TimingMeal,
	}
	validTypePrefs = map[string]domain.TypePreference{
		"any": domain.TypePrefAny, "plant": domain.TypePrefPlant,
		"whey": domain.TypePrefWhey, "casein": domain.TypePrefCasein,
	}
	validLactose = map[string]bool{"yes": true, "no": false, "true": true, "false": false}
)

// ParsePreferences validates diagnosis answers and builds a profile. Every
// answer except proteinType is required; the first problem found is returned
// as a *domain.ValidationError.
func ParsePreferences(answers domain.PreferenceAnswers) (domain.UserPreferenceProfile, error) {
	var profile domain.UserPreferenceProfile
	var err error

	if profile.Goal, err = lookupAnswer("goal", answers.Goal, validGoals); err != nil {
		return domain.UserPreferenceProfile{}, err
	}
	if profile.ExerciseFrequency, err = lookupAnswer("exerciseFrequency", answers.ExerciseFrequency, validExercise); err != nil {
		return domain.UserPreferenceProfile{}, err
	}
	if profile.BodyHint, err = lookupAnswer("bodyHint", answers.BodyHint, validBodyHints); err != nil {
		return domain.UserPreferenceProfile{}, err
	}
	if profile.Budget, err = lookupAnswer("budget", answers.Budget, validBudgets); err != nil {
		return domain.UserPreferenceProfile{}, err
	}
	if profile.FlavorPreference, err = lookupAnswer("flavorPreference", answers.FlavorPreference, validFlavors); err != nil {
		return domain.UserPreferenceProfile{}, err
	}
	if profile.Timing, err = lookupAnswer("timing", answers.Timing, validTimings); err != nil {
		return domain.UserPreferenceProfile{}, err
	}
	if profile.LactoseIntolerant, err = lookupAnswer("lactoseIntolerant", answers.LactoseIntolerant, validLactose); err != nil {
		return domain.UserPreferenceProfile{}, err
	}

	profile.ProteinType = domain.TypePrefAny
	if strings.TrimSpace(answers.ProteinType) != "" {
		if profile.ProteinType, err = lookupAnswer("proteinType", answers.ProteinType, validTypePrefs); err != nil {
			return domain.UserPreferenceProfile{}, err
		}
	}

	return profile, nil
}

// NeutralPreferences is the profile used for plain keyword searches.
func NeutralPreferences() domain.UserPreferenceProfile {
	return domain.UserPreferenceProfile{
		Goal:              domain.GoalHealth,
		ExerciseFrequency: domain.ExerciseModerate,
		BodyHint:          domain.BodyOther,
		Budget:            domain.BudgetMid,
		FlavorPreference:  domain.FlavorPrefAny,
		Timing:            domain.TimingMorning,
		ProteinType:       domain.TypePrefAny,
	}
}

func lookupAnswer[T any](field, answer string, valid map[string]T) (T, error) {
	var zero T
	key := strings.ToLower(strings.TrimSpace(answer))
	if key == "" {
		return zero, &domain.ValidationError{Field: field, Reason: "answer is required"}
	}
	v, ok := valid[key]
	if !ok {
		return zero, &domain.ValidationError{Field: field, Reason: "unknown answer " + `"` + answer + `"`}
	}
	return v, nil
}
