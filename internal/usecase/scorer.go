package usecase

import (
	"math"
	"strings"

	"github.com/proteinfinder/backend/internal/domain"
)

// Review weights
const (
	reviewAverageWeight = 8.0  // points per star
	reviewCountDivisor  = 50.0 // reviews per point
	reviewVolumeCap     = 20.0
)

// Budget fit tiers, relative to the profile's budget ceiling
const (
	budgetFullRatio    = 0.8
	budgetStretchRatio = 1.2

	budgetFullPoints    = 25.0
	budgetPartialPoints = 15.0
	budgetStretchPoints = 10.0
)

// Default budget ceilings, price per serving in yen
const (
	DefaultBudgetLow           = 120
	DefaultBudgetMid           = 150
	DefaultBudgetHigh          = 180
	DefaultBudgetBeauty        = 160
	DefaultBudgetHeavyExercise = 170
)

// Protein content tiers
const (
	proteinTopGrams  = 22.0
	proteinHighGrams = 20.0
	proteinMidGrams  = 18.0

	proteinTopPoints  = 15.0
	proteinHighPoints = 12.0
	proteinMidPoints  = 8.0
)

// Preference bonuses
const (
	lactoseFriendlyBonus = 15.0

	dietCalorieLimit    = 100.0
	dietLowCalorieBonus = 10.0
	dietSugarLimit      = 1.0
	dietLowSugarBonus   = 5.0

	muscleProteinGrams      = 20.0
	muscleHighProteinBonus  = 10.0
	muscleExtraProteinGrams = 24.0
	muscleExtraProteinBonus = 5.0

	flavorMatchBonus = 5.0
)

// Thresholds for reasons that do not carry points of their own
const (
	reasonTopRatedAverage = 4.5
	reasonPopularCount    = 1000
)

// BudgetCeilings maps preference answers to a price-per-serving ceiling
type BudgetCeilings struct {
	Low           int
	Mid           int
	High          int
	Beauty        int
	HeavyExercise int
}

// ScorerConfig holds configuration for the scorer
type ScorerConfig struct {
	Budgets BudgetCeilings
}

// DefaultScorerConfig returns the default budget ceilings.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{Budgets: BudgetCeilings{
		Low:           DefaultBudgetLow,
		Mid:           DefaultBudgetMid,
		High:          DefaultBudgetHigh,
		Beauty:        DefaultBudgetBeauty,
		HeavyExercise: DefaultBudgetHeavyExercise,
	}}
}

// Scorer computes how well a product matches a preference profile. Scores are
// additive and only meaningful relative to other scores for the same profile.
type Scorer struct {
	budgets BudgetCeilings
}

// NewScorer creates a scorer. Zero ceilings fall back to the defaults.
func NewScorer(config ScorerConfig) *Scorer {
	b := config.Budgets
	d := DefaultScorerConfig().Budgets
	if b.Low <= 0 {
		b.Low = d.Low
	}
	if b.Mid <= 0 {
		b.Mid = d.Mid
	}
	if b.High <= 0 {
		b.High = d.High
	}
	if b.Beauty <= 0 {
		b.Beauty = d.Beauty
	}
	if b.HeavyExercise <= 0 {
		b.HeavyExercise = d.HeavyExercise
	}
	return &Scorer{budgets: b}
}

// Score returns the match score of p for prefs.
func (s *Scorer) Score(p *domain.Product, prefs domain.UserPreferenceProfile) float64 {
	score, _ := s.evaluate(p, prefs)
	return score
}

// Evaluate scores p and explains which bonuses applied.
func (s *Scorer) Evaluate(p domain.Product, prefs domain.UserPreferenceProfile) domain.ScoredProduct {
	score, reasons := s.evaluate(&p, prefs)
	return domain.ScoredProduct{
		Product:     p,
		Score:       score,
		MatchReason: strings.Join(reasons, " / "),
	}
}

// BudgetCeiling derives the price-per-serving ceiling for prefs. An explicit
// low or high tier wins, then the beauty goal, then heavy exercise.
func (s *Scorer) BudgetCeiling(prefs domain.UserPreferenceProfile) int {
	switch {
	case prefs.Budget == domain.BudgetLow:
		return s.budgets.Low
	case prefs.Budget == domain.BudgetHigh:
		return s.budgets.High
	case prefs.Goal == domain.GoalBeauty:
		return s.budgets.Beauty
	case prefs.ExerciseFrequency == domain.ExerciseHeavy:
		return s.budgets.HeavyExercise
	}
	return s.budgets.Mid
}

func (s *Scorer) evaluate(p *domain.Product, prefs domain.UserPreferenceProfile) (float64, []string) {
	var reasons []string
	score := 0.0

	score += p.ReviewAverage * reviewAverageWeight
	score += math.Min(float64(p.ReviewCount)/reviewCountDivisor, reviewVolumeCap)
	if p.ReviewAverage >= reasonTopRatedAverage {
		reasons = append(reasons, "高評価")
	}
	if p.ReviewCount >= reasonPopularCount {
		reasons = append(reasons, "レビュー多数")
	}

	budgetPoints := budgetFit(p.PricePerServing, s.BudgetCeiling(prefs))
	score += budgetPoints
	switch budgetPoints {
	case budgetFullPoints:
		reasons = append(reasons, "予算にぴったり")
	case budgetPartialPoints:
		reasons = append(reasons, "予算内")
	}

	proteinPoints := proteinContent(p.Nutrition.ProteinGrams)
	score += proteinPoints
	if proteinPoints == proteinTopPoints {
		reasons = append(reasons, "高たんぱく")
	}

	if prefs.LactoseIntolerant && (p.ProteinType == domain.ProteinSoy || p.ProteinType == domain.ProteinPlant) {
		score += lactoseFriendlyBonus
		reasons = append(reasons, "乳糖が気になる方向け")
	}

	switch prefs.Goal {
	case domain.GoalDiet:
		if p.Nutrition.Calories < dietCalorieLimit {
			score += dietLowCalorieBonus
			reasons = append(reasons, "低カロリー")
		}
		if p.Nutrition.HasSugar() && *p.Nutrition.SugarGrams < dietSugarLimit {
			score += dietLowSugarBonus
			reasons = append(reasons, "低糖質")
		}
	case domain.GoalMuscle:
		if p.Nutrition.ProteinGrams > muscleProteinGrams {
			score += muscleHighProteinBonus
			reasons = append(reasons, "筋力アップ向け")
		}
		if p.Nutrition.ProteinGrams > muscleExtraProteinGrams {
			score += muscleExtraProteinBonus
		}
	}

	if flavorMatches(p.Flavor, prefs.FlavorPreference) {
		score += flavorMatchBonus
		reasons = append(reasons, "好みの味")
	}

	return score, reasons
}

// budgetFit awards tiered points: full at or under 80% of the ceiling, partial
// up to the ceiling, a smaller amount up to 120%, nothing beyond.
func budgetFit(pricePerServing, ceiling int) float64 {
	price := float64(pricePerServing)
	budget := float64(ceiling)
	switch {
	case price <= budgetFullRatio*budget:
		return budgetFullPoints
	case price <= budget:
		return budgetPartialPoints
	case price <= budgetStretchRatio*budget:
		return budgetStretchPoints
	}
	return 0
}

func proteinContent(grams float64) float64 {
	switch {
	case grams >= proteinTopGrams:
		return proteinTopPoints
	case grams >= proteinHighGrams:
		return proteinHighPoints
	case grams >= proteinMidGrams:
		return proteinMidPoints
	}
	return 0
}

func flavorMatches(flavor string, pref domain.FlavorPreference) bool {
	switch pref {
	case domain.FlavorPrefSweet:
		return FlavorCategoryOf(flavor) == FlavorCategorySweet
	case domain.FlavorPrefLight:
		return FlavorCategoryOf(flavor) == FlavorCategoryLight
	}
	return false
}
