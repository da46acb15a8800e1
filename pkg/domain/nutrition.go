package domain

import "fmt"

// MacroSplit is the daily macronutrient breakdown in grams.
type MacroSplit struct {
	ProteinGrams int `json:"protein_grams"`
	CarbsGrams   int `json:"carbs_grams"`
	FatGrams     int `json:"fat_grams"`
}

// String renders the split for display and the persisted artifact.
func (m MacroSplit) String() string {
	return fmt.Sprintf("Protein %dg / Carbs %dg / Fat %dg", m.ProteinGrams, m.CarbsGrams, m.FatGrams)
}

// NutritionPlan is the dietary guidance generated once per run.
// Feedback revises only the workout schedule, never the nutrition plan.
type NutritionPlan struct {
	DietType        string     `json:"diet_type"`
	DailyCalories   int        `json:"daily_calories"`
	Macros          MacroSplit `json:"macros"`
	Hydration       string     `json:"hydration,omitempty"`
	MealSuggestions []string   `json:"meal_suggestions"`
}

// Validate checks the plan shape.
func (n *NutritionPlan) Validate() error {
	if n.DietType == "" {
		return fmt.Errorf("%w: diet_type is required", ErrSchemaValidation)
	}
	if n.DailyCalories <= 0 {
		return fmt.Errorf("%w: daily_calories must be positive, got %d", ErrSchemaValidation, n.DailyCalories)
	}
	if len(n.MealSuggestions) == 0 {
		return fmt.Errorf("%w: meal_suggestions is empty", ErrSchemaValidation)
	}
	return nil
}

// Clone returns a deep copy.
func (n *NutritionPlan) Clone() *NutritionPlan {
	if n == nil {
		return nil
	}
	cp := *n
	cp.MealSuggestions = append([]string(nil), n.MealSuggestions...)
	return &cp
}
