package steps

import (
	"context"
	"fmt"

	"github.com/quentel/fitflow/pkg/domain"
)

const nutritionSchema = `{
  "diet_type": "short label, e.g. 'High protein'",
  "daily_calories": "recommended daily calories (integer)",
  "macros": {"protein_grams": "grams (integer)", "carbs_grams": "grams (integer)", "fat_grams": "grams (integer)"},
  "hydration": "one sentence of hydration advice",
  "meal_suggestions": ["list of example meals"]
}`

// GenerateNutrition produces a nutrition plan supporting the goal. It
// depends only on the profile and may run concurrently with schedule
// authoring.
func GenerateNutrition(ctx context.Context, tb *Toolbox, state domain.WorkflowState) (domain.Update, error) {
	if state.Profile == nil {
		return domain.Update{}, nil
	}

	prompt := fmt.Sprintf(
		"Generate a nutrition plan for a user with the following profile:\n%s\n"+
			"The plan should support their fitness goal.\n"+
			"Respond with ONLY a JSON object with these fields:\n%s",
		mustJSON(state.Profile), nutritionSchema,
	)

	nutrition, err := completeStructured(ctx, tb, prompt, func(n *domain.NutritionPlan) error {
		return n.Validate()
	})
	if err != nil {
		return domain.Update{}, err
	}
	return domain.Update{Nutrition: nutrition}, nil
}
