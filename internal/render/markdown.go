// Package render produces the persisted workout plan artifact and the
// summaries shown to the user while a session is awaiting approval.
package render

import (
	"fmt"
	"strings"

	"github.com/quentel/fitflow/pkg/domain"
)

// ArtifactName is the fixed filename the plan is persisted under. A new
// save overwrites the previous artifact.
const ArtifactName = "workout_plan.md"

// Plan renders the full Markdown artifact. Section order is fixed:
// header, nutrition, resources, schedule notes, then one heading per
// workout day. Downstream consumers parse these headings, so the order
// must not change.
func Plan(state *domain.WorkflowState) string {
	var b strings.Builder

	b.WriteString("# Weekly Workout Plan\n\n")
	if state.Profile != nil {
		fmt.Fprintf(&b, "**Goal:** %s\n", state.Profile.Goal)
	}
	fmt.Fprintf(&b, "**Estimated Time:** %s\n\n", state.Schedule.EstimatedTime)

	if state.Nutrition != nil {
		writeNutrition(&b, state.Nutrition)
	}
	if len(state.Resources) > 0 {
		writeResources(&b, state.Resources, state.IncludeYouTube)
	}

	fmt.Fprintf(&b, "\n\n## Schedule Notes\n%s\n\n", state.Schedule.Notes)
	for _, workout := range state.Schedule.Workouts {
		fmt.Fprintf(&b, "## %s (%s)\n", workout.Day, workout.Duration)
		for _, exercise := range workout.Exercises {
			fmt.Fprintf(&b, "- %s\n", exercise)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeNutrition(b *strings.Builder, n *domain.NutritionPlan) {
	b.WriteString("\n## Nutrition Plan\n")
	fmt.Fprintf(b, "- **Diet Type:** %s\n", n.DietType)
	fmt.Fprintf(b, "- **Calories:** %d kcal\n", n.DailyCalories)
	fmt.Fprintf(b, "- **Macros:** %s\n", n.Macros)
	fmt.Fprintf(b, "- **Hydration:** %s\n", n.Hydration)
	b.WriteString("\n**Meal Suggestions:**\n")
	for _, meal := range n.MealSuggestions {
		fmt.Fprintf(b, "- %s\n", meal)
	}
	b.WriteString("\n\n")
}

func writeResources(b *strings.Builder, resources []domain.ExerciseResource, includeLinks bool) {
	b.WriteString("\n## Recommended Resources\n")
	for _, res := range resources {
		if includeLinks {
			fmt.Fprintf(b, "- [%s](%s)\n", res.Title, res.URL)
		}
		for _, tip := range res.KeyTips {
			fmt.Fprintf(b, "  - *Tip:* %s\n", tip)
		}
	}
	b.WriteString("\n")
}

// ScheduleSummary renders a compact Markdown view of a drafted schedule
// for interactive review.
func ScheduleSummary(schedule *domain.WeeklySchedule) string {
	if schedule == nil {
		return "_No schedule drafted yet._\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Proposed Schedule (%s)\n\n", schedule.EstimatedTime)
	for _, workout := range schedule.Workouts {
		fmt.Fprintf(&b, "**%s** (%s)\n", workout.Day, workout.Duration)
		for _, exercise := range workout.Exercises {
			fmt.Fprintf(&b, "- %s\n", exercise)
		}
		b.WriteString("\n")
	}
	if schedule.Notes != "" {
		fmt.Fprintf(&b, "> %s\n", schedule.Notes)
	}
	return b.String()
}

// NutritionSummary renders a compact Markdown view of the nutrition plan.
func NutritionSummary(n *domain.NutritionPlan) string {
	if n == nil {
		return "_No nutrition plan generated._\n"
	}
	var b strings.Builder
	b.WriteString("## Nutrition\n\n")
	fmt.Fprintf(&b, "- **Diet Type:** %s\n", n.DietType)
	fmt.Fprintf(&b, "- **Calories:** %d kcal\n", n.DailyCalories)
	fmt.Fprintf(&b, "- **Macros:** %s\n", n.Macros)
	fmt.Fprintf(&b, "- **Hydration:** %s\n", n.Hydration)
	return b.String()
}
