package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/quentel/fitflow/pkg/domain"
)

const assessmentSchema = `{
  "practice_hours": "total hours of dedicated practice a person at this level needs to reach the goal (number)",
  "feasible": "whether the goal is realistically achievable from the current level (boolean)",
  "rationale": "one or two sentences explaining the assessment"
}`

// AssessFeasibility estimates the total practice effort for the goal and
// derives the calendar estimate from the user's weekly volume. The LLM
// judges effort only; the time conversion is arithmetic, so more weekly
// minutes always yields a shorter or equal estimate.
func AssessFeasibility(ctx context.Context, tb *Toolbox, state domain.WorkflowState) (domain.Update, error) {
	if state.Profile == nil {
		return domain.Update{}, nil
	}
	profile := state.Profile

	prompt := fmt.Sprintf(
		"Assess the feasibility of the following fitness goal.\n"+
			"Goal: %s\nCurrent level: %s\n"+
			"Estimate the TOTAL hours of dedicated practice needed to close the gap, "+
			"independent of how the hours are spread across the week.\n"+
			"Respond with ONLY a JSON object with these fields:\n%s",
		profile.Goal, profile.CurrentFitness, assessmentSchema,
	)

	assessment, err := completeStructured(ctx, tb, prompt, func(a *domain.Assessment) error {
		if a.PracticeHours <= 0 {
			return fmt.Errorf("practice_hours must be positive, got %v", a.PracticeHours)
		}
		return nil
	})
	if err != nil {
		return domain.Update{}, err
	}

	weeks := estimateWeeks(assessment.PracticeHours, profile.WeeklyMinutes())
	assessment.EstimatedTime = formatDuration(weeks)
	return domain.Update{Assessment: assessment}, nil
}

// estimateWeeks converts total practice hours into calendar weeks at the
// given weekly volume. Non-increasing in weeklyMinutes.
func estimateWeeks(practiceHours float64, weeklyMinutes int) int {
	if weeklyMinutes <= 0 {
		weeklyMinutes = domain.DefaultTimePerDay * domain.DefaultDaysPerWeek
	}
	weeks := int(math.Ceil(practiceHours * 60 / float64(weeklyMinutes)))
	if weeks < 1 {
		weeks = 1
	}
	return weeks
}

func formatDuration(weeks int) string {
	switch {
	case weeks == 1:
		return "about 1 week"
	case weeks <= 8:
		return fmt.Sprintf("about %d weeks", weeks)
	default:
		months := int(math.Ceil(float64(weeks) / 4))
		if months == 1 {
			return "about 1 month"
		}
		return fmt.Sprintf("about %d months", months)
	}
}
