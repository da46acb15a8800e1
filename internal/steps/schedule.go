package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/quentel/fitflow/pkg/domain"
)

const scheduleSchema = `{
  "workouts": [
    {
      "day": "day of the week, e.g. 'Monday'",
      "exercises": ["list of exercises with sets and reps"],
      "duration": "estimated duration, e.g. '30 min'"
    }
  ],
  "notes": "general notes or focus for the week"
}`

// CreateSchedule drafts the weekly workout schedule from the profile,
// the gathered resources, and the feasibility assessment. The schedule's
// estimated time is forced to the assessment's value so the two never
// disagree.
func CreateSchedule(ctx context.Context, tb *Toolbox, state domain.WorkflowState) (domain.Update, error) {
	if state.Profile == nil || state.Assessment == nil {
		return domain.Update{}, nil
	}
	profile := state.Profile

	var tips []string
	for _, res := range state.Resources {
		tips = append(tips, res.KeyTips...)
	}

	prompt := fmt.Sprintf(
		"Create a weekly workout schedule for this user.\n"+
			"Goal: %s\nCurrent level: %s\n"+
			"Time available: %d minutes per day, %d days per week.\n"+
			"Equipment: %s\n"+
			"Feasibility notes: %s\n"+
			"Incorporate these coaching tips where relevant: %s\n"+
			"Plan exactly %d workout days.\n"+
			"Respond with ONLY a JSON object with these fields:\n%s",
		profile.Goal, profile.CurrentFitness,
		profile.TimePerDay, profile.DaysPerWeek,
		equipmentLabel(profile.Equipment),
		state.Assessment.Rationale,
		strings.Join(tips, "; "),
		profile.DaysPerWeek, scheduleSchema,
	)

	schedule, err := completeStructured(ctx, tb, prompt, func(s *domain.WeeklySchedule) error {
		return s.Validate()
	})
	if err != nil {
		return domain.Update{}, err
	}

	schedule.EstimatedTime = state.Assessment.EstimatedTime
	return domain.Update{Schedule: schedule}, nil
}

func equipmentLabel(equipment []string) string {
	if len(equipment) == 0 {
		return "none (bodyweight only)"
	}
	return strings.Join(equipment, ", ")
}
