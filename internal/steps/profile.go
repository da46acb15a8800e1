package steps

import (
	"context"
	"fmt"

	"github.com/quentel/fitflow/pkg/domain"
)

const profileSchema = `{
  "goal": "the user's specific fitness goal, e.g. '1 muscle up'",
  "current_fitness": "the user's current fitness level, e.g. '10 pull ups'",
  "time_per_day": "minutes available per day (integer)",
  "days_per_week": "workout days per week (integer, 1-7)",
  "equipment": ["list of available equipment, empty for bodyweight only"]
}`

// CollectProfile extracts a structured fitness profile from the free-text
// user input. Extraction failure leaves the profile null; the engine
// treats a null profile as an abort of the remaining pipeline.
func CollectProfile(ctx context.Context, tb *Toolbox, state domain.WorkflowState) (domain.Update, error) {
	prompt := fmt.Sprintf(
		"Extract the user's fitness profile from the following description.\n"+
			"Respond with ONLY a JSON object with these fields:\n%s\n\n"+
			"User Input: %s",
		profileSchema, state.UserInput,
	)

	profile, err := completeStructured(ctx, tb, prompt, func(p *domain.UserProfile) error {
		p.ApplyDefaults()
		return p.Validate()
	})
	if err != nil {
		tb.logger().Warn("profile extraction failed", "err", err)
		return domain.Update{}, nil
	}
	return domain.Update{Profile: profile}, nil
}

// UpdateConstraints revises the profile according to the user's feedback
// and clears the feedback field. Empty feedback is a no-op so the engine
// can detect a stalled revision loop.
func UpdateConstraints(ctx context.Context, tb *Toolbox, state domain.WorkflowState) (domain.Update, error) {
	if state.Feedback == "" {
		return domain.Update{}, nil
	}
	if state.Profile == nil {
		return domain.Update{}, nil
	}

	prompt := fmt.Sprintf(
		"Revise the user's fitness profile according to their feedback.\n"+
			"Keep every field the feedback does not mention unchanged.\n"+
			"Current profile: %s\n"+
			"Feedback: %s\n\n"+
			"Respond with ONLY a JSON object with these fields:\n%s",
		mustJSON(state.Profile), state.Feedback, profileSchema,
	)

	revised, err := completeStructured(ctx, tb, prompt, func(p *domain.UserProfile) error {
		p.ApplyDefaults()
		return p.Validate()
	})
	if err != nil {
		return domain.Update{}, err
	}

	return domain.Update{
		Profile:        revised,
		Feedback:       domain.StringPtr(""),
		IterationDelta: 1,
	}, nil
}
