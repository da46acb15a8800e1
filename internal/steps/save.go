package steps

import (
	"context"

	"github.com/quentel/fitflow/internal/render"
	"github.com/quentel/fitflow/pkg/domain"
)

// SavePlan renders the full plan and writes it to the artifact store.
// The persistence outcome, success or failure, is reported through the
// result message so the caller always sees what happened.
func SavePlan(ctx context.Context, tb *Toolbox, state domain.WorkflowState) (domain.Update, error) {
	if state.Schedule == nil {
		return domain.Update{Result: domain.StringPtr("No schedule to save.")}, nil
	}

	content := render.Plan(&state)
	message, err := tb.Artifacts.Write(ctx, render.ArtifactName, []byte(content))
	if err != nil {
		tb.logger().Error("plan persistence failed", "err", err)
		return domain.Update{Result: domain.StringPtr("Error saving plan: " + err.Error())}, err
	}
	return domain.Update{Result: domain.StringPtr(message)}, nil
}
