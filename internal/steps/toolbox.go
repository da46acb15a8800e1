// Package steps implements the individual workflow steps. Each step is
// a pure function over the session state: it reads what it declares and
// returns a partial update for the engine to merge.
package steps

import (
	"context"
	"log/slog"

	"github.com/quentel/fitflow/pkg/domain"
	"github.com/quentel/fitflow/pkg/ports"
)

// Toolbox bundles the external dependencies steps are allowed to touch.
type Toolbox struct {
	LLM       ports.Completer
	Search    ports.Searcher
	Artifacts ports.ArtifactStore
	Logger    *slog.Logger
}

func (tb *Toolbox) logger() *slog.Logger {
	if tb.Logger != nil {
		return tb.Logger
	}
	return slog.Default()
}

// Func is the signature every step implements. Steps must not mutate
// the passed state; all effects flow through the returned update.
type Func func(ctx context.Context, tb *Toolbox, state domain.WorkflowState) (domain.Update, error)
