package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/quentel/fitflow/internal/logging"
	"github.com/quentel/fitflow/internal/steps"
	"github.com/quentel/fitflow/pkg/domain"
	"github.com/quentel/fitflow/pkg/session"
)

// DefaultMaxRevisions bounds the revision loop per session.
const DefaultMaxRevisions = 5

// maxNoopRevisions is how many consecutive no-progress revisions the
// engine tolerates before it stops re-running the assessment.
const maxNoopRevisions = 2

// Engine drives the step graph. Execution of a single session is strictly
// turn-based: a forward pass runs to the approval point or a terminal
// state, checkpoints, and returns control; nothing continues in the
// background while a session is paused.
type Engine struct {
	sessions     *session.Manager
	toolbox      *steps.Toolbox
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	maxRevisions int
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks installs lifecycle callbacks for observability.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMaxRevisions overrides the revision cap.
func WithMaxRevisions(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRevisions = n
		}
	}
}

// New creates an Engine over the given session manager and toolbox.
func New(sessions *session.Manager, toolbox *steps.Toolbox, opts ...Option) (*Engine, error) {
	if err := validateGraph(); err != nil {
		return nil, fmt.Errorf("invalid step graph: %w", err)
	}
	e := &Engine{
		sessions:     sessions,
		toolbox:      toolbox,
		logger:       logging.NewNop(),
		maxRevisions: DefaultMaxRevisions,
	}
	for _, opt := range opts {
		opt(e)
	}
	if toolbox.Logger == nil {
		toolbox.Logger = e.logger
	}
	return e, nil
}

// Start creates a new session and runs forward from the entry step until
// the approval point or a terminal condition, then checkpoints. The
// returned snapshot is a copy; callers cannot alias engine state.
func (e *Engine) Start(ctx context.Context, userInput string, includeYouTube bool) (string, *domain.WorkflowState, error) {
	sessionID := uuid.NewString()
	state := domain.NewState(userInput, includeYouTube)

	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if err := e.forwardPass(ctx, sessionID, state); err != nil {
			state.Status = domain.StatusHalted
			state.Result = err.Error()
		}
		return e.sessions.Store().Save(ctx, sessionID, state)
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to start session: %w", err)
	}
	return sessionID, state.Clone(), nil
}

// Peek returns the last persisted snapshot without advancing execution.
func (e *Engine) Peek(ctx context.Context, sessionID string) (*domain.WorkflowState, error) {
	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

// Resume merges the patch into a paused session as if it were emitted
// from the approval step, then continues along the edge the feedback
// selects: the approve sentinel routes to persistence, any other
// non-empty feedback routes back through constraint revision, and empty
// feedback leaves the session paused.
func (e *Engine) Resume(ctx context.Context, sessionID string, patch map[string]any) (*domain.WorkflowState, error) {
	var snapshot *domain.WorkflowState

	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := e.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if state.Status != domain.StatusAwaitingApproval {
			return fmt.Errorf("%w: session %s is %s, not awaiting approval",
				domain.ErrInvalidTransition, sessionID, state.Status)
		}

		update, err := decodePatch(patch)
		if err != nil {
			return err
		}
		state.Apply(update)
		if state.Feedback == "" {
			return domain.ErrFeedbackRequired
		}

		e.fire(ctx, e.hooks.OnResume, &domain.StepEvent{
			Timestamp: time.Now(),
			Type:      domain.EventResume,
			SessionID: sessionID,
			StepID:    state.PausedAt,
			Iteration: state.IterationCount,
		})

		if state.Feedback == domain.FeedbackApprove {
			err = e.savePass(ctx, sessionID, state)
		} else {
			err = e.revisionPass(ctx, sessionID, state)
		}
		if saveErr := e.sessions.Store().Save(ctx, sessionID, state); saveErr != nil {
			return saveErr
		}
		snapshot = state.Clone()
		return err
	})
	if err != nil {
		return snapshot, err
	}
	return snapshot, nil
}

// forwardPass runs the initial chain and the schedule/nutrition branches,
// leaving the state paused at the approval point. Exactly one
// schedule-authoring attempt happens per pass.
func (e *Engine) forwardPass(ctx context.Context, sessionID string, state *domain.WorkflowState) error {
	for _, stepID := range []string{StepCollectProfile, StepSearchExercises, StepProcessResources, StepAssessFeasibility} {
		update, err := e.runStep(ctx, sessionID, stepID, state)
		if err != nil {
			return err
		}
		state.Apply(update)

		if stepID == StepCollectProfile && state.Profile == nil {
			return fmt.Errorf("%w: could not understand the goal description", domain.ErrProfileExtraction)
		}
	}
	return e.authorBranches(ctx, sessionID, state)
}

// authorBranches runs schedule authoring, and nutrition authoring when
// the run does not have a nutrition plan yet, concurrently. The branches
// fail independently: a nutrition failure degrades, a schedule failure
// aborts the pass.
func (e *Engine) authorBranches(ctx context.Context, sessionID string, state *domain.WorkflowState) error {
	var (
		wg        sync.WaitGroup
		nutUpdate domain.Update
		nutErr    error
	)
	if state.Nutrition == nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nutUpdate, nutErr = e.runStep(ctx, sessionID, StepGenerateNutrition, state)
		}()
	}

	schedUpdate, schedErr := e.runStep(ctx, sessionID, StepCreateSchedule, state)
	wg.Wait()

	if nutErr != nil {
		e.logger.Warn("nutrition authoring failed, continuing without it",
			"session_id", sessionID, "err", nutErr)
	} else {
		state.Apply(nutUpdate)
	}

	if schedErr != nil {
		return schedErr
	}
	state.Apply(schedUpdate)
	if state.Schedule == nil {
		return fmt.Errorf("%w: schedule authoring produced nothing", domain.ErrSchemaValidation)
	}

	e.pause(ctx, sessionID, state)
	return nil
}

// savePass persists the approved plan. A persistence failure is reported
// through the result message rather than an error, and the session
// re-pauses with the draft intact so a later approve can retry once the
// artifact store recovers.
func (e *Engine) savePass(ctx context.Context, sessionID string, state *domain.WorkflowState) error {
	state.Feedback = ""
	update, err := e.runStep(ctx, sessionID, StepSavePlan, state)
	state.Apply(update)
	if err != nil {
		e.pause(ctx, sessionID, state)
		return nil
	}
	state.PausedAt = ""
	state.Status = domain.StatusSaved
	return nil
}

// revisionPass runs one trip around the revision loop: constraints are
// updated from the feedback, the feasibility assessment and schedule are
// redone, and the session pauses at the approval point again.
func (e *Engine) revisionPass(ctx context.Context, sessionID string, state *domain.WorkflowState) error {
	if state.IterationCount >= e.maxRevisions {
		state.Status = domain.StatusExhausted
		state.PausedAt = ""
		state.Result = fmt.Sprintf("Reached the limit of %d revisions; approve the current plan or start a new session.", e.maxRevisions)
		return fmt.Errorf("%w: %d revisions used", domain.ErrRevisionsExhausted, state.IterationCount)
	}

	// A note from an earlier failed or no-op revision is stale now.
	state.Result = ""

	previous := state.Profile
	update, err := e.runStep(ctx, sessionID, StepUpdateConstraints, state)
	if err != nil {
		e.keepDraft(ctx, sessionID, state, err)
		return nil
	}
	state.Apply(update)

	if state.Profile.Equal(previous) {
		state.NoopRevisions++
	} else {
		state.NoopRevisions = 0
	}

	if state.NoopRevisions >= maxNoopRevisions {
		e.logger.Info("feedback produced no profile change, keeping current plan",
			"session_id", sessionID, "iteration", state.IterationCount)
		state.Result = "Feedback did not change the plan constraints; the previous schedule stands."
		e.pause(ctx, sessionID, state)
		return nil
	}

	assessUpdate, err := e.runStep(ctx, sessionID, StepAssessFeasibility, state)
	if err != nil {
		e.keepDraft(ctx, sessionID, state, err)
		return nil
	}
	state.Apply(assessUpdate)
	if err := e.authorBranches(ctx, sessionID, state); err != nil {
		e.keepDraft(ctx, sessionID, state, err)
		return nil
	}
	return nil
}

// keepDraft re-pauses a session after a failed revision step. The
// schedule the user already saw stays valid, so a transient LLM or
// provider failure must not terminalize the session.
func (e *Engine) keepDraft(ctx context.Context, sessionID string, state *domain.WorkflowState, err error) {
	e.logger.Warn("revision failed, keeping current plan",
		"session_id", sessionID, "iteration", state.IterationCount, "err", err)
	state.Feedback = ""
	state.Result = fmt.Sprintf("Revision failed (%v); the previous schedule stands.", err)
	e.pause(ctx, sessionID, state)
}

func (e *Engine) pause(ctx context.Context, sessionID string, state *domain.WorkflowState) {
	state.Status = domain.StatusAwaitingApproval
	state.PausedAt = StepCreateSchedule
	e.fire(ctx, e.hooks.OnPause, &domain.StepEvent{
		Timestamp: time.Now(),
		Type:      domain.EventPause,
		SessionID: sessionID,
		StepID:    StepCreateSchedule,
		Iteration: state.IterationCount,
	})
}

// runStep executes one node and fires the enter/leave hooks around it.
// Steps receive a copy of the state; merging is the engine's job.
func (e *Engine) runStep(ctx context.Context, sessionID, stepID string, state *domain.WorkflowState) (domain.Update, error) {
	n, ok := nodesByID[stepID]
	if !ok {
		return domain.Update{}, fmt.Errorf("unknown step %q", stepID)
	}

	e.fire(ctx, e.hooks.OnStepEnter, &domain.StepEvent{
		Timestamp: time.Now(),
		Type:      domain.EventStepEnter,
		SessionID: sessionID,
		StepID:    stepID,
		Iteration: state.IterationCount,
	})

	start := time.Now()
	update, err := n.run(ctx, e.toolbox, *state)
	leave := &domain.StepEvent{
		Timestamp: time.Now(),
		Type:      domain.EventStepLeave,
		SessionID: sessionID,
		StepID:    stepID,
		Iteration: state.IterationCount,
		Duration:  time.Since(start),
	}
	if err != nil {
		leave.Err = err.Error()
		e.logger.Error("step failed", "session_id", sessionID, "step", stepID, "err", err)
	} else {
		e.logger.Debug("step completed", "session_id", sessionID, "step", stepID, "duration", leave.Duration)
	}
	e.fire(ctx, e.hooks.OnStepLeave, leave)
	return update, err
}

func (e *Engine) fire(ctx context.Context, hook func(context.Context, *domain.StepEvent), event *domain.StepEvent) {
	if hook != nil {
		hook(ctx, event)
	}
}

// decodePatch converts a driver-supplied patch into a typed update.
// Unknown keys are rejected so a typo cannot silently drop a field.
func decodePatch(patch map[string]any) (domain.Update, error) {
	var update domain.Update
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &update,
		ErrorUnused: true,
	})
	if err != nil {
		return domain.Update{}, err
	}
	if err := decoder.Decode(patch); err != nil {
		return domain.Update{}, fmt.Errorf("%w: invalid resume patch: %v", domain.ErrSchemaValidation, err)
	}
	return update, nil
}

// IsRetryable reports whether the caller may retry Resume on the same
// session after err.
func IsRetryable(err error) bool {
	return errors.Is(err, domain.ErrFeedbackRequired)
}
