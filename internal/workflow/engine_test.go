package workflow_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/quentel/fitflow/internal/steps"
	"github.com/quentel/fitflow/internal/workflow"
	"github.com/quentel/fitflow/pkg/adapters/memory"
	"github.com/quentel/fitflow/pkg/adapters/mock"
	"github.com/quentel/fitflow/pkg/domain"
	"github.com/quentel/fitflow/pkg/ports"
	"github.com/quentel/fitflow/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userInput = "Goal: 1 muscle up. Current Level: 10 pull ups. Time: 30 mins/day. Days: 3 days/week. Equipment: none."

const (
	profileJSON = `{"goal":"1 muscle up","current_fitness":"10 pull ups","time_per_day":30,"days_per_week":3,"equipment":[]}`

	revisedProfileJSON = `{"goal":"1 muscle up","current_fitness":"10 pull ups","time_per_day":30,"days_per_week":2,"equipment":[]}`

	assessmentJSON = `{"practice_hours":21,"feasible":true,"rationale":"Good pulling base."}`

	threeDayScheduleJSON = `{"workouts":[
		{"day":"Monday","exercises":["Pull ups 5x5"],"duration":"30 min"},
		{"day":"Wednesday","exercises":["Explosive pull ups 4x3"],"duration":"30 min"},
		{"day":"Friday","exercises":["Dips 5x5"],"duration":"30 min"}
	],"notes":"Rest between sessions."}`

	twoDayScheduleJSON = `{"workouts":[
		{"day":"Tuesday","exercises":["Pull ups 5x5","Dips 5x5"],"duration":"30 min"},
		{"day":"Saturday","exercises":["Explosive pull ups 4x3"],"duration":"30 min"}
	],"notes":"Condensed plan."}`

	nutritionJSON = `{"diet_type":"High protein","daily_calories":2400,
		"macros":{"protein_grams":160,"carbs_grams":250,"fat_grams":70},
		"hydration":"Drink 3L daily","meal_suggestions":["Greek yogurt","Chicken and rice"]}`
)

type fixture struct {
	engine    *workflow.Engine
	completer *mock.Completer
	artifacts *mock.ArtifactRecorder
	store     *memory.Store
}

func newFixture(t *testing.T, overrides []mock.Rule, opts ...workflow.Option) *fixture {
	t.Helper()
	return newFixtureArtifacts(t, overrides, mock.NewArtifactRecorder(), opts...)
}

func newFixtureArtifacts(t *testing.T, overrides []mock.Rule, artifacts ports.ArtifactStore, opts ...workflow.Option) *fixture {
	t.Helper()

	rules := append(append([]mock.Rule{}, overrides...),
		mock.Rule{Match: "Extract the user's fitness profile", Response: profileJSON},
		mock.Rule{Match: "Revise the user's fitness profile", Response: revisedProfileJSON},
		mock.Rule{Match: "key tips", Response: `["Train false grip"]`},
		mock.Rule{Match: "Assess the feasibility", Response: assessmentJSON},
		mock.Rule{Match: "Plan exactly 2 workout days", Response: twoDayScheduleJSON},
		mock.Rule{Match: "Create a weekly workout schedule", Response: threeDayScheduleJSON},
		mock.Rule{Match: "Generate a nutrition plan", Response: nutritionJSON},
	)

	completer := mock.NewCompleter(rules...)
	store := memory.New()
	tb := &steps.Toolbox{
		LLM: completer,
		Search: mock.NewSearcher(
			ports.SearchResult{Title: "Muscle Up Guide", URL: "https://example.com/mu", Content: "grip work"},
		),
		Artifacts: artifacts,
	}

	engine, err := workflow.New(session.NewManager(store), tb, opts...)
	require.NoError(t, err)

	f := &fixture{engine: engine, completer: completer, store: store}
	if recorder, ok := artifacts.(*mock.ArtifactRecorder); ok {
		f.artifacts = recorder
	}
	return f
}

func TestStart_PausesAtDraftedSchedule(t *testing.T) {
	f := newFixture(t, nil)

	id, state, err := f.engine.Start(context.Background(), userInput, true)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.Equal(t, domain.StatusAwaitingApproval, state.Status)
	assert.Equal(t, "create_schedule", state.PausedAt)
	require.NotNil(t, state.Schedule)
	assert.NotEmpty(t, state.Schedule.Workouts)
	assert.Equal(t, state.Assessment.EstimatedTime, state.Schedule.EstimatedTime)
	require.NotNil(t, state.Nutrition)
	assert.Len(t, state.Resources, 1)
	assert.Zero(t, state.IterationCount)
}

func TestStart_ProfileExtractionFailureHalts(t *testing.T) {
	f := newFixture(t, []mock.Rule{
		{Match: "Extract the user's fitness profile", Response: "no structured data here"},
	})

	id, state, err := f.engine.Start(context.Background(), "gibberish", false)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHalted, state.Status)
	assert.Contains(t, state.Result, "profile extraction failed")
	assert.Nil(t, state.Schedule)

	// The halted checkpoint is persisted and peekable.
	peeked, err := f.engine.Peek(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHalted, peeked.Status)
}

func TestStart_ScheduleFailureHalts(t *testing.T) {
	f := newFixture(t, []mock.Rule{
		{Match: "Create a weekly workout schedule", Response: `{"workouts":[]}`},
	})

	_, state, err := f.engine.Start(context.Background(), userInput, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHalted, state.Status)
	assert.Contains(t, state.Result, "schema validation failed")
}

func TestStart_NutritionFailureDegrades(t *testing.T) {
	f := newFixture(t, []mock.Rule{
		{Match: "Generate a nutrition plan", Err: errors.New("provider down")},
	})

	_, state, err := f.engine.Start(context.Background(), userInput, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingApproval, state.Status)
	assert.NotNil(t, state.Schedule)
	assert.Nil(t, state.Nutrition)
}

func TestPeek(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, _, err := f.engine.Start(ctx, userInput, true)
	require.NoError(t, err)

	first, err := f.engine.Peek(ctx, id)
	require.NoError(t, err)
	second, err := f.engine.Peek(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first, second, "peek must not advance execution")

	// Mutating a snapshot must not leak into the checkpoint.
	first.Schedule.Notes = "tampered"
	third, err := f.engine.Peek(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", third.Schedule.Notes)
}

func TestPeek_UnknownSession(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.engine.Peek(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestResume_UnknownSession(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.engine.Resume(context.Background(), "no-such-session", map[string]any{"feedback": "approve"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestResume_ApproveSavesPlan(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, _, err := f.engine.Start(ctx, userInput, true)
	require.NoError(t, err)

	state, err := f.engine.Resume(ctx, id, map[string]any{"feedback": domain.FeedbackApprove})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSaved, state.Status)
	assert.Contains(t, state.Result, "Successfully saved plan")
	assert.Empty(t, state.PausedAt)

	content, ok := f.artifacts.Get("workout_plan.md")
	require.True(t, ok)
	assert.Contains(t, content, "## Schedule Notes")
	assert.Contains(t, content, "**Goal:** 1 muscle up")
	assert.Contains(t, content, "## Monday (30 min)")
	assert.Contains(t, content, "## Nutrition Plan")
}

func TestResume_FeedbackRevisesSchedule(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, initial, err := f.engine.Start(ctx, userInput, true)
	require.NoError(t, err)
	require.Len(t, initial.Schedule.Workouts, 3)
	nutritionCallsBefore := countNutritionCalls(f.completer)

	state, err := f.engine.Resume(ctx, id, map[string]any{"feedback": "less days"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAwaitingApproval, state.Status)
	assert.Equal(t, 1, state.IterationCount)
	assert.Empty(t, state.Feedback, "revision must consume the feedback")
	assert.Equal(t, 2, state.Profile.DaysPerWeek)
	assert.Len(t, state.Schedule.Workouts, 2)

	// Less weekly volume stretches the estimate: 21h at 60 min/week vs
	// the initial 90 min/week.
	assert.Equal(t, "about 6 months", state.Assessment.EstimatedTime)
	assert.Equal(t, "about 4 months", initial.Assessment.EstimatedTime)

	// Nutrition is authored once per run, never per revision.
	assert.Equal(t, nutritionCallsBefore, countNutritionCalls(f.completer))
	assert.Equal(t, initial.Nutrition, state.Nutrition)

	// Resources accumulated during the forward pass survive revisions.
	assert.Len(t, state.Resources, 1)
}

func TestResume_EmptyFeedbackStaysPaused(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, _, err := f.engine.Start(ctx, userInput, true)
	require.NoError(t, err)

	_, err = f.engine.Resume(ctx, id, map[string]any{})
	assert.ErrorIs(t, err, domain.ErrFeedbackRequired)

	_, err = f.engine.Resume(ctx, id, map[string]any{"feedback": ""})
	assert.ErrorIs(t, err, domain.ErrFeedbackRequired)

	state, err := f.engine.Peek(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingApproval, state.Status)
	assert.Zero(t, state.IterationCount)
}

func TestResume_AfterTerminalIsInvalid(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, _, err := f.engine.Start(ctx, userInput, true)
	require.NoError(t, err)

	_, err = f.engine.Resume(ctx, id, map[string]any{"feedback": domain.FeedbackApprove})
	require.NoError(t, err)

	_, err = f.engine.Resume(ctx, id, map[string]any{"feedback": "more cardio"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestResume_UnknownPatchKeyRejected(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, _, err := f.engine.Start(ctx, userInput, true)
	require.NoError(t, err)

	_, err = f.engine.Resume(ctx, id, map[string]any{"feedbck": "approve"})
	assert.ErrorIs(t, err, domain.ErrSchemaValidation)
}

func TestResume_RevisionCap(t *testing.T) {
	f := newFixture(t, nil, workflow.WithMaxRevisions(2))
	ctx := context.Background()

	id, _, err := f.engine.Start(ctx, userInput, true)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		state, err := f.engine.Resume(ctx, id, map[string]any{"feedback": "less days"})
		require.NoError(t, err)
		require.Equal(t, domain.StatusAwaitingApproval, state.Status)
	}

	state, err := f.engine.Resume(ctx, id, map[string]any{"feedback": "even less"})
	assert.ErrorIs(t, err, domain.ErrRevisionsExhausted)
	require.NotNil(t, state)
	assert.Equal(t, domain.StatusExhausted, state.Status)
	assert.Contains(t, state.Result, "limit of 2 revisions")
}

func TestResume_NoopFeedbackDoesNotSpin(t *testing.T) {
	// The revision always comes back identical to the current profile.
	f := newFixture(t, []mock.Rule{
		{Match: "Revise the user's fitness profile", Response: profileJSON},
	})
	ctx := context.Background()

	id, _, err := f.engine.Start(ctx, userInput, true)
	require.NoError(t, err)

	// First no-op still re-runs the assessment.
	state, err := f.engine.Resume(ctx, id, map[string]any{"feedback": "make it better"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingApproval, state.Status)
	assert.Equal(t, 1, state.IterationCount)

	// Second consecutive no-op short-circuits but keeps the session usable.
	assessCallsBefore := countAssessCalls(f.completer)
	state, err = f.engine.Resume(ctx, id, map[string]any{"feedback": "make it even better"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingApproval, state.Status)
	assert.Equal(t, 2, state.IterationCount)
	assert.Contains(t, state.Result, "did not change")
	assert.Equal(t, assessCallsBefore, countAssessCalls(f.completer))

	// Approval still works afterwards.
	state, err = f.engine.Resume(ctx, id, map[string]any{"feedback": domain.FeedbackApprove})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSaved, state.Status)
}

// flakyArtifacts fails a fixed number of writes before delegating to
// the embedded recorder.
type flakyArtifacts struct {
	*mock.ArtifactRecorder
	failures int
}

func (f *flakyArtifacts) Write(ctx context.Context, name string, content []byte) (string, error) {
	if f.failures > 0 {
		f.failures--
		return "", errors.New("disk full")
	}
	return f.ArtifactRecorder.Write(ctx, name, content)
}

func TestResume_SaveFailureKeepsDraftForRetry(t *testing.T) {
	flaky := &flakyArtifacts{ArtifactRecorder: mock.NewArtifactRecorder(), failures: 1}
	f := newFixtureArtifacts(t, nil, flaky)
	ctx := context.Background()

	id, _, err := f.engine.Start(ctx, userInput, true)
	require.NoError(t, err)

	// The failed write must not terminalize the session; the approved
	// draft stays paused with the failure reported.
	state, err := f.engine.Resume(ctx, id, map[string]any{"feedback": domain.FeedbackApprove})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingApproval, state.Status)
	assert.Equal(t, "create_schedule", state.PausedAt)
	assert.Contains(t, state.Result, "Error saving plan")
	require.NotNil(t, state.Schedule)

	// Once the store recovers, approving again saves the same draft.
	state, err = f.engine.Resume(ctx, id, map[string]any{"feedback": domain.FeedbackApprove})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSaved, state.Status)
	assert.Contains(t, state.Result, "Successfully saved plan")

	content, ok := flaky.Get("workout_plan.md")
	require.True(t, ok)
	assert.Contains(t, content, "## Monday (30 min)")
}

func TestResume_RevisionFailureKeepsDraft(t *testing.T) {
	f := newFixture(t, []mock.Rule{
		{Match: "Revise the user's fitness profile", Err: errors.New("provider timeout")},
	})
	ctx := context.Background()

	id, initial, err := f.engine.Start(ctx, userInput, true)
	require.NoError(t, err)

	state, err := f.engine.Resume(ctx, id, map[string]any{"feedback": "less days"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingApproval, state.Status)
	assert.Contains(t, state.Result, "previous schedule stands")
	assert.Equal(t, initial.Schedule, state.Schedule)
	assert.Zero(t, state.IterationCount, "a failed revision burns no iteration")

	// The draft remains approvable.
	state, err = f.engine.Resume(ctx, id, map[string]any{"feedback": domain.FeedbackApprove})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSaved, state.Status)
}

func TestHooksFire(t *testing.T) {
	var mu sync.Mutex
	counts := map[domain.EventType]int{}
	stepsSeen := map[string]int{}
	hooks := domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, ev *domain.StepEvent) {
			mu.Lock()
			defer mu.Unlock()
			counts[ev.Type]++
			stepsSeen[ev.StepID]++
		},
		OnStepLeave: func(_ context.Context, ev *domain.StepEvent) {
			mu.Lock()
			defer mu.Unlock()
			counts[ev.Type]++
		},
		OnPause: func(_ context.Context, ev *domain.StepEvent) {
			mu.Lock()
			defer mu.Unlock()
			counts[ev.Type]++
		},
		OnResume: func(_ context.Context, ev *domain.StepEvent) {
			mu.Lock()
			defer mu.Unlock()
			counts[ev.Type]++
		},
	}

	f := newFixture(t, nil, workflow.WithHooks(hooks))
	ctx := context.Background()

	id, _, err := f.engine.Start(ctx, userInput, true)
	require.NoError(t, err)
	_, err = f.engine.Resume(ctx, id, map[string]any{"feedback": domain.FeedbackApprove})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	// Forward pass: 6 steps, resume: save_plan.
	assert.Equal(t, 7, counts[domain.EventStepEnter])
	assert.Equal(t, 7, counts[domain.EventStepLeave])
	assert.Equal(t, 1, counts[domain.EventPause])
	assert.Equal(t, 1, counts[domain.EventResume])
	assert.Equal(t, 1, stepsSeen["create_schedule"])
	assert.Equal(t, 1, stepsSeen["save_plan"])
}

func countNutritionCalls(c *mock.Completer) int {
	return countPrompts(c, "Generate a nutrition plan")
}

func countAssessCalls(c *mock.Completer) int {
	return countPrompts(c, "Assess the feasibility")
}

func countPrompts(c *mock.Completer, match string) int {
	n := 0
	for _, p := range c.Prompts() {
		if strings.Contains(p, match) {
			n++
		}
	}
	return n
}
