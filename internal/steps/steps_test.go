package steps_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/quentel/fitflow/internal/steps"
	"github.com/quentel/fitflow/pkg/adapters/mock"
	"github.com/quentel/fitflow/pkg/domain"
	"github.com/quentel/fitflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	profileJSON = `{"goal":"1 muscle up","current_fitness":"10 pull ups","time_per_day":30,"days_per_week":3,"equipment":[]}`

	assessmentJSON = `{"practice_hours":21,"feasible":true,"rationale":"Solid pulling base, needs transition work."}`

	scheduleJSON = `{"workouts":[
		{"day":"Monday","exercises":["Pull ups 5x5","False grip hangs 3x20s"],"duration":"30 min"},
		{"day":"Wednesday","exercises":["Explosive pull ups 4x3"],"duration":"30 min"},
		{"day":"Friday","exercises":["Dips 5x5","Transition drills"],"duration":"30 min"}
	],"notes":"Rest between sessions."}`

	nutritionJSON = `{"diet_type":"High protein","daily_calories":2400,
		"macros":{"protein_grams":160,"carbs_grams":250,"fat_grams":70},
		"hydration":"Drink 3L daily","meal_suggestions":["Greek yogurt","Chicken and rice"]}`
)

func scriptedToolbox(extra ...mock.Rule) (*steps.Toolbox, *mock.ArtifactRecorder) {
	// Overrides go first so they win over the defaults.
	ordered := append(append([]mock.Rule{}, extra...),
		mock.Rule{Match: "Extract the user's fitness profile", Response: profileJSON},
		mock.Rule{Match: "Revise the user's fitness profile", Response: profileJSON},
		mock.Rule{Match: "key tips", Response: `["Train false grip","Explosive pull ups"]`},
		mock.Rule{Match: "Assess the feasibility", Response: assessmentJSON},
		mock.Rule{Match: "Create a weekly workout schedule", Response: scheduleJSON},
		mock.Rule{Match: "Generate a nutrition plan", Response: nutritionJSON},
	)

	recorder := mock.NewArtifactRecorder()
	tb := &steps.Toolbox{
		LLM: mock.NewCompleter(ordered...),
		Search: mock.NewSearcher(
			ports.SearchResult{Title: "Muscle Up Guide", URL: "https://example.com/mu", Content: "grip work"},
			ports.SearchResult{Title: "MU Video", URL: "https://youtube.com/watch?v=1", Content: "video tutorial"},
		),
		Artifacts: recorder,
	}
	return tb, recorder
}

func baseState() domain.WorkflowState {
	state := domain.NewState("Goal: 1 muscle up. Current Level: 10 pull ups. Time: 30 mins/day. Days: 3 days/week. Equipment: none.", true)
	state.Profile = &domain.UserProfile{
		Goal: "1 muscle up", CurrentFitness: "10 pull ups",
		TimePerDay: 30, DaysPerWeek: 3,
	}
	return *state
}

func TestCollectProfile(t *testing.T) {
	tb, _ := scriptedToolbox()
	state := domain.NewState("Goal: 1 muscle up. Current Level: 10 pull ups.", true)

	update, err := steps.CollectProfile(context.Background(), tb, *state)
	require.NoError(t, err)
	require.NotNil(t, update.Profile)
	assert.Equal(t, "1 muscle up", update.Profile.Goal)
	assert.Equal(t, 3, update.Profile.DaysPerWeek)
}

func TestCollectProfile_FailureLeavesProfileNull(t *testing.T) {
	tb, _ := scriptedToolbox(mock.Rule{
		Match: "Extract the user's fitness profile", Response: "I cannot help with that.",
	})
	update, err := steps.CollectProfile(context.Background(), tb, *domain.NewState("gibberish", false))
	require.NoError(t, err)
	assert.Nil(t, update.Profile)
	assert.True(t, update.IsZero())
}

func TestProcessResources_FiltersYouTube(t *testing.T) {
	tb, _ := scriptedToolbox()
	state := baseState()
	state.IncludeYouTube = false

	update, err := steps.ProcessResources(context.Background(), tb, state)
	require.NoError(t, err)
	require.Len(t, update.Resources, 1)
	assert.Equal(t, "Muscle Up Guide", update.Resources[0].Title)
	assert.Equal(t, []string{"Train false grip", "Explosive pull ups"}, update.Resources[0].KeyTips)
}

func TestProcessResources_KeepsYouTubeWhenRequested(t *testing.T) {
	tb, _ := scriptedToolbox()
	update, err := steps.ProcessResources(context.Background(), tb, baseState())
	require.NoError(t, err)
	assert.Len(t, update.Resources, 2)
}

func TestProcessResources_TipFailureDoesNotAbort(t *testing.T) {
	tb, _ := scriptedToolbox(mock.Rule{Match: "key tips", Response: "not json at all"})
	update, err := steps.ProcessResources(context.Background(), tb, baseState())
	require.NoError(t, err)
	require.Len(t, update.Resources, 2)
	assert.Empty(t, update.Resources[0].KeyTips)
}

func TestProcessResources_SearchFailureDegrades(t *testing.T) {
	tb, _ := scriptedToolbox()
	tb.Search = &mock.Searcher{Err: fmt.Errorf("%w: provider down", domain.ErrSearchProvider)}

	update, err := steps.ProcessResources(context.Background(), tb, baseState())
	require.NoError(t, err)
	assert.Empty(t, update.Resources)
}

func TestProcessResources_NilProfileIsNoop(t *testing.T) {
	tb, _ := scriptedToolbox()
	state := baseState()
	state.Profile = nil

	update, err := steps.ProcessResources(context.Background(), tb, state)
	require.NoError(t, err)
	assert.True(t, update.IsZero())
}

func TestAssessFeasibility_DerivesEstimateFromVolume(t *testing.T) {
	tb, _ := scriptedToolbox()
	state := baseState()

	update, err := steps.AssessFeasibility(context.Background(), tb, state)
	require.NoError(t, err)
	require.NotNil(t, update.Assessment)
	// 21h of practice at 90 min/week is 14 weeks.
	assert.Equal(t, "about 4 months", update.Assessment.EstimatedTime)
	assert.True(t, update.Assessment.Feasible)
}

func TestAssessFeasibility_MoreVolumeShortensEstimate(t *testing.T) {
	tb, _ := scriptedToolbox()
	low := baseState()

	high := baseState()
	high.Profile = low.Profile.Clone()
	high.Profile.DaysPerWeek = 6
	high.Profile.TimePerDay = 60

	lowUpdate, err := steps.AssessFeasibility(context.Background(), tb, low)
	require.NoError(t, err)
	highUpdate, err := steps.AssessFeasibility(context.Background(), tb, high)
	require.NoError(t, err)

	// Same effort estimate, four times the weekly volume.
	assert.Equal(t, "about 4 months", lowUpdate.Assessment.EstimatedTime)
	assert.Equal(t, "about 4 weeks", highUpdate.Assessment.EstimatedTime)
}

func TestCreateSchedule_ForcesAssessmentEstimate(t *testing.T) {
	tb, _ := scriptedToolbox()
	state := baseState()
	state.Assessment = &domain.Assessment{EstimatedTime: "about 14 weeks", Feasible: true, PracticeHours: 21}

	update, err := steps.CreateSchedule(context.Background(), tb, state)
	require.NoError(t, err)
	require.NotNil(t, update.Schedule)
	assert.Equal(t, "about 14 weeks", update.Schedule.EstimatedTime)
	assert.Len(t, update.Schedule.Workouts, 3)
}

func TestCreateSchedule_MalformedOutputIsSchemaError(t *testing.T) {
	tb, _ := scriptedToolbox(mock.Rule{
		Match: "Create a weekly workout schedule", Response: `{"workouts":[]}`,
	})
	state := baseState()
	state.Assessment = &domain.Assessment{EstimatedTime: "about 14 weeks"}

	_, err := steps.CreateSchedule(context.Background(), tb, state)
	assert.ErrorIs(t, err, domain.ErrSchemaValidation)
}

func TestGenerateNutrition(t *testing.T) {
	tb, _ := scriptedToolbox()
	update, err := steps.GenerateNutrition(context.Background(), tb, baseState())
	require.NoError(t, err)
	require.NotNil(t, update.Nutrition)
	assert.Equal(t, "High protein", update.Nutrition.DietType)
	assert.Equal(t, 160, update.Nutrition.Macros.ProteinGrams)
}

func TestUpdateConstraints_EmptyFeedbackIsNoop(t *testing.T) {
	tb, _ := scriptedToolbox()
	update, err := steps.UpdateConstraints(context.Background(), tb, baseState())
	require.NoError(t, err)
	assert.True(t, update.IsZero())
}

func TestUpdateConstraints_RevisesAndClearsFeedback(t *testing.T) {
	revised := `{"goal":"1 muscle up","current_fitness":"10 pull ups","time_per_day":30,"days_per_week":2,"equipment":[]}`
	tb, _ := scriptedToolbox(mock.Rule{Match: "Revise the user's fitness profile", Response: revised})

	state := baseState()
	state.Feedback = "less days"

	update, err := steps.UpdateConstraints(context.Background(), tb, state)
	require.NoError(t, err)
	require.NotNil(t, update.Profile)
	assert.Equal(t, 2, update.Profile.DaysPerWeek)
	require.NotNil(t, update.Feedback)
	assert.Empty(t, *update.Feedback)
	assert.Equal(t, 1, update.IterationDelta)
}

func TestSavePlan(t *testing.T) {
	tb, recorder := scriptedToolbox()
	state := baseState()
	state.Schedule = &domain.WeeklySchedule{
		EstimatedTime: "about 14 weeks",
		Notes:         "Rest well.",
		Workouts: []domain.DailyWorkout{
			{Day: "Monday", Exercises: []string{"Pull ups"}, Duration: "30 min"},
		},
	}

	update, err := steps.SavePlan(context.Background(), tb, state)
	require.NoError(t, err)
	require.NotNil(t, update.Result)
	assert.Contains(t, *update.Result, "Successfully saved plan")

	content, ok := recorder.Get("workout_plan.md")
	require.True(t, ok)
	assert.Contains(t, content, "## Schedule Notes")
	assert.Contains(t, content, "**Goal:** 1 muscle up")
}

func TestSavePlan_NoSchedule(t *testing.T) {
	tb, _ := scriptedToolbox()
	update, err := steps.SavePlan(context.Background(), tb, baseState())
	require.NoError(t, err)
	require.NotNil(t, update.Result)
	assert.Equal(t, "No schedule to save.", *update.Result)
}

type failingArtifacts struct{}

func (failingArtifacts) Write(context.Context, string, []byte) (string, error) {
	return "", fmt.Errorf("%w: disk full", domain.ErrPersistence)
}

func TestSavePlan_PersistenceFailureIsReported(t *testing.T) {
	tb, _ := scriptedToolbox()
	tb.Artifacts = failingArtifacts{}
	state := baseState()
	state.Schedule = &domain.WeeklySchedule{
		Workouts: []domain.DailyWorkout{{Day: "Monday", Exercises: []string{"Pull ups"}, Duration: "30 min"}},
	}

	update, err := steps.SavePlan(context.Background(), tb, state)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	require.NotNil(t, update.Result)
	assert.Contains(t, *update.Result, "Error saving plan")
}

func TestCollectProfile_LLMErrorIsTolerated(t *testing.T) {
	tb, _ := scriptedToolbox(mock.Rule{
		Match: "Extract the user's fitness profile", Err: errors.New("provider timeout"),
	})
	update, err := steps.CollectProfile(context.Background(), tb, *domain.NewState("x", false))
	require.NoError(t, err)
	assert.True(t, update.IsZero())
}
