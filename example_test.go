package fitflow_test

import (
	"context"
	"fmt"
	"log"

	"github.com/quentel/fitflow"
	"github.com/quentel/fitflow/pkg/adapters/mock"
	"github.com/quentel/fitflow/pkg/ports"
)

// ExampleNew_library demonstrates driving a coaching session with
// injected adapters, so no API keys or network access are needed.
func ExampleNew_library() {
	// 1. Script the model and search responses
	completer := mock.NewCompleter(
		mock.Rule{Match: "Extract the user's fitness profile", Response: `{"goal":"1 muscle up","current_fitness":"10 pull ups","time_per_day":30,"days_per_week":3,"equipment":[]}`},
		mock.Rule{Match: "key tips", Response: `["Train false grip"]`},
		mock.Rule{Match: "Assess the feasibility", Response: `{"practice_hours":21,"feasible":true,"rationale":"Good pulling base."}`},
		mock.Rule{Match: "Create a weekly workout schedule", Response: `{"workouts":[{"day":"Monday","exercises":["Pull ups 5x5"],"duration":"30 min"}],"notes":"Rest well."}`},
		mock.Rule{Match: "Generate a nutrition plan", Response: `{"diet_type":"High protein","daily_calories":2400,"macros":{"protein_grams":160,"carbs_grams":250,"fat_grams":70},"hydration":"Drink 3L daily","meal_suggestions":["Greek yogurt"]}`},
	)

	coach, err := fitflow.New(
		fitflow.WithCompleter(completer),
		fitflow.WithSearcher(mock.NewSearcher(ports.SearchResult{Title: "Guide", URL: "https://example.com", Content: "grip work"})),
		fitflow.WithArtifactStore(mock.NewArtifactRecorder()),
	)
	if err != nil {
		log.Fatal(err)
	}

	// 2. Generate a draft; the session pauses for approval
	ctx := context.Background()
	id, state, err := coach.Generate(ctx, "Goal: 1 muscle up. Current Level: 10 pull ups. Time: 30 mins/day. Days: 3 days/week. Equipment: none.", false)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(state.Status)
	fmt.Println(state.Schedule.Workouts[0].Day)

	// 3. Approve it to persist the plan
	state, err = coach.Approve(ctx, id)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(state.Status)
	fmt.Println(state.Result)

	// Output:
	// awaiting_approval
	// Monday
	// saved
	// Successfully saved plan to workout_plan.md
}
