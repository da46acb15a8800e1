/*
Package fitflow turns a free-text fitness goal into a weekly workout
plan with nutrition guidance, pausing for human approval before
anything is persisted.

Under the hood a small workflow engine drives a fixed step graph over a
shared session state: profile extraction, resource gathering,
feasibility assessment, then schedule and nutrition authoring in
parallel. The run suspends once the schedule is drafted; the caller
approves it or requests changes, and changes loop back through a
bounded constraint-revision cycle. Every suspension is checkpointed
under a session ID, so sessions survive process restarts when backed by
a durable store.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/quentel/fitflow"
	)

	func main() {
		coach, err := fitflow.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		id, state, err := coach.Generate(ctx,
			"Goal: 1 muscle up. Current Level: 10 pull ups. Time: 30 mins/day. Days: 3 days/week. Equipment: none.",
			true)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("estimated time:", state.Schedule.EstimatedTime)

		// Review the draft, then either approve it...
		state, err = coach.Approve(ctx, id)
		// ...or ask for a revision:
		// state, err = coach.RequestChanges(ctx, id, "less days")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(state.Result)
	}

By default sessions live in memory and the approved plan is written to
workout_plan.md in the current directory. The pkg/adapters tree has
file and Redis checkpoint stores for durable sessions, and every
external dependency (LLM, web search, artifact storage) is an interface
in pkg/ports that can be swapped through options.
*/
package fitflow
