// Package workflow implements the step graph engine: it drives forward
// passes over the shared session state, suspends at the approval point,
// and resumes along the edge the user's feedback selects.
package workflow

import (
	"fmt"

	"github.com/quentel/fitflow/internal/steps"
)

// Step identifiers. Checkpoints record the paused step by ID, so these
// are part of the persisted format.
const (
	StepCollectProfile    = "collect_profile"
	StepSearchExercises   = "search_exercises"
	StepProcessResources  = "process_resources"
	StepAssessFeasibility = "assess_feasibility"
	StepCreateSchedule    = "create_schedule"
	StepGenerateNutrition = "generate_nutrition"
	StepUpdateConstraints = "update_constraints"
	StepSavePlan          = "save_plan"
)

// node is one vertex of the static step graph.
type node struct {
	id  string
	run steps.Func

	// next lists unconditional successors. The conditional edge out of
	// create_schedule is owned by the engine's decide predicate, and the
	// schedule/nutrition pair fan out from assess_feasibility to join
	// again at save_plan.
	next []string
}

// graph is the full step graph. The linear prefix runs in order; the two
// successors of assess_feasibility may run concurrently; the edge from
// update_constraints back to assess_feasibility is the revision loop and
// the only cycle.
var graph = []node{
	{id: StepCollectProfile, run: steps.CollectProfile, next: []string{StepSearchExercises}},
	{id: StepSearchExercises, run: steps.SearchExercises, next: []string{StepProcessResources}},
	{id: StepProcessResources, run: steps.ProcessResources, next: []string{StepAssessFeasibility}},
	{id: StepAssessFeasibility, run: steps.AssessFeasibility, next: []string{StepCreateSchedule, StepGenerateNutrition}},
	{id: StepCreateSchedule, run: steps.CreateSchedule, next: nil}, // conditional: decide()
	{id: StepGenerateNutrition, run: steps.GenerateNutrition, next: []string{StepSavePlan}},
	{id: StepUpdateConstraints, run: steps.UpdateConstraints, next: []string{StepAssessFeasibility}},
	{id: StepSavePlan, run: steps.SavePlan, next: nil},
}

// entryStep is where every forward pass begins.
const entryStep = StepCollectProfile

var nodesByID = buildIndex()

func buildIndex() map[string]node {
	index := make(map[string]node, len(graph))
	for _, n := range graph {
		if _, dup := index[n.id]; dup {
			panic(fmt.Sprintf("workflow: duplicate step id %q", n.id))
		}
		index[n.id] = n
	}
	return index
}

// validateGraph checks the static table: every edge points at a declared
// node, every node is reachable from the entry point (update_constraints
// is entered only through the engine's decide predicate, so it is seeded
// alongside the entry), and the revision loop is the only cycle.
func validateGraph() error {
	for _, n := range graph {
		for _, succ := range n.next {
			if _, ok := nodesByID[succ]; !ok {
				return fmt.Errorf("step %q has unknown successor %q", n.id, succ)
			}
		}
	}

	reachable := map[string]bool{}
	var visit func(id string)
	visit = func(id string) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		for _, succ := range nodesByID[id].next {
			visit(succ)
		}
	}
	visit(entryStep)
	visit(StepUpdateConstraints)
	visit(StepSavePlan)

	for _, n := range graph {
		if !reachable[n.id] {
			return fmt.Errorf("step %q is unreachable", n.id)
		}
	}
	return nil
}
