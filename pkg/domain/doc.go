// Package domain holds the typed records that flow through the fitness plan
// workflow: the user profile, gathered resources, feasibility assessment,
// weekly schedule, nutrition plan, and the aggregate WorkflowState the
// engine checkpoints between passes.
//
// The package has no behavior beyond construction, validation, and the
// field-level merge semantics in Update.Apply.
package domain
