package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventStepEnter EventType = "step_enter"
	EventStepLeave EventType = "step_leave"
	EventPause     EventType = "pause"
	EventResume    EventType = "resume"
)

// StepEvent describes entry into or exit from a workflow step.
type StepEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	SessionID string        `json:"session_id"`
	StepID    string        `json:"step_id"`
	Iteration int           `json:"iteration"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       string        `json:"err,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability. All hooks are
// optional and must not block; the engine invokes them synchronously.
type LifecycleHooks struct {
	OnStepEnter func(context.Context, *StepEvent)
	OnStepLeave func(context.Context, *StepEvent)
	OnPause     func(context.Context, *StepEvent)
	OnResume    func(context.Context, *StepEvent)
}
