package domain

// Status describes where a session currently is in its lifecycle.
type Status string

const (
	// StatusRunning means a forward pass is in flight.
	StatusRunning Status = "running"
	// StatusAwaitingApproval means the session is paused at the interrupt
	// point with a drafted schedule, waiting for the user's verdict.
	StatusAwaitingApproval Status = "awaiting_approval"
	// StatusSaved means the plan was approved and persisted. Terminal.
	StatusSaved Status = "saved"
	// StatusHalted means profile extraction failed and the pipeline was
	// aborted before producing a schedule. Terminal.
	StatusHalted Status = "halted"
	// StatusExhausted means the revision cap was hit. Terminal.
	StatusExhausted Status = "exhausted"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusSaved || s == StatusHalted || s == StatusExhausted
}

// FeedbackApprove is the sentinel feedback value that routes a paused
// session to persistence instead of the revision cycle.
const FeedbackApprove = "approve"

// WorkflowState is the aggregate snapshot threaded through the workflow.
// The engine owns it exclusively for the duration of a run: steps receive
// a copy and return partial updates, and the engine performs the merge.
type WorkflowState struct {
	UserInput string `json:"user_input"`

	Profile    *UserProfile       `json:"profile,omitempty"`
	Resources  []ExerciseResource `json:"resources,omitempty"`
	Assessment *Assessment        `json:"assessment,omitempty"`
	Schedule   *WeeklySchedule    `json:"schedule,omitempty"`
	Nutrition  *NutritionPlan     `json:"nutrition,omitempty"`

	// Feedback is transient: set by Resume, cleared by the step that
	// consumes it. The save step reuses it to report the persistence result.
	Feedback string `json:"feedback,omitempty"`

	// IterationCount increases by exactly one on every revision pass.
	IterationCount int `json:"iteration_count"`

	// NoopRevisions counts consecutive revisions that left the profile
	// unchanged, so the engine can refuse to spin on no-progress feedback.
	NoopRevisions int `json:"noop_revisions,omitempty"`

	// IncludeYouTube is set once at run start and never mutated.
	IncludeYouTube bool `json:"include_youtube"`

	Status Status `json:"status"`

	// PausedAt is the step the checkpoint cursor points at while the
	// session is suspended.
	PausedAt string `json:"paused_at,omitempty"`

	// Result carries the final user-facing message (persistence outcome,
	// halt reason, exhaustion notice).
	Result string `json:"result,omitempty"`
}

// NewState builds the initial state for a fresh run.
func NewState(userInput string, includeYouTube bool) *WorkflowState {
	return &WorkflowState{
		UserInput:      userInput,
		IncludeYouTube: includeYouTube,
		Status:         StatusRunning,
	}
}

// Clone returns a deep copy. Peek hands clones out so callers can never
// alias the checkpointed snapshot.
func (s *WorkflowState) Clone() *WorkflowState {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Profile = s.Profile.Clone()
	cp.Resources = cloneResources(s.Resources)
	cp.Assessment = s.Assessment.Clone()
	cp.Schedule = s.Schedule.Clone()
	cp.Nutrition = s.Nutrition.Clone()
	return &cp
}
