package domain

// Update is a partial state update emitted by a step (or supplied by the
// driver through Resume). Nil pointer fields are left untouched; non-nil
// fields replace the current value wholesale. Resources are the one
// exception: they accumulate append-only across the whole run.
type Update struct {
	Profile    *UserProfile       `json:"profile,omitempty" mapstructure:"profile"`
	Resources  []ExerciseResource `json:"resources,omitempty" mapstructure:"resources"`
	Assessment *Assessment        `json:"assessment,omitempty" mapstructure:"assessment"`
	Schedule   *WeeklySchedule    `json:"schedule,omitempty" mapstructure:"schedule"`
	Nutrition  *NutritionPlan     `json:"nutrition,omitempty" mapstructure:"nutrition"`

	Feedback *string `json:"feedback,omitempty" mapstructure:"feedback"`
	Result   *string `json:"result,omitempty" mapstructure:"result"`

	// IterationDelta is added to the state's IterationCount. Only the
	// constraint-revision step sets it, and only ever to 1.
	IterationDelta int `json:"iteration_delta,omitempty" mapstructure:"-"`
}

// IsZero reports whether the update changes nothing.
func (u Update) IsZero() bool {
	return u.Profile == nil &&
		len(u.Resources) == 0 &&
		u.Assessment == nil &&
		u.Schedule == nil &&
		u.Nutrition == nil &&
		u.Feedback == nil &&
		u.Result == nil &&
		u.IterationDelta == 0
}

// Apply merges an update into the state using the declared per-field
// semantics: replace wholesale for scalars and objects, append-only for
// resources.
func (s *WorkflowState) Apply(u Update) {
	if u.Profile != nil {
		s.Profile = u.Profile
	}
	if len(u.Resources) > 0 {
		s.Resources = append(s.Resources, u.Resources...)
	}
	if u.Assessment != nil {
		s.Assessment = u.Assessment
	}
	if u.Schedule != nil {
		s.Schedule = u.Schedule
	}
	if u.Nutrition != nil {
		s.Nutrition = u.Nutrition
	}
	if u.Feedback != nil {
		s.Feedback = *u.Feedback
	}
	if u.Result != nil {
		s.Result = *u.Result
	}
	s.IterationCount += u.IterationDelta
}

// StringPtr is a small helper for building updates.
func StringPtr(s string) *string { return &s }
