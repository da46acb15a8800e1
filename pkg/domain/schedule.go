package domain

import "fmt"

// DailyWorkout is a single training day inside a weekly schedule.
type DailyWorkout struct {
	Day       string   `json:"day"`
	Exercises []string `json:"exercises"`
	Duration  string   `json:"duration"`
}

// WeeklySchedule is the authored workout week. It is replaced wholesale on
// every revision pass, never patched incrementally.
type WeeklySchedule struct {
	Workouts []DailyWorkout `json:"workouts"`
	Notes    string         `json:"notes,omitempty"`

	// EstimatedTime is always copied from the Assessment that produced
	// this schedule.
	EstimatedTime string `json:"estimated_time"`
}

// Validate checks that the schedule has at least one workout day and no
// empty exercise lists.
func (s *WeeklySchedule) Validate() error {
	if len(s.Workouts) == 0 {
		return fmt.Errorf("%w: schedule has no workouts", ErrSchemaValidation)
	}
	for _, w := range s.Workouts {
		if len(w.Exercises) == 0 {
			return fmt.Errorf("%w: workout %q has no exercises", ErrSchemaValidation, w.Day)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s *WeeklySchedule) Clone() *WeeklySchedule {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Workouts = make([]DailyWorkout, len(s.Workouts))
	for i, w := range s.Workouts {
		cw := w
		cw.Exercises = append([]string(nil), w.Exercises...)
		cp.Workouts[i] = cw
	}
	return &cp
}
