package domain

import "fmt"

// Defaults applied when the extraction step cannot find an explicit value.
const (
	DefaultTimePerDay  = 30
	DefaultDaysPerWeek = 3

	// MinTimePerDay is the smallest daily budget worth planning for.
	MinTimePerDay = 10
)

// UserProfile captures the user's goal and training constraints.
// It is produced by profile extraction and only ever replaced by the
// constraint-revision step; nothing mutates it in place.
type UserProfile struct {
	Goal           string   `json:"goal" mapstructure:"goal"`
	CurrentFitness string   `json:"current_fitness" mapstructure:"current_fitness"`
	TimePerDay     int      `json:"time_per_day" mapstructure:"time_per_day"`
	DaysPerWeek    int      `json:"days_per_week" mapstructure:"days_per_week"`
	Equipment      []string `json:"equipment" mapstructure:"equipment"`
}

// Validate checks the structural invariants of a profile.
// An empty Equipment list is valid and means "bodyweight only".
func (p *UserProfile) Validate() error {
	if p.Goal == "" {
		return fmt.Errorf("%w: goal is required", ErrSchemaValidation)
	}
	if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		return fmt.Errorf("%w: days_per_week must be between 1 and 7, got %d", ErrSchemaValidation, p.DaysPerWeek)
	}
	if p.TimePerDay < MinTimePerDay {
		return fmt.Errorf("%w: time_per_day must be at least %d minutes, got %d", ErrSchemaValidation, MinTimePerDay, p.TimePerDay)
	}
	return nil
}

// ApplyDefaults fills zero-valued numeric fields with the documented defaults.
func (p *UserProfile) ApplyDefaults() {
	if p.TimePerDay == 0 {
		p.TimePerDay = DefaultTimePerDay
	}
	if p.DaysPerWeek == 0 {
		p.DaysPerWeek = DefaultDaysPerWeek
	}
}

// WeeklyMinutes returns the total training volume per week.
func (p *UserProfile) WeeklyMinutes() int {
	return p.TimePerDay * p.DaysPerWeek
}

// Equal reports whether two profiles are identical field by field.
// The engine uses this to detect revisions that made no progress.
func (p *UserProfile) Equal(other *UserProfile) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.Goal != other.Goal ||
		p.CurrentFitness != other.CurrentFitness ||
		p.TimePerDay != other.TimePerDay ||
		p.DaysPerWeek != other.DaysPerWeek ||
		len(p.Equipment) != len(other.Equipment) {
		return false
	}
	for i := range p.Equipment {
		if p.Equipment[i] != other.Equipment[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Equipment = append([]string(nil), p.Equipment...)
	return &cp
}
