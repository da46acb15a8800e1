package domain

// Assessment is the feasibility verdict for the current profile.
// A fresh Assessment replaces the previous one on every revision pass;
// assessments are never merged.
type Assessment struct {
	// EstimatedTime is a human-readable horizon, e.g. "about 4 months".
	// It is derived from PracticeHours and the profile's weekly volume,
	// so more volume always yields a shorter-or-equal estimate.
	EstimatedTime string `json:"estimated_time"`

	// Feasible reports whether the goal is achievable within roughly two years.
	Feasible bool `json:"feasible"`

	Rationale string `json:"rationale,omitempty"`

	// PracticeHours is the volume-neutral total effort estimate the
	// assessment is based on.
	PracticeHours float64 `json:"practice_hours,omitempty"`
}

// Clone returns a copy.
func (a *Assessment) Clone() *Assessment {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}
