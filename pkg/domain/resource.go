package domain

// MaxKeyTips bounds how many form cues are kept per resource.
const MaxKeyTips = 3

// ExerciseResource is a web resource (article or video) recommended for the
// user's goal, optionally enriched with extracted form cues.
// Resources are one-shot: created by resource processing, never mutated.
type ExerciseResource struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	KeyTips []string `json:"key_tips,omitempty"`
}

// Clone returns a deep copy.
func (r ExerciseResource) Clone() ExerciseResource {
	cp := r
	cp.KeyTips = append([]string(nil), r.KeyTips...)
	return cp
}

// CapTips truncates the tip list to MaxKeyTips.
func (r *ExerciseResource) CapTips() {
	if len(r.KeyTips) > MaxKeyTips {
		r.KeyTips = r.KeyTips[:MaxKeyTips]
	}
}

// cloneResources deep-copies a resource slice.
func cloneResources(in []ExerciseResource) []ExerciseResource {
	if in == nil {
		return nil
	}
	out := make([]ExerciseResource, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
