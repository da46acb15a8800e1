package ports

import "context"

// ArtifactStore persists the rendered plan document. Writing the same name
// twice overwrites the prior artifact; there is no versioning.
type ArtifactStore interface {
	// Write stores content under name and returns a human-readable result
	// message suitable for surfacing to the user.
	Write(ctx context.Context, name string, content []byte) (string, error)
}
