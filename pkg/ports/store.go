package ports

import (
	"context"

	"github.com/quentel/fitflow/pkg/domain"
)

// StateStore defines the interface for persisting session checkpoints.
// Every pause writes a checkpoint; Resume reads it back, so sessions
// survive process restarts when backed by a durable implementation.
type StateStore interface {
	// Save persists the state for a given session ID, overwriting any
	// previous checkpoint.
	Save(ctx context.Context, sessionID string, state *domain.WorkflowState) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.WorkflowState, error)

	// Delete removes the state for a given session ID. Deleting an
	// unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all live sessions.
	List(ctx context.Context) ([]string, error)
}
