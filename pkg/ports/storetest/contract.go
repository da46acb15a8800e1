// Package storetest provides a reusable conformance suite for
// ports.StateStore implementations.
package storetest

import (
	"context"
	"testing"

	"github.com/quentel/fitflow/pkg/domain"
	"github.com/quentel/fitflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run verifies that a store complies with the ports.StateStore contract.
func Run(t *testing.T, store ports.StateStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Unknown", func(t *testing.T) {
		_, err := store.Load(ctx, "contract-missing")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Save_Load_RoundTrip", func(t *testing.T) {
		state := domain.NewState("Goal: 1 muscle up.", true)
		state.Profile = &domain.UserProfile{Goal: "1 muscle up", TimePerDay: 30, DaysPerWeek: 3}
		state.Resources = []domain.ExerciseResource{{Title: "t", URL: "https://example.com", KeyTips: []string{"tip"}}}
		state.Status = domain.StatusAwaitingApproval
		state.PausedAt = "create_schedule"
		state.IterationCount = 2

		require.NoError(t, store.Save(ctx, "contract-rt", state))

		got, err := store.Load(ctx, "contract-rt")
		require.NoError(t, err)
		assert.Equal(t, state.UserInput, got.UserInput)
		assert.Equal(t, state.Profile, got.Profile)
		assert.Equal(t, state.Resources, got.Resources)
		assert.Equal(t, domain.StatusAwaitingApproval, got.Status)
		assert.Equal(t, "create_schedule", got.PausedAt)
		assert.Equal(t, 2, got.IterationCount)
	})

	t.Run("Save_Overwrites", func(t *testing.T) {
		first := domain.NewState("first", false)
		require.NoError(t, store.Save(ctx, "contract-ow", first))

		second := domain.NewState("second", false)
		second.IterationCount = 1
		require.NoError(t, store.Save(ctx, "contract-ow", second))

		got, err := store.Load(ctx, "contract-ow")
		require.NoError(t, err)
		assert.Equal(t, "second", got.UserInput)
		assert.Equal(t, 1, got.IterationCount)
	})

	t.Run("List_Contains_Saved", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "contract-ls", domain.NewState("x", false)))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, "contract-ls")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "contract-del", domain.NewState("x", false)))
		require.NoError(t, store.Delete(ctx, "contract-del"))

		_, err := store.Load(ctx, "contract-del")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		// Deleting again is not an error.
		assert.NoError(t, store.Delete(ctx, "contract-del"))
	})
}
