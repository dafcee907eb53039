package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/pawtrail/pkg/bundle"
	"github.com/aretw0/pawtrail/pkg/codec"
	"github.com/aretw0/pawtrail/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")
	dog := domain.Dog{ID: 7, Name: "Biscuit", Breed: "Beagle", Age: 4}

	t.Run("Save and Load", func(t *testing.T) {
		saved := codec.Encode(domain.Detail{Dog: dog})

		err := store.Save(ctx, sessionID, saved)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, bundle.Equal(saved, loaded), "loaded bundle should match saved bundle")

		screen, err := codec.Decode(loaded)
		require.NoError(t, err)
		assert.Equal(t, domain.Detail{Dog: dog}, screen)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, codec.Encode(domain.Detail{Dog: dog})))
		require.NoError(t, store.Save(ctx, sessionID, codec.Encode(domain.Home{})))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		screen, err := codec.Decode(loaded)
		require.NoError(t, err)
		assert.Equal(t, domain.Home{}, screen)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		saved := codec.Encode(domain.Home{})
		require.NoError(t, store.Save(ctx, sessionID, saved))

		// Mutating either side must not leak into the store.
		saved.PutString("leak", "yes")
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.False(t, loaded.Contains("leak"))

		loaded.PutString("leak", "yes")
		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.False(t, again.Contains("leak"))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, codec.Encode(domain.Home{}))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Delete of a missing session should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, codec.Encode(domain.Home{}))
		_ = store.Save(ctx, id2, codec.Encode(domain.Detail{Dog: dog}))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
