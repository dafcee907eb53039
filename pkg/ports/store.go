package ports

import (
	"context"

	"github.com/aretw0/pawtrail/pkg/bundle"
)

// StateStore defines the interface for persisting navigation checkpoints.
// Each session owns one bundle, as written by navigation.Navigator.Save.
type StateStore interface {
	// Save persists the checkpoint for a given session ID, replacing any previous one.
	Save(ctx context.Context, sessionID string, state *bundle.Bundle) error

	// Load retrieves the checkpoint for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*bundle.Bundle, error)

	// Delete removes the checkpoint for a given session ID.
	// Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
