/*
Package pawtrail is a tiny navigation-state library for a two-screen dog browser: a Home list and a Detail screen for one dog.

Its value is durability. The host process can die at any moment; before it does, the navigator's current screen is checkpointed into a flat key-value Bundle, and a new process restores exactly that screen from it. A checkpoint that cannot be decoded is reported as a *domain.MalformedStateError, never silently replaced by Home.

# Concept

The navigator holds a single observable cell with the current Screen. Navigate replaces it (always notifying observers, even for an equal screen) and Back returns to Home, reporting whether anything changed. The back stack is at most one level deep.

Persistence is the host's job. The session package restores and checkpoints navigators through any ports.StateStore (memory, file, Redis) wrapped in optional middleware such as AES-GCM encryption, serializing access per session.

# Packages

  - pkg/domain: Screen variants, Dog, events and errors.
  - pkg/bundle: ordered key-value checkpoint container.
  - pkg/codec: Screen <-> Bundle mapping.
  - pkg/observable: single-value observable cell.
  - pkg/navigation: the Navigator.
  - pkg/session: host-side restore/checkpoint orchestration.
  - pkg/adapters: memory and Redis stores, HTTP API.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/pawtrail/pkg/adapters/memory"
		"github.com/aretw0/pawtrail/pkg/domain"
		"github.com/aretw0/pawtrail/pkg/session"
	)

	func main() {
		mgr := session.NewManager(memory.NewStore())
		ctx := context.Background()

		// Unknown sessions start on Home.
		nav, err := mgr.Restore(ctx, "session-123")
		if err != nil {
			log.Fatal(err)
		}

		nav.Screen().Subscribe(func(s domain.Screen) {
			log.Println("now showing", s)
		})
		nav.Navigate(domain.Detail{Dog: domain.Dog{ID: 7, Name: "Biscuit"}})

		// Checkpoint before the process may be killed.
		if err := mgr.Checkpoint(ctx, "session-123", nav); err != nil {
			log.Fatal(err)
		}
	}
*/
package pawtrail
