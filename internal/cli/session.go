package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/pawtrail/pkg/codec"
)

// ListSessions prints the ids of all persisted sessions.
func (a *App) ListSessions(ctx context.Context, w io.Writer) error {
	sessions, err := a.Manager.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(w, "No active sessions found.")
		return nil
	}

	fmt.Fprintln(w, "Active Sessions:")
	for _, s := range sessions {
		fmt.Fprintln(w, "- "+s)
	}
	return nil
}

// InspectSession pretty prints the raw checkpoint of a session, followed by
// a note when it does not decode.
func (a *App) InspectSession(ctx context.Context, w io.Writer, sessionID string) error {
	state, err := a.Manager.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("error loading session '%s': %w", sessionID, err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling state: %w", err)
	}
	fmt.Fprintln(w, string(data))

	if _, err := codec.Decode(state); err != nil {
		printSystemMessage(w, "Checkpoint is malformed: %v", err)
	}
	return nil
}

// RemoveSessions deletes each session, reporting per id. It fails if any removal failed.
func (a *App) RemoveSessions(ctx context.Context, w io.Writer, sessionIDs []string) error {
	var errs []error
	for _, sessionID := range sessionIDs {
		if err := a.Manager.Delete(ctx, sessionID); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", sessionID, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", sessionID)
	}
	return errors.Join(errs...)
}

// RemoveAllSessions deletes every persisted session.
func (a *App) RemoveAllSessions(ctx context.Context, w io.Writer) error {
	sessions, err := a.Manager.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No active sessions found.")
		return nil
	}
	return a.RemoveSessions(ctx, w, sessions)
}
