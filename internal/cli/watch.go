package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/pawtrail/internal/config"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watch prints the screen of a session and prints it again every time another
// process checkpoints or removes it. It only works with the file backend and
// returns when ctx is cancelled.
func (a *App) Watch(ctx context.Context, out Output, sessionID string) error {
	if a.Config.Store.Backend != config.BackendFile {
		return fmt.Errorf("watch requires the %q store backend (configured: %q)", config.BackendFile, a.Config.Store.Backend)
	}

	dir := a.Config.Store.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if err := a.Show(ctx, out, sessionID); err != nil {
		return err
	}

	target := sessionID + ".json"
	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			printSystemMessage(out.W, "Session '%s' changed.", sessionID)
			if err := a.Show(ctx, out, sessionID); err != nil {
				a.Logger.Warn("failed to render session", "session_id", sessionID, "err", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.Logger.Warn("watcher error", "err", err)
		}
	}
}
