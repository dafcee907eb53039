package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/pawtrail/internal/presentation/graph"
	"github.com/aretw0/pawtrail/internal/presentation/tui"
	"github.com/aretw0/pawtrail/pkg/domain"
	"github.com/aretw0/pawtrail/pkg/navigation"
)

// Output describes where screens are printed.
type Output struct {
	W      io.Writer
	Styled bool
	Banner bool
}

func (o Output) render(screen domain.Screen) error {
	r, err := tui.NewScreenRenderer(o.W, o.Styled)
	if err != nil {
		return err
	}
	if o.Banner {
		r.Banner()
	}
	return r.Render(screen)
}

// Show prints the current screen of a session without changing it.
func (a *App) Show(ctx context.Context, out Output, sessionID string) error {
	nav, err := a.Manager.Restore(ctx, sessionID)
	if err != nil {
		return err
	}
	return out.render(nav.Current())
}

// Open navigates a session to the detail screen of dog.
func (a *App) Open(ctx context.Context, out Output, sessionID string, dog domain.Dog) error {
	screen, err := a.Manager.Update(ctx, sessionID, func(nav *navigation.Navigator) error {
		nav.Navigate(domain.Detail{Dog: dog})
		return nil
	})
	if err != nil {
		return err
	}
	return out.render(screen)
}

// Home navigates a session to Home.
func (a *App) Home(ctx context.Context, out Output, sessionID string) error {
	screen, err := a.Manager.Update(ctx, sessionID, func(nav *navigation.Navigator) error {
		nav.Navigate(domain.Home{})
		return nil
	})
	if err != nil {
		return err
	}
	return out.render(screen)
}

// Back pops a session back to Home. Nothing is printed besides a notice when already there.
func (a *App) Back(ctx context.Context, out Output, sessionID string) error {
	var navigated bool
	screen, err := a.Manager.Update(ctx, sessionID, func(nav *navigation.Navigator) error {
		navigated = nav.Back()
		return nil
	})
	if err != nil {
		return err
	}
	if !navigated {
		printSystemMessage(out.W, "Session '%s' is already on Home.", sessionID)
		return nil
	}
	return out.render(screen)
}

// Graph prints the navigation state machine as Mermaid, highlighting the session's screen when given.
func (a *App) Graph(ctx context.Context, w io.Writer, sessionID string) error {
	var current domain.Screen
	if sessionID != "" {
		nav, err := a.Manager.Restore(ctx, sessionID)
		if err != nil {
			return err
		}
		current = nav.Current()
	}
	_, err := fmt.Fprint(w, graph.GenerateMermaid(current))
	return err
}
