package navigation

import (
	"log/slog"
	"time"

	"github.com/aretw0/pawtrail/internal/logging"
	"github.com/aretw0/pawtrail/pkg/bundle"
	"github.com/aretw0/pawtrail/pkg/codec"
	"github.com/aretw0/pawtrail/pkg/domain"
	"github.com/aretw0/pawtrail/pkg/observable"
)

// Navigator owns the screen currently shown by the app.
// The back stack is at most one level deep: going back always lands on Home.
//
// A Navigator is not safe for concurrent use. Hosts running it from several
// goroutines must serialize access themselves (see the session package).
type Navigator struct {
	current *observable.Value[domain.Screen]
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets a structured logger for navigation events.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(n *Navigator) {
		n.hooks = hooks
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(n *Navigator) {
		n.now = now
	}
}

func newNavigator(start domain.Screen, opts []Option) *Navigator {
	n := &Navigator{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.current = observable.NewValue(start)
	return n
}

// New creates a Navigator on Home, as for a fresh process with nothing persisted.
func New(opts ...Option) *Navigator {
	return newNavigator(domain.Home{}, opts)
}

// Restore creates a Navigator from a checkpoint produced by Save.
// A nil bundle means nothing was persisted and yields Home. Any other bundle,
// empty ones included, must decode; a malformed checkpoint is returned as
// *domain.MalformedStateError and choosing a fallback is left to the caller.
func Restore(saved *bundle.Bundle, opts ...Option) (*Navigator, error) {
	if saved == nil {
		n := New(opts...)
		n.emit(n.hooks.OnRestore, domain.EventRestore, "", domain.TagHome, false)
		return n, nil
	}

	screen, err := codec.Decode(saved)
	if err != nil {
		return nil, err
	}

	n := newNavigator(screen, opts)
	n.logger.Debug("navigation state restored", "screen", screen.Tag())
	n.emit(n.hooks.OnRestore, domain.EventRestore, "", screen.Tag(), true)
	return n, nil
}

// Current returns the screen currently shown.
func (n *Navigator) Current() domain.Screen {
	return n.current.Get()
}

// Screen exposes the current screen for observation. Callers cannot write through it.
func (n *Navigator) Screen() observable.Readable[domain.Screen] {
	return observable.ReadOnly[domain.Screen](n.current)
}

// Navigate replaces the current screen with screen and notifies observers.
// Navigating to the screen already shown still notifies.
// It panics if screen is nil.
func (n *Navigator) Navigate(screen domain.Screen) {
	next := domain.Normalize(screen)
	if next == nil {
		panic("navigation: Navigate called with nil screen")
	}

	from := n.current.Get().Tag()
	n.current.Set(next)

	n.logger.Debug("navigated", "from", from, "to", next.Tag())
	n.emit(n.hooks.OnNavigate, domain.EventNavigate, from, next.Tag(), true)
}

// Back returns to Home. It reports false, without notifying, when Home is already shown.
func (n *Navigator) Back() bool {
	from := n.current.Get()
	if domain.IsHome(from) {
		n.emit(n.hooks.OnBack, domain.EventBack, domain.TagHome, domain.TagHome, false)
		return false
	}

	n.current.Set(domain.Home{})

	n.logger.Debug("navigated back", "from", from.Tag())
	n.emit(n.hooks.OnBack, domain.EventBack, from.Tag(), domain.TagHome, true)
	return true
}

// Save checkpoints the current screen. It is pure and may be called at any time.
func (n *Navigator) Save() *bundle.Bundle {
	return codec.Encode(n.current.Get())
}

func (n *Navigator) emit(hook func(*domain.NavigationEvent), typ domain.EventType, from, to domain.ScreenTag, navigated bool) {
	if hook == nil {
		return
	}
	hook(&domain.NavigationEvent{
		Timestamp: n.now(),
		Type:      typ,
		From:      from,
		To:        to,
		Navigated: navigated,
	})
}
