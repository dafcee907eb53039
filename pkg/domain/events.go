package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventNavigate EventType = "navigate"
	EventBack     EventType = "back"
	EventRestore  EventType = "restore"
)

// NavigationEvent describes a change (or attempted change) of the current screen.
type NavigationEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	From      ScreenTag `json:"from"`
	To        ScreenTag `json:"to"`

	// Navigated is false for a Back on Home, which leaves the state unchanged.
	// For restore events it reports whether a checkpoint was found.
	Navigated bool `json:"navigated"`
}

// LifecycleHooks defines callbacks for navigator observability.
// Hooks run synchronously on the caller's goroutine, after observers.
type LifecycleHooks struct {
	OnNavigate func(*NavigationEvent)
	OnBack     func(*NavigationEvent)
	OnRestore  func(*NavigationEvent)
}
