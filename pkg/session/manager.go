package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/pawtrail/internal/logging"
	"github.com/aretw0/pawtrail/pkg/bundle"
	"github.com/aretw0/pawtrail/pkg/domain"
	"github.com/aretw0/pawtrail/pkg/navigation"
	"github.com/aretw0/pawtrail/pkg/ports"
)

// RestorePolicy decides what Restore does with a malformed checkpoint.
type RestorePolicy string

const (
	// RestorePolicyFail returns the *domain.MalformedStateError to the caller.
	RestorePolicyFail RestorePolicy = "fail"
	// RestorePolicyReset logs the error and starts the session over on Home.
	RestorePolicyReset RestorePolicy = "reset"
)

// ParseRestorePolicy validates a policy read from configuration.
func ParseRestorePolicy(raw string) (RestorePolicy, error) {
	switch p := RestorePolicy(raw); p {
	case RestorePolicyFail, RestorePolicyReset:
		return p, nil
	case "":
		return RestorePolicyFail, nil
	default:
		return "", fmt.Errorf("unknown restore policy %q (expected %q or %q)", raw, RestorePolicyFail, RestorePolicyReset)
	}
}

const defaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager is the host side of checkpointing: it restores navigators from a
// StateStore and saves them back, serializing all work on a session.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.StateStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger

	policy      RestorePolicy
	onMalformed func(sessionID string, err error)
	navOpts     []navigation.Option
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRestorePolicy sets the malformed checkpoint policy (default RestorePolicyFail).
func WithRestorePolicy(policy RestorePolicy) Option {
	return func(m *Manager) {
		m.policy = policy
	}
}

// WithMalformedHandler registers a callback invoked for every malformed checkpoint,
// whatever the policy.
func WithMalformedHandler(fn func(sessionID string, err error)) Option {
	return func(m *Manager) {
		m.onMalformed = fn
	}
}

// WithNavigatorOptions sets options applied to every navigator the Manager restores.
func WithNavigatorOptions(opts ...navigation.Option) Option {
	return func(m *Manager) {
		m.navOpts = append(m.navOpts, opts...)
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: defaultLockTTL,
		logger:  logging.NewNop(),
		policy:  RestorePolicyFail,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Restore rebuilds the navigator of a session.
// An unknown session starts on Home. A malformed checkpoint is handled per the restore policy.
func (m *Manager) Restore(ctx context.Context, sessionID string) (*navigation.Navigator, error) {
	var nav *navigation.Navigator
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		nav, err = m.restore(ctx, sessionID)
		return err
	})
	return nav, err
}

func (m *Manager) restore(ctx context.Context, sessionID string) (*navigation.Navigator, error) {
	saved, err := m.store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to load session %q: %w", sessionID, err)
		}
		saved = nil
	}

	nav, err := navigation.Restore(saved, m.navOpts...)
	if err == nil {
		return nav, nil
	}

	if m.onMalformed != nil {
		m.onMalformed(sessionID, err)
	}
	if m.policy != RestorePolicyReset {
		return nil, fmt.Errorf("failed to restore session %q: %w", sessionID, err)
	}

	m.logger.Warn("discarding malformed checkpoint",
		"session_id", sessionID,
		"err", err,
	)
	return navigation.New(m.navOpts...), nil
}

// Checkpoint saves the current screen of nav for a session.
func (m *Manager) Checkpoint(ctx context.Context, sessionID string, nav *navigation.Navigator) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.checkpoint(ctx, sessionID, nav)
	})
}

func (m *Manager) checkpoint(ctx context.Context, sessionID string, nav *navigation.Navigator) error {
	if err := m.store.Save(ctx, sessionID, nav.Save()); err != nil {
		return fmt.Errorf("failed to checkpoint session %q: %w", sessionID, err)
	}
	m.logger.Debug("session checkpointed", "session_id", sessionID, "screen", nav.Current().Tag())
	return nil
}

// Update restores a session, applies fn and checkpoints the result, all under the session lock.
// Nothing is saved if fn returns an error. It returns the screen shown after fn.
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(*navigation.Navigator) error) (domain.Screen, error) {
	return m.UpdateNotify(ctx, sessionID, fn, nil)
}

// UpdateNotify is Update with a commit callback. committed runs after the
// checkpoint is saved and before the session lock is released, so successive
// updates of one session reach it in the order they were saved.
// It is not called when fn or the checkpoint fails.
func (m *Manager) UpdateNotify(ctx context.Context, sessionID string, fn func(*navigation.Navigator) error, committed func(domain.Screen)) (domain.Screen, error) {
	var screen domain.Screen
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		nav, err := m.restore(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := fn(nav); err != nil {
			return err
		}
		if err := m.checkpoint(ctx, sessionID, nav); err != nil {
			return err
		}
		screen = nav.Current()
		if committed != nil {
			committed(screen)
		}
		return nil
	})
	return screen, err
}

// Load returns the raw checkpoint of a session.
func (m *Manager) Load(ctx context.Context, sessionID string) (*bundle.Bundle, error) {
	var state *bundle.Bundle
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, sessionID)
		return err
	})
	return state, err
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
