package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/pawtrail/internal/adapters/file"
	"github.com/aretw0/pawtrail/internal/config"
	"github.com/aretw0/pawtrail/internal/logging"
	"github.com/aretw0/pawtrail/internal/metrics"
	"github.com/aretw0/pawtrail/pkg/adapters/memory"
	"github.com/aretw0/pawtrail/pkg/adapters/redis"
	"github.com/aretw0/pawtrail/pkg/adapters/sqlite"
	"github.com/aretw0/pawtrail/pkg/navigation"
	"github.com/aretw0/pawtrail/pkg/persistence/middleware"
	"github.com/aretw0/pawtrail/pkg/ports"
	"github.com/aretw0/pawtrail/pkg/session"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultEnvFile is loaded before configuration when present.
const DefaultEnvFile = ".env"

// Options are the global command-line flags.
type Options struct {
	ConfigPath string
	EnvFile    string
	Dir        string // overrides the file and sqlite store locations
	Debug      bool
}

// App bundles everything a command needs.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    ports.StateStore
	Manager  *session.Manager
	Registry *prometheus.Registry
	Metrics  *metrics.Collector

	closers []func() error
}

// NewApp loads the env file and configuration, then builds the store stack
// and session manager. Variables already set in the environment win over the env file.
func NewApp(opts Options) (*App, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.Dir != "" {
		cfg.Store.Dir = filepath.Join(opts.Dir, ".pawtrail", "sessions")
		cfg.Store.SQLite.Path = filepath.Join(opts.Dir, ".pawtrail", "sessions.db")
	}
	return newApp(cfg, opts.Debug)
}

func newApp(cfg *config.Config, debug bool) (*App, error) {
	app := &App{
		Config:   cfg,
		Logger:   createLogger(cfg.Log.Level, debug),
		Registry: prometheus.NewRegistry(),
	}

	collector, err := metrics.New(app.Registry, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	app.Metrics = collector

	var locker ports.DistributedLocker
	switch cfg.Store.Backend {
	case config.BackendMemory:
		app.Store = memory.NewStore()
	case config.BackendFile:
		app.Store = file.New(cfg.Store.Dir)
	case config.BackendRedis:
		rc := cfg.Store.Redis
		rs := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		app.closers = append(app.closers, rs.Close)
		app.Store = rs
		locker = redis.NewLocker(rs.Client(), rs.Prefix())
	case config.BackendSQLite:
		ss, err := sqlite.New(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, ss.Close)
		app.Store = ss
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	mw, encrypted, err := cfg.Encryption.Middleware()
	if err != nil {
		app.Close()
		return nil, err
	}
	if encrypted {
		app.Store = middleware.Chain(app.Store, mw)
	}

	mgrOpts := []session.Option{
		session.WithLogger(app.Logger),
		session.WithRestorePolicy(cfg.RestorePolicy()),
		session.WithMalformedHandler(collector.ObserveMalformed),
		session.WithNavigatorOptions(
			navigation.WithLogger(app.Logger),
			navigation.WithLifecycleHooks(collector.Hooks()),
		),
	}
	if locker != nil {
		mgrOpts = append(mgrOpts, session.WithLocker(locker))
	}
	app.Manager = session.NewManager(app.Store, mgrOpts...)

	app.Logger.Debug("app initialized",
		"backend", cfg.Store.Backend,
		"encrypted", encrypted,
		"restore_policy", cfg.RestorePolicy(),
	)
	return app, nil
}

// Close releases backend connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func loadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// createLogger configures the application logger.
// Logs go to stderr so they never mix with rendered screens on stdout.
func createLogger(level string, debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(logging.ParseLevel(level))
}
