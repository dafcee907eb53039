package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/pawtrail/internal/config"
	"github.com/aretw0/pawtrail/pkg/bundle"
	"github.com/aretw0/pawtrail/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var biscuit = domain.Dog{ID: 7, Name: "Biscuit", Breed: "Beagle", Age: 3}

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Dir = filepath.Join(t.TempDir(), "sessions")
	cfg.Log.Level = "error"
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())

	app, err := newApp(&cfg, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func plain(buf *bytes.Buffer) Output {
	return Output{W: buf, Styled: false}
}

func TestApp_OpenShowBack(t *testing.T) {
	app := newTestApp(t, nil)
	ctx := context.Background()
	var buf bytes.Buffer

	require.NoError(t, app.Show(ctx, plain(&buf), "s1"))
	assert.Contains(t, buf.String(), "Home")

	buf.Reset()
	require.NoError(t, app.Open(ctx, plain(&buf), "s1", biscuit))
	assert.Contains(t, buf.String(), "Biscuit #7")

	// A new App over the same directory sees the checkpoint.
	reopened := newTestApp(t, func(c *config.Config) { c.Store.Dir = app.Config.Store.Dir })
	buf.Reset()
	require.NoError(t, reopened.Show(ctx, plain(&buf), "s1"))
	assert.Contains(t, buf.String(), "Breed: Beagle")

	buf.Reset()
	require.NoError(t, reopened.Back(ctx, plain(&buf), "s1"))
	assert.Contains(t, buf.String(), "Home")

	buf.Reset()
	require.NoError(t, reopened.Back(ctx, plain(&buf), "s1"))
	assert.Equal(t, ">>> Session 's1' is already on Home.\n", buf.String())
}

func TestApp_Home(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) { c.Store.Backend = config.BackendMemory })
	ctx := context.Background()
	var buf bytes.Buffer

	require.NoError(t, app.Open(ctx, plain(&buf), "s", biscuit))
	buf.Reset()
	require.NoError(t, app.Home(ctx, plain(&buf), "s"))
	assert.True(t, strings.HasPrefix(buf.String(), "Home\n"))
}

func TestApp_MalformedPolicies(t *testing.T) {
	ctx := context.Background()
	bad := bundle.New()
	bad.PutString(domain.KeyScreenName, "DETAIL")

	strict := newTestApp(t, func(c *config.Config) { c.Store.Backend = config.BackendMemory })
	require.NoError(t, strict.Store.Save(ctx, "bad", bad))
	err := strict.Show(ctx, plain(&bytes.Buffer{}), "bad")
	assert.True(t, domain.IsMalformedState(err))

	lenient := newTestApp(t, func(c *config.Config) {
		c.Store.Backend = config.BackendMemory
		c.Restore.Policy = "reset"
	})
	require.NoError(t, lenient.Store.Save(ctx, "bad", bad))
	var buf bytes.Buffer
	require.NoError(t, lenient.Show(ctx, plain(&buf), "bad"))
	assert.Contains(t, buf.String(), "Home")
}

func TestApp_SessionCommands(t *testing.T) {
	app := newTestApp(t, nil)
	ctx := context.Background()
	var buf bytes.Buffer

	require.NoError(t, app.ListSessions(ctx, &buf))
	assert.Equal(t, "No active sessions found.\n", buf.String())

	require.NoError(t, app.Open(ctx, plain(&bytes.Buffer{}), "b", biscuit))
	require.NoError(t, app.Home(ctx, plain(&bytes.Buffer{}), "a"))

	buf.Reset()
	require.NoError(t, app.ListSessions(ctx, &buf))
	assert.Equal(t, "Active Sessions:\n- a\n- b\n", buf.String())

	buf.Reset()
	require.NoError(t, app.InspectSession(ctx, &buf, "b"))
	assert.Contains(t, buf.String(), `"screen_name"`)
	assert.Contains(t, buf.String(), `"Biscuit"`)
	assert.NotContains(t, buf.String(), "malformed")

	err := app.InspectSession(ctx, &buf, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	buf.Reset()
	require.NoError(t, app.RemoveSessions(ctx, &buf, []string{"a"}))
	assert.Equal(t, "Removed session 'a'\n", buf.String())

	buf.Reset()
	require.NoError(t, app.RemoveAllSessions(ctx, &buf))
	assert.Equal(t, "Removed session 'b'\n", buf.String())
}

func TestApp_Graph(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) { c.Store.Backend = config.BackendMemory })
	ctx := context.Background()

	require.NoError(t, app.Open(ctx, plain(&bytes.Buffer{}), "s", biscuit))

	var buf bytes.Buffer
	require.NoError(t, app.Graph(ctx, &buf, "s"))
	assert.Contains(t, buf.String(), "class DETAIL current;")

	buf.Reset()
	require.NoError(t, app.Graph(ctx, &buf, ""))
	assert.NotContains(t, buf.String(), "current;")
}

func TestApp_EncryptedFileStore(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{'k'}, 32))
	app := newTestApp(t, func(c *config.Config) { c.Encryption.Key = key })
	ctx := context.Background()

	require.NoError(t, app.Open(ctx, plain(&bytes.Buffer{}), "secret", biscuit))

	raw, err := os.ReadFile(filepath.Join(app.Config.Store.Dir, "secret.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Biscuit")

	var buf bytes.Buffer
	require.NoError(t, app.Show(ctx, plain(&buf), "secret"))
	assert.Contains(t, buf.String(), "Biscuit")
}

func TestApp_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	app := newTestApp(t, func(c *config.Config) {
		c.Store.Backend = config.BackendRedis
		c.Store.Redis.Addr = mr.Addr()
		c.Store.Redis.Prefix = "test:"
	})
	ctx := context.Background()

	require.NoError(t, app.Open(ctx, plain(&bytes.Buffer{}), "r1", biscuit))
	assert.True(t, mr.Exists("test:session:r1"))

	// The distributed lock is released after each operation.
	assert.False(t, mr.Exists("test:lock:r1"))

	var buf bytes.Buffer
	require.NoError(t, app.Show(ctx, plain(&buf), "r1"))
	assert.Contains(t, buf.String(), "Biscuit")
}

func TestApp_Serve(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) { c.Store.Backend = config.BackendMemory })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, &out, ln, "test") }()

	url := "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get(url + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(url + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
	assert.Contains(t, out.String(), "stopped gracefully")
}

func TestNewApp_DirFlag(t *testing.T) {
	dir := t.TempDir()
	app, err := NewApp(Options{ConfigPath: filepath.Join(dir, "absent.yaml"), Dir: dir})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, filepath.Join(dir, ".pawtrail", "sessions"), app.Config.Store.Dir)
}

func TestNewApp_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PAWTRAIL_STORE_BACKEND=memory\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("PAWTRAIL_STORE_BACKEND") })

	app, err := NewApp(Options{ConfigPath: filepath.Join(dir, "absent.yaml"), EnvFile: envFile})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, config.BackendMemory, app.Config.Store.Backend)
}

func TestNewApp_EnvDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PAWTRAIL_STORE_BACKEND=redis\n"), 0o644))
	t.Setenv("PAWTRAIL_STORE_BACKEND", "memory")

	app, err := NewApp(Options{ConfigPath: filepath.Join(dir, "absent.yaml"), EnvFile: envFile})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, config.BackendMemory, app.Config.Store.Backend)
}

func TestApp_SQLiteBackend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	app := newTestApp(t, func(c *config.Config) {
		c.Store.Backend = config.BackendSQLite
		c.Store.SQLite.Path = dbPath
	})
	ctx := context.Background()

	require.NoError(t, app.Open(ctx, plain(&bytes.Buffer{}), "s1", biscuit))
	require.NoError(t, app.Close())

	// A second process sees the checkpoint.
	again := newTestApp(t, func(c *config.Config) {
		c.Store.Backend = config.BackendSQLite
		c.Store.SQLite.Path = dbPath
	})
	var buf bytes.Buffer
	require.NoError(t, again.Show(ctx, plain(&buf), "s1"))
	assert.Contains(t, buf.String(), "Biscuit")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestApp_Watch(t *testing.T) {
	app := newTestApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- app.Watch(ctx, Output{W: out}, "w1") }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "No dog selected")
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, app.Open(context.Background(), plain(&bytes.Buffer{}), "w1", biscuit))

	require.Eventually(t, func() bool {
		s := out.String()
		return strings.Contains(s, "Session 'w1' changed.") && strings.Contains(s, "Biscuit")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestApp_WatchRequiresFileBackend(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) { c.Store.Backend = config.BackendMemory })
	err := app.Watch(context.Background(), Output{W: &bytes.Buffer{}}, "w1")
	assert.ErrorContains(t, err, "watch requires")
}
