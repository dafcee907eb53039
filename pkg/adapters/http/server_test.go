package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/pawtrail/internal/logging"
	"github.com/aretw0/pawtrail/internal/metrics"
	"github.com/aretw0/pawtrail/pkg/adapters/memory"
	"github.com/aretw0/pawtrail/pkg/bundle"
	"github.com/aretw0/pawtrail/pkg/domain"
	"github.com/aretw0/pawtrail/pkg/navigation"
	"github.com/aretw0/pawtrail/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewHandler(session.NewManager(store)), store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func TestGetScreen_UnknownSessionIsHome(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/sessions/new/screen", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ScreenBody{Screen: "HOME"}, decode[ScreenBody](t, w))
}

func TestNavigateAndBack(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "POST", "/sessions/s1/navigate", `{"screen":"DETAIL","dog":{"id":7,"name":"Biscuit","breed":"Beagle"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[ScreenBody](t, w)
	assert.Equal(t, "DETAIL", got.Screen)
	require.NotNil(t, got.Dog)
	assert.Equal(t, int64(7), got.Dog.ID)

	w = do(t, h, "GET", "/sessions/s1/screen", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Biscuit", decode[ScreenBody](t, w).Dog.Name)

	w = do(t, h, "POST", "/sessions/s1/back", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, BackResponse{Navigated: true, Current: ScreenBody{Screen: "HOME"}}, decode[BackResponse](t, w))

	w = do(t, h, "POST", "/sessions/s1/back", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[BackResponse](t, w).Navigated)
}

func TestNavigate_BadRequests(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"unknown tag", `{"screen":"SETTINGS"}`},
		{"detail without dog", `{"screen":"DETAIL"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/sessions/s1/navigate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestMalformedCheckpointIsConflict(t *testing.T) {
	h, store := newTestHandler(t)

	b := bundle.New()
	b.PutString(domain.KeyScreenName, "DETAIL")
	require.NoError(t, store.Save(context.Background(), "bad", b))

	assert.Equal(t, http.StatusConflict, do(t, h, "GET", "/sessions/bad/screen", "").Code)
	assert.Equal(t, http.StatusConflict, do(t, h, "POST", "/sessions/bad/back", "").Code)
}

func TestListAndDeleteSessions(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, SessionList{Sessions: []string{}}, decode[SessionList](t, w))

	do(t, h, "POST", "/sessions/b/navigate", `{"screen":"HOME"}`)
	do(t, h, "POST", "/sessions/a/navigate", `{"screen":"HOME"}`)

	w = do(t, h, "GET", "/sessions", "")
	assert.Equal(t, []string{"a", "b"}, decode[SessionList](t, w).Sessions)

	w = do(t, h, "DELETE", "/sessions/a", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, "GET", "/sessions", "")
	assert.Equal(t, []string{"b"}, decode[SessionList](t, w).Sessions)
}

func TestHealthAndInfo(t *testing.T) {
	h := NewHandler(session.NewManager(memory.NewStore()), WithVersion("1.2.3\n"))

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "GET", "/info", "")
	assert.Equal(t, "1.2.3", decode[map[string]string](t, w)["version"])
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg, nil)
	require.NoError(t, err)

	mgr := session.NewManager(memory.NewStore(),
		session.WithNavigatorOptions(navigation.WithLifecycleHooks(collector.Hooks())))
	h := NewHandler(mgr, WithGatherer(reg))

	do(t, h, "POST", "/sessions/s1/navigate", `{"screen":"DETAIL","dog":{"id":1,"name":"Rex"}}`)

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pawtrail_navigations_total{to="DETAIL"} 1`)
}

func TestMetricsEndpoint_NotMountedWithoutGatherer(t *testing.T) {
	h, _ := newTestHandler(t)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/metrics", "").Code)
}

func TestSubscribeEvents_Session(t *testing.T) {
	h, _ := newTestHandler(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/sessions/sess-1/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(wSub, reqSub)
	}()

	time.Sleep(100 * time.Millisecond) // Wait for subscription to register

	w := do(t, h, "POST", "/sessions/sess-1/navigate", `{"screen":"DETAIL","dog":{"id":7,"name":"Biscuit"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	// Back on Home does not move and is not broadcast.
	do(t, h, "POST", "/sessions/other/back", "")

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, `"screen":"DETAIL"`)
	assert.Equal(t, 1, strings.Count(output, "data: {"))
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager(logging.NewNop())
	ch, cancel := sm.Subscribe("s")

	for i := 0; i < 20; i++ {
		sm.Broadcast("s", "msg")
	}
	assert.Len(t, ch, 10)

	cancel()
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	assert.Empty(t, sm.subscribers)
}

type panickingSessions struct {
	Sessions
}

func (panickingSessions) Restore(context.Context, string) (*navigation.Navigator, error) {
	panic("store exploded")
}

func TestPanicIsRecovered(t *testing.T) {
	h := NewHandler(panickingSessions{})
	w := do(t, h, "GET", "/sessions/s1/screen", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type rejectingStore struct {
	*memory.Store
}

func (rejectingStore) Save(context.Context, string, *bundle.Bundle) error {
	return errors.New("disk full")
}

func TestNavigate_NotBroadcastWhenCheckpointFails(t *testing.T) {
	h := NewHandler(session.NewManager(rejectingStore{memory.NewStore()}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/sessions/s1/events", nil).WithContext(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(wSub, reqSub)
	}()

	time.Sleep(100 * time.Millisecond) // Wait for subscription to register

	w := do(t, h, "POST", "/sessions/s1/navigate", `{"screen":"DETAIL","dog":{"id":7,"name":"Biscuit"}}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.NotContains(t, output, "data: {")
}
