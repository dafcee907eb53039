package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/pawtrail/internal/logging"
	"github.com/aretw0/pawtrail/pkg/domain"
	"github.com/aretw0/pawtrail/pkg/navigation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sessions is the subset of session.Manager the server needs.
type Sessions interface {
	Restore(ctx context.Context, sessionID string) (*navigation.Navigator, error)
	UpdateNotify(ctx context.Context, sessionID string, fn func(*navigation.Navigator) error, committed func(domain.Screen)) (domain.Screen, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}

// Server exposes sessions over HTTP.
type Server struct {
	Sessions Sessions
	Streams  *StreamManager

	logger   *slog.Logger
	gatherer prometheus.Gatherer
	version  string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer mounts GET /metrics for the given Prometheus registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewHandler creates a new HTTP handler for the sessions.
func NewHandler(sessions Sessions, opts ...Option) http.Handler {
	s := &Server{
		Sessions: sessions,
		logger:   logging.NewNop(),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/sessions", s.ListSessions)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/screen", s.GetScreen)
		r.Post("/navigate", s.Navigate)
		r.Post("/back", s.Back)
		r.Get("/events", s.SubscribeEvents)
		r.Delete("/", s.DeleteSession)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ScreenBody is the wire form of a screen.
type ScreenBody struct {
	Screen string      `json:"screen"`
	Dog    *domain.Dog `json:"dog,omitempty"`
}

// BackResponse is returned by POST /sessions/{id}/back.
type BackResponse struct {
	Navigated bool       `json:"navigated"`
	Current   ScreenBody `json:"current"`
}

// SessionList is returned by GET /sessions.
type SessionList struct {
	Sessions []string `json:"sessions"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "pawtrail-http",
		"version": strings.TrimSpace(s.version),
	})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, r, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, SessionList{Sessions: ids})
}

// GetScreen handles the GET /sessions/{id}/screen request.
func (s *Server) GetScreen(w http.ResponseWriter, r *http.Request) {
	nav, err := s.Sessions.Restore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "GetScreen", err)
		return
	}
	s.writeJSON(w, http.StatusOK, screenToBody(nav.Current()))
}

// Navigate handles the POST /sessions/{id}/navigate request.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	var body ScreenBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Navigate: Invalid request body", "err", err)
		return
	}
	screen, err := bodyToScreen(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		s.logger.Warn("Navigate: Invalid screen", "err", err)
		return
	}

	sessionID := chi.URLParam(r, "id")
	current, err := s.Sessions.UpdateNotify(r.Context(), sessionID, func(nav *navigation.Navigator) error {
		nav.Navigate(screen)
		return nil
	}, func(saved domain.Screen) {
		s.broadcast(sessionID, screenToBody(saved))
	})
	if err != nil {
		s.fail(w, r, "Navigate", err)
		return
	}

	s.writeJSON(w, http.StatusOK, screenToBody(current))
}

// Back handles the POST /sessions/{id}/back request.
func (s *Server) Back(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var navigated bool
	current, err := s.Sessions.UpdateNotify(r.Context(), sessionID, func(nav *navigation.Navigator) error {
		navigated = nav.Back()
		return nil
	}, func(saved domain.Screen) {
		if navigated {
			s.broadcast(sessionID, screenToBody(saved))
		}
	})
	if err != nil {
		s.fail(w, r, "Back", err)
		return
	}

	s.writeJSON(w, http.StatusOK, BackResponse{Navigated: navigated, Current: screenToBody(current)})
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
// Every screen change made through this server is pushed as a data event.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcast(sessionID string, body ScreenBody) {
	payload, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("SSE: failed to encode screen", "err", err)
		return
	}
	s.Streams.Broadcast(sessionID, string(payload))
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	reqID := middleware.GetReqID(r.Context())
	switch {
	case domain.IsMalformedState(err):
		http.Error(w, err.Error(), http.StatusConflict)
		s.logger.Warn(op+": malformed checkpoint", "request_id", reqID, "err", err)
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		s.logger.Warn(op+" aborted", "request_id", reqID, "err", err)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "request_id", reqID, "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// -- Helpers --

func screenToBody(screen domain.Screen) ScreenBody {
	switch v := domain.Normalize(screen).(type) {
	case domain.Detail:
		dog := v.Dog
		return ScreenBody{Screen: domain.TagDetail.String(), Dog: &dog}
	default:
		return ScreenBody{Screen: domain.TagHome.String()}
	}
}

func bodyToScreen(body ScreenBody) (domain.Screen, error) {
	tag, err := domain.ParseScreenTag(body.Screen)
	if err != nil {
		return nil, err
	}
	switch tag {
	case domain.TagHome:
		return domain.Home{}, nil
	case domain.TagDetail:
		if body.Dog == nil {
			return nil, errors.New("DETAIL requires a dog")
		}
		return domain.Detail{Dog: *body.Dog}, nil
	}
	return nil, fmt.Errorf("unsupported screen %s", tag)
}
