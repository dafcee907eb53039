package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/pawtrail/pkg/adapters/http"
)

const shutdownTimeout = 5 * time.Second

// Handler builds the HTTP handler for this app.
func (a *App) Handler(version string) http.Handler {
	return httpAdapter.NewHandler(a.Manager,
		httpAdapter.WithLogger(a.Logger),
		httpAdapter.WithGatherer(a.Registry),
		httpAdapter.WithVersion(version),
	)
}

// Serve runs the HTTP server on ln until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context, w io.Writer, ln net.Listener, version string) error {
	srv := &http.Server{
		Handler:           a.Handler(version),
		ReadHeaderTimeout: 10 * time.Second,
		// Streaming handlers end with ctx instead of holding up Shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	printSystemMessage(w, "Starting pawtrail server on %s", ln.Addr())
	go func() {
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		printSystemMessage(w, "Start shutdown...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		printSystemMessage(w, "pawtrail server stopped gracefully")
		return nil
	}
}
