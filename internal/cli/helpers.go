package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalContext is cancelled on SIGINT or SIGTERM and remembers which one arrived.
type SignalContext struct {
	context.Context
	cancel context.CancelFunc
	ch     chan os.Signal

	mu  sync.Mutex
	sig os.Signal
}

// NewSignalContext starts listening for interrupts until parent is done or Stop is called.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, cancel: cancel, ch: make(chan os.Signal, 1)}
	signal.Notify(sc.ch, os.Interrupt, syscall.SIGTERM)
	go sc.wait()
	return sc
}

func (sc *SignalContext) wait() {
	defer signal.Stop(sc.ch)
	select {
	case sig := <-sc.ch:
		sc.mu.Lock()
		sc.sig = sig
		sc.mu.Unlock()
		sc.cancel()
	case <-sc.Done():
	}
}

// Stop cancels the context and releases the signal handler.
func (sc *SignalContext) Stop() {
	sc.cancel()
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sig
}

// printSystemMessage prints a ">>>" prefixed line, set apart from rendered screens.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
