package http

import (
	"log/slog"
	"sync"
)

// streamBuffer is how many screen events a slow SSE client may lag behind.
const streamBuffer = 10

// StreamManager fans screen changes out to the SSE clients of each session.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
	logger      *slog.Logger
}

type subscriber struct {
	ch      chan string
	dropped int
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[*subscriber]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a client of sessionID. The returned func unsubscribes
// and closes the channel; it is safe to call more than once.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan string, func()) {
	sub := &subscriber{ch: make(chan string, streamBuffer)}

	sm.mu.Lock()
	set, ok := sm.subscribers[sessionID]
	if !ok {
		set = make(map[*subscriber]struct{})
		sm.subscribers[sessionID] = set
	}
	set[sub] = struct{}{}
	sm.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() { sm.unsubscribe(sessionID, sub) })
	}
}

func (sm *StreamManager) unsubscribe(sessionID string, sub *subscriber) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	set := sm.subscribers[sessionID]
	delete(set, sub)
	if len(set) == 0 {
		delete(sm.subscribers, sessionID)
	}
	close(sub.ch)

	if sub.dropped > 0 {
		sm.logger.Warn("SSE client lagged behind", "session_id", sessionID, "dropped", sub.dropped)
	}
}

// Broadcast queues msg for every client of sessionID. Clients whose buffer is
// full miss the message; writers never block.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for sub := range sm.subscribers[sessionID] {
		select {
		case sub.ch <- msg:
		default:
			sub.dropped++
		}
	}
}
