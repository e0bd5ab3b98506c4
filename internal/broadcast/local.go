package broadcast

import (
	"context"
	"sync"
)

// Local is an in-process broadcast channel. It carries the same contract as
// the NATS-backed Channel for single-process deployments, where the daemon and
// the foreground coordinators live in one binary.
type Local struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewLocal creates an empty in-process channel.
func NewLocal() *Local {
	return &Local{}
}

// Broadcast delivers the message synchronously to every current subscriber.
func (l *Local) Broadcast(ctx context.Context, msg Message) error {
	l.mu.RLock()
	handlers := make([]Handler, len(l.handlers))
	copy(handlers, l.handlers)
	l.mu.RUnlock()

	for _, h := range handlers {
		h(msg)
	}
	return nil
}

// Subscribe attaches a handler. A handler added after a Broadcast call never
// sees the earlier message; the channel is not a durable queue.
func (l *Local) Subscribe(handler Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, handler)
}
