package config

import (
	"sync"

	"github.com/google/uuid"
)

// Change describes a configuration reload.
type Change struct {
	// Generation is the resolver generation after the change.
	Generation uint64

	// Path is the file that changed, when the change came from disk.
	Path string
}

// Observer is called when the configuration changes. Observers run
// synchronously on the goroutine that applied the change.
type Observer func(Change)

// Notifier fans configuration changes out to subscribers.
type Notifier struct {
	mu        sync.RWMutex
	observers map[string]Observer
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{observers: make(map[string]Observer)}
}

// Subscribe registers an observer and returns its token.
func (n *Notifier) Subscribe(fn Observer) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	token := uuid.New().String()
	n.observers[token] = fn
	return token
}

// Unsubscribe removes the observer for token.
func (n *Notifier) Unsubscribe(token string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.observers[token]; !ok {
		return false
	}
	delete(n.observers, token)
	return true
}

// Publish delivers a change to every subscriber.
func (n *Notifier) Publish(c Change) {
	n.mu.RLock()
	observers := make([]Observer, 0, len(n.observers))
	for _, fn := range n.observers {
		observers = append(observers, fn)
	}
	n.mu.RUnlock()

	for _, fn := range observers {
		fn(c)
	}
}

// Count returns the number of active subscriptions.
func (n *Notifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.observers)
}
