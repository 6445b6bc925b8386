package history

import "sync"

// notifier fans change and cleanup events out to registered listeners.
// Callbacks run synchronously on the calling goroutine, always outside the
// manager's state lock so a listener may safely call back into the manager.
type notifier struct {
	mu       sync.Mutex
	changed  []func()
	cleanups []func(removed int64)
}

func (n *notifier) onChanged(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, fn)
}

func (n *notifier) onCleanup(fn func(removed int64)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cleanups = append(n.cleanups, fn)
}

func (n *notifier) notifyChanged() {
	n.mu.Lock()
	listeners := make([]func(), len(n.changed))
	copy(listeners, n.changed)
	n.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (n *notifier) notifyCleanup(removed int64) {
	n.mu.Lock()
	listeners := make([]func(int64), len(n.cleanups))
	copy(listeners, n.cleanups)
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(removed)
	}
}
