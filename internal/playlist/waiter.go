package playlist

import "context"

// Waiter is a single-resolution handle for an entry's readiness: it settles
// exactly once, either with the owning entry or with the download's terminal
// error. Multiple waiters registered on one entry are all resolved together
// when the in-flight download finishes.
type Waiter struct {
	done  chan struct{}
	entry *Entry
	err   error
}

func newWaiter() *Waiter {
	return &Waiter{done: make(chan struct{})}
}

func readyWaiter(entry *Entry) *Waiter {
	w := newWaiter()
	w.entry = entry
	close(w.done)
	return w
}

// resolve settles the waiter. Must be called at most once.
func (w *Waiter) resolve(entry *Entry, err error) {
	w.entry = entry
	w.err = err
	close(w.done)
}

// Wait blocks until the entry settles or ctx is done. Abandoning a waiter
// through ctx never aborts the underlying download; other waiters may still
// depend on it.
func (w *Waiter) Wait(ctx context.Context) (*Entry, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-w.done:
		return w.entry, w.err
	}
}

// Done exposes the settled channel for select-based consumers.
func (w *Waiter) Done() <-chan struct{} { return w.done }
