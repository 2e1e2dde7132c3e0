package sequence

import "sync/atomic"

// CancelToken is the cooperative cancellation flag for an operation run.
// It is owned by the caller and polled by the sequencer at step
// boundaries; a step already in progress is never interrupted by the
// sequencer itself.
//
// The flag is single-writer (the caller), single-reader (the sequencer
// goroutine), and only ever transitions false to true, so an atomic
// boolean is all the synchronization required.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken returns a token in the not-cancelled state.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel requests cancellation. Safe to call more than once.
func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether cancellation has been requested.
func (t *CancelToken) Cancelled() bool {
	return t.cancelled.Load()
}
