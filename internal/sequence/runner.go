package sequence

import "context"

// Start runs the operation on a dedicated background goroutine so an
// interactive caller is never blocked, and delivers the final Result on
// the returned channel. The channel is buffered: the goroutine never
// leaks even if the caller stops listening.
//
// The token stays with the caller, which typically flips it from a
// signal handler or a cancel control; the sequencer only ever reads it.
func Start(ctx context.Context, op *Operation, token *CancelToken) <-chan Result {
	results := make(chan Result, 1)
	go func() {
		results <- op.Execute(ctx, token)
	}()
	return results
}
