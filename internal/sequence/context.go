package sequence

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// RunContext carries the shared facilities a step needs while it runs:
// the cancellation token, the operation's resource registry, the
// user-facing reporter, and a structured logger. It is handed to
// Execute and Rollback as an explicit parameter; steps never hold a
// reference back to their Operation.
type RunContext struct {
	ctx       context.Context
	token     *CancelToken
	reporter  Reporter
	resources *ResourceRegistry
	log       zerolog.Logger
}

// NewRunContext builds a standalone run context, mainly for exercising
// steps outside an Operation (prerequisite checks from the plan command,
// step unit tests). Any of token and reporter may be nil.
func NewRunContext(ctx context.Context, token *CancelToken, reporter Reporter) *RunContext {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &RunContext{
		ctx:       ctx,
		token:     token,
		reporter:  reporter,
		resources: NewResourceRegistry(),
		log:       zerolog.Nop(),
	}
}

// Context returns the context.Context for blocking work inside a step
// (HTTP requests, Docker API calls). Never nil.
func (rc *RunContext) Context() context.Context {
	if rc.ctx == nil {
		return context.Background()
	}
	return rc.ctx
}

// Cancelled reports whether the caller has requested cancellation.
// Long-running steps poll this while streaming external process output
// and terminate the process themselves; the sequencer only polls at
// step boundaries.
func (rc *RunContext) Cancelled() bool {
	return rc.token != nil && rc.token.Cancelled()
}

// Logf formats one line onto the operation's user-visible log stream.
func (rc *RunContext) Logf(format string, args ...any) {
	rc.reporter.LogMessage(fmt.Sprintf(format, args...))
}

// Progress delivers a progress percentage and label to the reporter.
func (rc *RunContext) Progress(percent int, text string) {
	rc.reporter.ProgressUpdated(percent, text)
}

// RegisterResource records a scratch artifact (file or directory) for
// unconditional removal after the run, whatever the outcome.
func (rc *RunContext) RegisterResource(path string) {
	rc.resources.Register(path)
}

// Logger returns the structured logger for diagnostic detail that does
// not belong on the user-visible stream.
func (rc *RunContext) Logger() zerolog.Logger {
	return rc.log
}
