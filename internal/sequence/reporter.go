package sequence

// Reporter is the external sink for the user-visible progress and log
// stream of an operation. The transport is the caller's concern: the CLI
// renders to the console, tests record into slices.
//
// The sequencer invokes it at step start, step failure, rollback start,
// each per-step rollback attempt, per-resource cleanup warnings,
// verification warnings, and final completion.
type Reporter interface {
	// LogMessage delivers one line of the operation's log stream.
	LogMessage(text string)

	// ProgressUpdated delivers a coarse progress percentage (0-100)
	// together with a short label of the work in flight.
	ProgressUpdated(percent int, text string)
}

// NopReporter discards everything. It stands in when the caller supplies
// no reporter, so the sequencer never has to nil-check.
type NopReporter struct{}

// LogMessage implements Reporter.
func (NopReporter) LogMessage(string) {}

// ProgressUpdated implements Reporter.
func (NopReporter) ProgressUpdated(int, string) {}
