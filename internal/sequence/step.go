package sequence

// Step is a single reversible unit of work in an operation.
//
// The interface is closed: embedding StepBase is the only way to satisfy
// it, because markCompleted is unexported. Every variant is a plain
// data-plus-behavior struct; there is no inheritance chain beyond this
// one interface.
type Step interface {
	// Description returns the immutable human-readable label for the
	// step, used in progress output and rollback warnings.
	Description() string

	// Completed reports whether a prior Execute returned successfully.
	// The sequencer flips it exactly once, immediately after a
	// successful Execute.
	Completed() bool

	// Execute performs the step's external side effect. It may spawn and
	// block on external processes. Any state it establishes must be
	// reversible by Rollback.
	Execute(rc *RunContext) error

	// Rollback undoes the effect of a prior successful Execute on a
	// best-effort basis. It is only ever invoked after Execute succeeded.
	// A returned error is logged as a warning by the sequencer and never
	// propagated, so rollbacks of earlier steps still run.
	Rollback(rc *RunContext) error

	markCompleted()
}

// PrerequisiteChecker is an optional capability a step may implement.
// The sequencer invokes it immediately before Execute; a returned error
// is advisory and logged as a warning, never fatal.
type PrerequisiteChecker interface {
	CheckPrerequisites(rc *RunContext) error
}

// CompletionVerifier is an optional capability a step may implement.
// The sequencer invokes it immediately after a successful Execute; a
// returned error is advisory and logged as a warning, never fatal.
type CompletionVerifier interface {
	VerifyCompletion(rc *RunContext) error
}

// StepBase carries the fields shared by every step variant and seals the
// Step interface. Concrete steps embed it and set Desc at construction:
//
//	type serviceStartStep struct {
//		sequence.StepBase
//		unit string
//	}
type StepBase struct {
	// Desc is the human-readable step label. Immutable after creation.
	Desc string

	completed bool
}

// Description returns the step label.
func (b *StepBase) Description() string {
	return b.Desc
}

// Completed reports whether the step's Execute has succeeded.
func (b *StepBase) Completed() bool {
	return b.completed
}

func (b *StepBase) markCompleted() {
	b.completed = true
}
