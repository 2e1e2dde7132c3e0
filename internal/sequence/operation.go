package sequence

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shinji-kodama/dockhand/internal/logging"
	"github.com/shinji-kodama/dockhand/internal/model"
)

// Result is the final outcome of an operation run. The tag says whether
// the run succeeded, failed, or was cancelled; the message is the single
// user-facing summary line. Compensating actions (rollback, cleanup,
// verification) never alter a Result.
type Result struct {
	// Outcome tags the run as succeeded, failed, or cancelled.
	Outcome model.Outcome `json:"outcome"`

	// Message is the human-readable summary, e.g.
	// "Operation completed successfully" or "Operation failed: disk full".
	Message string `json:"message"`
}

// Success reports whether the run completed without failure or cancellation.
func (r Result) Success() bool {
	return r.Outcome.Success()
}

// Operation owns an ordered list of steps and drives them through the
// lifecycle described by model.OperationStatus. An Operation is
// single-use: built, populated with steps, executed once, discarded.
//
// The step list and completed-prefix are mutated only by the goroutine
// running Execute; Status is the one accessor safe to call from other
// goroutines while a run is in flight.
type Operation struct {
	id        string
	name      string
	steps     []Step
	completed []Step
	resources *ResourceRegistry
	reporter  Reporter
	verifier  StateVerifier
	snapshot  string
	log       zerolog.Logger

	mu      sync.Mutex
	status  model.OperationStatus
	started bool
}

// NewOperation creates an empty operation with the given human-readable
// name. A nil reporter is replaced by NopReporter.
func NewOperation(name string, reporter Reporter) *Operation {
	if reporter == nil {
		reporter = NopReporter{}
	}
	id := uuid.NewString()
	return &Operation{
		id:        id,
		name:      name,
		resources: NewResourceRegistry(),
		reporter:  reporter,
		status:    model.StatusPending,
		log: logging.GetLogger("sequence").With().
			Str("operation", name).
			Str("operation_id", id).
			Logger(),
	}
}

// ID returns the unique identifier assigned at construction. It appears
// in every structured log line of the run.
func (op *Operation) ID() string {
	return op.id
}

// Name returns the human-readable operation name.
func (op *Operation) Name() string {
	return op.name
}

// Status returns the current lifecycle state.
func (op *Operation) Status() model.OperationStatus {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.status
}

// StepCount returns the number of steps added so far.
func (op *Operation) StepCount() int {
	return len(op.steps)
}

// CompletedSteps returns the descriptions of successfully executed steps
// in completion order. The result is always a contiguous prefix of the
// step list, truncated at the first failure or cancellation point.
func (op *Operation) CompletedSteps() []string {
	out := make([]string, len(op.completed))
	for i, step := range op.completed {
		out[i] = step.Description()
	}
	return out
}

// SetVerifier installs the advisory state verifier. A pre-run snapshot
// is taken when Execute starts; after any rollback the verifier is asked
// for residual effects, which are logged as warnings only.
func (op *Operation) SetVerifier(v StateVerifier) {
	op.verifier = v
}

// AddStep appends a step to the ordered list. Steps must be added before
// Execute is called; a late AddStep is ignored with a warning.
func (op *Operation) AddStep(step Step) {
	op.mu.Lock()
	started := op.started
	op.mu.Unlock()
	if started {
		op.log.Warn().Str("step", step.Description()).Msg("AddStep ignored: operation already executing")
		return
	}
	op.steps = append(op.steps, step)
}

// RegisterResource records a scratch artifact for unconditional removal
// after the run. Steps reach the same registry through their RunContext.
func (op *Operation) RegisterResource(path string) {
	op.resources.Register(path)
}

// Execute runs every step in order and returns the tagged result.
//
// Before each step the cancellation token is polled; a set token stops
// the run, rolls back the completed prefix, and yields a cancelled
// result. A step error does the same with a failed result. Registered
// resources are cleaned up exactly once on every path, after any
// rollback, via the deferred cleanup.
func (op *Operation) Execute(ctx context.Context, token *CancelToken) Result {
	op.mu.Lock()
	if op.started {
		op.mu.Unlock()
		op.log.Warn().Msg("Execute called on an already-executed operation")
		return Result{Outcome: model.OutcomeFailed, Message: "Operation failed: operation already executed"}
	}
	op.started = true
	op.mu.Unlock()

	rc := &RunContext{
		ctx:       ctx,
		token:     token,
		reporter:  op.reporter,
		resources: op.resources,
		log:       op.log,
	}

	op.setStatus(model.StatusRunning)
	op.log.Info().Int("steps", len(op.steps)).Msg("Operation starting")

	// Cleanup is unconditional: exactly once per Execute, after any
	// rollback, on success, failure, and cancellation alike.
	defer op.cleanup(rc)

	op.captureSnapshot(rc)

	total := len(op.steps)
	for i, step := range op.steps {
		if rc.Cancelled() {
			rc.Logf("Operation cancelled by user.")
			op.setStatus(model.StatusCancelled)
			op.rollback(rc)
			return op.finish(model.OutcomeCancelled, "Operation cancelled by user")
		}

		rc.Progress(i*100/total, "Executing: "+step.Description())
		rc.Logf("Executing step: %s", step.Description())

		if checker, ok := step.(PrerequisiteChecker); ok {
			rc.Logf("Verifying prerequisites for: %s", step.Description())
			if err := checker.CheckPrerequisites(rc); err != nil {
				rc.Logf("Warning: Prerequisite check failed for %s: %v", step.Description(), err)
			}
		}

		if err := step.Execute(rc); err != nil {
			rc.Logf("ERROR: %v", err)
			op.setStatus(model.StatusFailed)
			op.rollback(rc)
			return op.finish(model.OutcomeFailed, fmt.Sprintf("Operation failed: %v", err))
		}

		step.markCompleted()
		op.completed = append(op.completed, step)

		if verifier, ok := step.(CompletionVerifier); ok {
			rc.Logf("Verifying completion of: %s", step.Description())
			if err := verifier.VerifyCompletion(rc); err != nil {
				rc.Logf("Warning: Completion verification failed for %s: %v", step.Description(), err)
			}
		}
	}

	op.setStatus(model.StatusSucceeded)
	rc.Progress(100, "Operation completed successfully")
	return op.finish(model.OutcomeSucceeded, "Operation completed successfully")
}

// rollback undoes the completed prefix in reverse completion order.
// Later steps may depend on earlier ones, so the undo runs opposite to
// the dependency direction. A failed rollback is logged as a warning and
// swallowed; the loop never aborts partway. State verification afterward
// is unconditional, even if every rollback failed.
func (op *Operation) rollback(rc *RunContext) {
	op.setStatus(model.StatusRollingBack)
	rc.Logf("Rolling back operation...")
	rc.Progress(0, "Rolling back operation...")

	total := len(op.completed)
	for i := total - 1; i >= 0; i-- {
		step := op.completed[i]
		rc.Progress((total-1-i)*100/total, "Rolling back: "+step.Description())
		rc.Logf("Rolling back step: %s", step.Description())
		if err := step.Rollback(rc); err != nil {
			rc.Logf("Warning: Error during rollback of %s: %v", step.Description(), err)
		}
	}

	op.verifySystemState(rc)
}

// verifySystemState performs the advisory post-rollback check. Verifier
// failures and residual findings surface as warnings on the log stream
// and never influence the result.
func (op *Operation) verifySystemState(rc *RunContext) {
	rc.Logf("Verifying system state after rollback...")
	if op.verifier == nil {
		return
	}
	after, err := op.verifier.Snapshot(rc.Context())
	if err != nil {
		rc.Logf("Warning: System verification failed: %v", err)
		return
	}
	for _, warning := range op.verifier.Residual(op.snapshot, after) {
		rc.Logf("Warning: %s", warning)
	}
}

// captureSnapshot records the pre-run state for the verifier to compare
// against after a rollback. Failures are diagnostic only.
func (op *Operation) captureSnapshot(rc *RunContext) {
	if op.verifier == nil {
		return
	}
	snap, err := op.verifier.Snapshot(rc.Context())
	if err != nil {
		op.log.Debug().Err(err).Msg("Pre-run state snapshot failed")
		return
	}
	op.snapshot = snap
}

// cleanup drains the resource registry and closes out the state machine.
func (op *Operation) cleanup(rc *RunContext) {
	op.setStatus(model.StatusCleaningUp)
	op.resources.Cleanup(rc.Logf)
	op.setStatus(model.StatusDone)
}

func (op *Operation) finish(outcome model.Outcome, message string) Result {
	op.log.Info().
		Str("outcome", outcome.String()).
		Str("message", message).
		Int("completed", len(op.completed)).
		Msg("Operation finished")
	return Result{Outcome: outcome, Message: message}
}

func (op *Operation) setStatus(next model.OperationStatus) {
	op.mu.Lock()
	prev := op.status
	op.status = next
	op.mu.Unlock()
	op.log.Debug().Str("from", prev.String()).Str("to", next.String()).Msg("Status transition")
}
