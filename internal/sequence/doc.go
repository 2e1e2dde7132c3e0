// Package sequence implements the transactional step sequencer at the
// heart of dockhand.
//
// An Operation owns an ordered list of Steps, each a fallible, reversible
// unit of system change (enable a subsystem, install a package, start a
// service). Execution is strictly sequential: later steps may depend on
// the side effects of earlier ones. When a step fails, or the caller
// cancels through the polled CancelToken, every step completed so far is
// rolled back in reverse completion order on a best-effort basis. Rollback
// failures are logged and never propagated, so sibling rollbacks always
// run. Afterward, on every path, registered scratch resources are removed
// and an advisory state verification runs.
//
// Key design decisions:
//
//   - Steps receive a RunContext (logger, cancellation token, resource
//     registry) as an explicit parameter instead of holding a reference
//     back to their Operation, keeping the ownership graph acyclic and
//     steps independently testable.
//   - Execute returns a tagged Result (succeeded, failed, cancelled)
//     rather than an error. Compensating actions cannot influence it;
//     only step execution failures and cancellation do.
//   - Cancellation is cooperative and polled at step boundaries only. A
//     step already in flight is responsible for its own responsiveness
//     (see the package-install step, which polls while streaming).
//
// The Step interface is closed: concrete variants embed StepBase, which
// supplies the unexported half of the interface.
package sequence
