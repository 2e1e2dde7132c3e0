package sequence

import "context"

// StateVerifier performs the coarse, advisory check of observable system
// state around an operation. The sequencer takes a snapshot before the
// first step runs and, after a rollback, takes another and asks the
// verifier for residual effects. Warnings are logged through the
// Reporter and never influence the operation's result.
type StateVerifier interface {
	// Snapshot captures the relevant observable state as an opaque
	// string (for the Docker engine verifier: the running containers).
	Snapshot(ctx context.Context) (string, error)

	// Residual compares two snapshots and describes any effects left
	// behind, one warning per finding. An empty slice means the rollback
	// left no visible residue.
	Residual(before, after string) []string
}
