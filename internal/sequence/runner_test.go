package sequence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dockhand/internal/model"
)

// TestStart_DeliversResult: the operation runs off the caller's
// goroutine and its result arrives on the channel.
func TestStart_DeliversResult(t *testing.T) {
	var journal []string
	op := NewOperation("install", nil)
	op.AddStep(newScriptedStep("A", &journal))

	results := Start(context.Background(), op, NewCancelToken())

	select {
	case result := <-results:
		assert.True(t, result.Success())
		assert.Equal(t, model.StatusDone, op.Status())
	case <-time.After(5 * time.Second):
		t.Fatal("no result delivered")
	}
}

// TestStart_CancellationFromCaller: the caller flips the token while the
// run is parked inside a step; the sequencer honors it at the next step
// boundary.
func TestStart_CancellationFromCaller(t *testing.T) {
	var journal []string
	token := NewCancelToken()
	gate := make(chan struct{})
	started := make(chan struct{})

	op := NewOperation("install", nil)
	blocking := newScriptedStep("A", &journal)
	blocking.onExecute = func(rc *RunContext) { close(started); <-gate }
	op.AddStep(blocking)
	op.AddStep(newScriptedStep("B", &journal))

	results := Start(context.Background(), op, token)

	// Cancel while A is still executing, then let it finish.
	<-started
	token.Cancel()
	close(gate)

	select {
	case result := <-results:
		require.Equal(t, model.OutcomeCancelled, result.Outcome)
		assert.Equal(t, "Operation cancelled by user", result.Message)
		assert.Equal(t, []string{"execute:A", "rollback:A"}, journal,
			"B must never start once cancellation is requested")
	case <-time.After(5 * time.Second):
		t.Fatal("no result delivered")
	}
}
