package steps

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shinji-kodama/dockhand/internal/sequence"
)

// recorder captures the reporter's log stream for assertions.
type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) LogMessage(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recorder) ProgressUpdated(percent int, text string) {}

// all returns a copy of the captured messages.
func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// joined returns the captured messages as one newline-separated string,
// convenient for substring assertions.
func (r *recorder) joined() string {
	return strings.Join(r.all(), "\n")
}

// newRunContext builds a run context wired to a fresh recorder.
func newRunContext(t *testing.T) (*sequence.RunContext, *recorder) {
	t.Helper()
	rec := &recorder{}
	rc := sequence.NewRunContext(context.Background(), sequence.NewCancelToken(), rec)
	return rc, rec
}
