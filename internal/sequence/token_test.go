package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestCancelToken_InitialState: a fresh token reads as not cancelled.
func TestCancelToken_InitialState(t *testing.T) {
	token := NewCancelToken()
	assert.False(t, token.Cancelled())
}

// TestCancelToken_Cancel: the flag transitions once and stays set;
// repeated Cancel calls are harmless.
func TestCancelToken_Cancel(t *testing.T) {
	token := NewCancelToken()
	token.Cancel()
	assert.True(t, token.Cancelled())
	token.Cancel()
	assert.True(t, token.Cancelled())
}

// TestCancelToken_CrossGoroutine models the real usage: the caller sets
// the flag from another goroutine while the sequencer polls it.
func TestCancelToken_CrossGoroutine(t *testing.T) {
	token := NewCancelToken()
	go token.Cancel()

	assert.Eventually(t, token.Cancelled, time.Second, time.Millisecond,
		"the poller must observe the cancellation")
}
