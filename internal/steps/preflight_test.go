package steps

import (
	"fmt"
	"net"
	"testing"

	"github.com/shinji-kodama/dockhand/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaemonPortStepFreePort(t *testing.T) {
	// Arrange
	prober := port.NewProber()
	free, err := prober.FindFree(51000, 51100)
	require.NoError(t, err, "a free port should exist in the probe range")
	step := NewDaemonPortStep(free)
	rc, rec := newRunContext(t)

	// Act
	execErr := step.Execute(rc)

	// Assert
	assert.NoError(t, execErr, "a free port should pass the preflight")
	assert.Contains(t, rec.joined(), fmt.Sprintf("Port %d is available", free),
		"the availability should be reported")
}

func TestDaemonPortStepBusyPort(t *testing.T) {
	// Arrange
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "an ephemeral listener should bind")
	defer listener.Close()
	busy := listener.Addr().(*net.TCPAddr).Port
	step := NewDaemonPortStep(busy)
	rc, _ := newRunContext(t)

	// Act
	execErr := step.Execute(rc)

	// Assert
	require.Error(t, execErr, "a bound port must fail the preflight")
	assert.Contains(t, execErr.Error(), fmt.Sprintf("TCP port %d is already in use", busy),
		"the error should name the busy port")
}

func TestDaemonPortStepRollbackIsHarmless(t *testing.T) {
	// Arrange
	step := NewDaemonPortStep(51234)
	rc, rec := newRunContext(t)

	// Act
	err := step.Rollback(rc)

	// Assert
	assert.NoError(t, err, "rollback has nothing to undo")
	assert.Empty(t, rec.all(), "rollback should not log")
}
