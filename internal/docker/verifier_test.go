package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResidual_CleanRollback verifies that an empty post-rollback snapshot
// produces no warnings, whatever ran before the operation started.
func TestResidual_CleanRollback(t *testing.T) {
	v := NewEngineStateVerifier(nil)

	assert.Empty(t, v.Residual("", ""), "nothing running before or after should be silent")
	assert.Empty(t, v.Residual("db-1\nweb-1", ""), "everything stopped after rollback should be silent")
}

// TestResidual_ContainersStillRunning verifies that any running container
// after a rollback produces the generic warning, and that containers which
// appeared during the operation are additionally named.
func TestResidual_ContainersStillRunning(t *testing.T) {
	// Arrange: web-1 was already running before; installer-db appeared
	// during the run and survived the rollback.
	v := NewEngineStateVerifier(nil)

	// Act
	warnings := v.Residual("web-1", "installer-db\nweb-1")

	// Assert
	require.Len(t, warnings, 2, "a survivor from the run should produce both warnings")
	assert.Equal(t, "Docker containers are still running after rollback", warnings[0],
		"the generic warning comes first")
	assert.Contains(t, warnings[1], "installer-db",
		"the container started during the operation should be named")
	assert.NotContains(t, warnings[1], "web-1",
		"pre-existing containers are not blamed on the operation")
}

// TestResidual_PreexistingOnly verifies that containers which were already
// running before the operation trigger only the generic warning.
func TestResidual_PreexistingOnly(t *testing.T) {
	v := NewEngineStateVerifier(nil)

	warnings := v.Residual("db-1\nweb-1", "db-1\nweb-1")

	require.Len(t, warnings, 1, "an unchanged engine should only get the generic warning")
	assert.Equal(t, "Docker containers are still running after rollback", warnings[0])
}

// TestNewEntries exercises the snapshot diff helper directly.
func TestNewEntries(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   []string
	}{
		{
			name:   "empty after yields nothing",
			before: "a\nb",
			after:  "",
			want:   nil,
		},
		{
			name:   "all new when before is empty",
			before: "",
			after:  "a\nb",
			want:   []string{"a", "b"},
		},
		{
			name:   "only additions are reported",
			before: "a\nc",
			after:  "a\nb\nc\nd",
			want:   []string{"b", "d"},
		},
		{
			name:   "identical snapshots yield nothing",
			before: "a\nb",
			after:  "a\nb",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newEntries(tt.before, tt.after), "diff of %q and %q", tt.before, tt.after)
		})
	}
}
