// verifier.go implements the advisory engine state check the installer
// runs around an operation: a snapshot of running container names before
// the first step, compared against a second snapshot after a rollback.
package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// EngineStateVerifier snapshots the set of running containers on the
// local engine. The installer logs its findings as warnings only; a noisy
// engine never changes an operation's result.
//
// A snapshot is the sorted running-container names joined by newlines, so
// two snapshots compare with plain string equality.
type EngineStateVerifier struct {
	client *Client
}

// NewEngineStateVerifier creates a verifier over the given client.
func NewEngineStateVerifier(cli *Client) *EngineStateVerifier {
	return &EngineStateVerifier{client: cli}
}

// Snapshot captures the names of all currently running containers.
func (v *EngineStateVerifier) Snapshot(ctx context.Context) (string, error) {
	list, err := ListContainers(ctx, v.client, ListFilter{})
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	sort.Strings(names)

	return strings.Join(names, "\n"), nil
}

// Residual compares the pre-run and post-rollback snapshots. Any running
// container after a rollback is reported; containers that appeared during
// the operation are called out by name since the rollback should have
// stopped them.
func (v *EngineStateVerifier) Residual(before, after string) []string {
	var warnings []string

	if after != "" {
		warnings = append(warnings, "Docker containers are still running after rollback")
	}

	if started := newEntries(before, after); len(started) > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"Containers started during the operation are still running: %s",
			strings.Join(started, ", "),
		))
	}

	return warnings
}

// newEntries returns the lines present in after but not in before,
// preserving the snapshot order.
func newEntries(before, after string) []string {
	if after == "" {
		return nil
	}

	known := make(map[string]struct{})
	for _, name := range strings.Split(before, "\n") {
		known[name] = struct{}{}
	}

	var added []string
	for _, name := range strings.Split(after, "\n") {
		if _, ok := known[name]; !ok {
			added = append(added, name)
		}
	}
	return added
}
