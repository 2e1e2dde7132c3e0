package sequence

import (
	"errors"
	"io/fs"
	"os"
)

// ResourceRegistry tracks the scratch artifacts an operation creates
// (generated install scripts, downloaded archives, temp directories).
// Registered paths are removed unconditionally after the run, success or
// not. The registry is owned and mutated exclusively by the sequencer's
// goroutine; no locking is needed.
type ResourceRegistry struct {
	paths []string
}

// NewResourceRegistry returns an empty registry.
func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{}
}

// Register records a path for later cleanup. Duplicate registrations are
// harmless: cleanup tolerates already-missing entries.
func (r *ResourceRegistry) Register(path string) {
	r.paths = append(r.paths, path)
}

// Paths returns a copy of the currently registered paths.
func (r *ResourceRegistry) Paths() []string {
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Cleanup removes every registered path, files and directories alike.
// Entries that no longer exist are skipped silently, which makes Cleanup
// idempotent. A path that cannot be removed is reported through logf as
// a warning and retained for a later attempt; removal failures never
// propagate.
func (r *ResourceRegistry) Cleanup(logf func(format string, args ...any)) {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	var retained []string
	for _, path := range r.paths {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err == nil {
			if info.IsDir() {
				err = os.RemoveAll(path)
			} else {
				err = os.Remove(path)
			}
		}
		if err != nil {
			logf("Warning: Failed to clean up %s: %v", path, err)
			retained = append(retained, path)
			continue
		}
		logf("Cleaned up resource: %s", path)
	}
	r.paths = retained
}
