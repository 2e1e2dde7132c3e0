package sequence

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectLogf returns a logf function appending formatted lines to dst.
func collectLogf(dst *[]string) func(string, ...any) {
	return func(format string, args ...any) {
		*dst = append(*dst, fmt.Sprintf(format, args...))
	}
}

// TestResourceRegistry_CleanupRemovesFilesAndDirectories covers the two
// resource kinds the installer creates: scratch files and temp dirs.
func TestResourceRegistry_CleanupRemovesFilesAndDirectories(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "install.sh")
	require.NoError(t, os.WriteFile(file, []byte("#!/bin/sh\n"), 0755))

	nested := filepath.Join(dir, "download-cache")
	require.NoError(t, os.MkdirAll(filepath.Join(nested, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "sub", "pkg.deb"), []byte("x"), 0644))

	reg := NewResourceRegistry()
	reg.Register(file)
	reg.Register(nested)

	var logged []string
	reg.Cleanup(collectLogf(&logged))

	assert.NoFileExists(t, file)
	assert.NoDirExists(t, nested)
	assert.Contains(t, logged, "Cleaned up resource: "+file)
	assert.Contains(t, logged, "Cleaned up resource: "+nested)
	assert.Empty(t, reg.Paths(), "successfully removed entries must drain from the registry")
}

// TestResourceRegistry_CleanupIdempotent: a second pass finds nothing to
// delete and reports nothing.
func TestResourceRegistry_CleanupIdempotent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scratch.tmp")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	reg := NewResourceRegistry()
	reg.Register(file)

	var first []string
	reg.Cleanup(collectLogf(&first))
	require.Len(t, first, 1)

	var second []string
	reg.Cleanup(collectLogf(&second))
	assert.Empty(t, second, "second cleanup must be silent")
}

// TestResourceRegistry_ToleratesMissingEntries: paths that never existed
// (or were already removed) are skipped without a warning.
func TestResourceRegistry_ToleratesMissingEntries(t *testing.T) {
	reg := NewResourceRegistry()
	reg.Register(filepath.Join(t.TempDir(), "never-created.tmp"))

	var logged []string
	reg.Cleanup(collectLogf(&logged))

	assert.Empty(t, logged)
	assert.Empty(t, reg.Paths())
}

// TestResourceRegistry_RetainsFailedEntries: a path that cannot even be
// inspected is warned about and kept for a later attempt. A NUL byte in
// the path makes the stat fail deterministically on every platform.
func TestResourceRegistry_RetainsFailedEntries(t *testing.T) {
	bad := "scratch\x00dir"

	reg := NewResourceRegistry()
	reg.Register(bad)

	var logged []string
	reg.Cleanup(collectLogf(&logged))

	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "Warning: Failed to clean up")
	assert.Equal(t, []string{bad}, reg.Paths(), "failed entries stay registered")
}

// TestResourceRegistry_NilLogf: cleanup must not assume a log sink.
func TestResourceRegistry_NilLogf(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scratch.tmp")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	reg := NewResourceRegistry()
	reg.Register(file)

	assert.NotPanics(t, func() { reg.Cleanup(nil) })
	assert.NoFileExists(t, file)
}
