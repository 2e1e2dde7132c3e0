// exec.go provides the command execution helpers shared by all step
// variants.
//
// Two execution modes cover every step:
//   - runCommand captures output for short probes (version checks,
//     existence tests) whose output is consumed programmatically.
//   - streamCommand forwards output to the reporter line by line for
//     long-running package manager commands, polling the cancellation
//     token on every line.
package steps

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/dockhand/internal/logging"
	"github.com/shinji-kodama/dockhand/internal/sequence"
)

// errCancelled is returned by streamCommand when the cancellation token
// fires mid-command. The sequencer treats it like any other step failure,
// so a cancel that lands inside a long command still triggers rollback of
// the completed prefix.
var errCancelled = errors.New("cancelled by user request")

// runCommand executes a command and returns its stdout. Stderr is
// captured separately and folded into the error on failure, because
// package managers and service managers put their diagnostics there.
//
// The underlying exec error is wrapped, so callers can reach the process
// exit code through errors.As when they need to distinguish failures
// (the WSL2 step keys off exit code 740).
func runCommand(rc *sequence.RunContext, name string, args ...string) (string, error) {
	logging.LogCommand(name, args)
	cmd := exec.CommandContext(rc.Context(), name, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s failed: %s: %w", name, msg, err)
		}
		return "", fmt.Errorf("%s failed: %w", name, err)
	}

	return stdout.String(), nil
}

// runBestEffort executes a command on a rollback path where failure must
// not interrupt the remaining rollback work. The error only reaches the
// debug log, not the user-visible stream.
func runBestEffort(rc *sequence.RunContext, name string, args ...string) {
	if _, err := runCommand(rc, name, args...); err != nil {
		logger := rc.Logger()
		logger.Debug().Err(err).Str("command", name).Msg("best-effort command failed")
	}
}

// streamCommand runs a command and forwards its combined stdout/stderr to
// the reporter line by line, as package manager output is produced. The
// cancellation token is polled after each line; when it fires the process
// is killed and errCancelled is returned. A scan failure kills the
// process too, because a child blocked on the undrained pipe would make
// Wait hang forever.
func streamCommand(rc *sequence.RunContext, name string, args ...string) error {
	logging.LogCommand(name, args)
	cmd := exec.CommandContext(rc.Context(), name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open output pipe for %s: %w", name, err)
	}
	// Interleave stderr with stdout so diagnostics appear in stream order.
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	scanner := bufio.NewScanner(stdout)
	// Package manager progress lines can exceed the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			rc.Logf("%s", line)
		}
		if rc.Cancelled() {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return errCancelled
		}
	}

	if err := scanner.Err(); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("failed to read %s output: %w", name, err)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s exited with an error: %w", name, err)
	}
	return nil
}

// writeScript materializes a generated shell script in the system temp
// directory and returns its path. The file is made executable so it can
// be handed to sudo directly. The caller is responsible for removing it.
func writeScript(prefix, contents string) (string, error) {
	f, err := os.CreateTemp("", prefix+"-*.sh")
	if err != nil {
		return "", fmt.Errorf("failed to create script file: %w", err)
	}

	if _, err := f.WriteString(contents); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write script file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close script file: %w", err)
	}

	if err := os.Chmod(f.Name(), 0o755); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to make script executable: %w", err)
	}

	return f.Name(), nil
}
