// Package cli — run.go holds the machinery shared by the install and
// uninstall commands: profile resolution with flag overrides, the console
// reporter, the confirmation prompt, and the operation runner that wires
// SIGINT to cooperative cancellation.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dockhand/internal/docker"
	"github.com/shinji-kodama/dockhand/internal/logging"
	"github.com/shinji-kodama/dockhand/internal/model"
	"github.com/shinji-kodama/dockhand/internal/profile"
	"github.com/shinji-kodama/dockhand/internal/sequence"
)

// operationFlags holds the profile-shaping flags shared by the install,
// uninstall, and plan commands.
type operationFlags struct {
	profilePath string // --profile: explicit profile file path
	kind        string // --kind: engine or desktop, overrides the profile
	channel     string // --channel: stable or test, overrides the profile
	platform    string // --platform: target platform, overrides the profile
}

// addOperationFlags registers the shared profile flags on a command.
func addOperationFlags(cmd *cobra.Command, flags *operationFlags) {
	cmd.Flags().StringVar(&flags.profilePath, "profile", "",
		"Install profile path (default: search dockhand.{jsonc,json,yaml,yml})")
	cmd.Flags().StringVar(&flags.kind, "kind", "",
		"Install kind: engine or desktop (overrides the profile)")
	cmd.Flags().StringVar(&flags.channel, "channel", "",
		"Release channel: stable or test (overrides the profile)")
	cmd.Flags().StringVar(&flags.platform, "platform", "",
		"Target platform: linux, darwin, windows (default: current OS)")
}

// resolveProfile produces the effective install profile: an explicit
// --profile path wins, otherwise the standard locations are searched,
// otherwise built-in defaults apply. Flag values override whatever the
// file said. The result is validated before it is returned.
func resolveProfile(flags *operationFlags) (*profile.Profile, error) {
	logger := logging.GetLogger("cli")

	var p *profile.Profile
	if flags.profilePath != "" {
		loaded, err := profile.Load(flags.profilePath)
		if err != nil {
			return nil, err
		}
		p = loaded
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
		}
		if path, findErr := profile.Find(cwd); findErr == nil {
			logger.Debug().Str("path", path).Msg("Using discovered install profile")
			loaded, loadErr := profile.Load(path)
			if loadErr != nil {
				return nil, loadErr
			}
			p = loaded
		} else {
			// No profile anywhere is fine: the defaults install the
			// stable engine for the current platform.
			logger.Debug().Msg("No install profile found, using defaults")
			p = profile.Default()
		}
	}

	if flags.kind != "" {
		p.Kind = flags.kind
	}
	if flags.channel != "" {
		p.Channel = flags.channel
	}
	if flags.platform != "" {
		p.Platform = flags.platform
	}

	if problems := profile.Validate(p); len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, problem := range problems {
			msgs[i] = problem.Field + ": " + problem.Message
		}
		return nil, model.NewCLIError(model.ExitProfileError,
			"invalid install profile: "+strings.Join(msgs, "; "))
	}

	return p, nil
}

// describeProfile renders the one-line summary of what an operation is
// about to do, used by prompts and the plan command header.
func describeProfile(p *profile.Profile) string {
	platform, err := p.TargetPlatform()
	if err != nil {
		return fmt.Sprintf("Docker %s (%s channel)", p.Kind, p.Channel)
	}
	kind, _ := p.InstallKind()
	channel, _ := p.ReleaseChannel()
	return fmt.Sprintf("Docker %s (%s channel) on %s", kind, channel, platform.DisplayName())
}

// consoleReporter renders the operation's log and progress stream to
// stdout for interactive runs.
type consoleReporter struct{}

// LogMessage implements sequence.Reporter.
func (consoleReporter) LogMessage(text string) {
	fmt.Println(text)
}

// ProgressUpdated implements sequence.Reporter.
func (consoleReporter) ProgressUpdated(percent int, text string) {
	fmt.Printf("[%3d%%] %s\n", percent, text)
}

// logReporter routes the operation stream to the structured logger.
// Used in JSON mode, where stdout must carry nothing but the result
// document.
type logReporter struct{}

// LogMessage implements sequence.Reporter.
func (logReporter) LogMessage(text string) {
	logger := logging.GetLogger("operation")
	logger.Info().Msg(text)
}

// ProgressUpdated implements sequence.Reporter.
func (logReporter) ProgressUpdated(percent int, text string) {
	logger := logging.GetLogger("operation")
	logger.Info().Int("percent", percent).Msg(text)
}

// newReporter picks the reporter matching the output mode.
func newReporter() sequence.Reporter {
	if IsJSONOutput() {
		return logReporter{}
	}
	return consoleReporter{}
}

// confirmOperation shows what is about to run and asks for a y/N answer.
// Returns true if the user confirmed, false otherwise.
func confirmOperation(action string, list []sequence.Step) (bool, error) {
	fmt.Printf("About to %s:\n", action)
	for _, step := range list {
		fmt.Printf("  - %s\n", step.Description())
	}
	fmt.Print("\nContinue? [y/N] ")

	// bufio.Scanner handles different line endings across platforms
	// (LF on Unix, CRLF on Windows).
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return isAffirmative(scanner.Text()), nil
	}

	// If stdin is closed or an error occurred, treat it as "no".
	if err := scanner.Err(); err != nil {
		return false, err
	}
	return false, nil
}

// isAffirmative reports whether a prompt answer means yes.
func isAffirmative(answer string) bool {
	switch strings.TrimSpace(strings.ToLower(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// runOperation assembles an operation from the step list and drives it to
// completion. SIGINT and SIGTERM flip the cancellation token rather than
// killing the process, so the sequencer gets to roll back and clean up.
//
// When a Docker client can be constructed, the engine state verifier is
// attached; when it cannot (the usual case before a first install), the
// operation simply runs unverified.
func runOperation(ctx context.Context, name string, list []sequence.Step) error {
	logger := logging.GetLogger("cli")

	op := sequence.NewOperation(name, newReporter())
	for _, step := range list {
		op.AddStep(step)
	}

	if cli, err := docker.NewClient(); err == nil {
		defer func() { _ = cli.Close() }()
		op.SetVerifier(docker.NewEngineStateVerifier(cli))
	} else {
		logger.Debug().Err(err).Msg("Docker not reachable, running without state verification")
	}

	token := sequence.NewCancelToken()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	stopWatch := cancelOnSignal(sigCh, token)
	defer stopWatch()

	result := <-sequence.Start(ctx, op, token)

	printOperationResult(result, op.CompletedSteps())
	if code := exitCodeFor(result.Outcome); code != model.ExitSuccess {
		return &exitCodeError{code: code}
	}
	return nil
}

// cancelOnSignal flips the cancellation token on every delivery on
// sigCh until stop is called. stop waits for the watcher goroutine to
// exit; signal.Stop alone never ends it, because stopping notifications
// leaves the channel open with the receive blocked forever.
func cancelOnSignal(sigCh <-chan os.Signal, token *sequence.CancelToken) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case <-sigCh:
				fmt.Fprintln(os.Stderr, "\nCancellation requested, waiting for the current step to finish...")
				token.Cancel()
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}

// exitCodeFor maps an operation outcome onto the process exit code.
func exitCodeFor(outcome model.Outcome) model.ExitCode {
	switch outcome {
	case model.OutcomeFailed:
		return model.ExitStepFailed
	case model.OutcomeCancelled:
		return model.ExitCancelled
	default:
		return model.ExitSuccess
	}
}

// printOperationResult outputs the final result in text or JSON format,
// depending on the global --json flag.
func printOperationResult(result sequence.Result, completed []string) {
	if IsJSONOutput() {
		printOperationResultJSON(result, completed)
	} else {
		printOperationResultText(result)
	}
}

// printOperationResultJSON outputs the result as structured JSON on
// stdout. completedSteps lists the descriptions of every step that ran to
// completion, in execution order.
func printOperationResultJSON(result sequence.Result, completed []string) {
	type resultJSON struct {
		Outcome        string   `json:"outcome"`
		Message        string   `json:"message"`
		CompletedSteps []string `json:"completedSteps"`
	}

	out := resultJSON{
		Outcome: result.Outcome.String(),
		Message: result.Message,
		// An empty slice marshals as [] instead of null.
		CompletedSteps: append([]string{}, completed...),
	}

	data, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(data))
}

// printOperationResultText prints the result message after a separating
// blank line; the step-by-step stream was already rendered live by the
// console reporter.
func printOperationResultText(result sequence.Result) {
	fmt.Println()
	fmt.Println(result.Message)
}

// planLines renders the numbered step list shown by the plan command and
// by --dry-run.
func planLines(list []sequence.Step) []string {
	lines := make([]string, 0, len(list))
	for i, step := range list {
		lines = append(lines, fmt.Sprintf("%2d. %s", i+1, step.Description()))
	}
	return lines
}
