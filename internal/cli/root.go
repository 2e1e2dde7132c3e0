// Package cli implements the cobra-based CLI commands for dockhand.
//
// Each subcommand (install, uninstall, plan, status, containers) is defined
// in its own file within this package. This file defines the root command
// that serves as the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dockhand/internal/logging"
	"github.com/shinji-kodama/dockhand/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, all output uses structured JSON format for machine consumption.
	// When false (default), output uses human-readable text format.
	jsonOutput bool

	// verbosity is the -v count. 0 shows warnings only, -v adds info,
	// -vv adds debug including every external command invocation.
	verbosity int

	// logFile overrides the default log file location under the XDG
	// state directory.
	logFile string
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action. It only provides
// help text and global flags; actual functionality is provided by
// subcommands (install, uninstall, plan, status, containers).
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dockhand",
		Short: "Docker installer and engine inspector",
		Long: `dockhand installs, verifies, and removes Docker on Linux, macOS, and
Windows through an ordered list of reversible steps.

When a step fails or the run is cancelled, every step that already
completed is rolled back in reverse order and scratch files are cleaned
up, so a half-finished installation never lingers on the machine.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// The logger must exist before any subcommand runs.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbosity, logFile)
		},
	}

	// PersistentFlags are inherited by all subcommands. This is the cobra
	// mechanism for global flags — any flag defined here is automatically
	// available in every subcommand without re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase logging verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default: XDG state directory)")

	// Register subcommands. Each subcommand is defined in its own file
	// (install.go, plan.go, etc.) and returns a *cobra.Command.
	rootCmd.AddCommand(NewInstallCommand())
	rootCmd.AddCommand(NewUninstallCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewContainersCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own
// exit codes; other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// Operation results are already printed by the command itself;
		// the sentinel only carries the exit code.
		var silent *exitCodeError
		if errors.As(err, &silent) {
			os.Exit(int(silent.code))
		}

		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Generic error, exit with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// exitCodeError is returned by commands that have fully reported their
// outcome to the user and only need a specific process exit code.
type exitCodeError struct {
	code model.ExitCode
}

// Error satisfies the error interface. The text is never shown to users;
// Execute swallows the sentinel after extracting the code.
func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode, because stdout is
		// reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
