// Package cli — install.go implements the "dockhand install" command.
//
// The install command is the primary user-facing operation. It resolves
// the install profile, builds the platform's step catalog, confirms with
// the user, and drives the steps through the sequencer with rollback on
// failure and cooperative cancellation on SIGINT.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dockhand/internal/model"
	"github.com/shinji-kodama/dockhand/internal/steps"
)

// installFlags holds the flag values for the install command.
// These are bound to cobra flags in NewInstallCommand.
type installFlags struct {
	operationFlags

	// yes skips the interactive confirmation prompt when true.
	yes bool

	// dryRun prints the resolved step list without executing anything.
	dryRun bool
}

// NewInstallCommand creates the "install" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewInstallCommand() *cobra.Command {
	flags := &installFlags{}

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install Docker on this machine",
		Long: `Install Docker through an ordered list of reversible steps.

The step list depends on the target platform and the install profile:
package installation via the distro's package manager on Linux, Homebrew
and Colima (or Docker Desktop) on macOS, WSL2 plus the engine service (or
Docker Desktop) on Windows.

If any step fails, the steps that already completed are rolled back in
reverse order and downloaded artifacts are removed. Ctrl-C requests
cancellation; the current step finishes or aborts, then the same rollback
runs.

Examples:
  dockhand install
  dockhand install --profile ./dockhand.jsonc
  dockhand install --kind desktop --yes
  dockhand install --channel test --dry-run`,

		// No positional arguments: everything comes from the profile and flags.
		Args: cobra.NoArgs,

		// RunE returns an error to the root command's error handler.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.Context(), flags)
		},
	}

	addOperationFlags(cmd, &flags.operationFlags)
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Install without confirmation")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the step list without executing")

	return cmd
}

// runInstall is the main logic function for the install command.
func runInstall(ctx context.Context, flags *installFlags) error {
	p, err := resolveProfile(&flags.operationFlags)
	if err != nil {
		return err
	}

	list, err := steps.BuildInstallSteps(p)
	if err != nil {
		return err
	}

	if flags.dryRun {
		printPlan("install "+describeProfile(p), list)
		return nil
	}

	// Installing mutates the system, so ask first unless --yes.
	if !flags.yes {
		confirmed, promptErr := confirmOperation("install "+describeProfile(p), list)
		if promptErr != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to read user input", promptErr)
		}
		if !confirmed {
			return model.NewCLIError(model.ExitUserCancelled, "operation cancelled by user")
		}
	}

	if !IsJSONOutput() {
		fmt.Printf("Installing %s\n\n", describeProfile(p))
	}
	return runOperation(ctx, "install", list)
}
