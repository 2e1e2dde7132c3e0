// Package cli — uninstall.go implements the "dockhand uninstall" command.
//
// The uninstall command mirrors install: it resolves the profile, builds
// the platform's removal steps, and drives them through the same
// sequencer. Removal steps have no meaningful rollback (reinstalling is
// not an undo), so their Rollback is a logged no-op; cancellation and
// cleanup behave exactly as during installation.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dockhand/internal/model"
	"github.com/shinji-kodama/dockhand/internal/steps"
)

// uninstallFlags holds the flag values for the uninstall command.
type uninstallFlags struct {
	operationFlags

	// yes skips the interactive confirmation prompt when true.
	yes bool

	// dryRun prints the resolved step list without executing anything.
	dryRun bool
}

// NewUninstallCommand creates the "uninstall" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewUninstallCommand() *cobra.Command {
	flags := &uninstallFlags{}

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove Docker from this machine",
		Long: `Remove the Docker installation that matches the install profile.

On Linux the packages are purged through the distro's package manager,
on macOS the brew formulae (or Docker Desktop) are removed, on Windows
the engine service is deleted and the install directory cleaned out.

Unless --yes is specified, the command prompts for confirmation.

Examples:
  dockhand uninstall
  dockhand uninstall --yes
  dockhand uninstall --kind desktop`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(cmd.Context(), flags)
		},
	}

	addOperationFlags(cmd, &flags.operationFlags)
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Uninstall without confirmation")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the step list without executing")

	return cmd
}

// runUninstall is the main logic function for the uninstall command.
func runUninstall(ctx context.Context, flags *uninstallFlags) error {
	p, err := resolveProfile(&flags.operationFlags)
	if err != nil {
		return err
	}

	list, err := steps.BuildUninstallSteps(p)
	if err != nil {
		return err
	}

	if flags.dryRun {
		printPlan("uninstall "+describeProfile(p), list)
		return nil
	}

	if !flags.yes {
		confirmed, promptErr := confirmOperation("uninstall "+describeProfile(p), list)
		if promptErr != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to read user input", promptErr)
		}
		if !confirmed {
			return model.NewCLIError(model.ExitUserCancelled, "operation cancelled by user")
		}
	}

	if !IsJSONOutput() {
		fmt.Printf("Uninstalling %s\n\n", describeProfile(p))
	}
	return runOperation(ctx, "uninstall", list)
}
