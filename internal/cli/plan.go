// Package cli — plan.go implements the "dockhand plan" command.
//
// The plan command resolves the install profile exactly as install would
// and prints the resulting step list without touching the system. It is
// the safe way to see what an installation (or removal, with --uninstall)
// will do on this machine.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dockhand/internal/sequence"
	"github.com/shinji-kodama/dockhand/internal/steps"
)

// planFlags holds the flag values for the plan command.
type planFlags struct {
	operationFlags

	// uninstall shows the removal steps instead of the install steps.
	uninstall bool
}

// NewPlanCommand creates the "plan" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewPlanCommand() *cobra.Command {
	flags := &planFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the steps an install or uninstall would run",
		Long: `Resolve the install profile and print the ordered step list without
executing anything.

Examples:
  dockhand plan
  dockhand plan --kind desktop
  dockhand plan --uninstall
  dockhand plan --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(flags)
		},
	}

	addOperationFlags(cmd, &flags.operationFlags)
	cmd.Flags().BoolVar(&flags.uninstall, "uninstall", false, "Show the uninstall steps instead")

	return cmd
}

// runPlan is the main logic function for the plan command.
func runPlan(flags *planFlags) error {
	p, err := resolveProfile(&flags.operationFlags)
	if err != nil {
		return err
	}

	var (
		list   []sequence.Step
		action string
	)
	if flags.uninstall {
		list, err = steps.BuildUninstallSteps(p)
		action = "uninstall " + describeProfile(p)
	} else {
		list, err = steps.BuildInstallSteps(p)
		action = "install " + describeProfile(p)
	}
	if err != nil {
		return err
	}

	printPlan(action, list)
	return nil
}

// printPlan outputs the step list in text or JSON format, depending on
// the global --json flag. It is shared with the --dry-run mode of the
// install and uninstall commands.
func printPlan(action string, list []sequence.Step) {
	if IsJSONOutput() {
		printPlanJSON(action, list)
	} else {
		printPlanText(action, list)
	}
}

// printPlanJSON outputs the plan as structured JSON. The top-level keys
// are "action" and "steps".
func printPlanJSON(action string, list []sequence.Step) {
	type planJSON struct {
		Action string   `json:"action"`
		Steps  []string `json:"steps"`
	}

	out := planJSON{
		Action: action,
		// An empty slice marshals as [] instead of null.
		Steps: make([]string, 0, len(list)),
	}
	for _, step := range list {
		out.Steps = append(out.Steps, step.Description())
	}

	data, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(data))
}

// printPlanText outputs the plan as a numbered human-readable list.
func printPlanText(action string, list []sequence.Step) {
	fmt.Printf("Plan: %s\n\n", action)
	for _, line := range planLines(list) {
		fmt.Println(line)
	}
	fmt.Printf("\n%d step(s). Nothing was executed.\n", len(list))
}
