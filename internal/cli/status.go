// Package cli — status.go implements the "dockhand status" command.
//
// The status command probes the local Docker engine: socket detection,
// a daemon ping, the server version, and the number of running
// containers. The exit code reflects availability, so scripts can use
// "dockhand status" as a health check.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dockhand/internal/docker"
	"github.com/shinji-kodama/dockhand/internal/model"
)

// NewStatusCommand creates the "status" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the Docker engine is reachable",
		Long: `Probe the local Docker engine and report its version and state.

Exit code 0 means the daemon answered; exit code 2 means it did not.

Examples:
  dockhand status
  dockhand status --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context())
		},
	}
}

// runStatus is the main logic function for the status command.
func runStatus(ctx context.Context) error {
	status := probeEngine(ctx)

	printStatusResult(status)
	if !status.Available {
		return &exitCodeError{code: model.ExitDockerNotRunning}
	}
	return nil
}

// probeEngine builds the engine status, folding a failed client
// construction (no socket at all) into an unavailable status instead of
// an error.
func probeEngine(ctx context.Context) model.EngineStatus {
	cli, err := docker.NewClient()
	if err != nil {
		return model.EngineStatus{Error: err.Error()}
	}
	defer func() { _ = cli.Close() }()

	return docker.ProbeEngine(ctx, cli)
}

// printStatusResult outputs the engine status in text or JSON format,
// depending on the global --json flag.
func printStatusResult(status model.EngineStatus) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(data))
		return
	}
	printStatusResultText(status)
}

// printStatusResultText outputs the engine status as human-readable text.
func printStatusResultText(status model.EngineStatus) {
	if !status.Available {
		fmt.Println("Docker engine: unavailable")
		if status.Error != "" {
			fmt.Printf("  %s\n", status.Error)
		}
		return
	}

	fmt.Println("Docker engine: available")
	fmt.Printf("  Host:        %s\n", status.Host)
	if status.Version != "" {
		fmt.Printf("  Version:     %s\n", status.Version)
		fmt.Printf("  API version: %s\n", status.APIVersion)
		fmt.Printf("  OS/Arch:     %s/%s\n", status.OS, status.Arch)
	}
	fmt.Printf("  Running:     %d container(s)\n", status.RunningContainers)
}
