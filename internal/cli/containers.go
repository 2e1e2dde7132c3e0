// Package cli — containers.go implements the "dockhand containers" command.
//
// The containers command lists containers on the local engine as a text
// table or JSON array. An optional --project flag filters to one Docker
// Compose project via the labels Compose puts on every container it
// creates; --all includes stopped containers.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dockhand/internal/docker"
	"github.com/shinji-kodama/dockhand/internal/model"
)

// containersFlags holds the flag values for the containers command.
type containersFlags struct {
	// all includes stopped and created containers.
	all bool

	// project filters the listing to one Docker Compose project.
	project string
}

// NewContainersCommand creates the "containers" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewContainersCommand() *cobra.Command {
	flags := &containersFlags{}

	cmd := &cobra.Command{
		Use:   "containers",
		Short: "List containers on the local engine",
		Long: `List containers on the local Docker engine.

By default only running containers are shown. Use --all to include
stopped ones, and --project to restrict the listing to a Docker Compose
project.

Examples:
  dockhand containers
  dockhand containers --all
  dockhand containers --project shop --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runContainers(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "Include stopped containers")
	cmd.Flags().StringVar(&flags.project, "project", "", "Filter by Docker Compose project")

	return cmd
}

// runContainers is the main logic function for the containers command.
func runContainers(ctx context.Context, flags *containersFlags) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err // NewClient already returns CLIError with ExitDockerNotRunning
	}
	defer func() { _ = cli.Close() }()

	containers, err := docker.ListContainers(ctx, cli, docker.ListFilter{
		All:     flags.all,
		Project: flags.project,
	})
	if err != nil {
		return err // ListContainers already returns CLIError
	}

	printContainersResult(containers)
	return nil
}

// printContainersResult outputs the container list in text or JSON
// format, depending on the global --json flag.
func printContainersResult(containers []model.ContainerInfo) {
	if IsJSONOutput() {
		printContainersResultJSON(containers)
	} else {
		printContainersResultText(containers)
	}
}

// printContainersResultJSON outputs the container list as structured
// JSON. The top-level key is "containers" containing an array.
func printContainersResultJSON(containers []model.ContainerInfo) {
	type resultJSON struct {
		Containers []model.ContainerInfo `json:"containers"`
	}

	result := resultJSON{
		// An empty slice marshals as [] instead of null.
		Containers: containers,
	}
	if result.Containers == nil {
		result.Containers = make([]model.ContainerInfo, 0)
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}

// printContainersResultText outputs the container list as a
// human-readable text table with aligned columns.
//
// The table format is:
//
//	CONTAINER ID  NAME        IMAGE        STATUS    PROJECT
//	0f1e2d3c4b5a  shop-web-1  nginx:1.27   running   shop
func printContainersResultText(containers []model.ContainerInfo) {
	if len(containers) == 0 {
		fmt.Println("No containers found.")
		return
	}

	fmt.Printf("%-13s %-24s %-28s %-10s %s\n",
		"CONTAINER ID", "NAME", "IMAGE", "STATUS", "PROJECT")

	for _, c := range containers {
		project := c.Project
		if project == "" {
			project = "-"
		}
		fmt.Printf("%-13s %-24s %-28s %-10s %s\n",
			ShortID(c.ContainerID),
			c.Name,
			c.Image,
			c.Status,
			project,
		)
	}
}

// ShortID truncates a container ID to the familiar 12-character form
// shown by docker ps. Shorter IDs pass through unchanged.
//
// This function is exported for testing purposes (tested in cli_test.go).
func ShortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
