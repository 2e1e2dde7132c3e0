// containers.go implements container listing and engine probing for the
// containers and status commands.
package docker

import (
	"context"
	"strings"

	// Docker API types for container listing results.
	// types.Container is the struct returned by ContainerList.
	"github.com/docker/docker/api/types"

	// container package provides ListOptions for Docker container operations.
	"github.com/docker/docker/api/types/container"

	// filters package provides Args type for building Docker API query filters.
	"github.com/docker/docker/api/types/filters"

	"github.com/shinji-kodama/dockhand/internal/model"
)

// Compose label keys set by docker compose on every container it creates.
// The containers command uses them to filter and attribute containers to
// their project without any state of its own.
const (
	composeProjectLabel = "com.docker.compose.project"
	composeServiceLabel = "com.docker.compose.service"
)

// ListFilter narrows a container listing.
type ListFilter struct {
	// All includes stopped and created containers, not just running ones.
	All bool

	// Project restricts the listing to containers of one Docker Compose
	// project. Empty means no project filter.
	Project string
}

// ListContainers queries the Docker daemon for containers matching the
// filter and maps them to the domain model.
//
// Filtering happens server-side through the Docker API filter args, which
// is cheaper than listing everything and filtering in Go.
//
// Returns a model.CLIError with ExitDockerNotRunning if the listing fails.
func ListContainers(ctx context.Context, cli *Client, filter ListFilter) ([]model.ContainerInfo, error) {
	filterArgs := filters.NewArgs()
	if filter.Project != "" {
		filterArgs.Add("label", composeProjectLabel+"="+filter.Project)
	}

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     filter.All,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	// Convert Docker API structs to domain model structs so the rest of
	// the application stays decoupled from the SDK types.
	result := make([]model.ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}

	return result, nil
}

// containerToInfo converts a Docker API Container struct to the domain
// model ContainerInfo. This is a pure mapping function with no side effects.
//
// The Docker API returns container names with a leading "/" prefix
// (e.g., "/my-container"), which we strip for cleaner display in CLI output.
// The State field from the Docker API is a short string like "running",
// "exited", or "created".
func containerToInfo(c types.Container) model.ContainerInfo {
	// Docker returns names as a slice, and each name has a leading "/"
	// that is an artifact of the API, not meaningful to users.
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	return model.ContainerInfo{
		ContainerID: c.ID,
		Name:        name,
		Image:       c.Image,
		Status:      c.State,
		Project:     c.Labels[composeProjectLabel],
		Labels:      c.Labels,
	}
}

// ProbeEngine collects the engine status the status command reports. A
// daemon that cannot be reached yields Available=false with the probe
// error in serializable form; partial failures after a successful ping
// (version lookup, container count) degrade to empty fields rather than
// failing the probe.
func ProbeEngine(ctx context.Context, cli *Client) model.EngineStatus {
	status := model.EngineStatus{Host: cli.Host()}

	if err := cli.Ping(ctx); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Available = true

	if version, err := cli.Inner().ServerVersion(ctx); err == nil {
		status.Version = version.Version
		status.APIVersion = version.APIVersion
		status.OS = version.Os
		status.Arch = version.Arch
	}

	if running, err := ListContainers(ctx, cli, ListFilter{}); err == nil {
		status.RunningContainers = len(running)
	}

	return status
}
