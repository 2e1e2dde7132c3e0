// Package docker provides the Docker Engine API surface of the dockhand
// CLI.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Engine probing for the status command (ping, version, negotiated
//     API version)
//   - Container listing with label-based Compose project filtering
//   - The advisory state verifier the installer consults after a rollback
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
