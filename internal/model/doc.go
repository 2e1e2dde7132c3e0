// Package model defines the domain types and value objects for the
// dockhand CLI.
//
// This package contains pure data structures with no external dependencies:
// platform and release-channel identifiers, the installation operation
// state machine and result tags, and runtime snapshots of Docker engine
// state (EngineStatus, ContainerInfo) reconstructed from Docker API
// queries. Nothing here is persisted.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
