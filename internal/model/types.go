// Package model defines the domain types for the dockhand CLI.
//
// All entities in this package represent the core data structures shared
// across the installer, the Docker inspection layer, and the CLI. They are
// pure values with no behavior beyond validation and formatting.
package model

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform identifies the host operating system an installation targets.
// Each platform has its own step catalog (package managers, service
// managers, and feature toggles differ per OS).
type Platform string

const (
	// PlatformLinux covers the distro families the installer knows how to
	// drive (debian, ubuntu, fedora, centos, rhel).
	PlatformLinux Platform = "linux"

	// PlatformDarwin is macOS; installation goes through Homebrew and Colima.
	PlatformDarwin Platform = "darwin"

	// PlatformWindows installs the engine on top of WSL2.
	PlatformWindows Platform = "windows"
)

// String returns the string representation of Platform.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands and logging.
func (p Platform) String() string {
	return string(p)
}

// IsValid checks whether the Platform value is one of the
// predefined supported platforms.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformLinux, PlatformDarwin, PlatformWindows:
		return true
	default:
		return false
	}
}

// DisplayName returns the marketing name of the platform for user-facing
// messages ("Linux", "macOS", "Windows").
func (p Platform) DisplayName() string {
	switch p {
	case PlatformDarwin:
		return "macOS"
	case PlatformWindows:
		return "Windows"
	default:
		return "Linux"
	}
}

// ParsePlatform converts a string to a Platform.
// Returns an error if the string does not match any supported platform.
func ParsePlatform(s string) (Platform, error) {
	normalized := strings.ToLower(s)
	// Accept the common aliases users actually type.
	switch normalized {
	case "macos", "mac", "osx":
		normalized = string(PlatformDarwin)
	case "win":
		normalized = string(PlatformWindows)
	}
	p := Platform(normalized)
	if !p.IsValid() {
		return "", fmt.Errorf("unsupported platform: %q (valid: linux, darwin, windows)", s)
	}
	return p, nil
}

// CurrentPlatform detects the platform of the running process from
// runtime.GOOS. Returns an error on operating systems the installer
// has no step catalog for.
func CurrentPlatform() (Platform, error) {
	return ParsePlatform(runtime.GOOS)
}

// Channel selects which release channel of the engine packages to install.
type Channel string

const (
	// ChannelStable installs the latest stable release. This is the default.
	ChannelStable Channel = "stable"

	// ChannelTest installs pre-release builds from the test channel.
	ChannelTest Channel = "test"
)

// String returns the string representation of Channel.
func (c Channel) String() string {
	return string(c)
}

// IsValid checks whether the Channel value is one of the
// predefined release channels.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelStable, ChannelTest:
		return true
	default:
		return false
	}
}

// ParseChannel converts a string to a Channel.
// Returns an error if the string does not match any release channel.
func ParseChannel(s string) (Channel, error) {
	c := Channel(strings.ToLower(s))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid release channel: %q (valid: stable, test)", s)
	}
	return c, nil
}

// InstallKind selects which Docker distribution the installer sets up.
type InstallKind string

const (
	// KindEngine installs the Docker Engine daemon (on macOS through
	// Colima, on Windows on top of WSL2).
	KindEngine InstallKind = "engine"

	// KindDesktop installs Docker Desktop from the official distribution
	// artifact.
	KindDesktop InstallKind = "desktop"
)

// String returns the string representation of InstallKind.
func (k InstallKind) String() string {
	return string(k)
}

// IsValid checks whether the InstallKind value is one of the
// predefined install kinds.
func (k InstallKind) IsValid() bool {
	switch k {
	case KindEngine, KindDesktop:
		return true
	default:
		return false
	}
}

// ParseInstallKind converts a string to an InstallKind.
// Returns an error if the string does not match any install kind.
func ParseInstallKind(s string) (InstallKind, error) {
	k := InstallKind(strings.ToLower(s))
	if !k.IsValid() {
		return "", fmt.Errorf("invalid install kind: %q (valid: engine, desktop)", s)
	}
	return k, nil
}

// OperationStatus represents the lifecycle state of an installation
// operation. The state transitions are:
//
//	Pending → Running → Succeeded ─────────────┐
//	                  → Failed    → RollingBack┤→ CleaningUp → Done
//	                  → Cancelled → RollingBack┘
//
// Done is terminal; an operation is single-use and never re-enters the
// state machine.
type OperationStatus string

const (
	// StatusPending indicates the operation has been built but not started.
	StatusPending OperationStatus = "pending"

	// StatusRunning indicates steps are currently executing.
	StatusRunning OperationStatus = "running"

	// StatusSucceeded indicates every step completed without error.
	StatusSucceeded OperationStatus = "succeeded"

	// StatusFailed indicates a step's execution failed.
	StatusFailed OperationStatus = "failed"

	// StatusCancelled indicates the caller requested cancellation and the
	// sequencer honored it at a step boundary.
	StatusCancelled OperationStatus = "cancelled"

	// StatusRollingBack indicates completed steps are being undone in
	// reverse order. Only reachable from Failed or Cancelled.
	StatusRollingBack OperationStatus = "rolling-back"

	// StatusCleaningUp indicates registered scratch resources are being
	// removed. Reached on every path, success included.
	StatusCleaningUp OperationStatus = "cleaning-up"

	// StatusDone indicates the operation has fully finished, cleanup
	// included, and its result is final.
	StatusDone OperationStatus = "done"
)

// String returns the string representation of OperationStatus.
func (s OperationStatus) String() string {
	return string(s)
}

// IsValid checks whether the OperationStatus value is one of the
// predefined lifecycle states.
func (s OperationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusSucceeded, StatusFailed,
		StatusCancelled, StatusRollingBack, StatusCleaningUp, StatusDone:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the operation can no longer change state.
func (s OperationStatus) IsTerminal() bool {
	return s == StatusDone
}

// Outcome is the tag of an operation's final result: exactly one of
// succeeded, failed, or cancelled. Compensating actions (rollback,
// verification, cleanup) never influence the outcome; only step execution
// failures and cancellation do.
type Outcome string

const (
	// OutcomeSucceeded means all steps ran to completion.
	OutcomeSucceeded Outcome = "succeeded"

	// OutcomeFailed means a step's execution failed and completed steps
	// were rolled back.
	OutcomeFailed Outcome = "failed"

	// OutcomeCancelled means the caller cancelled the run and completed
	// steps were rolled back.
	OutcomeCancelled Outcome = "cancelled"
)

// String returns the string representation of Outcome.
func (o Outcome) String() string {
	return string(o)
}

// IsValid checks whether the Outcome value is one of the predefined tags.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeSucceeded, OutcomeFailed, OutcomeCancelled:
		return true
	default:
		return false
	}
}

// Success reports whether the outcome is the successful one. This is the
// boolean half of the (success, message) pair the installer reports.
func (o Outcome) Success() bool {
	return o == OutcomeSucceeded
}

// ContainerInfo holds runtime information about a Docker container.
// This data is fetched dynamically from the Docker API, not persisted.
type ContainerInfo struct {
	// ContainerID is the unique Docker container identifier (SHA-256 hash prefix).
	ContainerID string `json:"containerId"`

	// Name is the human-readable Docker container name.
	Name string `json:"name"`

	// Image is the image reference the container was created from.
	Image string `json:"image"`

	// Status is the Docker container status (e.g., "running", "exited", "created").
	Status string `json:"status"`

	// Project is the Docker Compose project name, if the container belongs
	// to one. Empty for plain containers.
	Project string `json:"project,omitempty"`

	// Labels is the full set of Docker labels on the container.
	Labels map[string]string `json:"labels,omitempty"`
}

// EngineStatus summarizes the reachability and identity of the local
// Docker engine, as reported by the status command.
type EngineStatus struct {
	// Available is true when the daemon answered a ping.
	Available bool `json:"available"`

	// Host is the daemon endpoint that was probed.
	Host string `json:"host,omitempty"`

	// Version is the engine version string (empty when unavailable).
	Version string `json:"version,omitempty"`

	// APIVersion is the negotiated Docker API version.
	APIVersion string `json:"apiVersion,omitempty"`

	// OS and Arch identify the daemon's platform.
	OS   string `json:"os,omitempty"`
	Arch string `json:"arch,omitempty"`

	// RunningContainers is the number of containers currently running.
	RunningContainers int `json:"runningContainers"`

	// Error carries the probe failure in serializable form when the
	// daemon could not be reached.
	Error string `json:"error,omitempty"`
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 2

	// ExitStepFailed indicates an installation step failed and the
	// operation was rolled back.
	ExitStepFailed ExitCode = 3

	// ExitCancelled indicates the operation was cancelled mid-run and
	// rolled back.
	ExitCancelled ExitCode = 4

	// ExitProfileError indicates the install profile could not be loaded
	// or failed validation.
	ExitProfileError ExitCode = 5

	// ExitUnsupportedPlatform indicates the host OS has no step catalog.
	ExitUnsupportedPlatform ExitCode = 6

	// ExitUserCancelled indicates the user declined an interactive prompt.
	ExitUserCancelled ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
// This follows Go's error wrapping convention introduced in Go 1.13.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
