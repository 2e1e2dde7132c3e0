// validate.go performs conformance checks on loaded profiles.
//
// Validation collects every problem in one pass instead of stopping at the
// first, so a user editing a profile sees the full list of fixes at once.
// The CLI runs Validate before any plan is built or any step is executed.
package profile

import (
	"fmt"
	"strings"

	"github.com/shinji-kodama/dockhand/internal/model"
)

// ValidationError represents a specific validation failure in a profile.
type ValidationError struct {
	// Field is the profile key that failed validation (e.g., "daemonTcpPort").
	Field string

	// Message describes what's wrong with the field value.
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("profile validation error: %s: %s", e.Field, e.Message)
}

// Validate checks a profile and returns the list of problems found
// (empty list = valid profile).
//
// Checks performed:
//   - name must be present for operation identification
//   - kind, channel, and platform must parse to known values
//   - daemonTcpPort must be a valid TCP port number
//   - desktopUrl must be an http(s) URL when set
//   - desktop installs are rejected on Linux (no desktop catalog there)
func Validate(p *Profile) []ValidationError {
	var errors []ValidationError

	// Check 1: the name labels the operation in logs and results.
	if p.Name == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name field is required for operation identification",
		})
	}

	// Check 2: enum fields must resolve. The typed accessors treat empty
	// fields as defaults, so only genuinely bad values end up here.
	kind, err := p.InstallKind()
	if err != nil {
		errors = append(errors, ValidationError{
			Field:   "kind",
			Message: err.Error(),
		})
	}

	if _, err := p.ReleaseChannel(); err != nil {
		errors = append(errors, ValidationError{
			Field:   "channel",
			Message: err.Error(),
		})
	}

	platform, platformErr := p.TargetPlatform()
	if platformErr != nil {
		errors = append(errors, ValidationError{
			Field:   "platform",
			Message: platformErr.Error(),
		})
	}

	// Check 3: the daemon endpoint must be a real TCP port. Zero means the
	// endpoint is not exposed at all.
	if p.DaemonTCPPort < 0 || p.DaemonTCPPort > 65535 {
		errors = append(errors, ValidationError{
			Field:   "daemonTcpPort",
			Message: fmt.Sprintf("port %d is outside the valid range 1-65535", p.DaemonTCPPort),
		})
	}

	// Check 4: the desktop artifact must come from an http(s) URL.
	if p.DesktopURL != "" &&
		!strings.HasPrefix(p.DesktopURL, "http://") &&
		!strings.HasPrefix(p.DesktopURL, "https://") {
		errors = append(errors, ValidationError{
			Field:   "desktopUrl",
			Message: "desktop download URL must start with http:// or https://",
		})
	}

	// Check 5: there is no desktop catalog for Linux; the engine packages
	// are the supported path there.
	if err == nil && platformErr == nil &&
		kind == model.KindDesktop && platform == model.PlatformLinux {
		errors = append(errors, ValidationError{
			Field:   "kind",
			Message: `desktop installs are not supported on linux; use kind "engine"`,
		})
	}

	return errors
}
