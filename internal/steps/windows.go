// windows.go contains the Windows step variants: WSL2 feature
// enablement, the engine and desktop installers, and service removal for
// the uninstall catalog.
package steps

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/dockhand/internal/sequence"
)

// elevationExitCode is the Windows ERROR_ELEVATION_REQUIRED code that
// dism reports when run without administrator privileges.
const elevationExitCode = 740

// WSLFeatureStep enables the Windows features WSL2 needs. It records
// whether WSL2 was present beforehand and only disables on rollback what
// it enabled itself.
type WSLFeatureStep struct {
	sequence.StepBase

	alreadyEnabled bool
}

// NewWSLFeatureStep creates the WSL2 enablement step.
func NewWSLFeatureStep() *WSLFeatureStep {
	return &WSLFeatureStep{
		StepBase: sequence.StepBase{Desc: "WSL2 setup"},
	}
}

// Execute enables the WSL and virtual machine platform features and sets
// WSL2 as the default version. A pre-existing WSL2 turns the step into a
// recorded no-op.
func (s *WSLFeatureStep) Execute(rc *sequence.RunContext) error {
	s.alreadyEnabled = strings.Contains(wslStatus(rc), "WSL 2")
	if s.alreadyEnabled {
		rc.Logf("WSL2 is already enabled")
		return nil
	}

	rc.Logf("Enabling WSL2...")
	commands := [][]string{
		{"dism.exe", "/online", "/enable-feature", "/featurename:Microsoft-Windows-Subsystem-Linux", "/all", "/norestart"},
		{"dism.exe", "/online", "/enable-feature", "/featurename:VirtualMachinePlatform", "/all", "/norestart"},
		{"wsl", "--set-default-version", "2"},
	}
	for _, cmd := range commands {
		if _, err := runCommand(rc, cmd[0], cmd[1:]...); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) && exitErr.ExitCode() == elevationExitCode {
				rc.Logf("Error: Administrator privileges are required to enable WSL2.")
			} else {
				rc.Logf("Error configuring WSL2: %v", err)
			}
			return err
		}
	}
	return nil
}

// Rollback disables the features, unless WSL2 predates this run.
func (s *WSLFeatureStep) Rollback(rc *sequence.RunContext) error {
	if s.alreadyEnabled {
		rc.Logf("Skipping rollback: WSL2 was already installed.")
		return nil
	}

	rc.Logf("Rolling back WSL2 configuration...")
	runBestEffort(rc, "dism.exe", "/online", "/disable-feature", "/featurename:Microsoft-Windows-Subsystem-Linux", "/norestart")
	runBestEffort(rc, "dism.exe", "/online", "/disable-feature", "/featurename:VirtualMachinePlatform", "/norestart")
	return nil
}

// wslStatus returns the combined output of `wsl --status`. The command
// reports through stdout or stderr depending on the Windows build, and a
// missing wsl.exe simply reads as an empty status.
func wslStatus(rc *sequence.RunContext) string {
	cmd := exec.CommandContext(rc.Context(), "wsl", "--status")
	out, _ := cmd.CombinedOutput()
	return string(out)
}

// WindowsEngineStep installs the engine service through the quiet
// installer. It records whether the service was registered, so rollback
// only deletes a service this run created.
type WindowsEngineStep struct {
	sequence.StepBase

	registered bool
}

// NewWindowsEngineStep creates the engine install step.
func NewWindowsEngineStep() *WindowsEngineStep {
	return &WindowsEngineStep{
		StepBase: sequence.StepBase{Desc: "Installing Docker Engine"},
	}
}

// Execute runs the quiet installer.
func (s *WindowsEngineStep) Execute(rc *sequence.RunContext) error {
	rc.Logf("Installing Docker Engine...")
	if err := streamCommand(rc, "docker-installer.exe", "/quiet"); err != nil {
		rc.Logf("Error during Docker Engine installation: %v", err)
		return err
	}
	s.registered = true
	return nil
}

// Rollback deletes the docker service registration.
func (s *WindowsEngineStep) Rollback(rc *sequence.RunContext) error {
	if !s.registered {
		return nil
	}
	rc.Logf("Rolling back Docker Engine installation...")
	runBestEffort(rc, "sc", "delete", "docker")
	return nil
}

// WindowsDesktopStep installs Docker Desktop through the installer a
// DownloadStep fetched earlier in the same operation.
type WindowsDesktopStep struct {
	sequence.StepBase

	download  *DownloadStep
	installed bool
}

// NewWindowsDesktopStep creates the desktop install step. The download
// step must run earlier in the same operation.
func NewWindowsDesktopStep(download *DownloadStep) *WindowsDesktopStep {
	return &WindowsDesktopStep{
		StepBase: sequence.StepBase{Desc: "Installing Docker Desktop"},
		download: download,
	}
}

// Execute runs the downloaded installer in quiet mode.
func (s *WindowsDesktopStep) Execute(rc *sequence.RunContext) error {
	rc.Logf("Installing Docker Desktop...")
	if err := streamCommand(rc, s.download.Path(), "install", "--quiet"); err != nil {
		return err
	}
	s.installed = true
	return nil
}

// Rollback runs the installer's quiet uninstall.
func (s *WindowsDesktopStep) Rollback(rc *sequence.RunContext) error {
	if !s.installed {
		return nil
	}
	rc.Logf("Rolling back Docker Desktop installation...")
	runBestEffort(rc, s.download.Path(), "uninstall", "--quiet")
	return nil
}

// WindowsRemoveStep is the forward direction of the Windows uninstall
// catalog: it stops and deletes the docker service and removes the
// installation directory. Rollback is a logged no-op.
type WindowsRemoveStep struct {
	sequence.StepBase

	installDir string
}

// NewWindowsRemoveStep creates the removal step. The installation
// directory defaults to %ProgramFiles%\Docker.
func NewWindowsRemoveStep() *WindowsRemoveStep {
	var dir string
	if pf := os.Getenv("ProgramFiles"); pf != "" {
		dir = filepath.Join(pf, "Docker")
	}
	return &WindowsRemoveStep{
		StepBase:   sequence.StepBase{Desc: "Uninstalling Docker Engine"},
		installDir: dir,
	}
}

// Execute stops the service, deletes its registration, and removes the
// installation directory. Individual failures are reported as warnings;
// the removal continues past them.
func (s *WindowsRemoveStep) Execute(rc *sequence.RunContext) error {
	rc.Logf("Uninstalling Docker Engine...")

	rc.Logf("Stopping Docker service...")
	runBestEffort(rc, "sc", "stop", "docker")
	runBestEffort(rc, "sc", "delete", "docker")

	if s.installDir != "" {
		rc.Logf("Removing Docker installation directory...")
		if err := os.RemoveAll(s.installDir); err != nil {
			rc.Logf("Warning: Failed to remove Docker directory: %v", err)
		}
	}

	rc.Logf("Docker Engine uninstalled successfully.")
	return nil
}

// Rollback is a logged no-op.
func (s *WindowsRemoveStep) Rollback(rc *sequence.RunContext) error {
	rc.Logf("Rollback not applicable for uninstallation.")
	return nil
}
