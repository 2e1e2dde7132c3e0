// darwin.go contains the macOS step variants. Engine installs go through
// Homebrew and Colima; desktop installs mount the downloaded DMG and copy
// the app bundle into /Applications.
package steps

import (
	"os/exec"

	"github.com/shinji-kodama/dockhand/internal/model"
	"github.com/shinji-kodama/dockhand/internal/sequence"
)

const (
	// homebrewInstallURL is the official Homebrew install script.
	homebrewInstallURL = "https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh"

	// homebrewUninstallURL is the matching uninstall script, used on
	// rollback when this run installed Homebrew itself.
	homebrewUninstallURL = "https://raw.githubusercontent.com/Homebrew/install/HEAD/uninstall.sh"

	// desktopVolumePath is where macOS mounts the Docker Desktop DMG.
	desktopVolumePath = "/Volumes/Docker"

	// desktopAppPath is the installed Docker Desktop app bundle.
	desktopAppPath = "/Applications/Docker.app"
)

// HomebrewStep makes sure Homebrew is present. It records whether this
// run installed it, so rollback removes Homebrew only when the step put
// it there.
type HomebrewStep struct {
	sequence.StepBase

	installedByUs bool
}

// NewHomebrewStep creates the Homebrew bootstrap step.
func NewHomebrewStep() *HomebrewStep {
	return &HomebrewStep{
		StepBase: sequence.StepBase{Desc: "Installing Homebrew"},
	}
}

// Execute installs Homebrew unless it is already on the PATH.
func (s *HomebrewStep) Execute(rc *sequence.RunContext) error {
	if _, err := exec.LookPath("brew"); err == nil {
		rc.Logf("Homebrew is already installed")
		return nil
	}

	rc.Logf("Installing Homebrew...")
	if err := streamCommand(rc, "/bin/bash", "-c",
		"curl -fsSL "+homebrewInstallURL+" | NONINTERACTIVE=1 /bin/bash"); err != nil {
		rc.Logf("Error installing Homebrew: %v", err)
		return err
	}

	s.installedByUs = true
	return nil
}

// Rollback removes Homebrew, but only when Execute installed it.
func (s *HomebrewStep) Rollback(rc *sequence.RunContext) error {
	if !s.installedByUs {
		rc.Logf("Skipping Homebrew rollback as it wasn't installed by us")
		return nil
	}

	rc.Logf("Rolling back Homebrew installation...")
	runBestEffort(rc, "/bin/bash", "-c",
		"curl -fsSL "+homebrewUninstallURL+" | NONINTERACTIVE=1 /bin/bash")
	return nil
}

// BrewPackageStep installs a single Homebrew formula. The engine catalog
// uses it twice, for the docker CLI and for colima.
type BrewPackageStep struct {
	sequence.StepBase

	formula string
	display string
}

// NewBrewPackageStep creates a step installing the given formula.
// display is the human-readable name used in messages ("Docker CLI").
func NewBrewPackageStep(formula, display string) *BrewPackageStep {
	return &BrewPackageStep{
		StepBase: sequence.StepBase{Desc: "Installing " + display},
		formula:  formula,
		display:  display,
	}
}

// Execute installs the formula.
func (s *BrewPackageStep) Execute(rc *sequence.RunContext) error {
	rc.Logf("Installing %s...", s.display)
	return streamCommand(rc, "brew", "install", s.formula)
}

// Rollback uninstalls the formula.
func (s *BrewPackageStep) Rollback(rc *sequence.RunContext) error {
	rc.Logf("Rolling back %s installation...", s.display)
	runBestEffort(rc, "brew", "uninstall", s.formula)
	return nil
}

// ColimaStartStep starts the Colima VM that hosts the engine on macOS
// and optionally registers it as a login service.
type ColimaStartStep struct {
	sequence.StepBase

	autostart bool
}

// NewColimaStartStep creates the Colima start step.
func NewColimaStartStep(autostart bool) *ColimaStartStep {
	return &ColimaStartStep{
		StepBase:  sequence.StepBase{Desc: "Starting Colima"},
		autostart: autostart,
	}
}

// Execute starts the VM and configures autostart when requested.
func (s *ColimaStartStep) Execute(rc *sequence.RunContext) error {
	rc.Logf("Starting Colima...")
	if err := streamCommand(rc, "colima", "start"); err != nil {
		return err
	}

	if s.autostart {
		rc.Logf("Configuring Colima auto-start...")
		if err := streamCommand(rc, "brew", "services", "start", "colima"); err != nil {
			return err
		}
	}
	return nil
}

// Rollback stops the VM and deregisters the login service.
func (s *ColimaStartStep) Rollback(rc *sequence.RunContext) error {
	rc.Logf("Rolling back Colima start...")
	if s.autostart {
		runBestEffort(rc, "brew", "services", "stop", "colima")
	}
	runBestEffort(rc, "colima", "stop")
	return nil
}

// DarwinDesktopStep installs Docker Desktop from the DMG a DownloadStep
// fetched earlier in the same operation.
type DarwinDesktopStep struct {
	sequence.StepBase

	download *DownloadStep
	copied   bool
}

// NewDarwinDesktopStep creates the desktop install step. The download
// step must run earlier in the same operation.
func NewDarwinDesktopStep(download *DownloadStep) *DarwinDesktopStep {
	return &DarwinDesktopStep{
		StepBase: sequence.StepBase{Desc: "Installing Docker Desktop"},
		download: download,
	}
}

// Execute mounts the DMG, copies the app bundle into /Applications, and
// unmounts again. The volume is detached even when the copy fails.
func (s *DarwinDesktopStep) Execute(rc *sequence.RunContext) error {
	rc.Logf("Mounting Docker Desktop DMG...")
	if _, err := runCommand(rc, "hdiutil", "attach", s.download.Path()); err != nil {
		return err
	}

	rc.Logf("Copying Docker Desktop to Applications folder...")
	_, copyErr := runCommand(rc, "cp", "-R", desktopVolumePath+"/Docker.app", "/Applications/")

	rc.Logf("Unmounting Docker Desktop DMG...")
	runBestEffort(rc, "hdiutil", "detach", desktopVolumePath)

	if copyErr != nil {
		return copyErr
	}
	s.copied = true
	return nil
}

// Rollback removes the copied app bundle.
func (s *DarwinDesktopStep) Rollback(rc *sequence.RunContext) error {
	if !s.copied {
		return nil
	}
	rc.Logf("Removing Docker Desktop from Applications folder...")
	runBestEffort(rc, "rm", "-rf", desktopAppPath)
	return nil
}

// DarwinRemoveStep is the forward direction of the macOS uninstall
// catalog. For engine installs it stops Colima and removes the brew
// formulas; for desktop installs it deletes the app bundle. Rollback is
// a logged no-op.
type DarwinRemoveStep struct {
	sequence.StepBase

	kind model.InstallKind
}

// NewDarwinRemoveStep creates the removal step for the given install
// kind.
func NewDarwinRemoveStep(kind model.InstallKind) *DarwinRemoveStep {
	return &DarwinRemoveStep{
		StepBase: sequence.StepBase{Desc: "Removing Docker tooling"},
		kind:     kind,
	}
}

// Execute removes the installed components.
func (s *DarwinRemoveStep) Execute(rc *sequence.RunContext) error {
	if s.kind == model.KindDesktop {
		rc.Logf("Removing Docker Desktop from Applications folder...")
		if _, err := runCommand(rc, "rm", "-rf", desktopAppPath); err != nil {
			return err
		}
		rc.Logf("Docker Desktop uninstalled successfully.")
		return nil
	}

	rc.Logf("Stopping Colima...")
	runBestEffort(rc, "brew", "services", "stop", "colima")
	runBestEffort(rc, "colima", "stop")

	rc.Logf("Removing Docker CLI and Colima...")
	if err := streamCommand(rc, "brew", "uninstall", "docker", "colima"); err != nil {
		return err
	}

	rc.Logf("Docker uninstalled successfully.")
	return nil
}

// Rollback is a logged no-op.
func (s *DarwinRemoveStep) Rollback(rc *sequence.RunContext) error {
	rc.Logf("Rollback not applicable for uninstallation.")
	return nil
}
