// linux.go contains the Linux step variants: distro detection, engine
// package installation through a generated shell script, and the
// post-install verification probe.
//
// Package installation shells out to the distro's package manager under
// sudo rather than driving it through a library. The script is generated
// per distro family, streamed line by line to the reporter, and a
// matching uninstall script is generated for rollback.
package steps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/shinji-kodama/dockhand/internal/model"
	"github.com/shinji-kodama/dockhand/internal/sequence"
)

// osReleasePath is the standard distro identification file.
const osReleasePath = "/etc/os-release"

// enginePackages are the packages every package-manager install pulls in.
// Profile extraPackages are appended to this list.
var enginePackages = []string{"docker-ce", "docker-ce-cli", "containerd.io"}

// DistroDetectStep identifies the Linux distribution so later steps can
// pick the matching package manager commands. The result is exposed via
// Distro for the steps that hold a reference to this one.
type DistroDetectStep struct {
	sequence.StepBase

	// releasePath is the os-release file to inspect. Overridable in tests.
	releasePath string

	distro string
}

// NewDistroDetectStep creates a detection step reading /etc/os-release.
func NewDistroDetectStep() *DistroDetectStep {
	return &DistroDetectStep{
		StepBase:    sequence.StepBase{Desc: "Detecting Linux distribution"},
		releasePath: osReleasePath,
	}
}

// Distro returns the detected distribution ID. Empty until Execute has
// succeeded.
func (s *DistroDetectStep) Distro() string {
	return s.distro
}

// Execute determines the Linux distribution.
func (s *DistroDetectStep) Execute(rc *sequence.RunContext) error {
	rc.Logf("Detecting Linux distribution...")

	distro := detectDistro(s.releasePath)
	if distro == "" || distro == "unknown" {
		rc.Logf("ERROR: Could not determine Linux distribution")
		return errors.New("could not determine Linux distribution")
	}

	s.distro = distro
	rc.Logf("Detected Linux distribution: %s", distro)
	return nil
}

// Rollback is a no-op: detection changes nothing on the system.
func (s *DistroDetectStep) Rollback(rc *sequence.RunContext) error {
	return nil
}

// detectDistro reads the distribution ID from the os-release file, with
// marker-file fallbacks for systems that lack a usable one.
func detectDistro(releasePath string) string {
	if data, err := os.ReadFile(releasePath); err == nil {
		if id := parseOSRelease(string(data)); id != "" {
			return id
		}
	}

	fallbacks := []struct {
		marker string
		distro string
	}{
		{"/etc/debian_version", "debian"},
		{"/etc/fedora-release", "fedora"},
		{"/etc/centos-release", "centos"},
		{"/etc/redhat-release", "rhel"},
	}
	for _, fb := range fallbacks {
		if _, err := os.Stat(fb.marker); err == nil {
			return fb.distro
		}
	}

	return "unknown"
}

// parseOSRelease extracts the ID field from os-release contents. The
// value may be bare (ID=ubuntu) or quoted (ID="ol").
func parseOSRelease(contents string) string {
	for _, line := range strings.Split(contents, "\n") {
		if strings.HasPrefix(line, "ID=") {
			value := strings.TrimSpace(strings.TrimPrefix(line, "ID="))
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}

// PackageInstallStep installs the engine packages for the detected
// distribution via a generated shell script run under sudo. It keeps an
// installed flag so rollback never uninstalls packages this run did not
// put there.
type PackageInstallStep struct {
	sequence.StepBase

	detect    *DistroDetectStep
	channel   model.Channel
	autostart bool
	extras    []string
	installed bool
}

// NewPackageInstallStep creates the package install step. The detect step
// must run earlier in the same operation.
func NewPackageInstallStep(detect *DistroDetectStep, channel model.Channel, autostart bool, extras []string) *PackageInstallStep {
	return &PackageInstallStep{
		StepBase:  sequence.StepBase{Desc: "Installing Docker packages"},
		detect:    detect,
		channel:   channel,
		autostart: autostart,
		extras:    extras,
	}
}

// CheckPrerequisites confirms sudo is present before the install script
// is attempted. The result is advisory; the sequencer logs a warning and
// proceeds, and the script failure then carries the real diagnosis.
func (s *PackageInstallStep) CheckPrerequisites(rc *sequence.RunContext) error {
	if _, err := exec.LookPath("sudo"); err != nil {
		return errors.New("sudo not found in PATH; package installation requires root privileges")
	}
	return nil
}

// Execute renders the install script for the detected distro, streams its
// output, and records success for rollback gating.
func (s *PackageInstallStep) Execute(rc *sequence.RunContext) error {
	rc.Logf("Preparing Docker installation...")

	script := buildInstallScript(s.detect.Distro(), s.channel, s.autostart, s.extras)
	path, err := writeScript("dockhand-install", script)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	rc.Logf("Installing Docker (requires sudo)...")
	if err := streamCommand(rc, "sudo", path); err != nil {
		return err
	}

	s.installed = true
	return nil
}

// VerifyCompletion probes the freshly installed client binary. Advisory:
// failure is logged as a warning by the sequencer, never fatal.
func (s *PackageInstallStep) VerifyCompletion(rc *sequence.RunContext) error {
	out, err := runCommand(rc, "docker", "--version")
	if err != nil {
		return fmt.Errorf("docker client not responding after install: %w", err)
	}
	rc.Logf("Docker verified: %s", strings.TrimSpace(out))
	return nil
}

// Rollback removes the packages the install script put on the system by
// generating and running the matching uninstall script.
func (s *PackageInstallStep) Rollback(rc *sequence.RunContext) error {
	if !s.installed {
		rc.Logf("Skipping Docker uninstallation as installation didn't complete")
		return nil
	}

	rc.Logf("Rolling back Docker installation...")

	script := buildUninstallScript(s.detect.Distro(), s.extras)
	path, err := writeScript("dockhand-uninstall", script)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	return streamCommand(rc, "sudo", path)
}

// PackageRemoveStep is the forward direction of the Linux uninstall
// catalog: it runs the same uninstall script PackageInstallStep uses for
// rollback. Its own rollback is a logged no-op; an uninstall is not
// reversed by reinstalling.
type PackageRemoveStep struct {
	sequence.StepBase

	detect *DistroDetectStep
	extras []string
}

// NewPackageRemoveStep creates the package removal step for the uninstall
// catalog.
func NewPackageRemoveStep(detect *DistroDetectStep, extras []string) *PackageRemoveStep {
	return &PackageRemoveStep{
		StepBase: sequence.StepBase{Desc: "Removing Docker packages"},
		detect:   detect,
		extras:   extras,
	}
}

// Execute generates and streams the uninstall script for the detected
// distribution.
func (s *PackageRemoveStep) Execute(rc *sequence.RunContext) error {
	rc.Logf("Uninstalling Docker...")

	script := buildUninstallScript(s.detect.Distro(), s.extras)
	path, err := writeScript("dockhand-uninstall", script)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	if err := streamCommand(rc, "sudo", path); err != nil {
		return err
	}

	rc.Logf("Docker uninstalled successfully.")
	return nil
}

// Rollback is a logged no-op.
func (s *PackageRemoveStep) Rollback(rc *sequence.RunContext) error {
	rc.Logf("Rollback not applicable for uninstallation.")
	return nil
}

// VerifyDockerStep confirms the installed engine responds. Problems are
// reported as warnings on the log stream; the step itself never fails
// the operation. Its rollback stops the engine service, so a rollback
// triggered by a later step leaves no daemon running.
type VerifyDockerStep struct {
	sequence.StepBase
}

// NewVerifyDockerStep creates the verification step.
func NewVerifyDockerStep() *VerifyDockerStep {
	return &VerifyDockerStep{
		StepBase: sequence.StepBase{Desc: "Verifying Docker installation"},
	}
}

// Execute probes the docker client and reports the outcome.
func (s *VerifyDockerStep) Execute(rc *sequence.RunContext) error {
	rc.Logf("Verifying Docker installation...")

	out, err := runCommand(rc, "docker", "--version")
	if err != nil {
		rc.Logf("WARNING: Docker installation verification failed: %v", err)
		rc.Logf("You might need to restart your system to complete the installation.")
		return nil
	}

	rc.Logf("Docker verified: %s", strings.TrimSpace(out))
	rc.Logf("You may need to log out and log back in to use Docker without sudo")
	return nil
}

// Rollback stops the engine service.
func (s *VerifyDockerStep) Rollback(rc *sequence.RunContext) error {
	rc.Logf("Rolling back Docker verification...")
	runBestEffort(rc, "sudo", "systemctl", "stop", "docker")
	rc.Logf("Docker service stopped during rollback.")
	return nil
}

// packageList joins the engine packages and any profile extras into the
// argument list for the package manager.
func packageList(extras []string) string {
	return strings.Join(append(slices.Clone(enginePackages), extras...), " ")
}

// buildInstallScript renders the shell script that installs the engine
// for the given distro family. The script runs under sudo with set -e so
// the first failing command aborts it.
func buildInstallScript(distro string, channel model.Channel, autostart bool, extras []string) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString("set -e\n\n")
	b.WriteString("echo 'Starting Docker installation...'\n\n")

	switch distro {
	case "ubuntu", "debian":
		writeDebianInstall(&b, distro, channel, extras)
	case "fedora", "centos", "rhel":
		writeFedoraInstall(&b, channel, extras)
	default:
		writeGenericInstall(&b)
	}

	b.WriteString("\n# Add current user to docker group\n")
	b.WriteString("usermod -aG docker \"$SUDO_USER\" 2>/dev/null || usermod -aG docker \"$USER\"\n")

	if autostart {
		b.WriteString("\n# Start Docker service\n")
		b.WriteString("systemctl start docker 2>/dev/null || service docker start\n")
	}

	b.WriteString("\necho 'Docker installation completed successfully'\n")
	return b.String()
}

// writeDebianInstall appends the apt-based install body. The Docker apt
// repository carries stable and test suites, so the release channel maps
// directly onto the sources.list component.
func writeDebianInstall(b *strings.Builder, distro string, channel model.Channel, extras []string) {
	fmt.Fprintf(b, `# Remove old versions if any
apt-get remove -y docker docker-engine docker.io containerd runc 2>/dev/null || true

# Update apt repos
apt-get update

# Install dependencies
apt-get install -y ca-certificates curl gnupg lsb-release

# Add Docker's official GPG key
curl -fsSL https://download.docker.com/linux/%[1]s/gpg | gpg --dearmor -o /usr/share/keyrings/docker-archive-keyring.gpg

# Add repository
echo "deb [arch=$(dpkg --print-architecture) signed-by=/usr/share/keyrings/docker-archive-keyring.gpg] https://download.docker.com/linux/%[1]s $(lsb_release -cs) %[2]s" | tee /etc/apt/sources.list.d/docker.list > /dev/null

# Install Docker Engine
apt-get update
apt-get install -y %[3]s

# Configure Docker to start on boot
systemctl enable docker
`, distro, channel, packageList(extras))
}

// writeFedoraInstall appends the dnf-based install body. The docker-ce
// repo file ships a disabled test repo that the test channel enables.
func writeFedoraInstall(b *strings.Builder, channel model.Channel, extras []string) {
	b.WriteString(`# Remove old versions if any
dnf remove -y docker docker-client docker-common docker-engine podman 2>/dev/null || true

# Install required packages
dnf -y install dnf-plugins-core

# Add Docker repo
dnf config-manager --add-repo https://download.docker.com/linux/fedora/docker-ce.repo
`)
	if channel == model.ChannelTest {
		b.WriteString("dnf config-manager --set-enabled docker-ce-test\n")
	}
	fmt.Fprintf(b, `
# Install Docker
dnf install -y %s

# Configure Docker to start on boot
systemctl enable docker
`, packageList(extras))
}

// writeGenericInstall appends the convenience-script fallback used for
// distros without a dedicated package repository.
func writeGenericInstall(b *strings.Builder) {
	b.WriteString(`# Using convenience script for other distributions
curl -fsSL https://get.docker.com -o get-docker.sh
sh get-docker.sh
rm -f get-docker.sh

# Configure Docker to start on boot
systemctl enable docker 2>/dev/null || true
`)
}

// buildUninstallScript renders the shell script that removes the engine
// packages, used both by PackageInstallStep.Rollback and by the uninstall
// catalog.
func buildUninstallScript(distro string, extras []string) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString("set -e\n\n")
	b.WriteString("echo 'Uninstalling Docker...'\n\n")

	switch distro {
	case "ubuntu", "debian":
		fmt.Fprintf(&b, "apt-get remove -y %s\n", packageList(extras))
		fmt.Fprintf(&b, "apt-get purge -y %s\n", packageList(extras))
		b.WriteString("apt-get autoremove -y\n")
	case "fedora", "centos", "rhel":
		fmt.Fprintf(&b, "dnf remove -y %s\n", packageList(extras))
	default:
		b.WriteString("# Generic uninstall\n")
		b.WriteString("if command -v docker > /dev/null; then\n")
		b.WriteString("    systemctl stop docker 2>/dev/null || true\n")
		b.WriteString("    rm -f \"$(command -v docker)\" || true\n")
		b.WriteString("fi\n")
	}

	b.WriteString("\necho 'Docker uninstallation completed'\n")
	return b.String()
}
