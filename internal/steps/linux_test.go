package steps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shinji-kodama/dockhand/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOSRelease(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		want     string
	}{
		{
			name:     "bare ID value",
			contents: "NAME=\"Ubuntu\"\nID=ubuntu\nVERSION_ID=\"24.04\"\n",
			want:     "ubuntu",
		},
		{
			name:     "double quoted ID value",
			contents: "ID=\"ol\"\nNAME=\"Oracle Linux\"\n",
			want:     "ol",
		},
		{
			name:     "single quoted ID value",
			contents: "ID='fedora'\n",
			want:     "fedora",
		},
		{
			name:     "ID_LIKE does not match",
			contents: "ID_LIKE=debian\n",
			want:     "",
		},
		{
			name:     "missing ID field",
			contents: "NAME=Something\nVERSION=1\n",
			want:     "",
		},
		{
			name:     "empty file",
			contents: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOSRelease(tt.contents),
				"parseOSRelease(%q)", tt.contents)
		})
	}
}

func TestDistroDetectStepExecute(t *testing.T) {
	// Arrange: a synthetic os-release file instead of the host's.
	releasePath := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(releasePath, []byte("ID=debian\n"), 0o644),
		"writing the os-release fixture should succeed")

	step := NewDistroDetectStep()
	step.releasePath = releasePath
	rc, rec := newRunContext(t)

	// Act
	err := step.Execute(rc)

	// Assert
	require.NoError(t, err, "detection should succeed with a valid os-release")
	assert.Equal(t, "debian", step.Distro(), "the parsed ID should be exposed")
	assert.Contains(t, rec.joined(), "Detected Linux distribution: debian",
		"the detection result should be reported")
}

func TestBuildInstallScriptDebian(t *testing.T) {
	// Act
	script := buildInstallScript("ubuntu", model.ChannelStable, true, nil)

	// Assert
	assert.Contains(t, script, "#!/bin/bash", "the script needs a shebang for sudo execution")
	assert.Contains(t, script, "set -e", "the script must abort on the first failure")
	assert.Contains(t, script, "apt-get install -y docker-ce docker-ce-cli containerd.io",
		"the engine packages should be installed via apt")
	assert.Contains(t, script, "download.docker.com/linux/ubuntu", "the repo URL should match the distro")
	assert.Contains(t, script, "$(lsb_release -cs) stable", "the stable channel should land in the sources entry")
	assert.Contains(t, script, "systemctl enable docker", "boot enablement is part of every install")
	assert.Contains(t, script, "systemctl start docker", "autostart should start the service")
}

func TestBuildInstallScriptTestChannel(t *testing.T) {
	// Act
	debian := buildInstallScript("debian", model.ChannelTest, false, nil)
	fedora := buildInstallScript("fedora", model.ChannelTest, false, nil)

	// Assert
	assert.Contains(t, debian, "$(lsb_release -cs) test", "the test channel should land in the sources entry")
	assert.NotContains(t, debian, "systemctl start docker", "without autostart the service stays stopped")
	assert.Contains(t, fedora, "dnf config-manager --set-enabled docker-ce-test",
		"the test channel should enable the dnf test repo")
}

func TestBuildInstallScriptFedora(t *testing.T) {
	// Act
	script := buildInstallScript("fedora", model.ChannelStable, true, []string{"docker-compose-plugin"})

	// Assert
	assert.Contains(t, script, "dnf install -y docker-ce docker-ce-cli containerd.io docker-compose-plugin",
		"profile extras should be appended to the package list")
	assert.NotContains(t, script, "docker-ce-test", "the stable channel leaves the test repo disabled")
}

func TestBuildInstallScriptGenericFallback(t *testing.T) {
	// Act
	script := buildInstallScript("arch", model.ChannelStable, true, nil)

	// Assert
	assert.Contains(t, script, "https://get.docker.com", "unknown distros use the convenience script")
	assert.Contains(t, script, "usermod -aG docker", "the invoking user should join the docker group")
}

func TestBuildUninstallScript(t *testing.T) {
	tests := []struct {
		name     string
		distro   string
		extras   []string
		contains []string
	}{
		{
			name:   "debian purges packages",
			distro: "debian",
			contains: []string{
				"apt-get remove -y docker-ce docker-ce-cli containerd.io",
				"apt-get purge -y docker-ce docker-ce-cli containerd.io",
				"apt-get autoremove -y",
			},
		},
		{
			name:   "fedora removes via dnf with extras",
			distro: "fedora",
			extras: []string{"docker-buildx-plugin"},
			contains: []string{
				"dnf remove -y docker-ce docker-ce-cli containerd.io docker-buildx-plugin",
			},
		},
		{
			name:   "generic fallback guards on docker presence",
			distro: "gentoo",
			contains: []string{
				"if command -v docker > /dev/null; then",
				"systemctl stop docker",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := buildUninstallScript(tt.distro, tt.extras)
			for _, want := range tt.contains {
				assert.Contains(t, script, want, "uninstall script for %s", tt.distro)
			}
		})
	}
}

func TestPackageInstallRollbackSkipsWhenNotInstalled(t *testing.T) {
	// Arrange: Execute never ran, so the installed flag is down.
	detect := NewDistroDetectStep()
	step := NewPackageInstallStep(detect, model.ChannelStable, true, nil)
	rc, rec := newRunContext(t)

	// Act
	err := step.Rollback(rc)

	// Assert
	require.NoError(t, err, "the skip path should not error")
	assert.Contains(t, rec.joined(), "Skipping Docker uninstallation as installation didn't complete",
		"the skip should be reported")
}

func TestPackageRemoveStepRollbackIsLoggedNoop(t *testing.T) {
	// Arrange
	step := NewPackageRemoveStep(NewDistroDetectStep(), nil)
	rc, rec := newRunContext(t)

	// Act
	err := step.Rollback(rc)

	// Assert
	require.NoError(t, err, "uninstall rollback never errors")
	assert.Contains(t, rec.joined(), "Rollback not applicable for uninstallation.",
		"the no-op should be reported")
}

func TestStepDescriptions(t *testing.T) {
	// Catalog output and progress labels are built from these.
	detect := NewDistroDetectStep()
	assert.Equal(t, "Detecting Linux distribution", detect.Description(), "detect step label")
	assert.Equal(t, "Installing Docker packages",
		NewPackageInstallStep(detect, model.ChannelStable, true, nil).Description(), "install step label")
	assert.Equal(t, "Removing Docker packages",
		NewPackageRemoveStep(detect, nil).Description(), "remove step label")
	assert.Equal(t, "Verifying Docker installation",
		NewVerifyDockerStep().Description(), "verify step label")
}
