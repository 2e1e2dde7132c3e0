package steps

import (
	"testing"

	"github.com/shinji-kodama/dockhand/internal/model"
	"github.com/shinji-kodama/dockhand/internal/profile"
	"github.com/shinji-kodama/dockhand/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// descriptions flattens a step list to its labels for order assertions.
func descriptions(list []sequence.Step) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Description())
	}
	return out
}

// profileFor builds a default profile pinned to an explicit platform so
// catalog tests do not depend on the host OS.
func profileFor(platform, kind string) *profile.Profile {
	p := profile.Default()
	p.Platform = platform
	p.Kind = kind
	return p
}

func TestBuildInstallStepsLinuxEngine(t *testing.T) {
	// Act
	list, err := BuildInstallSteps(profileFor("linux", "engine"))

	// Assert
	require.NoError(t, err, "the linux engine catalog should build")
	assert.Equal(t, []string{
		"Detecting Linux distribution",
		"Installing Docker packages",
		"Verifying Docker installation",
	}, descriptions(list), "linux engine installs detect, install, verify in order")
}

func TestBuildInstallStepsLinuxDesktopRejected(t *testing.T) {
	// Act
	_, err := BuildInstallSteps(profileFor("linux", "desktop"))

	// Assert
	require.Error(t, err, "there is no desktop catalog for linux")
	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr, "the error should be a CLIError")
	assert.Equal(t, model.ExitProfileError, cliErr.Code, "the rejection maps to the profile exit code")
}

func TestBuildInstallStepsDarwinEngine(t *testing.T) {
	// Act
	list, err := BuildInstallSteps(profileFor("darwin", "engine"))

	// Assert
	require.NoError(t, err, "the darwin engine catalog should build")
	assert.Equal(t, []string{
		"Installing Homebrew",
		"Installing Docker CLI",
		"Installing Colima",
		"Starting Colima",
	}, descriptions(list), "darwin engine installs go through Homebrew and Colima")
}

func TestBuildInstallStepsDarwinDesktop(t *testing.T) {
	// Act
	list, err := BuildInstallSteps(profileFor("darwin", "desktop"))

	// Assert
	require.NoError(t, err, "the darwin desktop catalog should build")
	assert.Equal(t, []string{
		"Downloading Docker Desktop",
		"Installing Docker Desktop",
	}, descriptions(list), "desktop installs download then install the DMG")
}

func TestBuildInstallStepsWindowsEngine(t *testing.T) {
	// Act
	list, err := BuildInstallSteps(profileFor("windows", "engine"))

	// Assert
	require.NoError(t, err, "the windows engine catalog should build")
	assert.Equal(t, []string{
		"WSL2 setup",
		"Installing Docker Engine",
	}, descriptions(list), "windows engine installs enable WSL2 first")
}

func TestBuildInstallStepsWindowsWithoutWSL2(t *testing.T) {
	// Arrange
	p := profileFor("windows", "engine")
	p.UseWSL2 = false

	// Act
	list, err := BuildInstallSteps(p)

	// Assert
	require.NoError(t, err, "the catalog should build without WSL2")
	assert.Equal(t, []string{"Installing Docker Engine"}, descriptions(list),
		"disabling useWsl2 drops the feature step")
}

func TestBuildInstallStepsWindowsDesktop(t *testing.T) {
	// Act
	list, err := BuildInstallSteps(profileFor("windows", "desktop"))

	// Assert
	require.NoError(t, err, "the windows desktop catalog should build")
	assert.Equal(t, []string{
		"WSL2 setup",
		"Downloading Docker Desktop",
		"Installing Docker Desktop",
	}, descriptions(list), "windows desktop installs download then run the installer")
}

func TestBuildInstallStepsPreflightComesFirst(t *testing.T) {
	// Arrange
	p := profileFor("linux", "engine")
	p.DaemonTCPPort = 2375

	// Act
	list, err := BuildInstallSteps(p)

	// Assert
	require.NoError(t, err, "the catalog should build with a TCP endpoint")
	require.NotEmpty(t, list, "the catalog should not be empty")
	assert.Equal(t, "Checking daemon port 2375", list[0].Description(),
		"the endpoint preflight must run before any mutating step")
}

func TestBuildUninstallSteps(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		kind     string
		want     []string
	}{
		{
			name:     "linux removes packages after detection",
			platform: "linux",
			kind:     "engine",
			want:     []string{"Detecting Linux distribution", "Removing Docker packages"},
		},
		{
			name:     "darwin removes the brew tooling",
			platform: "darwin",
			kind:     "engine",
			want:     []string{"Removing Docker tooling"},
		},
		{
			name:     "windows deletes the service",
			platform: "windows",
			kind:     "engine",
			want:     []string{"Uninstalling Docker Engine"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := BuildUninstallSteps(profileFor(tt.platform, tt.kind))
			require.NoError(t, err, "the uninstall catalog should build")
			assert.Equal(t, tt.want, descriptions(list), "uninstall order for %s", tt.platform)
		})
	}
}

func TestDesktopURLSelection(t *testing.T) {
	t.Run("profile override wins", func(t *testing.T) {
		p := profileFor("darwin", "desktop")
		p.DesktopURL = "https://mirror.example.com/Docker.dmg"
		assert.Equal(t, "https://mirror.example.com/Docker.dmg", desktopURL(p, model.PlatformDarwin),
			"an explicit URL should be used as-is")
	})

	t.Run("platform defaults", func(t *testing.T) {
		p := profileFor("darwin", "desktop")
		assert.Equal(t, darwinDesktopURL, desktopURL(p, model.PlatformDarwin),
			"darwin defaults to the DMG")
		assert.Equal(t, windowsDesktopURL, desktopURL(p, model.PlatformWindows),
			"windows defaults to the installer executable")
	})
}
