package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/shinji-kodama/dockhand/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProfile creates a profile file with the given name and contents
// inside dir and returns its path.
func writeProfile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644), "writing test profile should succeed")
	return path
}

func TestDefaultProfile(t *testing.T) {
	// Act
	p := Default()

	// Assert
	assert.Equal(t, "docker", p.Name, "default name should be docker")
	assert.Equal(t, "engine", p.Kind, "default kind should be engine")
	assert.Equal(t, "stable", p.Channel, "default channel should be stable")
	assert.True(t, p.Autostart, "autostart should default to on")
	assert.True(t, p.UseWSL2, "WSL2 should default to on")
	assert.Zero(t, p.DaemonTCPPort, "no TCP endpoint by default")
	assert.Empty(t, Validate(p), "the default profile must validate cleanly")
}

func TestLoadJSONCProfile(t *testing.T) {
	// Arrange: a JSONC profile with comments and a trailing comma, the way
	// hand-edited profiles actually look.
	path := writeProfile(t, t.TempDir(), "dockhand.jsonc", `// workstation install profile
{
	"name": "workstation",
	"kind": "desktop", // the GUI bundle
	"channel": "test",
	"daemonTcpPort": 2375,
}`)

	// Act
	p, err := Load(path)

	// Assert
	require.NoError(t, err, "loading a valid JSONC profile should succeed")
	assert.Equal(t, "workstation", p.Name, "name should come from the file")
	assert.Equal(t, "desktop", p.Kind, "kind should come from the file")
	assert.Equal(t, "test", p.Channel, "channel should come from the file")
	assert.Equal(t, 2375, p.DaemonTCPPort, "TCP port should come from the file")
	assert.True(t, p.Autostart, "keys absent from the file keep their defaults")
}

func TestLoadYAMLProfile(t *testing.T) {
	// Arrange
	path := writeProfile(t, t.TempDir(), "dockhand.yaml", `name: ci-runner
autostart: false
extraPackages:
  - docker-compose-plugin
  - docker-buildx-plugin
`)

	// Act
	p, err := Load(path)

	// Assert
	require.NoError(t, err, "loading a valid YAML profile should succeed")
	assert.Equal(t, "ci-runner", p.Name, "name should come from the file")
	assert.False(t, p.Autostart, "explicit false should override the default")
	assert.Equal(t, "engine", p.Kind, "kind keeps its default when absent")
	assert.Equal(t, []string{"docker-compose-plugin", "docker-buildx-plugin"}, p.ExtraPackages,
		"extra packages should come from the file")
}

func TestLoadMissingProfile(t *testing.T) {
	// Act
	_, err := Load(filepath.Join(t.TempDir(), "absent.jsonc"))

	// Assert
	require.Error(t, err, "loading a missing profile should fail")
	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr, "the error should be a CLIError")
	assert.Equal(t, model.ExitProfileError, cliErr.Code, "missing profiles map to the profile exit code")
	assert.Contains(t, cliErr.Message, "profile not found", "the message should name the problem")
}

func TestLoadMalformedProfile(t *testing.T) {
	// Arrange
	path := writeProfile(t, t.TempDir(), "dockhand.json", `{"name": `)

	// Act
	_, err := Load(path)

	// Assert
	require.Error(t, err, "a malformed profile should fail to load")
	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr, "the error should be a CLIError")
	assert.Equal(t, model.ExitProfileError, cliErr.Code, "parse failures map to the profile exit code")
}

func TestLoadUnsupportedExtension(t *testing.T) {
	// Arrange
	path := writeProfile(t, t.TempDir(), "dockhand.toml", `name = "nope"`)

	// Act
	_, err := Load(path)

	// Assert
	require.Error(t, err, "unknown profile formats should be rejected")
	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr, "the error should be a CLIError")
	assert.Equal(t, model.ExitProfileError, cliErr.Code, "unsupported formats map to the profile exit code")
	assert.Contains(t, cliErr.Message, ".toml", "the message should name the offending extension")
}

func TestFindPrefersWorkingDirectory(t *testing.T) {
	// Arrange: two candidates in the same directory; the JSONC name has
	// higher priority than the YAML name.
	dir := t.TempDir()
	jsoncPath := writeProfile(t, dir, "dockhand.jsonc", `{"name": "first"}`)
	writeProfile(t, dir, "dockhand.yaml", `name: second`)

	// Act
	found, err := Find(dir)

	// Assert
	require.NoError(t, err, "Find should locate a profile in the start directory")
	assert.Equal(t, jsoncPath, found, "the JSONC candidate should win over YAML")
}

func TestFindInConfigHome(t *testing.T) {
	// Arrange: nothing in the start directory, a profile under the XDG
	// config home.
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	configDir := filepath.Join(configHome, "dockhand")
	require.NoError(t, os.MkdirAll(configDir, 0o755), "creating the config dir should succeed")
	expected := writeProfile(t, configDir, "dockhand.yaml", `name: from-config-home`)

	// Act
	found, err := Find(t.TempDir())

	// Assert
	require.NoError(t, err, "Find should fall back to the config home")
	assert.Equal(t, expected, found, "the config home candidate should be returned")
}

func TestFindReportsSearchedLocations(t *testing.T) {
	// Arrange: no profile anywhere.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	startDir := t.TempDir()

	// Act
	_, err := Find(startDir)

	// Assert
	require.Error(t, err, "Find should fail when no profile exists")
	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr, "the error should be a CLIError")
	assert.Equal(t, model.ExitProfileError, cliErr.Code, "a missing profile maps to the profile exit code")
	assert.Contains(t, cliErr.Message, startDir, "the message should name the searched directory")
}

func TestValidateCollectsAllProblems(t *testing.T) {
	// Arrange: one profile with four independent problems.
	p := &Profile{
		Name:          "",
		Kind:          "toolbox",
		Channel:       "nightly",
		DaemonTCPPort: 70000,
	}

	// Act
	problems := Validate(p)

	// Assert: every problem is reported in a single pass.
	require.Len(t, problems, 4, "all four problems should be collected")
	fields := make([]string, 0, len(problems))
	for _, ve := range problems {
		fields = append(fields, ve.Field)
	}
	assert.ElementsMatch(t, []string{"name", "kind", "channel", "daemonTcpPort"}, fields,
		"each invalid field should be flagged exactly once")
}

func TestValidateDesktopOnLinux(t *testing.T) {
	// Arrange
	p := Default()
	p.Kind = "desktop"
	p.Platform = "linux"

	// Act
	problems := Validate(p)

	// Assert
	require.Len(t, problems, 1, "exactly one problem should be reported")
	assert.Equal(t, "kind", problems[0].Field, "the kind field should be flagged")
	assert.Contains(t, problems[0].Message, "not supported on linux", "the message should explain the restriction")
}

func TestValidateRejectsBadDesktopURL(t *testing.T) {
	// Arrange
	p := Default()
	p.DesktopURL = "ftp://mirror.example.com/docker.dmg"

	// Act
	problems := Validate(p)

	// Assert
	require.Len(t, problems, 1, "exactly one problem should be reported")
	assert.Equal(t, "desktopUrl", problems[0].Field, "the desktopUrl field should be flagged")
}

func TestValidationErrorMessage(t *testing.T) {
	// Arrange
	ve := &ValidationError{Field: "channel", Message: "unknown channel"}

	// Assert
	assert.Equal(t, "profile validation error: channel: unknown channel", ve.Error(),
		"Error should combine field and message")
}

func TestTypedAccessors(t *testing.T) {
	t.Run("empty fields resolve to defaults", func(t *testing.T) {
		p := &Profile{}

		kind, err := p.InstallKind()
		require.NoError(t, err, "empty kind should resolve")
		assert.Equal(t, model.KindEngine, kind, "empty kind means engine")

		channel, err := p.ReleaseChannel()
		require.NoError(t, err, "empty channel should resolve")
		assert.Equal(t, model.ChannelStable, channel, "empty channel means stable")

		platform, err := p.TargetPlatform()
		require.NoError(t, err, "empty platform should resolve to the host")
		assert.True(t, platform.IsValid(), "the resolved platform should be a supported one")
	})

	t.Run("set fields are parsed", func(t *testing.T) {
		p := &Profile{Kind: "desktop", Channel: "test", Platform: "macos"}

		kind, err := p.InstallKind()
		require.NoError(t, err, "a known kind should parse")
		assert.Equal(t, model.KindDesktop, kind, "kind should reflect the field")

		channel, err := p.ReleaseChannel()
		require.NoError(t, err, "a known channel should parse")
		assert.Equal(t, model.ChannelTest, channel, "channel should reflect the field")

		platform, err := p.TargetPlatform()
		require.NoError(t, err, "a platform alias should parse")
		assert.Equal(t, model.PlatformDarwin, platform, "macos is an alias for darwin")
	})
}
