// Package profile handles loading and validation of dockhand install
// profiles.
//
// A profile describes WHAT to install (engine or desktop, release channel,
// optional daemon TCP endpoint) while the step catalogs decide HOW. Profiles
// are plain files in JSONC (JSON with Comments, stripped with
// github.com/tidwall/jsonc before parsing) or YAML (gopkg.in/yaml.v3),
// selected by file extension.
//
// Key responsibilities:
//   - Provide the built-in default profile
//   - Load and parse a profile file (JSONC or YAML)
//   - Locate a profile in the standard search paths
//   - Validate a profile, collecting every problem at once
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/shinji-kodama/dockhand/internal/model"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Profile is the parsed representation of a dockhand profile file. Fields
// left out of the file keep their built-in defaults, so a minimal profile
// can be a single line.
//
// The same camelCase key names are used for both the JSON and the YAML
// form of the file.
type Profile struct {
	// Name identifies the installation in logs and operation output.
	Name string `json:"name" yaml:"name"`

	// Kind selects the distribution to install: "engine" or "desktop".
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Channel selects the release channel: "stable" or "test".
	Channel string `json:"channel,omitempty" yaml:"channel,omitempty"`

	// Platform optionally overrides the detected host platform. Useful for
	// printing the plan of another OS; installs on the real host leave it
	// empty.
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`

	// Autostart controls whether the engine service is started (and enabled
	// at boot where the service manager supports it) after installation.
	Autostart bool `json:"autostart" yaml:"autostart"`

	// UseWSL2 controls whether the Windows catalog enables the WSL2 feature
	// before installing the engine. Ignored on other platforms.
	UseWSL2 bool `json:"useWsl2" yaml:"useWsl2"`

	// DaemonTCPPort, when non-zero, exposes the engine API on a local TCP
	// endpoint. The install plan then starts with a preflight step that
	// probes the port for availability.
	DaemonTCPPort int `json:"daemonTcpPort,omitempty" yaml:"daemonTcpPort,omitempty"`

	// DesktopURL overrides the download location of the Docker Desktop
	// artifact. Only consulted for desktop installs.
	DesktopURL string `json:"desktopUrl,omitempty" yaml:"desktopUrl,omitempty"`

	// ExtraPackages lists additional packages appended to the Linux package
	// install (and uninstall) scripts, such as distro-specific plugins.
	ExtraPackages []string `json:"extraPackages,omitempty" yaml:"extraPackages,omitempty"`
}

// Default returns the built-in profile: a stable-channel engine install
// with service autostart. Loaded files are parsed on top of these values,
// so absent keys inherit them.
func Default() *Profile {
	return &Profile{
		Name:      "docker",
		Kind:      model.KindEngine.String(),
		Channel:   model.ChannelStable.String(),
		Autostart: true,
		UseWSL2:   true,
	}
}

// Load reads a profile file and parses it on top of the default profile.
// The format is chosen by extension: .json and .jsonc are parsed as JSONC
// (comments and trailing commas stripped first), .yaml and .yml as YAML.
//
// Returns a CLIError with ExitProfileError if the file does not exist,
// cannot be parsed, or has an unsupported extension.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitProfileError,
				fmt.Sprintf("profile not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	p := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// Strip JSONC comments (// and /* */) and trailing commas before
		// handing the bytes to encoding/json. Profiles are hand-edited, so
		// comments are common.
		cleanJSON := jsonc.ToJSON(data)
		if err := json.Unmarshal(cleanJSON, p); err != nil {
			return nil, model.WrapCLIError(
				model.ExitProfileError,
				fmt.Sprintf("failed to parse profile %s", path),
				err,
			)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, model.WrapCLIError(
				model.ExitProfileError,
				fmt.Sprintf("failed to parse profile %s", path),
				err,
			)
		}
	default:
		return nil, model.NewCLIError(
			model.ExitProfileError,
			fmt.Sprintf("unsupported profile format %q (expected .json, .jsonc, .yaml, or .yml)", filepath.Ext(path)),
		)
	}

	return p, nil
}

// profileBasenames lists the file names probed by Find, in priority order.
var profileBasenames = []string{
	"dockhand.jsonc",
	"dockhand.json",
	"dockhand.yaml",
	"dockhand.yml",
}

// Find searches for a profile file in the standard locations.
//
// The search order is:
//  1. dockhand.{jsonc,json,yaml,yml} in startDir (usually the working
//     directory)
//  2. the same names under $XDG_CONFIG_HOME/dockhand/
//
// Returns the path of the first file found, or a CLIError with
// ExitProfileError naming the searched locations.
func Find(startDir string) (string, error) {
	configDir := filepath.Join(xdg.ConfigHome, "dockhand")

	var candidates []string
	for _, name := range profileBasenames {
		candidates = append(candidates, filepath.Join(startDir, name))
	}
	for _, name := range profileBasenames {
		candidates = append(candidates, filepath.Join(configDir, name))
	}

	for _, path := range candidates {
		// os.Stat checks existence without reading contents; Load does the
		// actual read once a candidate wins.
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", model.NewCLIError(
		model.ExitProfileError,
		fmt.Sprintf("no install profile found (searched dockhand.{jsonc,json,yaml,yml} in %s and %s)", startDir, configDir),
	)
}

// InstallKind resolves the profile's kind field to a typed value.
// An empty field means the default engine install.
func (p *Profile) InstallKind() (model.InstallKind, error) {
	if p.Kind == "" {
		return model.KindEngine, nil
	}
	return model.ParseInstallKind(p.Kind)
}

// ReleaseChannel resolves the profile's channel field to a typed value.
// An empty field means the stable channel.
func (p *Profile) ReleaseChannel() (model.Channel, error) {
	if p.Channel == "" {
		return model.ChannelStable, nil
	}
	return model.ParseChannel(p.Channel)
}

// TargetPlatform resolves the platform the profile targets. An empty field
// means the platform of the running process.
func (p *Profile) TargetPlatform() (model.Platform, error) {
	if p.Platform == "" {
		return model.CurrentPlatform()
	}
	return model.ParsePlatform(p.Platform)
}
