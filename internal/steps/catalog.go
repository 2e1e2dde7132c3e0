// catalog.go assembles the ordered step lists for install and uninstall
// operations from a validated profile.
package steps

import (
	"fmt"

	"github.com/shinji-kodama/dockhand/internal/model"
	"github.com/shinji-kodama/dockhand/internal/profile"
	"github.com/shinji-kodama/dockhand/internal/sequence"
)

// BuildInstallSteps translates a profile into the ordered install steps
// for its target platform. The profile should have passed
// profile.Validate first; the catalog still refuses combinations it has
// no steps for.
func BuildInstallSteps(p *profile.Profile) ([]sequence.Step, error) {
	platform, err := p.TargetPlatform()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitUnsupportedPlatform, "cannot resolve target platform", err)
	}
	kind, err := p.InstallKind()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitProfileError, "cannot resolve install kind", err)
	}
	channel, err := p.ReleaseChannel()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitProfileError, "cannot resolve release channel", err)
	}

	var list []sequence.Step

	// The endpoint preflight always goes first: a taken port should fail
	// the install before anything touches the system.
	if p.DaemonTCPPort > 0 {
		list = append(list, NewDaemonPortStep(p.DaemonTCPPort))
	}

	switch platform {
	case model.PlatformLinux:
		if kind == model.KindDesktop {
			return nil, model.NewCLIError(model.ExitProfileError,
				`desktop installs are not supported on linux; use kind "engine"`)
		}
		detect := NewDistroDetectStep()
		list = append(list,
			detect,
			NewPackageInstallStep(detect, channel, p.Autostart, p.ExtraPackages),
			NewVerifyDockerStep(),
		)

	case model.PlatformDarwin:
		if kind == model.KindDesktop {
			download := NewDownloadStep(desktopURL(p, platform))
			list = append(list, download, NewDarwinDesktopStep(download))
		} else {
			list = append(list,
				NewHomebrewStep(),
				NewBrewPackageStep("docker", "Docker CLI"),
				NewBrewPackageStep("colima", "Colima"),
				NewColimaStartStep(p.Autostart),
			)
		}

	case model.PlatformWindows:
		if p.UseWSL2 {
			list = append(list, NewWSLFeatureStep())
		}
		if kind == model.KindDesktop {
			download := NewDownloadStep(desktopURL(p, platform))
			list = append(list, download, NewWindowsDesktopStep(download))
		} else {
			list = append(list, NewWindowsEngineStep())
		}

	default:
		return nil, model.NewCLIError(model.ExitUnsupportedPlatform,
			fmt.Sprintf("no install steps for platform %q", platform))
	}

	return list, nil
}

// BuildUninstallSteps translates a profile into the ordered uninstall
// steps for its target platform. Uninstall steps log "rollback not
// applicable" instead of undoing themselves.
func BuildUninstallSteps(p *profile.Profile) ([]sequence.Step, error) {
	platform, err := p.TargetPlatform()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitUnsupportedPlatform, "cannot resolve target platform", err)
	}
	kind, err := p.InstallKind()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitProfileError, "cannot resolve install kind", err)
	}

	switch platform {
	case model.PlatformLinux:
		detect := NewDistroDetectStep()
		return []sequence.Step{
			detect,
			NewPackageRemoveStep(detect, p.ExtraPackages),
		}, nil

	case model.PlatformDarwin:
		return []sequence.Step{NewDarwinRemoveStep(kind)}, nil

	case model.PlatformWindows:
		return []sequence.Step{NewWindowsRemoveStep()}, nil

	default:
		return nil, model.NewCLIError(model.ExitUnsupportedPlatform,
			fmt.Sprintf("no uninstall steps for platform %q", platform))
	}
}

// desktopURL picks the desktop artifact URL for the platform, preferring
// the profile override.
func desktopURL(p *profile.Profile, platform model.Platform) string {
	if p.DesktopURL != "" {
		return p.DesktopURL
	}
	if platform == model.PlatformWindows {
		return windowsDesktopURL
	}
	return darwinDesktopURL
}
