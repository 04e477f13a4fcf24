// Package platform maps the host operating system to the default Rhino
// installation layout that rhinorun searches for the rhinocode helper.
package platform

import (
	"runtime"
)

// Platform identifies a host operating system family.
type Platform string

const (
	// MacOS is darwin.
	MacOS Platform = "macos"
	// Windows is native Windows.
	Windows Platform = "windows"
	// Unknown is any other operating system. Rhino ships no installer there,
	// so only user-configured paths can be resolved.
	Unknown Platform = "unknown"
)

// Defaults describes where Rhino installs itself on a platform and where the
// rhinocode helper lives relative to that installation directory.
type Defaults struct {
	// Dir is the default installation directory ("" when unknown).
	Dir string
	// BinaryPaths are helper locations relative to an installation
	// directory, primary location first, legacy locations after.
	BinaryPaths []string
}

// FromGOOS converts a runtime.GOOS value to a Platform.
func FromGOOS(goos string) Platform {
	switch goos {
	case "darwin":
		return MacOS
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// DetectHost returns the platform rhinorun is running on.
func DetectHost() Platform {
	return FromGOOS(runtime.GOOS)
}

// DefaultsFor returns the installation defaults for p. It has no side
// effects; Unknown (and any unrecognized value) yields empty Defaults.
func DefaultsFor(p Platform) Defaults {
	switch p {
	case MacOS:
		return Defaults{
			Dir: "/Applications/Rhino 8.app",
			BinaryPaths: []string{
				"Contents/Resources/bin/rhinocode",
				"Contents/Resources/rhinocode",
			},
		}
	case Windows:
		return Defaults{
			Dir: `C:\Program Files\Rhino 8`,
			BinaryPaths: []string{
				`System\rhinocode.exe`,
				`rhinocode.exe`,
			},
		}
	default:
		return Defaults{}
	}
}

// HostOSName returns a human-readable OS name string.
func HostOSName(p Platform) string {
	switch p {
	case MacOS:
		return "macOS"
	case Windows:
		return "Windows"
	default:
		return "Unknown (" + runtime.GOOS + ")"
	}
}
