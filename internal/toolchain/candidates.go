package toolchain

import (
	"os"
	"path/filepath"
	"runtime"
)

// windowsInstallDirs are the vendor install locations checked first on Windows.
//
//nolint:gochecknoglobals // Read-only lookup table.
var windowsInstallDirs = []string{
	`C:\Program Files (x86)\WiX Toolset v3.11\bin`,
	`C:\Program Files (x86)\WiX Toolset v3.14\bin`,
	`C:\Program Files\WiX Toolset v4.0\bin`,
	`C:\Tools\wix\bin`,
}

// sharedDotnetToolDirs are system-wide .NET global tool folders on Unix systems.
//
//nolint:gochecknoglobals // Read-only lookup table.
var sharedDotnetToolDirs = []string{
	"/usr/local/share/dotnet/tools",
	"/usr/share/dotnet/tools",
}

// wixEnvironmentVariable is set by the WiX v3 installer to its install root.
const wixEnvironmentVariable = "WIX"

// DefaultCandidates returns the candidate directories for the current platform
// in priority order.
func DefaultCandidates() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	return candidatesFor(runtime.GOOS, home, os.Getenv(wixEnvironmentVariable), registryInstallRoots())
}

// UserToolsDir returns the per-user .NET global tools folder under home.
func UserToolsDir(home string) string {
	return filepath.Join(home, ".dotnet", "tools")
}

// candidatesFor builds the ordered candidate list. Install roots taken from the
// WIX variable or the registry are tried both as-is and with a bin suffix.
func candidatesFor(goos, home, wixRoot string, registryRoots []string) []string {
	var candidates []string

	if goos == "windows" {
		candidates = append(candidates, windowsInstallDirs...)

		roots := registryRoots
		if wixRoot != "" {
			roots = append([]string{wixRoot}, roots...)
		}

		for _, root := range roots {
			candidates = append(candidates, filepath.Join(root, "bin"), filepath.Clean(root))
		}
	}

	if home != "" {
		candidates = append(candidates, UserToolsDir(home))
	}

	candidates = append(candidates, sharedDotnetToolDirs...)

	return dedupe(candidates)
}

// dedupe drops repeated entries while keeping the first occurrence order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, value := range values {
		if _, found := seen[value]; found {
			continue
		}

		seen[value] = struct{}{}
		result = append(result, value)
	}

	return result
}
