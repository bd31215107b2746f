package executor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// windowsExecutableExtensions are tried for bare names on Windows.
//
//nolint:gochecknoglobals // Read-only lookup table.
var windowsExecutableExtensions = []string{".exe", ".cmd", ".bat"}

// Resolve finds the executable for name. Names containing a path separator are
// checked as-is; bare names are searched in searchPath first, then in PATH.
func Resolve(name string, searchPath []string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty name: %w", ErrNotFound)
	}

	if strings.ContainsAny(name, `/\`) {
		if IsExecutable(name) {
			return name, nil
		}

		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	for _, dir := range searchPath {
		for _, candidate := range ExecutableNames(name) {
			fullPath := filepath.Join(dir, candidate)
			if IsExecutable(fullPath) {
				return fullPath, nil
			}
		}
	}

	fullPath, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	return fullPath, nil
}

// ExecutableNames returns the file names a bare command name may have on this platform.
func ExecutableNames(name string) []string {
	if runtime.GOOS != "windows" || filepath.Ext(name) != "" {
		return []string{name}
	}

	names := make([]string, 0, len(windowsExecutableExtensions)+1)
	for _, extension := range windowsExecutableExtensions {
		names = append(names, name+extension)
	}

	return append(names, name)
}

// ExecutableExtension returns ".exe" on Windows and "" elsewhere.
func ExecutableExtension() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}

	return ""
}

// IsExecutable reports whether path is a regular file that can be executed.
// On Windows any regular file qualifies.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	if runtime.GOOS == "windows" {
		return true
	}

	return info.Mode().Perm()&0o111 != 0
}

// withSearchPath returns environ with dirs prepended to PATH.
func withSearchPath(environ, dirs []string) []string {
	if len(dirs) == 0 {
		return environ
	}

	prefix := strings.Join(dirs, string(os.PathListSeparator))
	result := make([]string, 0, len(environ)+1)
	found := false

	for _, variable := range environ {
		key, value, ok := strings.Cut(variable, "=")
		if !ok || found || !isPathKey(key) {
			result = append(result, variable)
			continue
		}

		found = true

		if value == "" {
			result = append(result, key+"="+prefix)
		} else {
			result = append(result, key+"="+prefix+string(os.PathListSeparator)+value)
		}
	}

	if !found {
		result = append(result, "PATH="+prefix)
	}

	return result
}

// isPathKey reports whether an environment key names the executable search path.
func isPathKey(key string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(key, "PATH")
	}

	return key == "PATH"
}
