package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/morrigan-installer/internal/domain/build"
)

// distFolder is the nested folder standalone builds write into.
const distFolder = "dist"

// MissingHint tells the operator how to produce the application build.
const MissingHint = `Build the application first:
  cd ../morrigan && python build_standalone.py`

var (
	// errBuildDirMissing is returned when the build directory does not exist.
	errBuildDirMissing = errors.New("build directory not found")
	// errExecutableMissing is returned when no candidate path holds the executable.
	errExecutableMissing = errors.New("no executable found in build directory")
)

// Candidates returns the paths checked for the executable, in order:
// direct with .exe, direct bare, dist with .exe, dist bare.
func Candidates(buildDir, name string) []string {
	return []string{
		filepath.Join(buildDir, name+".exe"),
		filepath.Join(buildDir, name),
		filepath.Join(buildDir, distFolder, name+".exe"),
		filepath.Join(buildDir, distFolder, name),
	}
}

// Validate returns the first existing executable among Candidates.
// It reports ErrSourceArtifactMissing when the build directory or the executable is absent.
func Validate(buildDir, name string) (string, error) {
	info, err := os.Stat(buildDir)
	if err != nil || !info.IsDir() {
		return "", build.NewError(build.ErrSourceArtifactMissing, MissingHint,
			fmt.Errorf("%s: %w", buildDir, errBuildDirMissing))
	}

	for _, candidate := range Candidates(buildDir, name) {
		info, err = os.Stat(candidate)
		if err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	return "", build.NewError(build.ErrSourceArtifactMissing, MissingHint,
		fmt.Errorf("%s in %s: %w", name, buildDir, errExecutableMissing))
}
