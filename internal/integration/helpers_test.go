package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/morrigan-installer/internal/config"
	"github.com/oshokin/morrigan-installer/internal/domain/build"
	"github.com/oshokin/morrigan-installer/internal/executor"
	"github.com/oshokin/morrigan-installer/internal/service/packager"
	"github.com/oshokin/morrigan-installer/internal/testutil"
	"github.com/oshokin/morrigan-installer/internal/toolchain"
)

// workspace is a throwaway project: application build, toolchain folder, config and work folder.
type workspace struct {
	root      string
	buildDir  string
	toolsDir  string
	workDir   string
	outputDir string
	config    string
}

// newWorkspace creates the folders and a config pointing the output into the workspace.
func newWorkspace(t *testing.T) *workspace {
	t.Helper()

	root := t.TempDir()
	w := &workspace{
		root:      root,
		buildDir:  filepath.Join(root, "morrigan", "dist"),
		toolsDir:  filepath.Join(root, "tools"),
		workDir:   filepath.Join(root, "work"),
		outputDir: filepath.Join(root, "out"),
		config:    filepath.Join(root, "config", "installer_config.json"),
	}

	for _, dir := range []string{w.buildDir, w.toolsDir, w.workDir} {
		require.NoError(t, os.MkdirAll(dir, 0o750))
	}

	cfg := config.Default()
	cfg.OutputDirectory = w.outputDir

	require.NoError(t, config.Save(w.config, cfg))

	return w
}

// withArtifact places the application executable into the build folder.
func (w *workspace) withArtifact(t *testing.T) *workspace {
	t.Helper()

	testutil.WriteFile(t, filepath.Join(w.buildDir, "morrigan"), "ELF application")

	return w
}

// options returns packager options wired to the workspace toolchain folder.
func (w *workspace) options(lookPath func(string) (string, error)) *packager.Options {
	runner := executor.NewExecRunner()

	return &packager.Options{
		ConfigPath: w.config,
		BuildDir:   w.buildDir,
		WorkDir:    w.workDir,
		ReportPath: filepath.Join(w.root, "report.json"),
		Runner:     runner,
		Locator: toolchain.NewLocator(
			toolchain.WithCandidates(filepath.Join(w.root, "missing"), w.toolsDir),
			toolchain.WithRunner(runner),
			toolchain.WithLookPath(lookPath),
		),
	}
}

// requireCleanWorkDir asserts no transient WiX files were left behind.
func requireCleanWorkDir(t *testing.T, w *workspace) {
	t.Helper()

	entries, err := os.ReadDir(w.workDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

// noDotnet pretends the .NET SDK is not installed.
func noDotnet(string) (string, error) {
	return "", exec.ErrNotFound
}

// mask replaces the run identifiers so documents of different runs compare equal.
func mask(text string, ids build.IdentifierSet) string {
	for _, id := range ids.Values() {
		text = strings.ReplaceAll(text, id, "GUID")
	}

	return text
}
