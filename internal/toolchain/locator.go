package toolchain

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/oshokin/morrigan-installer/internal/domain/build"
	"github.com/oshokin/morrigan-installer/internal/executor"
	"github.com/oshokin/morrigan-installer/internal/logger"
)

const (
	// DefaultListTimeout bounds `dotnet tool list -g`.
	DefaultListTimeout = 30 * time.Second
	// DefaultInstallTimeout bounds `dotnet tool install --global wix`.
	DefaultInstallTimeout = 60 * time.Second

	// dotnetExecutable is the .NET SDK driver used for on-demand installs.
	dotnetExecutable = "dotnet"
	// wixToolPackage is the NuGet package id of the modern WiX CLI.
	wixToolPackage = "wix"
)

// InstallHint is shown when no toolchain could be found or installed.
const InstallHint = `WiX Toolset not found. Installation options:
  1. WiX v4 (.NET): dotnet tool install --global wix
  2. WiX v3 (Windows): download from https://wixtoolset.org/releases/
  3. Chocolatey (Windows): choco install wixtoolset`

var (
	// errDotnetUnavailable is returned when no .NET SDK is available for installs.
	errDotnetUnavailable = errors.New("dotnet is not available on the search path")
	// errNotDetectedAfterInstall is returned when the tool is installed but still not found.
	errNotDetectedAfterInstall = errors.New("wix reported installed but no candidate directory contains it")
)

// Location is the toolchain directory selected for a run.
type Location struct {
	// Dir is the directory holding the binaries; it is passed to commands as a search path.
	Dir string
	// Protocol tells which command interface the binaries speak.
	Protocol build.Protocol
	// Compiler is the legacy candle binary.
	Compiler string
	// Linker is the legacy light binary.
	Linker string
	// Builder is the modern wix binary.
	Builder string
}

// Locator searches candidate directories for the WiX toolchain.
type Locator struct {
	// candidates are checked in order; the first usable one wins.
	candidates []string
	// runner executes dotnet for on-demand installs.
	runner executor.Runner
	// lookPath resolves executables on PATH.
	lookPath func(file string) (string, error)
	// listTimeout bounds the installed tool listing.
	listTimeout time.Duration
	// installTimeout bounds the install attempt.
	installTimeout time.Duration
}

// Option configures a Locator.
type Option func(*Locator)

// WithCandidates replaces the platform default candidate directories.
func WithCandidates(dirs ...string) Option {
	return func(l *Locator) {
		l.candidates = append([]string(nil), dirs...)
	}
}

// WithRunner sets the runner used for dotnet commands.
func WithRunner(runner executor.Runner) Option {
	return func(l *Locator) {
		if runner != nil {
			l.runner = runner
		}
	}
}

// WithLookPath replaces the PATH lookup used to find dotnet.
func WithLookPath(lookPath func(file string) (string, error)) Option {
	return func(l *Locator) {
		if lookPath != nil {
			l.lookPath = lookPath
		}
	}
}

// WithInstallTimeouts overrides the listing and install timeouts.
func WithInstallTimeouts(list, install time.Duration) Option {
	return func(l *Locator) {
		if list > 0 {
			l.listTimeout = list
		}

		if install > 0 {
			l.installTimeout = install
		}
	}
}

// NewLocator returns a Locator with platform defaults adjusted by opts.
func NewLocator(opts ...Option) *Locator {
	l := &Locator{
		candidates:     DefaultCandidates(),
		runner:         executor.NewExecRunner(),
		lookPath:       exec.LookPath,
		listTimeout:    DefaultListTimeout,
		installTimeout: DefaultInstallTimeout,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Candidates returns the directories checked by Detect, in priority order.
func (l *Locator) Candidates() []string {
	return append([]string(nil), l.candidates...)
}

// Detect returns the first candidate directory holding a usable binary set.
func (l *Locator) Detect() (*Location, bool) {
	for _, dir := range l.candidates {
		if location, ok := Probe(dir); ok {
			return location, true
		}
	}

	return nil, false
}

// Locate runs Detect and falls back to EnsureInstalled.
func (l *Locator) Locate(ctx context.Context) (*Location, error) {
	if location, ok := l.Detect(); ok {
		logger.InfoKV(ctx, "WiX Toolset found", "dir", location.Dir, "protocol", location.Protocol)
		return location, nil
	}

	logger.Info(ctx, "WiX Toolset not found in candidate directories")

	return l.EnsureInstalled(ctx)
}

// EnsureInstalled makes a single attempt to provide the modern toolchain through
// the .NET SDK, then re-runs Detect. Failures are reported as ErrToolchainNotFound.
func (l *Locator) EnsureInstalled(ctx context.Context) (*Location, error) {
	dotnet, err := l.lookPath(dotnetExecutable)
	if err != nil {
		return nil, build.NewError(build.ErrToolchainNotFound, InstallHint, errDotnetUnavailable)
	}

	logger.Info(ctx, ".NET detected, checking global tools for WiX")

	listing := l.runner.Run(ctx, &executor.Invocation{
		Name:    dotnet,
		Args:    []string{"tool", "list", "--global"},
		Timeout: l.listTimeout,
	})
	if listing.Outcome != executor.OutcomeSucceeded {
		return nil, build.NewError(build.ErrToolchainNotFound, InstallHint,
			fmt.Errorf("list .NET global tools: %w", listing.Err))
	}

	if hasTool(listing.Stdout, wixToolPackage) {
		logger.Info(ctx, "WiX found as .NET global tool")
	} else {
		logger.Info(ctx, "Installing WiX as .NET global tool")

		install := l.runner.Run(ctx, &executor.Invocation{
			Name:    dotnet,
			Args:    []string{"tool", "install", "--global", wixToolPackage},
			Timeout: l.installTimeout,
		})
		if install.Outcome != executor.OutcomeSucceeded {
			return nil, build.NewError(build.ErrToolchainNotFound, InstallHint,
				fmt.Errorf("install wix: %w: %s", install.Err, strings.TrimSpace(install.Stderr)))
		}

		logger.Info(ctx, "WiX installed successfully")
	}

	location, ok := l.Detect()
	if !ok {
		return nil, build.NewError(build.ErrToolchainNotFound, InstallHint, errNotDetectedAfterInstall)
	}

	logger.InfoKV(ctx, "WiX Toolset found", "dir", location.Dir, "protocol", location.Protocol)

	return location, nil
}

// Probe checks a single directory. The legacy pair wins over the modern binary
// when both live in the same directory.
func Probe(dir string) (*Location, bool) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, false
	}

	compiler, hasCompiler := findBinary(dir, "candle")
	linker, hasLinker := findBinary(dir, "light")

	if hasCompiler && hasLinker {
		return &Location{
			Dir:      dir,
			Protocol: build.ProtocolLegacy,
			Compiler: compiler,
			Linker:   linker,
		}, true
	}

	if builder, ok := findBinary(dir, "wix"); ok {
		return &Location{
			Dir:      dir,
			Protocol: build.ProtocolModern,
			Builder:  builder,
		}, true
	}

	return nil, false
}

// findBinary looks for name.exe and, outside Windows, the bare name.
// WiX v3 ships Windows executables only, so any regular .exe file is accepted
// everywhere; the bare name must carry an execute bit.
func findBinary(dir, name string) (string, bool) {
	path := filepath.Join(dir, name+".exe")

	info, err := os.Stat(path)
	if err == nil && info.Mode().IsRegular() {
		return path, true
	}

	if runtime.GOOS == "windows" {
		return "", false
	}

	path = filepath.Join(dir, name)
	if executor.IsExecutable(path) {
		return path, true
	}

	return "", false
}

// hasTool reports whether `dotnet tool list` output has a row for the package id.
func hasTool(listing, packageID string) bool {
	scanner := bufio.NewScanner(strings.NewReader(listing))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 && strings.EqualFold(fields[0], packageID) {
			return true
		}
	}

	return false
}
