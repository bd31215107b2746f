package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oshokin/morrigan-installer/internal/domain/build"
	"github.com/oshokin/morrigan-installer/internal/executor"
	"github.com/oshokin/morrigan-installer/internal/logger"
)

// DefaultTimeout bounds one compiler run.
const DefaultTimeout = 10 * time.Minute

const (
	// nsisHint is shown when makensis is not available.
	nsisHint = `NSIS not found. Install it from https://nsis.sourceforge.io/Download
or with your package manager (apt install nsis, choco install nsis) and make sure makensis is on PATH.`
	// innoHint is shown when ISCC is not available.
	innoHint = `Inno Setup not found. Install Inno Setup 6 from https://jrsoftware.org/isdl.php
or with Chocolatey (choco install innosetup).`
	// failureHint is shown when a compiler rejects the script.
	failureHint = "Fix the errors reported by the compiler above and run the command again."
)

// errScriptMissing is returned when the installer script does not exist.
var errScriptMissing = errors.New("installer script not found")

// Tool describes one installer compiler.
type Tool struct {
	// Name labels the tool in logs.
	Name string
	// Executable is resolved through SearchPath, then PATH.
	Executable string
	// SearchPath lists well-known install folders.
	SearchPath []string
	// Hint is reported when the executable cannot be found.
	Hint string
}

// NSIS returns the NSIS compiler.
func NSIS() *Tool {
	return &Tool{
		Name:       "NSIS",
		Executable: "makensis",
		Hint:       nsisHint,
	}
}

// Inno returns the Inno Setup command-line compiler.
func Inno() *Tool {
	return &Tool{
		Name:       "Inno Setup",
		Executable: "ISCC",
		SearchPath: []string{
			`C:\Program Files (x86)\Inno Setup 6`,
			`C:\Program Files\Inno Setup 6`,
		},
		Hint: innoHint,
	}
}

// Compiler runs installer compilers.
type Compiler struct {
	// runner executes the compiler.
	runner executor.Runner
	// timeout bounds each run.
	timeout time.Duration
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Compiler) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// New returns a Compiler using runner.
func New(runner executor.Runner, opts ...Option) *Compiler {
	c := &Compiler{
		runner:  runner,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile runs tool on script. A missing compiler is ErrToolchainNotFound,
// a rejected script is ErrBuildPhaseFailed carrying the compiler output.
func (c *Compiler) Compile(ctx context.Context, tool *Tool, script string) error {
	info, err := os.Stat(script)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%s: %w", script, errScriptMissing)
	}

	invocation := &executor.Invocation{
		Name:       tool.Executable,
		Args:       []string{script},
		SearchPath: tool.SearchPath,
		Timeout:    c.timeout,
	}

	logger.InfoKV(ctx, "Building installer", "tool", tool.Name, "command", invocation.String())

	result := c.runner.Run(ctx, invocation)

	switch result.Outcome {
	case executor.OutcomeSucceeded:
		logger.InfoKV(ctx, "Installer built successfully", "tool", tool.Name, "duration", result.Duration)
		return nil
	case executor.OutcomeNotFound:
		return build.NewError(build.ErrToolchainNotFound, tool.Hint, result.Err)
	case executor.OutcomeFailed, executor.OutcomeTimedOut, executor.OutcomeCanceled:
		output := strings.TrimSpace(result.Stderr)
		if output == "" {
			output = strings.TrimSpace(result.Stdout)
		}

		return build.NewError(build.ErrBuildPhaseFailed, failureHint,
			fmt.Errorf("%s: %w: %s", tool.Name, result.Err, output))
	default:
		return build.NewError(build.ErrBuildPhaseFailed, failureHint, result.Err)
	}
}
