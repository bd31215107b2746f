package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oshokin/morrigan-installer/internal/domain/build"
	"github.com/oshokin/morrigan-installer/internal/executor"
	"github.com/oshokin/morrigan-installer/internal/logger"
	"github.com/oshokin/morrigan-installer/internal/toolchain"
)

const (
	// DefaultAttemptTimeout bounds each modern invocation form.
	DefaultAttemptTimeout = 2 * time.Minute
	// DefaultPhaseTimeout bounds each legacy compile or link phase.
	DefaultPhaseTimeout = 10 * time.Minute

	// buildHint is attached to toolchain failures.
	buildHint = "Inspect the WiX output above; run with --log-level debug to see every command."
)

var (
	// errUnknownProtocol is returned when the location does not name a protocol.
	errUnknownProtocol = errors.New("unknown toolchain protocol")
	// errNoLocation is returned when no toolchain location is provided.
	errNoLocation = errors.New("toolchain location is not set")
	// errNoFormStarted is returned when every invocation form was missing.
	errNoFormStarted = errors.New("no invocation form could be started")
)

// Request describes one MSI build.
type Request struct {
	// SourcePath is the processed WiX source.
	SourcePath string
	// ObjectPath is the intermediate object written by the legacy compile phase.
	ObjectPath string
	// OutputPath is the MSI to produce.
	OutputPath string
	// Location is the toolchain selected for this run.
	Location *toolchain.Location
}

// Builder runs build requests through an executor.
type Builder struct {
	// runner executes toolchain commands.
	runner executor.Runner
	// attemptTimeout bounds each modern invocation form.
	attemptTimeout time.Duration
	// phaseTimeout bounds each legacy phase.
	phaseTimeout time.Duration
}

// Option configures a Builder.
type Option func(*Builder)

// WithAttemptTimeout overrides the per-form timeout of the modern protocol.
func WithAttemptTimeout(timeout time.Duration) Option {
	return func(b *Builder) {
		if timeout > 0 {
			b.attemptTimeout = timeout
		}
	}
}

// WithPhaseTimeout overrides the per-phase timeout of the legacy protocol.
func WithPhaseTimeout(timeout time.Duration) Option {
	return func(b *Builder) {
		if timeout > 0 {
			b.phaseTimeout = timeout
		}
	}
}

// New returns a Builder using runner.
func New(runner executor.Runner, opts ...Option) *Builder {
	b := &Builder{
		runner:         runner,
		attemptTimeout: DefaultAttemptTimeout,
		phaseTimeout:   DefaultPhaseTimeout,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build selects the protocol from the located binaries and runs it.
// Failures are *build.Error values of kind ErrBuildPhaseFailed or ErrBuildAttemptsExhausted.
func (b *Builder) Build(ctx context.Context, req *Request) error {
	if req.Location == nil {
		return build.NewError(build.ErrBuildAttemptsExhausted, toolchain.InstallHint, errNoLocation)
	}

	switch req.Location.Protocol {
	case build.ProtocolLegacy:
		logger.Info(ctx, "Using WiX Toolset v3 (candle + light)")
		return b.BuildLegacy(ctx, req)
	case build.ProtocolModern:
		logger.Info(ctx, "Using WiX Toolset v4+ (wix build)")
		return b.BuildModern(ctx, req)
	case build.ProtocolUnknown:
		return build.NewError(build.ErrBuildAttemptsExhausted, toolchain.InstallHint, errUnknownProtocol)
	default:
		return build.NewError(build.ErrBuildAttemptsExhausted, toolchain.InstallHint, errUnknownProtocol)
	}
}

// BuildLegacy compiles then links. The first failing phase aborts the build.
func (b *Builder) BuildLegacy(ctx context.Context, req *Request) error {
	phases := []struct {
		name       string
		invocation *executor.Invocation
	}{
		{
			name: "candle compilation",
			invocation: &executor.Invocation{
				Name:       req.Location.Compiler,
				Args:       []string{req.SourcePath, "-o", req.ObjectPath},
				SearchPath: []string{req.Location.Dir},
				Timeout:    b.phaseTimeout,
			},
		},
		{
			name: "light linking",
			invocation: &executor.Invocation{
				Name:       req.Location.Linker,
				Args:       []string{req.ObjectPath, "-o", req.OutputPath},
				SearchPath: []string{req.Location.Dir},
				Timeout:    b.phaseTimeout,
			},
		},
	}

	for _, phase := range phases {
		logger.DebugKV(ctx, "Running phase", "phase", phase.name, "command", phase.invocation.String())

		result := b.runner.Run(ctx, phase.invocation)
		if result.Outcome == executor.OutcomeSucceeded {
			continue
		}

		output := diagnosticOutput(result)
		logger.ErrorKV(ctx, "Phase failed", "phase", phase.name, "outcome", result.Outcome, "output", output)

		return build.NewError(build.ErrBuildPhaseFailed, buildHint,
			fmt.Errorf("%s failed: %w: %s", phase.name, result.Err, output))
	}

	return nil
}

// BuildModern tries the modern invocation forms in order.
func (b *Builder) BuildModern(ctx context.Context, req *Request) error {
	return b.TryForms(ctx, ModernForms(req, b.attemptTimeout))
}

// TryForms runs forms in order until one exits zero. Missing executables are
// skipped silently; failures and timeouts are remembered and the next form is
// tried. The reported cause is the last failure that was not "not found".
// Cancellation of ctx aborts immediately.
func (b *Builder) TryForms(ctx context.Context, forms []Form) error {
	var lastErr, lastNotFound error

	for _, form := range forms {
		logger.InfoKV(ctx, "Trying command", "form", form.Name, "command", form.Invocation.String())

		result := b.runner.Run(ctx, form.Invocation)

		switch result.Outcome {
		case executor.OutcomeSucceeded:
			logger.InfoKV(ctx, "WiX build successful", "form", form.Name, "duration", result.Duration)
			return nil
		case executor.OutcomeNotFound:
			logger.DebugKV(ctx, "Command not found", "form", form.Name, "error", result.Err)
			lastNotFound = result.Err
		case executor.OutcomeCanceled:
			return build.NewError(build.ErrBuildAttemptsExhausted, buildHint, result.Err)
		case executor.OutcomeTimedOut:
			logger.WarnKV(ctx, "Command timeout", "form", form.Name, "error", result.Err)
			lastErr = result.Err
		case executor.OutcomeFailed:
			output := diagnosticOutput(result)
			logger.WarnKV(ctx, "Command failed", "form", form.Name, "error", result.Err, "output", output)
			lastErr = fmt.Errorf("%w: %s", result.Err, output)
		}
	}

	logger.Error(ctx, "All WiX build attempts failed")

	cause := lastErr
	if cause == nil {
		cause = errNoFormStarted
		if lastNotFound != nil {
			cause = fmt.Errorf("%w: %w", errNoFormStarted, lastNotFound)
		}
	}

	return build.NewError(build.ErrBuildAttemptsExhausted, buildHint, cause)
}

// diagnosticOutput returns stderr, or stdout when stderr is empty.
// WiX v3 prints its errors on stdout.
func diagnosticOutput(result *executor.Result) string {
	if output := strings.TrimSpace(result.Stderr); output != "" {
		return output
	}

	return strings.TrimSpace(result.Stdout)
}
