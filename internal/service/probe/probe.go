package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oshokin/morrigan-installer/internal/executor"
	"github.com/oshokin/morrigan-installer/internal/logger"
)

const (
	// DefaultTimeout bounds the probe run.
	DefaultTimeout = 30 * time.Second
	// QueryFlag asks the installer to print its usage and exit.
	QueryFlag = "/?"
)

var (
	// ErrInstallerMissing is returned when the installer file does not exist.
	ErrInstallerMissing = errors.New("installer not found")
	// ErrInstallerRejected is returned when the installer exits non-zero or does not start.
	ErrInstallerRejected = errors.New("installer execution failed")
)

// Prober validates installer artifacts.
type Prober struct {
	// runner executes the installer.
	runner executor.Runner
	// timeout bounds each probe.
	timeout time.Duration
}

// New returns a Prober. A non-positive timeout selects DefaultTimeout.
func New(runner executor.Runner, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Prober{
		runner:  runner,
		timeout: timeout,
	}
}

// Validate runs `<installer> /?` and succeeds only on a zero exit.
func (p *Prober) Validate(ctx context.Context, installer string) error {
	info, err := os.Stat(installer)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%s: %w", installer, ErrInstallerMissing)
	}

	result := p.runner.Run(ctx, &executor.Invocation{
		Name:    installer,
		Args:    []string{QueryFlag},
		Timeout: p.timeout,
	})
	if result.Outcome != executor.OutcomeSucceeded {
		logger.ErrorKV(ctx, "Installer execution failed",
			"installer", installer,
			"outcome", result.Outcome,
			"stderr", strings.TrimSpace(result.Stderr))

		return fmt.Errorf("%s: %w: %w", installer, ErrInstallerRejected, result.Err)
	}

	logger.InfoKV(ctx, "Installer validation successful", "installer", installer)

	return nil
}
