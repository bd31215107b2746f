package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"
)

// Outcome classifies how an invocation ended.
type Outcome int

const (
	// OutcomeSucceeded means the command exited with status zero.
	OutcomeSucceeded Outcome = iota
	// OutcomeNotFound means the executable could not be resolved or started.
	OutcomeNotFound
	// OutcomeFailed means the command ran and exited non-zero (or could not be run).
	OutcomeFailed
	// OutcomeTimedOut means the invocation exceeded its timeout and was killed.
	OutcomeTimedOut
	// OutcomeCanceled means the caller's context ended before the command finished.
	OutcomeCanceled
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeNotFound:
		return "not found"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

var (
	// ErrNotFound is wrapped by results whose executable could not be resolved.
	ErrNotFound = errors.New("executable not found")
	// ErrTimedOut is wrapped by results that exceeded their timeout.
	ErrTimedOut = errors.New("command timed out")
	// ErrNonZeroExit is wrapped by results of commands that exited with a failure status.
	ErrNonZeroExit = errors.New("command exited with non-zero status")
)

// defaultWaitDelay bounds how long Wait keeps draining output after a kill.
const defaultWaitDelay = 5 * time.Second

// Invocation describes one command to run.
type Invocation struct {
	// Name is the executable: a bare name resolved through SearchPath and PATH, or a path.
	Name string
	// Args are passed to the executable as-is.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// SearchPath lists directories searched before PATH and prepended to the child's PATH.
	SearchPath []string
	// Timeout bounds the run; zero means only the caller's context applies.
	Timeout time.Duration
}

// String renders the command line with shell quoting for logs.
func (i *Invocation) String() string {
	return shellquote.Join(append([]string{i.Name}, i.Args...)...)
}

// Result is the classified outcome of an invocation.
type Result struct {
	// Outcome classifies how the run ended.
	Outcome Outcome
	// ExitCode is the process exit status, or -1 when it did not exit normally.
	ExitCode int
	// Stdout is the captured standard output.
	Stdout string
	// Stderr is the captured standard error.
	Stderr string
	// Duration is the wall-clock time of the run.
	Duration time.Duration
	// Err describes any outcome other than OutcomeSucceeded.
	Err error
}

// Runner executes invocations.
type Runner interface {
	Run(ctx context.Context, invocation *Invocation) *Result
}

// ExecRunner runs invocations as operating system processes.
type ExecRunner struct {
	// waitDelay bounds output draining after the process is killed.
	waitDelay time.Duration
}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		waitDelay: defaultWaitDelay,
	}
}

// Run resolves and executes the invocation, blocking until it exits, times out
// or ctx is done. It never returns nil.
func (r *ExecRunner) Run(ctx context.Context, invocation *Invocation) *Result {
	startTime := time.Now()

	path, err := Resolve(invocation.Name, invocation.SearchPath)
	if err != nil {
		return &Result{
			Outcome:  OutcomeNotFound,
			ExitCode: -1,
			Err:      err,
		}
	}

	execCtx, cancel := ctx, context.CancelFunc(func() {})
	if invocation.Timeout > 0 {
		execCtx, cancel = context.WithTimeout(ctx, invocation.Timeout)
	}

	defer cancel()

	//nolint:gosec // G204: Running the packaging toolchain is the purpose of this package.
	cmd := exec.CommandContext(execCtx, path, invocation.Args...)
	cmd.Dir = invocation.Dir
	cmd.Env = withSearchPath(os.Environ(), invocation.SearchPath)
	cmd.WaitDelay = r.waitDelay
	cmd.Cancel = func() error {
		return terminateTree(cmd.Process)
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(startTime),
	}

	r.classify(ctx, execCtx, invocation, result, err)

	return result
}

// classify fills Outcome, ExitCode and Err from the error returned by cmd.Run.
func (r *ExecRunner) classify(ctx, execCtx context.Context, invocation *Invocation, result *Result, err error) {
	if err == nil {
		result.Outcome = OutcomeSucceeded
		return
	}

	result.ExitCode = -1

	var exitErr *exec.ExitError

	switch {
	case ctx.Err() != nil:
		result.Outcome = OutcomeCanceled
		result.Err = fmt.Errorf("%s: %w", invocation, ctx.Err())
	case errors.Is(execCtx.Err(), context.DeadlineExceeded):
		result.Outcome = OutcomeTimedOut
		result.Err = fmt.Errorf("%s after %s: %w", invocation, invocation.Timeout, ErrTimedOut)
	case errors.As(err, &exitErr):
		result.Outcome = OutcomeFailed
		result.ExitCode = exitErr.ExitCode()
		result.Err = fmt.Errorf("%s: exit code %d: %w", invocation, result.ExitCode, ErrNonZeroExit)
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		result.Outcome = OutcomeNotFound
		result.Err = fmt.Errorf("%s: %w: %w", invocation, ErrNotFound, err)
	default:
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("%s: %w", invocation, err)
	}
}
