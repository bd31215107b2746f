package build

import (
	"errors"
	"strings"
)

var (
	// ErrToolchainNotFound means no candidate directory yielded WiX binaries and
	// the on-demand install was unavailable or failed.
	ErrToolchainNotFound = errors.New("toolchain not found")
	// ErrSourceArtifactMissing means the built application was not found under the build directory.
	ErrSourceArtifactMissing = errors.New("source artifact missing")
	// ErrTemplateSubstitution means the template could not be read or the descriptor written.
	ErrTemplateSubstitution = errors.New("template substitution failed")
	// ErrBuildPhaseFailed means a legacy compile or link phase exited non-zero.
	ErrBuildPhaseFailed = errors.New("build phase failed")
	// ErrBuildAttemptsExhausted means every modern invocation form failed or timed out.
	ErrBuildAttemptsExhausted = errors.New("build attempts exhausted")
)

// Error is the structured failure cause of a build run.
// Kind is one of the sentinel errors above, Hint tells the operator what to do next.
type Error struct {
	// Kind classifies the failure and is matched by errors.Is.
	Kind error
	// Hint is a human-readable remediation, possibly multi-line.
	Hint string
	// Err is the underlying cause, if any.
	Err error
}

// NewError builds an Error of the given kind.
func NewError(kind error, hint string, cause error) *Error {
	return &Error{
		Kind: kind,
		Hint: hint,
		Err:  cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var builder strings.Builder

	builder.WriteString(e.Kind.Error())

	if e.Err != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Err.Error())
	}

	return builder.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// HintOf returns the remediation hint carried by err, or an empty string.
func HintOf(err error) string {
	var buildErr *Error
	if errors.As(err, &buildErr) {
		return buildErr.Hint
	}

	return ""
}

// KindOf returns the sentinel kind carried by err, or nil when err is not an *Error.
func KindOf(err error) error {
	var buildErr *Error
	if errors.As(err, &buildErr) {
		return buildErr.Kind
	}

	return nil
}
