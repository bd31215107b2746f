package build

import "time"

// Result is the outcome of one orchestrator run. Exactly one is produced per run.
type Result struct {
	// Success reports whether the installer artifact was produced.
	Success bool
	// OutputPath is where the installer was (or would have been) written.
	OutputPath string
	// Size is the artifact size in bytes, set on success.
	Size int64
	// Protocol is the toolchain protocol used, if one was selected.
	Protocol Protocol
	// Identifiers are the GUIDs embedded into this build.
	Identifiers IdentifierSet
	// BuiltBy is the host and user that ran the build, if they could be detected.
	BuiltBy *Actor
	// StartedAt is when the run began.
	StartedAt time.Time
	// Duration is the wall-clock time of the run.
	Duration time.Duration
	// Err is the failure cause, set when Success is false.
	Err error
}

// Succeeded marks the result successful with the given artifact size.
func (r *Result) Succeeded(size int64) *Result {
	r.Success = true
	r.Size = size
	r.Err = nil

	return r
}

// Failed marks the result failed with the given cause.
func (r *Result) Failed(err error) *Result {
	r.Success = false
	r.Size = 0
	r.Err = err

	return r
}
