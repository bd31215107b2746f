// Package executor runs external toolchain commands with a bounded lifetime.
//
// Every run is classified into one of a few outcomes (succeeded, not found,
// failed, timed out, canceled) so callers can tell a missing executable apart
// from one that ran and failed. Extra search directories are passed per
// invocation instead of mutating the process PATH, and a timed-out command is
// killed together with the processes it spawned.
package executor
