// Package build holds the domain model shared by every stage of an installer build:
// the identifier set, the toolchain protocol, the structured error taxonomy and the
// single Result produced per run.
package build
