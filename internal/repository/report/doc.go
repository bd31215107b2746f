// Package report persists the outcome of a build run.
//
// The FileRepository stores one build Result as JSON on disk so that CI jobs can
// pick up the artifact path, size and identifiers without parsing logs.
package report
