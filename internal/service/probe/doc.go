// Package probe checks that a produced installer starts: it runs the installer
// with its help flag and expects a zero exit code.
package probe
