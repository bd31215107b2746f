// Package prepare stages installer inputs into the output directory.
//
// Every resource and installer script named by the configuration is copied next to
// the installer artifacts. Files are replaced atomically and verified against a
// SHA-512 checksum, so an interrupted run never leaves a half-written file behind.
package prepare
