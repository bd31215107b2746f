// Package packager orchestrates one MSI build.
//
// Run locates the WiX toolchain, validates the application build, renders the WiX
// source with fresh identifiers and the product configuration, hands it to the
// builder and reports the artifact. Transient files are removed whatever happens.
package packager
