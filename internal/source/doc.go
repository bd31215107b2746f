// Package source confirms the application built upstream exists before packaging.
package source
