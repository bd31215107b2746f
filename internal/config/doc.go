// Package config loads the installer build metadata (product name, version,
// manufacturer, output and asset paths) from a JSON or YAML file.
//
// Loading never fails: a missing or malformed file yields the built-in defaults,
// and each absent key falls back to its own default, so packaging can always proceed.
package config
