// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level configuration and parsing utilities,
//   - an optional rotating file sink for build logs,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Every build stage accepts a context and extracts the logger from it, so a
// single run is logged under one named, structured scope.
package logger
