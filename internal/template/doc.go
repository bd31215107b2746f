// Package template turns a WiX source template into a concrete build descriptor
// by literal placeholder substitution.
//
// Placeholders are disjoint tokens (PUT-...-HERE / PUT-COMPONENT-...-GUID). They are
// replaced in a single pass, so a substituted value is never scanned again, and the
// result is checked to contain no placeholder at all.
//
// Two default sources are embedded: a WiX v3 one for candle and light, and a WiX v4
// one for `wix build`.
package template
