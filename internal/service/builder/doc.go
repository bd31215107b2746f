// Package builder drives the WiX toolchain to produce the MSI.
//
// The legacy protocol (WiX v3) compiles with candle and links with light; a failing
// phase aborts the build. The modern protocol (WiX v4+) runs `wix build`, which may be
// reachable in several ways, so an ordered list of invocation forms is tried until
// one exits zero. A form whose executable is missing is skipped silently; a failing
// or timed-out form is recorded and the next one is tried.
package builder
