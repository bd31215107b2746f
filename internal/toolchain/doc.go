// Package toolchain finds the WiX packaging toolchain.
//
// A fixed, platform-specific list of candidate directories is scanned in priority
// order; the first directory holding either the legacy candle/light pair (WiX v3)
// or the modern wix binary (WiX v4+) wins. When nothing is found and the .NET SDK
// is available, a single bounded `dotnet tool install --global wix` attempt is made
// and detection is re-run before success is declared.
package toolchain
