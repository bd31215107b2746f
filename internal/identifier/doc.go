// Package identifier generates the GUIDs a WiX installer needs: one upgrade code,
// one product code and one per component group. Each value is a random (version 4)
// UUID rendered the way WiX expects it, upper-case with hyphens.
package identifier
