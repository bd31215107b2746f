package build

// Protocol is the command interface generation of the WiX toolchain.
type Protocol int

const (
	// ProtocolUnknown means no toolchain has been selected.
	ProtocolUnknown Protocol = iota
	// ProtocolLegacy is the WiX v3 candle (compile) + light (link) pair.
	ProtocolLegacy
	// ProtocolModern is the WiX v4+ single `wix build` command.
	ProtocolModern
)

// String returns the protocol name used in logs and reports.
func (p Protocol) String() string {
	switch p {
	case ProtocolLegacy:
		return "legacy"
	case ProtocolModern:
		return "modern"
	case ProtocolUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// ParseProtocol is the inverse of Protocol.String. Unrecognised names map to ProtocolUnknown.
func ParseProtocol(name string) Protocol {
	switch name {
	case "legacy":
		return ProtocolLegacy
	case "modern":
		return ProtocolModern
	default:
		return ProtocolUnknown
	}
}
