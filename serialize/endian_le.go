// endian_le.go -- endian conversion routines for little-endian archs
// (the default: amd64, arm64, ...). Conversion _to_ little-endian is
// idempotent here; the big-endian counterpart lives in endian_be.go
// for ppc64/mips/mips64, which the pack's teacher copy carried but
// never paired with a default build.

// +build !ppc64,!mips,!mips64

package serialize

func ToLittleEndianUint64(v uint64) uint64 { return v }
func ToLittleEndianUint32(v uint32) uint32 { return v }
func ToLittleEndianUint16(v uint16) uint16 { return v }

func ToBigEndianUint64(v uint64) uint64 {
	return ((v & 0x00000000000000ff) << 56) |
		((v & 0x000000000000ff00) << 40) |
		((v & 0x0000000000ff0000) << 24) |
		((v & 0x00000000ff000000) << 8) |
		((v & 0x000000ff00000000) >> 8) |
		((v & 0x0000ff0000000000) >> 24) |
		((v & 0x00ff000000000000) >> 40) |
		((v & 0xff00000000000000) >> 56)
}

func ToBigEndianUint32(v uint32) uint32 {
	return ((v & 0x000000ff) << 24) |
		((v & 0x0000ff00) << 8) |
		((v & 0x00ff0000) >> 8) |
		((v & 0xff000000) >> 24)
}

func ToBigEndianUint16(v uint16) uint16 {
	return ((v & 0x00ff) << 8) |
		((v & 0xff00) >> 8)
}
