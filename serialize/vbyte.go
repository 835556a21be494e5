// Package serialize provides the two on-wire primitives this module's
// persisted structures share: VByte variable-length integers and
// fixed-width endian-aware integers.
package serialize

import (
	"encoding/binary"
	"errors"
	"io"
)

// continuation is the VByte "more bytes follow" marker bit.
const continuation = 1 << 7

// ErrInvalidData is returned when a VByte value runs past its maximum
// length (5 bytes for uint32, 10 for uint64).
var ErrInvalidData = errors.New("serialize: VByte value too long")

// WriteVByteU32 writes val to w using 7-bits-per-byte VByte encoding
// (1 to 5 bytes).
func WriteVByteU32(w io.Writer, val uint32) (int, error) {
	var buf [5]byte
	n := 0
	for {
		b := byte(val & 0x7f)
		val >>= 7
		if val != 0 {
			buf[n] = b | continuation
			n++
		} else {
			buf[n] = b
			n++
			break
		}
	}
	return w.Write(buf[:n])
}

// ReadVByteU32 reads a VByte-encoded uint32 from r.
func ReadVByteU32(r io.Reader) (uint32, error) {
	var result uint32
	var one [1]byte
	for shift := uint(0); shift < 35; shift += 7 {
		if _, err := io.ReadFull(r, one[:]); err != nil {
			return 0, err
		}
		b := one[0]
		result |= uint32(b&0x7f) << shift
		if b < continuation {
			return result, nil
		}
	}
	return 0, ErrInvalidData
}

// VByteLenU32 returns the number of bytes val occupies in VByte form.
func VByteLenU32(val uint32) int {
	n := 1
	for val >= continuation {
		val >>= 7
		n++
	}
	return n
}

// WriteVByteU64 writes val to w using 7-bits-per-byte VByte encoding
// (1 to 10 bytes).
func WriteVByteU64(w io.Writer, val uint64) (int, error) {
	var buf [10]byte
	n := 0
	for {
		b := byte(val & 0x7f)
		val >>= 7
		if val != 0 {
			buf[n] = b | continuation
			n++
		} else {
			buf[n] = b
			n++
			break
		}
	}
	return w.Write(buf[:n])
}

// ReadVByteU64 reads a VByte-encoded uint64 from r.
func ReadVByteU64(r io.Reader) (uint64, error) {
	var result uint64
	var one [1]byte
	for shift := uint(0); shift < 70; shift += 7 {
		if _, err := io.ReadFull(r, one[:]); err != nil {
			return 0, err
		}
		b := one[0]
		result |= uint64(b&0x7f) << shift
		if b < continuation {
			return result, nil
		}
	}
	return 0, ErrInvalidData
}

// PutUint64LE / Uint64LE / etc. are thin re-exports of encoding/binary's
// little-endian helpers, kept here so every package depending on
// serialize shares one import for both variable- and fixed-width codecs.
var (
	PutUint64LE = binary.LittleEndian.PutUint64
	PutUint32LE = binary.LittleEndian.PutUint32
	PutUint16LE = binary.LittleEndian.PutUint16
	Uint64LE    = binary.LittleEndian.Uint64
	Uint32LE    = binary.LittleEndian.Uint32
	Uint16LE    = binary.LittleEndian.Uint16
)
