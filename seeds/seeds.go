// Package seeds abstracts over the width of the per-bucket seed table
// an MPHF construction maintains. It generalizes the teacher's
// three-case u8Seeder/u16Seeder/u32Seeder dispatch (chosen by the
// largest seed value actually produced) to any bit width from 1 to 32,
// plus a BitsN variant backed directly by a bitpack.Vector for widths
// the fixed cases don't cover. No GroupSize counterpart is defined: the
// fp package has no group-optimised variants.
package seeds

import (
	"encoding/binary"
	"io"

	"github.com/opencoff/go-succinct/bitpack"
)

// Size is implemented by every seed/group table width this module
// supports. NewVec allocates a table for n entries, all initialized
// to zero.
type Size interface {
	BitsPerSeed() uint8
	NewVec(n int) Vec
}

// Vec is a fixed-width vector of seed (or group) values.
type Vec interface {
	Len() int
	Get(i int) uint32
	Set(i int, v uint32)
	Marshal(w io.Writer) (int, error)
}

// Pick returns the narrowest Size able to represent max (the largest
// seed value a construction actually produced), mirroring the
// teacher's makeSeeds: Bits8 if max fits in a byte, Bits16 if it fits
// in two bytes, else Bits32.
func Pick(max uint32) Size {
	switch {
	case max <= 0xff:
		return Bits8{}
	case max <= 0xffff:
		return Bits16{}
	default:
		return Bits32{}
	}
}

// Bits8 is an 8-bit-per-entry seed table.
type Bits8 struct{}

func (Bits8) BitsPerSeed() uint8 { return 8 }
func (Bits8) NewVec(n int) Vec   { return &bytesVec{buf: make([]byte, n)} }

type bytesVec struct{ buf []byte }

func (v *bytesVec) Len() int          { return len(v.buf) }
func (v *bytesVec) Get(i int) uint32  { return uint32(v.buf[i]) }
func (v *bytesVec) Set(i int, x uint32) { v.buf[i] = byte(x) }
func (v *bytesVec) Marshal(w io.Writer) (int, error) {
	return w.Write(v.buf)
}

// Bits16 is a 16-bit-per-entry seed table, little-endian on the wire.
type Bits16 struct{}

func (Bits16) BitsPerSeed() uint8 { return 16 }
func (Bits16) NewVec(n int) Vec   { return &u16Vec{buf: make([]uint16, n)} }

type u16Vec struct{ buf []uint16 }

func (v *u16Vec) Len() int            { return len(v.buf) }
func (v *u16Vec) Get(i int) uint32     { return uint32(v.buf[i]) }
func (v *u16Vec) Set(i int, x uint32)  { v.buf[i] = uint16(x) }
func (v *u16Vec) Marshal(w io.Writer) (int, error) {
	buf := make([]byte, 2*len(v.buf))
	for i, x := range v.buf {
		binary.LittleEndian.PutUint16(buf[2*i:], x)
	}
	return w.Write(buf)
}

// Bits32 is a 32-bit-per-entry seed table, little-endian on the wire.
type Bits32 struct{}

func (Bits32) BitsPerSeed() uint8 { return 32 }
func (Bits32) NewVec(n int) Vec   { return &u32Vec{buf: make([]uint32, n)} }

type u32Vec struct{ buf []uint32 }

func (v *u32Vec) Len() int            { return len(v.buf) }
func (v *u32Vec) Get(i int) uint32     { return v.buf[i] }
func (v *u32Vec) Set(i int, x uint32)  { v.buf[i] = x }
func (v *u32Vec) Marshal(w io.Writer) (int, error) {
	buf := make([]byte, 4*len(v.buf))
	for i, x := range v.buf {
		binary.LittleEndian.PutUint32(buf[4*i:], x)
	}
	return w.Write(buf)
}

// BitsN is an arbitrary-width (1..=31 bit) seed table backed by a
// bitpack.Vector, for constructions that want to pack seeds tighter
// than a byte, matching the Rust original's general Bits<S> seed size.
type BitsN struct{ N uint8 }

func (b BitsN) BitsPerSeed() uint8 { return b.N }
func (b BitsN) NewVec(n int) Vec {
	return &bitsNVec{n: b.N, len: n, store: bitpack.New(uint64(n) * uint64(b.N))}
}

type bitsNVec struct {
	n     uint8
	len   int
	store bitpack.Vector
}

func (v *bitsNVec) Len() int           { return v.len }
func (v *bitsNVec) Get(i int) uint32   { return uint32(v.store.GetFragment(uint64(i), v.n)) }
func (v *bitsNVec) Set(i int, x uint32) { v.store.SetFragment(uint64(i), v.n, uint64(x)) }
func (v *bitsNVec) Marshal(w io.Writer) (int, error) {
	words := v.store.Words()
	buf := make([]byte, 8*len(words))
	for i, x := range words {
		binary.LittleEndian.PutUint64(buf[8*i:], x)
	}
	return w.Write(buf)
}
