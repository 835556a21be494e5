// bitvector.go -- occupancy tracking for Freeze's displacement search
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package chd

import "github.com/opencoff/go-succinct/bitpack"

// bitVector tracks which output slots Freeze has claimed so far. It is
// a thin wrapper over bitpack.Vector (the same packed-word storage the
// rest of this module uses for seed and rank tables) rather than a
// private word slice, so occupancy tracking doesn't duplicate bit
// twiddling that already lives in one place.
type bitVector struct {
	v bitpack.Vector
}

// newBitVector creates a bitvector to hold at least 'size' bits.
func newBitVector(size uint64) *bitVector {
	return &bitVector{v: bitpack.New(size)}
}

// Size returns the number of bits in this bitvector
func (b *bitVector) Size() uint64 {
	return uint64(len(b.v.Words())) * 64
}

// Words returns the number of words in the array
func (b *bitVector) Words() uint64 {
	return uint64(len(b.v.Words()))
}

// Set sets the bit 'i' in the bitvector
func (b *bitVector) Set(i uint64) *bitVector {
	b.v.SetBit(i)
	return b
}

// Clear clears bit 'i'
func (b *bitVector) Clear(i uint64) *bitVector {
	b.v.ClearBit(i)
	return b
}

// IsSet() returns true if the bit 'i' is set, false otherwise
func (b *bitVector) IsSet(i uint64) bool {
	return b.v.GetBit(i)
}

// Reset() clears all the bits in the bitvector
func (b *bitVector) Reset() *bitVector {
	words := b.v.Words()
	for i := range words {
		words[i] = 0
	}
	return b
}

// Merge ORs bitvector 'x' into 'b'; both must have the same word count.
func (b *bitVector) Merge(x *bitVector) *bitVector {
	dst := b.v.Words()
	for i, w := range x.v.Words() {
		dst[i] |= w
	}
	return b
}

