// Package hash defines the seeded hash contract used by the fp package
// and the key/seed mixing used by phast, along with the Lemire
// multiply-high range reduction used to turn a 64-bit hash into a
// bounded index without a modulo.
package hash

import "math/bits"

// Seeded is any 64-bit hash family that can be re-seeded to produce an
// independent hash of the same key; fp re-hashes each key under a new
// seed per level. phast takes keys already hashed to uint64 and mixes
// in its seeds with MixKeySeed instead.
type Seeded interface {
	Hash64(seed uint64, key []byte) uint64
}

// MapToRange reduces h to the half-open range [0, n) using Lemire's
// multiply-high trick: floor(h * n / 2^64). It is a biased but
// essentially uniform substitute for h % n that avoids division.
func MapToRange(h, n uint64) uint64 {
	if n == 0 {
		return 0
	}
	hi, _ := bits.Mul64(h, n)
	return hi
}

// fxMul is the FxHash multiplicative constant reused for seed/key
// mixing (same constant as the 64-bit PHast mixer this is grounded on).
const fxMul = 0x517cc1b727220a95

// MixKeySeed folds seed and key together via a 64-bit multiply-high,
// truncated to 16 bits, matching the in-slice displacement function
// used to place a key within its PHast bucket slice.
func MixKeySeed(key uint64, seed uint16) uint16 {
	hi, _ := bits.Mul64(uint64(seed)*fxMul, key)
	return uint16(hi)
}

// Mix64 combines two 64-bit values by multiplying and xoring the high
// and low halves together; internal/chd uses it to fold key, salt and
// seed together.
func Mix64(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return hi ^ lo
}
