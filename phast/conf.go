// Package phast builds a PHast (perfect hashing, assigning slice +
// shift) function: a map from a set of keys to a contiguous range of
// distinct integers, built by partitioning keys into buckets and
// searching, per bucket, for a seed that places every key in the
// bucket on an unclaimed output position.
package phast

import "github.com/opencoff/go-succinct/hash"

// MaxSpan is the span of a windowed used-values tracker. This package's
// Set tracks the whole output range, and no code here reads MaxSpan.
const MaxSpan = 256

// Conf holds the derived geometry of one PHast function: how many
// buckets, how wide a slice, and how many slice starts exist.
type Conf struct {
	BucketsNum        int
	SliceLenMinusOne  uint16
	NumOfSlices       int
}

// NewConf derives a Conf for outputRange distinct output positions
// holding inputSize keys, using bucketSize100 keys-per-bucket (times
// 100, e.g. 320 = 3.20 keys/bucket), sliceLen (a power of two) and
// maxShift (the seed chooser's extra shift budget, 0 for seed-only
// choosers).
func NewConf(outputRange, inputSize int, bucketSize100 uint16, sliceLen uint16, maxShift uint16) Conf {
	b100 := int(bucketSize100)
	buckets := (inputSize*100 + b100/2) / b100
	if buckets < 1 {
		buckets = 1
	}
	return Conf{
		BucketsNum:       buckets,
		SliceLenMinusOne: sliceLen - 1,
		NumOfSlices:      outputRange + 1 - int(sliceLen) - int(maxShift),
	}
}

// BitsPerSeedTo100BucketSize returns the bucket size (x100) table
// entry appropriate to a seed width of bitsPerSeed bits.
func BitsPerSeedTo100BucketSize(bitsPerSeed uint8) uint16 {
	switch {
	case bitsPerSeed <= 4:
		return 250
	case bitsPerSeed == 5:
		return 290
	case bitsPerSeed == 6:
		return 320
	case bitsPerSeed == 7:
		return 370
	case bitsPerSeed == 8:
		return 450
	case bitsPerSeed == 9:
		return 530
	case bitsPerSeed == 10:
		return 590
	case bitsPerSeed == 11:
		return 650
	case bitsPerSeed == 12:
		return 720
	case bitsPerSeed == 13:
		return 770
	default:
		return 830
	}
}

// SliceLenFor picks a slice length from the table keyed by output
// range (without the shift component) and seed width.
func SliceLenFor(outputWithoutShiftRange int, bitsPerSeed uint8, preferred uint16) uint16 {
	switch {
	case outputWithoutShiftRange < 64:
		n := outputWithoutShiftRange/2 + 1
		return nextPow2(uint16(n))
	case outputWithoutShiftRange < 1300:
		return 64
	case outputWithoutShiftRange < 9500:
		return 128
	case outputWithoutShiftRange < 12000:
		return 256
	case outputWithoutShiftRange < 140000:
		return 512
	case bitsPerSeed < 6:
		if preferred == 0 {
			return 512
		}
		return preferred
	case bitsPerSeed < 12:
		if preferred == 0 {
			return 1024
		}
		return preferred
	default:
		if preferred == 0 {
			return 2048
		}
		return preferred
	}
}

func nextPow2(n uint16) uint16 {
	if n <= 1 {
		return 1
	}
	p := uint16(1)
	for p < n {
		p <<= 1
	}
	return p
}

// BucketFor returns the bucket assigned to key.
func (c Conf) BucketFor(key uint64) int {
	return int(hash.MapToRange(key, uint64(c.BucketsNum)))
}

// SliceBegin returns the first output position of key's slice.
func (c Conf) SliceBegin(key uint64) int {
	return int(hash.MapToRange(key, uint64(c.NumOfSlices)))
}

// InSlice returns key's index within its slice, under seed.
func (c Conf) InSlice(key uint64, seed uint16) int {
	v := hash.MixKeySeed(key, seed)
	return int(v) & int(c.SliceLenMinusOne)
}

// F returns the output position of key under seed.
func (c Conf) F(key uint64, seed uint16) int {
	return c.SliceBegin(key) + c.InSlice(key, seed)
}

// SliceLen returns the slice length (SliceLenMinusOne + 1).
func (c Conf) SliceLen() int { return int(c.SliceLenMinusOne) + 1 }

// OutputRange returns the output range of a function using this Conf
// with a seed chooser contributing extraShift.
func (c Conf) OutputRange(extraShift uint16) int {
	return c.NumOfSlices + int(c.SliceLenMinusOne) + int(extraShift)
}
