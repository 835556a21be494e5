package fp

import (
	"errors"
	"fmt"

	"github.com/opencoff/go-succinct/bitpack"
	"github.com/opencoff/go-succinct/hash"
	"github.com/opencoff/go-succinct/rankselect"
)

// ErrDuplicateKeys is returned by Build when the input could not be
// fully resolved after MaxLevelsWithoutProgress consecutive levels
// made no progress -- almost always the sign of a duplicate key or a
// hash family that cannot distinguish two keys.
var ErrDuplicateKeys = errors.New("fp: construction stalled, input likely contains duplicate keys")

// Config controls how a Map is built.
type Config struct {
	Hash       hash.Seeded
	LevelSizer LevelSizer

	// MaxLevelsWithoutProgress bounds how many consecutive levels may
	// resolve zero keys before construction fails. Zero selects the
	// default of 10.
	MaxLevelsWithoutProgress int

	// Partial, when true, makes Build tolerate unresolved keys: it
	// returns a Map covering only the keys it could place, alongside
	// an error wrapping ErrDuplicateKeys that reports how many it
	// could not.
	Partial bool

	// Lossy selects MinFragment over AcceptEquals: every key resolves
	// on its first level instead of colliding keys bumping to the
	// next one, at the cost of a collided index returning whichever
	// proposed value was smallest rather than a specific key's value.
	// Trades lookup fidelity for a smaller, single-level array.
	Lossy bool
}

func (c Config) withDefaults() Config {
	if c.Hash == nil {
		c.Hash = hash.FastHash{}
	}
	if c.LevelSizer == nil {
		c.LevelSizer = DefaultProportional()
	}
	if c.MaxLevelsWithoutProgress == 0 {
		c.MaxLevelsWithoutProgress = 10
	}
	return c
}

// Map is a fingerprint-based static function: an immutable map from
// byte-slice keys to fixed-width (BitsPerValue) unsigned values,
// looked up for keys outside the original input with no guarantee
// (it will return some value, not an error).
type Map struct {
	array        *rankselect.RankSelect
	values       bitpack.Vector
	bitsPerValue uint8
	levelSizes   []int // in 64-bit segments
	hash         hash.Seeded
}

func levelIndex(h hash.Seeded, key []byte, levelNr uint32, levelSize int) int {
	v := h.Hash64(uint64(levelNr), key)
	return int(hash.MapToRange(v, uint64(levelSize)))
}

// Build constructs a Map for the given parallel keys/values slices
// (values[i] must fit in bitsPerValue bits), per cfg. Every level
// partitions the keys that remain after the previous ones: the keys
// whose hashed index has a 1-bit in that level's array are resolved
// there, the rest carry on to the next level.
func Build(keys [][]byte, values []uint64, bitsPerValue uint8, cfg Config) (*Map, error) {
	cfg = cfg.withDefaults()

	remKeys := append([][]byte(nil), keys...)
	remVals := append([]uint64(nil), values...)

	var arraySegments []bitpack.Vector
	var levelSizes []int
	var valueSegments []bitpack.Vector
	var valueCounts []int

	var levelNr uint32
	levelsWithoutProgress := 0

	for len(remKeys) != 0 {
		segs := cfg.LevelSizer.SizeSegments(len(remKeys), valueHistogram(remVals, bitsPerValue), bitsPerValue)
		if segs < 1 {
			segs = 1
		}
		levelSize := segs * 64

		var solver CollisionSolver
		if cfg.Lossy {
			solver = NewMinFragment(levelSize, bitsPerValue)
		} else {
			solver = NewAcceptEquals(levelSize, bitsPerValue)
		}
		indices := make([]int, len(remKeys))
		for i, k := range remKeys {
			idx := levelIndex(cfg.Hash, k, levelNr, levelSize)
			indices[i] = idx
			solver.ProcessFragment(idx, remVals[i], bitsPerValue)
		}
		currentArray := resolvedBits(solver, levelSize)

		var nextKeys [][]byte
		var nextVals []uint64
		for i, k := range remKeys {
			if !currentArray.GetBit(uint64(indices[i])) {
				nextKeys = append(nextKeys, k)
				nextVals = append(nextVals, remVals[i])
			}
		}

		if len(nextKeys) == len(remKeys) {
			levelsWithoutProgress++
			if levelsWithoutProgress >= cfg.MaxLevelsWithoutProgress {
				if cfg.Partial {
					break
				}
				return nil, fmt.Errorf("%w: stalled at level %d", ErrDuplicateKeys, levelNr)
			}
		} else {
			levelsWithoutProgress = 0
		}

		resolvedCount := 0
		for i := 0; i < levelSize; i++ {
			if currentArray.GetBit(uint64(i)) {
				resolvedCount++
			}
		}
		levelValues := bitpack.New(uint64(resolvedCount) * uint64(bitsPerValue))
		pos := uint64(0)
		for i := 0; i < levelSize; i++ {
			if currentArray.GetBit(uint64(i)) {
				levelValues.InitFragment(pos, bitsPerValue, solver.Value(i, bitsPerValue))
				pos++
			}
		}

		arraySegments = append(arraySegments, currentArray)
		levelSizes = append(levelSizes, segs)
		valueSegments = append(valueSegments, levelValues)
		valueCounts = append(valueCounts, resolvedCount)

		remKeys, remVals = nextKeys, nextVals
		levelNr++
	}

	array, totalBits := concatBitVectors(arraySegments, levelSizes)
	vals, _ := concatValueVectors(valueSegments, valueCounts, bitsPerValue)

	rs := rankselect.Build(array, totalBits, rankselect.Bits101111{}, &rankselect.CombinedSampling{})
	m := &Map{array: rs, values: vals, bitsPerValue: bitsPerValue, levelSizes: levelSizes, hash: cfg.Hash}

	if cfg.Partial && len(remKeys) != 0 {
		return m, fmt.Errorf("%w: %d keys unresolved", ErrDuplicateKeys, len(remKeys))
	}
	return m, nil
}

// Get returns the value associated with key, or ok=false if no level
// has a 1-bit at key's index. A key that was not part of the input is
// not detected as such: wherever it lands on a 1-bit, Get returns
// ok=true and the value stored for that bit.
func (m *Map) Get(key []byte) (value uint64, ok bool) {
	arrayBegin := uint64(0)
	for level, segs := range m.levelSizes {
		levelSize := segs * 64
		idx := levelIndex(m.hash, key, uint32(level), levelSize)
		i := arrayBegin + uint64(idx)
		if m.array.Get(i) {
			return m.values.GetFragment(m.array.Rank(i), m.bitsPerValue), true
		}
		arrayBegin += uint64(levelSize)
	}
	return 0, false
}

func valueHistogram(values []uint64, bitsPerValue uint8) []uint32 {
	if bitsPerValue > 8 {
		return nil
	}
	counts := make([]uint32, 1<<bitsPerValue)
	for _, v := range values {
		counts[v]++
	}
	return counts
}

func concatBitVectors(segs []bitpack.Vector, sizesInSegments []int) (bitpack.Vector, uint64) {
	var totalBits uint64
	for _, s := range sizesInSegments {
		totalBits += uint64(s) * 64
	}
	out := bitpack.New(totalBits)
	var off uint64
	for i, seg := range segs {
		n := uint64(sizesInSegments[i]) * 64
		copyBits(out, off, seg, n)
		off += n
	}
	return out, totalBits
}

func concatValueVectors(segs []bitpack.Vector, counts []int, bitsPerValue uint8) (bitpack.Vector, uint64) {
	var totalFrags uint64
	for _, c := range counts {
		totalFrags += uint64(c)
	}
	out := bitpack.New(totalFrags * uint64(bitsPerValue))
	var pos uint64
	for i, seg := range segs {
		n := uint64(counts[i])
		for j := uint64(0); j < n; j++ {
			out.InitFragment(pos, bitsPerValue, seg.GetFragment(j, bitsPerValue))
			pos++
		}
	}
	return out, totalFrags
}

func copyBits(dst bitpack.Vector, dstOff uint64, src bitpack.Vector, n uint64) {
	for i := uint64(0); i < n; i++ {
		if src.GetBit(i) {
			dst.SetBit(dstOff + i)
		}
	}
}
