package fp

import (
	"fmt"

	"github.com/opencoff/go-succinct/bitpack"
	"github.com/opencoff/go-succinct/coding"
	"github.com/opencoff/go-succinct/hash"
	"github.com/opencoff/go-succinct/rankselect"
)

// CMap is a fingerprint-based static function whose values are
// Huffman-coded rather than fixed-width: a key whose value is common
// costs fewer levels than one whose value is rare. Unlike Map, a key
// may occupy more than one level -- one per codeword fragment -- and
// is only retired from construction once its whole codeword has been
// placed.
type CMap[V any] struct {
	array      *rankselect.RankSelect
	fragments  bitpack.Vector
	coding     *coding.Coding[V]
	levelSizes []int
	hash       hash.Seeded
}

type cmapPending[V any] struct {
	key    []byte
	frags  []uint32
	cursor int
}

// BuildCMap constructs a CMap over the given parallel keys/values
// slices. The value alphabet is Huffman-coded (CountFrequencies +
// coding.Build) with fragmentBits bits per codeword fragment before
// construction begins.
func BuildCMap[V comparable](keys [][]byte, values []V, fragmentBits uint8, cfg Config) (*CMap[V], error) {
	cfg = cfg.withDefaults()

	distinct, weights := coding.CountFrequencies(values)
	c := coding.Build(distinct, weights, fragmentBits)
	valueIndex := make(map[V]int, len(distinct))
	for i, v := range distinct {
		valueIndex[v] = i
	}

	pending := make([]*cmapPending[V], len(keys))
	for i, k := range keys {
		idx := valueIndex[values[i]]
		code, err := c.Encode(idx)
		if err != nil {
			return nil, err
		}
		pending[i] = &cmapPending[V]{key: k, frags: code.Fragments(fragmentBits)}
	}

	var arraySegments []bitpack.Vector
	var levelSizes []int
	var fragSegments []bitpack.Vector
	var fragCounts []int

	remaining := pending
	var levelNr uint32
	levelsWithoutProgress := 0
	degree := c.Degree()

	for len(remaining) != 0 {
		segs := cfg.LevelSizer.SizeSegments(len(remaining), nil, fragmentBits)
		if segs < 1 {
			segs = 1
		}
		levelSize := segs * 64

		solver := NewAcceptEquals(levelSize, fragmentBits)
		indices := make([]int, len(remaining))
		for i, p := range remaining {
			idx := levelIndex(cfg.Hash, p.key, levelNr, levelSize)
			indices[i] = idx
			frag := uint32(0)
			if len(p.frags) > 0 {
				frag = p.frags[p.cursor]
			}
			if frag >= degree {
				return nil, fmt.Errorf("fp: fragment %d out of range [0,%d)", frag, degree)
			}
			solver.ProcessFragment(idx, uint64(frag), fragmentBits)
		}
		currentArray := resolvedBits(solver, levelSize)

		var next []*cmapPending[V]
		for i, p := range remaining {
			if !currentArray.GetBit(uint64(indices[i])) {
				next = append(next, p)
				continue
			}
			p.cursor++
			if p.cursor < len(p.frags) {
				next = append(next, p)
			}
			// else: fully placed, retired from construction.
		}

		if len(next) == len(remaining) {
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
		levelFrags := bitpack.New(uint64(resolvedCount) * uint64(fragmentBits))
		pos := uint64(0)
		for i := 0; i < levelSize; i++ {
			if currentArray.GetBit(uint64(i)) {
				levelFrags.InitFragment(pos, fragmentBits, solver.Value(i, fragmentBits))
				pos++
			}
		}

		arraySegments = append(arraySegments, currentArray)
		levelSizes = append(levelSizes, segs)
		fragSegments = append(fragSegments, levelFrags)
		fragCounts = append(fragCounts, resolvedCount)

		remaining = next
		levelNr++
	}

	array, totalBits := concatBitVectors(arraySegments, levelSizes)
	frags, _ := concatValueVectors(fragSegments, fragCounts, fragmentBits)
	rs := rankselect.Build(array, totalBits, rankselect.Bits101111{}, &rankselect.CombinedSampling{})

	m := &CMap[V]{array: rs, fragments: frags, coding: c, levelSizes: levelSizes, hash: cfg.Hash}
	if cfg.Partial && len(remaining) != 0 {
		return m, fmt.Errorf("%w: %d keys unresolved", ErrDuplicateKeys, len(remaining))
	}
	return m, nil
}

// Get descends the levels feeding each resolved fragment into a fresh
// Decoder until it reports a fully decoded value.
func (m *CMap[V]) Get(key []byte) (value V, ok bool) {
	dec := coding.NewDecoder(m.coding)
	arrayBegin := uint64(0)
	for level, segs := range m.levelSizes {
		levelSize := segs * 64
		idx := levelIndex(m.hash, key, uint32(level), levelSize)
		i := arrayBegin + uint64(idx)
		if m.array.Get(i) {
			frag := m.fragments.GetFragment(m.array.Rank(i), m.coding.FragmentBits)
			r := dec.Consume(uint32(frag))
			if r.Invalid {
				return value, false
			}
			if r.Done {
				return r.Value, true
			}
		}
		arrayBegin += uint64(levelSize)
	}
	return value, false
}
