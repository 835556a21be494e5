// Package rankselect builds O(1)-rank, near-O(1)-select indexes over a
// bitpack.Vector. Two layouts are provided, trading extra space for
// simplicity: Simple (12.5% overhead, one 64-bit rank sample per 512 bits) and
// Bits101111 (3.125% overhead, four nested rank samples per 2048 bits).
package rankselect

import (
	"math/bits"

	"github.com/opencoff/go-succinct/bitpack"
)

// Layout is implemented by the two supported rank-index encodings.
type Layout interface {
	// build populates the rank samples for content and returns the
	// total population count.
	build(content bitpack.Vector, nbits uint64) (samples []uint64, total uint64)
	// rank returns the number of set bits in content[0:index).
	rank(content bitpack.Vector, samples []uint64, index uint64) uint64
}

// Simple is the one-sample-per-512-bit-block layout: each sample, stored
// in a 64-bit word, holds the absolute rank at the start of its block.
type Simple struct{}

func (Simple) build(content bitpack.Vector, nbits uint64) ([]uint64, uint64) {
	nwords := bitpack.WordsForBits(nbits)
	words := content.Words()
	nsamples := ceilDiv(nwords, 8)
	samples := make([]uint64, nsamples)
	var rank uint64
	for w := uint64(0); w < nwords; w++ {
		if w%8 == 0 {
			samples[w/8] = rank
		}
		rank += uint64(bits.OnesCount64(words[w]))
	}
	return samples, rank
}

func (Simple) rank(content bitpack.Vector, samples []uint64, index uint64) uint64 {
	words := content.Words()
	wordIdx := index / 64
	block := index / 512
	r := samples[block]
	for w := block * 8; w < wordIdx; w++ {
		r += uint64(bits.OnesCount64(words[w]))
	}
	r += uint64(bits.OnesCount64(words[wordIdx] & lowMask(uint8(index%64))))
	return r
}

// Bits101111 is the four-level nested layout (absolute rank plus three
// 512-bit-block deltas packed into one 64-bit word per 2048-bit chunk),
// named for its bit-width split 32/10/11/11.
type Bits101111 struct{}

func (Bits101111) build(content bitpack.Vector, nbits uint64) ([]uint64, uint64) {
	nwords := bitpack.WordsForBits(nbits)
	words := content.Words()
	nsamples := ceilDiv(nwords, 32)
	samples := make([]uint64, nsamples)
	var rank uint64
	for c := uint64(0); c < nsamples; c++ {
		lo := c * 32
		hi := lo + 32
		if hi > nwords {
			hi = nwords
		}
		toAppend := rank
		var chunkSum uint64
		for b := 0; b < 4 && lo+uint64(b)*8 < hi; b++ {
			start := lo + uint64(b)*8
			end := start + 8
			if end > hi {
				end = hi
			}
			v := countBitsIn(words[start:end])
			switch b {
			case 0:
				chunkSum = v
				toAppend |= chunkSum << 32
			case 1:
				chunkSum += v
				toAppend |= chunkSum << (32 + 10)
			case 2:
				chunkSum += v
				toAppend |= chunkSum << (32 + 11 + 10)
			case 3:
				chunkSum += v
			}
		}
		rank += chunkSum
		samples[c] = toAppend
	}
	return samples, rank
}

func (Bits101111) rank(content bitpack.Vector, samples []uint64, index uint64) uint64 {
	words := content.Words()
	block := index / 512
	blockContent := samples[index/2048]
	r := blockContent & 0xFFFFFFFF
	switch block % 4 {
	case 1:
		r += (blockContent >> 32) & 1023
	case 2:
		r += (blockContent >> (10 + 32)) & 2047
	case 3:
		r += blockContent >> (10 + 11 + 32)
	}
	wordIdx := index / 64
	r += countBitsIn(words[block*8 : wordIdx])
	r += uint64(bits.OnesCount64(words[wordIdx] & lowMask(uint8(index%64))))
	return r
}

// RankSelect indexes a bit vector for O(1) rank and (via its Selector)
// fast select queries.
type RankSelect struct {
	content bitpack.Vector
	nbits   uint64
	layout  Layout
	samples []uint64
	total   uint64
	sel     Selector
}

// Build constructs a RankSelect over the first nbits bits of content
// using the given layout and select strategy.
func Build(content bitpack.Vector, nbits uint64, layout Layout, sel Selector) *RankSelect {
	samples, total := layout.build(content, nbits)
	rs := &RankSelect{content: content, nbits: nbits, layout: layout, samples: samples, total: total, sel: sel}
	if sel != nil {
		sel.build(rs)
	}
	return rs
}

// Rank returns the number of set bits in content[0:index).
func (rs *RankSelect) Rank(index uint64) uint64 {
	if index == rs.nbits {
		return rs.total
	}
	return rs.layout.rank(rs.content, rs.samples, index)
}

// TryRank is Rank with a bounds check: it reports ok=false instead of
// indexing out of the sample/content arrays when index > Len().
func (rs *RankSelect) TryRank(index uint64) (rank uint64, ok bool) {
	if index > rs.nbits {
		return 0, false
	}
	return rs.Rank(index), true
}

// Rank0 returns the number of clear bits in content[0:index), the
// complement of Rank.
func (rs *RankSelect) Rank0(index uint64) uint64 {
	return index - rs.Rank(index)
}

// Len returns the number of bits indexed.
func (rs *RankSelect) Len() uint64 { return rs.nbits }

// Ones returns the total population count.
func (rs *RankSelect) Ones() uint64 { return rs.total }

// Zeros returns the number of clear bits indexed.
func (rs *RankSelect) Zeros() uint64 { return rs.nbits - rs.total }

// Get returns the bit at position i.
func (rs *RankSelect) Get(i uint64) bool { return rs.content.GetBit(i) }

// Select returns the position of the (0-indexed) rank-th set bit, or
// ok=false if rank >= Ones().
func (rs *RankSelect) Select(rank uint64) (pos uint64, ok bool) {
	if rank >= rs.total {
		return 0, false
	}
	if rs.sel == nil {
		return (BinarySearchOverRanks{}).selectFrom(rs, rank)
	}
	return rs.sel.selectFrom(rs, rank)
}

// Select0 returns the position of the (0-indexed) rank-th clear bit, or
// ok=false if rank >= Zeros(). It binary-searches Rank0 directly rather
// than maintaining a second select index for the complement bitmap.
func (rs *RankSelect) Select0(rank uint64) (pos uint64, ok bool) {
	if rank >= rs.Zeros() {
		return 0, false
	}
	lo, hi := uint64(0), rs.nbits
	for lo < hi {
		mid := lo + (hi-lo)/2
		if rs.Rank0(mid+1) <= rank {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, true
}

func ceilDiv(a, b uint64) uint64 {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}

func lowMask(n uint8) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

func countBitsIn(words []uint64) uint64 {
	var total uint64
	for _, w := range words {
		total += uint64(bits.OnesCount64(w))
	}
	return total
}
