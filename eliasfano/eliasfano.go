// Package eliasfano encodes a non-decreasing sequence of u64 values in
// close to the information-theoretic minimum space, using Elias-Fano's
// classic high/low bit split backed by a rankselect.RankSelect index
// over the high bits.
package eliasfano

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/opencoff/go-succinct/bitpack"
	"github.com/opencoff/go-succinct/rankselect"
)

// Builder accumulates values in non-decreasing order and produces an
// EliasFano sequence via Finish.
type Builder struct {
	hi         bitpack.Vector
	hiBits     uint64
	lo         bitpack.Vector
	bitsPerLo  uint8
	len        int
	finalLen   int
	lastAdded  uint64
	universe   uint64
}

// NewBuilder prepares a Builder for finalLen values drawn from
// [0, universe).
func NewBuilder(finalLen int, universe uint64) *Builder {
	b := &Builder{finalLen: finalLen, universe: universe}
	if finalLen == 0 || universe == 0 {
		return b
	}
	b.bitsPerLo = ilog2(universe / uint64(finalLen))
	b.hiBits = uint64(finalLen) + ((universe - 1) >> b.bitsPerLo)
	b.hi = bitpack.New(b.hiBits)
	loBits := uint64(finalLen) * uint64(b.bitsPerLo)
	if loBits == 0 {
		loBits = 1
	}
	b.lo = bitpack.New(loBits)
	return b
}

func ilog2(v uint64) uint8 {
	if v == 0 {
		return 0
	}
	return uint8(bits.Len64(v) - 1)
}

// Push appends value, which must be < the universe and >= every
// previously pushed value.
func (b *Builder) Push(value uint64) {
	if value >= b.universe {
		panic(fmt.Sprintf("eliasfano: value %d outside universe (< %d)", value, b.universe))
	}
	if b.len >= b.finalLen {
		panic(fmt.Sprintf("eliasfano: push exceeds declared length %d", b.finalLen))
	}
	if value < b.lastAdded {
		panic(fmt.Sprintf("eliasfano: values must be non-decreasing, got %d after %d", value, b.lastAdded))
	}
	b.hi.SetBit((value >> b.bitsPerLo) + uint64(b.len))
	b.lo.InitFragment(uint64(b.len), b.bitsPerLo, value&lowMask(b.bitsPerLo))
	b.len++
	b.lastAdded = value
}

// PushAll pushes every value in values via Push.
func (b *Builder) PushAll(values []uint64) {
	for _, v := range values {
		b.Push(v)
	}
}

func lowMask(n uint8) uint64 {
	if n == 0 {
		return 0
	}
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// Finish builds the queryable EliasFano sequence. It panics if fewer
// than the declared number of values were pushed.
func (b *Builder) Finish() *EliasFano {
	if b.len != b.finalLen {
		panic(fmt.Sprintf("eliasfano: finish called with %d of declared %d values", b.len, b.finalLen))
	}
	var rs *rankselect.RankSelect
	if b.finalLen > 0 {
		rs = rankselect.Build(b.hi, b.hiBits, rankselect.Bits101111{}, &rankselect.CombinedSampling{})
	}
	return &EliasFano{hi: rs, lo: b.lo, bitsPerLo: b.bitsPerLo, len: b.len}
}

// EliasFano is a compactly-encoded non-decreasing sequence of u64.
type EliasFano struct {
	hi        *rankselect.RankSelect
	lo        bitpack.Vector
	bitsPerLo uint8
	len       int
}

// Len returns the number of stored values.
func (e *EliasFano) Len() int { return e.len }

// Get returns the index-th value (0-indexed, ascending order).
func (e *EliasFano) Get(index int) (uint64, bool) {
	if index < 0 || index >= e.len {
		return 0, false
	}
	pos, ok := e.hi.Select(uint64(index))
	if !ok {
		return 0, false
	}
	hiBits := pos - uint64(index)
	return hiBits<<e.bitsPerLo | e.lo.GetFragment(uint64(index), e.bitsPerLo), true
}

// IndexOf returns the index of value v if present, via binary search
// over the monotone sequence.
func (e *EliasFano) IndexOf(v uint64) (int, bool) {
	idx := sort.Search(e.len, func(i int) bool {
		got, _ := e.Get(i)
		return got >= v
	})
	if idx >= e.len {
		return 0, false
	}
	got, _ := e.Get(idx)
	if got != v {
		return 0, false
	}
	return idx, true
}

// Values materializes the whole sequence; for large sequences prefer
// iterating with Position/Advance to avoid the O(n) allocation.
func (e *EliasFano) Values() []uint64 {
	out := make([]uint64, e.len)
	for i := range out {
		out[i], _ = e.Get(i)
	}
	return out
}

// Position is a restartable cursor into an EliasFano sequence, advanced
// forward with Advance and backward with AdvanceBack.
type Position struct {
	hi uint64
	lo int
}

func (p Position) hiBits() uint64 { return p.hi - uint64(p.lo) }

// Begin returns the position of the first value.
func (e *EliasFano) Begin() Position {
	if e.hi == nil {
		return Position{hi: 0, lo: 0}
	}
	return Position{hi: firstSetBit(e.hi), lo: 0}
}

// End returns the one-past-the-last position (ValueAt is invalid there).
func (e *EliasFano) End() Position {
	hiLen := uint64(0)
	if e.hi != nil {
		hiLen = e.hi.Len()
	}
	return Position{hi: hiLen, lo: e.len}
}

// ValueAt returns the value at p; p must be a valid (non-End) position.
func (e *EliasFano) ValueAt(p Position) uint64 {
	return p.hiBits()<<e.bitsPerLo | e.lo.GetFragment(uint64(p.lo), e.bitsPerLo)
}

// Advance moves p to the next position.
func (e *EliasFano) Advance(p *Position) {
	p.lo++
	if p.lo != e.len {
		p.hi = nextSetBit(e.hi, p.hi+1)
	} else {
		p.hi = uint64(e.len) * 64
	}
}

// AdvanceBack moves p to the previous position.
func (e *EliasFano) AdvanceBack(p *Position) {
	p.lo--
	p.hi = prevSetBit(e.hi, p.hi-1)
}

func firstSetBit(rs *rankselect.RankSelect) uint64 {
	pos, ok := rs.Select(0)
	if !ok {
		return 0
	}
	return pos
}

func nextSetBit(rs *rankselect.RankSelect, from uint64) uint64 {
	for i := from; i < rs.Len(); i++ {
		if rs.Get(i) {
			return i
		}
	}
	return rs.Len()
}

func prevSetBit(rs *rankselect.RankSelect, from uint64) uint64 {
	for i := int64(from); i >= 0; i-- {
		if rs.Get(uint64(i)) {
			return uint64(i)
		}
	}
	return 0
}

// Iterator walks an EliasFano sequence forward and backward.
type Iterator struct {
	seq        *EliasFano
	begin, end Position
}

// Iter returns a forward/backward iterator over the whole sequence.
func (e *EliasFano) Iter() *Iterator {
	return &Iterator{seq: e, begin: e.Begin(), end: e.End()}
}

// Next returns the next value, or ok=false when exhausted.
func (it *Iterator) Next() (uint64, bool) {
	if it.begin.lo == it.end.lo {
		return 0, false
	}
	v := it.seq.ValueAt(it.begin)
	it.seq.Advance(&it.begin)
	return v, true
}

// Prev returns the previous value (from the tail), or ok=false when exhausted.
func (it *Iterator) Prev() (uint64, bool) {
	if it.begin.lo == it.end.lo {
		return 0, false
	}
	it.seq.AdvanceBack(&it.end)
	return it.seq.ValueAt(it.end), true
}
