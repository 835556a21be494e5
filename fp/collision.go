package fp

import "github.com/opencoff/go-succinct/bitpack"

// CollisionSolver accumulates, for one level, the (index, value)
// assignments proposed by every remaining key and decides which
// indices end up uncollided.
type CollisionSolver interface {
	// ProcessFragment registers that key wants value v (the low
	// bitsPerValue bits of v) at the given index.
	ProcessFragment(index int, v uint64, bitsPerValue uint8)

	// Resolved reports whether index is uncollided and has an
	// assigned value once construction is finished.
	Resolved(index int) bool

	// Value returns the value assigned to a resolved index.
	Value(index int, bitsPerValue uint8) uint64
}

// AcceptEquals is the lossless collision solver: it records the first
// value proposed for an index and, if a later key proposes a
// different value for the same index, marks the index collided
// (unresolved) for good. Ported from the upstream LoMemAcceptEquals
// solver (bit-packed fragment storage, one CollisionSolver per
// level).
type AcceptEquals struct {
	occupied bitpack.Vector
	collided bitpack.Vector
	values   bitpack.Vector
}

// NewAcceptEquals allocates a solver for a level of levelSize indices,
// each carrying a bitsPerValue-bit value.
func NewAcceptEquals(levelSize int, bitsPerValue uint8) *AcceptEquals {
	return &AcceptEquals{
		occupied: bitpack.New(uint64(levelSize)),
		collided: bitpack.New(uint64(levelSize)),
		values:   bitpack.New(uint64(levelSize) * uint64(bitsPerValue)),
	}
}

func (s *AcceptEquals) ProcessFragment(index int, v uint64, bitsPerValue uint8) {
	i := uint64(index)
	if !s.occupied.GetBit(i) {
		s.occupied.SetBit(i)
		s.values.InitFragment(i, bitsPerValue, v)
		return
	}
	if s.values.GetFragment(i, bitsPerValue) != v {
		s.collided.SetBit(i)
	}
}

func (s *AcceptEquals) Resolved(index int) bool {
	i := uint64(index)
	return s.occupied.GetBit(i) && !s.collided.GetBit(i)
}

func (s *AcceptEquals) Value(index int, bitsPerValue uint8) uint64 {
	return s.values.GetFragment(uint64(index), bitsPerValue)
}

// MinFragment is a lossy collision solver: every index accepts
// whichever of its colliding proposals is numerically smallest,
// instead of rejecting the index outright. It never fails to resolve
// an index that was proposed at all, at the cost of occasionally
// returning a value smaller than what some caller actually stored --
// the same trade the upstream AcceptLimitedAverageDifference solver
// makes, simplified here to a plain minimum (no running-average
// bookkeeping). FP-Map construction (Build) uses MinFragment whenever
// Config.Lossy is set; BuildCMap always uses AcceptEquals.
type MinFragment struct {
	occupied bitpack.Vector
	values   bitpack.Vector
}

// NewMinFragment allocates a solver for a level of levelSize indices,
// each carrying a bitsPerValue-bit value.
func NewMinFragment(levelSize int, bitsPerValue uint8) *MinFragment {
	return &MinFragment{
		occupied: bitpack.New(uint64(levelSize)),
		values:   bitpack.New(uint64(levelSize) * uint64(bitsPerValue)),
	}
}

func (s *MinFragment) ProcessFragment(index int, v uint64, bitsPerValue uint8) {
	i := uint64(index)
	if !s.occupied.GetBit(i) {
		s.occupied.SetBit(i)
		s.values.InitFragment(i, bitsPerValue, v)
		return
	}
	bitpack.ConditionallyChangeBits(s.values, i*uint64(bitsPerValue), bitsPerValue, func(old uint64) (uint64, bool) {
		if v < old {
			return v, true
		}
		return 0, false
	})
}

func (s *MinFragment) Resolved(index int) bool {
	return s.occupied.GetBit(uint64(index))
}

func (s *MinFragment) Value(index int, bitsPerValue uint8) uint64 {
	return s.values.GetFragment(uint64(index), bitsPerValue)
}

// resolvedBits builds the per-index bit vector marking which indices
// this solver resolved, ready to become one segment of the
// concatenated level array a.
func resolvedBits(s CollisionSolver, levelSize int) bitpack.Vector {
	v := bitpack.New(uint64(levelSize))
	for i := 0; i < levelSize; i++ {
		if s.Resolved(i) {
			v.SetBit(uint64(i))
		}
	}
	return v
}
