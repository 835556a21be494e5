package phast

import (
	"github.com/opencoff/go-succinct/bitpack"
	"github.com/opencoff/go-succinct/eliasfano"
)

// CompressedArray is an abstract array of non-negative integers,
// concrete encodings trading construction cost and monotonicity
// assumptions for space. Function keeps a bump tier's free output
// positions in one (an EliasFanoArray).
type CompressedArray interface {
	Get(index int) int
}

func bitsToStore(maxValue int) uint8 {
	var n uint8
	for (1 << n) <= maxValue {
		n++
	}
	return n
}

// Compact packs each value in ceil(log2(max+1)) bits via bitpack.
type Compact struct {
	store bitpack.Vector
	width uint8
}

// NewCompact builds a Compact array from values (0 <= v <= maxValue).
func NewCompact(values []int, maxValue int) *Compact {
	width := bitsToStore(maxValue)
	if width == 0 {
		width = 1
	}
	v := bitpack.New(uint64(len(values)) * uint64(width))
	for i, val := range values {
		v.InitFragment(uint64(i), width, uint64(val))
	}
	return &Compact{store: v, width: width}
}

func (c *Compact) Get(index int) int {
	return int(c.store.GetFragment(uint64(index), c.width))
}

// EliasFanoArray stores a monotone (non-decreasing) sequence of
// values via the eliasfano package.
type EliasFanoArray struct {
	ef *eliasfano.EliasFano
}

// NewEliasFanoArray builds an EliasFanoArray over the non-decreasing
// values, with the given universe (one past the largest possible
// value).
func NewEliasFanoArray(values []uint64, universe uint64) *EliasFanoArray {
	b := eliasfano.NewBuilder(len(values), universe)
	b.PushAll(values)
	return &EliasFanoArray{ef: b.Finish()}
}

func (e *EliasFanoArray) Get(index int) int {
	v, _ := e.ef.Get(index)
	return int(v)
}

// LinearRegression approximates a near-affine array as
// floor((multiplier*i - offset) / divider) plus a small non-negative
// Compact correction per entry, per the "simple" fitter
// (multiplier/divider = numKeys/(len(values)+1)).
type LinearRegression struct {
	multiplier  int64
	divider     int64
	offset      int64
	corrections *Compact
}

// NewLinearRegressionSimple fits the simple (non-least-squares)
// linear coefficient numKeys/(len(values)+1) and stores the residual
// per entry (always non-negative, since offset is the minimum
// residual across the array).
func NewLinearRegressionSimple(values []int, numKeys int) *LinearRegression {
	multiplier := int64(numKeys)
	divider := int64(len(values) + 1)

	maxDiff := int64(-1) << 62
	minDiff := int64(1) << 62
	for i, v := range values {
		diff := int64(i)*multiplier - int64(v)*divider
		if diff > maxDiff {
			maxDiff = diff
		}
		if diff < minDiff {
			minDiff = diff
		}
	}

	lr := &LinearRegression{multiplier: multiplier, divider: divider, offset: minDiff}
	maxCorrection := int((maxDiff - minDiff) / divider)
	corrections := make([]int, len(values))
	for i, v := range values {
		corrections[i] = int(lr.predict(i)) - v
	}
	lr.corrections = NewCompact(corrections, maxCorrection)
	return lr
}

func (lr *LinearRegression) predict(i int) int64 {
	return (int64(i)*lr.multiplier - lr.offset) / lr.divider
}

func (lr *LinearRegression) Get(index int) int {
	return int(lr.predict(index)) - lr.corrections.Get(index)
}
