package hash

import (
	"testing"

	"github.com/opencoff/go-succinct/internal/testutil"
)

func newAsserter(t *testing.T) testutil.Asserter { return testutil.NewAsserter(t) }

func TestMapToRangeBounds(t *testing.T) {
	assert := newAsserter(t)

	for _, n := range []uint64{1, 7, 1000, 1 << 40} {
		for _, h := range []uint64{0, 1, ^uint64(0), 0x0123456789abcdef} {
			got := MapToRange(h, n)
			assert(got < n, "MapToRange(%#x, %d) = %d, want < %d", h, n, got, n)
		}
	}
}

func TestMapToRangeZero(t *testing.T) {
	assert := newAsserter(t)
	assert(MapToRange(^uint64(0), 1) == 0, "MapToRange(_, 1) must always be 0")
}

func TestFastHashDeterministic(t *testing.T) {
	assert := newAsserter(t)
	var h FastHash
	a := h.Hash64(42, []byte("hello"))
	b := h.Hash64(42, []byte("hello"))
	assert(a == b, "hash not deterministic: %d vs %d", a, b)
	c := h.Hash64(43, []byte("hello"))
	assert(a != c, "hash did not change with seed")
}
