package bitpack

import (
	"testing"

	"github.com/opencoff/go-succinct/internal/testutil"
)

func newAsserter(t *testing.T) testutil.Asserter { return testutil.NewAsserter(t) }

func TestBitOps(t *testing.T) {
	assert := newAsserter(t)

	v := New(128)
	for i := uint64(0); i < v.Len(); i++ {
		if i%3 == 0 {
			v.SetBit(i)
		}
	}
	for i := uint64(0); i < v.Len(); i++ {
		want := i%3 == 0
		assert(v.GetBit(i) == want, "bit %d: got %v want %v", i, v.GetBit(i), want)
	}

	v.ClearBit(0)
	assert(!v.GetBit(0), "bit 0 still set after ClearBit")
}

func TestFragments(t *testing.T) {
	assert := newAsserter(t)

	const n = 11
	count := uint64(50)
	v := New(count * n)
	for i := uint64(0); i < count; i++ {
		v.InitFragment(i, n, i*7%(1<<n))
	}
	for i := uint64(0); i < count; i++ {
		want := i * 7 % (1 << n)
		got := v.GetFragment(i, n)
		assert(got == want, "fragment %d: got %d want %d", i, got, want)
	}
}

func TestStraddlingFragment(t *testing.T) {
	assert := newAsserter(t)

	v := New(128)
	// offset 60 with width 20 straddles the word boundary at bit 64.
	v.SetBits(60, 20, 0xABCDE)
	got := v.GetBits(60, 20)
	assert(got == 0xABCDE, "straddling fragment: got %x want %x", got, 0xABCDE)

	// bits outside the fragment must be untouched.
	v2 := New(128)
	v2.SetBit(59)
	v2.SetBits(60, 20, 0x1)
	assert(v2.GetBit(59), "neighboring bit 59 clobbered")
}

func TestSwapFragments(t *testing.T) {
	assert := newAsserter(t)

	const n = 6
	v := New(20 * n)
	v.InitFragment(2, n, 5)
	v.InitFragment(9, n, 41)
	v.SwapFragments(2, 9, n)
	assert(v.GetFragment(2, n) == 41, "swap: fragment 2 got %d want 41", v.GetFragment(2, n))
	assert(v.GetFragment(9, n) == 5, "swap: fragment 9 got %d want 5", v.GetFragment(9, n))
}

func TestConditionallyChangeBits(t *testing.T) {
	assert := newAsserter(t)

	v := New(64)
	v.SetBits(0, 8, 10)

	old := ConditionallyChangeBits(v, 0, 8, func(cur uint64) (uint64, bool) {
		if cur < 20 {
			return 20, true
		}
		return 0, false
	})
	assert(old == 10, "first call: returned old %d want 10", old)
	assert(v.GetBits(0, 8) == 20, "field should have been updated to 20, got %d", v.GetBits(0, 8))

	old = ConditionallyChangeBits(v, 0, 8, func(cur uint64) (uint64, bool) {
		if cur < 20 {
			return 99, true
		}
		return 0, false
	})
	assert(old == 20, "second call: returned old %d want 20", old)
	assert(v.GetBits(0, 8) == 20, "field should be left unchanged at 20, got %d", v.GetBits(0, 8))
}

func TestPopCount(t *testing.T) {
	assert := newAsserter(t)

	v := New(200)
	for i := uint64(0); i < 150; i += 2 {
		v.SetBit(i)
	}
	got := v.PopCount(150)
	assert(got == 75, "popcount: got %d want 75", got)
}
