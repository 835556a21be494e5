package phast

import (
	"testing"

	"github.com/opencoff/go-succinct/internal/testutil"
)

func newAsserter(t *testing.T) testutil.Asserter { return testutil.NewAsserter(t) }

func hashedKeys(n int) []uint64 {
	keys := make([]uint64, n)
	var x uint64 = 0x9e3779b97f4a7c15
	for i := range keys {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		keys[i] = x
	}
	return keys
}

func TestBuildSmallInjective(t *testing.T) {
	assert := newAsserter(t)
	keys := hashedKeys(20)

	f := Build(keys, Config{})
	seen := make(map[int]bool)
	for _, k := range keys {
		pos := f.Get(k)
		assert(pos >= 0, "key %x: no position assigned", k)
		assert(pos < f.OutputRange(), "key %x: position %d out of range %d", k, pos, f.OutputRange())
		assert(!seen[pos], "key %x: position %d already claimed by another key", k, pos)
		seen[pos] = true
	}
}

func TestBuildLargerInjective(t *testing.T) {
	assert := newAsserter(t)
	keys := hashedKeys(500)

	f := Build(keys, Config{BitsPerSeed: 8})
	seen := make(map[int]bool)
	for _, k := range keys {
		pos := f.Get(k)
		assert(pos >= 0, "key %x: no position assigned", k)
		assert(!seen[pos], "key %x: position %d already claimed by another key", k, pos)
		seen[pos] = true
	}
}

// TestBuildForcesFullImageCoverage uses a seed width narrow enough
// (only one candidate non-zero seed) that most multi-key buckets bump,
// driving the build through several recursive bump tiers and the
// CompressedArray-backed freeList. It then checks the thing that
// matters for minimality: every position in [0, OutputRange()) is
// claimed by exactly one key, not merely that no key collides.
func TestBuildForcesFullImageCoverage(t *testing.T) {
	assert := newAsserter(t)
	keys := hashedKeys(300)

	f := Build(keys, Config{BitsPerSeed: 1, BucketSize100: 2000, MaxBumpTiers: 6})
	assert(f.OutputRange() == len(keys), "output range %d, want %d (exactly one slot per key)", f.OutputRange(), len(keys))

	seen := make([]bool, f.OutputRange())
	for _, k := range keys {
		pos := f.Get(k)
		assert(pos >= 0, "key %x: no position assigned", k)
		assert(pos < f.OutputRange(), "key %x: position %d out of range %d", k, pos, f.OutputRange())
		assert(!seen[pos], "key %x: position %d already claimed by another key", k, pos)
		seen[pos] = true
	}
	for i, ok := range seen {
		assert(ok, "position %d never claimed by any key: image is not exactly [0,n)", i)
	}
}

// TestBuildKPerfectOutputRange checks the K>1 path: the function's
// range shrinks to ceil(n/K) and every key still resolves within it,
// whether via a seed or the K>1 overflow fallback.
func TestBuildKPerfectOutputRange(t *testing.T) {
	assert := newAsserter(t)
	keys := hashedKeys(100)

	f := Build(keys, Config{K: 4})
	want := (len(keys) + 3) / 4
	assert(f.OutputRange() == want, "k=4 output range: got %d want %d", f.OutputRange(), want)
	assert(f.K() == 4, "K(): got %d want 4", f.K())

	for _, k := range keys {
		pos := f.Get(k)
		assert(pos >= 0, "key %x: no position assigned", k)
		assert(pos < f.OutputRange(), "key %x: position %d out of range %d", k, pos, f.OutputRange())
	}
}

func TestCompactRoundTrip(t *testing.T) {
	assert := newAsserter(t)
	values := []int{0, 3, 7, 15, 1, 9}
	c := NewCompact(values, 15)
	for i, v := range values {
		got := c.Get(i)
		assert(got == v, "index %d: got %d want %d", i, got, v)
	}
}

func TestEliasFanoArrayRoundTrip(t *testing.T) {
	assert := newAsserter(t)
	values := []uint64{0, 1, 4, 4, 9, 20}
	a := NewEliasFanoArray(values, 21)
	for i, v := range values {
		got := a.Get(i)
		assert(uint64(got) == v, "index %d: got %d want %d", i, got, v)
	}
}

func TestLinearRegressionRoundTrip(t *testing.T) {
	assert := newAsserter(t)
	values := []int{0, 2, 4, 6, 8, 10, 12}
	lr := NewLinearRegressionSimple(values, 12)
	for i, v := range values {
		got := lr.Get(i)
		assert(got == v, "index %d: got %d want %d", i, got, v)
	}
}
