package eliasfano

import (
	"testing"

	"github.com/opencoff/go-succinct/internal/testutil"
)

func newAsserter(t *testing.T) testutil.Asserter { return testutil.NewAsserter(t) }

func TestSmallSparse(t *testing.T) {
	assert := newAsserter(t)

	b := NewBuilder(5, 1000)
	b.PushAll([]uint64{0, 1, 801, 920, 999})
	ef := b.Finish()

	want := []uint64{0, 1, 801, 920, 999}
	for i, w := range want {
		got, ok := ef.Get(i)
		assert(ok, "get(%d) not ok", i)
		assert(got == w, "get(%d): got %d want %d", i, got, w)
	}
	_, ok := ef.Get(5)
	assert(!ok, "get(5) should be out of range")

	it := ef.Iter()
	for i := 0; i < len(want); i++ {
		v, ok := it.Next()
		assert(ok, "iter.Next() exhausted early at %d", i)
		assert(v == want[i], "iter forward[%d]: got %d want %d", i, v, want[i])
	}

	it = ef.Iter()
	for i := len(want) - 1; i >= 0; i-- {
		v, ok := it.Prev()
		assert(ok, "iter.Prev() exhausted early")
		assert(v == want[i], "iter backward: got %d want %d", v, want[i])
	}
}

func TestSmallDense(t *testing.T) {
	assert := newAsserter(t)

	b := NewBuilder(5, 6)
	b.PushAll([]uint64{0, 1, 3, 4, 5})
	ef := b.Finish()

	want := []uint64{0, 1, 3, 4, 5}
	for i, w := range want {
		got, ok := ef.Get(i)
		assert(ok, "get(%d) not ok", i)
		assert(got == w, "get(%d): got %d want %d", i, got, w)
	}
	_, ok := ef.Get(5)
	assert(!ok, "get(5) should be out of range")
}

func TestIndexOf(t *testing.T) {
	assert := newAsserter(t)

	b := NewBuilder(5, 1000)
	b.PushAll([]uint64{0, 1, 801, 920, 999})
	ef := b.Finish()

	idx, ok := ef.IndexOf(920)
	assert(ok, "indexof(920) not found")
	assert(idx == 3, "indexof(920): got %d want 3", idx)

	_, ok = ef.IndexOf(802)
	assert(!ok, "indexof(802) should not be found")
}

func TestPushOutOfOrderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on out-of-order push")
		}
	}()
	b := NewBuilder(2, 100)
	b.Push(5)
	b.Push(3)
}
