package fp

import (
	"testing"

	"github.com/opencoff/go-succinct/internal/testutil"
)

func newAsserter(t *testing.T) testutil.Asserter { return testutil.NewAsserter(t) }

func byteKeys(s string) [][]byte {
	out := make([][]byte, len(s))
	for i, c := range []byte(s) {
		out[i] = []byte{c}
	}
	return out
}

func TestMap8Keys(t *testing.T) {
	assert := newAsserter(t)
	keys := byteKeys("abcdefgh")
	values := []uint64{1, 2, 1, 3, 4, 1, 5, 6}

	m, err := Build(keys, values, 3, Config{})
	assert(err == nil, "build: %v", err)

	for i, k := range keys {
		got, ok := m.Get(k)
		assert(ok, "get(%s): not found", k)
		assert(got == values[i], "get(%s): got %d want %d", k, got, values[i])
	}
}

func TestMapOptimalLevelSizer(t *testing.T) {
	assert := newAsserter(t)
	keys := byteKeys("abcdefgh")
	values := []uint64{1, 2, 1, 3, 4, 1, 5, 6}

	m, err := Build(keys, values, 3, Config{LevelSizer: Optimal{}})
	assert(err == nil, "build: %v", err)
	for i, k := range keys {
		got, ok := m.Get(k)
		assert(ok, "get(%s): not found", k)
		assert(got == values[i], "get(%s): got %d want %d", k, got, values[i])
	}
}

func TestMapDuplicateKeyFails(t *testing.T) {
	assert := newAsserter(t)
	keys := [][]byte{[]byte("a"), []byte("a")}
	values := []uint64{1, 2}
	_, err := Build(keys, values, 2, Config{})
	assert(err != nil, "expected duplicate-key construction to fail")
}

// TestMapLossyResolvesSingleLevel checks the Config.Lossy path: since
// MinFragment.Resolved reports every touched index as resolved (never
// bumping a colliding key to the next level), construction finishes
// in exactly one level, and every key looks up to a value no larger
// than what it originally proposed (a collision can only replace a
// stored value with a smaller one).
func TestMapLossyResolvesSingleLevel(t *testing.T) {
	assert := newAsserter(t)
	keys := byteKeys("abcdefgh")
	values := []uint64{7, 6, 5, 4, 3, 2, 1, 0}

	m, err := Build(keys, values, 3, Config{Lossy: true})
	assert(err == nil, "build: %v", err)
	assert(len(m.levelSizes) == 1, "lossy build should resolve in a single level, used %d", len(m.levelSizes))

	for i, k := range keys {
		got, ok := m.Get(k)
		assert(ok, "get(%s): not found", k)
		assert(got <= values[i], "get(%s): got %d, want <= %d (lossy keeps the minimum)", k, got, values[i])
	}
}

func TestCMap4Keys(t *testing.T) {
	assert := newAsserter(t)
	keys := byteKeys("abcd")
	values := []int{1, 2, 1, 3}

	m, err := BuildCMap(keys, values, 1, Config{})
	assert(err == nil, "build: %v", err)

	for i, k := range keys {
		got, ok := m.Get(k)
		assert(ok, "get(%s): not found", k)
		assert(got == values[i], "get(%s): got %d want %d", k, got, values[i])
	}
}

func TestCMapLargerSkewedInput(t *testing.T) {
	assert := newAsserter(t)
	keys := byteKeys("abcdefghijklmnop")
	values := []string{
		"x", "x", "x", "x", "x", "x", "x", "x",
		"y", "y", "y", "y", "z", "z", "w", "v",
	}

	m, err := BuildCMap(keys, values, 2, Config{})
	assert(err == nil, "build: %v", err)
	for i, k := range keys {
		got, ok := m.Get(k)
		assert(ok, "get(%s): not found", k)
		assert(got == values[i], "get(%s): got %q want %q", k, got, values[i])
	}
}
