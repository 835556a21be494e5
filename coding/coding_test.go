package coding

import (
	"testing"

	"github.com/opencoff/go-succinct/internal/testutil"
)

func newAsserter(t *testing.T) testutil.Asserter { return testutil.NewAsserter(t) }

// roundTrip encodes every value via its codeword and decodes it back
// through a fresh Decoder, fragment by fragment.
func roundTrip[V comparable](t *testing.T, c *Coding[V], values []V) {
	t.Helper()
	assert := newAsserter(t)
	for i, want := range values {
		code, err := c.Encode(i)
		assert(err == nil, "encode(%d): %v", i, err)
		frags := code.Fragments(c.FragmentBits)

		d := NewDecoder(c)
		idx := 0
		got, ok := d.Decode(func() (uint32, bool) {
			if idx >= len(frags) {
				return 0, false
			}
			f := frags[idx]
			idx++
			return f, true
		})
		assert(ok, "decode value %d failed", i)
		assert(got == want, "decode value %d: got %v want %v", i, got, want)
	}
}

func TestHuffmanRoundTrip(t *testing.T) {
	values := []string{"a", "b", "c", "d", "e"}
	weights := []uint64{50, 20, 15, 10, 5}
	c := Build(values, weights, 1)
	roundTrip(t, c, values)
}

func TestHuffmanRoundTripWiderFragment(t *testing.T) {
	values := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	weights := []uint64{100, 90, 80, 70, 1, 1, 1, 1, 1}
	c := Build(values, weights, 2)
	roundTrip(t, c, values)
}

func TestHuffmanSingleValue(t *testing.T) {
	assert := newAsserter(t)
	c := Build([]string{"only"}, []uint64{1}, 4)
	code, err := c.Encode(0)
	assert(err == nil, "encode: %v", err)
	assert(code.Len == 0, "single-value code should have zero length")

	d := NewDecoder(c)
	got, ok := d.Decode(func() (uint32, bool) { return 0, false })
	assert(ok, "single-value decode should succeed without fragments")
	assert(got == "only", "got %q want %q", got, "only")
}

func TestCountFrequencies(t *testing.T) {
	assert := newAsserter(t)
	values, weights := CountFrequencies([]string{"x", "y", "x", "x", "z"})
	total := map[string]uint64{}
	for i, v := range values {
		total[v] = weights[i]
	}
	assert(total["x"] == 3, "x count: got %d want 3", total["x"])
	assert(total["y"] == 1, "y count: got %d want 1", total["y"])
	assert(total["z"] == 1, "z count: got %d want 1", total["z"])
}

// searchInvalidPath depth-first searches fragment sequences (up to a
// small depth bound) for one that lands on a padding leaf, returning
// the path or nil if none exists within the bound.
func searchInvalidPath[V any](c *Coding[V], maxDepth int) []uint32 {
	degree := c.Degree()
	var dfs func(d Decoder[V], path []uint32, depth int) []uint32
	dfs = func(d Decoder[V], path []uint32, depth int) []uint32 {
		if depth > maxDepth {
			return nil
		}
		for f := uint32(0); f < degree; f++ {
			nd := d
			r := nd.Consume(f)
			np := append(append([]uint32{}, path...), f)
			if r.Invalid {
				return np
			}
			if r.Done {
				continue
			}
			if found := dfs(nd, np, depth+1); found != nil {
				return found
			}
		}
		return nil
	}
	return dfs(*NewDecoder(c), nil, 0)
}

func TestDecodePaddingLeafIsInvalid(t *testing.T) {
	assert := newAsserter(t)
	values := []int{0, 1, 2, 3, 4}
	weights := []uint64{50, 20, 15, 10, 5}
	c := Build(values, weights, 2) // degree 4: 5 leaves needs padding

	hasDummy := false
	for _, present := range c.Present {
		if !present {
			hasDummy = true
		}
	}
	assert(hasDummy, "expected this construction to require padding leaves")

	path := searchInvalidPath(c, 6)
	assert(path != nil, "expected some fragment sequence to land on a padding leaf")

	d := NewDecoder(c)
	var result DecodingResult[int]
	for _, f := range path {
		result = d.Consume(f)
	}
	assert(result.Invalid, "decoding path %v: expected Invalid, got %+v", path, result)
}

func TestDecodeNextResets(t *testing.T) {
	assert := newAsserter(t)
	values := []int{1, 2, 3, 4}
	weights := []uint64{10, 5, 3, 1}
	c := Build(values, weights, 1)

	var allFrags []uint32
	for i := range values {
		code, _ := c.Encode(i)
		allFrags = append(allFrags, code.Fragments(c.FragmentBits)...)
	}

	d := NewDecoder(c)
	pos := 0
	next := func() (uint32, bool) {
		if pos >= len(allFrags) {
			return 0, false
		}
		f := allFrags[pos]
		pos++
		return f, true
	}
	for i, want := range values {
		got, ok := d.DecodeNext(next)
		assert(ok, "decode value %d failed", i)
		assert(got == want, "decode value %d: got %v want %v", i, got, want)
	}
}
