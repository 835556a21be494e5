package seeds

import (
	"bytes"
	"testing"

	"github.com/opencoff/go-succinct/internal/testutil"
)

func newAsserter(t *testing.T) testutil.Asserter { return testutil.NewAsserter(t) }

func TestPick(t *testing.T) {
	assert := newAsserter(t)
	assert(Pick(0).BitsPerSeed() == 8, "pick(0) should be 8 bits")
	assert(Pick(255).BitsPerSeed() == 8, "pick(255) should be 8 bits")
	assert(Pick(256).BitsPerSeed() == 16, "pick(256) should be 16 bits")
	assert(Pick(65535).BitsPerSeed() == 16, "pick(65535) should be 16 bits")
	assert(Pick(65536).BitsPerSeed() == 32, "pick(65536) should be 32 bits")
}

func testVec(t *testing.T, sz Size, vals []uint32) {
	assert := newAsserter(t)
	v := sz.NewVec(len(vals))
	for i, x := range vals {
		v.Set(i, x)
	}
	for i, x := range vals {
		got := v.Get(i)
		assert(got == x, "vec[%d]: got %d want %d", i, got, x)
	}
	var buf bytes.Buffer
	n, err := v.Marshal(&buf)
	assert(err == nil, "marshal error: %v", err)
	assert(n == buf.Len(), "marshal returned %d but wrote %d bytes", n, buf.Len())
}

func TestBits8Vec(t *testing.T)  { testVec(t, Bits8{}, []uint32{0, 1, 255, 128}) }
func TestBits16Vec(t *testing.T) { testVec(t, Bits16{}, []uint32{0, 1, 65535, 4000}) }
func TestBits32Vec(t *testing.T) { testVec(t, Bits32{}, []uint32{0, 1, 1 << 31, 123456}) }
func TestBitsNVec(t *testing.T)  { testVec(t, BitsN{N: 11}, []uint32{0, 1, 2047, 1000}) }
