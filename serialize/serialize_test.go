package serialize

import (
	"bytes"
	"testing"

	"github.com/opencoff/go-succinct/internal/testutil"
)

func newAsserter(t *testing.T) testutil.Asserter { return testutil.NewAsserter(t) }

func TestVByteU32RoundTrip(t *testing.T) {
	assert := newAsserter(t)
	values := []uint32{0, 127, 128, 256, 2256, 32256, 8912310, 2_000_000_000, 4_000_000_000, 0xffffffff}
	for _, v := range values {
		var buf bytes.Buffer
		n, err := WriteVByteU32(&buf, v)
		assert(err == nil, "write(%d): %v", v, err)
		assert(n == VByteLenU32(v), "write(%d): wrote %d bytes, VByteLenU32 says %d", v, n, VByteLenU32(v))
		got, err := ReadVByteU32(&buf)
		assert(err == nil, "read(%d): %v", v, err)
		assert(got == v, "roundtrip: got %d want %d", got, v)
	}
}

func TestVByteLenBoundaries(t *testing.T) {
	assert := newAsserter(t)
	assert(VByteLenU32(0) == 1, "len(0)")
	assert(VByteLenU32(127) == 1, "len(127)")
	assert(VByteLenU32(128) == 2, "len(128)")
}

func TestVByteU64RoundTrip(t *testing.T) {
	assert := newAsserter(t)
	values := []uint64{0, 127, 128, 1 << 40, ^uint64(0)}
	for _, v := range values {
		var buf bytes.Buffer
		_, err := WriteVByteU64(&buf, v)
		assert(err == nil, "write(%d): %v", v, err)
		got, err := ReadVByteU64(&buf)
		assert(err == nil, "read(%d): %v", v, err)
		assert(got == v, "roundtrip: got %d want %d", got, v)
	}
}

func TestVByteReadTruncated(t *testing.T) {
	assert := newAsserter(t)
	buf := bytes.NewReader([]byte{0x80}) // continuation bit set, nothing follows
	_, err := ReadVByteU32(buf)
	assert(err != nil, "expected error reading truncated VByte")
}
