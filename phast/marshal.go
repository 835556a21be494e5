package phast

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrCorrupt is returned by UnmarshalBinary when buf is truncated or
// otherwise inconsistent with a Function's encoding.
var ErrCorrupt = errors.New("phast: corrupt data")

// MarshalBinary writes this Function, including any bump tiers and the
// exact overflow map, to w. The on-wire seed table is always 32 bits
// wide regardless of bitsPerSeed, trading a little space for a format
// that doesn't need to special-case the narrow seed widths at read
// time.
func (f *Function) MarshalBinary(w io.Writer) (int, error) {
	var hdr [13]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(f.conf.BucketsNum))
	binary.LittleEndian.PutUint16(hdr[4:6], f.conf.SliceLenMinusOne)
	binary.LittleEndian.PutUint32(hdr[6:10], uint32(f.conf.NumOfSlices))
	hdr[10] = f.bitsPerSeed
	hdr[11] = f.k
	var flags byte
	if f.bump != nil {
		flags |= 1
	}
	if f.overflow != nil {
		flags |= 2
	}
	hdr[12] = flags

	total, err := w.Write(hdr[:])
	if err != nil {
		return total, err
	}

	seedBuf := make([]byte, 4*f.seedVec.Len())
	for i := 0; i < f.seedVec.Len(); i++ {
		binary.LittleEndian.PutUint32(seedBuf[4*i:], f.seedVec.Get(i))
	}
	nw, err := w.Write(seedBuf)
	total += nw
	if err != nil {
		return total, err
	}

	if f.bump != nil {
		var lb [4]byte
		binary.LittleEndian.PutUint32(lb[:], uint32(f.freeLen))
		nw, err := w.Write(lb[:])
		total += nw
		if err != nil {
			return total, err
		}

		freeBuf := make([]byte, 8*f.freeLen)
		for i := 0; i < f.freeLen; i++ {
			binary.LittleEndian.PutUint64(freeBuf[8*i:], uint64(f.freeList.Get(i)))
		}
		nw, err = w.Write(freeBuf)
		total += nw
		if err != nil {
			return total, err
		}

		nw, err = f.bump.MarshalBinary(w)
		total += nw
		if err != nil {
			return total, err
		}
	}

	if f.overflow != nil {
		var ob [4]byte
		binary.LittleEndian.PutUint32(ob[:], uint32(len(f.overflow)))
		nw, err := w.Write(ob[:])
		total += nw
		if err != nil {
			return total, err
		}
		for k, v := range f.overflow {
			var kv [12]byte
			binary.LittleEndian.PutUint64(kv[0:8], k)
			binary.LittleEndian.PutUint32(kv[8:12], uint32(v))
			nw, err := w.Write(kv[:])
			total += nw
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// UnmarshalBinary decodes a Function (and any nested bump tiers) from
// the front of buf, mirroring the teacher's UnmarshalBinaryMmap
// convention of reading directly out of a memory-mapped byte slice.
// It returns the Function and the unconsumed remainder of buf.
func UnmarshalBinary(buf []byte) (*Function, []byte, error) {
	if len(buf) < 13 {
		return nil, nil, ErrCorrupt
	}
	bucketsNum := int(binary.LittleEndian.Uint32(buf[0:4]))
	sliceLenMinusOne := binary.LittleEndian.Uint16(buf[4:6])
	numOfSlices := int(binary.LittleEndian.Uint32(buf[6:10]))
	bitsPerSeed := buf[10]
	k := buf[11]
	flags := buf[12]
	buf = buf[13:]

	need := 4 * bucketsNum
	if len(buf) < need {
		return nil, nil, ErrCorrupt
	}
	seedVec := rawSeedVec(make([]uint32, bucketsNum))
	for i := 0; i < bucketsNum; i++ {
		seedVec[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	buf = buf[need:]

	conf := Conf{BucketsNum: bucketsNum, SliceLenMinusOne: sliceLenMinusOne, NumOfSlices: numOfSlices}
	f := &Function{
		conf:        conf,
		bitsPerSeed: bitsPerSeed,
		k:           k,
		seedVec:     seedVec,
	}

	if flags&1 != 0 {
		if len(buf) < 4 {
			return nil, nil, ErrCorrupt
		}
		freeLen := int(binary.LittleEndian.Uint32(buf[0:4]))
		buf = buf[4:]
		if len(buf) < 8*freeLen {
			return nil, nil, ErrCorrupt
		}
		free := make([]uint64, freeLen)
		for i := 0; i < freeLen; i++ {
			free[i] = binary.LittleEndian.Uint64(buf[8*i:])
		}
		buf = buf[8*freeLen:]

		f.freeLen = freeLen
		f.freeList = NewEliasFanoArray(free, uint64(conf.OutputRange(0)))

		inner, rest, err := UnmarshalBinary(buf)
		if err != nil {
			return nil, nil, err
		}
		f.bump = inner
		buf = rest
	}

	if flags&2 != 0 {
		if len(buf) < 4 {
			return nil, nil, ErrCorrupt
		}
		count := int(binary.LittleEndian.Uint32(buf[0:4]))
		buf = buf[4:]
		f.overflow = make(map[uint64]int, count)
		for i := 0; i < count; i++ {
			if len(buf) < 12 {
				return nil, nil, ErrCorrupt
			}
			key := binary.LittleEndian.Uint64(buf[0:8])
			pos := int(binary.LittleEndian.Uint32(buf[8:12]))
			f.overflow[key] = pos
			buf = buf[12:]
		}
	}

	return f, buf, nil
}

// rawSeedVec is a bare []uint32 satisfying seeds.Vec, used only to
// reconstitute a Function from its on-wire (always 32-bit) seed table
// without going through seeds.Size/Pick.
type rawSeedVec []uint32

func (v rawSeedVec) Len() int            { return len(v) }
func (v rawSeedVec) Get(i int) uint32    { return v[i] }
func (v rawSeedVec) Set(i int, x uint32) { v[i] = x }
func (v rawSeedVec) Marshal(w io.Writer) (int, error) {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], x)
	}
	return w.Write(buf)
}
