// rand.go -- random salt generation for ChdBuilder

package chd

import (
	"crypto/rand"
	"encoding/binary"
	"io"
)

func rand64() uint64 {
	var b [8]byte

	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		panic("chd: can't read crypto/rand")
	}

	return binary.BigEndian.Uint64(b[:])
}
