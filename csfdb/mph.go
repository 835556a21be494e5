// mph.go -- minimal perfect hash backend abstraction for csfdb
//
// csfdb can build its constant database atop either of the two MPHF
// constructions this module implements: the teacher's original CHD
// (internal/chd) or the newer PHast (phast). Both are exposed behind
// the same narrow mph/mphBuilder pair so DBWriter/DBReader don't care
// which one backs a given file; the on-disk header records which.
package csfdb

import (
	"fmt"
	"io"

	"github.com/opencoff/go-succinct/internal/chd"
	"github.com/opencoff/go-succinct/phast"
)

// Algo selects the MPHF construction a DBWriter builds against.
type Algo byte

const (
	AlgoCHD Algo = iota
	AlgoPHast
)

func (a Algo) String() string {
	switch a {
	case AlgoCHD:
		return "chd"
	case AlgoPHast:
		return "phast"
	default:
		return "unknown"
	}
}

// ParseAlgo maps a command-line/config name to an Algo.
func ParseAlgo(name string) (Algo, error) {
	switch name {
	case "chd":
		return AlgoCHD, nil
	case "phast", "":
		return AlgoPHast, nil
	default:
		return 0, fmt.Errorf("%s: unknown MPHF algorithm", name)
	}
}

// mph is a frozen minimal perfect hash function, queryable by key and
// serializable to disk.
type mph interface {
	Len() int
	Find(key uint64) uint64
	MarshalBinary(w io.Writer) (int, error)
}

// mphBuilder accumulates keys and produces an mph.
type mphBuilder interface {
	Add(key uint64) error
	Freeze(load float64) (mph, error)
}

func newBuilder(algo Algo) (mphBuilder, error) {
	switch algo {
	case AlgoCHD:
		bb, err := chd.New()
		if err != nil {
			return nil, err
		}
		return &chdBuilder{bb: bb}, nil
	case AlgoPHast:
		return &phastBuilder{}, nil
	default:
		return nil, fmt.Errorf("%d: unknown MPHF algorithm", algo)
	}
}

func unmarshalMPH(algo Algo, buf []byte) (mph, error) {
	switch algo {
	case AlgoCHD:
		c := &chd.Chd{}
		if err := c.UnmarshalBinaryMmap(buf); err != nil {
			return nil, err
		}
		return c, nil
	case AlgoPHast:
		f, _, err := phast.UnmarshalBinary(buf)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%d: unknown MPHF algorithm", algo)
	}
}

// chdBuilder adapts internal/chd.ChdBuilder to mphBuilder.
type chdBuilder struct {
	bb *chd.ChdBuilder
}

func (b *chdBuilder) Add(key uint64) error { return b.bb.Add(key) }

func (b *chdBuilder) Freeze(load float64) (mph, error) {
	c, err := b.bb.Freeze(load)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// phastBuilder adapts phast.Build (which takes its whole key set at
// once) to the incremental Add/Freeze shape chdBuilder already has,
// by collecting keys and deferring the actual build to Freeze.
type phastBuilder struct {
	keys []uint64
}

func (b *phastBuilder) Add(key uint64) error {
	b.keys = append(b.keys, key)
	return nil
}

// Freeze builds a PHast function over the accumulated keys. PHast's
// table size is governed by phast.Config.BucketSize100, not a single
// load factor: for load in (0,1) the build uses 8-bit seeds and the
// matching default bucket size, scaled down by load/0.85 when load is
// below 0.85; any other load leaves phast's defaults in place.
func (b *phastBuilder) Freeze(load float64) (mph, error) {
	cfg := phast.Config{}
	if load > 0 && load < 1 {
		cfg.BitsPerSeed = 8
		cfg.BucketSize100 = uint16(phast.BitsPerSeedTo100BucketSize(cfg.BitsPerSeed))
		if load < 0.85 {
			cfg.BucketSize100 = uint16(float64(cfg.BucketSize100) * (load / 0.85))
		}
	}
	f := phast.Build(b.keys, cfg)
	return f, nil
}
