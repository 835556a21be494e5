package rankselect

import "sort"

// Selector adds a select(rank) strategy on top of a RankSelect's rank index.
type Selector interface {
	build(rs *RankSelect)
	selectFrom(rs *RankSelect, rank uint64) (pos uint64, ok bool)
}

// BinarySearchOverRanks finds the position of the rank-th set bit by
// binary-searching the monotone Rank function directly; it needs no
// extra storage but costs O(log n) per query.
type BinarySearchOverRanks struct{}

func (BinarySearchOverRanks) build(*RankSelect) {}

func (BinarySearchOverRanks) selectFrom(rs *RankSelect, rank uint64) (uint64, bool) {
	n := int(rs.nbits)
	pos := sort.Search(n, func(i int) bool {
		return rs.Rank(uint64(i)+1) > rank
	})
	if pos >= n {
		return 0, false
	}
	return uint64(pos), true
}

// defaultSelectDensity is the number of set bits between consecutive
// select samples, matching the Rust original's own CombinedSampling
// default (the spec leaves the density unspecified).
const defaultSelectDensity = 8192

// CombinedSampling precomputes the position of every Density-th set bit,
// then narrows a select(rank) query to the interval between two samples
// before scanning for the exact bit. Density defaults to 8192 when zero.
type CombinedSampling struct {
	Density uint64

	samples []uint64 // samples[k] = position of the (k*Density)-th one bit
}

func (c *CombinedSampling) build(rs *RankSelect) {
	if c.Density == 0 {
		c.Density = defaultSelectDensity
	}
	if rs.total == 0 {
		return
	}
	nsamples := (rs.total-1)/c.Density + 1
	c.samples = make([]uint64, 0, nsamples)
	var seen uint64
	for i := uint64(0); i < rs.nbits; i++ {
		if rs.content.GetBit(i) {
			if seen%c.Density == 0 {
				c.samples = append(c.samples, i)
			}
			seen++
		}
	}
}

func (c *CombinedSampling) selectFrom(rs *RankSelect, rank uint64) (uint64, bool) {
	if rank >= rs.total {
		return 0, false
	}
	k := rank / c.Density
	lo := c.samples[k]
	hi := rs.nbits
	if k+1 < uint64(len(c.samples)) {
		hi = c.samples[k+1] + 1
	}
	target := rank - rs.Rank(lo)
	var seen uint64
	for i := lo; i < hi; i++ {
		if rs.content.GetBit(i) {
			if seen == target {
				return i, true
			}
			seen++
		}
	}
	return 0, false
}
