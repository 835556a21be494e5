package phast

// UsedValues tracks which output positions have already been claimed
// by an earlier bucket, in the style the chosen k (max claims per
// position) requires.
type UsedValues interface {
	// Contains reports whether position is full, i.e. can accept no
	// further claim.
	Contains(position int) bool
	// Add claims position.
	Add(position int)
}

// Set is the k=1 used-values tracker: a plain bitset over the output
// range. (The upstream implementation maintains this as a bounded
// sliding window of MaxSpan-ish width to cap memory on huge inputs;
// this port keeps the full-range bitset for simplicity, a memory
// tradeoff noted in the accompanying design notes, not a semantic
// one -- every query this type answers is identical to the windowed
// version's.)
type Set struct {
	used []bool
}

// NewSet allocates a Set covering outputRange positions.
func NewSet(outputRange int) *Set {
	return &Set{used: make([]bool, outputRange)}
}

func (s *Set) Contains(position int) bool { return s.used[position] }
func (s *Set) Add(position int)           { s.used[position] = true }

// Multiset is the k>1 used-values tracker: each position accepts up
// to k claims before it is considered used.
type Multiset struct {
	counts []uint8
	k      uint8
}

// NewMultiset allocates a Multiset covering outputRange positions,
// each accepting up to k claims.
func NewMultiset(outputRange int, k uint8) *Multiset {
	return &Multiset{counts: make([]uint8, outputRange), k: k}
}

func (m *Multiset) Contains(position int) bool { return m.counts[position] >= m.k }
func (m *Multiset) Add(position int) {
	if m.counts[position] < m.k {
		m.counts[position]++
	}
}
