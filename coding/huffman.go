package coding

import "container/heap"

// CountFrequencies tallies occurrences of each distinct item, returning
// the distinct values and their counts in the same (arbitrary but
// stable) order, ready to pass to Build.
func CountFrequencies[V comparable](items []V) (values []V, weights []uint64) {
	counts := make(map[V]uint64, len(items))
	order := make([]V, 0, len(items))
	for _, v := range items {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	weights = make([]uint64, len(order))
	for i, v := range order {
		weights[i] = counts[v]
	}
	return order, weights
}

// huffmanNode is either a leaf (origIndex >= 0) or an internal node
// produced by merging Degree smaller nodes (children != nil).
type huffmanNode struct {
	weight    uint64
	origIndex int // -1 for internal nodes and padding leaves
	children  []*huffmanNode
}

type nodeHeap []*huffmanNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].weight < h[j].weight }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*huffmanNode)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Build constructs a canonical coding for values, weighted by weights
// (len(values) == len(weights)), using fragmentBits bits per codeword
// fragment (tree degree 2^fragmentBits). Lower weight means the value
// is rarer and gets a longer codeword, as in standard Huffman coding.
func Build[V any](values []V, weights []uint64, fragmentBits uint8) *Coding[V] {
	n := len(values)
	c := &Coding[V]{FragmentBits: fragmentBits}
	if n == 0 {
		return c
	}
	if n == 1 {
		c.single = true
		c.Values = []V{values[0]}
		c.Present = []bool{true}
		c.Codes = []Code{{}}
		return c
	}

	degree := uint64(1) << fragmentBits

	h := make(nodeHeap, 0, n)
	for i := 0; i < n; i++ {
		h = append(h, &huffmanNode{weight: weights[i], origIndex: i})
	}
	// Pad with zero-weight dummy leaves so merging by groups of
	// `degree` ends in exactly one root (classic D-ary Huffman
	// padding: total leaf count must be 1 (mod degree-1)).
	for (uint64(len(h))-1)%(degree-1) != 0 {
		h = append(h, &huffmanNode{weight: 0, origIndex: -1})
	}
	heap.Init(&h)

	for h.Len() > 1 {
		children := make([]*huffmanNode, 0, degree)
		var sum uint64
		for i := uint64(0); i < degree; i++ {
			node := heap.Pop(&h).(*huffmanNode)
			sum += node.weight
			children = append(children, node)
		}
		heap.Push(&h, &huffmanNode{weight: sum, origIndex: -1, children: children})
	}
	root := h[0]

	b := &huffmanBuilder[V]{values: values, fragmentBits: fragmentBits}
	b.run(root)
	c.Values = b.outValues
	c.Present = b.outPresent
	c.Codes = make([]Code, n)
	for origIdx, code := range b.codeByOrig {
		c.Codes[origIdx] = code
	}
	c.InternalNodesCount = b.internalCounts
	return c
}

type huffmanBuilder[V any] struct {
	values         []V
	fragmentBits   uint8
	outValues      []V
	outPresent     []bool
	internalCounts []uint32
	codeByOrig     map[int]Code
}

// run performs the BFS used by Build: at each level, the node list is
// partitioned into internal nodes (which expand into the next level)
// followed by leaves (which are emitted, in order, into outValues).
// This invariant is exactly what Decoder.Consume relies on.
func (b *huffmanBuilder[V]) run(root *huffmanNode) {
	b.codeByOrig = make(map[int]Code)
	if root.children == nil {
		// degenerate: a single merge round produced a leaf-only root;
		// only possible if n < degree, handled as a one-level tree.
		b.emitLevel([]*huffmanNode{root})
		return
	}
	level := root.children
	for len(level) > 0 {
		internalNodes, leafNodes := partition(level)
		b.internalCounts = append(b.internalCounts, uint32(len(internalNodes)))
		b.emitLevel(leafNodes)
		for i, leaf := range leafNodes {
			b.recordCode(leaf, uint32(len(internalNodes)+i), uint32(len(b.internalCounts)))
		}
		next := make([]*huffmanNode, 0, len(internalNodes)*len(root.children))
		for _, in := range internalNodes {
			next = append(next, in.children...)
		}
		level = next
	}
}

func partition(level []*huffmanNode) (internal, leaves []*huffmanNode) {
	for _, n := range level {
		if n.children != nil {
			internal = append(internal, n)
		} else {
			leaves = append(leaves, n)
		}
	}
	return internal, leaves
}

// emitLevel appends one level's leaves to outValues/outPresent, in the
// same left-to-right order run walks them. Dummy padding leaves get a
// zero V and Present=false, so Decoder.Consume can tell a codeword
// that only ever existed to keep the tree Degree-ary from one that
// was actually assigned to a value.
func (b *huffmanBuilder[V]) emitLevel(leaves []*huffmanNode) {
	for _, leaf := range leaves {
		if leaf.origIndex >= 0 {
			b.outValues = append(b.outValues, b.values[leaf.origIndex])
			b.outPresent = append(b.outPresent, true)
		} else {
			var zero V
			b.outValues = append(b.outValues, zero)
			b.outPresent = append(b.outPresent, false)
		}
	}
}

// recordCode reconstructs the fragment sequence for a leaf given its
// shift (node index within its level) and depth in fragments, per the
// shift_L = degree*shift_{L-1} + fragment_L relationship.
func (b *huffmanBuilder[V]) recordCode(leaf *huffmanNode, shift, depth uint32) {
	if leaf.origIndex < 0 {
		return
	}
	degree := uint32(1) << b.fragmentBits
	frags := make([]uint32, depth)
	s := shift
	for i := int(depth) - 1; i >= 1; i-- {
		frags[i] = s % degree
		s /= degree
	}
	frags[0] = s
	var code Code
	for _, f := range frags {
		code.Push(f, b.fragmentBits)
	}
	b.codeByOrig[leaf.origIndex] = code
}
