package phast

import "sort"

// BestSeed searches seeds 1..2^bitsPerSeed-1 (seed 0 is reserved to mean
// "bumped") for the one assigning every key in the bucket to a
// distinct, unclaimed output position, minimising the sum of
// positions among all seeds that qualify (a tie-break that tends to
// leave more headroom for later buckets). It returns 0 if no seed
// qualifies. On success, the winning seed's positions are committed
// into used.
func BestSeed(conf Conf, keys []uint64, used UsedValues, bitsPerSeed uint8) uint16 {
	bestSeed := uint16(0)
	bestValue := int(^uint(0) >> 1) // max int
	positions := make([]int, len(keys))
	scratch := make([]int, len(keys))

	seedsNum := uint32(1) << bitsPerSeed
	for seed := uint16(1); uint32(seed) < seedsNum; seed++ {
		ok := true
		sum := 0
		for i, k := range keys {
			pos := conf.F(k, seed)
			if used.Contains(pos) {
				ok = false
				break
			}
			positions[i] = pos
			sum += pos
		}
		if !ok {
			continue
		}
		if sum >= bestValue {
			continue
		}
		copy(scratch, positions)
		sort.Ints(scratch)
		collided := false
		for i := 1; i < len(scratch); i++ {
			if scratch[i-1] == scratch[i] {
				collided = true
				break
			}
		}
		if collided {
			continue
		}
		bestValue = sum
		bestSeed = seed
	}

	if bestSeed != 0 {
		for _, k := range keys {
			used.Add(conf.F(k, bestSeed))
		}
	}
	return bestSeed
}
