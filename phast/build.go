package phast

import (
	"sort"

	"github.com/opencoff/go-succinct/seeds"
)

// weights is the bucket-to-activate evaluator table: weights[i] scores
// a bucket of size i+1 (extrapolated linearly past the table's end),
// keyed by seed width and slice length.
type weights [7]int64

func weightsFor(bitsPerSeed uint8, sliceLen uint16) weights {
	small := sliceLen <= 512
	switch {
	case bitsPerSeed <= 4 && small:
		return weights{-126969, 15686, 67995, 99429, 116711, 218955, 233075}
	case bitsPerSeed <= 4:
		return weights{-67844, 12942, 103312, 155604, 191240, 199105, 203210}
	case bitsPerSeed == 5 && small:
		return weights{-125171, 31908, 74770, 100065, 115115, 126729, 164878}
	case bitsPerSeed == 5:
		return weights{-61359, 22918, 98732, 144970, 180112, 206496, 225555}
	case bitsPerSeed == 6 && small:
		return weights{-67857, 49430, 91006, 113610, 131179, 139109, 265291}
	case bitsPerSeed == 6:
		return weights{-54990, 35659, 103915, 146017, 172731, 196182, 221450}
	case bitsPerSeed == 7 && small:
		return weights{-67100, 66220, 100180, 115051, 131394, 142288, 148202}
	case bitsPerSeed == 7:
		return weights{-54348, 50410, 106437, 141724, 167803, 184975, 200762}
	case bitsPerSeed == 8 && small:
		return weights{-61642, 85224, 112939, 129036, 140809, 150323, 155582}
	case bitsPerSeed == 8:
		return weights{-52442, 60938, 110037, 140343, 163340, 180429, 192161}
	case bitsPerSeed == 9 && small:
		return weights{-60668, 86903, 117046, 132208, 140749, 149552, 153428}
	case bitsPerSeed == 9:
		return weights{-63810, 64097, 116638, 143572, 162978, 179283, 187029}
	case small:
		return weights{-65892, 66203, 136361, 155795, 162095, 171627, 174716}
	default:
		return weights{-66184, 64417, 120321, 146569, 163302, 179408, 185470}
	}
}

func (w weights) eval(bucketNr, bucketSize int) int64 {
	var sw int64
	if bucketSize-1 < len(w) {
		sw = w[bucketSize-1]
	} else {
		l, p := w[len(w)-1], w[len(w)-2]
		sw = int64(l) + int64(l-p)*int64(bucketSize-len(w))
	}
	return sw - 1024*int64(bucketNr)
}

// Config controls a Build.
type Config struct {
	BitsPerSeed       uint8  // seed width; 0 selects 8
	BucketSize100     uint16 // keys per bucket x100; 0 selects the table default
	PreferredSliceLen uint16

	// MaxBumpTiers bounds recursive bump-tier depth before falling
	// back to an exact overflow map; 0 selects 4.
	MaxBumpTiers int

	// K lets more than one key settle on the same output position --
	// a "k-perfect" hash over ceil(len(keys)/K) positions instead of
	// an injection over len(keys) of them. 0 or 1 selects the classic
	// injective PHast.
	K uint8
}

func (c Config) withDefaults() Config {
	if c.BitsPerSeed == 0 {
		c.BitsPerSeed = 8
	}
	if c.BucketSize100 == 0 {
		c.BucketSize100 = BitsPerSeedTo100BucketSize(c.BitsPerSeed)
	}
	if c.MaxBumpTiers == 0 {
		c.MaxBumpTiers = 4
	}
	if c.K == 0 {
		c.K = 1
	}
	return c
}

// Function is a built PHast map: for K==1, an injection from a set of
// (already hashed) uint64 keys into [0, OutputRange()); for K>1, a map
// into [0, OutputRange()) where every position receives at most K keys.
type Function struct {
	conf        Conf
	bitsPerSeed uint8
	k           uint8
	seedVec     seeds.Vec

	// freeList/freeLen describe the output positions left unclaimed by
	// seedVec, only populated when bump != nil. bump.Get(key) returns
	// an index into freeList, not a final position -- Get translates
	// through freeList to stay within [0, OutputRange()).
	freeList CompressedArray
	freeLen  int
	bump     *Function

	// overflow is an exact fallback: key -> final output position, for
	// keys neither a seed nor (for K==1) a bump tier could place.
	overflow map[uint64]int
}

// Build assigns each key in keys (pre-hashed to uint64, duplicates not
// permitted) an output position in [0, OutputRange()).
func Build(keys []uint64, cfg Config) *Function {
	return build(keys, cfg.withDefaults(), 0)
}

// build is Build's recursive worker; tier counts how deep the bump
// chain has gone so it can hand off to the exact overflow fallback
// once cfg.MaxBumpTiers is reached.
func build(keys []uint64, cfg Config, tier int) *Function {
	n := len(keys)
	outputRange := n
	if cfg.K > 1 {
		outputRange = (n + int(cfg.K) - 1) / int(cfg.K)
	}

	sliceLen := SliceLenFor(outputRange, cfg.BitsPerSeed, cfg.PreferredSliceLen)
	conf := NewConf(outputRange, n, cfg.BucketSize100, sliceLen, 0)

	buckets := make([][]uint64, conf.BucketsNum)
	for _, k := range keys {
		b := conf.BucketFor(k)
		buckets[b] = append(buckets[b], k)
	}

	w := weightsFor(cfg.BitsPerSeed, sliceLen)
	order := make([]int, 0, conf.BucketsNum)
	for b, ks := range buckets {
		if len(ks) > 0 {
			order = append(order, b)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		si, sj := order[i], order[j]
		vi, vj := w.eval(si, len(buckets[si])), w.eval(sj, len(buckets[sj]))
		if vi != vj {
			return vi > vj
		}
		return si < sj
	})

	var used UsedValues
	if cfg.K > 1 {
		used = NewMultiset(outputRange, cfg.K)
	} else {
		used = NewSet(outputRange)
	}
	seedSize := seeds.Pick((uint32(1) << cfg.BitsPerSeed) - 1)
	seedVec := seedSize.NewVec(conf.BucketsNum)

	var bumped []uint64
	for _, b := range order {
		ks := buckets[b]
		seed := BestSeed(conf, ks, used, cfg.BitsPerSeed)
		if seed == 0 {
			bumped = append(bumped, ks...)
			continue
		}
		seedVec.Set(b, uint32(seed))
	}

	f := &Function{conf: conf, bitsPerSeed: cfg.BitsPerSeed, k: cfg.K, seedVec: seedVec}
	if len(bumped) > 0 {
		free := collectFree(used, outputRange)
		if cfg.K > 1 {
			// Multiset capacity makes a true bump tier unnecessary in
			// practice; fall straight to the exact map, spreading
			// overflow keys across whatever capacity remains.
			f.overflow = make(map[uint64]int, len(bumped))
			j := 0
			for _, key := range bumped {
				for used.Contains(int(free[j%len(free)])) {
					j++
				}
				pos := int(free[j%len(free)])
				used.Add(pos)
				f.overflow[key] = pos
				j++
			}
		} else {
			f.resolveBump(bumped, free, cfg, tier)
		}
	}
	return f
}

// collectFree returns the output positions (ascending) that used never
// reported as fully claimed -- exactly the range a bump tier or the
// overflow fallback may still hand out.
func collectFree(used UsedValues, outputRange int) []uint64 {
	free := make([]uint64, 0, outputRange)
	for i := 0; i < outputRange; i++ {
		if !used.Contains(i) {
			free = append(free, uint64(i))
		}
	}
	return free
}

// resolveBump either recurses into a fresh PHast pass over keys (indexing
// into free via the inner Function's own output) or, once MaxBumpTiers is
// reached, assigns each key one of the free positions directly. Either
// way every key still resolves to a position in f.conf.OutputRange(0):
// free is exactly the set of positions the seed table left unclaimed, so
// compressing it (via an EliasFanoArray, since it is strictly
// increasing) and indexing into it is what keeps the bump tiers from
// spilling output past the function's declared range.
func (f *Function) resolveBump(keys []uint64, free []uint64, cfg Config, tier int) {
	if tier+1 >= cfg.MaxBumpTiers {
		f.overflow = make(map[uint64]int, len(keys))
		for i, key := range keys {
			f.overflow[key] = int(free[i])
		}
		return
	}
	f.freeLen = len(free)
	f.freeList = NewEliasFanoArray(free, uint64(f.conf.OutputRange(0)))
	f.bump = build(keys, cfg, tier+1)
}

// Get returns key's assigned output position. A key that was never
// part of the construction is not detected as such: it usually gets
// some other key's position, and -1 only when it reaches the exact
// overflow fallback, which has no entry for it.
func (f *Function) Get(key uint64) int {
	b := f.conf.BucketFor(key)
	seed := uint16(f.seedVec.Get(b))
	if seed != 0 {
		return f.conf.F(key, seed)
	}
	if f.bump != nil {
		return f.freeList.Get(f.bump.Get(key))
	}
	if pos, ok := f.overflow[key]; ok {
		return pos
	}
	return -1
}

// Len reports the function's output range. For K==1 every position in
// that range is claimed by exactly one key; for K>1 a position may be
// claimed by up to K.
func (f *Function) Len() int { return f.OutputRange() }

// Find is Get, named to match the teacher's CHD query method so callers
// that abstract over both MPHF backends (see csfdb) can share one
// interface.
func (f *Function) Find(key uint64) uint64 { return uint64(f.Get(key)) }

// OutputRange returns the number of distinct positions Get can return.
func (f *Function) OutputRange() int { return f.conf.OutputRange(0) }

// K returns the maximum number of keys any one output position may
// carry (1 for the classic injective construction).
func (f *Function) K() uint8 { return f.k }
