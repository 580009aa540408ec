package classify

import (
	"math"
	"math/rand/v2"
)

// trainTestSplit shuffles row indices with a seeded generator and reserves
// ceil(testFraction*n) of them for evaluation. Both partitions are kept
// non-empty. n must be at least 2.
func trainTestSplit(n int, testFraction float64, seed uint64) (train, test []int) {
	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	if nTest > n-1 {
		nTest = n - 1
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)
	return perm[nTest:], perm[:nTest]
}
