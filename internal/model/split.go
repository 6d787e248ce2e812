package model

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// TrainTestSplit shuffles 0..n-1 with a source seeded by seed and returns
// the training and test index sets. The test set takes the first
// ceil(n*testSize) shuffled indices. Both sets come back sorted.
func TrainTestSplit(n int, testSize float64, seed uint64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0,1), got %v", testSize)
	}
	if n < 2 {
		return nil, nil, fmt.Errorf("splitting %d rows: need at least 2", n)
	}
	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest >= n {
		nTest = n - 1
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	test = append([]int(nil), perm[:nTest]...)
	train = append([]int(nil), perm[nTest:]...)
	sort.Ints(test)
	sort.Ints(train)
	return train, test, nil
}
