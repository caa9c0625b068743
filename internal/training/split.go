package training

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Partition holds row indices for the training and held-out sets, each in
// ascending order.
type Partition struct {
	Train []int
	Test  []int
}

// Split shuffles 0..n-1 with a seeded source and holds out ceil(n*testRatio)
// rows. The same n, ratio and seed always give the same partition.
func Split(n int, testRatio float64, seed int64) (Partition, error) {
	if testRatio <= 0 || testRatio >= 1 {
		return Partition{}, fmt.Errorf("test ratio must be in (0, 1), got %v", testRatio)
	}
	nTest := int(math.Ceil(float64(n)*testRatio - 1e-9))
	if n < 2 || nTest < 1 || nTest >= n {
		return Partition{}, fmt.Errorf("%w: %d rows cannot be split with test ratio %v", ErrInsufficientData, n, testRatio)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	p := Partition{
		Test:  append([]int(nil), perm[:nTest]...),
		Train: append([]int(nil), perm[nTest:]...),
	}
	sort.Ints(p.Test)
	sort.Ints(p.Train)
	return p, nil
}
