// Package modelselection provides dataset splitting utilities used to
// hold out evaluation data and to run cross validation.
package modelselection

import (
	"math"
	"math/rand"

	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// TrainTestSplit shuffles the row indices 0..n-1 with the given seed
// and splits them into a training set and a test set. The training set
// holds round(trainRatio * n) rows.
//
// Both subsets must be non-empty; ratios that leave either side empty
// are rejected.
func TrainTestSplit(n int, trainRatio float64, seed int64) (train, test []int, err error) {
	if n <= 1 {
		return nil, nil, errors.NewValidationError("n", "need at least 2 rows to split", n)
	}
	if trainRatio <= 0 || trainRatio >= 1 {
		return nil, nil, errors.NewValidationError("train_ratio", "must be in (0, 1)", trainRatio)
	}

	nTrain := int(math.Round(trainRatio * float64(n)))
	if nTrain == 0 || nTrain == n {
		return nil, nil, errors.NewValidationError("train_ratio", "split leaves an empty subset", trainRatio)
	}

	idx := shuffledIndices(n, seed)
	train = append([]int(nil), idx[:nTrain]...)
	test = append([]int(nil), idx[nTrain:]...)
	return train, test, nil
}

// Fold is one cross validation fold: the training indices and the
// held-out test indices.
type Fold struct {
	Train []int
	Test  []int
}

// KFold splits the row indices 0..n-1 into k shuffled folds. The first
// n mod k folds receive one extra row, so every row appears in exactly
// one test set.
func KFold(n, k int, seed int64) ([]Fold, error) {
	if k < 2 {
		return nil, errors.NewValidationError("k", "need at least 2 folds", k)
	}
	if n < k {
		return nil, errors.NewValidationError("n", "need at least one row per fold", n)
	}

	idx := shuffledIndices(n, seed)

	folds := make([]Fold, 0, k)
	base := n / k
	extra := n % k
	start := 0
	for f := 0; f < k; f++ {
		size := base
		if f < extra {
			size++
		}
		testIdx := append([]int(nil), idx[start:start+size]...)
		trainIdx := make([]int, 0, n-size)
		trainIdx = append(trainIdx, idx[:start]...)
		trainIdx = append(trainIdx, idx[start+size:]...)
		folds = append(folds, Fold{Train: trainIdx, Test: testIdx})
		start += size
	}
	return folds, nil
}

// shuffledIndices returns a seeded random permutation of 0..n-1.
func shuffledIndices(n int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng.Shuffle(n, func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
	return idx
}
