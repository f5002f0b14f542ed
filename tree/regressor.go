// Package tree implements a CART regression tree that splits on
// variance reduction. The tree accepts NaN feature values: rows with a
// missing value at a split are routed to the larger child.
package tree

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// DecisionTreeRegressor is a CART-style regression tree.
type DecisionTreeRegressor struct {
	model.BaseEstimator

	// MaxDepth limits the tree depth (root depth 0). 0 means no limit.
	MaxDepth int

	// MinSamplesSplit is the minimum number of samples required to
	// attempt a split.
	MinSamplesSplit int

	// MinSamplesLeaf is the minimum number of samples in each child.
	MinSamplesLeaf int

	// MaxFeatures is the number of features sampled per split. 0 means
	// all features.
	MaxFeatures int

	// MinImpurityDecrease is the minimal per-sample variance reduction
	// required to accept a split.
	MinImpurityDecrease float64

	// RandomState seeds the feature subsampling.
	RandomState int64

	// LeafLambda is an L2 penalty on the leaf values: a leaf predicts
	// sum(y) / (n + lambda) instead of the plain mean. Zero keeps the
	// mean.
	LeafLambda float64

	// NFeatures is the number of features seen during Fit.
	NFeatures int

	root        *node
	importances []float64
}

type node struct {
	IsLeaf    bool
	Feature   int
	Threshold float64
	Left      *node
	Right     *node

	// N is the number of training samples that reached the node; it
	// drives missing-value routing at prediction time.
	N     int
	Value float64
}

// Option configures a DecisionTreeRegressor.
type Option func(*DecisionTreeRegressor)

// WithMaxDepth limits the depth of the tree.
func WithMaxDepth(d int) Option { return func(t *DecisionTreeRegressor) { t.MaxDepth = d } }

// WithMinSamplesSplit sets the minimum samples needed to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeRegressor) { t.MinSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum samples required in each child.
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeRegressor) { t.MinSamplesLeaf = n }
}

// WithMaxFeatures sets the number of features sampled per split.
func WithMaxFeatures(k int) Option { return func(t *DecisionTreeRegressor) { t.MaxFeatures = k } }

// WithMinImpurityDecrease sets the minimal variance reduction needed
// to accept a split.
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeRegressor) { t.MinImpurityDecrease = v }
}

// WithRandomState seeds the feature subsampling.
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeRegressor) { t.RandomState = seed }
}

// WithLeafRegularization sets the L2 penalty applied to leaf values.
func WithLeafRegularization(lambda float64) Option {
	return func(t *DecisionTreeRegressor) { t.LeafLambda = lambda }
}

// NewDecisionTreeRegressor returns a regressor with deterministic
// defaults: unlimited depth, two samples to split, one sample per leaf
// and all features considered at every split.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	t := &DecisionTreeRegressor{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit grows the tree on X and the column vector y.
func (t *DecisionTreeRegressor) Fit(X, y mat.Matrix) error {
	rows, targets, err := toRows("DecisionTreeRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	_, c := X.Dims()
	t.NFeatures = c

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}

	rng := rand.New(rand.NewSource(t.RandomState))
	t.importances = make([]float64, c)
	t.root = t.build(rows, targets, idx, 0, rng)

	t.SetFitted()
	return nil
}

// Predict returns the leaf values for X as an n×1 matrix.
func (t *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeRegressor", "Predict")
	}
	r, c := X.Dims()
	if c != t.NFeatures {
		return nil, errors.NewDimensionError("DecisionTreeRegressor.Predict", t.NFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		predictions.Set(i, 0, t.predictRow(row))
	}
	return predictions, nil
}

// Score computes R² on the given data.
func (t *DecisionTreeRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !t.IsFitted() {
		return 0, errors.NewNotFittedError("DecisionTreeRegressor", "Score")
	}
	yPred, err := t.Predict(X)
	if err != nil {
		return 0, err
	}
	return r2(y, yPred)
}

// Depth returns the depth of the fitted tree; a lone leaf has depth 0.
func (t *DecisionTreeRegressor) Depth() int {
	return depth(t.root)
}

// NumLeaves returns the number of leaves in the fitted tree.
func (t *DecisionTreeRegressor) NumLeaves() int {
	return countLeaves(t.root)
}

// FeatureImportances returns the per-feature split-gain importances,
// normalized to sum to 1. A tree with no splits returns all zeros.
func (t *DecisionTreeRegressor) FeatureImportances() ([]float64, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeRegressor", "FeatureImportances")
	}
	out := make([]float64, len(t.importances))
	copy(out, t.importances)
	total := 0.0
	for _, v := range out {
		total += v
	}
	if total > 0 {
		for i := range out {
			out[i] /= total
		}
	}
	return out, nil
}

// GetParams returns the model's hyperparameters.
func (t *DecisionTreeRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"max_depth":             t.MaxDepth,
		"min_samples_split":     t.MinSamplesSplit,
		"min_samples_leaf":      t.MinSamplesLeaf,
		"max_features":          t.MaxFeatures,
		"min_impurity_decrease": t.MinImpurityDecrease,
		"random_state":          t.RandomState,
	}
}

func (t *DecisionTreeRegressor) predictRow(row []float64) float64 {
	n := t.root
	for !n.IsLeaf {
		v := row[n.Feature]
		if math.IsNaN(v) {
			// Missing value: follow the child that saw more samples.
			if n.Left.N >= n.Right.N {
				n = n.Left
			} else {
				n = n.Right
			}
			continue
		}
		if v <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func (t *DecisionTreeRegressor) build(rows [][]float64, y []float64, idx []int, d int, rng *rand.Rand) *node {
	nd := &node{N: len(idx), Value: t.leafValue(y, idx)}

	if len(idx) < t.MinSamplesSplit {
		nd.IsLeaf = true
		return nd
	}
	if t.MaxDepth > 0 && d >= t.MaxDepth {
		nd.IsLeaf = true
		return nd
	}

	best := t.findBestSplit(rows, y, idx, rng)
	if best.feature < 0 || best.gain <= t.MinImpurityDecrease {
		nd.IsLeaf = true
		return nd
	}

	// Credit the split's total variance reduction to its feature.
	t.importances[best.feature] += best.gain * float64(len(idx))

	nd.Feature = best.feature
	nd.Threshold = best.threshold
	nd.Left = t.build(rows, y, best.left, d+1, rng)
	nd.Right = t.build(rows, y, best.right, d+1, rng)
	return nd
}

// leafValue computes sum(y)/(n + lambda) over the node's samples.
func (t *DecisionTreeRegressor) leafValue(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / (float64(len(idx)) + t.LeafLambda)
}

type split struct {
	gain      float64
	feature   int
	threshold float64
	left      []int
	right     []int
}

type valueIndex struct {
	v float64
	i int
}

// findBestSplit scans the candidate features for the threshold with
// the largest per-sample variance reduction. Rows whose feature value
// is missing join the larger child.
func (t *DecisionTreeRegressor) findBestSplit(rows [][]float64, y []float64, idx []int, rng *rand.Rand) split {
	best := split{feature: -1}

	p := len(rows[0])
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		rng.Shuffle(p, func(a, b int) {
			features[a], features[b] = features[b], features[a]
		})
		features = features[:t.MaxFeatures]
	}

	total := float64(len(idx))
	parentSSE := sse(y, idx)

	for _, f := range features {
		valid := make([]valueIndex, 0, len(idx))
		var nans []int
		for _, i := range idx {
			v := rows[i][f]
			if math.IsNaN(v) {
				nans = append(nans, i)
				continue
			}
			valid = append(valid, valueIndex{v, i})
		}
		if len(valid) < 2 {
			continue
		}
		sort.Slice(valid, func(a, b int) bool { return valid[a].v < valid[b].v })

		// Prefix sums over the sorted targets let each threshold be
		// scored in constant time.
		prefixSum := make([]float64, len(valid)+1)
		prefixSq := make([]float64, len(valid)+1)
		for s, vi := range valid {
			prefixSum[s+1] = prefixSum[s] + y[vi.i]
			prefixSq[s+1] = prefixSq[s] + y[vi.i]*y[vi.i]
		}
		totalSum := prefixSum[len(valid)]
		totalSq := prefixSq[len(valid)]

		for s := 1; s < len(valid); s++ {
			if valid[s].v == valid[s-1].v {
				continue
			}
			nl, nr := float64(s), float64(len(valid)-s)
			if int(nl) < t.MinSamplesLeaf || int(nr) < t.MinSamplesLeaf {
				continue
			}

			leftSSE := prefixSq[s] - prefixSum[s]*prefixSum[s]/nl
			rightSum := totalSum - prefixSum[s]
			rightSSE := (totalSq - prefixSq[s]) - rightSum*rightSum/nr

			gain := (parentSSE - leftSSE - rightSSE) / total
			if gain > best.gain {
				left := make([]int, 0, s+len(nans))
				right := make([]int, 0, len(valid)-s+len(nans))
				for _, vi := range valid[:s] {
					left = append(left, vi.i)
				}
				for _, vi := range valid[s:] {
					right = append(right, vi.i)
				}
				if len(left) >= len(right) {
					left = append(left, nans...)
				} else {
					right = append(right, nans...)
				}
				best = split{
					gain:      gain,
					feature:   f,
					threshold: (valid[s-1].v + valid[s].v) / 2,
					left:      left,
					right:     right,
				}
			}
		}
	}
	return best
}

// sse computes the sum of squared deviations from the mean.
func sse(y []float64, idx []int) float64 {
	sum, sq := 0.0, 0.0
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	n := float64(len(idx))
	return sq - sum*sum/n
}

func depth(n *node) int {
	if n == nil || n.IsLeaf {
		return 0
	}
	l, r := depth(n.Left), depth(n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func countLeaves(n *node) int {
	if n == nil {
		return 0
	}
	if n.IsLeaf {
		return 1
	}
	return countLeaves(n.Left) + countLeaves(n.Right)
}

// toRows converts X and y into row slices, validating their shapes.
func toRows(op string, X, y mat.Matrix) ([][]float64, []float64, error) {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return nil, nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return nil, nil, errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return nil, nil, errors.NewValueError(op, "y must be a column vector")
	}

	rows := make([][]float64, r)
	targets := make([]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			rows[i][j] = X.At(i, j)
		}
		targets[i] = y.At(i, 0)
	}
	return rows, targets, nil
}

// r2 computes the coefficient of determination of predictions.
func r2(y, yPred mat.Matrix) (float64, error) {
	r, _ := y.Dims()
	mean := 0.0
	for i := 0; i < r; i++ {
		mean += y.At(i, 0)
	}
	mean /= float64(r)

	var tss, rss float64
	for i := 0; i < r; i++ {
		d := y.At(i, 0) - mean
		e := y.At(i, 0) - yPred.At(i, 0)
		tss += d * d
		rss += e * e
	}
	if tss == 0 {
		return 0, errors.Newf("reglab: total sum of squares is zero")
	}
	return 1 - rss/tss, nil
}
