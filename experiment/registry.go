package experiment

import (
	"sort"

	"github.com/samber/lo"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/ensemble"
	"github.com/alineAssuncao/kaggle-regression-lab/linear"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
	"github.com/alineAssuncao/kaggle-regression-lab/tree"
)

// Family identifies a regression model family.
type Family string

const (
	// FamilyLinear is ordinary least squares, or ridge when alpha > 0.
	FamilyLinear Family = "linear"
	// FamilyPolynomial is a polynomial basis expansion over a linear
	// solver.
	FamilyPolynomial Family = "polynomial"
	// FamilyDecisionTree is a single CART regression tree.
	FamilyDecisionTree Family = "decision_tree"
	// FamilyRandomForest averages bootstrapped trees.
	FamilyRandomForest Family = "random_forest"
	// FamilyGradientBoosting is boosted trees with shrinkage and L2
	// leaf regularization.
	FamilyGradientBoosting Family = "gradient_boosting"
)

// builders maps each family to its constructor. The pipeline only sees
// the Regressor interface, so no family is special-cased downstream.
var builders = map[Family]func(ModelConfig) model.Regressor{
	FamilyLinear: func(mc ModelConfig) model.Regressor {
		if mc.Alpha > 0 {
			return linear.NewRidge(mc.Alpha)
		}
		return linear.NewLinearRegression()
	},
	FamilyPolynomial: func(mc ModelConfig) model.Regressor {
		pr := linear.NewPolynomialRegression(mc.Degree)
		pr.Alpha = mc.Alpha
		return pr
	},
	FamilyDecisionTree: func(mc ModelConfig) model.Regressor {
		return tree.NewDecisionTreeRegressor(
			tree.WithMaxDepth(mc.MaxDepth),
			tree.WithMinSamplesSplit(mc.MinSamplesSplit),
			tree.WithMinSamplesLeaf(mc.MinSamplesLeaf),
			tree.WithMaxFeatures(mc.MaxFeatures),
		)
	},
	FamilyRandomForest: func(mc ModelConfig) model.Regressor {
		rf := ensemble.NewRandomForestRegressor()
		rf.NEstimators = mc.NEstimators
		rf.MaxDepth = mc.MaxDepth
		rf.MinSamplesSplit = mc.MinSamplesSplit
		rf.MinSamplesLeaf = mc.MinSamplesLeaf
		rf.MaxFeatures = mc.MaxFeatures
		rf.Verbose = mc.Verbose
		return rf
	},
	FamilyGradientBoosting: func(mc ModelConfig) model.Regressor {
		gb := ensemble.NewGradientBoostingRegressor()
		gb.NEstimators = mc.NEstimators
		gb.LearningRate = mc.LearningRate
		gb.MaxDepth = mc.MaxDepth
		gb.MinSamplesSplit = mc.MinSamplesSplit
		gb.MinSamplesLeaf = mc.MinSamplesLeaf
		gb.Subsample = mc.Subsample
		gb.Lambda = mc.Lambda
		gb.Verbose = mc.Verbose
		return gb
	},
}

// NewRegressor builds the regressor selected by mc. Ensemble seeds are
// taken from the split seed so a run is reproducible end to end.
func NewRegressor(mc ModelConfig, seed int64) (model.Regressor, error) {
	build, ok := builders[Family(mc.Family)]
	if !ok {
		return nil, errors.NewValidationError("model.family", "unknown family", mc.Family)
	}
	reg := build(mc)
	switch m := reg.(type) {
	case *tree.DecisionTreeRegressor:
		m.RandomState = seed
	case *ensemble.RandomForestRegressor:
		m.RandomState = seed
	case *ensemble.GradientBoostingRegressor:
		m.RandomState = seed
	}
	return reg, nil
}

// FamilyNames lists the registered families in stable order.
func FamilyNames() []string {
	names := lo.Map(lo.Keys(builders), func(f Family, _ int) string { return string(f) })
	sort.Strings(names)
	return names
}

func knownFamily(name string) bool {
	_, ok := builders[Family(name)]
	return ok
}
