package preprocessing

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// PolynomialFeatures expands an input matrix with all monomials of
// the input features up to Degree, including interaction terms.
//
// The output column order is the graded lexicographic order produced
// by enumerating exponent vectors degree by degree, which matches the
// common convention of placing the bias term first, then the raw
// features, then the higher order terms.
type PolynomialFeatures struct {
	model.BaseEstimator

	// Degree is the maximum total degree of the generated monomials.
	Degree int

	// IncludeBias controls whether a constant column of ones is
	// prepended to the output.
	IncludeBias bool

	nFeatures int
	exponents [][]int
}

// NewPolynomialFeatures creates a PolynomialFeatures transformer of the
// given degree with a bias column.
func NewPolynomialFeatures(degree int) *PolynomialFeatures {
	return &PolynomialFeatures{Degree: degree, IncludeBias: true}
}

// Fit records the input width and enumerates the output monomials.
func (p *PolynomialFeatures) Fit(X mat.Matrix) error {
	if p.Degree < 1 {
		return errors.NewValidationError("degree", "must be at least 1", p.Degree)
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("PolynomialFeatures.Fit", "empty input", errors.ErrEmptyData)
	}

	p.nFeatures = c
	p.exponents = nil
	lowest := 1
	if p.IncludeBias {
		lowest = 0
	}
	for d := lowest; d <= p.Degree; d++ {
		p.exponents = append(p.exponents, exponentVectors(c, d)...)
	}

	p.SetFitted()
	return nil
}

// Transform expands X into the fitted monomial basis.
func (p *PolynomialFeatures) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PolynomialFeatures", "Transform")
	}
	r, c := X.Dims()
	if c != p.nFeatures {
		return nil, errors.NewDimensionError("PolynomialFeatures.Transform", p.nFeatures, c, 1)
	}

	result := mat.NewDense(r, len(p.exponents), nil)
	for i := 0; i < r; i++ {
		for k, exp := range p.exponents {
			v := 1.0
			for j, e := range exp {
				x := X.At(i, j)
				for n := 0; n < e; n++ {
					v *= x
				}
			}
			result.Set(i, k, v)
		}
	}
	return result, nil
}

// FitTransform fits the transformer and transforms X in one call.
func (p *PolynomialFeatures) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// NumOutputFeatures returns the width of the transformed matrix.
func (p *PolynomialFeatures) NumOutputFeatures() int {
	return len(p.exponents)
}

// FeatureNames renders the monomial names built from the given input
// names, e.g. "1", "area", "area^2", "area*rooms".
func (p *PolynomialFeatures) FeatureNames(input []string) ([]string, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PolynomialFeatures", "FeatureNames")
	}
	if len(input) != p.nFeatures {
		return nil, errors.NewDimensionError("PolynomialFeatures.FeatureNames", p.nFeatures, len(input), 1)
	}

	names := make([]string, 0, len(p.exponents))
	for _, exp := range p.exponents {
		var parts []string
		for j, e := range exp {
			switch {
			case e == 1:
				parts = append(parts, input[j])
			case e > 1:
				parts = append(parts, fmt.Sprintf("%s^%d", input[j], e))
			}
		}
		if len(parts) == 0 {
			names = append(names, "1")
			continue
		}
		names = append(names, strings.Join(parts, "*"))
	}
	return names, nil
}

// polyGobState is the serializable form of the transformer: the fitted
// input width and exponent table live in unexported fields.
type polyGobState struct {
	Degree      int
	IncludeBias bool
	NFeatures   int
	Exponents   [][]int
	Fitted      bool
}

// GobEncode serializes the transformer, including the fitted basis.
func (p *PolynomialFeatures) GobEncode() ([]byte, error) {
	state := polyGobState{
		Degree:      p.Degree,
		IncludeBias: p.IncludeBias,
		NFeatures:   p.nFeatures,
		Exponents:   p.exponents,
		Fitted:      p.IsFitted(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores a transformer written by GobEncode.
func (p *PolynomialFeatures) GobDecode(data []byte) error {
	var state polyGobState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return err
	}
	p.Degree = state.Degree
	p.IncludeBias = state.IncludeBias
	p.nFeatures = state.NFeatures
	p.exponents = state.Exponents
	p.Reset()
	if state.Fitted {
		p.SetFitted()
	}
	return nil
}

// exponentVectors enumerates all exponent vectors of length n whose
// entries sum to exactly degree, in lexicographic order of the first
// feature having the highest exponent.
func exponentVectors(n, degree int) [][]int {
	if n == 1 {
		return [][]int{{degree}}
	}
	var out [][]int
	for e := degree; e >= 0; e-- {
		for _, rest := range exponentVectors(n-1, degree-e) {
			vec := make([]int, 0, n)
			vec = append(vec, e)
			vec = append(vec, rest...)
			out = append(out, vec)
		}
	}
	return out
}
