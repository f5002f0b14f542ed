package linear

import (
	"bytes"
	"encoding/gob"

	"github.com/alineAssuncao/kaggle-regression-lab/preprocessing"
)

// polyRegGobState carries the fitted basis and the inner solver, which
// live in unexported fields. Exactly one of OLS and Ridge is set.
type polyRegGobState struct {
	Degree int
	Alpha  float64
	Poly   *preprocessing.PolynomialFeatures
	OLS    *LinearRegression
	Ridge  *Ridge
	Fitted bool
}

// GobEncode serializes the model, including the fitted basis and the
// inner linear solver.
func (pr *PolynomialRegression) GobEncode() ([]byte, error) {
	state := polyRegGobState{
		Degree: pr.Degree,
		Alpha:  pr.Alpha,
		Poly:   pr.poly,
		Fitted: pr.IsFitted(),
	}
	switch inner := pr.inner.(type) {
	case *LinearRegression:
		state.OLS = inner
	case *Ridge:
		state.Ridge = inner
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores a model written by GobEncode.
func (pr *PolynomialRegression) GobDecode(data []byte) error {
	var state polyRegGobState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return err
	}
	pr.Degree = state.Degree
	pr.Alpha = state.Alpha
	pr.poly = state.Poly
	pr.inner = nil
	if state.OLS != nil {
		pr.inner = state.OLS
	}
	if state.Ridge != nil {
		pr.inner = state.Ridge
	}
	pr.Reset()
	if state.Fitted {
		pr.SetFitted()
	}
	return nil
}
